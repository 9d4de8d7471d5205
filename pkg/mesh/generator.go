package mesh

import (
	"math"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/physics"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// Grid resolution. The axial subdivision follows the vessel regions; the
// radial subdivision spans the wall thickness. These counts are fixed: the
// mesh is a visualization artifact and its cost is bounded by
// O(axial * radial * slices).
const (
	RadialNodes        = 5
	CylinderAxialNodes = 15
	DomeAxialNodes     = 12

	// DefaultSlices is the default circumferential resolution of the
	// revolved mesh.
	DefaultSlices = 24

	// bossBlendStart is the dome progress fraction after which the grid
	// radius tapers from the meridian toward the boss bore.
	bossBlendStart = 0.85
)

// Generator builds meshes for one design from a stress field evaluator.
type Generator struct {
	design *vessel.Design
	field  *physics.Field
}

// NewGenerator creates a mesh generator. The field is the single source of
// truth for node stresses and regions.
func NewGenerator(d *vessel.Design, f *physics.Field) *Generator {
	return &Generator{design: d, field: f}
}

// Build2D constructs the structured 2D axisymmetric mesh: a grid of
// (CylinderAxialNodes + DomeAxialNodes) axial stations by RadialNodes
// through-thickness stations, triangulated quad by quad.
func (g *Generator) Build2D() (*FEAMesh, error) {
	profile, err := physics.ProfileFor(g.design)
	if err != nil {
		return nil, err
	}

	dim := g.design.Dimensions
	domeLen := dim.TotalLengthMM - dim.CylinderLengthMM

	type station struct {
		z, rInner float64
	}
	axial := make([]station, 0, CylinderAxialNodes+DomeAxialNodes)

	// Cylinder stations: constant inner radius.
	for i := 0; i < CylinderAxialNodes; i++ {
		z := dim.CylinderLengthMM * float64(i) / float64(CylinderAxialNodes-1)
		axial = append(axial, station{z: z, rInner: dim.InnerRadiusMM})
	}

	// Dome stations: inner radius follows the meridian (mirrored so progress
	// runs junction -> apex), tapering toward the boss bore with a square
	// root blend over the final stretch.
	for i := 1; i <= DomeAxialNodes; i++ {
		q := float64(i) / float64(DomeAxialNodes)
		z := dim.CylinderLengthMM + q*domeLen
		r := physics.RadiusAtDepth(profile, 1-q)
		if q > bossBlendStart {
			blend := math.Sqrt((q - bossBlendStart) / (1 - bossBlendStart))
			r = r*(1-blend) + g.design.Dome.BossBoreMM*blend
		}
		axial = append(axial, station{z: z, rInner: r})
	}

	m := &FEAMesh{}

	// Nodes, row-major: axial station outer loop, radial station inner loop.
	for _, st := range axial {
		for j := 0; j < RadialNodes; j++ {
			f := float64(j) / float64(RadialNodes-1)
			r := st.rInner + f*dim.WallThicknessMM
			stress, _ := g.field.EvalAt(st.z, r)
			m.Nodes = append(m.Nodes, Node{
				ID:     len(m.Nodes),
				R:      r,
				Z:      st.z,
				Stress: stress,
			})
		}
	}

	// Elements: split each grid quad into two triangles. Region and
	// centroid stress come from the quad's corner nodes.
	nAxial := len(axial)
	for i := 0; i < nAxial-1; i++ {
		_, region := g.field.EvalAt((axial[i].z+axial[i+1].z)/2, axial[i].rInner)
		for j := 0; j < RadialNodes-1; j++ {
			a := i*RadialNodes + j
			b := a + 1
			c := (i+1)*RadialNodes + j
			d := c + 1

			m.addElement([3]int{a, b, c}, string(region))
			m.addElement([3]int{b, d, c}, string(region))
		}
	}

	if len(m.Elements) == 0 {
		return nil, errors.New(errors.ErrCodeComputeFault, "mesh generation produced no elements")
	}
	m.Bounds = computeBounds(m.Nodes)
	return m, nil
}

func (m *FEAMesh) addElement(nodes [3]int, region string) {
	s := (m.Nodes[nodes[0]].Stress + m.Nodes[nodes[1]].Stress + m.Nodes[nodes[2]].Stress) / 3
	m.Elements = append(m.Elements, Element{
		ID:             len(m.Elements),
		Nodes:          nodes,
		Region:         region,
		CentroidStress: s,
	})
}

func computeBounds(nodes []Node) Bounds {
	b := Bounds{
		RMin: math.Inf(1), RMax: math.Inf(-1),
		ZMin: math.Inf(1), ZMax: math.Inf(-1),
	}
	for _, n := range nodes {
		b.RMin = math.Min(b.RMin, n.R)
		b.RMax = math.Max(b.RMax, n.R)
		b.ZMin = math.Min(b.ZMin, n.Z)
		b.ZMax = math.Max(b.ZMax, n.Z)
	}
	return b
}

// Revolve replicates the 2D mesh around the symmetry axis at the given
// number of circumferential slices (DefaultSlices when slices <= 0).
//
// Each 2D node appears once per slice at angle theta = 2*pi*i/slices. Each
// 2D triangle is stitched to the next slice as four 3D triangles: the two
// slice copies of the triangle plus two triangles closing one swept edge
// quad. The slice index wraps modulo the slice count, so the resulting
// surface has no circumferential boundary.
func (g *Generator) Revolve(m *FEAMesh, slices int) (*Mesh3D, error) {
	if slices <= 0 {
		slices = DefaultSlices
	}
	if slices < 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"revolution needs at least 3 slices, got %d", slices)
	}

	out := &Mesh3D{
		Slices: slices,
		Nodes:  make([]Node3D, 0, len(m.Nodes)*slices),
	}

	for i := 0; i < slices; i++ {
		theta := 2 * math.Pi * float64(i) / float64(slices)
		sin, cos := math.Sincos(theta)
		for _, n := range m.Nodes {
			out.Nodes = append(out.Nodes, Node3D{
				ID:     len(out.Nodes),
				X:      n.R * cos,
				Y:      n.R * sin,
				Z:      n.Z,
				Stress: n.Stress,
			})
		}
	}

	stride := len(m.Nodes)
	for i := 0; i < slices; i++ {
		next := (i + 1) % slices
		for _, el := range m.Elements {
			a0 := i*stride + el.Nodes[0]
			b0 := i*stride + el.Nodes[1]
			c0 := i*stride + el.Nodes[2]
			a1 := next*stride + el.Nodes[0]
			b1 := next*stride + el.Nodes[1]
			c1 := next*stride + el.Nodes[2]

			for _, tri := range [4][3]int{
				{a0, b0, c0}, // this slice
				{a1, b1, c1}, // next slice
				{a0, b0, a1}, // swept edge quad, split in two
				{b0, b1, a1},
			} {
				out.Elements = append(out.Elements, Element3D{
					ID:             len(out.Elements),
					Nodes:          tri,
					Region:         el.Region,
					CentroidStress: (out.Nodes[tri[0]].Stress + out.Nodes[tri[1]].Stress + out.Nodes[tri[2]].Stress) / 3,
				})
			}
		}
	}

	return out, nil
}
