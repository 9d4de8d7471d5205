package analysis

import (
	"github.com/proaptus/tanklab/pkg/mesh"
)

// ContourPoint is one sample of the flat stress contour, the format the
// first-generation frontend consumed before the triangulated mesh existed.
type ContourPoint struct {
	R      float64 `json:"r"`
	Z      float64 `json:"z"`
	Stress float64 `json:"stress"`
	Region string  `json:"region"`
}

// FlatContour projects the 2D mesh nodes into the legacy flat contour
// format.
//
// The projection is intentionally trivial: it reads node stresses straight
// off the mesh rather than re-evaluating the field, so the flat contour and
// the mesh can never disagree for the same design. The region tag comes
// from the first element touching each node.
func FlatContour(m *mesh.FEAMesh) []ContourPoint {
	regions := make([]string, len(m.Nodes))
	for _, el := range m.Elements {
		for _, idx := range el.Nodes {
			if regions[idx] == "" {
				regions[idx] = el.Region
			}
		}
	}

	points := make([]ContourPoint, len(m.Nodes))
	for i, n := range m.Nodes {
		points[i] = ContourPoint{
			R:      n.R,
			Z:      n.Z,
			Stress: n.Stress,
			Region: regions[i],
		}
	}
	return points
}
