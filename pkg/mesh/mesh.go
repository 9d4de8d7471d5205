// Package mesh builds the finite-element-like visualization meshes for a
// vessel design: a structured 2D axisymmetric grid triangulated into a flat
// mesh, and the same grid revolved around the symmetry axis into a closed 3D
// surface mesh.
//
// The mesh is an analytically-derived visualization artifact, not an FEA
// discretization: node stresses come from the physics field evaluator, and
// element "centroid stresses" are plain vertex averages. Every mesh is built
// fresh per request and owned by the response; nothing here is cached or
// shared.
package mesh

// Node is one 2D grid point in the (r, z) half-plane.
type Node struct {
	ID     int     `json:"id"`
	R      float64 `json:"r"`
	Z      float64 `json:"z"`
	Stress float64 `json:"stress"`
}

// Element is one triangle of the 2D mesh. Nodes holds indices into the
// mesh's node slice.
type Element struct {
	ID             int     `json:"id"`
	Nodes          [3]int  `json:"nodes"`
	Region         string  `json:"region"`
	CentroidStress float64 `json:"centroid_stress"`
}

// Bounds is the axis-aligned bounding box of a 2D mesh.
type Bounds struct {
	RMin float64 `json:"r_min"`
	RMax float64 `json:"r_max"`
	ZMin float64 `json:"z_min"`
	ZMax float64 `json:"z_max"`
}

// FEAMesh is the triangulated 2D axisymmetric mesh.
type FEAMesh struct {
	Nodes    []Node    `json:"nodes"`
	Elements []Element `json:"elements"`
	Bounds   Bounds    `json:"bounds"`
}

// Node3D is one vertex of the revolved mesh.
type Node3D struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Stress float64 `json:"stress"`
}

// Element3D is one triangle of the revolved surface mesh.
type Element3D struct {
	ID             int     `json:"id"`
	Nodes          [3]int  `json:"nodes"`
	Region         string  `json:"region"`
	CentroidStress float64 `json:"centroid_stress"`
}

// Mesh3D is the 2D mesh revolved around the symmetry axis at a fixed number
// of circumferential slices. The topology wraps: the last slice stitches
// back to slice 0, so the surface is closed around the circumference.
type Mesh3D struct {
	Nodes    []Node3D    `json:"nodes"`
	Elements []Element3D `json:"elements"`
	Slices   int         `json:"slices"`
}

// StressRange returns the minimum and maximum node stress of the 2D mesh.
func (m *FEAMesh) StressRange() (min, max float64) {
	if len(m.Nodes) == 0 {
		return 0, 0
	}
	min, max = m.Nodes[0].Stress, m.Nodes[0].Stress
	for _, n := range m.Nodes[1:] {
		if n.Stress < min {
			min = n.Stress
		}
		if n.Stress > max {
			max = n.Stress
		}
	}
	return min, max
}
