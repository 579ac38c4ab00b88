// Package kernel defines the geometry kernel used to turn render boxes
// into triangle meshes. Backends (sdfx) implement solid modeling behind
// this interface so the rest of the system never touches a CAD library.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates an axis-aligned box centered on the origin.
	Box(x, y, z float64) Solid

	// Union merges one or more solids.
	Union(a Solid, rest ...Solid) Solid

	// Place rotates a solid about the Y axis (radians), then moves its
	// origin to (x, y, z).
	Place(s Solid, x, y, z, rotY float64) Solid

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
