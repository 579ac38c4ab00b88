package scene

import "fmt"

// ElementType enumerates the primitives a user can place.
type ElementType int

const (
	ElementNone   ElementType = iota // no active placement type; never stored
	ElementWall                      // closed polyline of wall segments
	ElementBox                       // generic box
	ElementDoor
	ElementWindow
	ElementShelf
)

func (t ElementType) String() string {
	switch t {
	case ElementNone:
		return "none"
	case ElementWall:
		return "wall"
	case ElementBox:
		return "box"
	case ElementDoor:
		return "door"
	case ElementWindow:
		return "window"
	case ElementShelf:
		return "shelf"
	default:
		return "unknown"
	}
}

// ElementTypes lists every placeable type in palette order.
var ElementTypes = []ElementType{ElementWall, ElementBox, ElementDoor, ElementWindow, ElementShelf}

// ParseElementType converts a palette name into an ElementType.
func ParseElementType(s string) (ElementType, error) {
	switch s {
	case "none", "":
		return ElementNone, nil
	case "wall":
		return ElementWall, nil
	case "box":
		return ElementBox, nil
	case "door":
		return ElementDoor, nil
	case "window":
		return ElementWindow, nil
	case "shelf":
		return ElementShelf, nil
	}
	return ElementNone, fmt.Errorf("scene: unknown element type %q", s)
}

// IsPoint reports whether t is placed with a single click.
func (t ElementType) IsPoint() bool {
	switch t {
	case ElementBox, ElementDoor, ElementWindow, ElementShelf:
		return true
	}
	return false
}

// Dimensions are the bounding-box extents of a primitive in world units.
type Dimensions struct {
	Width  float64 `json:"width"`  // along X
	Height float64 `json:"height"` // along Y
	Depth  float64 `json:"depth"`  // along Z
}

// Vec3 returns the dimensions as a scale vector.
func (d Dimensions) Vec3() Vec3 {
	return Vec3{X: d.Width, Y: d.Height, Z: d.Depth}
}

// unitDimensions is the fallback for types without a catalog entry.
var unitDimensions = Dimensions{Width: 1, Height: 1, Depth: 1}

// catalog holds the default size of every placeable type. For walls the
// width is unused; height and depth are the wall height and thickness.
var catalog = map[ElementType]Dimensions{
	ElementWall:   {Width: 1, Height: 2.5, Depth: 0.15},
	ElementBox:    {Width: 1, Height: 1, Depth: 1},
	ElementDoor:   {Width: 0.9, Height: 2.1, Depth: 0.1},
	ElementWindow: {Width: 1.2, Height: 1.0, Depth: 0.1},
	ElementShelf:  {Width: 1.0, Height: 1.8, Depth: 0.4},
}

// DefaultDimensions returns the catalog size for t. Unknown types and
// ElementNone fall back to a unit cube.
func DefaultDimensions(t ElementType) Dimensions {
	if d, ok := catalog[t]; ok {
		return d
	}
	return unitDimensions
}

// MarshalText encodes t by name so hosts see "wall" rather than 1.
func (t ElementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (t *ElementType) UnmarshalText(b []byte) error {
	v, err := ParseElementType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
