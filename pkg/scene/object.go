package scene

import "github.com/google/uuid"

// ID is an opaque object identifier, stable for the object's lifetime.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// IsZero reports whether id is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// Short returns the first 8 characters of the ID for display.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// Object is one placed element. For non-wall types Scale doubles as the
// bounding box (width, height, depth) rather than a multiplier.
type Object struct {
	ID       ID          `json:"id"`
	Type     ElementType `json:"type"`
	Position Vec3        `json:"position"`
	Rotation float64     `json:"rotation"` // radians about Y
	Scale    Vec3        `json:"scale"`
	Points   []Vec3      `json:"points,omitempty"` // walls only
	Selected bool        `json:"selected"`
}

// NewObject builds a point element of type t resting on the ground plane at
// the XZ coordinates of at.
func NewObject(id ID, t ElementType, at Vec3) Object {
	d := DefaultDimensions(t)
	return Object{
		ID:       id,
		Type:     t,
		Position: Vec3{X: at.X, Y: d.Height / 2, Z: at.Z},
		Scale:    d.Vec3(),
	}
}

// NewWall builds a wall from a closed polyline. The points are copied.
func NewWall(id ID, points []Vec3) Object {
	d := DefaultDimensions(ElementWall)
	return Object{
		ID:       id,
		Type:     ElementWall,
		Position: Vec3{Y: d.Height / 2},
		Scale:    d.Vec3(),
		Points:   append([]Vec3(nil), points...),
	}
}

// Clone returns a deep copy of o.
func (o Object) Clone() Object {
	c := o
	if o.Points != nil {
		c.Points = append([]Vec3(nil), o.Points...)
	}
	return c
}

// Equal reports structural equality of every field.
func (o Object) Equal(other Object) bool {
	if o.ID != other.ID || o.Type != other.Type || o.Position != other.Position ||
		o.Rotation != other.Rotation || o.Scale != other.Scale || o.Selected != other.Selected {
		return false
	}
	if len(o.Points) != len(other.Points) {
		return false
	}
	for i := range o.Points {
		if o.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}

// Collection is the ordered set of committed objects.
type Collection []Object

// Clone returns a deep copy of c. A nil collection clones to an empty one.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, o := range c {
		out[i] = o.Clone()
	}
	return out
}

// Index returns the position of the object with the given id, or -1.
func (c Collection) Index(id ID) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the object with the given id.
func (c Collection) Find(id ID) (Object, bool) {
	i := c.Index(id)
	if i < 0 {
		return Object{}, false
	}
	return c[i], true
}

// Selected returns the first selected object, if any.
func (c Collection) Selected() (Object, bool) {
	for _, o := range c {
		if o.Selected {
			return o, true
		}
	}
	return Object{}, false
}

// Without returns a copy of c with the object id removed.
func (c Collection) Without(id ID) Collection {
	out := make(Collection, 0, len(c))
	for _, o := range c {
		if o.ID != id {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Equal reports whether c and other hold structurally equal objects in the
// same order.
func (c Collection) Equal(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
