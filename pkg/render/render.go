// Package render maps scene objects to drawables: the boxes, handles,
// markers, lines and labels a rendering host turns into meshes. Every
// function here is pure; the tree is re-derived from the model on each
// change.
package render

import (
	"math"

	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/workspace"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind distinguishes drawable primitives.
type Kind int

const (
	KindBox    Kind = iota // oriented box
	KindHandle             // edit handle on a wall point
	KindMarker             // wall drawing point marker
	KindLine               // wall drawing preview line
	KindLabel              // floating text
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindHandle:
		return "handle"
	case KindMarker:
		return "marker"
	case KindLine:
		return "line"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Drawable is one renderable primitive. Box-like kinds use Center, Size and
// RotationY (also folded into Model); lines use From and To; labels use
// Center and Text.
type Drawable struct {
	Kind      Kind       `json:"kind"`
	ObjectID  scene.ID   `json:"objectId,omitempty"`
	Center    scene.Vec3 `json:"center"`
	Size      scene.Vec3 `json:"size"`
	RotationY float64    `json:"rotationY"`
	From      scene.Vec3 `json:"from"`
	To        scene.Vec3 `json:"to"`
	Color     string     `json:"color"`
	Emissive  string     `json:"emissive,omitempty"`
	Text      string     `json:"text,omitempty"`
	Model     mgl64.Mat4 `json:"model"`
}

// Palette.
const (
	ColorSelected    = "#4A90D9"
	ColorEmissive    = "#1F3B5C"
	ColorHandle      = "#F39C12"
	ColorLabel       = "#FFFFFF"
	ColorPreviewLine = "#E67E22"
	ColorMarker      = "#ECF0F1"
	ColorCloseMarker = "#2ECC71"
)

var typeColors = map[scene.ElementType]string{
	scene.ElementWall:   "#D9D4C7",
	scene.ElementBox:    "#8B5A2B",
	scene.ElementDoor:   "#A0522D",
	scene.ElementWindow: "#87CEEB",
	scene.ElementShelf:  "#DEB887",
}

// ColorFor returns the base color of an element type.
func ColorFor(t scene.ElementType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return "#9B59B6"
}

const (
	handleSize   = 0.2
	markerSize   = 0.15
	labelLift    = 0.5
	minSegLength = 1e-9
)

// modelMatrix composes translate * rotateY * scale.
func modelMatrix(center scene.Vec3, rotY float64, size scene.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(center.X, center.Y, center.Z).
		Mul4(mgl64.HomogRotate3DY(rotY)).
		Mul4(mgl64.Scale3D(size.X, size.Y, size.Z))
}

func box(kind Kind, id scene.ID, center, size scene.Vec3, rotY float64, color string) Drawable {
	return Drawable{
		Kind:      kind,
		ObjectID:  id,
		Center:    center,
		Size:      size,
		RotationY: rotY,
		Color:     color,
		Model:     modelMatrix(center, rotY, size),
	}
}

// SegmentAngle returns the rotation about +Y that aligns a box's local X
// axis with the segment from a to b. The result lies in (-π, π].
func SegmentAngle(a, b scene.Vec3) float64 {
	return math.Atan2(a.Z-b.Z, b.X-a.X)
}

// Build derives the drawables for a committed collection.
func Build(objects scene.Collection) []Drawable {
	out := make([]Drawable, 0, len(objects))
	for _, o := range objects {
		if o.Type == scene.ElementWall {
			out = append(out, wall(o)...)
		} else {
			out = append(out, element(o)...)
		}
	}
	return out
}

func element(o scene.Object) []Drawable {
	d := box(KindBox, o.ID, o.Position, o.Scale, o.Rotation, ColorFor(o.Type))
	if !o.Selected {
		return []Drawable{d}
	}
	d.Color, d.Emissive = ColorSelected, ColorEmissive
	top := o.Position.Add(scene.Vec3{Y: o.Scale.Y/2 + labelLift})
	return []Drawable{d, label(o, top)}
}

func wall(o scene.Object) []Drawable {
	if len(o.Points) < 2 {
		return nil
	}
	color := ColorFor(scene.ElementWall)
	var emissive string
	if o.Selected {
		color, emissive = ColorSelected, ColorEmissive
	}

	var out []Drawable
	for i := 0; i+1 < len(o.Points); i++ {
		a, b := o.Points[i], o.Points[i+1]
		length := a.DistXZ(b)
		if length < minSegLength {
			continue
		}
		mid := a.Add(b).Scale(0.5)
		center := scene.Vec3{X: mid.X, Y: o.Position.Y, Z: mid.Z}
		size := scene.Vec3{X: length, Y: o.Scale.Y, Z: o.Scale.Z}
		d := box(KindBox, o.ID, center, size, SegmentAngle(a, b), color)
		d.Emissive = emissive
		out = append(out, d)
	}

	if !o.Selected {
		return out
	}
	for _, p := range openPoints(o.Points) {
		hs := scene.Vec3{X: handleSize, Y: handleSize, Z: handleSize}
		out = append(out, box(KindHandle, o.ID, p, hs, 0, ColorHandle))
	}
	top := centroid(openPoints(o.Points)).Add(scene.Vec3{Y: o.Scale.Y + labelLift})
	return append(out, label(o, top))
}

// openPoints drops the closing duplicate of a closed polyline.
func openPoints(pts []scene.Vec3) []scene.Vec3 {
	if len(pts) > 2 && pts[0] == pts[len(pts)-1] {
		return pts[:len(pts)-1]
	}
	return pts
}

func centroid(pts []scene.Vec3) scene.Vec3 {
	var c scene.Vec3
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

func label(o scene.Object, at scene.Vec3) Drawable {
	return Drawable{
		Kind:     KindLabel,
		ObjectID: o.ID,
		Center:   at,
		Text:     o.Type.String(),
		Color:    ColorLabel,
		Model:    mgl64.Translate3D(at.X, at.Y, at.Z),
	}
}

// Overlay derives wall-drawing feedback from a draft: a marker per point,
// and a preview line from the last point to the hover position. The first
// marker switches color when a click at the hover position would close the
// wall.
func Overlay(d workspace.Draft) []Drawable {
	if d.State != workspace.DrawWall || len(d.Points) == 0 {
		return nil
	}
	out := make([]Drawable, 0, len(d.Points)+1)
	ms := scene.Vec3{X: markerSize, Y: markerSize, Z: markerSize}
	for i, p := range d.Points {
		color := ColorMarker
		if i == 0 && d.CanClose {
			color = ColorCloseMarker
		}
		out = append(out, box(KindMarker, "", p, ms, 0, color))
	}
	if d.HasHover {
		last := d.Points[len(d.Points)-1]
		out = append(out, Drawable{
			Kind:  KindLine,
			From:  last,
			To:    d.Hover,
			Color: ColorPreviewLine,
			Model: mgl64.Ident4(),
		})
	}
	return out
}
