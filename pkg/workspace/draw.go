package workspace

import (
	"fmt"

	"github.com/chazu/floorplan/pkg/scene"
	"go.uber.org/zap"
)

// DrawState is the state of the placement state machine.
type DrawState int

const (
	DrawIdle    DrawState = iota
	DrawPlacing           // single-click point elements
	DrawWall              // accumulating a wall polyline
)

func (s DrawState) String() string {
	switch s {
	case DrawIdle:
		return "idle"
	case DrawPlacing:
		return "placing"
	case DrawWall:
		return "drawing-wall"
	default:
		return fmt.Sprintf("DrawState(%d)", int(s))
	}
}

// drafter holds placement state. Wall points live here until the polyline
// closes; they are never part of the committed collection.
type drafter struct {
	state   DrawState
	element scene.ElementType
	points  []scene.Vec3
	hover   scene.Vec3
	hovered bool
}

// Draft is a read-only view of in-progress drawing, used for feedback.
type Draft struct {
	State    DrawState         `json:"state"`
	Element  scene.ElementType `json:"element"`
	Points   []scene.Vec3      `json:"points"`
	Hover    scene.Vec3        `json:"hover"`
	HasHover bool              `json:"hasHover"`
	// CanClose is set when a click at Hover would close the wall.
	CanClose bool `json:"canClose"`
}

func (w *Workspace) enterPlacement(t scene.ElementType) {
	w.draw = drafter{element: t}
	switch {
	case t == scene.ElementWall:
		w.draw.state = DrawWall
	case t.IsPoint():
		w.draw.state = DrawPlacing
	default:
		w.draw.element = scene.ElementNone
	}
}

// abandonDraft drops any uncommitted wall points and returns to idle.
func (w *Workspace) abandonDraft() bool {
	if w.draw.state == DrawIdle {
		return false
	}
	if len(w.draw.points) > 0 {
		w.log.Debug("wall draft abandoned", zap.Int("points", len(w.draw.points)))
	}
	w.draw = drafter{}
	return true
}

func (w *Workspace) drawClick(p scene.Vec3) bool {
	switch w.draw.state {
	case DrawPlacing:
		obj := scene.NewObject(w.opts.NewID(), w.draw.element, p)
		return w.commit(append(w.hist.Current(), obj), "place "+w.draw.element.String())
	case DrawWall:
		return w.wallClick(p)
	}
	return false
}

func (w *Workspace) wallClick(p scene.Vec3) bool {
	p.Y = 0
	d := &w.draw
	if len(d.points) == 0 {
		d.points = append(d.points, p)
		return true
	}

	first, last := d.points[0], d.points[len(d.points)-1]
	if p.DistXZ(last) < w.opts.MinSegmentLength {
		w.log.Debug("degenerate wall segment rejected", zap.Stringer("at", p))
		return false
	}
	if p.DistXZ(first) <= w.opts.CloseThreshold {
		if len(d.points) < 2 {
			return false
		}
		pts := append(append([]scene.Vec3(nil), d.points...), first)
		wall := scene.NewWall(w.opts.NewID(), pts)
		w.draw = drafter{}
		w.commit(append(w.hist.Current(), wall), "close wall")
		return true
	}
	d.points = append(d.points, p)
	return true
}

func (w *Workspace) hoverAt(p scene.Vec3) bool {
	if w.draw.state != DrawWall {
		return false
	}
	p.Y = 0
	if w.draw.hovered && w.draw.hover == p {
		return false
	}
	w.draw.hover, w.draw.hovered = p, true
	return true
}

// Draft returns a copy of the in-progress drawing state.
func (w *Workspace) Draft() Draft {
	d := Draft{
		State:    w.draw.state,
		Element:  w.draw.element,
		Points:   append([]scene.Vec3(nil), w.draw.points...),
		Hover:    w.draw.hover,
		HasHover: w.draw.hovered,
	}
	if d.State == DrawWall && d.HasHover && len(d.Points) >= 2 {
		d.CanClose = d.Hover.DistXZ(d.Points[0]) <= w.opts.CloseThreshold
	}
	return d
}

// Drawing reports whether a placement state is active.
func (w *Workspace) Drawing() bool {
	return w.draw.state != DrawIdle
}

// MarshalText encodes s by name.
func (s DrawState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
