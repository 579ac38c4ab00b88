package workspace

import (
	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/scene"
)

// Action is an input to Workspace.Dispatch. The set of actions is closed;
// hosts translate their own pointer and UI events into these values.
type Action interface {
	action() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Tool actions
// ---------------------------------------------------------------------------

// SelectTool activates a top-level tool and opens its panel.
type SelectTool struct {
	Tool mode.Tool
}

// SelectElement picks a palette entry and enters its placement state.
// ElementNone returns the drawing state machine to idle.
type SelectElement struct {
	Type scene.ElementType
}

// SetEditMode activates an edit sub-tool.
type SetEditMode struct {
	Mode mode.EditMode
}

// ToggleView switches between the perspective and top-down projections.
type ToggleView struct{}

// Cancel abandons any in-progress drawing or drag.
type Cancel struct{}

// Undo restores the previous committed collection.
type Undo struct{}

// Redo re-applies the most recently undone collection.
type Redo struct{}

func (SelectTool) action()    {}
func (SelectElement) action() {}
func (SetEditMode) action()   {}
func (ToggleView) action()    {}
func (Cancel) action()        {}
func (Undo) action()          {}
func (Redo) action()          {}

// ---------------------------------------------------------------------------
// Pointer events
// ---------------------------------------------------------------------------

// ClickAt is a completed click. Point is the world-space intersection;
// Target is the object under the pointer, or empty for the ground plane.
// With Pick set and no Target, the workspace resolves the target by
// hit-testing Point against object footprints.
type ClickAt struct {
	Point  scene.Vec3
	Target scene.ID
	Pick   bool
}

// DragStart is a pointer-down that may begin a drag. Target and Pick
// behave as in ClickAt.
type DragStart struct {
	Point  scene.Vec3
	Target scene.ID
	Pick   bool
}

// DragMove is a pointer-move while the button is held.
type DragMove struct {
	Point scene.Vec3
}

// DragEnd is the pointer-up that finishes a drag.
type DragEnd struct{}

// HoverAt is a pointer-move without a button held.
type HoverAt struct {
	Point scene.Vec3
}

func (ClickAt) action()   {}
func (DragStart) action() {}
func (DragMove) action()  {}
func (DragEnd) action()   {}
func (HoverAt) action()   {}
