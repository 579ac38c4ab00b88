// Package workspace is the interactive core of the floorplan editor. A
// Workspace owns the committed scene collection, its undo history and the
// tool state, and is mutated only through Dispatch. Placement (drawing) and
// the selection/move/delete controller are state machines driven by the
// Action values hosts feed it.
package workspace

import (
	"fmt"

	"github.com/chazu/floorplan/pkg/history"
	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/viewport"
	"go.uber.org/zap"
)

// Workspace is the single writer of a scene. It is not safe for concurrent
// use; hosts running on several goroutines must serialize Dispatch calls.
type Workspace struct {
	opts Options
	log  *zap.Logger
	hist *history.Stack

	tool  mode.Tool
	edit  mode.EditMode
	view  mode.View
	panel mode.Panel

	draw drafter
	drag dragState
}

// New creates an empty workspace in navigate mode with the 3D view.
func New(opts Options) *Workspace {
	opts = opts.withDefaults()
	return &Workspace{
		opts: opts,
		log:  opts.Logger,
		hist: history.New(opts.HistoryLimit),
	}
}

// Dispatch applies a to the workspace and reports whether observable state
// changed. Actions that do not apply in the current tool or mode are silent
// no-ops.
func (w *Workspace) Dispatch(a Action) bool {
	changed := w.apply(a)
	if changed && w.opts.OnChange != nil {
		w.opts.OnChange()
	}
	return changed
}

func (w *Workspace) apply(a Action) bool {
	switch a := a.(type) {
	case SelectTool:
		return w.selectTool(a.Tool)
	case SelectElement:
		return w.selectElement(a.Type)
	case SetEditMode:
		return w.setEditMode(a.Mode)
	case ToggleView:
		return w.toggleView()
	case Cancel:
		d := w.abandonDraft()
		return w.endDrag() || d
	case Undo:
		w.endDrag()
		if !w.hist.Undo() {
			return false
		}
		u, r := w.hist.Depth()
		w.log.Debug("undo", zap.Int("objects", w.hist.Len()), zap.Int("undoDepth", u), zap.Int("redoDepth", r))
		return true
	case Redo:
		w.endDrag()
		if !w.hist.Redo() {
			return false
		}
		u, r := w.hist.Depth()
		w.log.Debug("redo", zap.Int("objects", w.hist.Len()), zap.Int("undoDepth", u), zap.Int("redoDepth", r))
		return true

	case ClickAt:
		switch w.tool {
		case mode.ToolElements:
			return w.drawClick(a.Point)
		case mode.ToolEdit:
			return w.editClick(w.resolve(a.Point, a.Target, a.Pick))
		}
		return false
	case HoverAt:
		return w.hoverAt(a.Point)
	case DragStart:
		return w.dragStart(a.Point, w.resolve(a.Point, a.Target, a.Pick))
	case DragMove:
		return w.dragMove(a.Point)
	case DragEnd:
		return w.dragEnd()
	}
	panic(fmt.Sprintf("workspace: unhandled action %T", a))
}

func (w *Workspace) resolve(p scene.Vec3, target scene.ID, pick bool) scene.ID {
	if !pick || !target.IsZero() {
		return target
	}
	id, _ := w.hist.Current().HitTest(p)
	return id
}

// commit routes a collection mutation through the history stack. Unchanged
// collections are not recorded.
func (w *Workspace) commit(next scene.Collection, reason string) bool {
	if next.Equal(w.hist.Current()) {
		return false
	}
	w.hist.Commit(next)
	w.log.Debug("commit", zap.String("reason", reason), zap.Int("objects", len(next)))
	findings := scene.Validate(next)
	if scene.HasErrors(findings) {
		w.log.Error("committed scene is invalid", zap.Int("findings", len(findings)))
	}
	for _, e := range findings {
		w.log.Warn("scene validation", zap.String("finding", e.Error()))
	}
	return true
}

func (w *Workspace) selectTool(t mode.Tool) bool {
	changed := w.endDrag()
	if t != mode.ToolElements {
		changed = w.abandonDraft() || changed
	}
	if w.tool != t || w.panel != mode.PanelFor(t) {
		w.tool, w.panel = t, mode.PanelFor(t)
		changed = true
	}
	return changed
}

func (w *Workspace) selectElement(t scene.ElementType) bool {
	w.endDrag()
	w.abandonDraft()
	w.tool, w.panel = mode.ToolElements, mode.PanelElements
	w.enterPlacement(t)
	return true
}

func (w *Workspace) setEditMode(m mode.EditMode) bool {
	changed := w.endDrag()
	if w.tool != mode.ToolEdit {
		changed = w.selectTool(mode.ToolEdit) || changed
	}
	if w.edit != m {
		w.edit = m
		changed = true
	}
	return changed
}

// toggleView flips the projection. Switching always drops back to the
// navigate tool with every panel closed.
func (w *Workspace) toggleView() bool {
	w.endDrag()
	w.abandonDraft()
	w.view = w.view.Toggle()
	w.tool, w.panel = mode.ToolNavigate, mode.PanelNone
	return true
}

// ---------------------------------------------------------------------------
// Read accessors
// ---------------------------------------------------------------------------

// Objects returns a copy of the committed collection.
func (w *Workspace) Objects() scene.Collection { return w.hist.Current() }

// Selected returns the selected object, if any.
func (w *Workspace) Selected() (scene.Object, bool) { return w.hist.Current().Selected() }

func (w *Workspace) Tool() mode.Tool         { return w.tool }
func (w *Workspace) EditMode() mode.EditMode { return w.edit }
func (w *Workspace) View() mode.View         { return w.view }
func (w *Workspace) Panel() mode.Panel       { return w.panel }
func (w *Workspace) Dragging() bool          { return w.drag.active }
func (w *Workspace) CanUndo() bool           { return w.hist.CanUndo() }
func (w *Workspace) CanRedo() bool           { return w.hist.CanRedo() }

// Controls returns the camera control flags for the current tool and view.
func (w *Workspace) Controls() viewport.Controls {
	return viewport.ControlsFor(w.tool, w.edit, w.view)
}

// State is a serializable snapshot of everything a host renders.
type State struct {
	Tool       string            `json:"tool"`
	EditMode   string            `json:"editMode"`
	View       string            `json:"view"`
	Panel      string            `json:"panel"`
	Drawing    bool              `json:"drawing"`
	Objects    scene.Collection  `json:"objects"`
	SelectedID scene.ID          `json:"selectedId,omitempty"`
	Draft      Draft             `json:"draft"`
	Controls   viewport.Controls `json:"controls"`
	CanUndo    bool              `json:"canUndo"`
	CanRedo    bool              `json:"canRedo"`
}

// State returns a snapshot of the workspace.
func (w *Workspace) State() State {
	s := State{
		Tool:     w.tool.String(),
		EditMode: w.edit.String(),
		View:     w.view.String(),
		Panel:    w.panel.String(),
		Drawing:  w.Drawing(),
		Objects:  w.Objects(),
		Draft:    w.Draft(),
		Controls: w.Controls(),
		CanUndo:  w.CanUndo(),
		CanRedo:  w.CanRedo(),
	}
	if sel, ok := s.Objects.Selected(); ok {
		s.SelectedID = sel.ID
	}
	return s
}
