// Package mode enumerates the interaction modes of the workspace: the
// top-level tool, the edit sub-tool, the projection, and the open panel.
package mode

import "fmt"

// Tool is the top-level interaction tool.
type Tool int

const (
	ToolNavigate Tool = iota // default; orbit only
	ToolCamera               // free zoom/pan/orbit
	ToolEdit                 // select, move, delete
	ToolElements             // place new elements
)

func (t Tool) String() string {
	switch t {
	case ToolNavigate:
		return "navigate"
	case ToolCamera:
		return "camera"
	case ToolEdit:
		return "edit"
	case ToolElements:
		return "elements"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// ParseTool converts a tool name into a Tool.
func ParseTool(s string) (Tool, error) {
	switch s {
	case "navigate":
		return ToolNavigate, nil
	case "camera":
		return ToolCamera, nil
	case "edit":
		return ToolEdit, nil
	case "elements":
		return ToolElements, nil
	}
	return ToolNavigate, fmt.Errorf("mode: unknown tool %q", s)
}

// EditMode is the sub-tool active while Tool is ToolEdit.
type EditMode int

const (
	EditNone EditMode = iota
	EditSelect
	EditMove
	EditDelete
)

func (m EditMode) String() string {
	switch m {
	case EditNone:
		return "none"
	case EditSelect:
		return "select"
	case EditMove:
		return "move"
	case EditDelete:
		return "delete"
	default:
		return fmt.Sprintf("EditMode(%d)", int(m))
	}
}

// ParseEditMode converts a sub-tool name into an EditMode.
func ParseEditMode(s string) (EditMode, error) {
	switch s {
	case "none", "":
		return EditNone, nil
	case "select":
		return EditSelect, nil
	case "move":
		return EditMove, nil
	case "delete":
		return EditDelete, nil
	}
	return EditNone, fmt.Errorf("mode: unknown edit mode %q", s)
}

// View is the viewport projection.
type View int

const (
	View3D View = iota // perspective
	View2D             // orthographic, top-down
)

func (v View) String() string {
	switch v {
	case View3D:
		return "3d"
	case View2D:
		return "2d"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Toggle returns the other projection.
func (v View) Toggle() View {
	if v == View3D {
		return View2D
	}
	return View3D
}

// ParseView converts "3d" or "2d" into a View.
func ParseView(s string) (View, error) {
	switch s {
	case "3d":
		return View3D, nil
	case "2d":
		return View2D, nil
	}
	return View3D, fmt.Errorf("mode: unknown view %q", s)
}

// Panel is the tool panel currently open beside the viewport.
type Panel int

const (
	PanelNone Panel = iota
	PanelElements
	PanelEdit
)

func (p Panel) String() string {
	switch p {
	case PanelNone:
		return "none"
	case PanelElements:
		return "elements"
	case PanelEdit:
		return "edit"
	default:
		return fmt.Sprintf("Panel(%d)", int(p))
	}
}

// PanelFor returns the panel a tool opens when selected.
func PanelFor(t Tool) Panel {
	switch t {
	case ToolElements:
		return PanelElements
	case ToolEdit:
		return PanelEdit
	}
	return PanelNone
}
