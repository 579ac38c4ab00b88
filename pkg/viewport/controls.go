// Package viewport derives camera state for the workspace: which orbit
// controls are enabled for the active tool, and the perspective and
// top-down orthographic cameras used to turn pointer positions into ground
// plane coordinates.
package viewport

import (
	"math"

	"github.com/chazu/floorplan/pkg/mode"
)

// Polar angle clamps, measured from the +Y axis.
const (
	MinPolar3D = 0.0
	MaxPolar3D = 5 * math.Pi / 6
	MinPolar2D = math.Pi / 4
	MaxPolar2D = 2 * math.Pi / 5
)

// Controls are the orbit-control flags a camera host consumes every frame.
type Controls struct {
	Zoom     bool    `json:"enableZoom"`
	Pan      bool    `json:"enablePan"`
	Rotate   bool    `json:"enableRotate"`
	MinPolar float64 `json:"minPolarAngle"`
	MaxPolar float64 `json:"maxPolarAngle"`
}

// ControlsFor returns the control flags for a tool, edit sub-tool and view.
// It is a pure function of its inputs.
func ControlsFor(tool mode.Tool, edit mode.EditMode, view mode.View) Controls {
	c := Controls{MinPolar: MinPolar3D, MaxPolar: MaxPolar3D}
	if view == mode.View2D {
		c.MinPolar, c.MaxPolar = MinPolar2D, MaxPolar2D
	}

	switch tool {
	case mode.ToolCamera:
		c.Zoom, c.Pan, c.Rotate = true, true, true
	case mode.ToolNavigate:
		c.Rotate = view == mode.View3D
	case mode.ToolEdit:
		// While moving, drags belong to the object, not the camera.
		c.Zoom, c.Pan, c.Rotate = true, true, edit != mode.EditMove
	case mode.ToolElements:
		// all disabled
	}
	return c
}
