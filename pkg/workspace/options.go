package workspace

import (
	"fmt"

	"github.com/chazu/floorplan/pkg/scene"
	"go.uber.org/zap"
)

// Default editing tolerances in world units.
const (
	DefaultCloseThreshold   = 0.5
	DefaultMinSegmentLength = 1e-3
)

// DragHistory controls how a move drag is recorded in the undo history.
type DragHistory int

const (
	DragBatched DragHistory = iota // one undo step per drag gesture
	DragPerTick                    // one undo step per pointer-move
)

func (d DragHistory) String() string {
	switch d {
	case DragBatched:
		return "batched"
	case DragPerTick:
		return "per-tick"
	default:
		return fmt.Sprintf("DragHistory(%d)", int(d))
	}
}

// ParseDragHistory converts "batched" or "per-tick" into a DragHistory.
func ParseDragHistory(s string) (DragHistory, error) {
	switch s {
	case "batched", "":
		return DragBatched, nil
	case "per-tick":
		return DragPerTick, nil
	}
	return DragBatched, fmt.Errorf("workspace: unknown drag history mode %q", s)
}

// Options configures a Workspace. Zero values are replaced by defaults.
type Options struct {
	// CloseThreshold is the XZ distance from the first wall point within
	// which a click closes the polyline.
	CloseThreshold float64
	// MinSegmentLength rejects wall clicks this close to the previous point.
	MinSegmentLength float64
	DragHistory      DragHistory
	// HistoryLimit caps undo depth; 0 is unlimited.
	HistoryLimit int
	NewID        func() scene.ID
	Logger       *zap.Logger
	// OnChange runs after every dispatch that changed observable state.
	OnChange func()
}

func (o Options) withDefaults() Options {
	if o.CloseThreshold <= 0 {
		o.CloseThreshold = DefaultCloseThreshold
	}
	if o.MinSegmentLength <= 0 {
		o.MinSegmentLength = DefaultMinSegmentLength
	}
	if o.NewID == nil {
		o.NewID = scene.NewID
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
