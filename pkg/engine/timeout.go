package engine

import (
	"fmt"
	"time"

	"github.com/chazu/floorplan/pkg/workspace"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation results through channels.
type evalResult struct {
	actions []workspace.Action
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout. On timeout the goroutine may still be
// running; ch is buffered so its late result is dropped without blocking.
func waitWithTimeout(ch <-chan evalResult, timeout time.Duration) ([]workspace.Action, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.actions, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
