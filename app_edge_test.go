package main

import (
	"strings"
	"sync"
	"testing"

	"github.com/chazu/floorplan/pkg/config"
	"github.com/chazu/floorplan/pkg/scene"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ---------------------------------------------------------------------------
// Script edge cases
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript(";; nothing but a comment\n; and another\n")
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if result.Dispatched != 0 {
		t.Errorf("expected no actions, got %d", result.Dispatched)
	}
}

func TestE2EErrorDispatchesNothing(t *testing.T) {
	app := newTestApp(t)

	// The first line is valid but line 2 fails, so nothing may be applied.
	result := app.RunScript("(place :box (vec3 0 0 0))\n(element :sofa)")
	if len(result.Errors) == 0 {
		t.Fatal("expected an eval error for an unknown element")
	}
	if !strings.Contains(result.Errors[0].Message, "sofa") {
		t.Errorf("error should name the bad element, got %q", result.Errors[0].Message)
	}
	if n := len(result.Scene.State.Objects); n != 0 {
		t.Errorf("expected no objects, got %d", n)
	}
}

func TestE2EScriptsAccumulate(t *testing.T) {
	app := newTestApp(t)
	app.RunScript("(place :box (vec3 0 0 0))")
	result := app.RunScript("(place :box (vec3 3 0 0))")
	if n := len(result.Scene.State.Objects); n != 2 {
		t.Fatalf("expected 2 objects, got %d", n)
	}

	// Each placement is its own undo step.
	data := app.Undo()
	if n := len(data.State.Objects); n != 1 {
		t.Errorf("after undo expected 1 object, got %d", n)
	}
}

func TestE2EUnclosedWallLeavesDraft(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript("(element :wall) (click (vec3 0 0 0)) (click (vec3 3 0 0)) (hover (vec3 3 0 3))")
	st := result.Scene.State
	if len(st.Objects) != 0 {
		t.Errorf("an unclosed wall must not commit, got %d objects", len(st.Objects))
	}
	if !st.Drawing || len(st.Draft.Points) != 2 {
		t.Errorf("expected a 2-point draft, drawing=%v points=%d", st.Drawing, len(st.Draft.Points))
	}
	if len(result.Scene.Overlay) != 3 {
		t.Errorf("expected 2 markers and a preview line, got %d overlay drawables", len(result.Scene.Overlay))
	}

	data := app.Cancel()
	if data.State.Drawing || len(data.Overlay) != 0 {
		t.Error("cancel should clear the draft and its overlay")
	}
}

func TestE2EDeleteByScript(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript(`
(place :shelf (vec3 1 0 1))
(edit-mode :delete)
(click (vec3 1 0 1) :on :hit)   ; not selected yet, ignored
(edit-mode :select)
(click (vec3 1 0 1) :on :hit)
(edit-mode :delete)
(click (vec3 1 0 1) :on :hit)
`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if n := len(result.Scene.State.Objects); n != 0 {
		t.Errorf("expected the shelf to be deleted, %d objects remain", n)
	}
}

// ---------------------------------------------------------------------------
// Binding edge cases
// ---------------------------------------------------------------------------

func TestE2ERevisionOnlyMovesOnChange(t *testing.T) {
	app := newTestApp(t)
	r0 := app.Scene().Revision

	// Clicking the ground in navigate mode is a no-op.
	if got := app.Click(0, 0, "").Revision; got != r0 {
		t.Errorf("no-op click moved revision %d -> %d", r0, got)
	}
	if got := app.Undo().Revision; got != r0 {
		t.Errorf("undo on empty history moved revision %d -> %d", r0, got)
	}
	app.SelectElement("box")
	if got := app.Click(0, 0, "").Revision; got <= r0 {
		t.Errorf("placement should bump revision, still %d", got)
	}
}

func TestE2EMeshesCachedPerRevision(t *testing.T) {
	app := newTestApp(t)
	app.RunScript("(place :box (vec3 0 0 0))")

	first, err := app.Meshes()
	if err != nil {
		t.Fatalf("Meshes failed: %v", err)
	}
	second, err := app.Meshes()
	if err != nil {
		t.Fatalf("Meshes failed: %v", err)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Error("unchanged scene should reuse cached meshes")
	}

	app.RunScript("(place :box (vec3 4 0 0))")
	third, err := app.Meshes()
	if err != nil {
		t.Fatalf("Meshes failed: %v", err)
	}
	if len(third) != 2 {
		t.Errorf("expected 2 meshes after a second placement, got %d", len(third))
	}
}

func TestE2EEmptySceneMeshes(t *testing.T) {
	meshes, err := newTestApp(t).Meshes()
	if err != nil {
		t.Fatalf("Meshes failed: %v", err)
	}
	if meshes == nil || len(meshes) != 0 {
		t.Errorf("expected a non-nil empty slice, got %v", meshes)
	}
}

func TestE2EPickGround(t *testing.T) {
	app := newTestApp(t)

	// The perspective camera looks at the origin.
	p, err := app.PickGround(0, 0)
	if err != nil {
		t.Fatalf("PickGround failed: %v", err)
	}
	if !p.ApproxEqual(scene.Vec3{}, 1e-6) {
		t.Errorf("screen center hits %s, want the origin", p)
	}

	// Off-center picks land on the matching side in the top-down view.
	app.ToggleView()
	p, err = app.PickGround(0.5, 0.5)
	if err != nil {
		t.Fatalf("PickGround failed: %v", err)
	}
	if p.X <= 0 || p.Z >= 0 {
		t.Errorf("upper-right pick = %s, want +X and -Z", p)
	}
}

func TestE2EClickOffGround(t *testing.T) {
	app := newTestApp(t)
	app.SelectElement("box")
	placed := app.Click(0, 0, "").State.Objects
	if len(placed) != 1 {
		t.Fatalf("expected 1 object, got %d", len(placed))
	}
	id := string(placed[0].ID)

	// Far above the horizon: the ray never reaches the ground.
	if _, err := app.PickGround(0, 5); err == nil {
		t.Fatal("expected a ground miss above the horizon")
	}
	if n := len(app.Click(0, 5, id).State.Objects); n != 1 {
		t.Errorf("a missed click must not place an element, got %d objects", n)
	}

	// In edit mode the hit object is still enough to select it.
	app.SetEditMode("select")
	sel := app.Click(0, 5, id).State.Objects
	if len(sel) != 1 || !sel[0].Selected {
		t.Error("object click without a ground point should still select")
	}
}

func TestE2ESetLogLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	app := NewApp(cfg, zap.New(zapcore.NewNopCore()), level)

	if err := app.SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel failed: %v", err)
	}
	if level.Level() != zapcore.DebugLevel {
		t.Errorf("level = %s, want debug", level.Level())
	}
	if err := app.SetLogLevel("chatty"); err == nil {
		t.Error("unknown level should fail")
	}
	if level.Level() != zapcore.DebugLevel {
		t.Error("a failed SetLogLevel must keep the previous level")
	}
}

func TestE2EResize(t *testing.T) {
	app := newTestApp(t)
	app.ToggleView()
	before, _ := app.PickGround(1, 0)

	app.Resize(1600, 600)
	after, _ := app.PickGround(1, 0)
	if after.X <= before.X {
		t.Errorf("a wider viewport should see further: %g -> %g", before.X, after.X)
	}

	// Nonsense sizes are ignored.
	app.Resize(0, -5)
	if again, _ := app.PickGround(1, 0); again != after {
		t.Errorf("invalid resize changed the camera: %s -> %s", after, again)
	}
}

func TestE2ECatalog(t *testing.T) {
	entries := newTestApp(t).Catalog()
	if len(entries) != len(scene.ElementTypes) {
		t.Fatalf("expected %d entries, got %d", len(scene.ElementTypes), len(entries))
	}
	for _, e := range entries {
		if e.Color == "" {
			t.Errorf("%s has no color", e.Type)
		}
		if e.Dimensions.Height <= 0 {
			t.Errorf("%s has no height", e.Type)
		}
	}
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

// Bindings are called from many goroutines by the Wails runtime; the single
// workspace must stay consistent.
func TestE2EConcurrentBindings(t *testing.T) {
	app := newTestApp(t)
	app.SelectElement("box")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			app.RunScript("(place :box (vec3 " + strings.Repeat("1", i%3+1) + " 0 0))")
		}(i)
		go func() {
			defer wg.Done()
			app.Scene()
		}()
	}
	wg.Wait()

	objs := app.Scene().State.Objects
	if len(objs) != n {
		t.Errorf("expected %d objects, got %d", n, len(objs))
	}
	if errs := scene.Validate(objs); scene.HasErrors(errs) {
		t.Errorf("collection invalid after concurrent use: %v", errs)
	}
}
