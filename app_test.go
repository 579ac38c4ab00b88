package main

import (
	"math"
	"os"
	"testing"

	"github.com/chazu/floorplan/pkg/config"
	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/render"
	"github.com/chazu/floorplan/pkg/scene"
	"go.uber.org/zap"
)

// newTestApp returns an App with coarse meshing and no Wails context, so
// bindings run without a frontend.
func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Render.MeshCells = 32
	return NewApp(cfg, zap.NewNop(), zap.NewAtomicLevel())
}

// TestE2ERoomExample exercises the full pipeline: script -> engine ->
// workspace -> render -> tessellate. This is the same path the Wails
// bindings take, but without the Wails runtime.
func TestE2ERoomExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/room.fp")
	if err != nil {
		t.Fatalf("failed to read room.fp: %v", err)
	}

	result := app.RunScript(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// wall, door, window, two shelves, box
	objs := result.Scene.State.Objects
	if len(objs) != 6 {
		t.Fatalf("expected 6 objects, got %d", len(objs))
	}
	want := []scene.ElementType{
		scene.ElementWall, scene.ElementDoor, scene.ElementWindow,
		scene.ElementShelf, scene.ElementShelf, scene.ElementBox,
	}
	for i, typ := range want {
		if objs[i].Type != typ {
			t.Errorf("object %d type = %s, want %s", i, objs[i].Type, typ)
		}
	}

	box := objs[5]
	if box.Position != (scene.Vec3{X: 3, Y: 0.5, Z: 3}) {
		t.Errorf("box position = %s, want (3, 0.5, 3)", box.Position)
	}
	if !box.Selected {
		t.Error("box should remain selected")
	}
	if result.Scene.State.Tool != mode.ToolNavigate.String() {
		t.Errorf("tool = %s, want navigate", result.Scene.State.Tool)
	}

	meshes, err := app.Meshes()
	if err != nil {
		t.Fatalf("Meshes failed: %v", err)
	}
	if len(meshes) != len(objs) {
		t.Fatalf("expected %d meshes, got %d", len(objs), len(meshes))
	}
	for i, m := range meshes {
		if m.ObjectID != string(objs[i].ID) {
			t.Errorf("mesh %d belongs to %q, want %q", i, m.ObjectID, objs[i].ID)
		}
		if m.IsEmpty() {
			t.Errorf("mesh %d (%s) is empty", i, objs[i].Type)
		}
		if m.Color == "" {
			t.Errorf("mesh %d has no color", i)
		}
	}
	if m := meshes[5]; m.Color != render.ColorSelected {
		t.Errorf("selected box mesh color = %s, want %s", m.Color, render.ColorSelected)
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Dispatched != 0 || result.Changed != 0 {
		t.Errorf("empty script dispatched %d / changed %d", result.Dispatched, result.Changed)
	}
	if result.Scene.Revision != 0 {
		t.Errorf("revision = %d, want 0", result.Scene.Revision)
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.RunScript(`(place :box (vec3 0 0 0)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected an eval error for unmatched parens")
	}
	if len(result.Scene.State.Objects) != 0 {
		t.Error("a failing script must not dispatch anything")
	}
}

func TestE2EToolBindings(t *testing.T) {
	app := newTestApp(t)

	data, err := app.SelectElement("wall")
	if err != nil {
		t.Fatalf("SelectElement failed: %v", err)
	}
	if data.State.Tool != "elements" || data.State.Panel != "elements" {
		t.Errorf("tool/panel = %s/%s, want elements/elements", data.State.Tool, data.State.Panel)
	}
	if !data.State.Drawing {
		t.Error("selecting wall should start drawing")
	}

	if _, err := app.SelectTool("hammer"); err == nil {
		t.Error("unknown tool name should fail")
	}
	if _, err := app.SetEditMode("smash"); err == nil {
		t.Error("unknown edit mode should fail")
	}

	data, err = app.SetEditMode("move")
	if err != nil {
		t.Fatalf("SetEditMode failed: %v", err)
	}
	if data.State.Drawing {
		t.Error("switching to edit should abandon the wall draft")
	}
	if data.State.Controls.Rotate {
		t.Error("rotation should be locked while moving")
	}

	data = app.ToggleView()
	if data.State.View != "2d" || data.State.Tool != "navigate" || !data.Camera.Ortho {
		t.Errorf("after toggle: view=%s tool=%s ortho=%v", data.State.View, data.State.Tool, data.Camera.Ortho)
	}
}

func TestE2EPointerPlacement(t *testing.T) {
	app := newTestApp(t)
	app.ToggleView() // top-down view looks straight at the origin
	if _, err := app.SelectElement("box"); err != nil {
		t.Fatalf("SelectElement failed: %v", err)
	}

	data := app.Click(0, 0, "")
	objs := data.State.Objects
	if len(objs) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objs))
	}
	p := objs[0].Position
	if !p.ApproxEqual(scene.Vec3{Y: 0.5}, 1e-6) {
		t.Errorf("box placed at %s, want the origin", p)
	}
	if len(data.Drawables) != 1 {
		t.Errorf("expected 1 drawable, got %d", len(data.Drawables))
	}

	if got := app.HitTest(0, 0); got != string(objs[0].ID) {
		t.Errorf("HitTest(center) = %q, want %q", got, objs[0].ID)
	}

	data = app.Undo()
	if len(data.State.Objects) != 0 || !data.State.CanRedo {
		t.Error("undo should remove the box and enable redo")
	}
	data = app.Redo()
	if len(data.State.Objects) != 1 {
		t.Error("redo should restore the box")
	}
}

func TestE2EPointerDrag(t *testing.T) {
	app := newTestApp(t)
	app.ToggleView()
	app.SelectElement("box")
	placed := app.Click(0, 0, "").State.Objects[0]
	id, start := placed.ID, placed.Position
	app.SetEditMode("select")
	app.Click(0, 0, string(id))
	app.SetEditMode("move")

	app.PointerDown(0, 0, string(id))
	moved := app.PointerMove(0.2, 0)
	app.PointerMove(0.4, 0)
	data := app.PointerUp()

	end := data.State.Objects[0].Position
	if end.X <= start.X+1 || math.Abs(end.Z-start.Z) > 1e-9 {
		t.Errorf("box at %s, expected it to move along +X from %s", end, start)
	}
	if mid := moved.State.Objects[0].Position; mid.X <= start.X || mid.X >= end.X {
		t.Errorf("intermediate position %s should lie between start and end %s", mid, end)
	}

	// The drag is a single undo step.
	data = app.Undo()
	if got := data.State.Objects[0].Position; got != start {
		t.Errorf("after undo box at %s, want %s", got, start)
	}
}
