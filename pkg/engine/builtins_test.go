package engine

import (
	"strings"
	"testing"

	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/workspace"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(tool :edit)`,
			expect: `(tool "__kw_edit")`,
		},
		{
			name:   "multiple keywords",
			input:  `(click p :on :hit)`,
			expect: `(click p "__kw_on" "__kw_hit")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(drag-start p :on :hit)`,
			expect: `(drag_start p "__kw_on" "__kw_hit")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:per-tick`,
			expect: `"__kw_per-tick"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, source string) []workspace.Action {
	t.Helper()
	actions, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return actions
}

func v(x, y, z float64) scene.Vec3 {
	return scene.Vec3{X: x, Y: y, Z: z}
}

func TestBuiltinActions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []workspace.Action
	}{
		{
			name:   "tool",
			source: `(tool :edit)`,
			want:   []workspace.Action{workspace.SelectTool{Tool: mode.ToolEdit}},
		},
		{
			name:   "element from string",
			source: `(element "door")`,
			want:   []workspace.Action{workspace.SelectElement{Type: scene.ElementDoor}},
		},
		{
			name:   "edit mode",
			source: `(edit-mode :delete)`,
			want:   []workspace.Action{workspace.SetEditMode{Mode: mode.EditDelete}},
		},
		{
			name:   "no-argument actions",
			source: `(toggle-view) (cancel) (undo) (redo) (drag-end)`,
			want: []workspace.Action{
				workspace.ToggleView{}, workspace.Cancel{}, workspace.Undo{},
				workspace.Redo{}, workspace.DragEnd{},
			},
		},
		{
			name:   "pointer with floats",
			source: `(hover (vec3 1.5 0 2)) (drag-move (vec3 3 0 4.25))`,
			want: []workspace.Action{
				workspace.HoverAt{Point: v(1.5, 0, 2)},
				workspace.DragMove{Point: v(3, 0, 4.25)},
			},
		},
		{
			name:   "click on ground",
			source: `(click (vec3 1 0 2))`,
			want:   []workspace.Action{workspace.ClickAt{Point: v(1, 0, 2)}},
		},
		{
			name:   "click on id",
			source: `(click (vec3 1 0 2) :on "obj-1")`,
			want:   []workspace.Action{workspace.ClickAt{Point: v(1, 0, 2), Target: "obj-1"}},
		},
		{
			name:   "drag with hit test",
			source: `(drag-start (vec3 0 0 0) :on :hit)`,
			want:   []workspace.Action{workspace.DragStart{Point: v(0, 0, 0), Pick: true}},
		},
		{
			name:   "place several",
			source: `(place :shelf (vec3 1 0 1) (vec3 2 0 1))`,
			want: []workspace.Action{
				workspace.SelectElement{Type: scene.ElementShelf},
				workspace.ClickAt{Point: v(1, 0, 1)},
				workspace.ClickAt{Point: v(2, 0, 1)},
			},
		},
		{
			name:   "wall closes on first point",
			source: `(wall (vec3 0 0 0) (vec3 4 0 0) (vec3 4 0 4))`,
			want: []workspace.Action{
				workspace.SelectElement{Type: scene.ElementWall},
				workspace.ClickAt{Point: v(0, 0, 0)},
				workspace.ClickAt{Point: v(4, 0, 0)},
				workspace.ClickAt{Point: v(4, 0, 4)},
				workspace.ClickAt{Point: v(0, 0, 0)},
			},
		},
		{
			name: "variables and comments",
			source: `
; a corner shared by two calls
(def corner (vec3 2 0 3))
(place :box corner)
(click corner :on :hit)`,
			want: []workspace.Action{
				workspace.SelectElement{Type: scene.ElementBox},
				workspace.ClickAt{Point: v(2, 0, 3)},
				workspace.ClickAt{Point: v(2, 0, 3), Pick: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.source)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("actions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"vec3 arity", `(vec3 1 2)`, "exactly 3"},
		{"vec3 type", `(vec3 1 "a" 2)`, "expected number"},
		{"unknown tool", `(tool :hammer)`, "unknown tool"},
		{"unknown element", `(element :sofa)`, "unknown element"},
		{"place wall", `(place :wall (vec3 0 0 0))`, "not a single-click"},
		{"place without points", `(place :box)`, "at least 1 point"},
		{"wall one point", `(wall (vec3 0 0 0))`, "at least 2 points"},
		{"click without vec", `(click 1)`, "expected vec3"},
		{"drag without target", `(drag-start (vec3 0 0 0))`, "requires :on"},
		{"bad target keyword", `(click (vec3 0 0 0) :on :nearest)`, "unknown target"},
		{"undo with args", `(undo 1)`, "no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected eval error, got fatal: %v", err)
			}
			if actions != nil {
				t.Errorf("expected nil actions, got %d", len(actions))
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected an eval error")
			}
			if !strings.Contains(evalErrs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", evalErrs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	got := mustEval(t, `(place :box (vec3 (+ 1 1) 0 (* 2 3)))`)
	want := workspace.ClickAt{Point: v(2, 0, 6)}
	if len(got) != 2 || got[1] != want {
		t.Errorf("actions = %v, want a click at (2, 0, 6)", got)
	}
}

// ---------------------------------------------------------------------------
// End-to-end session
// ---------------------------------------------------------------------------

func TestSessionScript(t *testing.T) {
	source := `
(wall (vec3 0 0 0) (vec3 6 0 0) (vec3 6 0 4) (vec3 0 0 4))
(place :box (vec3 2 0 2))
(edit-mode :select)
(click (vec3 2 0 2) :on :hit)
(edit-mode :move)
(drag-start (vec3 2 0 2) :on :hit)
(drag-move (vec3 3 0 2))
(drag-move (vec3 4 0 3))
(drag-end)
`
	w := workspace.New(workspace.Options{Logger: zap.NewNop()})
	for _, a := range mustEval(t, source) {
		w.Dispatch(a)
	}

	objs := w.Objects()
	if len(objs) != 2 {
		t.Fatalf("expected a wall and a box, got %d objects", len(objs))
	}
	if objs[0].Type != scene.ElementWall || len(objs[0].Points) != 5 {
		t.Errorf("first object = %s with %d points, want a closed 4-corner wall", objs[0].Type, len(objs[0].Points))
	}
	box := objs[1]
	if !box.Selected {
		t.Error("box should be selected")
	}
	if box.Position != v(4, 0.5, 3) {
		t.Errorf("box position = %s, want (4, 0.5, 3)", box.Position)
	}

	// The whole drag is one undo step.
	w.Dispatch(workspace.Undo{})
	if got := w.Objects()[1].Position; got != v(2, 0.5, 2) {
		t.Errorf("after undo box at %s, want (2, 0.5, 2)", got)
	}
}
