package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/workspace"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms session scripts before passing them to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: drag-start -> drag_start
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //, the zygomys comment syntax.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Only the keywords listed in named take a value; any other keyword is
// positional, so (place :box ...) and (click p :on :hit) both parse.
func parseArgs(args []zygo.Sexp, named ...string) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	takes := make(map[string]bool, len(named))
	for _, n := range named {
		takes[n] = true
	}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && takes[name] {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_box) and plain strings ("box").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVec3s extracts every argument as a Vec3.
func toVec3s(args []zygo.Sexp) ([]scene.Vec3, error) {
	pts := make([]scene.Vec3, 0, len(args))
	for i, a := range args {
		v, err := toVec3(a)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i+1, err)
		}
		pts = append(pts, v)
	}
	return pts, nil
}

// target is the parsed form of an :on argument.
type target struct {
	id   scene.ID
	pick bool
}

// toTarget parses :on values: the keyword :hit asks the workspace to
// hit-test the point, a string names an object id.
func toTarget(s zygo.Sexp) (target, error) {
	if name, ok := isKW(s); ok {
		if name == "hit" {
			return target{pick: true}, nil
		}
		return target{}, fmt.Errorf("unknown target keyword :%s, expected :hit or an id string", name)
	}
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return target{}, fmt.Errorf("expected id string or :hit, got %T (%s)", s, s.SexpString(nil))
	}
	return target{id: scene.ID(str.S)}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// recorder collects the actions a script emits, in order.
type recorder struct {
	actions []workspace.Action
}

func (r *recorder) emit(a ...workspace.Action) {
	r.actions = append(r.actions, a...)
}

// noArgs wraps an action that takes no arguments.
func noArgs(rec *recorder, display string, a workspace.Action) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("%s takes no arguments, got %d", display, len(args))
		}
		rec.emit(a)
		return zygo.SexpNull, nil
	}
}

// onePoint wraps an action built from a single point.
func onePoint(rec *recorder, display string, mk func(scene.Vec3) workspace.Action) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 point, got %d arguments", display, len(args))
		}
		p, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		rec.emit(mk(p))
		return zygo.SexpNull, nil
	}
}

// pointOn parses (fn (vec3 ..) [:on target]).
func pointOn(display string, args []zygo.Sexp) (scene.Vec3, target, error) {
	pa := parseArgs(args, "on")
	if len(pa.positional) != 1 {
		return scene.Vec3{}, target{}, fmt.Errorf("%s requires exactly 1 point, got %d", display, len(pa.positional))
	}
	p, err := toVec3(pa.positional[0])
	if err != nil {
		return scene.Vec3{}, target{}, fmt.Errorf("%s: %w", display, err)
	}
	var tgt target
	if v, ok := pa.kw["on"]; ok {
		tgt, err = toTarget(v)
		if err != nil {
			return scene.Vec3{}, target{}, fmt.Errorf("%s: on: %w", display, err)
		}
	}
	return p, tgt, nil
}

// oneName wraps an action selected by a single keyword.
func oneName(rec *recorder, display string, parse func(string) (workspace.Action, error)) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", display, len(args))
		}
		s, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		a, err := parse(s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		rec.emit(a)
		return zygo.SexpNull, nil
	}
}

// registerBuiltins installs the session builtins into a zygomys
// environment. Each builtin appends workspace actions to rec.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
// Hyphenated builtins are registered under their underscore names.
func registerBuiltins(env *zygo.Zlisp, rec *recorder) {

	// -----------------------------------------------------------------------
	// (vec3 1 0 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: scene.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (tool :edit) (element :wall) (edit-mode :move)
	// -----------------------------------------------------------------------
	env.AddFunction("tool", oneName(rec, "tool", func(s string) (workspace.Action, error) {
		t, err := mode.ParseTool(s)
		return workspace.SelectTool{Tool: t}, err
	}))
	env.AddFunction("element", oneName(rec, "element", func(s string) (workspace.Action, error) {
		t, err := scene.ParseElementType(s)
		return workspace.SelectElement{Type: t}, err
	}))
	env.AddFunction("edit_mode", oneName(rec, "edit-mode", func(s string) (workspace.Action, error) {
		m, err := mode.ParseEditMode(s)
		return workspace.SetEditMode{Mode: m}, err
	}))

	// -----------------------------------------------------------------------
	// (toggle-view) (cancel) (undo) (redo) (drag-end)
	// -----------------------------------------------------------------------
	env.AddFunction("toggle_view", noArgs(rec, "toggle-view", workspace.ToggleView{}))
	env.AddFunction("cancel", noArgs(rec, "cancel", workspace.Cancel{}))
	env.AddFunction("undo", noArgs(rec, "undo", workspace.Undo{}))
	env.AddFunction("redo", noArgs(rec, "redo", workspace.Redo{}))
	env.AddFunction("drag_end", noArgs(rec, "drag-end", workspace.DragEnd{}))

	// -----------------------------------------------------------------------
	// (hover (vec3 1 0 1)) (drag-move (vec3 2 0 1))
	// -----------------------------------------------------------------------
	env.AddFunction("hover", onePoint(rec, "hover", func(p scene.Vec3) workspace.Action {
		return workspace.HoverAt{Point: p}
	}))
	env.AddFunction("drag_move", onePoint(rec, "drag-move", func(p scene.Vec3) workspace.Action {
		return workspace.DragMove{Point: p}
	}))

	// -----------------------------------------------------------------------
	// (click (vec3 1 0 1)) (click (vec3 1 0 1) :on :hit) (click p :on "id")
	// -----------------------------------------------------------------------
	env.AddFunction("click", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, tgt, err := pointOn("click", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		rec.emit(workspace.ClickAt{Point: p, Target: tgt.id, Pick: tgt.pick})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (drag-start (vec3 0 0 0) :on :hit)
	// -----------------------------------------------------------------------
	env.AddFunction("drag_start", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, tgt, err := pointOn("drag-start", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if tgt == (target{}) {
			return zygo.SexpNull, fmt.Errorf("drag-start requires :on")
		}
		rec.emit(workspace.DragStart{Point: p, Target: tgt.id, Pick: tgt.pick})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (place :box (vec3 1 0 1) (vec3 3 0 1) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("place requires an element type and at least 1 point")
		}
		s, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: type: %w", err)
		}
		t, err := scene.ParseElementType(s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		if !t.IsPoint() {
			return zygo.SexpNull, fmt.Errorf("place: %s is not a single-click element", t)
		}
		pts, err := toVec3s(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		rec.emit(workspace.SelectElement{Type: t})
		for _, p := range pts {
			rec.emit(workspace.ClickAt{Point: p})
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (wall (vec3 0 0 0) (vec3 4 0 0) (vec3 4 0 4) (vec3 0 0 4))
	//
	// Clicks every corner, then the first corner again to close.
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("wall requires at least 2 points, got %d", len(args))
		}
		pts, err := toVec3s(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: %w", err)
		}
		rec.emit(workspace.SelectElement{Type: scene.ElementWall})
		for _, p := range pts {
			rec.emit(workspace.ClickAt{Point: p})
		}
		rec.emit(workspace.ClickAt{Point: pts[0]})
		return zygo.SexpNull, nil
	})
}
