package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/chazu/floorplan/pkg/config"
	"github.com/chazu/floorplan/pkg/engine"
	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/chazu/floorplan/pkg/kernel/sdfx"
	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/render"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/tessellate"
	"github.com/chazu/floorplan/pkg/viewport"
	"github.com/chazu/floorplan/pkg/workspace"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventSceneChanged is emitted to the frontend after every state change.
const EventSceneChanged = "scene:changed"

// App is the Wails backend. It exposes methods to the frontend via
// bindings; every binding funnels into a single workspace under one lock.
type App struct {
	ctx context.Context

	mu       sync.Mutex
	ws       *workspace.Workspace
	camera   viewport.Camera
	revision uint64

	meshRev   uint64
	meshCache []*kernel.Mesh

	cfg    *config.Config
	log    *zap.Logger
	level  zap.AtomicLevel
	engine *engine.Engine
	kernel kernel.Kernel
}

// CameraData carries the matrices the frontend renders with.
type CameraData struct {
	View       mgl64.Mat4 `json:"view"`
	Projection mgl64.Mat4 `json:"projection"`
	Ortho      bool       `json:"ortho"`
}

// SceneData is everything the frontend needs to draw one frame.
type SceneData struct {
	Revision  uint64            `json:"revision"`
	State     workspace.State   `json:"state"`
	Drawables []render.Drawable `json:"drawables"`
	Overlay   []render.Drawable `json:"overlay"`
	Camera    CameraData        `json:"camera"`
}

// ScriptResult is returned by RunScript.
type ScriptResult struct {
	Errors     []engine.EvalError `json:"errors"`
	Dispatched int                `json:"dispatched"`
	Changed    int                `json:"changed"`
	Scene      SceneData          `json:"scene"`
}

// CatalogEntry describes one palette element.
type CatalogEntry struct {
	Type       scene.ElementType `json:"type"`
	Dimensions scene.Dimensions  `json:"dimensions"`
	Color      string            `json:"color"`
}

// NewApp creates an App from a loaded configuration.
func NewApp(cfg *config.Config, log *zap.Logger, level zap.AtomicLevel) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		cfg:    cfg,
		log:    log,
		level:  level,
		camera: cfg.ViewportCamera(),
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.ScriptTimeout()),
			engine.WithLogger(log.Named("engine")),
		),
		kernel: sdfx.New(cfg.Render.MeshCells),
	}
	opts := cfg.WorkspaceOptions(log.Named("workspace"))
	// Runs inside Dispatch, which is always called with a.mu held.
	opts.OnChange = func() { a.revision++ }
	a.ws = workspace.New(opts)
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("floorplan started")
}

func (a *App) shutdown(ctx context.Context) {
	_ = a.log.Sync()
}

// ---------------------------------------------------------------------------
// Dispatch plumbing
// ---------------------------------------------------------------------------

// dispatch applies actions in order and, if anything changed, notifies
// the frontend.
func (a *App) dispatch(actions ...workspace.Action) SceneData {
	a.mu.Lock()
	before := a.revision
	for _, act := range actions {
		a.ws.Dispatch(act)
	}
	changed := a.revision != before
	data := a.sceneLocked()
	a.mu.Unlock()

	if changed {
		a.emit(data)
	}
	return data
}

func (a *App) emit(data SceneData) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, EventSceneChanged, data)
}

func (a *App) sceneLocked() SceneData {
	st := a.ws.State()
	view := a.ws.View()
	return SceneData{
		Revision:  a.revision,
		State:     st,
		Drawables: render.Build(st.Objects),
		Overlay:   render.Overlay(st.Draft),
		Camera: CameraData{
			View:       a.camera.View(view),
			Projection: a.camera.Projection(view),
			Ortho:      view == mode.View2D,
		},
	}
}

// ground converts a pointer position in normalized device coordinates
// into a ground-plane point for the active view.
func (a *App) ground(ndcX, ndcY float64) (scene.Vec3, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera.GroundPoint(a.ws.View(), ndcX, ndcY)
}

// ---------------------------------------------------------------------------
// Tool bindings
// ---------------------------------------------------------------------------

// SelectTool activates a tool by name.
func (a *App) SelectTool(name string) (SceneData, error) {
	t, err := mode.ParseTool(name)
	if err != nil {
		return SceneData{}, err
	}
	return a.dispatch(workspace.SelectTool{Tool: t}), nil
}

// SelectElement picks a palette element by name.
func (a *App) SelectElement(name string) (SceneData, error) {
	t, err := scene.ParseElementType(name)
	if err != nil {
		return SceneData{}, err
	}
	return a.dispatch(workspace.SelectElement{Type: t}), nil
}

// SetEditMode activates an edit sub-tool by name.
func (a *App) SetEditMode(name string) (SceneData, error) {
	m, err := mode.ParseEditMode(name)
	if err != nil {
		return SceneData{}, err
	}
	return a.dispatch(workspace.SetEditMode{Mode: m}), nil
}

// ToggleView switches between the 3D and top-down views.
func (a *App) ToggleView() SceneData { return a.dispatch(workspace.ToggleView{}) }

// Cancel abandons drawing and dragging.
func (a *App) Cancel() SceneData { return a.dispatch(workspace.Cancel{}) }

// Undo steps back one history entry.
func (a *App) Undo() SceneData { return a.dispatch(workspace.Undo{}) }

// Redo steps forward one history entry.
func (a *App) Redo() SceneData { return a.dispatch(workspace.Redo{}) }

// ---------------------------------------------------------------------------
// Pointer bindings
// ---------------------------------------------------------------------------

// Click handles a completed click. target is the object id the frontend
// ray-cast hit, or empty for the ground.
func (a *App) Click(ndcX, ndcY float64, target string) SceneData {
	p, ok := a.ground(ndcX, ndcY)
	if !ok {
		// Without a ground point only an object click in edit mode means anything.
		a.mu.Lock()
		edit := a.ws.Tool() == mode.ToolEdit
		a.mu.Unlock()
		if target == "" || !edit {
			return a.Scene()
		}
	}
	return a.dispatch(workspace.ClickAt{Point: p, Target: scene.ID(target)})
}

// PointerDown may begin a drag on target.
func (a *App) PointerDown(ndcX, ndcY float64, target string) SceneData {
	p, ok := a.ground(ndcX, ndcY)
	if !ok {
		return a.Scene()
	}
	return a.dispatch(workspace.DragStart{Point: p, Target: scene.ID(target)})
}

// PointerMove drags while a drag is active and hovers otherwise.
func (a *App) PointerMove(ndcX, ndcY float64) SceneData {
	p, ok := a.ground(ndcX, ndcY)
	if !ok {
		return a.Scene()
	}
	a.mu.Lock()
	dragging := a.ws.Dragging()
	a.mu.Unlock()
	if dragging {
		return a.dispatch(workspace.DragMove{Point: p})
	}
	return a.dispatch(workspace.HoverAt{Point: p})
}

// PointerUp ends a drag.
func (a *App) PointerUp() SceneData { return a.dispatch(workspace.DragEnd{}) }

// PickGround reports the ground point under a pointer position.
func (a *App) PickGround(ndcX, ndcY float64) (scene.Vec3, error) {
	p, ok := a.ground(ndcX, ndcY)
	if !ok {
		return scene.Vec3{}, fmt.Errorf("pointer (%g, %g) does not hit the ground", ndcX, ndcY)
	}
	return p, nil
}

// HitTest returns the id of the object whose footprint lies under a
// pointer position, or an empty string.
func (a *App) HitTest(ndcX, ndcY float64) string {
	p, ok := a.ground(ndcX, ndcY)
	if !ok {
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id, _ := a.ws.Objects().HitTest(p)
	return string(id)
}

// Resize updates the viewport size in pixels.
func (a *App) Resize(width, height int) SceneData {
	a.mu.Lock()
	if width > 0 && height > 0 {
		a.camera.Width, a.camera.Height = float64(width), float64(height)
	}
	data := a.sceneLocked()
	a.mu.Unlock()
	return data
}

// SetLogLevel changes the backend log level at runtime.
func (a *App) SetLogLevel(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.level.SetLevel(lvl)
	a.log.Info("log level changed", zap.Stringer("level", lvl))
	return nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Scene returns the current frame data without changing anything.
func (a *App) Scene() SceneData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sceneLocked()
}

// Catalog lists the placeable elements.
func (a *App) Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(scene.ElementTypes))
	for _, t := range scene.ElementTypes {
		entries = append(entries, CatalogEntry{
			Type:       t,
			Dimensions: scene.DefaultDimensions(t),
			Color:      render.ColorFor(t),
		})
	}
	return entries
}

// Meshes tessellates the committed scene. Results are cached per revision.
func (a *App) Meshes() ([]*kernel.Mesh, error) {
	a.mu.Lock()
	rev := a.revision
	if a.meshCache != nil && a.meshRev == rev {
		cached := a.meshCache
		a.mu.Unlock()
		return cached, nil
	}
	drawables := render.Build(a.ws.Objects())
	a.mu.Unlock()

	meshes, err := tessellate.Tessellate(drawables, a.kernel)
	if err != nil {
		a.log.Error("tessellation failed", zap.Error(err))
		return nil, err
	}
	if meshes == nil {
		meshes = []*kernel.Mesh{}
	}

	a.mu.Lock()
	if a.revision == rev {
		a.meshRev, a.meshCache = rev, meshes
	}
	a.mu.Unlock()
	return meshes, nil
}

// RunScript evaluates a session script and dispatches its actions into
// the live workspace. Scripts with errors dispatch nothing.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{Errors: []engine.EvalError{}}

	actions, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Warn("script failed", zap.Error(err))
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		result.Scene = a.Scene()
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, evalErrs...)
		result.Scene = a.Scene()
		return result
	}

	a.mu.Lock()
	before := a.revision
	for _, act := range actions {
		if a.ws.Dispatch(act) {
			result.Changed++
		}
	}
	changed := a.revision != before
	result.Scene = a.sceneLocked()
	a.mu.Unlock()

	result.Dispatched = len(actions)
	if changed {
		a.emit(result.Scene)
	}
	return result
}
