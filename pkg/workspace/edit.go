package workspace

import (
	"github.com/chazu/floorplan/pkg/mode"
	"github.com/chazu/floorplan/pkg/scene"
	"go.uber.org/zap"
)

// dragState tracks an in-progress move gesture.
type dragState struct {
	active    bool
	id        scene.ID
	last      scene.Vec3
	committed bool // batched mode: the gesture already owns an undo step
}

func (w *Workspace) endDrag() bool {
	if !w.drag.active {
		return false
	}
	w.drag = dragState{}
	return true
}

func (w *Workspace) editClick(target scene.ID) bool {
	if w.tool != mode.ToolEdit {
		return false
	}
	cur := w.hist.Current()

	if target.IsZero() {
		return w.commit(withSelection(cur, ""), "clear selection")
	}
	obj, ok := cur.Find(target)
	if !ok {
		return false
	}

	switch w.edit {
	case mode.EditSelect:
		return w.commit(withSelection(cur, target), "select")
	case mode.EditDelete:
		if !obj.Selected {
			return false
		}
		return w.commit(cur.Without(target), "delete "+obj.Type.String())
	}
	return false
}

// withSelection returns c with exactly the object id selected. An empty id
// clears the selection.
func withSelection(c scene.Collection, id scene.ID) scene.Collection {
	for i := range c {
		c[i].Selected = c[i].ID == id && !id.IsZero()
	}
	return c
}

func (w *Workspace) dragStart(p scene.Vec3, target scene.ID) bool {
	if w.tool != mode.ToolEdit || w.edit != mode.EditMove || target.IsZero() {
		return false
	}
	obj, ok := w.hist.Current().Find(target)
	if !ok || !obj.Selected {
		return false
	}
	w.drag = dragState{active: true, id: target, last: p}
	return true
}

func (w *Workspace) dragMove(p scene.Vec3) bool {
	if !w.drag.active || w.tool != mode.ToolEdit || w.edit != mode.EditMove {
		return false
	}
	cur := w.hist.Current()
	i := cur.Index(w.drag.id)
	if i < 0 {
		w.endDrag()
		return false
	}

	delta := p.Sub(w.drag.last)
	w.drag.last = p
	// Objects stay on the ground plane; only the XZ delta applies.
	delta.Y = 0
	if delta == (scene.Vec3{}) {
		return false
	}
	if cur[i].Type == scene.ElementWall {
		// Wall points are absolute; Position only carries the vertical offset.
		for j := range cur[i].Points {
			cur[i].Points[j] = cur[i].Points[j].Add(delta)
		}
	} else {
		cur[i].Position = cur[i].Position.Add(delta)
	}

	if w.opts.DragHistory == DragBatched && w.drag.committed {
		w.hist.Amend(cur)
		return true
	}
	w.drag.committed = true
	return w.commit(cur, "move")
}

func (w *Workspace) dragEnd() bool {
	if !w.drag.active {
		return false
	}
	if w.drag.committed {
		if o, ok := w.hist.Current().Find(w.drag.id); ok {
			w.log.Debug("move finished", zap.String("id", o.ID.Short()), zap.Stringer("position", o.Position))
		}
	}
	return w.endDrag()
}
