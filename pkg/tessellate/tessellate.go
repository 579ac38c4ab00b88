// Package tessellate turns render drawables into triangle meshes using a
// geometry kernel. One mesh is produced per scene object; the segments of
// a wall are unioned into a single solid.
package tessellate

import (
	"fmt"

	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/chazu/floorplan/pkg/render"
	"github.com/chazu/floorplan/pkg/scene"
)

// part collects the boxes belonging to one object.
type part struct {
	id    scene.ID
	color string
	boxes []render.Drawable
}

// group buckets box drawables by object id, keeping first-seen order.
// Handles, markers, lines and labels are overlay-only and never meshed.
func group(drawables []render.Drawable) []*part {
	var parts []*part
	byID := make(map[scene.ID]*part)
	for _, d := range drawables {
		if d.Kind != render.KindBox || d.ObjectID.IsZero() {
			continue
		}
		p, ok := byID[d.ObjectID]
		if !ok {
			p = &part{id: d.ObjectID, color: d.Color}
			byID[d.ObjectID] = p
			parts = append(parts, p)
		}
		p.boxes = append(p.boxes, d)
	}
	return parts
}

// Tessellate produces one triangle mesh per scene object found in the
// drawables. It never mutates its input.
func Tessellate(drawables []render.Drawable, k kernel.Kernel) ([]*kernel.Mesh, error) {
	parts := group(drawables)
	if len(parts) == 0 {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		mesh, err := tessellatePart(k, p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: object %s: %w", p.id.Short(), err)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

func tessellatePart(k kernel.Kernel, p *part) (*kernel.Mesh, error) {
	solids := make([]kernel.Solid, 0, len(p.boxes))
	for _, d := range p.boxes {
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			return nil, fmt.Errorf("non-positive box size %s", d.Size)
		}
		s := k.Box(d.Size.X, d.Size.Y, d.Size.Z)
		solids = append(solids, k.Place(s, d.Center.X, d.Center.Y, d.Center.Z, d.RotationY))
	}

	mesh, err := k.ToMesh(k.Union(solids[0], solids[1:]...))
	if err != nil {
		return nil, err
	}
	mesh.ObjectID = string(p.id)
	mesh.Color = p.color
	return mesh, nil
}
