package scene

import "math"

// Contains reports whether the ground-plane point p falls inside the
// object's footprint. Point elements use their rotated width by depth
// rectangle; walls use a band of their thickness around each segment.
func (o Object) Contains(p Vec3) bool {
	if o.Type == ElementWall {
		half := o.Scale.Z / 2
		for i := 0; i+1 < len(o.Points); i++ {
			if segmentDistXZ(p, o.Points[i], o.Points[i+1]) <= half {
				return true
			}
		}
		return false
	}
	dx, dz := p.X-o.Position.X, p.Z-o.Position.Z
	s, c := math.Sincos(-o.Rotation)
	lx := dx*c + dz*s
	lz := -dx*s + dz*c
	return math.Abs(lx) <= o.Scale.X/2 && math.Abs(lz) <= o.Scale.Z/2
}

func segmentDistXZ(p, a, b Vec3) float64 {
	abx, abz := b.X-a.X, b.Z-a.Z
	l2 := abx*abx + abz*abz
	if l2 == 0 {
		return p.DistXZ(a)
	}
	t := ((p.X-a.X)*abx + (p.Z-a.Z)*abz) / l2
	t = math.Max(0, math.Min(1, t))
	return p.DistXZ(Vec3{X: a.X + t*abx, Z: a.Z + t*abz})
}

// HitTest returns the most recently added object whose footprint contains
// p.
func (c Collection) HitTest(p Vec3) (ID, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Contains(p) {
			return c[i].ID, true
		}
	}
	return "", false
}
