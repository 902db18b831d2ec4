package game

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max mgl64.Vec3
}

// BoxAround returns the box centred on c with half extents h.
func BoxAround(c, h mgl64.Vec3) AABB {
	return AABB{Min: c.Sub(h), Max: c.Add(h)}
}

// Intersects reports strict overlap; touching faces do not count.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) HalfExtents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Shrink scales the box about its centre. k<1 makes it smaller.
func (b AABB) Shrink(k float64) AABB {
	return BoxAround(b.Center(), b.HalfExtents().Mul(k))
}

// Translate moves the box by d.
func (b AABB) Translate(d mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box holding both.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{min(b.Min.X(), o.Min.X()), min(b.Min.Y(), o.Min.Y()), min(b.Min.Z(), o.Min.Z())},
		Max: mgl64.Vec3{max(b.Max.X(), o.Max.X()), max(b.Max.Y(), o.Max.Y()), max(b.Max.Z(), o.Max.Z())},
	}
}
