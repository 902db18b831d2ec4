package game

import "github.com/go-gl/mathgl/mgl64"

// DesertMap is an open highway through dunes: cacti, rocks, the odd
// roadside diner. Nobody walks out here.
type DesertMap struct{}

func (DesertMap) ID() MapID { return MapDesert }

func (DesertMap) Populate(ctx *WorldContext, r *Rand) {
	ctx.Ground = GroundSpec{
		Ground:    MustHex("#d9b27c"),
		Road:      MustHex("#55504a"),
		Line:      MustHex("#f6d743"),
		Footpath:  MustHex("#c49a63"),
		Roughness: 1.0,
	}
	layoutRoad(ctx)
	layoutRoadLines(ctx, false)
	layoutFootpaths(ctx)
	layoutRoadside(ctx, r, 4.0, desertLook)
	layoutSkyline(ctx, r, MustHex("#b07a4f"), 6, 18)
}

func desertLook(e *Entity, r *Rand) {
	e.Glows = false
	switch r.Intn(6) {
	case 0:
		e.Kind = "diner"
		e.Half = mgl64.Vec3{4, 2, 5}
		e.Color = MustHex("#c8553d")
		e.Glows = true
	case 1, 2:
		e.Kind = "rock"
		s := r.RangeF(0.8, 2.2)
		e.Half = mgl64.Vec3{s * 1.3, s * 0.7, s}
		e.Color = MustHex("#9c6b45")
	default:
		e.Kind = "cactus"
		e.Half = mgl64.Vec3{0.4, r.RangeF(1.2, 2.6), 0.4}
		e.Color = MustHex("#4f7942")
	}
}
