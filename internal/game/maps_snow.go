package game

import "github.com/go-gl/mathgl/mgl64"

// SnowMap is a mountain village road lined with pines and cabins.
type SnowMap struct{}

func (SnowMap) ID() MapID { return MapSnow }

func (SnowMap) Populate(ctx *WorldContext, r *Rand) {
	ctx.Ground = GroundSpec{
		Ground:    MustHex("#eef3f7"),
		Road:      MustHex("#6d7378"),
		Line:      MustHex("#fafafa"),
		Footpath:  MustHex("#d4dde4"),
		Roughness: 0.4,
	}
	layoutRoad(ctx)
	layoutRoadLines(ctx, false)
	layoutFootpaths(ctx)
	layoutRoadside(ctx, r, 2.0, snowLook)
	layoutPedestrians(ctx, r, ctx.Tuning.PedestrianCount/2, []Color{
		MustHex("#b22222"), MustHex("#1f4e79"), MustHex("#2f4f2f"),
	})
	layoutSkyline(ctx, r, MustHex("#c9d6e3"), 25, 60)
}

func snowLook(e *Entity, r *Rand) {
	if r.Intn(3) == 0 {
		e.Kind = "cabin"
		e.Half = mgl64.Vec3{r.RangeF(3, 4.5), r.RangeF(2, 3), r.RangeF(3, 4.5)}
		e.Color = MustHex("#7a4e2d")
		e.Glows = true
		return
	}
	e.Kind = "pine"
	e.Half = mgl64.Vec3{r.RangeF(1, 1.8), r.RangeF(3, 6), r.RangeF(1, 1.8)}
	e.Color = MustHex("#1e4d2b")
	e.Glows = false
}
