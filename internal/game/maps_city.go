package game

import "github.com/go-gl/mathgl/mgl64"

// CityMap is a downtown corridor: office towers, busy footpaths.
type CityMap struct{}

func (CityMap) ID() MapID { return MapCity }

var cityFacades = []Color{
	MustHex("#8f8a84"), MustHex("#6b6f74"), MustHex("#b8a68c"), MustHex("#565a58"),
}

func (CityMap) Populate(ctx *WorldContext, r *Rand) {
	ctx.Ground = GroundSpec{
		Ground:    MustHex("#4a5a3c"),
		Road:      MustHex("#3c424f"),
		Line:      MustHex("#f2f2f2"),
		Footpath:  MustHex("#b4aa98"),
		Roughness: 0.8,
	}
	layoutRoad(ctx)
	layoutRoadLines(ctx, false)
	layoutFootpaths(ctx)
	layoutRoadside(ctx, r, 1.0, cityLook)
	layoutPedestrians(ctx, r, ctx.Tuning.PedestrianCount, []Color{
		MustHex("#2b4c7e"), MustHex("#a23b2a"), MustHex("#333333"), MustHex("#d9b44a"),
	})
	layoutSkyline(ctx, r, MustHex("#5d6470"), 20, 45)
}

func cityLook(e *Entity, r *Rand) {
	switch r.Intn(4) {
	case 0:
		e.Kind = "shop"
		e.Half = mgl64.Vec3{r.RangeF(3, 5), r.RangeF(2, 3.5), r.RangeF(4, 7)}
	default:
		e.Kind = "tower"
		e.Half = mgl64.Vec3{r.RangeF(4, 7), r.RangeF(8, 22), r.RangeF(5, 8)}
	}
	e.Color = cityFacades[r.Intn(len(cityFacades))]
	e.Glows = true
}
