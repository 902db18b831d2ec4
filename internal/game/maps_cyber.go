package game

import "github.com/go-gl/mathgl/mgl64"

// CyberCityMap is permanently dark: neon lane markings and towers whose
// signage never switches off.
type CyberCityMap struct{}

func (CyberCityMap) ID() MapID { return MapCyberCity }

var cyberNeon = []Color{
	MustHex("#ff2a6d"), MustHex("#05d9e8"), MustHex("#d1f7ff"), MustHex("#a13dff"),
}

func (CyberCityMap) Populate(ctx *WorldContext, r *Rand) {
	ctx.Ground = GroundSpec{
		Ground:    MustHex("#0b0c1a"),
		Road:      MustHex("#15162b"),
		Line:      MustHex("#05d9e8"),
		Footpath:  MustHex("#24264a"),
		Roughness: 0.2,
	}
	ctx.LightFloor = 0.9
	layoutRoad(ctx)
	layoutRoadLines(ctx, true)
	layoutFootpaths(ctx)
	layoutRoadside(ctx, r, 1.5, cyberLook)
	layoutPedestrians(ctx, r, ctx.Tuning.PedestrianCount+2, cyberNeon)
	layoutSkyline(ctx, r, MustHex("#1a1035"), 35, 80)
}

func cyberLook(e *Entity, r *Rand) {
	e.Kind = "arcology"
	e.Half = mgl64.Vec3{r.RangeF(4, 8), r.RangeF(14, 34), r.RangeF(5, 9)}
	e.Color = cyberNeon[r.Intn(len(cyberNeon))].Scale(0.35)
	e.Glows = true
}
