package game

import (
	"math"
	"testing"
)

func newTestWorld(t *testing.T, profile MapProfile) *WorldManager {
	t.Helper()
	wm := NewWorldManager(DefaultTuning(), 12345, nil)
	wm.Populate(profile)
	return wm
}

func poolSizes(wm *WorldManager) [CategoryCount]int {
	var n [CategoryCount]int
	for c := Category(0); c < CategoryCount; c++ {
		n[c] = wm.Pool(c).Len()
	}
	return n
}

func TestPopulate_InitialCollectibles(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	if got := wm.Pool(CategoryPoint).VisibleCount(); got != 15 {
		t.Fatalf("visible points = %d, want 15", got)
	}
	if got := wm.Pool(CategoryBoost).Len(); got != 1 {
		t.Fatalf("boosts = %d, want 1", got)
	}
	if got := wm.Pool(CategoryTraffic).Len(); got < 1 {
		t.Fatalf("traffic = %d, want at least 1", got)
	}
	for _, e := range wm.Pool(CategoryPoint).Items {
		if e.Pos.Z() < tu.InitialNearZ || e.Pos.Z() > tu.PointSpawnZ+tu.PointSpawnBand {
			t.Fatalf("point %d placed at z=%.1f outside the visible range", e.ID, e.Pos.Z())
		}
	}
	if len(wm.Statics()) == 0 {
		t.Fatal("profile emitted no ground or road")
	}
}

func TestPopulate_UniqueIDsAndCategories(t *testing.T) {
	wm := newTestWorld(t, CyberCityMap{})
	seen := map[uint32]bool{}
	for c := Category(0); c < CategoryCount; c++ {
		for _, e := range wm.Pool(c).Items {
			if e.Category != c {
				t.Fatalf("entity %d in %s pool tagged %s", e.ID, c, e.Category)
			}
			if seen[e.ID] {
				t.Fatalf("duplicate entity id %d", e.ID)
			}
			seen[e.ID] = true
		}
	}
}

func TestPopulate_ReplacesPreviousMap(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	if wm.Pool(CategoryPedestrian).Len() == 0 {
		t.Fatal("city should have pedestrians")
	}
	wm.Populate(DesertMap{})
	if n := wm.Pool(CategoryPedestrian).Len(); n != 0 {
		t.Fatalf("desert kept %d pedestrians from the city", n)
	}
	if wm.Profile().ID() != MapDesert {
		t.Fatalf("profile = %s", wm.Profile().ID())
	}
	if got := wm.Pool(CategoryPoint).Len(); got != 15 {
		t.Fatalf("points after repopulate = %d, want 15", got)
	}
}

func TestPopulate_NilProfileUsesDefault(t *testing.T) {
	wm := newTestWorld(t, nil)
	if wm.Profile().ID() != MapCity {
		t.Fatalf("profile = %s, want City", wm.Profile().ID())
	}
}

func TestPopulate_InvalidatesEnvironment(t *testing.T) {
	wm := NewWorldManager(DefaultTuning(), 1, nil)
	inv := &countingInvalidator{}
	wm.SetEnvironment(inv)
	wm.Populate(CityMap{})
	wm.Populate(SnowMap{})
	if inv.n != 2 {
		t.Fatalf("invalidated %d times, want 2", inv.n)
	}
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

func TestAdvance_BeforePopulateIsNoop(t *testing.T) {
	wm := NewWorldManager(DefaultTuning(), 1, nil)
	wm.Advance(10, 1, 1)
	wm.Reset()
	if wm.SpawnTraffic(3) != 0 {
		t.Fatal("SpawnTraffic before populate should add nothing")
	}
	if wm.Statics() != nil {
		t.Fatal("statics before populate should be nil")
	}
}

func TestAdvance_PoolSizesNeverChange(t *testing.T) {
	for id := MapID(0); id < MapCount; id++ {
		profile, _ := MapByID(id)
		wm := newTestWorld(t, profile)
		before := poolSizes(wm)
		for i := 0; i < 2000; i++ {
			wm.Advance(0.75, 0.1, 1)
		}
		if after := poolSizes(wm); after != before {
			t.Fatalf("%s: pool sizes changed %v -> %v", id, before, after)
		}
	}
}

func TestAdvance_EntitiesStayInWindow(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	check := func(step int) {
		for _, e := range wm.Pool(CategoryPoint).Items {
			if e.Pos.Z() < tu.PointRecycleZ {
				t.Fatalf("step %d: point left behind at z=%.2f", step, e.Pos.Z())
			}
		}
		for _, e := range wm.Pool(CategoryBoost).Items {
			if e.Pos.Z() < tu.BoostRecycleZ {
				t.Fatalf("step %d: boost left behind at z=%.2f", step, e.Pos.Z())
			}
		}
		for _, e := range wm.Pool(CategoryTraffic).Items {
			if e.Pos.Z() < tu.TrafficRecycleZ {
				t.Fatalf("step %d: car left behind at z=%.2f", step, e.Pos.Z())
			}
		}
		for _, c := range [...]Category{CategoryPedestrian, CategoryBuilding, CategoryRoadLine, CategoryFootpath, CategorySkyline} {
			for _, e := range wm.Pool(c).Items {
				z := e.Pos.Z()
				if z < tu.SceneryRecycleZ || z >= tu.SceneryRecycleZ+tu.CorridorLength {
					t.Fatalf("step %d: %s at z=%.2f outside the corridor window", step, c, z)
				}
			}
		}
	}
	for i := 0; i < 3000; i++ {
		wm.Advance(0.9, 0.15, 1)
		check(i)
	}
}

func TestAdvance_LargeStepWrapsScenery(t *testing.T) {
	wm := newTestWorld(t, SnowMap{})
	tu := wm.Tuning()
	wm.Advance(tu.CorridorLength*7.3, 0, 1)
	for _, c := range [...]Category{CategoryBuilding, CategoryRoadLine, CategoryFootpath} {
		for _, e := range wm.Pool(c).Items {
			z := e.Pos.Z()
			if z < tu.SceneryRecycleZ || z >= tu.SceneryRecycleZ+tu.CorridorLength {
				t.Fatalf("%s stale after one large step: z=%.2f", c, z)
			}
		}
	}
}

func TestAdvance_RoadLineSpacingPreserved(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	spacing := tu.CorridorLength / float64(tu.RoadLineCount)
	for i := 0; i < 500; i++ {
		wm.Advance(1.37, 0, 1)
	}
	lines := wm.Pool(CategoryRoadLine).Items
	for i := 1; i < tu.RoadLineCount; i++ {
		d := lines[i].Pos.Z() - lines[i-1].Pos.Z()
		d = math.Mod(d+tu.CorridorLength, tu.CorridorLength)
		if math.Abs(d-spacing) > 1e-6 {
			t.Fatalf("dash %d: gap %.6f, want %.6f", i, d, spacing)
		}
	}
}

func TestAdvance_FullCorridorKeepsCollectibles(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	steps := int(tu.CorridorLength / 0.5)
	for i := 0; i < steps; i++ {
		wm.Advance(0.5, 0, 1)
	}
	if got := wm.Pool(CategoryPoint).VisibleCount(); got != 15 {
		t.Fatalf("visible points = %d, want 15", got)
	}
	if got := wm.Pool(CategoryBoost).Len(); got != 1 {
		t.Fatalf("boosts = %d, want 1", got)
	}
}

func TestAdvance_RecycledPointsReappear(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	for _, e := range wm.Pool(CategoryPoint).Items {
		e.Visible = false
	}
	// Every point starts below PointSpawnZ+PointSpawnBand, so this far a
	// scroll recycles all of them.
	dist := tu.PointSpawnZ + tu.PointSpawnBand - tu.PointRecycleZ + 1
	for s := 0.0; s < dist; s += 1 {
		wm.Advance(1, 0, 1)
	}
	if got := wm.Pool(CategoryPoint).VisibleCount(); got != tu.PointCount {
		t.Fatalf("visible points = %d, want %d", got, tu.PointCount)
	}
	for _, e := range wm.Pool(CategoryPoint).Items {
		onLane := false
		for l := 0; l < tu.LaneCount; l++ {
			if e.Pos.X() == tu.LaneX(l) {
				onLane = true
			}
		}
		if !onLane {
			t.Fatalf("point %d respawned off lane at x=%.2f", e.ID, e.Pos.X())
		}
	}
}

func TestAdvance_BoostRespawnsFarAhead(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	b := wm.Pool(CategoryBoost).Items[0]
	b.Pos[2] = tu.BoostRecycleZ + 0.5
	b.Visible = false
	wm.Advance(1, 0, 1)
	if b.Pos.Z() < tu.BoostSpawnZ || b.Pos.Z() >= tu.BoostSpawnZ+tu.BoostSpawnBand {
		t.Fatalf("boost respawned at z=%.1f, want [%v,%v)", b.Pos.Z(), tu.BoostSpawnZ, tu.BoostSpawnZ+tu.BoostSpawnBand)
	}
	if !b.Visible {
		t.Fatal("respawned boost should be visible")
	}
}

func TestAdvance_TrafficMovesFasterThanScenery(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	car := wm.Pool(CategoryTraffic).Items[0]
	line := wm.Pool(CategoryRoadLine).Items[0]
	car.Pos[2], line.Pos[2] = 100, 100
	wm.Advance(2, 0.5, 1)
	if car.Pos.Z() != 97.5 {
		t.Fatalf("car z = %v, want 97.5", car.Pos.Z())
	}
	if line.Pos.Z() != 98 {
		t.Fatalf("line z = %v, want 98", line.Pos.Z())
	}
}

func TestAdvance_SpinAndTumble(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	p := wm.Pool(CategoryPoint).Items[0]
	b := wm.Pool(CategoryBoost).Items[0]
	p.Rot[1], b.Rot[0] = 0, 0
	wm.Advance(0, 0, 2)
	if math.Abs(p.Rot.Y()-tu.PointSpinRate*2) > 1e-12 {
		t.Fatalf("point spin = %v", p.Rot.Y())
	}
	if math.Abs(b.Rot.X()-tu.BoostTumbleRate*2) > 1e-12 {
		t.Fatalf("boost tumble = %v", b.Rot.X())
	}
}

func TestAdvance_PedestriansStayOnFootpath(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	for i := 0; i < 5000; i++ {
		wm.Advance(0.2, 0, 1)
	}
	for _, e := range wm.Pool(CategoryPedestrian).Items {
		if e.Pos.X() < e.WalkMin || e.Pos.X() > e.WalkMax {
			t.Fatalf("pedestrian %d walked off at x=%.2f [%.2f,%.2f]", e.ID, e.Pos.X(), e.WalkMin, e.WalkMax)
		}
	}
}

func TestAdvance_BuildingsKeepBuildingLine(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	edge := tu.RoadHalfWidth() + tu.FootpathWidth + 1.0
	for i := 0; i < 1000; i++ {
		wm.Advance(1.1, 0, 1)
	}
	for _, e := range wm.Pool(CategoryBuilding).Items {
		inner := math.Abs(e.Pos.X()) - e.Half.X()
		if math.Abs(inner-edge) > 1e-9 {
			t.Fatalf("building %d facade at %.4f, want %.4f", e.ID, inner, edge)
		}
		if e.Pos.Y() != e.Half.Y() {
			t.Fatalf("building %d not standing on the ground", e.ID)
		}
	}
}

func TestAdvance_SkylineParallax(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	e := wm.Pool(CategorySkyline).Items[0]
	e.Pos[2] = 100
	wm.Advance(4, 0, 1)
	if e.Pos.Z() != 99 {
		t.Fatalf("skyline z = %v, want 99", e.Pos.Z())
	}
}

func TestAssignDistinctColor_NoRepeats(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	prev, _ := wm.AssignDistinctColor()
	for i := 0; i < 500; i++ {
		idx, c := wm.AssignDistinctColor()
		if idx == prev {
			t.Fatalf("pick %d repeated palette index %d", i, idx)
		}
		if c != TrafficPalette[idx] {
			t.Fatalf("colour does not match palette index %d", idx)
		}
		prev = idx
	}
}

func TestTrafficRespawn_TwoColoursAlternate(t *testing.T) {
	tu := DefaultTuning()
	tu.TrafficCount = 1
	wm := NewWorldManager(tu, 99, nil)
	red, blue := MustHex("#ff0000"), MustHex("#0000ff")
	wm.SetPalette([]Color{red, blue})
	wm.Populate(CityMap{})
	car := wm.Pool(CategoryTraffic).Items[0]
	want := car.Color
	for i := 0; i < 5; i++ {
		if want == red {
			want = blue
		} else {
			want = red
		}
		car.Pos[2] = tu.TrafficRecycleZ + 0.1
		wm.Advance(0, 0.2, 1)
		if car.Color != want {
			t.Fatalf("respawn %d: got %+v, want %+v", i, car.Color, want)
		}
	}
}

func TestAssignDistinctColor_SingleColour(t *testing.T) {
	wm := NewWorldManager(DefaultTuning(), 3, nil)
	only := MustHex("#123456")
	wm.SetPalette([]Color{only})
	for i := 0; i < 3; i++ {
		if _, c := wm.AssignDistinctColor(); c != only {
			t.Fatalf("got %+v", c)
		}
	}
	wm.SetPalette(nil)
	if _, c := wm.AssignDistinctColor(); c != only {
		t.Fatal("empty palette should be ignored")
	}
}

func TestTrafficRespawnChangesColour(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	cars := wm.Pool(CategoryTraffic).Items
	if len(cars) < 3 {
		t.Fatalf("fixture: traffic = %d", len(cars))
	}
	for i := 0; i < 300; i++ {
		car := cars[i%len(cars)]
		before := car.ColorIndex
		car.Pos[2] = tu.TrafficRecycleZ + 0.1
		wm.Advance(0, 0.2, 1)
		if car.Pos.Z() < tu.TrafficSpawnZ || car.Pos.Z() >= tu.TrafficSpawnZ+tu.TrafficSpawnBand {
			t.Fatalf("car respawned at z=%.1f", car.Pos.Z())
		}
		if car.ColorIndex == before {
			t.Fatalf("respawn %d kept colour index %d", i, before)
		}
		if car.Color != TrafficPalette[car.ColorIndex] {
			t.Fatalf("colour does not match palette index %d", car.ColorIndex)
		}
	}
}

func TestTuning_LaneCentres(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	half := wm.Tuning().RoadHalfWidth()
	first, last := wm.Tuning().LaneX(0), wm.Tuning().LaneX(wm.Tuning().LaneCount-1)
	if math.Abs(first+last) > 1e-9 || first <= -half || last >= half {
		t.Fatalf("lanes %v..%v outside road half width %v", first, last, half)
	}
	if wm.Tuning().LaneX(-3) != first || wm.Tuning().LaneX(99) != last {
		t.Fatal("out of range lanes are not clamped")
	}
}

func TestSpawnTraffic_CappedAtMax(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	tu := wm.Tuning()
	added := wm.SpawnTraffic(100)
	if added != tu.MaxTraffic-tu.TrafficCount {
		t.Fatalf("added %d, want %d", added, tu.MaxTraffic-tu.TrafficCount)
	}
	if wm.Pool(CategoryTraffic).Len() != tu.MaxTraffic {
		t.Fatalf("traffic = %d, want %d", wm.Pool(CategoryTraffic).Len(), tu.MaxTraffic)
	}
	if wm.SpawnTraffic(1) != 0 {
		t.Fatal("spawned past the cap")
	}
}

func TestApplyNightFactor_DrivesLights(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	p := NewPlayer(PlaceholderModel())
	wm.AttachPlayer(p)
	tu := wm.Tuning()

	wm.ApplyNightFactor(0.5)
	if l := wm.Lights(); l.Headlight != tu.HeadlightMax*0.5 || l.WindowGlow != tu.WindowGlowMax*0.5 {
		t.Fatalf("lights = %+v", l)
	}
	if p.Headlights != tu.HeadlightMax*0.5 {
		t.Fatalf("player headlights = %v", p.Headlights)
	}
	for _, part := range p.Model.Parts {
		want := 0.0
		if part.Class == PartLight {
			want = tu.HeadlightMax * 0.5
		}
		if part.Emissive != want {
			t.Fatalf("part %s emissive = %v, want %v", part.Name, part.Emissive, want)
		}
	}
	for _, e := range wm.Pool(CategoryTraffic).Items {
		if e.Emissive != tu.HeadlightMax*0.5 {
			t.Fatalf("car %d headlights = %v", e.ID, e.Emissive)
		}
	}
	for _, e := range wm.Pool(CategoryBuilding).Items {
		if e.Glows && e.Emissive != tu.WindowGlowMax*0.5 {
			t.Fatalf("building %d glow = %v", e.ID, e.Emissive)
		}
	}

	wm.ApplyNightFactor(7)
	if wm.Lights().NightFactor != 1 {
		t.Fatalf("factor not clamped: %v", wm.Lights().NightFactor)
	}
	wm.ApplyNightFactor(-1)
	if wm.Lights().NightFactor != 0 {
		t.Fatalf("factor not clamped: %v", wm.Lights().NightFactor)
	}
}

func TestApplyNightFactor_CyberCityFloor(t *testing.T) {
	wm := newTestWorld(t, CyberCityMap{})
	if f := wm.Lights().NightFactor; f != 0.9 {
		t.Fatalf("populated cyber city night factor = %v, want 0.9", f)
	}
	wm.ApplyNightFactor(0)
	if f := wm.Lights().NightFactor; f != 0.9 {
		t.Fatalf("floored night factor = %v, want 0.9", f)
	}
	wm.ApplyNightFactor(1)
	if f := wm.Lights().NightFactor; f != 1 {
		t.Fatalf("night factor = %v, want 1", f)
	}
	wm.ApplyNightFactor(0)
	wm.Populate(CityMap{})
	if f := wm.Lights().NightFactor; f != 0 {
		t.Fatalf("city kept the cyber floor: %v", f)
	}
}

func TestReset_RestoresCollectiblesAndTraffic(t *testing.T) {
	wm := newTestWorld(t, CityMap{})
	homes := map[uint32][2]float64{}
	for _, e := range wm.Pool(CategoryTraffic).Items {
		homes[e.ID] = [2]float64{e.Pos.X(), e.Pos.Z()}
	}
	for _, e := range wm.Pool(CategoryPoint).Items {
		e.Visible = false
	}
	wm.Pool(CategoryBoost).Items[0].Visible = false
	for i := 0; i < 50; i++ {
		wm.Advance(3, 1, 1)
	}
	wm.Reset()
	if got := wm.Pool(CategoryPoint).VisibleCount(); got != 15 {
		t.Fatalf("visible points after reset = %d", got)
	}
	if !wm.Pool(CategoryBoost).Items[0].Visible {
		t.Fatal("boost hidden after reset")
	}
	for _, e := range wm.Pool(CategoryTraffic).Items {
		h := homes[e.ID]
		if e.Pos.X() != h[0] || e.Pos.Z() != h[1] || e.Lane != e.HomeLane {
			t.Fatalf("car %d at (%.2f,%.2f), want home (%.2f,%.2f)", e.ID, e.Pos.X(), e.Pos.Z(), h[0], h[1])
		}
	}
}
