package game

import (
	"math"
	"testing"
)

func TestResolveMap(t *testing.T) {
	cases := []struct {
		in   string
		want MapID
		ok   bool
	}{
		{"city", MapCity, true},
		{"Desert", MapDesert, true},
		{"SNOW", MapSnow, true},
		{"  Cyber-City ", MapCyberCity, true},
		{"cyber_city", MapCyberCity, true},
		{"neon", MapCyberCity, true},
		{"dunes", MapDesert, true},
		{"desrt", MapDesert, true},
		{"snoww", MapSnow, true},
		{"cybercty", MapCyberCity, true},
		{"volcano", MapCity, false},
		{"", MapCity, false},
		{"xy", MapCity, false},
	}
	for _, c := range cases {
		p, ok := ResolveMap(c.in)
		if p.ID() != c.want || ok != c.ok {
			t.Fatalf("ResolveMap(%q) = %s,%v want %s,%v", c.in, p.ID(), ok, c.want, c.ok)
		}
	}
}

func TestMapByID(t *testing.T) {
	for id := MapID(0); id < MapCount; id++ {
		p, ok := MapByID(id)
		if !ok || p.ID() != id {
			t.Fatalf("MapByID(%d) = %s,%v", id, p.ID(), ok)
		}
	}
	if p, ok := MapByID(MapCount); ok || p.ID() != MapCity {
		t.Fatalf("out of range id resolved to %s,%v", p.ID(), ok)
	}
	if MapID(-1).String() != "City" {
		t.Fatalf("unknown id name = %q", MapID(-1).String())
	}
}

func TestMapProfiles_Layout(t *testing.T) {
	tu := DefaultTuning()
	cases := []struct {
		profile     MapProfile
		pedestrians int
		glowLines   bool
		floor       float64
	}{
		{CityMap{}, tu.PedestrianCount, false, 0},
		{DesertMap{}, 0, false, 0},
		{SnowMap{}, tu.PedestrianCount / 2, false, 0},
		{CyberCityMap{}, tu.PedestrianCount + 2, true, 0.9},
	}
	for _, c := range cases {
		wm := NewWorldManager(tu, 5, nil)
		wm.Populate(c.profile)
		name := c.profile.ID().String()

		if n := wm.Pool(CategoryPedestrian).Len(); n != c.pedestrians {
			t.Fatalf("%s: pedestrians = %d, want %d", name, n, c.pedestrians)
		}
		if n := wm.Pool(CategoryBuilding).Len(); n != 2*tu.BuildingCount {
			t.Fatalf("%s: roadside props = %d, want %d", name, n, 2*tu.BuildingCount)
		}
		if n := wm.Pool(CategoryFootpath).Len(); n != 2*tu.FootpathCount {
			t.Fatalf("%s: footpaths = %d, want %d", name, n, 2*tu.FootpathCount)
		}
		if n := wm.Pool(CategoryRoadLine).Len(); n != (tu.LaneCount-1)*tu.RoadLineCount {
			t.Fatalf("%s: road lines = %d", name, n)
		}
		if n := wm.Pool(CategorySkyline).Len(); n != tu.SkylineCount {
			t.Fatalf("%s: skyline = %d", name, n)
		}
		if len(wm.Statics()) != 2 {
			t.Fatalf("%s: statics = %d, want ground and road", name, len(wm.Statics()))
		}
		if wm.ctx.SpawnAhead == nil {
			t.Fatalf("%s: no spawn-ahead callback registered", name)
		}
		if wm.ctx.LightFloor != c.floor {
			t.Fatalf("%s: light floor = %v, want %v", name, wm.ctx.LightFloor, c.floor)
		}
		for _, e := range wm.Pool(CategoryRoadLine).Items {
			if e.Glows != c.glowLines {
				t.Fatalf("%s: road line glow = %v", name, e.Glows)
			}
		}
		for _, e := range wm.Pool(CategoryBuilding).Items {
			if e.Kind == "" {
				t.Fatalf("%s: roadside prop without a kind", name)
			}
			if e.Half.X() <= 0 || e.Half.Y() <= 0 {
				t.Fatalf("%s: prop %q has no size", name, e.Kind)
			}
		}
		for _, e := range wm.Pool(CategoryPedestrian).Items {
			if e.Pos.X() < e.WalkMin || e.Pos.X() > e.WalkMax {
				t.Fatalf("%s: pedestrian placed off its footpath", name)
			}
			if math.Min(math.Abs(e.WalkMin), math.Abs(e.WalkMax)) < tu.RoadHalfWidth() {
				t.Fatalf("%s: pedestrian patrol reaches the road", name)
			}
		}
	}
}

func TestMapProfiles_DeterministicForSeed(t *testing.T) {
	a := NewWorldManager(DefaultTuning(), 77, nil)
	b := NewWorldManager(DefaultTuning(), 77, nil)
	a.Populate(SnowMap{})
	b.Populate(SnowMap{})
	for c := Category(0); c < CategoryCount; c++ {
		pa, pb := a.Pool(c).Items, b.Pool(c).Items
		for i := range pa {
			if pa[i].Pos != pb[i].Pos || pa[i].Color != pb[i].Color {
				t.Fatalf("%s %d differs between identical seeds", c, i)
			}
		}
	}
}

func TestLevenshteinLimit(t *testing.T) {
	cases := []struct{ n, want int }{{3, 1}, {4, 1}, {5, 2}, {8, 2}, {9, 3}}
	for _, c := range cases {
		if got := levenshteinLimit(c.n); got != c.want {
			t.Fatalf("levenshteinLimit(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
