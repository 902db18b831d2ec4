package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Invalidator is anything holding a cache that a new map layout makes stale.
type Invalidator interface {
	Invalidate()
}

// Lighting is the last night-factor propagation result.
type Lighting struct {
	NightFactor float64 // after the map's floor is applied
	Headlight   float64
	WindowGlow  float64
}

// WorldManager owns every entity pool and keeps the corridor endless by
// moving entities that fall behind the player back to the far end.
type WorldManager struct {
	tuning Tuning
	log    *zap.Logger
	rng    *Rand

	profile MapProfile
	ctx     *WorldContext
	pools   [CategoryCount]*EntityPool
	nextID  uint32

	palette   []Color
	lastColor int

	player   *Player
	env      Invalidator
	rawNight float64
	lights   Lighting
}

// NewWorldManager creates an empty manager. Nothing scrolls until Populate.
func NewWorldManager(t Tuning, seed uint64, log *zap.Logger) *WorldManager {
	t.Sanitize()
	if log == nil {
		log = zap.NewNop()
	}
	wm := &WorldManager{
		tuning:    t,
		log:       log,
		rng:       NewRand(seed),
		palette:   TrafficPalette,
		lastColor: -1,
	}
	for c := Category(0); c < CategoryCount; c++ {
		wm.pools[c] = &EntityPool{Category: c}
	}
	return wm
}

// SetPalette replaces the traffic colour palette. It must not be empty.
func (wm *WorldManager) SetPalette(p []Color) {
	if len(p) == 0 {
		return
	}
	wm.palette = p
	wm.lastColor = -1
}

// AttachPlayer links the player whose headlights follow the night factor.
func (wm *WorldManager) AttachPlayer(p *Player) { wm.player = p }

// SetEnvironment links the cache that Populate must invalidate.
func (wm *WorldManager) SetEnvironment(env Invalidator) { wm.env = env }

func (wm *WorldManager) Tuning() Tuning { return wm.tuning }
func (wm *WorldManager) Profile() MapProfile { return wm.profile }
func (wm *WorldManager) Populated() bool { return wm.ctx != nil }
func (wm *WorldManager) Lights() Lighting { return wm.lights }
func (wm *WorldManager) Pool(c Category) *EntityPool { return wm.pools[c] }

// Statics returns the fixed slabs of the current map.
func (wm *WorldManager) Statics() []Static {
	if wm.ctx == nil {
		return nil
	}
	return wm.ctx.Statics
}

// Ground returns the current map's surface materials.
func (wm *WorldManager) Ground() GroundSpec {
	if wm.ctx == nil {
		return GroundSpec{}
	}
	return wm.ctx.Ground
}

// Populate discards the previous map's entities and lays out profile from
// scratch. A nil profile selects the default map.
func (wm *WorldManager) Populate(profile MapProfile) {
	if profile == nil {
		profile = DefaultMap()
	}
	for _, p := range wm.pools {
		p.clear()
	}
	wm.profile = profile
	wm.lastColor = -1
	ctx := &WorldContext{
		Tuning: wm.tuning,
		Pools:  wm.pools,
		nextID: &wm.nextID,
	}
	profile.Populate(ctx, wm.rng)
	wm.ctx = ctx

	wm.populatePoints()
	wm.populateBoosts()
	wm.populateTraffic()

	if wm.env != nil {
		wm.env.Invalidate()
	}
	wm.ApplyNightFactor(wm.rawNight)

	wm.log.Info("world populated",
		zap.String("map", profile.ID().String()),
		zap.Int("points", wm.pools[CategoryPoint].Len()),
		zap.Int("boosts", wm.pools[CategoryBoost].Len()),
		zap.Int("traffic", wm.pools[CategoryTraffic].Len()),
		zap.Int("buildings", wm.pools[CategoryBuilding].Len()),
		zap.Int("pedestrians", wm.pools[CategoryPedestrian].Len()),
	)
}

func (wm *WorldManager) randomLaneX() float64 {
	return wm.tuning.LaneX(wm.rng.Intn(wm.tuning.LaneCount))
}

func (wm *WorldManager) populatePoints() {
	t := &wm.tuning
	far := t.PointSpawnZ + t.PointSpawnBand
	for i := 0; i < t.PointCount; i++ {
		wm.ctx.Spawn(CategoryPoint, &Entity{
			Pos:     mgl64.Vec3{wm.randomLaneX(), 1.0, wm.rng.RangeF(t.InitialNearZ, far)},
			Rot:     mgl64.Vec3{0, wm.rng.RangeF(0, 2*math.Pi), 0},
			Half:    mgl64.Vec3{0.5, 0.5, 0.12},
			Visible: true,
			Color:   Palette.Point,
		})
	}
}

func (wm *WorldManager) populateBoosts() {
	t := &wm.tuning
	for i := 0; i < t.BoostCount; i++ {
		wm.ctx.Spawn(CategoryBoost, &Entity{
			Pos:      mgl64.Vec3{wm.randomLaneX(), 1.2, wm.rng.RangeF(t.BoostSpawnZ*0.5, t.BoostSpawnZ+t.BoostSpawnBand)},
			Half:     mgl64.Vec3{0.6, 0.6, 0.6},
			Visible:  true,
			Color:    Palette.Boost,
			Emissive: 0.6,
		})
	}
}

func (wm *WorldManager) populateTraffic() {
	t := &wm.tuning
	n := max(1, t.TrafficCount)
	near := t.TrafficSpawnZ * 0.4
	gap := (t.TrafficSpawnZ + t.TrafficSpawnBand - near) / float64(n)
	for i := 0; i < n; i++ {
		lane := wm.rng.Intn(t.LaneCount)
		z := near + gap*float64(i) + wm.rng.RangeF(0, gap*0.5)
		wm.spawnCar(lane, z)
	}
}

func (wm *WorldManager) spawnCar(lane int, z float64) *Entity {
	idx, col := wm.AssignDistinctColor()
	return wm.ctx.Spawn(CategoryTraffic, &Entity{
		Pos:        mgl64.Vec3{wm.tuning.LaneX(lane), 0.7, z},
		Half:       mgl64.Vec3{0.9, 0.7, 2.0},
		Visible:    true,
		Color:      col,
		ColorIndex: idx,
		Lane:       lane,
		HomeLane:   lane,
		HomeZ:      z,
	})
}

// SpawnTraffic grows the traffic pool by n cars, capped at MaxTraffic.
// It returns how many were added.
func (wm *WorldManager) SpawnTraffic(n int) int {
	if wm.ctx == nil {
		return 0
	}
	t := &wm.tuning
	added := 0
	for ; added < n && wm.pools[CategoryTraffic].Len() < t.MaxTraffic; added++ {
		lane, z := wm.pickTrafficSlot(nil)
		wm.spawnCar(lane, z)
	}
	if added > 0 {
		wm.log.Debug("traffic spawned", zap.Int("added", added), zap.Int("total", wm.pools[CategoryTraffic].Len()))
	}
	return added
}

// AssignDistinctColor picks a palette entry uniformly, rejecting a repeat of
// the previous pick. It returns the palette index and the colour.
func (wm *WorldManager) AssignDistinctColor() (int, Color) {
	return wm.assignDistinctColorExcept(-1)
}

// assignDistinctColorExcept also never returns own, the caller's current
// index. With only two colours own wins over the previous pick.
func (wm *WorldManager) assignDistinctColorExcept(own int) (int, Color) {
	n := len(wm.palette)
	if own >= n {
		own = -1
	}
	avoidLast := n > 2 || own < 0 || own == wm.lastColor
	idx := wm.rng.Intn(n)
	if n > 1 {
		for idx == own || (avoidLast && idx == wm.lastColor) {
			idx = wm.rng.Intn(n)
		}
	}
	wm.lastColor = idx
	return idx, wm.palette[idx]
}

// Advance scrolls the corridor toward the player by scroll units (traffic by
// scroll+enemyExtra) and recycles whatever fell behind. timeScale is the
// frame length in 60 Hz frames and drives spin and walk animation only.
func (wm *WorldManager) Advance(scroll, enemyExtra, timeScale float64) {
	if wm.ctx == nil {
		return
	}
	t := &wm.tuning

	for _, e := range wm.pools[CategoryPoint].Items {
		e.Pos[2] -= scroll
		e.Rot[1] = math.Mod(e.Rot[1]+t.PointSpinRate*timeScale, 2*math.Pi)
		if e.Pos.Z() < t.PointRecycleZ {
			e.Pos = mgl64.Vec3{wm.randomLaneX(), e.Pos.Y(), t.PointSpawnZ + wm.rng.Float64()*t.PointSpawnBand}
			e.Visible = true
		}
	}

	for _, e := range wm.pools[CategoryBoost].Items {
		e.Pos[2] -= scroll
		e.Rot[0] = math.Mod(e.Rot[0]+t.BoostTumbleRate*timeScale, 2*math.Pi)
		e.Rot[1] = math.Mod(e.Rot[1]+t.BoostTumbleRate*1.7*timeScale, 2*math.Pi)
		if e.Pos.Z() < t.BoostRecycleZ {
			e.Pos = mgl64.Vec3{wm.randomLaneX(), e.Pos.Y(), t.BoostSpawnZ + wm.rng.Float64()*t.BoostSpawnBand}
			e.Visible = true
		}
	}

	for _, e := range wm.pools[CategoryTraffic].Items {
		e.Pos[2] -= scroll + enemyExtra
		if e.Pos.Z() < t.TrafficRecycleZ {
			wm.respawnCar(e)
		}
	}

	for _, e := range wm.pools[CategoryPedestrian].Items {
		e.Pos[0] += e.WalkSpeed * e.WalkDir * timeScale
		if e.Pos.X() < e.WalkMin {
			e.Pos[0] = e.WalkMin
			e.WalkDir = 1
		} else if e.Pos.X() > e.WalkMax {
			e.Pos[0] = e.WalkMax
			e.WalkDir = -1
		}
		wm.scrollScenery(e, scroll)
	}

	for _, e := range wm.pools[CategoryBuilding].Items {
		if wm.scrollScenery(e, scroll) && wm.ctx.SpawnAhead != nil {
			wm.restyle(e)
		}
	}
	for _, e := range wm.pools[CategoryRoadLine].Items {
		wm.scrollScenery(e, scroll)
	}
	for _, e := range wm.pools[CategoryFootpath].Items {
		wm.scrollScenery(e, scroll)
	}
	for _, e := range wm.pools[CategorySkyline].Items {
		k := e.Parallax
		if k <= 0 {
			k = 1
		}
		wm.scrollScenery(e, scroll*k)
	}
}

// scrollScenery moves a decorative entity and wraps it by the corridor
// length so spacing along the corridor never drifts. It reports a wrap.
func (wm *WorldManager) scrollScenery(e *Entity, scroll float64) bool {
	t := &wm.tuning
	e.Pos[2] -= scroll
	if e.Pos.Z() >= t.SceneryRecycleZ {
		return false
	}
	e.Pos[2] = wrapAbove(e.Pos.Z(), t.SceneryRecycleZ, t.CorridorLength)
	return true
}

// restyle runs the map's spawn-ahead callback on a wrapped roadside prop
// and keeps its inner face on the same building line.
func (wm *WorldManager) restyle(e *Entity) {
	side := 1.0
	if e.Pos.X() < 0 {
		side = -1
	}
	inner := math.Abs(e.Pos.X()) - e.Half.X()
	z := e.Pos.Z()
	wm.ctx.SpawnAhead(e, wm.rng)
	e.Pos = mgl64.Vec3{side * (inner + e.Half.X()), e.Half.Y(), z}
	if e.Glows {
		e.Emissive = wm.lights.WindowGlow
	} else {
		e.Emissive = 0
	}
}

// pickTrafficSlot chooses a lane and far Z, retrying a few lanes so a new
// car does not land on top of another one.
func (wm *WorldManager) pickTrafficSlot(skip *Entity) (int, float64) {
	t := &wm.tuning
	const minGap = 12.0
	lane := wm.rng.Intn(t.LaneCount)
	z := t.TrafficSpawnZ + wm.rng.Float64()*t.TrafficSpawnBand
	for tries := 0; tries < 6; tries++ {
		free := true
		for _, o := range wm.pools[CategoryTraffic].Items {
			if o == skip || o.Lane != lane {
				continue
			}
			if math.Abs(o.Pos.Z()-z) < minGap {
				free = false
				break
			}
		}
		if free {
			break
		}
		lane = wm.rng.Intn(t.LaneCount)
		z = t.TrafficSpawnZ + wm.rng.Float64()*t.TrafficSpawnBand
	}
	return lane, z
}

func (wm *WorldManager) respawnCar(e *Entity) {
	lane, z := wm.pickTrafficSlot(e)
	idx, col := wm.assignDistinctColorExcept(e.ColorIndex)
	e.Lane = lane
	e.Pos = mgl64.Vec3{wm.tuning.LaneX(lane), e.Pos.Y(), z}
	e.ColorIndex = idx
	e.Color = col
	e.Visible = true
}

// ApplyNightFactor drives headlights and window glow linearly from factor.
// The map's light floor wins when it is higher.
func (wm *WorldManager) ApplyNightFactor(factor float64) {
	wm.rawNight = factor
	f := clampF(factor, 0, 1)
	if wm.ctx != nil && wm.ctx.LightFloor > f {
		f = wm.ctx.LightFloor
	}
	t := &wm.tuning
	wm.lights = Lighting{
		NightFactor: f,
		Headlight:   t.HeadlightMax * f,
		WindowGlow:  t.WindowGlowMax * f,
	}
	if wm.player != nil {
		wm.player.SetHeadlights(wm.lights.Headlight)
	}
	for _, e := range wm.pools[CategoryTraffic].Items {
		e.Emissive = wm.lights.Headlight
	}
	for _, c := range [...]Category{CategoryBuilding, CategoryRoadLine} {
		for _, e := range wm.pools[c].Items {
			if e.Glows {
				e.Emissive = wm.lights.WindowGlow
			}
		}
	}
}

// Reset returns every collectible to visible and every car to the lane and
// Z it was created on. Pool sizes are untouched.
func (wm *WorldManager) Reset() {
	if wm.ctx == nil {
		return
	}
	for _, c := range [...]Category{CategoryPoint, CategoryBoost} {
		for _, e := range wm.pools[c].Items {
			e.Visible = true
		}
	}
	for _, e := range wm.pools[CategoryTraffic].Items {
		e.Lane = e.HomeLane
		e.Pos = mgl64.Vec3{wm.tuning.LaneX(e.HomeLane), e.Pos.Y(), e.HomeZ}
		e.Visible = true
	}
}
