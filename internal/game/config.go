package game

// Cycle layout of the environment machine (in normalized score units).
const (
	CycleLength      = 80.0
	PhaseAfternoonAt = 15.0
	PhaseEveningAt   = 30.0
	PhaseNightAt     = 45.0
	PhaseNightOutAt  = 65.0
)

// Tuning holds every tuned constant of the corridor. The numbers are game
// feel, not derived; they are kept as data so a config file can override them.
type Tuning struct {
	// Corridor geometry (world units). Forward is +Z, the player sits at Z=0.
	CorridorLength float64 `toml:"corridor_length"`
	LaneCount      int     `toml:"lane_count"`
	LaneWidth      float64 `toml:"lane_width"`
	FootpathWidth  float64 `toml:"footpath_width"`

	// Steady-state pool sizes.
	PointCount      int `toml:"point_count"`
	BoostCount      int `toml:"boost_count"`
	TrafficCount    int `toml:"traffic_count"`
	MaxTraffic      int `toml:"max_traffic"`
	RoadLineCount   int `toml:"road_line_count"`
	FootpathCount   int `toml:"footpath_count"` // per side
	BuildingCount   int `toml:"building_count"` // per side
	SkylineCount    int `toml:"skyline_count"`
	PedestrianCount int `toml:"pedestrian_count"`

	// Trailing thresholds: below these Z values an entity is recycled.
	PointRecycleZ   float64 `toml:"point_recycle_z"`
	BoostRecycleZ   float64 `toml:"boost_recycle_z"`
	TrafficRecycleZ float64 `toml:"traffic_recycle_z"`
	SceneryRecycleZ float64 `toml:"scenery_recycle_z"`

	// Forward spawn bands: respawn Z = SpawnZ + rand*SpawnBand.
	PointSpawnZ      float64 `toml:"point_spawn_z"`
	PointSpawnBand   float64 `toml:"point_spawn_band"`
	BoostSpawnZ      float64 `toml:"boost_spawn_z"`
	BoostSpawnBand   float64 `toml:"boost_spawn_band"`
	TrafficSpawnZ    float64 `toml:"traffic_spawn_z"`
	TrafficSpawnBand float64 `toml:"traffic_spawn_band"`
	InitialNearZ     float64 `toml:"initial_near_z"` // nothing is placed closer than this on populate

	// Animation, radians per 60 Hz frame.
	PointSpinRate   float64 `toml:"point_spin_rate"`
	BoostTumbleRate float64 `toml:"boost_tumble_rate"`

	// Speeds (units per second).
	ForwardSpeed  float64 `toml:"forward_speed"`
	MaxSpeed      float64 `toml:"max_speed"`
	SpeedPerPoint float64 `toml:"speed_per_point"`
	EnemySpeed    float64 `toml:"enemy_speed"`
	SteerSpeed    float64 `toml:"steer_speed"`

	BoostDuration    float64 `toml:"boost_duration"`
	BoostMultiplier  float64 `toml:"boost_multiplier"`
	TrafficGrowEvery int     `toml:"traffic_grow_every"`

	// Lighting maxima at night factor 1.
	HeadlightMax  float64 `toml:"headlight_max"`
	WindowGlowMax float64 `toml:"window_glow_max"`

	// Scale applied to the player's half extents for traffic checks.
	TrafficForgiveness float64 `toml:"traffic_forgiveness"`

	// Upper bound on frame delta (seconds).
	MaxFrameDelta float64 `toml:"max_frame_delta"`
}

// DefaultTuning returns the shipped corridor tuning.
func DefaultTuning() Tuning {
	return Tuning{
		CorridorLength: 240,
		LaneCount:      3,
		LaneWidth:      3.2,
		FootpathWidth:  2.4,

		PointCount:      15,
		BoostCount:      1,
		TrafficCount:    3,
		MaxTraffic:      8,
		RoadLineCount:   24,
		FootpathCount:   12,
		BuildingCount:   10,
		SkylineCount:    8,
		PedestrianCount: 8,

		PointRecycleZ:   -8,
		BoostRecycleZ:   -8,
		TrafficRecycleZ: -20,
		SceneryRecycleZ: -20,

		PointSpawnZ:      120,
		PointSpawnBand:   100,
		BoostSpawnZ:      300,
		BoostSpawnBand:   700,
		TrafficSpawnZ:    180,
		TrafficSpawnBand: 120,
		InitialNearZ:     20,

		PointSpinRate:   0.05,
		BoostTumbleRate: 0.03,

		ForwardSpeed:  30,
		MaxSpeed:      60,
		SpeedPerPoint: 0.4,
		EnemySpeed:    8,
		SteerSpeed:    12,

		BoostDuration:    3,
		BoostMultiplier:  1.8,
		TrafficGrowEvery: 10,

		HeadlightMax:  2.0,
		WindowGlowMax: 1.2,

		TrafficForgiveness: 0.8,

		MaxFrameDelta: 0.1,
	}
}

// Sanitize replaces values that would break the corridor with defaults.
func (t *Tuning) Sanitize() {
	d := DefaultTuning()
	if t.CorridorLength <= 0 {
		t.CorridorLength = d.CorridorLength
	}
	if t.LaneCount < 1 {
		t.LaneCount = d.LaneCount
	}
	if t.LaneWidth <= 0 {
		t.LaneWidth = d.LaneWidth
	}
	if t.TrafficCount < 1 {
		t.TrafficCount = 1
	}
	if t.MaxTraffic < t.TrafficCount {
		t.MaxTraffic = t.TrafficCount
	}
	if t.TrafficForgiveness <= 0 || t.TrafficForgiveness > 1 {
		t.TrafficForgiveness = d.TrafficForgiveness
	}
	if t.MaxFrameDelta <= 0 {
		t.MaxFrameDelta = d.MaxFrameDelta
	}
	if t.BoostMultiplier < 1 {
		t.BoostMultiplier = 1
	}
}

// RoadHalfWidth is the distance from the centre line to the kerb.
func (t Tuning) RoadHalfWidth() float64 {
	return float64(t.LaneCount) * t.LaneWidth * 0.5
}

// LaneX returns the X centre of lane i (0 is the leftmost lane).
func (t Tuning) LaneX(i int) float64 {
	if i < 0 {
		i = 0
	}
	if i >= t.LaneCount {
		i = t.LaneCount - 1
	}
	return -t.RoadHalfWidth() + t.LaneWidth*(float64(i)+0.5)
}
