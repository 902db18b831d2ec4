package game

import (
	_ "embed"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Phase names one row of a map's environment table.
type Phase int

const (
	PhaseMorning Phase = iota
	PhaseAfternoon
	PhaseEvening
	PhaseNight

	PhaseCount // must stay last
)

var phaseKeys = [PhaseCount]string{"morning", "afternoon", "evening", "night"}

func (p Phase) String() string {
	if p < 0 || p >= PhaseCount {
		return "unknown"
	}
	return phaseKeys[p]
}

// PhaseParams is one table row.
type PhaseParams struct {
	SkyTop            Color   `yaml:"sky_top"`
	SkyBottom         Color   `yaml:"sky_bottom"`
	SunIntensity      float64 `yaml:"sun_intensity"`
	SunColor          Color   `yaml:"sun_color"`
	Ambient           float64 `yaml:"ambient"`
	CelestialRotation float64 `yaml:"celestial_rotation"`
	GlowOpacity       float64 `yaml:"glow_opacity"`
}

// Lerp interpolates every parameter; t=0 is p, t=1 is o.
func (p PhaseParams) Lerp(o PhaseParams, t float64) PhaseParams {
	if t <= 0 {
		return p
	}
	if t >= 1 {
		return o
	}
	return PhaseParams{
		SkyTop:            p.SkyTop.Lerp(o.SkyTop, t),
		SkyBottom:         p.SkyBottom.Lerp(o.SkyBottom, t),
		SunIntensity:      lerp(p.SunIntensity, o.SunIntensity, t),
		SunColor:          p.SunColor.Lerp(o.SunColor, t),
		Ambient:           lerp(p.Ambient, o.Ambient, t),
		CelestialRotation: lerp(p.CelestialRotation, o.CelestialRotation, t),
		GlowOpacity:       lerp(p.GlowOpacity, o.GlowOpacity, t),
	}
}

// EnvTable is one map's environment data.
type EnvTable struct {
	ScoreScale float64
	Phases     [PhaseCount]PhaseParams
}

// segment is one stretch of the normalized-score cycle.
type segment struct {
	from, to      float64
	current, next Phase
}

// The two night segments both read the night row: a hold, then the way out.
var cycleSegments = [...]segment{
	{0, PhaseAfternoonAt, PhaseMorning, PhaseAfternoon},
	{PhaseAfternoonAt, PhaseEveningAt, PhaseAfternoon, PhaseEvening},
	{PhaseEveningAt, PhaseNightAt, PhaseEvening, PhaseNight},
	{PhaseNightAt, PhaseNightOutAt, PhaseNight, PhaseNight},
	{PhaseNightOutAt, CycleLength, PhaseNight, PhaseMorning},
}

// NormalizeScore maps a raw score onto [0, CycleLength).
func NormalizeScore(score int, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	s := float64(score) * scale
	if s <= 0 {
		return 0
	}
	return math.Mod(s, CycleLength)
}

// LocatePhase finds the current and next phase and the blend between them.
func LocatePhase(norm float64) (current, next Phase, blend float64) {
	for _, seg := range cycleSegments {
		if norm >= seg.from && norm < seg.to {
			return seg.current, seg.next, (norm - seg.from) / (seg.to - seg.from)
		}
	}
	return PhaseMorning, PhaseAfternoon, 0
}

// NightRamp is 0 by day, rises across the evening, holds at 1 through the
// night and falls back to 0 on the way to morning.
func NightRamp(norm float64) float64 {
	switch {
	case norm < PhaseEveningAt:
		return 0
	case norm < PhaseNightAt:
		return (norm - PhaseEveningAt) / (PhaseNightAt - PhaseEveningAt)
	case norm < PhaseNightOutAt:
		return 1
	case norm < CycleLength:
		return 1 - (norm-PhaseNightOutAt)/(CycleLength-PhaseNightOutAt)
	}
	return 0
}

// EnvironmentState is everything the renderer and lighting read each frame.
type EnvironmentState struct {
	PhaseParams
	FogColor    Color
	NightFactor float64

	Current, Next Phase
	Blend         float64
	Normalized    float64
}

//go:embed environment.yaml
var defaultEnvironmentYAML []byte

type envTableFile struct {
	ScoreScale float64                `yaml:"score_scale"`
	Phases     map[string]PhaseParams `yaml:"phases"`
}

// ParseEnvironmentTables decodes per-map tables. Maps missing from data
// reuse the City table.
func ParseEnvironmentTables(data []byte) ([MapCount]EnvTable, error) {
	var out [MapCount]EnvTable
	var doc map[string]envTableFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return out, fmt.Errorf("parse environment tables: %w", err)
	}
	city, ok := doc[MapCity.String()]
	if !ok {
		return out, fmt.Errorf("parse environment tables: missing %s table", MapCity)
	}
	for id := MapID(0); id < MapCount; id++ {
		f, ok := doc[id.String()]
		if !ok {
			f = city
		}
		t := EnvTable{ScoreScale: f.ScoreScale}
		if t.ScoreScale <= 0 {
			t.ScoreScale = 1
		}
		for p := Phase(0); p < PhaseCount; p++ {
			row, ok := f.Phases[p.String()]
			if !ok {
				return out, fmt.Errorf("parse environment tables: %s has no %s phase", id, p)
			}
			t.Phases[p] = row
		}
		out[id] = t
	}
	return out, nil
}

// Environment turns the score into sky, light and fog parameters for the
// active map. It recomputes only when the score or the map changed.
type Environment struct {
	tables [MapCount]EnvTable
	mapID  MapID
	log    *zap.Logger

	lastScore int
	dirty     bool
	state     EnvironmentState
}

// NewEnvironment loads the embedded tables.
func NewEnvironment(log *zap.Logger) (*Environment, error) {
	tables, err := ParseEnvironmentTables(defaultEnvironmentYAML)
	if err != nil {
		return nil, err
	}
	return NewEnvironmentWithTables(tables, log), nil
}

func NewEnvironmentWithTables(tables [MapCount]EnvTable, log *zap.Logger) *Environment {
	if log == nil {
		log = zap.NewNop()
	}
	env := &Environment{tables: tables, log: log, dirty: true}
	env.Update(0)
	return env
}

// SetMap switches tables and forces the next Update to recompute.
func (env *Environment) SetMap(id MapID) {
	if id < 0 || id >= MapCount {
		env.log.Warn("unknown map for environment, using default", zap.Int("map", int(id)))
		id = MapCity
	}
	if id != env.mapID {
		env.log.Debug("environment map changed", zap.String("map", id.String()))
	}
	env.mapID = id
	env.dirty = true
}

func (env *Environment) Map() MapID { return env.mapID }

// Invalidate drops the memoized score so the next Update recomputes.
func (env *Environment) Invalidate() { env.dirty = true }

// Update recomputes the state for score and reports whether it did any work.
func (env *Environment) Update(score int) bool {
	if !env.dirty && score == env.lastScore {
		return false
	}
	env.lastScore = score
	env.dirty = false

	table := &env.tables[env.mapID]
	norm := NormalizeScore(score, table.ScoreScale)
	cur, next, blend := LocatePhase(norm)
	params := table.Phases[cur].Lerp(table.Phases[next], blend)

	prev := env.state.Current
	env.state = EnvironmentState{
		PhaseParams: params,
		FogColor:    params.SkyBottom,
		NightFactor: NightRamp(norm),
		Current:     cur,
		Next:        next,
		Blend:       blend,
		Normalized:  norm,
	}
	if cur != prev {
		env.log.Debug("environment phase", zap.String("phase", cur.String()), zap.Int("score", score))
	}
	return true
}

// Current returns the last computed state.
func (env *Environment) Current() EnvironmentState { return env.state }

// NightFactor is the 0..1 darkness used for headlights and window glow.
func (env *Environment) NightFactor() float64 { return env.state.NightFactor }
