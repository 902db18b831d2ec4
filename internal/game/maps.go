package game

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/text/cases"
)

// MapID identifies one themed corridor variant.
type MapID int

const (
	MapCity MapID = iota
	MapDesert
	MapSnow
	MapCyberCity

	MapCount // must stay last
)

var mapNames = [MapCount]string{"City", "Desert", "Snow", "CyberCity"}

func (m MapID) String() string {
	if m < 0 || m >= MapCount {
		return mapNames[MapCity]
	}
	return mapNames[m]
}

// MapProfile lays out one corridor theme into a WorldContext. Populate may
// only touch the context it is given; it must set ctx.SpawnAhead if recycled
// props should change their look when they wrap to the far end.
type MapProfile interface {
	ID() MapID
	Populate(ctx *WorldContext, r *Rand)
}

// SpawnAheadFunc re-rolls a wrapped entity for ongoing corridor extension.
type SpawnAheadFunc func(e *Entity, r *Rand)

// GroundSpec carries the surface materials of a map.
type GroundSpec struct {
	Ground    Color
	Road      Color
	Line      Color
	Footpath  Color
	Roughness float64
}

// WorldContext is the explicit state a map profile writes into. The world
// manager owns it; profiles get it for the duration of Populate.
type WorldContext struct {
	Tuning     Tuning
	Ground     GroundSpec
	Statics    []Static
	Pools      [CategoryCount]*EntityPool
	SpawnAhead SpawnAheadFunc
	LightFloor float64 // minimum night factor applied to lights on this map

	nextID *uint32
}

// Spawn registers e in the pool of cat and gives it an ID.
func (ctx *WorldContext) Spawn(cat Category, e *Entity) *Entity {
	*ctx.nextID++
	e.ID = *ctx.nextID
	ctx.Pools[cat].add(e)
	return e
}

// AddStatic appends a fixed slab.
func (ctx *WorldContext) AddStatic(s Static) {
	ctx.Statics = append(ctx.Statics, s)
}

// windowStart is the Z where the scenery window begins.
func (ctx *WorldContext) windowStart() float64 {
	return ctx.Tuning.SceneryRecycleZ
}

// ---- Shared layout helpers ------------------------------------------------

// layoutRoad emits the ground plane and the road surface.
func layoutRoad(ctx *WorldContext) {
	t := &ctx.Tuning
	midZ := ctx.windowStart() + t.CorridorLength*0.5
	halfLen := t.CorridorLength * 0.5
	ctx.AddStatic(Static{
		Name:  "ground",
		Pos:   mgl64.Vec3{0, -0.06, midZ},
		Half:  mgl64.Vec3{120, 0.05, halfLen},
		Color: ctx.Ground.Ground,
	})
	ctx.AddStatic(Static{
		Name:  "road",
		Pos:   mgl64.Vec3{0, -0.01, midZ},
		Half:  mgl64.Vec3{t.RoadHalfWidth(), 0.01, halfLen},
		Color: ctx.Ground.Road,
	})
}

// layoutRoadLines places evenly spaced dashes on every lane divider.
func layoutRoadLines(ctx *WorldContext, glow bool) {
	t := &ctx.Tuning
	if t.RoadLineCount <= 0 {
		return
	}
	spacing := t.CorridorLength / float64(t.RoadLineCount)
	for d := 1; d < t.LaneCount; d++ {
		x := -t.RoadHalfWidth() + t.LaneWidth*float64(d)
		for i := 0; i < t.RoadLineCount; i++ {
			ctx.Spawn(CategoryRoadLine, &Entity{
				Pos:     mgl64.Vec3{x, 0.01, ctx.windowStart() + spacing*float64(i)},
				Half:    mgl64.Vec3{0.08, 0.01, spacing * 0.25},
				Visible: true,
				Color:   ctx.Ground.Line,
				Glows:   glow,
			})
		}
	}
}

// layoutFootpaths tiles both kerbs with footpath slabs.
func layoutFootpaths(ctx *WorldContext) {
	t := &ctx.Tuning
	if t.FootpathCount <= 0 || t.FootpathWidth <= 0 {
		return
	}
	spacing := t.CorridorLength / float64(t.FootpathCount)
	x := t.RoadHalfWidth() + t.FootpathWidth*0.5
	for _, side := range [2]float64{-1, 1} {
		for i := 0; i < t.FootpathCount; i++ {
			ctx.Spawn(CategoryFootpath, &Entity{
				Pos:     mgl64.Vec3{side * x, 0.05, ctx.windowStart() + spacing*(float64(i)+0.5)},
				Half:    mgl64.Vec3{t.FootpathWidth * 0.5, 0.05, spacing * 0.48},
				Visible: true,
				Color:   ctx.Ground.Footpath,
			})
		}
	}
}

// layoutRoadside places BuildingCount props per side, evenly spaced, and
// styles each with look. The same look is registered as the spawn-ahead
// callback so wrapped props are re-rolled.
func layoutRoadside(ctx *WorldContext, r *Rand, setback float64, look SpawnAheadFunc) {
	t := &ctx.Tuning
	if t.BuildingCount <= 0 {
		return
	}
	spacing := t.CorridorLength / float64(t.BuildingCount)
	edge := t.RoadHalfWidth() + t.FootpathWidth + setback
	for _, side := range [2]float64{-1, 1} {
		for i := 0; i < t.BuildingCount; i++ {
			e := &Entity{
				Pos:     mgl64.Vec3{side * edge, 0, ctx.windowStart() + spacing*(float64(i)+r.RangeF(0.2, 0.8))},
				Visible: true,
			}
			look(e, r)
			// Keep the facade flush with the setback whatever width look chose.
			e.Pos[0] = side * (edge + e.Half.X())
			e.Pos[1] = e.Half.Y()
			ctx.Spawn(CategoryBuilding, e)
		}
	}
	ctx.SpawnAhead = look
}

// layoutPedestrians scatters walkers on the footpaths.
func layoutPedestrians(ctx *WorldContext, r *Rand, count int, clothes []Color) {
	t := &ctx.Tuning
	if count <= 0 || t.FootpathWidth <= 0 || len(clothes) == 0 {
		return
	}
	inner := t.RoadHalfWidth() + 0.3
	outer := t.RoadHalfWidth() + t.FootpathWidth - 0.3
	for i := 0; i < count; i++ {
		side := r.Sign()
		lo, hi := side*inner, side*outer
		if lo > hi {
			lo, hi = hi, lo
		}
		ctx.Spawn(CategoryPedestrian, &Entity{
			Pos:       mgl64.Vec3{r.RangeF(lo, hi), 0.9, ctx.windowStart() + r.RangeF(0, t.CorridorLength)},
			Half:      mgl64.Vec3{0.25, 0.9, 0.25},
			Visible:   true,
			Color:     clothes[r.Intn(len(clothes))],
			WalkSpeed: r.RangeF(0.01, 0.03),
			WalkDir:   r.Sign(),
			WalkMin:   lo,
			WalkMax:   hi,
		})
	}
}

// layoutSkyline places slow-parallax silhouettes along the far edges.
func layoutSkyline(ctx *WorldContext, r *Rand, tint Color, minH, maxH float64) {
	t := &ctx.Tuning
	if t.SkylineCount <= 0 {
		return
	}
	spacing := t.CorridorLength / float64(t.SkylineCount)
	for i := 0; i < t.SkylineCount; i++ {
		h := r.RangeF(minH, maxH)
		ctx.Spawn(CategorySkyline, &Entity{
			Pos:      mgl64.Vec3{r.Sign() * r.RangeF(60, 100), h, ctx.windowStart() + spacing*float64(i)},
			Half:     mgl64.Vec3{r.RangeF(6, 14), h, 4},
			Visible:  true,
			Color:    tint.Scale(r.RangeF(0.8, 1.1)),
			Parallax: 0.25,
		})
	}
}

// ---- Registry -------------------------------------------------------------

var mapRegistry = [MapCount]MapProfile{
	MapCity:      CityMap{},
	MapDesert:    DesertMap{},
	MapSnow:      SnowMap{},
	MapCyberCity: CyberCityMap{},
}

// DefaultMap is used whenever a selector cannot be resolved.
func DefaultMap() MapProfile { return mapRegistry[MapCity] }

// MapByID returns the profile for id, or the default for an unknown id.
func MapByID(id MapID) (MapProfile, bool) {
	if id < 0 || id >= MapCount {
		return DefaultMap(), false
	}
	return mapRegistry[id], true
}

var mapAliases = map[string]MapID{
	"city":      MapCity,
	"town":      MapCity,
	"desert":    MapDesert,
	"dunes":     MapDesert,
	"snow":      MapSnow,
	"winter":    MapSnow,
	"cyber":     MapCyberCity,
	"cybercity": MapCyberCity,
	"neon":      MapCyberCity,
}

// ResolveMap turns a user supplied selector into a profile. It accepts exact
// aliases, case and separator variants and near misses; anything else falls
// back to the default map with ok=false.
func ResolveMap(selector string) (MapProfile, bool) {
	key := normalizeMapKey(selector)
	if key == "" {
		return DefaultMap(), false
	}
	if id, ok := mapAliases[key]; ok {
		return mapRegistry[id], true
	}
	if len(key) < 3 {
		return DefaultMap(), false
	}

	type cand struct {
		id   MapID
		dist int
		key  string
	}
	var cands []cand
	for alias, id := range mapAliases {
		d := levenshtein.ComputeDistance(key, alias)
		if d > levenshteinLimit(len(alias)) {
			continue
		}
		cands = append(cands, cand{id: id, dist: d, key: alias})
	}
	if len(cands) == 0 {
		return DefaultMap(), false
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].key < cands[j].key
		}
		return cands[i].dist < cands[j].dist
	})
	return mapRegistry[cands[0].id], true
}

var foldCaser = cases.Fold()

func normalizeMapKey(s string) string {
	s = foldCaser.String(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	return s
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
