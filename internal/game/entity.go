package game

import "github.com/go-gl/mathgl/mgl64"

// Category tags what a pooled entity is.
type Category int

const (
	CategoryPoint Category = iota
	CategoryBoost
	CategoryTraffic
	CategoryPedestrian
	CategoryBuilding
	CategoryRoadLine
	CategoryFootpath
	CategorySkyline

	CategoryCount // must stay last
)

var categoryNames = [CategoryCount]string{
	"point", "boost", "traffic", "pedestrian", "building", "roadline", "footpath", "skyline",
}

func (c Category) String() string {
	if c < 0 || c >= CategoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// Entity is one recyclable scene object. Its pool creates it, moves it and
// drops it; nothing else holds on to it across a map change.
type Entity struct {
	ID       uint32
	Category Category
	Pos      mgl64.Vec3
	Rot      mgl64.Vec3 // euler angles, radians
	Half     mgl64.Vec3 // half extents before scale
	Visible  bool
	Color    Color
	Emissive float64

	// Category userdata.
	Kind       string  // prop variant chosen by the map profile
	Lane       int     // traffic lane
	HomeLane   int     // traffic reset lane
	HomeZ      float64 // traffic reset Z
	ColorIndex int     // traffic palette index
	WalkSpeed  float64 // pedestrian lateral speed, units per 60 Hz frame
	WalkDir    float64 // -1 or +1
	WalkMin    float64
	WalkMax    float64
	Parallax   float64 // skyline scroll factor; 0 means 1
	Glows      bool    // windows or neon that light up at night
}

// Bounds recomputes the entity's world-space box from its transform.
func (e *Entity) Bounds() AABB {
	return BoxAround(e.Pos, e.Half)
}

// EntityPool is the ordered, fixed-size set of one category.
type EntityPool struct {
	Category Category
	Items    []*Entity
}

func (p *EntityPool) Len() int { return len(p.Items) }

func (p *EntityPool) add(e *Entity) {
	e.Category = p.Category
	p.Items = append(p.Items, e)
}

func (p *EntityPool) clear() {
	p.Items = p.Items[:0]
}

// VisibleCount counts entities whose visibility flag is set.
func (p *EntityPool) VisibleCount() int {
	n := 0
	for _, e := range p.Items {
		if e.Visible {
			n++
		}
	}
	return n
}

// Static is a non-recycled slab (ground, road surface) emitted by a map.
type Static struct {
	Name  string
	Pos   mgl64.Vec3
	Half  mgl64.Vec3
	Color Color
}
