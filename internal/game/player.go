package game

import "github.com/go-gl/mathgl/mgl64"

// Input is the per-frame control state handed in by the platform layer.
type Input struct {
	Steer float64 // -1 full left .. +1 full right
}

// Player is the driven car. Only X moves; the world scrolls past it.
type Player struct {
	Model      *Model
	Pos        mgl64.Vec3
	Headlights float64
}

// NewPlayer places model on the centre lane. A nil model is allowed and
// makes every player-relative calculation a no-op.
func NewPlayer(model *Model) *Player {
	return &Player{Model: model}
}

func (p *Player) Loaded() bool { return p != nil && p.Model != nil }

// Bounds recomputes the world-space box from the model and current position.
func (p *Player) Bounds() (AABB, bool) {
	if !p.Loaded() {
		return AABB{}, false
	}
	return p.Model.Bounds().Translate(p.Pos), true
}

// Steer moves the car sideways, keeping the body on the road.
func (p *Player) Steer(in Input, dt, speed, roadHalf float64) {
	if !p.Loaded() {
		return
	}
	s := clampF(in.Steer, -1, 1)
	half := p.Model.Bounds().HalfExtents().X()
	limit := roadHalf - half
	if limit < 0 {
		limit = 0
	}
	p.Pos[0] = clampF(p.Pos.X()+s*speed*dt, -limit, limit)
}

// SetHeadlights sets the emissive intensity on every light part.
func (p *Player) SetHeadlights(v float64) {
	if p == nil {
		return
	}
	p.Headlights = v
	if p.Model == nil {
		return
	}
	for i := range p.Model.Parts {
		if p.Model.Parts[i].Class == PartLight {
			p.Model.Parts[i].Emissive = v
		}
	}
}
