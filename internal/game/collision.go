package game

import "go.uber.org/zap"

// CollisionState is the per-session collision state.
type CollisionState int

const (
	CollisionActive CollisionState = iota
	CollisionGameOver
)

func (s CollisionState) String() string {
	if s == CollisionGameOver {
		return "game-over"
	}
	return "active"
}

// CollisionManager tests the player against collectibles and traffic once
// per frame.
type CollisionManager struct {
	state       CollisionState
	forgiveness float64
	log         *zap.Logger
}

func NewCollisionManager(forgiveness float64, log *zap.Logger) *CollisionManager {
	if forgiveness <= 0 || forgiveness > 1 {
		forgiveness = DefaultTuning().TrafficForgiveness
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CollisionManager{forgiveness: forgiveness, log: log}
}

func (cm *CollisionManager) State() CollisionState { return cm.state }

// Check appends the events of this frame to out and returns it. A consumed
// collectible stays hidden until the world recycles it, so it can only fire
// once per life. After the first traffic hit the manager does nothing until
// Reset.
func (cm *CollisionManager) Check(p *Player, wm *WorldManager, out []Event) []Event {
	if cm.state == CollisionGameOver || wm == nil || !wm.Populated() {
		return out
	}
	box, ok := p.Bounds()
	if !ok {
		return out
	}

	for _, e := range wm.Pool(CategoryPoint).Items {
		if !e.Visible || !box.Intersects(e.Bounds()) {
			continue
		}
		e.Visible = false
		out = append(out, Event{Type: EventScore, EntityID: e.ID})
	}
	for _, e := range wm.Pool(CategoryBoost).Items {
		if !e.Visible || !box.Intersects(e.Bounds()) {
			continue
		}
		e.Visible = false
		out = append(out, Event{Type: EventBoost, EntityID: e.ID})
	}

	forgiving := box.Shrink(cm.forgiveness)
	for _, e := range wm.Pool(CategoryTraffic).Items {
		if !forgiving.Intersects(e.Bounds()) {
			continue
		}
		cm.state = CollisionGameOver
		cm.log.Info("traffic collision",
			zap.Uint32("car", e.ID),
			zap.Int("lane", e.Lane),
			zap.Float64("z", e.Pos.Z()),
		)
		return append(out, Event{Type: EventGameOver, EntityID: e.ID})
	}
	return out
}

// Reset re-arms the manager and restores the world's consumed collectibles
// and traffic positions.
func (cm *CollisionManager) Reset(wm *WorldManager) {
	cm.state = CollisionActive
	if wm != nil {
		wm.Reset()
	}
}
