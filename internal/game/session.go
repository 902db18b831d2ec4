package game

import (
	"fmt"

	"go.uber.org/zap"
)

// Handlers receive the gameplay outcomes of one frame. Any of them may be nil.
type Handlers struct {
	OnScore    func(total int)
	OnGameOver func()
	OnBoost    func()
}

// Session is the game orchestrator: it owns one of each core component and
// runs them in a fixed order every frame.
type Session struct {
	Tuning    Tuning
	World     *WorldManager
	Collision *CollisionManager
	Env       *Environment
	Player    *Player
	Camera    *Camera
	Bus       *EventBus

	log  *zap.Logger
	seed uint64

	profile    MapProfile
	score      int
	boostTimer float64
	paused     bool
	status     string
	frame      uint64

	events []Event
}

// NewSession builds every component and populates the default map. A model
// that fails to load is replaced by the placeholder; the reason ends up in
// Status.
func NewSession(t Tuning, seed uint64, loader ModelLoader, modelName string, log *zap.Logger) (*Session, error) {
	t.Sanitize()
	if log == nil {
		log = zap.NewNop()
	}
	env, err := NewEnvironment(log.Named("env"))
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	model, status := LoadPlayerModel(loader, modelName, log)
	s := &Session{
		Tuning:    t,
		World:     NewWorldManager(t, subSeed(seed, 1), log.Named("world")),
		Collision: NewCollisionManager(t.TrafficForgiveness, log.Named("collision")),
		Env:       env,
		Player:    NewPlayer(model),
		Camera:    NewCamera(),
		Bus:       NewEventBus(),
		log:       log,
		seed:      seed,
		status:    status,
		profile:   DefaultMap(),
	}
	s.World.AttachPlayer(s.Player)
	s.World.SetEnvironment(s.Env)
	s.Restart()
	return s, nil
}

func (s *Session) Score() int { return s.score }
func (s *Session) Paused() bool { return s.paused }
func (s *Session) Status() string { return s.status }
func (s *Session) BoostTimer() float64 { return s.boostTimer }
func (s *Session) Boosting() bool { return s.boostTimer > 0 }
func (s *Session) Map() MapID { return s.profile.ID() }
func (s *Session) Profile() MapProfile { return s.profile }
func (s *Session) State() EnvironmentState { return s.Env.Current() }

func (s *Session) GameOver() bool {
	return s.Collision.State() == CollisionGameOver
}

// TogglePause flips the pause flag. Pausing has no effect after game over.
func (s *Session) TogglePause() {
	if s.GameOver() {
		return
	}
	s.paused = !s.paused
	s.log.Debug("pause", zap.Bool("paused", s.paused))
}

// Speed is the current forward speed in units per second.
func (s *Session) Speed() float64 {
	t := &s.Tuning
	v := t.ForwardSpeed + t.SpeedPerPoint*float64(s.score)
	if t.MaxSpeed > 0 && v > t.MaxSpeed {
		v = t.MaxSpeed
	}
	if s.Boosting() {
		v *= t.BoostMultiplier
	}
	return v
}

// Frame runs one full frame with the session's own speed model. dt is
// clamped to MaxFrameDelta.
func (s *Session) Frame(dt float64, in Input, h Handlers) {
	if dt < 0 {
		dt = 0
	}
	if dt > s.Tuning.MaxFrameDelta {
		dt = s.Tuning.MaxFrameDelta
	}
	s.frame++
	s.Advance(dt, s.Speed()*dt, s.Tuning.EnemySpeed, in, h)
	s.Camera.Follow(s.Player, s.Boosting(), dt)
	s.Camera.UpdateShake(dt, s.seed^s.frame)
}

// Advance moves the world by scrollDistance, traffic additionally by
// enemySpeed*dt, steers the player, runs the collision pass and finally
// the environment step for the new score. It does nothing while paused or
// after game over.
func (s *Session) Advance(dt, scrollDistance, enemySpeed float64, in Input, h Handlers) {
	if s.paused || s.GameOver() {
		return
	}
	s.World.Advance(scrollDistance, enemySpeed*dt, dt*60)
	s.Player.Steer(in, dt, s.Tuning.SteerSpeed, s.Tuning.RoadHalfWidth())

	s.events = s.Collision.Check(s.Player, s.World, s.events[:0])
	for _, ev := range s.events {
		s.handle(ev, h)
	}

	if s.boostTimer > 0 {
		s.boostTimer -= dt
		if s.boostTimer < 0 {
			s.boostTimer = 0
		}
	}
	s.refreshEnvironment()
}

func (s *Session) handle(ev Event, h Handlers) {
	switch ev.Type {
	case EventScore:
		s.score++
		ev.Value = s.score
		if n := s.Tuning.TrafficGrowEvery; n > 0 && s.score%n == 0 {
			s.World.SpawnTraffic(1)
		}
		if h.OnScore != nil {
			h.OnScore(s.score)
		}
	case EventBoost:
		s.boostTimer = s.Tuning.BoostDuration
		if h.OnBoost != nil {
			h.OnBoost()
		}
	case EventGameOver:
		ev.Value = s.score
		s.Camera.AddShake(0.6, 0.5)
		s.log.Info("game over", zap.Int("score", s.score), zap.String("map", s.profile.ID().String()))
		if h.OnGameOver != nil {
			h.OnGameOver()
		}
	}
	s.Bus.Emit(ev)
}

// refreshEnvironment recomputes the environment when the score or map
// changed and pushes the night factor into the world's lights.
func (s *Session) refreshEnvironment() {
	if s.Env.Update(s.score) {
		s.World.ApplyNightFactor(s.Env.NightFactor())
	}
}

// SelectMap resolves selector and switches to that map. Unknown selectors
// fall back to the default map.
func (s *Session) SelectMap(selector string) MapID {
	profile, ok := ResolveMap(selector)
	if !ok {
		s.log.Warn("unknown map, using default", zap.String("selector", selector), zap.String("map", profile.ID().String()))
	}
	s.switchTo(profile)
	return profile.ID()
}

// SelectMapID switches to id, falling back to the default map.
func (s *Session) SelectMapID(id MapID) {
	profile, ok := MapByID(id)
	if !ok {
		s.log.Warn("unknown map id, using default", zap.Int("map", int(id)))
	}
	s.switchTo(profile)
}

func (s *Session) switchTo(profile MapProfile) {
	s.profile = profile
	s.Restart()
	s.Bus.Emit(Event{Type: EventMapChanged, Value: int(profile.ID())})
}

// Restart begins a fresh run on the current map.
func (s *Session) Restart() {
	s.score = 0
	s.boostTimer = 0
	s.paused = false
	s.Player.Pos[0] = 0
	s.Env.SetMap(s.profile.ID())
	s.World.Populate(s.profile)
	s.Collision.Reset(s.World)
	s.Camera.ShakeTimer = 0
	s.refreshEnvironment()
}
