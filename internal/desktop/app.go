package desktop

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"nightdrive/internal/config"
	"nightdrive/internal/game"
)

// Run opens the window and drives the session until the window closes.
func Run(cfg *config.Config, seed uint64, log *zap.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow(WindowOptions{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	session, err := game.NewSession(cfg.World, seed, game.YAMLModelLoader{Dir: cfg.Game.ModelDir}, cfg.Game.PlayerModel, log)
	if err != nil {
		return err
	}
	session.SelectMap(cfg.Game.Map)

	var sound *Sound
	if cfg.Audio.Enabled {
		sound, err = NewSound(cfg.Audio.Volume, log.Named("audio"))
		if err != nil {
			log.Warn("audio init failed, continuing without sound", zap.Error(err))
		}
	}
	sound.Attach(session.Bus)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	log.Info("session started",
		zap.Uint64("seed", seed),
		zap.String("map", session.Map().String()),
		zap.String("car", session.Status()),
	)

	keys := NewKeys()
	hud := newTitleHUD(window, cfg.Window.Title)
	handlers := game.Handlers{
		OnScore:    func(total int) { log.Debug("score", zap.Int("total", total)) },
		OnBoost:    func() { log.Debug("boost") },
		OnGameOver: func() { hud.gameOver = true },
	}

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		if keys.JustPressed(window, glfw.KeyP) {
			session.TogglePause()
		}
		if keys.JustPressed(window, glfw.KeySpace) && session.GameOver() {
			session.Restart()
			hud.gameOver = false
		}
		if id, ok := keys.MapKey(window); ok && id != session.Map() {
			session.SelectMapID(id)
			hud.gameOver = false
		}

		session.Frame(dt, Steering(window), handlers)

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		rend.Draw(session, fbW, fbH)
		hud.update(session)
		window.SwapBuffers()
	}
	return nil
}

// titleHUD reports score and state in the window title.
type titleHUD struct {
	window   *glfw.Window
	base     string
	last     string
	gameOver bool
}

func newTitleHUD(w *glfw.Window, base string) *titleHUD {
	return &titleHUD{window: w, base: base}
}

func (h *titleHUD) update(s *game.Session) {
	title := fmt.Sprintf("%s  |  %s  |  score %d", h.base, s.Map(), s.Score())
	switch {
	case h.gameOver:
		title += "  |  crashed, space to restart"
	case s.Paused():
		title += "  |  paused"
	case s.Boosting():
		title += fmt.Sprintf("  |  boost %.1fs", s.BoostTimer())
	}
	if s.Player.Model != nil && s.Player.Model.Placeholder {
		title += "  |  " + s.Status()
	}
	if title != h.last {
		h.window.SetTitle(title)
		h.last = title
	}
}
