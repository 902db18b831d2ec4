package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"nightdrive/internal/game"
)

// Keys is the edge-triggered keyboard state of the desktop front end.
type Keys struct {
	prevKeys map[glfw.Key]bool
}

func NewKeys() *Keys {
	return &Keys{prevKeys: make(map[glfw.Key]bool)}
}

func (k *Keys) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !k.prevKeys[key]
	k.prevKeys[key] = down
	return jp
}

// Steering reads the held steering keys. Left and right cancel out.
func Steering(window *glfw.Window) game.Input {
	var in game.Input
	if window.GetKey(glfw.KeyLeft) == glfw.Press || window.GetKey(glfw.KeyA) == glfw.Press {
		in.Steer--
	}
	if window.GetKey(glfw.KeyRight) == glfw.Press || window.GetKey(glfw.KeyD) == glfw.Press {
		in.Steer++
	}
	return in
}

var mapKeys = [...]glfw.Key{glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4}

// MapKey reports which map number key was just pressed, if any.
func (k *Keys) MapKey(window *glfw.Window) (game.MapID, bool) {
	picked, ok := game.MapID(0), false
	for i, key := range mapKeys {
		if k.JustPressed(window, key) && !ok {
			picked, ok = game.MapID(i), true
		}
	}
	return picked, ok
}
