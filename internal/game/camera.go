package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Chase camera placement relative to the player.
const (
	CameraHeight   = 3.2
	CameraBack     = 8.0
	CameraLookAt   = 14.0
	CameraFOV      = 62.0 // degrees
	CameraBoostFOV = 74.0
	CameraNear     = 0.1
	CameraFar      = 600.0
)

type Camera struct {
	Eye, Target mgl64.Vec3
	FOV         float64 // vertical, degrees

	// Screen shake.
	ShakeX, ShakeY float64 // current offset in world units
	ShakeTimer     float64 // remaining shake time
	ShakeIntensity float64 // max offset magnitude
}

func NewCamera() *Camera {
	return &Camera{FOV: CameraFOV}
}

// Follow trails the player, easing sideways and toward the wanted FOV.
func (c *Camera) Follow(p *Player, boosting bool, dt float64) {
	x := 0.0
	if p != nil {
		x = p.Pos.X()
	}
	k := 1 - math.Exp(-6*dt)
	ex := lerp(c.Eye.X(), x*0.6, k)
	c.Eye = mgl64.Vec3{ex, CameraHeight, -CameraBack}
	c.Target = mgl64.Vec3{x * 0.8, 1.0, CameraLookAt}

	want := CameraFOV
	if boosting {
		want = CameraBoostFOV
	}
	c.FOV = approach(c.FOV, want, 40*dt)
}

// AddShake triggers screen shake with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays shake and computes random offsets.
func (c *Camera) UpdateShake(dt float64, seed uint64) {
	if c.ShakeTimer <= 0 {
		c.ShakeX = 0
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer -= dt
	if c.ShakeTimer < 0 {
		c.ShakeTimer = 0
	}
	t := c.ShakeTimer
	rr := NewRand(seed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeX = rr.RangeF(-mag, mag)
	c.ShakeY = rr.RangeF(-mag, mag)
}

// View returns the look-at matrix with shake applied to the eye. The result
// is mirrored on X so that +X is screen right while looking down +Z.
func (c *Camera) View() mgl64.Mat4 {
	eye := c.Eye.Add(mgl64.Vec3{c.ShakeX, c.ShakeY, 0})
	return mgl64.Scale3D(-1, 1, 1).Mul4(mgl64.LookAtV(eye, c.Target, mgl64.Vec3{0, 1, 0}))
}

func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, CameraNear, CameraFar)
}
