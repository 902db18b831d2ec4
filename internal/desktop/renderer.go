package desktop

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"nightdrive/internal/game"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer draws every entity as a lit box over a gradient sky.
type Renderer struct {
	boxProg uint32
	boxVAO  uint32
	boxVBO  uint32
	boxN    int32

	uProj, uView, uModel int32
	uColor, uEmissive    int32
	uSunDir, uSunColor   int32
	uSunIntensity        int32
	uAmbient             int32
	uFogColor, uFogRange int32

	skyProg uint32
	skyVAO  uint32
	skyVBO  uint32

	uSkyTop, uSkyBottom, uGlow int32
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{}

	var err error
	r.boxProg, err = linkProgram(boxVertSrc, boxFragSrc)
	if err != nil {
		return nil, fmt.Errorf("box program: %w", err)
	}
	r.uProj = uniform(r.boxProg, "uProj")
	r.uView = uniform(r.boxProg, "uView")
	r.uModel = uniform(r.boxProg, "uModel")
	r.uColor = uniform(r.boxProg, "uColor")
	r.uEmissive = uniform(r.boxProg, "uEmissive")
	r.uSunDir = uniform(r.boxProg, "uSunDir")
	r.uSunColor = uniform(r.boxProg, "uSunColor")
	r.uSunIntensity = uniform(r.boxProg, "uSunIntensity")
	r.uAmbient = uniform(r.boxProg, "uAmbient")
	r.uFogColor = uniform(r.boxProg, "uFogColor")
	r.uFogRange = uniform(r.boxProg, "uFogRange")

	cube := cubeVertices()
	r.boxN = int32(len(cube) / 6)
	gl.GenVertexArrays(1, &r.boxVAO)
	gl.BindVertexArray(r.boxVAO)
	gl.GenBuffers(1, &r.boxVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boxVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(cube)*4, gl.Ptr(cube), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, glOffset(3*4))

	r.skyProg, err = linkProgram(skyVertSrc, skyFragSrc)
	if err != nil {
		return nil, fmt.Errorf("sky program: %w", err)
	}
	r.uSkyTop = uniform(r.skyProg, "uSkyTop")
	r.uSkyBottom = uniform(r.skyProg, "uSkyBottom")
	r.uGlow = uniform(r.skyProg, "uGlow")

	quad := []float32{-1, -1, 1, -1, -1, 1, 1, 1}
	gl.GenVertexArrays(1, &r.skyVAO)
	gl.BindVertexArray(r.skyVAO)
	gl.GenBuffers(1, &r.skyVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.skyVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	gl.DeleteBuffers(1, &r.boxVBO)
	gl.DeleteVertexArrays(1, &r.boxVAO)
	gl.DeleteProgram(r.boxProg)
	gl.DeleteBuffers(1, &r.skyVBO)
	gl.DeleteVertexArrays(1, &r.skyVAO)
	gl.DeleteProgram(r.skyProg)
}

// Draw renders one frame of s into the current framebuffer.
func (r *Renderer) Draw(s *game.Session, fbW, fbH int) {
	env := s.State()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(float32(env.FogColor.R), float32(env.FogColor.G), float32(env.FogColor.B), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.drawSky(env)

	gl.Enable(gl.DEPTH_TEST)
	gl.UseProgram(r.boxProg)
	gl.BindVertexArray(r.boxVAO)

	proj := toMat32(s.Camera.Projection(float64(fbW) / float64(fbH)))
	view := toMat32(s.Camera.View())
	gl.UniformMatrix4fv(r.uProj, 1, false, &proj[0])
	gl.UniformMatrix4fv(r.uView, 1, false, &view[0])

	sun := sunDirection(env.CelestialRotation)
	gl.Uniform3f(r.uSunDir, sun.X(), sun.Y(), sun.Z())
	setColor(r.uSunColor, env.SunColor)
	gl.Uniform1f(r.uSunIntensity, float32(env.SunIntensity))
	gl.Uniform1f(r.uAmbient, float32(env.Ambient))
	setColor(r.uFogColor, env.FogColor)
	far := s.Tuning.CorridorLength * 0.9
	gl.Uniform2f(r.uFogRange, float32(far*0.3), float32(far))

	for _, st := range s.World.Statics() {
		r.drawBox(st.Pos, mgl64.Vec3{}, st.Half, st.Color, 0)
	}
	for c := game.Category(0); c < game.CategoryCount; c++ {
		for _, e := range s.World.Pool(c).Items {
			if !e.Visible {
				continue
			}
			r.drawBox(e.Pos, e.Rot, e.Half, e.Color, e.Emissive)
		}
	}
	r.drawPlayer(s.Player)

	gl.BindVertexArray(0)
	gl.Disable(gl.DEPTH_TEST)
}

func (r *Renderer) drawSky(env game.EnvironmentState) {
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(r.skyProg)
	setColor(r.uSkyTop, env.SkyTop)
	setColor(r.uSkyBottom, env.SkyBottom)
	gl.Uniform1f(r.uGlow, float32(env.GlowOpacity))
	gl.BindVertexArray(r.skyVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

func (r *Renderer) drawPlayer(p *game.Player) {
	if !p.Loaded() {
		return
	}
	for _, part := range p.Model.Parts {
		b := game.AABB{Min: part.Min, Max: part.Max}.Translate(p.Pos)
		r.drawBox(b.Center(), mgl64.Vec3{}, b.HalfExtents(), part.Color, part.Emissive)
	}
}

func (r *Renderer) drawBox(pos, rot, half mgl64.Vec3, col game.Color, emissive float64) {
	m := mgl64.Translate3D(pos.X(), pos.Y(), pos.Z())
	if rot != (mgl64.Vec3{}) {
		m = m.Mul4(mgl64.HomogRotate3DY(rot.Y())).Mul4(mgl64.HomogRotate3DX(rot.X()))
	}
	m = m.Mul4(mgl64.Scale3D(half.X(), half.Y(), half.Z()))
	m32 := toMat32(m)
	gl.UniformMatrix4fv(r.uModel, 1, false, &m32[0])
	setColor(r.uColor, col)
	gl.Uniform1f(r.uEmissive, float32(emissive))
	gl.DrawArrays(gl.TRIANGLES, 0, r.boxN)
}

// sunDirection turns the celestial rotation into the direction light travels.
func sunDirection(rot float64) mgl32.Vec3 {
	pos := mgl32.Vec3{float32(math.Cos(rot)), float32(math.Sin(rot)), 0.4}
	return pos.Normalize().Mul(-1)
}

func setColor(loc int32, c game.Color) {
	gl.Uniform3f(loc, float32(c.R), float32(c.G), float32(c.B))
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// cubeVertices returns 36 interleaved position/normal vertices of the
// [-1,1] cube.
func cubeVertices() []float32 {
	faces := [6]struct {
		n, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
	}
	out := make([]float32, 0, 36*6)
	for _, f := range faces {
		corner := func(a, b float32) mgl32.Vec3 {
			return f.n.Add(f.u.Mul(a)).Add(f.v.Mul(b))
		}
		quad := [6]mgl32.Vec3{
			corner(-1, -1), corner(1, -1), corner(1, 1),
			corner(-1, -1), corner(1, 1), corner(-1, 1),
		}
		for _, p := range quad {
			out = append(out, p.X(), p.Y(), p.Z(), f.n.X(), f.n.Y(), f.n.Z())
		}
	}
	return out
}
