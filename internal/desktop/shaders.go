package desktop

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Box vertex shader: unit cube scaled and placed by uModel.
const boxVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uProj;
uniform mat4 uView;
uniform mat4 uModel;

out vec3 vNormal;
out float vDepth;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vec4 eye = uView * world;
    vNormal = normalize(mat3(uModel) * aNormal);
    vDepth = -eye.z;
    gl_Position = uProj * eye;
}
` + "\x00"

// Box fragment shader: one directional sun, ambient, emissive, linear fog.
const boxFragSrc = `#version 410 core

uniform vec3 uColor;
uniform float uEmissive;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform float uSunIntensity;
uniform float uAmbient;
uniform vec3 uFogColor;
uniform vec2 uFogRange;

in vec3 vNormal;
in float vDepth;
out vec4 FragColor;

void main() {
    float diff = max(dot(normalize(vNormal), -uSunDir), 0.0);
    vec3 lit = uColor * (uAmbient + diff * uSunIntensity * uSunColor);
    lit += uColor * uEmissive;
    float fog = clamp((vDepth - uFogRange.x) / (uFogRange.y - uFogRange.x), 0.0, 1.0);
    FragColor = vec4(mix(lit, uFogColor, fog), 1.0);
}
` + "\x00"

// Sky vertex shader: fullscreen triangle strip.
const skyVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;

out float vHeight;

void main() {
    vHeight = aPos.y * 0.5 + 0.5;
    gl_Position = vec4(aPos, 0.999, 1.0);
}
` + "\x00"

// Sky fragment shader: vertical gradient plus a glow band near the horizon.
const skyFragSrc = `#version 410 core

uniform vec3 uSkyTop;
uniform vec3 uSkyBottom;
uniform float uGlow;

in float vHeight;
out vec4 FragColor;

void main() {
    vec3 c = mix(uSkyBottom, uSkyTop, smoothstep(0.35, 1.0, vHeight));
    float band = exp(-abs(vHeight - 0.45) * 18.0) * uGlow;
    FragColor = vec4(c + uSkyBottom * band * 0.35, 1.0);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
