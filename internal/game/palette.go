package game

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a linear RGB colour with channels in 0..1.
type Color struct {
	R, G, B float64
}

// Hex parses "#rrggbb" (leading '#' optional).
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return Color{
		R: float64((v>>16)&0xFF) / 255.0,
		G: float64((v>>8)&0xFF) / 255.0,
		B: float64(v&0xFF) / 255.0,
	}, nil
}

// MustHex is Hex for compile-time palette literals.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) Scale(k float64) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// Lerp interpolates per channel. t=0 returns c exactly, t=1 returns o exactly.
func (c Color) Lerp(o Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	return Color{R: lerp(c.R, o.R, t), G: lerp(c.G, o.G, t), B: lerp(c.B, o.B, t)}
}

// UnmarshalText lets tables and config files spell colours as hex strings.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := Hex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalYAML accepts quoted hex scalars in data tables.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	return c.UnmarshalText([]byte(n.Value))
}

// TrafficPalette is the default set of body colours for traffic cars.
var TrafficPalette = []Color{
	MustHex("#d7263d"),
	MustHex("#1b98e0"),
	MustHex("#f4d35e"),
	MustHex("#2e933c"),
	MustHex("#f5f5f5"),
	MustHex("#8e44ad"),
}

var Palette = struct {
	PlayerBody  Color
	Point       Color
	Boost       Color
	Headlight   Color
	Window      Color
	Placeholder Color
}{
	PlayerBody:  MustHex("#e8e8ec"),
	Point:       MustHex("#ffd23f"),
	Boost:       MustHex("#3ddc97"),
	Headlight:   MustHex("#fff4c2"),
	Window:      MustHex("#ffcf6e"),
	Placeholder: MustHex("#ff00ff"),
}
