package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PartClass groups model parts by how the game treats them.
type PartClass int

const (
	PartBody PartClass = iota
	PartGlass
	PartWheel
	PartInterior
	PartLight
)

// partClasses maps the tag carried in asset metadata to a class. Unknown
// tags are body panels.
var partClasses = map[string]PartClass{
	"body":      PartBody,
	"paint":     PartBody,
	"glass":     PartGlass,
	"window":    PartGlass,
	"wheel":     PartWheel,
	"tyre":      PartWheel,
	"tire":      PartWheel,
	"interior":  PartInterior,
	"seat":      PartInterior,
	"headlight": PartLight,
	"lamp":      PartLight,
}

// ClassifyPart looks up the class for a metadata tag.
func ClassifyPart(tag string) PartClass {
	if c, ok := partClasses[foldCaser.String(strings.TrimSpace(tag))]; ok {
		return c
	}
	return PartBody
}

// Part is one named sub-mesh of a model, in model-local space.
type Part struct {
	Name     string
	Tag      string
	Class    PartClass
	Min, Max mgl64.Vec3
	Color    Color
	Emissive float64
}

// Model is a loaded vehicle: its parts and their union bounds.
type Model struct {
	Name        string
	Parts       []Part
	Placeholder bool
}

// Bounds returns the model-local box around every part.
func (m *Model) Bounds() AABB {
	if m == nil || len(m.Parts) == 0 {
		return AABB{}
	}
	b := AABB{Min: m.Parts[0].Min, Max: m.Parts[0].Max}
	for _, p := range m.Parts[1:] {
		b = b.Union(AABB{Min: p.Min, Max: p.Max})
	}
	return b
}

// PlaceholderModel is the plain box used when the real asset is missing.
func PlaceholderModel() *Model {
	return &Model{
		Name:        "placeholder",
		Placeholder: true,
		Parts: []Part{
			{Name: "box", Tag: "body", Class: PartBody, Min: mgl64.Vec3{-0.9, 0, -2}, Max: mgl64.Vec3{0.9, 1.4, 2}, Color: Palette.Placeholder},
			{Name: "lamp_l", Tag: "headlight", Class: PartLight, Min: mgl64.Vec3{-0.8, 0.5, 1.95}, Max: mgl64.Vec3{-0.4, 0.7, 2.05}, Color: Palette.Headlight},
			{Name: "lamp_r", Tag: "headlight", Class: PartLight, Min: mgl64.Vec3{0.4, 0.5, 1.95}, Max: mgl64.Vec3{0.8, 0.7, 2.05}, Color: Palette.Headlight},
		},
	}
}

// ModelLoader is the asset collaborator.
type ModelLoader interface {
	LoadModel(name string) (*Model, error)
}

// ErrModelNotFound is returned when a loader has no asset under a name.
var ErrModelNotFound = errors.New("model not found")

type modelFile struct {
	Name  string `yaml:"name"`
	Parts []struct {
		Name     string     `yaml:"name"`
		Tag      string     `yaml:"tag"`
		Min      [3]float64 `yaml:"min"`
		Max      [3]float64 `yaml:"max"`
		Color    Color      `yaml:"color"`
		Emissive float64    `yaml:"emissive"`
	} `yaml:"parts"`
}

// YAMLModelLoader reads <Dir>/<name>.yaml part lists.
type YAMLModelLoader struct {
	Dir string
}

func (l YAMLModelLoader) LoadModel(name string) (*Model, error) {
	path := filepath.Join(l.Dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load model %s: %w", name, ErrModelNotFound)
		}
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	return ParseModel(data)
}

// ParseModel decodes a YAML model description.
func ParseModel(data []byte) (*Model, error) {
	var f modelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(f.Parts) == 0 {
		return nil, fmt.Errorf("parse model %q: no parts", f.Name)
	}
	m := &Model{Name: f.Name}
	for _, p := range f.Parts {
		m.Parts = append(m.Parts, Part{
			Name:     p.Name,
			Tag:      p.Tag,
			Class:    ClassifyPart(p.Tag),
			Min:      mgl64.Vec3(p.Min),
			Max:      mgl64.Vec3(p.Max),
			Color:    p.Color,
			Emissive: p.Emissive,
		})
	}
	return m, nil
}

// LoadPlayerModel asks loader for name and substitutes the placeholder on
// any failure. The returned status is meant for the player, not for logs.
func LoadPlayerModel(loader ModelLoader, name string, log *zap.Logger) (*Model, string) {
	if log == nil {
		log = zap.NewNop()
	}
	if loader == nil {
		return PlaceholderModel(), "no model loader, using placeholder car"
	}
	m, err := loader.LoadModel(name)
	if err != nil {
		log.Warn("player model unavailable", zap.String("model", name), zap.Error(err))
		return PlaceholderModel(), fmt.Sprintf("could not load car %q, using placeholder", name)
	}
	return m, fmt.Sprintf("loaded car %q", m.Name)
}
