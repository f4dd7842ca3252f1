// Package theme turns a diagram theme configuration into resolved face
// designs: font descriptors become loaded fonts and enumeration descriptors
// become field filters.
package theme

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FaceType selects the face a design is drawn with.
type FaceType string

const (
	DictionaryBlock FaceType = "dictionary_block"
	TextBlock       FaceType = "text_block"
	AnchorPoint     FaceType = "anchor_point"
	GroupFace       FaceType = "group"
)

// Config is the on-disk theme format.
type Config struct {
	ID      string                  `yaml:"id"`
	Name    string                  `yaml:"name"`
	Grid    [2]float64              `yaml:"grid"`
	Scale   float64                 `yaml:"scale"`
	Designs map[string]DesignConfig `yaml:"designs"`
}

// DesignConfig describes how objects of one template are drawn.
type DesignConfig struct {
	Type  FaceType    `yaml:"type"`
	Style StyleConfig `yaml:"style"`
}

// StyleConfig holds the unresolved style of a design.
type StyleConfig struct {
	MaxWidth          float64                `yaml:"max_width"`
	HorizontalPadding float64                `yaml:"horizontal_padding"`
	VerticalPadding   float64                `yaml:"vertical_padding"`
	FieldSpacing      float64                `yaml:"field_spacing"`
	Radius            float64                `yaml:"radius"`
	FillColor         string                 `yaml:"fill_color"`
	StrokeColor       string                 `yaml:"stroke_color"`
	HeadFont          *FontDescriptor        `yaml:"head_font"`
	FieldNameFont     *FontDescriptor        `yaml:"field_name_font"`
	FieldValueFont    *FontDescriptor        `yaml:"field_value_font"`
	Fields            *EnumerationDescriptor `yaml:"fields"`
}

// FontDescriptor names a font. Size carries a unit: "12pt", "16px" or a
// bare number of pixels.
type FontDescriptor struct {
	Family string `yaml:"family"`
	Size   string `yaml:"size"`
	Weight int    `yaml:"weight"`
}

func (d FontDescriptor) key() string {
	return fmt.Sprintf("%s|%s|%d", d.Family, d.Size, d.Weight)
}

// EnumerationDescriptor selects keys by inclusion and exclusion lists.
type EnumerationDescriptor struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// ParseConfig decodes a theme configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing theme: %w", err)
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("theme: missing required field 'id'")
	}
	for name, d := range cfg.Designs {
		switch d.Type {
		case DictionaryBlock, TextBlock, AnchorPoint, GroupFace:
		default:
			return nil, fmt.Errorf("theme %s: design %s: unknown face type %q", cfg.ID, name, d.Type)
		}
	}
	return &cfg, nil
}

// ReadConfig reads and decodes a theme file.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme %s: %w", path, err)
	}
	return ParseConfig(data)
}
