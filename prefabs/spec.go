package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArenaSpec lays out the demo arena. Coordinates are screen space (y-down).
type ArenaSpec struct {
	Name      string        `yaml:"name"`
	Width     float64       `yaml:"width"`
	Height    float64       `yaml:"height"`
	Gravity   float64       `yaml:"gravity"`
	Platforms []SegmentSpec `yaml:"platforms"`
	Player    string        `yaml:"player"`
	Boss      string        `yaml:"boss"`
	Colors    ArenaColors   `yaml:"colors"`
}

type SegmentSpec struct {
	AX        float64 `yaml:"ax"`
	AY        float64 `yaml:"ay"`
	BX        float64 `yaml:"bx"`
	BY        float64 `yaml:"by"`
	Thickness float64 `yaml:"thickness"`
}

type ArenaColors struct {
	Platform *YAMLColor `yaml:"platform"`
	Player   *YAMLColor `yaml:"player"`
	Boss     *YAMLColor `yaml:"boss"`
	Tracer   *YAMLColor `yaml:"tracer"`
	Sensor   *YAMLColor `yaml:"sensor"`
}

func LoadArenaSpec(name string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("prefabs: %s: arena size must be positive", name)
	}
	return &spec, nil
}

// CueSpec describes a synthesized sound cue.
type CueSpec struct {
	Name      string  `yaml:"name"`
	Frequency float64 `yaml:"frequency"`
	Duration  float64 `yaml:"duration"`
	Volume    float64 `yaml:"volume"`
	Sweep     float64 `yaml:"sweep"`
}

type AudioSpec struct {
	SampleRate int       `yaml:"sample_rate"`
	Cues       []CueSpec `yaml:"cues"`
}

func LoadAudioSpec() (*AudioSpec, error) {
	spec, err := LoadSpec[AudioSpec]("audio.yaml")
	if err != nil {
		return nil, err
	}
	if spec.SampleRate == 0 {
		spec.SampleRate = 44100
	}
	return &spec, nil
}

// GraphSpec is a data-driven state graph. Guards are script expressions over
// Vars; hooks and transition actions are lists of {action: arg} entries.
type GraphSpec struct {
	Name        string           `yaml:"name"`
	Initial     string           `yaml:"initial"`
	Prelude     string           `yaml:"prelude"`
	Vars        map[string]any   `yaml:"vars"`
	States      []GraphStateSpec `yaml:"states"`
	Transitions []GraphEdgeSpec  `yaml:"transitions"`
}

type GraphStateSpec struct {
	Name   string           `yaml:"name"`
	Enter  []map[string]any `yaml:"enter"`
	Update []map[string]any `yaml:"update"`
	Exit   []map[string]any `yaml:"exit"`
}

type GraphEdgeSpec struct {
	Channel string           `yaml:"channel"`
	From    string           `yaml:"from"`
	To      string           `yaml:"to"`
	Label   string           `yaml:"label"`
	When    string           `yaml:"when"`
	Do      []map[string]any `yaml:"do"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns c's color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
