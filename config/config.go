// Package config holds the application properties and their YAML and
// environment representations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/v39engine/v39/keys"
)

// Props configures window, frame pacing and quit handling of an application.
type Props struct {
	Title                     string
	ScreenWidth, ScreenHeight int32
	Fullscreen                bool
	// TargetFPS caps the frame rate; 0 means uncapped.
	TargetFPS int
	// FixedStep is the FixedTick interval; 0 disables FixedTick.
	FixedStep time.Duration
	VSync     bool
	// QuitKeys end the application when pressed.
	QuitKeys []keys.Key
}

// Default returns the default properties.
func Default() Props {
	return Props{
		Title:        "V39 App",
		ScreenWidth:  800,
		ScreenHeight: 600,
		TargetFPS:    60,
		VSync:        true,
	}
}

// Validate reports the first invalid property.
func (p *Props) Validate() error {
	if p.ScreenWidth <= 0 || p.ScreenHeight <= 0 {
		return fmt.Errorf("invalid size (w=%d, h=%d)", p.ScreenWidth, p.ScreenHeight)
	}
	if p.TargetFPS < 0 {
		return fmt.Errorf("invalid target fps: %d", p.TargetFPS)
	}
	if p.FixedStep < 0 {
		return fmt.Errorf("invalid fixed step: %s", p.FixedStep)
	}
	return nil
}

type tmpProps struct {
	Title         string
	Width, Height int32
	Fullscreen    bool
	TargetFPS     int      `yaml:"targetFps"`
	FixedStep     string   `yaml:"fixedStep,omitempty"`
	VSync         bool     `yaml:"vsync"`
	QuitKeys      []string `yaml:"quitKeys,omitempty"`
}

var knownFields = map[string]bool{
	"title": true, "width": true, "height": true, "fullscreen": true,
	"targetFps": true, "fixedStep": true, "vsync": true, "quitKeys": true,
}

func (p *Props) toTmp() tmpProps {
	ret := tmpProps{
		Title: p.Title, Width: p.ScreenWidth, Height: p.ScreenHeight,
		Fullscreen: p.Fullscreen, TargetFPS: p.TargetFPS, VSync: p.VSync,
	}
	if p.FixedStep != 0 {
		ret.FixedStep = p.FixedStep.String()
	}
	for _, k := range p.QuitKeys {
		ret.QuitKeys = append(ret.QuitKeys, k.String())
	}
	return ret
}

// MarshalYAML writes keys by name and the fixed step as duration string.
func (p *Props) MarshalYAML() (interface{}, error) {
	return p.toTmp(), nil
}

// UnmarshalYAML reads properties. Fields missing from the document keep
// their default values.
func (p *Props) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i < len(value.Content); i += 2 {
			if key := value.Content[i]; !knownFields[key.Value] {
				return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
			}
		}
	}
	def := Default()
	tmp := def.toTmp()
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	ret := Props{
		Title: tmp.Title, ScreenWidth: tmp.Width, ScreenHeight: tmp.Height,
		Fullscreen: tmp.Fullscreen, TargetFPS: tmp.TargetFPS, VSync: tmp.VSync,
	}
	if tmp.FixedStep != "" {
		d, err := time.ParseDuration(tmp.FixedStep)
		if err != nil {
			return fmt.Errorf("fixedStep: %w", err)
		}
		ret.FixedStep = d
	}
	for _, name := range tmp.QuitKeys {
		k, err := keys.Parse(name)
		if err != nil {
			return err
		}
		ret.QuitKeys = append(ret.QuitKeys, k)
	}
	if err := ret.Validate(); err != nil {
		return err
	}
	*p = ret
	return nil
}

// Decode parses a YAML document. Unknown fields are an error.
func Decode(input []byte) (Props, error) {
	var p Props
	decoder := yaml.NewDecoder(bytes.NewReader(input))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return Props{}, err
	}
	return p, nil
}

// Load reads the properties from path. If the file does not exist, the
// defaults are written to it and returned.
func Load(path string, log *slog.Logger) (Props, error) {
	if log == nil {
		log = slog.Default()
	}
	input, err := os.ReadFile(path)
	if err == nil {
		p, err := Decode(input)
		if err != nil {
			return Props{}, fmt.Errorf("%s: %w", path, err)
		}
		return p, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Props{}, err
	}
	p := Default()
	if err := Save(path, p); err != nil {
		log.Warn("unable to write config file", "path", path, "err", err)
	} else {
		log.Info("wrote default config file", "path", path)
	}
	return p, nil
}

// Save writes p to path.
func Save(path string, p Props) error {
	output, err := yaml.Marshal(&p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, output, 0o644)
}

// Environment variables read by FromEnv.
const (
	EnvTitle  = "V39_TITLE"
	EnvWidth  = "V39_WIDTH"
	EnvHeight = "V39_HEIGHT"
)

// FromEnv overrides title and size with the values of the V39_* variables
// that are set. lookup is usually os.LookupEnv.
func FromEnv(p Props, lookup func(string) (string, bool)) (Props, error) {
	if v, ok := lookup(EnvTitle); ok {
		p.Title = v
	}
	for _, e := range [...]struct {
		name string
		dst  *int32
	}{{EnvWidth, &p.ScreenWidth}, {EnvHeight, &p.ScreenHeight}} {
		v, ok := lookup(e.name)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return p, fmt.Errorf("%s: %w", e.name, err)
		}
		*e.dst = int32(n)
	}
	return p, p.Validate()
}
