package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/handiism/avatar-customizer/internal/manifest"
	"github.com/handiism/avatar-customizer/internal/model"
	"github.com/handiism/avatar-customizer/internal/render"
	"github.com/handiism/avatar-customizer/internal/selection"
	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// Manifest source
	Source string `json:"source" yaml:"source" env:"AVATAR_SOURCE"` // github, jsdelivr, dir
	User   string `json:"user" yaml:"user" env:"AVATAR_USER"`
	Repo   string `json:"repo" yaml:"repo" env:"AVATAR_REPO"`
	Ref    string `json:"ref" yaml:"ref" env:"AVATAR_REF"`
	Dir    string `json:"dir" yaml:"dir" env:"AVATAR_DIR"`

	// APIBase and CDNBase override the default hosts of the source.
	APIBase string `json:"api_base,omitempty" yaml:"api_base,omitempty" env:"AVATAR_API_BASE"`
	CDNBase string `json:"cdn_base,omitempty" yaml:"cdn_base,omitempty" env:"AVATAR_CDN_BASE"`

	// Classification
	Parts     []string `json:"parts" yaml:"parts" env:"AVATAR_PARTS" envSeparator:","`
	Extension string   `json:"extension" yaml:"extension" env:"AVATAR_EXTENSION"`

	// Rendering
	CanvasSize    int    `json:"canvas_size" yaml:"canvas_size" env:"AVATAR_CANVAS_SIZE"`
	DefaultPick   string `json:"default_policy" yaml:"default_policy" env:"AVATAR_DEFAULT_POLICY"` // prefer-negative-one, minimum
	DrawFrom      string `json:"draw_source" yaml:"draw_source" env:"AVATAR_DRAW_SOURCE"`         // primary, preview
	SmoothScaling bool   `json:"smooth_scaling" yaml:"smooth_scaling" env:"AVATAR_SMOOTH_SCALING"`
	OutputPath    string `json:"output_path" yaml:"output_path" env:"AVATAR_OUTPUT"`

	// Network
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds" env:"AVATAR_REQUEST_TIMEOUT"`
	MaxConcurrentPrefetch int    `json:"max_concurrent_prefetch" yaml:"max_concurrent_prefetch" env:"AVATAR_MAX_CONCURRENT_PREFETCH"`
	UserAgent             string `json:"user_agent" yaml:"user_agent" env:"AVATAR_USER_AGENT"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Source: manifest.SourceGitHub,
		User:   "Mgpixelart",
		Repo:   "avatar-customize-v1",
		Ref:    "main",

		Parts:     append([]string(nil), model.DefaultParts...),
		Extension: model.DefaultExtension,

		CanvasSize:  render.DefaultSize,
		DefaultPick: selection.PreferNegativeOne.String(),
		DrawFrom:    render.DrawPrimary.String(),
		OutputPath:  "avatar.png",

		RequestTimeoutSeconds: 30,
		MaxConcurrentPrefetch: 4,
		UserAgent:             "avatar-customizer",
	}
}

// Load reads settings from a JSON or YAML file, then applies AVATAR_*
// environment overrides.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as
// JSON. A missing file yields the defaults. An empty path skips the file.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, settings); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid option.
func (s *Settings) Validate() error {
	parts := s.cleanParts()
	if len(parts) == 0 {
		return errors.New("parts must not be empty")
	}
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p] {
			return fmt.Errorf("duplicate part %q", p)
		}
		seen[p] = true
	}
	if s.CanvasSize <= 0 {
		return fmt.Errorf("canvas size must be positive, got %d", s.CanvasSize)
	}
	switch s.Source {
	case manifest.SourceGitHub, manifest.SourceJSDelivr, manifest.SourceDir:
	default:
		return fmt.Errorf("unknown source %q", s.Source)
	}
	if _, err := s.DefaultPolicy(); err != nil {
		return err
	}
	if _, err := s.DrawSource(); err != nil {
		return err
	}
	return nil
}

// ToPartConfig converts settings to PartConfig.
func (s *Settings) ToPartConfig() *model.PartConfig {
	return &model.PartConfig{
		Parts:     s.cleanParts(),
		Extension: s.Extension,
	}
}

// ToSourceConfig converts settings to SourceConfig.
func (s *Settings) ToSourceConfig() manifest.SourceConfig {
	return manifest.SourceConfig{
		Kind:    s.Source,
		User:    s.User,
		Repo:    s.Repo,
		Ref:     s.Ref,
		Dir:     s.Dir,
		APIBase: s.APIBase,
		CDNBase: s.CDNBase,
	}
}

// ToCompositorConfig converts settings to CompositorConfig.
func (s *Settings) ToCompositorConfig() render.CompositorConfig {
	source, _ := s.DrawSource()
	return render.CompositorConfig{
		Size:   s.CanvasSize,
		Source: source,
		Smooth: s.SmoothScaling,
	}
}

// DefaultPolicy returns the configured default-selection policy.
func (s *Settings) DefaultPolicy() (selection.Policy, error) {
	return selection.ParsePolicy(s.DefaultPick)
}

// DrawSource returns the configured draw source.
func (s *Settings) DrawSource() (render.DrawSource, error) {
	return render.ParseDrawSource(s.DrawFrom)
}

// RequestTimeout returns the HTTP timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// cleanParts trims and lower-cases part names and drops blanks.
func (s *Settings) cleanParts() []string {
	var out []string
	for _, p := range s.Parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decode(path string, data []byte, v *Settings) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
