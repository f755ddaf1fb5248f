// Package config loads desktop-locate's YAML configuration from
// ~/.desktop-locate/config.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-locate/internal/model"
)

const (
	dirName  = ".desktop-locate"
	fileName = "config.yaml"
)

// Environment variables that override the file.
const (
	EnvVisionURL    = "DESKTOP_LOCATE_VISION_URL"
	EnvVisionModel  = "DESKTOP_LOCATE_VISION_MODEL"
	EnvVisionAPIKey = "DESKTOP_LOCATE_VISION_API_KEY"
	EnvOCRBinary    = "DESKTOP_LOCATE_OCR_BINARY"
)

// Config is the full configuration.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Window    WindowConfig    `yaml:"window"`
	Vision    VisionConfig    `yaml:"vision"`
	OCR       OCRConfig       `yaml:"ocr"`
	Session   SessionConfig   `yaml:"session"`
	Input     InputConfig     `yaml:"input"`
	Log       LogConfig       `yaml:"log"`
}

type DetectionConfig struct {
	// Enabled lists the strategies auto and all modes may use, by name.
	Enabled     []string `yaml:"enabled"`
	DefaultMode string   `yaml:"default_mode"`
}

type WindowConfig struct {
	Settle  time.Duration `yaml:"settle"`
	OriginX int           `yaml:"origin_x"`
	OriginY int           `yaml:"origin_y"`
}

type VisionConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key,omitempty"`
	// APIKeyEnv names an environment variable holding the key.
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

type OCRConfig struct {
	Binary         string  `yaml:"binary"`
	MinConfidence  float64 `yaml:"min_confidence"`
	OnnxRuntimeLib string  `yaml:"onnx_runtime_lib"`
	DetModel       string  `yaml:"det_model"`
	RecModel       string  `yaml:"rec_model"`
	Dict           string  `yaml:"dict"`
}

type SessionConfig struct {
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

type InputConfig struct {
	TypeDelayMs int `yaml:"type_delay_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is json (default) or console.
	Format string `yaml:"format"`
	// File, when set, receives logs in addition to stderr.
	File string `yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Enabled:     []string{"accessibility", "ai", "ocr", "heuristic"},
			DefaultMode: "auto",
		},
		Window: WindowConfig{Settle: 500 * time.Millisecond, OriginX: 0, OriginY: 25},
		Vision: VisionConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4o",
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   30 * time.Second,
			MaxTokens: 2048,
		},
		OCR:     OCRConfig{Binary: "tesseract", MinConfidence: 40},
		Session: SessionConfig{SnapshotTTL: 5 * time.Minute},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// DefaultPath returns ~/.desktop-locate/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, dirName, fileName)
}

// Load reads path (DefaultPath when empty) over the defaults, applies the
// environment and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(lookup)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvVisionURL); ok && v != "" {
		c.Vision.BaseURL = v
	}
	if v, ok := lookup(EnvVisionModel); ok && v != "" {
		c.Vision.Model = v
	}
	if v, ok := lookup(EnvVisionAPIKey); ok && v != "" {
		c.Vision.APIKey = v
	} else if c.Vision.APIKey == "" && c.Vision.APIKeyEnv != "" {
		if v, ok := lookup(c.Vision.APIKeyEnv); ok {
			c.Vision.APIKey = v
		}
	}
	if v, ok := lookup(EnvOCRBinary); ok && v != "" {
		c.OCR.Binary = v
	}
}

// Validate rejects unknown strategy names and non-positive timeouts.
func (c *Config) Validate() error {
	var errs []error
	for _, s := range c.Detection.Enabled {
		if _, err := model.ParseStrategy(s); err != nil {
			errs = append(errs, fmt.Errorf("detection.enabled: %w", err))
		}
	}
	switch strings.ToLower(c.Detection.DefaultMode) {
	case "", "auto", "all":
	default:
		if _, err := model.ParseStrategy(c.Detection.DefaultMode); err != nil {
			errs = append(errs, fmt.Errorf("detection.default_mode: %w", err))
		}
	}
	if c.Vision.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("vision.timeout must be positive, got %s", c.Vision.Timeout))
	}
	if c.Window.Settle < 0 {
		errs = append(errs, fmt.Errorf("window.settle must not be negative, got %s", c.Window.Settle))
	}
	if c.Session.SnapshotTTL < 0 {
		errs = append(errs, fmt.Errorf("session.snapshot_ttl must not be negative, got %s", c.Session.SnapshotTTL))
	}
	if c.Input.TypeDelayMs < 0 {
		errs = append(errs, fmt.Errorf("input.type_delay_ms must not be negative, got %d", c.Input.TypeDelayMs))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: expected json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// EnabledStrategies returns Detection.Enabled parsed, in the order given.
func (c *Config) EnabledStrategies() []model.Strategy {
	var out []model.Strategy
	for _, s := range c.Detection.Enabled {
		if st, err := model.ParseStrategy(s); err == nil {
			out = append(out, st)
		}
	}
	return out
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Detection.Enabled = append([]string(nil), c.Detection.Enabled...)
	if cp.Vision.APIKey != "" {
		cp.Vision.APIKey = "[redacted]"
	}
	return &cp
}

// Save writes c to path (DefaultPath when empty), creating the directory.
func Save(c *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
