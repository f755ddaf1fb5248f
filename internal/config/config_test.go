package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mj1618/desktop-locate/internal/model"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
detection:
  enabled: [accessibility, heuristic]
window:
  settle: 250ms
vision:
  model: llava
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(path, noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Settle != 250*time.Millisecond || cfg.Vision.Timeout != 5*time.Second {
		t.Errorf("durations not parsed: %+v %+v", cfg.Window, cfg.Vision)
	}
	if cfg.Vision.Model != "llava" || cfg.Vision.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("vision = %+v", cfg.Vision)
	}
	if cfg.Window.OriginY != 25 {
		t.Errorf("unset fields must keep defaults, origin_y = %d", cfg.Window.OriginY)
	}
	want := []model.Strategy{model.StrategyAccessibility, model.StrategyHeuristic}
	if diff := cmp.Diff(want, cfg.EnabledStrategies()); diff != "" {
		t.Errorf("enabled mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	env := envMap(map[string]string{
		EnvVisionURL:     "http://localhost:11434/v1",
		EnvVisionModel:   "llava:13b",
		EnvOCRBinary:     "/usr/local/bin/tesseract",
		"OPENAI_API_KEY": "sk-from-openai-env",
	})
	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"), env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Vision.BaseURL != "http://localhost:11434/v1" || cfg.Vision.Model != "llava:13b" {
		t.Errorf("vision = %+v", cfg.Vision)
	}
	if cfg.Vision.APIKey != "sk-from-openai-env" {
		t.Errorf("api key from api_key_env not applied: %q", cfg.Vision.APIKey)
	}
	if cfg.OCR.Binary != "/usr/local/bin/tesseract" {
		t.Errorf("ocr binary = %q", cfg.OCR.Binary)
	}

	env = envMap(map[string]string{EnvVisionAPIKey: "sk-direct", "OPENAI_API_KEY": "sk-other"})
	cfg, _ = load(filepath.Join(t.TempDir(), "missing.yaml"), env)
	if cfg.Vision.APIKey != "sk-direct" {
		t.Errorf("direct key must win, got %q", cfg.Vision.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Detection.Enabled = []string{"accessibility", "telepathy"}
	cfg.Vision.Timeout = 0
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"telepathy", "vision.timeout", "log.level", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("window: [unclosed"), 0o600)
	if _, err := load(path, noEnv); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveAndRedacted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Vision.APIKey = "sk-secret"
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := load(path, noEnv)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Vision.APIKey != "sk-secret" || loaded.Window.Settle != cfg.Window.Settle {
		t.Errorf("round trip lost data: %+v", loaded)
	}
	if r := cfg.Redacted(); r.Vision.APIKey != "[redacted]" || cfg.Vision.APIKey != "sk-secret" {
		t.Errorf("redaction wrong: redacted=%q original=%q", r.Vision.APIKey, cfg.Vision.APIKey)
	}
}
