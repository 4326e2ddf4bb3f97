package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fasttravel/pkg/errors"

	"gopkg.in/yaml.v3"
)

var envKeys = []string{
	"FASTTRAVEL_PARAGRAPH_SELECTOR",
	"FASTTRAVEL_SPAN_CLASS",
	"FASTTRAVEL_ATTRIBUTE",
	"FASTTRAVEL_PREFIX",
	"FASTTRAVEL_TOAST_CLASS",
	"FASTTRAVEL_TOAST_IMAGE",
	"FASTTRAVEL_TOAST_MESSAGE",
	"FASTTRAVEL_TOAST_DURATION_MS",
	"FASTTRAVEL_PROFILE",
}

// clearEnv blanks every FASTTRAVEL_* variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fasttravel", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	if cfg.Annotator.ParagraphSelector != ".paragraph" {
		t.Errorf("ParagraphSelector = %q, want .paragraph", cfg.Annotator.ParagraphSelector)
	}
	if cfg.Annotator.Prefix != "/travel" {
		t.Errorf("Prefix = %q, want /travel", cfg.Annotator.Prefix)
	}
	if cfg.ToastOptions().Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", cfg.ToastOptions().Duration)
	}
	if cfg.Toast.Message != "Voyage copié avec succès" {
		t.Errorf("Message = %q", cfg.Toast.Message)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `annotator:
  paragraph_selector: "article p"
  prefix: /tp
toast:
  message: Copied
  duration_ms: 500
`)

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	opts := cfg.AnnotatorOptions()
	if opts.ParagraphSelector != "article p" || opts.Prefix != "/tp" {
		t.Errorf("AnnotatorOptions() = %+v", opts)
	}
	if opts.SpanClass != "fast-travel-coord" {
		t.Errorf("SpanClass = %q, want default", opts.SpanClass)
	}
	topts := cfg.ToastOptions()
	if topts.Message != "Copied" || topts.Duration != 500*time.Millisecond {
		t.Errorf("ToastOptions() = %+v", topts)
	}
}

func TestLoad_EnvironmentFillsGaps(t *testing.T) {
	clearEnv(t)
	t.Setenv("FASTTRAVEL_PREFIX", "/go")
	t.Setenv("FASTTRAVEL_PARAGRAPH_SELECTOR", ".from-env")
	t.Setenv("FASTTRAVEL_TOAST_DURATION_MS", "750")
	path := writeConfig(t, `annotator:
  paragraph_selector: ".from-file"
`)

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}
	if cfg.Annotator.ParagraphSelector != ".from-file" {
		t.Errorf("file value should win, got %q", cfg.Annotator.ParagraphSelector)
	}
	if cfg.Annotator.Prefix != "/go" {
		t.Errorf("Prefix = %q, want /go", cfg.Annotator.Prefix)
	}
	if cfg.Toast.DurationMS != 750 {
		t.Errorf("DurationMS = %d, want 750", cfg.Toast.DurationMS)
	}
}

func TestLoad_Profile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `annotator:
  paragraph_selector: ".paragraph"
profiles:
  - name: wiki
    annotator:
      paragraph_selector: ".mw-parser-output p"
    toast:
      message: Copied!
active_profile: wiki
`)

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}
	if cfg.Annotator.ParagraphSelector != ".mw-parser-output p" {
		t.Errorf("ParagraphSelector = %q, want profile value", cfg.Annotator.ParagraphSelector)
	}
	if cfg.Toast.Message != "Copied!" {
		t.Errorf("Message = %q, want profile value", cfg.Toast.Message)
	}

	if _, err := loadFromPath(path, "missing"); err == nil {
		t.Error("loadFromPath() expected error for unknown profile")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ExitCode
	}{
		{"bad yaml", "annotator: [", errors.ExitCodeConfig},
		{"bad selector", "annotator:\n  paragraph_selector: \"p[[\"\n", errors.ExitCodeConfig},
		{"bad span class", "annotator:\n  span_class: \"a b\"\n", errors.ExitCodeConfig},
		{"blank prefix", "annotator:\n  prefix: \"  \"\n", errors.ExitCodeConfig},
		{"negative duration", "toast:\n  duration_ms: -5\n", errors.ExitCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := loadFromPath(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("loadFromPath() expected error")
			}
			if !errors.IsExitCode(err, tt.code) {
				t.Errorf("error %v has wrong exit code, want %d", err, tt.code)
			}
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	if err := cfg.AddProfile(Profile{Name: "alt", Annotator: AnnotatorConfig{Prefix: "/tp"}}); err != nil {
		t.Fatalf("AddProfile() returned error: %v", err)
	}
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved config is not valid YAML: %v", err)
	}
	if !strings.Contains(string(data), "paragraph_selector:") {
		t.Errorf("saved config missing paragraph_selector:\n%s", data)
	}

	loaded, err := loadFromPath(path, "alt")
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}
	if loaded.Annotator.Prefix != "/tp" {
		t.Errorf("Prefix = %q, want /tp", loaded.Annotator.Prefix)
	}
}

func TestProfiles(t *testing.T) {
	cfg := &Config{}

	if err := cfg.AddProfile(Profile{Name: "a"}); err != nil {
		t.Fatalf("AddProfile(a) returned error: %v", err)
	}
	if err := cfg.AddProfile(Profile{Name: "a"}); err == nil {
		t.Error("AddProfile() expected error for duplicate")
	}
	if err := cfg.AddProfile(Profile{}); err == nil {
		t.Error("AddProfile() expected error for empty name")
	}
	if err := cfg.SetProfile("a"); err != nil {
		t.Fatalf("SetProfile(a) returned error: %v", err)
	}
	if !cfg.IsProfileActive("a") {
		t.Error("IsProfileActive(a) = false")
	}
	if err := cfg.RemoveProfile("a"); err == nil {
		t.Error("RemoveProfile() expected error for active profile")
	}
	if err := cfg.SetProfile(""); err != nil {
		t.Fatalf("SetProfile(\"\") returned error: %v", err)
	}
	if err := cfg.RemoveProfile("a"); err != nil {
		t.Errorf("RemoveProfile(a) returned error: %v", err)
	}
	if len(cfg.ListProfiles()) != 0 {
		t.Errorf("ListProfiles() = %v, want empty", cfg.ListProfiles())
	}
	if err := cfg.SetProfile("nope"); err == nil {
		t.Error("SetProfile(nope) expected error")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("fasttravel", "config.yaml")) {
		t.Errorf("GetConfigPath() = %q", path)
	}
}
