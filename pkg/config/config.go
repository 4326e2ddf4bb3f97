package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fasttravel/pkg/annotator"
	"fasttravel/pkg/errors"
	"fasttravel/pkg/toast"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Profile is a named set of selectors for one site layout.
type Profile struct {
	Name      string          `yaml:"name"`
	Annotator AnnotatorConfig `yaml:"annotator"`
	Toast     ToastConfig     `yaml:"toast,omitempty"`
}

// Config holds the complete configuration including profiles
type Config struct {
	Annotator     AnnotatorConfig `yaml:"annotator"`
	Toast         ToastConfig     `yaml:"toast"`
	Profiles      []Profile       `yaml:"profiles,omitempty"`
	ActiveProfile string          `yaml:"active_profile,omitempty"`
}

type AnnotatorConfig struct {
	ParagraphSelector string `yaml:"paragraph_selector,omitempty"`
	SpanClass         string `yaml:"span_class,omitempty"`
	Attribute         string `yaml:"attribute,omitempty"`
	Prefix            string `yaml:"prefix,omitempty"`
}

type ToastConfig struct {
	ContainerClass string `yaml:"container_class,omitempty"`
	Image          string `yaml:"image,omitempty"`
	Message        string `yaml:"message,omitempty"`
	DurationMS     int    `yaml:"duration_ms,omitempty"`
}

// Default is the dofuspourlesnoobs layout.
func Default() *Config {
	a := annotator.DefaultOptions()
	t := toast.DefaultOptions()
	return &Config{
		Annotator: AnnotatorConfig{
			ParagraphSelector: a.ParagraphSelector,
			SpanClass:         a.SpanClass,
			Attribute:         a.Attribute,
			Prefix:            a.Prefix,
		},
		Toast: ToastConfig{
			ContainerClass: t.ContainerClass,
			Image:          t.Image,
			Message:        t.Message,
			DurationMS:     int(t.Duration / time.Millisecond),
		},
	}
}

// Load loads the configuration, optionally with a specific profile
func Load(profileName ...string) (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return loadFromPath(configPath, profileName...)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "fasttravel", "config.yaml"), nil
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configPath)
}

func SaveTo(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to write config file", err)
	}

	return nil
}

// AnnotatorOptions converts the annotator section.
func (c *Config) AnnotatorOptions() annotator.Options {
	return annotator.Options{
		ParagraphSelector: c.Annotator.ParagraphSelector,
		SpanClass:         c.Annotator.SpanClass,
		Attribute:         c.Annotator.Attribute,
		Prefix:            c.Annotator.Prefix,
	}
}

// ToastOptions converts the toast section.
func (c *Config) ToastOptions() toast.Options {
	return toast.Options{
		ContainerClass: c.Toast.ContainerClass,
		Image:          c.Toast.Image,
		Message:        c.Toast.Message,
		Duration:       time.Duration(c.Toast.DurationMS) * time.Millisecond,
	}
}

// GetProfile returns a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile '%s' not found", name)
}

// SetProfile sets the active profile
func (c *Config) SetProfile(name string) error {
	if name == "" {
		c.ActiveProfile = ""
		return nil
	}

	if _, err := c.GetProfile(name); err != nil {
		return err
	}

	c.ActiveProfile = name
	return nil
}

// AddProfile adds a new profile
func (c *Config) AddProfile(profile Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if _, err := c.GetProfile(profile.Name); err == nil {
		return fmt.Errorf("profile '%s' already exists", profile.Name)
	}

	c.Profiles = append(c.Profiles, profile)
	return nil
}

// RemoveProfile removes a profile
func (c *Config) RemoveProfile(name string) error {
	if c.ActiveProfile == name {
		return fmt.Errorf("cannot remove active profile '%s'", name)
	}

	for i, p := range c.Profiles {
		if p.Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile '%s' not found", name)
}

// ListProfiles returns a list of profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

func (c *Config) IsProfileActive(name string) bool {
	return c.ActiveProfile == name
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func loadFromPath(configPath string, profileName ...string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(cfg)

	targetProfile := ""
	if len(profileName) > 0 && profileName[0] != "" {
		targetProfile = profileName[0]
	} else if cfg.ActiveProfile != "" {
		targetProfile = cfg.ActiveProfile
	}

	if targetProfile != "" {
		profile, err := cfg.GetProfile(targetProfile)
		if err != nil {
			return nil, errors.NewWithSuggestion(errors.ExitCodeConfig, err.Error(),
				"Use 'fasttravel config profiles list' to see configured profiles.")
		}
		applyProfileConfig(cfg, profile)
	}

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyProfileConfig(cfg *Config, profile *Profile) {
	overlay(&cfg.Annotator.ParagraphSelector, profile.Annotator.ParagraphSelector)
	overlay(&cfg.Annotator.SpanClass, profile.Annotator.SpanClass)
	overlay(&cfg.Annotator.Attribute, profile.Annotator.Attribute)
	overlay(&cfg.Annotator.Prefix, profile.Annotator.Prefix)
	overlay(&cfg.Toast.ContainerClass, profile.Toast.ContainerClass)
	overlay(&cfg.Toast.Image, profile.Toast.Image)
	overlay(&cfg.Toast.Message, profile.Toast.Message)
	if profile.Toast.DurationMS > 0 {
		cfg.Toast.DurationMS = profile.Toast.DurationMS
	}
}

func applyDefaults(cfg *Config) {
	d := Default()
	fill(&cfg.Annotator.ParagraphSelector, d.Annotator.ParagraphSelector)
	fill(&cfg.Annotator.SpanClass, d.Annotator.SpanClass)
	fill(&cfg.Annotator.Attribute, d.Annotator.Attribute)
	fill(&cfg.Annotator.Prefix, d.Annotator.Prefix)
	fill(&cfg.Toast.ContainerClass, d.Toast.ContainerClass)
	fill(&cfg.Toast.Image, d.Toast.Image)
	fill(&cfg.Toast.Message, d.Toast.Message)
	if cfg.Toast.DurationMS == 0 {
		cfg.Toast.DurationMS = d.Toast.DurationMS
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// No file: defaults and environment only.
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides fills fields the file left empty from FASTTRAVEL_* variables.
func applyEnvironmentOverrides(cfg *Config) {
	fill(&cfg.Annotator.ParagraphSelector, getEnv("FASTTRAVEL_PARAGRAPH_SELECTOR", ""))
	fill(&cfg.Annotator.SpanClass, getEnv("FASTTRAVEL_SPAN_CLASS", ""))
	fill(&cfg.Annotator.Attribute, getEnv("FASTTRAVEL_ATTRIBUTE", ""))
	fill(&cfg.Annotator.Prefix, getEnv("FASTTRAVEL_PREFIX", ""))
	fill(&cfg.Toast.ContainerClass, getEnv("FASTTRAVEL_TOAST_CLASS", ""))
	fill(&cfg.Toast.Image, getEnv("FASTTRAVEL_TOAST_IMAGE", ""))
	fill(&cfg.Toast.Message, getEnv("FASTTRAVEL_TOAST_MESSAGE", ""))
	if cfg.Toast.DurationMS == 0 {
		cfg.Toast.DurationMS = getEnvInt("FASTTRAVEL_TOAST_DURATION_MS", 0)
	}

	if profileEnv := os.Getenv("FASTTRAVEL_PROFILE"); profileEnv != "" {
		cfg.ActiveProfile = profileEnv
	}
}

// validateConfig checks selectors compile and names are usable in markup.
func validateConfig(cfg *Config) error {
	if _, err := cascadia.Compile(cfg.Annotator.ParagraphSelector); err != nil {
		return errors.ConfigError(fmt.Sprintf("invalid paragraph_selector %q: %v", cfg.Annotator.ParagraphSelector, err))
	}
	for key, v := range map[string]string{
		"span_class":      cfg.Annotator.SpanClass,
		"attribute":       cfg.Annotator.Attribute,
		"container_class": cfg.Toast.ContainerClass,
	} {
		if strings.ContainsAny(v, " \t\n\"'<>=") {
			return errors.ConfigError(fmt.Sprintf("%s %q must be a single HTML name", key, v))
		}
	}
	if strings.TrimSpace(cfg.Annotator.Prefix) == "" {
		return errors.ConfigError("annotator prefix must not be blank")
	}
	if cfg.Toast.DurationMS < 0 {
		return errors.ConfigError("toast duration_ms must be positive")
	}
	return nil
}
