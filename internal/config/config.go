// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "60s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds all Tutor-i configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `yaml:"addr"`

	// WebDir is the directory of static files served at /.
	WebDir string `yaml:"web_dir"`

	// Gemini configures the model provider.
	Gemini GeminiConfig `yaml:"gemini"`
}

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`

	// Model handles text, chat and structured generation.
	Model string `yaml:"model"`

	// ImageModel handles image synthesis.
	ImageModel string `yaml:"image_model"`

	// Timeout bounds a single generation request.
	Timeout Duration `yaml:"timeout"`
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	return &Config{
		Addr:   ":8100",
		WebDir: "web",
		Gemini: GeminiConfig{
			Model:      "gemini-2.5-flash",
			ImageModel: "gemini-2.5-flash-image",
			Timeout:    Duration(60 * time.Second),
		},
	}
}

// Load reads the YAML file at path if it exists, applies environment
// overrides and validates the result. A missing file is not an error; the
// defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Fine, run on defaults + environment.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TUTOR_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("TUTOR_WEB_DIR"); v != "" {
		c.WebDir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_IMAGE_MODEL"); v != "" {
		c.Gemini.ImageModel = v
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Gemini.Timeout = Duration(d)
		}
	}
}

func (c *Config) validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is required (set GEMINI_API_KEY or gemini.api_key)")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini model must not be empty")
	}
	if c.Gemini.ImageModel == "" {
		return fmt.Errorf("gemini image model must not be empty")
	}
	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini timeout must be positive, got %s", time.Duration(c.Gemini.Timeout))
	}
	return nil
}
