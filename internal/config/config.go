package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Subtitle SubtitleConfig `yaml:"subtitle"`
	Frames   FramesConfig   `yaml:"frames"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
}

// LLMConfig holds the language-model endpoint settings. APIKey, BaseURL and
// Model can all be overridden per request; the file values are defaults.
type LLMConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	Style          string `yaml:"style"`
	MaxConcurrent  int    `yaml:"max_concurrent"`
	MaxAttempts    int    `yaml:"max_attempts"`
	BackoffSeconds int    `yaml:"backoff_seconds"`
}

type SubtitleConfig struct {
	// ChunkCharBudget bounds the serialized text of one transcript chunk.
	ChunkCharBudget int `yaml:"chunk_char_budget"`
	// AllowPlainText enables the whole-document fallback for untimed input.
	AllowPlainText bool `yaml:"allow_plain_text"`
}

type FramesConfig struct {
	SharpnessThreshold float64 `yaml:"sharpness_threshold"`
	ProbeStepSeconds   float64 `yaml:"probe_step_seconds"`
	MaxRadiusSeconds   float64 `yaml:"max_radius_seconds"`
	MaxWorkers         int     `yaml:"max_workers"`
	OutputDir          string  `yaml:"output_dir"`
}

type PipelineConfig struct {
	TimeoutSeconds       int     `yaml:"timeout_seconds"`
	MinSeparationSeconds float64 `yaml:"min_separation_seconds"`
}

type PathsConfig struct {
	Watch  string `yaml:"watch"`
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a Config with every tunable at its default value.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a YAML config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.Style == "" {
		c.LLM.Style = "professional"
	}
	if c.LLM.MaxConcurrent <= 0 {
		c.LLM.MaxConcurrent = 3
	}
	if c.LLM.MaxAttempts <= 0 {
		c.LLM.MaxAttempts = 3
	}
	if c.LLM.BackoffSeconds <= 0 {
		c.LLM.BackoffSeconds = 1
	}

	if c.Subtitle.ChunkCharBudget <= 0 {
		c.Subtitle.ChunkCharBudget = 12000
	}

	if c.Frames.SharpnessThreshold <= 0 {
		c.Frames.SharpnessThreshold = 100.0
	}
	if c.Frames.ProbeStepSeconds <= 0 {
		c.Frames.ProbeStepSeconds = 0.5
	}
	if c.Frames.MaxRadiusSeconds <= 0 {
		c.Frames.MaxRadiusSeconds = 2.0
	}
	if c.Frames.MaxRadiusSeconds < c.Frames.ProbeStepSeconds {
		return fmt.Errorf("frames.max_radius_seconds must be >= frames.probe_step_seconds")
	}
	if c.Frames.MaxWorkers <= 0 {
		c.Frames.MaxWorkers = runtime.NumCPU()
	}
	if c.Frames.OutputDir == "" {
		c.Frames.OutputDir = filepath.Join(os.TempDir(), "videonote_frames")
	}

	if c.Pipeline.TimeoutSeconds <= 0 {
		c.Pipeline.TimeoutSeconds = 600
	}
	if c.Pipeline.MinSeparationSeconds <= 0 {
		c.Pipeline.MinSeparationSeconds = 5.0
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8000"
	}

	return nil
}
