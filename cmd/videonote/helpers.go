package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"videonote/internal/config"
	"videonote/internal/frames"
	"videonote/internal/logger"
	"videonote/internal/moments"
	"videonote/internal/notes"
	"videonote/internal/pipeline"
	"videonote/pkg/executor"
)

// loadConfig reads the config file when given, otherwise falls back to
// ./config.yaml if present, otherwise pure defaults.
func loadConfig(configFlag string) (*config.Config, error) {
	if configFlag != "" {
		return config.Load(configFlag)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	}
	return config.Default(), nil
}

// buildPipeline wires the production pipeline: genai model client and
// ffmpeg/ffprobe via the shared executor.
func buildPipeline(cfg *config.Config, log logger.Logger) (*pipeline.Pipeline, pipeline.ProbeFunc) {
	exec := executor.New()
	probe := func(ctx context.Context, videoPath string) (frames.Info, error) {
		return frames.Probe(ctx, exec, videoPath)
	}
	pipe := pipeline.New(cfg, log, moments.NewClient(), frames.NewFFmpegGrabber(exec), probe)
	return pipe, probe
}

// modelConfigFromFlags overlays CLI flags onto the file config.
func modelConfigFromFlags(cfg *config.Config, apiKey, baseURL, model string) moments.ModelConfig {
	mc := moments.ModelConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	}
	if apiKey != "" {
		mc.APIKey = apiKey
	}
	if baseURL != "" {
		mc.BaseURL = baseURL
	}
	if model != "" {
		mc.Model = model
	}
	return mc
}

func writeNotesJSON(path string, ns []notes.Note) error {
	data, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}
