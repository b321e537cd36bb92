package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"videonote/internal/logger"
	"videonote/internal/moments"
	"videonote/internal/pipeline"
	"videonote/internal/watcher"
)

func newWatchCommand(configFlag *string) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and synthesize notes for dropped subtitle+video pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Logging.Level)
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			watchDir := firstNonEmpty(dirFlag, cfg.Paths.Watch)
			if watchDir == "" {
				return fmt.Errorf("no watch directory: set --dir or paths.watch")
			}
			if err := os.MkdirAll(watchDir, 0755); err != nil {
				return fmt.Errorf("create watch directory: %w", err)
			}

			style, err := moments.ParseStyle(cfg.LLM.Style)
			if err != nil {
				return err
			}

			pipe, _ := buildPipeline(cfg, log)
			handler := func(ctx context.Context, videoPath, subtitlePath string) error {
				subtitleText, err := os.ReadFile(subtitlePath)
				if err != nil {
					return fmt.Errorf("read subtitles: %w", err)
				}

				ns, err := pipe.Synthesize(ctx, pipeline.Request{
					VideoPath:    videoPath,
					SubtitleText: string(subtitleText),
					Style:        style,
					Model:        modelConfigFromFlags(cfg, "", "", ""),
				})
				if err != nil {
					return err
				}

				base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
				outDir := cfg.Paths.Output
				jsonPath := base + ".notes.json"
				if outDir != "" {
					if err := os.MkdirAll(outDir, 0755); err != nil {
						return fmt.Errorf("create output directory: %w", err)
					}
					jsonPath = filepath.Join(outDir, filepath.Base(base)+".notes.json")
				}
				if err := writeNotesJSON(jsonPath, ns); err != nil {
					return err
				}
				log.Info(ctx, "Notes written: %s (%d entries)", jsonPath, len(ns))
				return nil
			}

			w, err := watcher.New(watchDir, handler, log, cfg.LLM.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				if err := w.Start(ctx); !watchStopped(err) {
					errChan <- err
				}
			}()

			log.Info(ctx, "Watching %s for subtitle files. Press Ctrl+C to stop", watchDir)

			select {
			case <-sigChan:
				log.Info(ctx, "Shutdown signal received")
			case err := <-errChan:
				return err
			}

			cancel()
			return nil
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Directory to watch for subtitle+video pairs")

	return cmd
}

// watchStopped reports whether the watcher exited for shutdown rather than
// failure. Cancellation may arrive wrapped from the watcher's error paths.
func watchStopped(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}
