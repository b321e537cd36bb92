package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"videonote/internal/logger"
	"videonote/internal/server"
)

func newServeCommand(configFlag *string) *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP request layer for the desktop shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Logging.Level)
			ctx := cmd.Context()

			addr := firstNonEmpty(addrFlag, cfg.Server.Addr)

			pipe, probe := buildPipeline(cfg, log)
			srv := &http.Server{
				Addr:    addr,
				Handler: server.New(pipe, probe, log).Handler(),
			}

			errChan := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			log.Info(ctx, "Listening on %s", addr)

			select {
			case <-sigChan:
				log.Info(ctx, "Shutdown signal received")
			case err := <-errChan:
				return err
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (host:port)")

	return cmd
}
