package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		server := api.NewServer(
			a.source, a.resolver, a.composer,
			a.ratingRepo, a.prefRepo, a.subRepo, a.userRepo,
			a.orchestrator, a.delivery, a.archiver,
			time.Duration(a.cfg.ReorderDelayMs)*time.Millisecond,
		)

		httpServer := &http.Server{
			Addr:              a.cfg.ListenAddr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", a.cfg.ListenAddr).Bool("demo", a.cfg.DemoMode).Msg("listening")
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen-addr", ":8080", "Address for the HTTP API")
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen-addr"))
	rootCmd.AddCommand(serveCmd)
}
