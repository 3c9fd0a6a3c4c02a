package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gosuda.org/portal/sdk"
)

var rootCmd = &cobra.Command{
	Use:   "youtube-grid",
	Short: "Portal demo: nine YouTube videos in one grid, one of them audible",
	RunE:  runYouTubeGrid,
}

func init() {
	registerFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute youtube-grid command")
	}
}

func runYouTubeGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := stripPeer(NewHTTPServer(cfg).Router())

	// Relay listeners (multi-relay)
	rl, err := openRelays(cfg.ServerURLs, portalRelay(sdk.NewCredential(), cfg.Name))
	if err != nil {
		return err
	}
	if len(rl.listeners) > 0 {
		log.Info().Int("relays", len(rl.listeners)).Msg("[ytgrid] relay listeners enabled")
	}

	for i, ln := range rl.listeners {
		idx := i
		go func() {
			if err := http.Serve(ln, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
				log.Error().Err(err).Int("listener", idx).Msg("[ytgrid] relay http error")
			}
		}()
	}

	// Optional local HTTP
	var httpSrv *http.Server
	if cfg.Port >= 0 {
		httpSrv = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: handler, ReadHeaderTimeout: 5 * time.Second, IdleTimeout: 60 * time.Second}
		log.Info().Msgf("[ytgrid] serving locally at http://127.0.0.1:%d", cfg.Port)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn().Err(err).Msg("[ytgrid] local http stopped")
				stop()
			}
		}()
	}

	<-ctx.Done()
	if err := rl.Close(); err != nil {
		log.Warn().Err(err).Msg("[ytgrid] close relays")
	}
	if httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("[ytgrid] http server shutdown error")
		}
	}
	log.Info().Msg("[ytgrid] shutdown complete")
	return nil
}
