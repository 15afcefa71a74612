package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/velvetkeys/cadence/internal/config"
	"github.com/velvetkeys/cadence/internal/gameplay"
	"github.com/velvetkeys/cadence/internal/loop"
	"github.com/velvetkeys/cadence/internal/mods"
	"github.com/velvetkeys/cadence/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		fps        int
		leadIn     float64
		startTime  float64
		modNames   []string
		paused     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a playback session with the live dashboard",
		Long: `Runs the clock chain like play does, and serves a dashboard that
streams per-frame snapshots over WebSocket. Control endpoints let you
pause, seek, restart and change rate; every mutation is marshaled onto
the frame loop before it touches the chain.

Endpoints:
  GET  /health             Health check
  GET  /api/state          Frame-consistent snapshot of the chain
  POST /api/pause          Pause playback
  POST /api/resume         Resume playback
  POST /api/seek?to=ms     Seek to a gameplay time
  POST /api/restart        Reset and reattach the source clock
  POST /api/rate?value=x   Set the user playback rate
  GET  /dashboard/         Live visual dashboard
  WS   /ws                 Per-frame snapshot stream`,
		Example: `  cadence serve
  cadence serve --addr :9090 --mods doubletime
  cadence serve --lead-in 2000 --paused`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("lead-in") {
				cfg.Audio.LeadIn = leadIn
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			activeMods, err := mods.ParseAll(modNames)
			if err != nil {
				return err
			}

			settings := config.NewSettings(cfg)
			container := gameplay.NewContainer(nil, gameplay.Options{
				GameplayStartTime: startTime,
				AudioLeadIn:       cfg.Audio.LeadIn,
				Mods:              activeMods,
				Settings:          settings,
			})
			container.UserPlaybackRate.Set(cfg.Playback.Rate)

			srv := server.New(cfg.Server.Addr, container, server.NewHub())

			log.Printf("Dashboard: http://localhost%s/dashboard/", cfg.Server.Addr)
			log.Printf("State:     http://localhost%s/api/state", cfg.Server.Addr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !paused {
				container.Start()
			}

			// The frame loop owns the chain; the server only posts to it.
			loopDone := make(chan struct{})
			l := loop.New(fps)
			l.OnFrame(srv.PublishFrame)
			go func() {
				defer close(loopDone)
				l.Run(ctx, container.ProcessFrame)
			}()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Println("shutting down...")
				<-loopDone
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to JSON config file")
	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides config)")
	cmd.Flags().IntVar(&fps, "fps", 60, "frame loop frequency")
	cmd.Flags().Float64Var(&leadIn, "lead-in", 1000, "audio lead-in in milliseconds")
	cmd.Flags().Float64Var(&startTime, "start-time", 0, "gameplay start time in milliseconds")
	cmd.Flags().StringSliceVar(&modNames, "mods", nil, "active mods (doubletime, halftime, nightcore, daycore)")
	cmd.Flags().BoolVar(&paused, "paused", false, "load paused instead of starting playback")

	return cmd
}
