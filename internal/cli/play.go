package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/velvetkeys/cadence/internal/config"
	"github.com/velvetkeys/cadence/internal/gameplay"
	"github.com/velvetkeys/cadence/internal/loop"
	"github.com/velvetkeys/cadence/internal/mods"
)

func newPlayCmd() *cobra.Command {
	var (
		configPath string
		duration   time.Duration
		fps        int
		rate       float64
		leadIn     float64
		startTime  float64
		modNames   []string
		paused     bool
		restartAt  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a demo playback session against a stopwatch source",
		Long: `Builds the full clock chain over a free-running stopwatch source and
drives it with a fixed-frequency frame loop, printing the gameplay
clock's state as it advances. Useful for watching how offsets, rate
changes, mods and restarts move through the chain.`,
		Example: `  cadence play --duration 10s
  cadence play --rate 1.5 --mods doubletime --lead-in 2000
  cadence play --restart-at 3s --duration 8s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if rate != 0 {
				cfg.Playback.Rate = rate
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

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			if !paused {
				container.Start()
			}

			_ = container.GameplayClock()
			start := time.Now()
			restarted := false
			frames := 0

			l := loop.New(fps)
			l.OnFrame(func() {
				frames++
				if restartAt > 0 && !restarted && time.Since(start) >= restartAt {
					restarted = true
					fmt.Println("--- restarting source ---")
					container.Restart()
				}
				// Print roughly four times a second.
				if frames%(max(fps, 4)/4) == 0 {
					snap := container.Snapshot()
					fmt.Printf("t=%10.1fms  raw=%10.1fms  rate=%.2fx  %s\n",
						snap.CurrentTime, snap.RawTime, snap.Rate, snap.State)
				}
			})
			return l.Run(ctx, container.ProcessFrame)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to JSON config file")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "how long to run (0 = until interrupted)")
	cmd.Flags().IntVar(&fps, "fps", 60, "frame loop frequency")
	cmd.Flags().Float64Var(&rate, "rate", 0, "user playback rate (0 = config default)")
	cmd.Flags().Float64Var(&leadIn, "lead-in", 1000, "audio lead-in in milliseconds")
	cmd.Flags().Float64Var(&startTime, "start-time", 0, "gameplay start time in milliseconds")
	cmd.Flags().StringSliceVar(&modNames, "mods", nil, "active mods (doubletime, halftime, nightcore, daycore)")
	cmd.Flags().BoolVar(&paused, "paused", false, "load paused instead of starting playback")
	cmd.Flags().DurationVar(&restartAt, "restart-at", 0, "issue a source restart after this long (0 = never)")

	return cmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}
