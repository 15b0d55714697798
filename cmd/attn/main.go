package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"attn/internal/bootstrap"
	"attn/internal/platform/config"
	"attn/internal/platform/logging"
)

func main() {
	// A missing .env is fine; env vars still override config.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "attn",
		Short:         "Single-user focus session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newSessionCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	return root
}

func loadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the session API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if _, err := logging.New(cfg.LogPath); err != nil {
				return err
			}
			return bootstrap.RunServer(cmd.Context(), cfg)
		},
	}
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the focus terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(cfg)
		},
	}
}

func withApp(configPath *string, fn func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		app, err := bootstrap.New(cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd.Context(), app, cmd, args)
	}
}

func newSessionCmd(configPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Manage focus sessions"}

	session.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		RunE: withApp(configPath, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, _ []string) error {
			out, err := app.SessionCLI.Start(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s at %s\n", out.ID, out.StartedAt.Format(time.RFC3339))
			return nil
		}),
	})

	session.AddCommand(&cobra.Command{
		Use:   "distract",
		Short: "Record a distraction on the active session",
		RunE: withApp(configPath, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, _ []string) error {
			out, err := app.SessionCLI.Distract(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "distraction recorded on %s\n", out.SessionID)
			return nil
		}),
	})

	session.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the active session",
		RunE: withApp(configPath, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, _ []string) error {
			out, err := app.SessionCLI.End(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"ended %s: %.0fs, %d distractions, longest streak %.0fs\n",
				out.ID, out.Summary.DurationSeconds, out.Summary.DistractionCount, out.Summary.LongestStreakSeconds)
			return nil
		}),
	})

	session.AddCommand(&cobra.Command{
		Use:   "summary <session-id>",
		Short: "Show a session's summary",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(configPath, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, args []string) error {
			sum, err := app.SessionCLI.Summary(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"duration %.0fs, %d distractions, longest streak %.0fs, average streak %.0fs\n",
				sum.DurationSeconds, sum.DistractionCount, sum.LongestStreakSeconds, sum.AverageStreakSeconds)
			return nil
		}),
	})

	return session
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show today's stats and the 7-day trend",
		RunE: withApp(configPath, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, _ []string) error {
			stats, err := app.StatsCLI.Overview(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "today: %d sessions, %.1f distractions/hour, longest streak %.0fs\n",
				stats.TodaySessions, stats.TodayDistractionsPerHour, stats.TodayLongestStreakSeconds)
			for _, day := range stats.Last7Days {
				_, _ = fmt.Fprintf(w, "%s  %2d sessions  %3d distractions  %6.0fs\n",
					day.Date, day.SessionCount, day.TotalDistractions, day.LongestStreakSeconds)
			}
			return nil
		}),
	}
}
