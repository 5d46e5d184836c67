// Package main provides the particle-field binary entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/olivierh59500/particle-field/internal/config"
	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/game"
	"github.com/olivierh59500/particle-field/internal/haze"
	"github.com/olivierh59500/particle-field/internal/scene"
	"github.com/olivierh59500/particle-field/internal/terminal"
)

const (
	Version = "0.1.0"
	appName = "particle-field"
)

type options struct {
	configPath string
	watch      bool
	terminal   bool
	seed       int64
	logLevel   string
	logFile    string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Drifting particle field",
		Long: `Draws a field of drifting particles that bounce off the window edges
and link up with fading lines when they come close to each other.

Keys: Space pause, M magic colours, H toggle haze (window only), Esc/Q quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload visual settings when the config file changes")
	cmd.Flags().BoolVarP(&opts.terminal, "terminal", "t", false, "Render in the terminal instead of a window")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Particle seed (0 = config or time based)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to a file instead of stderr")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default config to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultConfig().SaveToFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func run(ctx context.Context, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logOut := io.Writer(os.Stderr)
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	} else if opts.terminal {
		// Anything written to stderr would tear up the terminal display.
		logOut = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: parseLogLevel(opts.logLevel)}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	seed := cfg.Field.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting particle field",
		slog.Int("particles", cfg.Field.Count),
		slog.Int64("seed", seed),
		slog.Bool("terminal", opts.terminal))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var updates <-chan config.Update
	if opts.watch {
		if opts.configPath == "" {
			return fmt.Errorf("--watch requires --config")
		}
		w, err := config.NewWatcher(opts.configPath, config.DefaultDebounce, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
		updates = w.Updates()
	}

	f := field.New(rand.New(rand.NewSource(seed)), cfg.FieldOptions())

	if opts.terminal {
		return runTerminal(ctx, f, cfg, updates, logger)
	}
	return runWindow(ctx, f, cfg, updates, seed, logger)
}

func runWindow(ctx context.Context, f *field.Field, cfg *config.Config, updates <-chan config.Update, seed int64, logger *slog.Logger) error {
	f.Initialize(float64(cfg.Window.Width), float64(cfg.Window.Height))
	sc := scene.New(f, cfg, updates, logger)
	g := game.New(sc, haze.New(seed, cfg.HazeOptions()), logger)

	// The window loop has no context; stop the game when ctx ends.
	go func() {
		<-ctx.Done()
		g.Stop()
	}()

	if err := game.Run(g); err != nil {
		return fmt.Errorf("window loop failed: %w", err)
	}
	logger.Info("Window closed")
	return nil
}

func runTerminal(ctx context.Context, f *field.Field, cfg *config.Config, updates <-chan config.Update, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	cols, rows := screen.Size()
	f.Initialize(float64(cols)*cfg.Terminal.CellWidth, float64(rows)*cfg.Terminal.CellHeight)

	sc := scene.New(f, cfg, updates, logger)
	return terminal.NewRunner(screen, sc, logger).Run(ctx)
}

// loadConfig reads the config file on top of the defaults and validates it
func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
