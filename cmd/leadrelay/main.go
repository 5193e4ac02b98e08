package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/m3rciful/leadrelay/bot"
	"github.com/m3rciful/leadrelay/core/bootstrap"
	"github.com/m3rciful/leadrelay/core/buildinfo"
	coreconfig "github.com/m3rciful/leadrelay/core/config"
	coredatabase "github.com/m3rciful/leadrelay/core/database"
	"github.com/m3rciful/leadrelay/core/logger"
	coretelegram "github.com/m3rciful/leadrelay/core/telegram"
	"github.com/m3rciful/leadrelay/submission"
	"log/slog"
)

const (
	configEnvVar      = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("leadrelay: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "leadrelay",
		Short: "Relay form-submission webhooks to a Telegram chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelay(configPath)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config (overrides "+configEnvVar+")")

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := logger.InitLogger(cfg); err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			defer func() { _ = logger.Shutdown() }()
			return coredatabase.RunMigrations(cfg.Database)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("leadrelay %s (%s %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	})

	return root
}

func loadConfig(flagPath string) (*coreconfig.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	path := flagPath
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		path = defaultConfigPath
	}
	log.Printf("loading config: %s", path)
	return coreconfig.Load(path)
}

func runRelay(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg,
		Database: cfg.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer func() { _ = result.DB.Close() }()

	store := submission.NewStore(result.DB, cfg.Database.Driver)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	app := bot.NewApp(cfg, store)
	reg := app.BuildRegistry()

	startedAt := time.Now()
	runOpts := coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      app.Routes(reg),
		OnError:     app.OnError,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			if err := app.OnStart(ctx, rt); err != nil {
				return err
			}
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	}

	return coretelegram.RunTelegram(ctx, runOpts)
}
