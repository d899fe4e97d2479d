package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/i474232898/weather-sms/internal/api/http"
	"github.com/i474232898/weather-sms/internal/bot"
	"github.com/i474232898/weather-sms/internal/config"
	"github.com/i474232898/weather-sms/internal/query"
	"github.com/i474232898/weather-sms/internal/scheduler"
	"github.com/i474232898/weather-sms/internal/store"
	"github.com/i474232898/weather-sms/internal/weather"
	"github.com/i474232898/weather-sms/internal/weather/providers"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "weather-sms",
	Short: "Answer text messages with a condensed weather forecast",
	Long: `weather-sms replies to messages like "Denver" or "39.7, -104.9, 6am-12pm"
with a multi-day forecast grouped into runs of matching conditions.

Run without a subcommand to start the webhook server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SMS webhook and JSON API",
	RunE:  runServe,
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a single message and print the reply",
	Example: `  weather-sms ask "Denver"
  weather-sms ask "39.3, -106.1, 10pm-2am"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything both subcommands need.
type app struct {
	cfg     *config.AppConfig
	logger  *zap.Logger
	service *weather.Service
	probes  *store.MemoryStore
	handler *bot.Handler
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provs, err := providers.Build(cfg.Providers, httpClient, providers.Credentials{
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
		GeocoderAPIKey:    cfg.GeocoderAPIKey,
	})
	if err != nil {
		return nil, err
	}

	probes := store.NewMemoryStore(cfg.ProbeMaxHistory, cfg.ProbeMaxAge)
	service := weather.NewService(provs,
		weather.WithFetchTimeout(cfg.FetchTimeout),
		weather.WithProbeStore(probes),
		weather.WithLogger(log.Named("weather")),
	)

	return &app{
		cfg:     cfg,
		logger:  log,
		service: service,
		probes:  probes,
		handler: bot.NewHandler(service, cfg.Location, log.Named("bot")),
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	fmt.Fprintln(cmd.OutOrStdout(), a.handler.Handle(cmd.Context(), args[0]))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()
	log := a.logger

	probeLocs := probeLocations(a.cfg.ProbeLocations, log)
	sched := scheduler.New(probeLocs, a.cfg.ProbeInterval, a.cfg.FetchTimeout, a.service, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// Basic app configuration
	server := fiber.New(fiber.Config{
		AppName:               "weather-sms",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          a.cfg.FetchTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	server.Use(logger.New())
	server.Use(recover.New())

	httpapi.RegisterRoutes(server, httpapi.Deps{
		Replier:        a.handler,
		Probes:         a.service,
		ProbeLocations: probeLocs,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", a.cfg.Port), zap.Strings("providers", a.cfg.Providers))
		listenErr <- server.Listen(":" + a.cfg.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen on port %s: %w", a.cfg.Port, err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	return nil
}

// probeLocations parses configured probe messages with the same rules as
// inbound texts, skipping the ones that do not name a location.
func probeLocations(raw []string, log *zap.Logger) []weather.Location {
	var locs []weather.Location
	for _, r := range raw {
		q, err := query.Parse(r)
		if err != nil && !errors.Is(err, query.ErrMalformedWindow) {
			log.Warn("skipping probe location", zap.String("value", r), zap.Error(err))
			continue
		}
		locs = append(locs, q.Location)
	}
	return locs
}
