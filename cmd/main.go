package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact_relay/internal/config"
	"contact_relay/internal/infrastructure"
	"contact_relay/internal/interfaces"
	"contact_relay/internal/interfaces/http"
	"contact_relay/internal/logging"
	"contact_relay/internal/metrics"
	"contact_relay/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", true)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, !cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("relay stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("relay stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewRelayMetrics(reg)

	bot, err := infrastructure.NewTelegramBot(cfg.TelegramBotToken)
	if err != nil {
		return err
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram bot connected")

	chat := infrastructure.NewTelegramClient(bot, infrastructure.NewSendLimiter(cfg.TelegramRate, cfg.TelegramBurst))
	backend := infrastructure.NewBackendClient(cfg.BackendURL, cfg.BackendSecret, cfg.BackendTimeout, m)

	notifier := usecases.NewContactNotifier(chat, cfg.TelegramChatID, cfg.AdminURL, m, logging.Component(log, "notifier"))
	dispatcher := usecases.NewCallbackDispatcher(chat, notifier, backend, cfg.AdminURL, cfg.Location, m, logging.Component(log, "callbacks"))
	poller := usecases.NewReminderPoller(backend, notifier, cfg.ReminderInterval, m, logging.Component(log, "reminders"))
	listener := infrastructure.NewUpdateListener(bot, chat, dispatcher, logging.Component(log, "telegram"))

	r := newRouter(cfg, notifier, reg, log)

	srv := &nethttp.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return listener.Run(gctx)
	})

	g.Go(func() error {
		handle := poller.Start(gctx)
		<-gctx.Done()
		handle.Stop()
		return nil
	})

	log.Info().
		Str("chat", cfg.TelegramChatID).
		Dur("reminder_interval", cfg.ReminderInterval).
		Msg("relay started")

	return g.Wait()
}

// newRouter builds the gin engine serving the inbound API and /metrics.
func newRouter(cfg *config.Config, notifier interfaces.Notifier, reg *prometheus.Registry, log zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	mw := http.NewMiddleware(cfg.NotifyJWT, cfg.HTTPRate, cfg.HTTPBurst)
	http.SetupRoutes(r, notifier, mw, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), logging.Component(log, "http"))
	return r
}
