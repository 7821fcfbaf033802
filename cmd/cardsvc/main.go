package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/card-registry/configs"
	"github.com/avvvet/card-registry/internal/cardsvc/bot"
	"github.com/avvvet/card-registry/internal/cardsvc/broker"
	svcconfig "github.com/avvvet/card-registry/internal/cardsvc/config"
	"github.com/avvvet/card-registry/internal/cardsvc/handlers"
	"github.com/avvvet/card-registry/internal/cardsvc/metrics"
	"github.com/avvvet/card-registry/internal/cardsvc/service"
	"github.com/avvvet/card-registry/internal/cardsvc/store"
	natscli "github.com/avvvet/card-registry/internal/nats"
	"github.com/avvvet/card-registry/internal/supervisor"
)

const SERVICE_NAME = "card"

func main() {
	if err := run(); err != nil {
		log.Fatalf("%s service stopped: %v", SERVICE_NAME, err)
	}
	log.Infof("%s service stopped", SERVICE_NAME)
}

func run() error {
	if err := config.LoadEnv(SERVICE_NAME); err != nil {
		return fmt.Errorf("load .env file: %w", err)
	}

	cfg, err := svcconfig.Load()
	if err != nil {
		return err
	}

	if err := config.Logging(SERVICE_NAME+"_service", cfg.LogDir, cfg.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	if _, err := config.CreateUniqueInstance(SERVICE_NAME); err != nil {
		return fmt.Errorf("generate instance id: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage, shared by both front-ends
	cards, err := store.Open(ctx, cfg.DBFile, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer cards.Close()
	log.Infof("%s storage ready with %d connections", store.Backend(cfg.DBFile), cfg.DBMaxConns)

	m := metrics.New(prometheus.DefaultRegisterer)

	// card events are only published when NATS is configured
	var notifier service.Notifier
	if cfg.NatsURL != "" {
		n, err := natscli.Connect(cfg.NatsURL, cfg.NatsToken)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer n.Conn.Close()
		log.Infof("NATS connection established successfully %s", n.Url)
		notifier = broker.NewBroker(n.Conn)
	}

	cardService := service.NewCardService(cards, m, notifier)

	// telegram front-end
	api, err := bot.Connect(cfg.BotToken, cfg.TelegramAPI)
	if err != nil {
		return err
	}
	b := bot.NewBot(api, cardService, api.Self.UserName)
	if err := b.RegisterCommands(); err != nil {
		return err
	}

	// http front-end
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h := handlers.NewHandler(cardService, cfg.APIPassword, m)
	h.SetRoutes(r)

	server := &http.Server{
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	log.Infof("%s service running at %s", SERVICE_NAME, ln.Addr())

	err = supervisor.Run(ctx,
		supervisor.Task{Name: "telegram bot", Run: b.Run},
		supervisor.Task{Name: "http server", Run: func(ctx context.Context) error {
			return serve(ctx, server, ln)
		}},
	)
	if ctx.Err() != nil {
		// interrupted
		return nil
	}
	return err
}

// serve runs server on ln until it fails or ctx is cancelled. Cancellation
// closes the server without draining open requests.
func serve(ctx context.Context, server *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		server.Close()
		return ctx.Err()
	}
}
