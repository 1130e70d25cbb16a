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

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/carcare-booking/internal/auth"
	"github.com/ukydev/carcare-booking/internal/catalog"
	"github.com/ukydev/carcare-booking/internal/config"
	"github.com/ukydev/carcare-booking/internal/db"
	"github.com/ukydev/carcare-booking/internal/events"
	"github.com/ukydev/carcare-booking/internal/handlers"
	"github.com/ukydev/carcare-booking/internal/mapping"
	"github.com/ukydev/carcare-booking/internal/middleware"
	"github.com/ukydev/carcare-booking/internal/orders"
	"github.com/ukydev/carcare-booking/internal/session"
)

const serviceName = "carcare-booking"

// app is the assembled service.
type app struct {
	handler     http.Handler
	store       *session.Store
	rateLimiter *middleware.RateLimitMiddleware
}

func newApp(cfg *config.Config, cat *catalog.Catalog, publisher events.Publisher) (*app, error) {
	authService, err := auth.NewService()
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	store := session.NewStore(cat, cfg.SessionTTL)
	processor := orders.NewProcessor(publisher, orderConfig(cfg))

	h := &handlers.Handlers{
		Sessions: handlers.NewSessionHandler(authService, store),
		Catalog:  handlers.NewCatalogHandler(cat),
		Booking:  handlers.NewBookingHandler(store, processor, submitTimeout(cfg)),
		Location: handlers.NewLocationHandler(store, mapping.NewResolver()),
	}
	mux := http.NewServeMux()
	h.Register(mux)

	authMiddleware := middleware.NewAuthMiddleware(authService, store)
	rateLimiter := middleware.NewRateLimitMiddleware()
	logger := log.StandardLogger()

	handler := middleware.Chain(mux,
		middleware.Recover(logger),
		middleware.OTel(serviceName),
		middleware.Logger(logger),
		rateLimiter.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
		authMiddleware.Authenticate,
	)
	return &app{handler: handler, store: store, rateLimiter: rateLimiter}, nil
}

func orderConfig(cfg *config.Config) orders.Config {
	oc := orders.DefaultConfig()
	oc.Delay = cfg.OrderProcessingDelay
	oc.AttemptTimeout = cfg.OrderAttemptTimeout
	oc.MaxAttempts = cfg.OrderMaxAttempts
	return oc
}

// submitTimeout bounds a whole checkout: processing delay plus every attempt
// and the longest backoff between them.
func submitTimeout(cfg *config.Config) time.Duration {
	oc := orderConfig(cfg)
	return oc.Delay + time.Duration(oc.MaxAttempts)*(oc.AttemptTimeout+oc.MaximumBackoff)
}

// loadCatalog picks the catalog source: MongoDB, a JSON file, or the built-in offerings.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, func(), error) {
	switch {
	case cfg.MongoURI != "":
		client, err := db.ConnectMongo(cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("Failed to disconnect from MongoDB")
			}
		}
		coll := &db.MongoCollection{Collection: client.Database(cfg.MongoDB).Collection(cfg.MongoCollection)}
		if cfg.CatalogReseed {
			if err := db.ReseedCatalog(ctx, coll, catalog.BuiltinOfferings()); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
		cat, err := db.LoadCatalog(ctx, coll, catalog.BuiltinOfferings())
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		log.WithFields(log.Fields{"source": "mongo", "offerings": cat.Len()}).Info("Service catalog loaded")
		return cat, closeFn, nil
	case cfg.CatalogPath != "":
		cat, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(log.Fields{"source": cfg.CatalogPath, "offerings": cat.Len()}).Info("Service catalog loaded")
		return cat, func() {}, nil
	default:
		cat := catalog.Default()
		log.WithFields(log.Fields{"source": "builtin", "offerings": cat.Len()}).Info("Service catalog loaded")
		return cat, func() {}, nil
	}
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.MQTTBroker == "" {
		log.Warn("MQTT_BROKER not set, orders will not be forwarded")
		return events.NoopPublisher{}, nil
	}
	return events.NewMQTTPublisher(events.MQTTConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		QoS:      1,
	})
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.WithError(err).Warn("Ignoring .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ConfigureLogging(log.StandardLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, closeCatalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	defer closeCatalog()

	publisher, err := newPublisher(cfg)
	if err != nil {
		return fmt.Errorf("connect publisher: %w", err)
	}
	defer publisher.Close()

	a, err := newApp(cfg, cat, publisher)
	if err != nil {
		return err
	}
	go a.store.RunSweeper(ctx, cfg.SessionSweepInterval)
	go a.rateLimiter.RunPruner(ctx, cfg.SessionSweepInterval, cfg.RateLimitWindow)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), submitTimeout(cfg))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("Booking service stopped")
	}
}
