// README: Entry point; loads config, wires services, starts HTTP server and the position simulator.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"washride/internal/ai"
	"washride/internal/config"
	"washride/internal/events"
	httptransport "washride/internal/http"
	"washride/internal/infra"
	"washride/internal/logging"
	"washride/internal/modules/booking"
	"washride/internal/modules/driver"
	"washride/internal/modules/location"
	"washride/internal/modules/payment"
	"washride/internal/modules/provider"
	"washride/internal/modules/sim"
	"washride/internal/routing"
	"washride/internal/ws"
)

func main() {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Error("postgres init", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer kafkaPub.Close()

	bookingStore := booking.NewPGStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, events.Fanout{kafkaPub, hub}, logger)

	driverSvc := driver.NewService(driver.NewPGStore(dbPool), bookingSvc, nil)
	providerSvc := provider.NewService(provider.NewPGStore(dbPool), logger)
	paymentSvc := payment.NewService(bookingSvc, payment.AcceptAllGateway{}, logger)

	locationSvc := location.NewService(
		location.NewRedisGeoStore(redisClient),
		location.NewPGSnapshotStore(dbPool),
		hub,
		logger,
	)

	var routes routing.Provider
	switch cfg.Routing.Provider {
	case "google":
		g, err := routing.NewGoogleClient(cfg.Routing.GoogleAPIKey)
		if err != nil {
			logger.Error("google maps init", "err", err)
			os.Exit(1)
		}
		routes = g
	default:
		routes = routing.NewOSRMClient(cfg.Routing.OSRMEndpoint)
	}
	routes = routing.NewCache(routes, cfg.Routing.CacheTTL)

	simulator := sim.New(
		driver.NewPGStore(dbPool),
		bookingSvc,
		providerSvc,
		routes,
		locationSvc,
		kafkaPub,
		cfg.Sim,
		logger,
	)
	go simulator.Run(ctx)

	var optimizer ai.LLMProvider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Error("gemini init", "err", err)
			os.Exit(1)
		}
		defer gemini.Close()
		optimizer = gemini
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Bookings:  bookingSvc,
		Drivers:   driverSvc,
		Providers: providerSvc,
		Payments:  paymentSvc,
		Location:  locationSvc,
		Optimizer: optimizer,
		Hub:       hub,
		Log:       logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "err", err)
		}
	}()

	logger.Info("washride api listening", "addr", cfg.HTTP.Addr, "routing", cfg.Routing.Provider)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server", "err", err)
		os.Exit(1)
	}
}
