// main wires the backing stores, the identity verifier, and the feature
// services, then runs the HTTP server until interrupted. Business logic lives
// in the internal service packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fraudguard/internal/attempt"
	"fraudguard/internal/cooldown"
	"fraudguard/internal/history"
	"fraudguard/internal/identity"
	"fraudguard/internal/login"
	"fraudguard/internal/platform/config"
	"fraudguard/internal/platform/httpserver"
	"fraudguard/internal/platform/logger"
	"fraudguard/internal/platform/metrics"
	platformpostgres "fraudguard/internal/platform/postgres"
	platformredis "fraudguard/internal/platform/redis"
	"fraudguard/internal/pricing"
	"fraudguard/internal/reporter"
	"fraudguard/internal/sms"
	httptransport "fraudguard/internal/transport/http"
	"fraudguard/pkg/platform/audit"
	auditkafka "fraudguard/pkg/platform/audit/kafka"
)

const (
	demoUsername = "user"
	demoPassword = "password"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Backing stores. Unconfigured backends fall back to in-memory
	// implementations so the demo runs with zero infrastructure.
	db, err := platformpostgres.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}

	var attemptStore attempt.Store
	var historyStore history.Store
	if db != nil {
		defer db.Close()
		pgAttempts := attempt.NewPostgres(db)
		pgHistory := history.NewPostgres(db)
		if err := pgAttempts.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := pgHistory.EnsureSchema(ctx); err != nil {
			return err
		}
		attemptStore = pgAttempts
		historyStore = pgHistory
		log.Info("using PostgreSQL stores")
	} else {
		attemptStore = attempt.NewInMemoryStore()
		historyStore = history.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	var lifetime cooldown.LifetimeCounter
	if redisClient != nil {
		defer redisClient.Close()
		lifetime = cooldown.NewRedisLifetimeCounter(redisClient.Client, string(attempt.ActionSMSSend))
		log.Info("using Redis lifetime counter")
	} else {
		lifetime = cooldown.NewInMemoryLifetimeCounter()
	}

	var publisher audit.Publisher = audit.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := auditkafka.New(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("publishing security events to Kafka", "brokers", cfg.KafkaBrokers)
	}

	// Identity verification. Without an API key, a synthetic identity backend
	// keeps the demo usable locally.
	var fetcher identity.Fetcher
	if cfg.VerifierAPIKey != "" {
		fetcher = identity.NewClient(cfg.VerifierBaseURL, cfg.VerifierAPIKey, cfg.VerifierTimeout)
	} else {
		origin := ""
		if len(cfg.AllowedOrigins) > 0 {
			origin = cfg.AllowedOrigins[0]
		}
		fetcher = identity.NewDemoFetcher(origin)
		log.Warn("no verifier API key configured, using synthetic identities")
	}
	verifier := identity.NewService(fetcher)

	rep, err := reporter.New(attemptStore, log, reporter.WithPublisher(publisher))
	if err != nil {
		return err
	}
	cooldowns, err := cooldown.New(attemptStore, cooldown.DefaultSchedule(), log)
	if err != nil {
		return err
	}
	m := metrics.New()

	users := login.NewInMemoryUserStore()
	if err := users.Seed(demoUsername, demoPassword); err != nil {
		return err
	}
	tokens := login.NewTokenIssuer(cfg.JWTSigningKey, "fraudguard")

	var sender sms.Sender
	twilioCfg := sms.TwilioConfig{
		APIKeySID:    cfg.TwilioAPIKeySID,
		APIKeySecret: cfg.TwilioAPIKeySecret,
		AccountSID:   cfg.TwilioAccountSID,
		FromNumber:   cfg.TwilioFromNumber,
	}
	if twilioSender, err := sms.NewTwilioSender(twilioCfg, log); err == nil {
		sender = twilioSender
		log.Info("using Twilio SMS sender")
	} else {
		sender = sms.NewSimulatedSender(log)
		log.Info("Twilio not configured, simulating SMS dispatch")
	}

	loginService := login.New(verifier, users, attemptStore, rep, tokens, cfg.AllowedOrigins,
		login.WithMetrics(m), login.WithLogger(log))
	smsService := sms.New(verifier, cooldowns, lifetime, sender, rep, cfg.AllowedOrigins, log,
		sms.WithMetrics(m), sms.WithDemoMode(cfg.DemoMode))
	pricingService := pricing.New(verifier, rep, cfg.AllowedOrigins, log, pricing.WithMetrics(m))
	historyService := history.New(verifier, historyStore, rep, log, history.WithMetrics(m))

	router := httptransport.NewRouter(
		login.NewHandler(loginService, log),
		sms.NewHandler(smsService, log),
		pricing.NewHandler(pricingService, log),
		history.NewHandler(historyService, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting fraudguard", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
