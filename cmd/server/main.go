// Command server runs the squad portal HTTP API.
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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"squad-portal/backend/internal/audit"
	auditrepo "squad-portal/backend/internal/audit/repository"
	authhandler "squad-portal/backend/internal/auth/handler"
	authservice "squad-portal/backend/internal/auth/service"
	"squad-portal/backend/internal/config"
	"squad-portal/backend/internal/db"
	eventhandler "squad-portal/backend/internal/event/handler"
	eventrepo "squad-portal/backend/internal/event/repository"
	eventservice "squad-portal/backend/internal/event/service"
	healthhandler "squad-portal/backend/internal/health/handler"
	memberhandler "squad-portal/backend/internal/member/handler"
	memberrepo "squad-portal/backend/internal/member/repository"
	memberservice "squad-portal/backend/internal/member/service"
	"squad-portal/backend/internal/notification"
	"squad-portal/backend/internal/notification/producer"
	penaltyhandler "squad-portal/backend/internal/penalty/handler"
	penaltyrepo "squad-portal/backend/internal/penalty/repository"
	penaltyservice "squad-portal/backend/internal/penalty/service"
	"squad-portal/backend/internal/policy/engine"
	policyrepo "squad-portal/backend/internal/policy/repository"
	"squad-portal/backend/internal/security"
	"squad-portal/backend/internal/server"
	"squad-portal/backend/internal/server/middleware"
	otelsetup "squad-portal/backend/internal/telemetry/otel"
	traininghandler "squad-portal/backend/internal/training/handler"
	trainingrepo "squad-portal/backend/internal/training/repository"
	trainingservice "squad-portal/backend/internal/training/service"
)

const serviceName = "squad-portal"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry, err := otelsetup.NewProvider(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	telemetry.SetGlobal()
	tracer := telemetry.TracerProvider.Tracer("squad-portal/backend")

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("JWT_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("JWT_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	members := memberrepo.NewPostgresRepository(database)
	events := eventrepo.NewPostgresRepository(database)
	trainings := trainingrepo.NewPostgresRepository(database)
	penalties := penaltyrepo.NewPostgresRepository(database)
	audits := auditrepo.NewPostgresRepository(database)
	policies := policyrepo.NewPostgresRepository(database)

	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.KafkaTopic)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}
	var emitter notification.Emitter
	if kafkaProducer != nil {
		emitter = kafkaProducer
		defer kafkaProducer.Close()
	}

	auditor := audit.NewLogger(audits, middleware.ClientIP)
	evaluator := engine.NewOPAEvaluator(policies)

	authSvc := authservice.NewAuthService(members, hasher, tokens)
	memberSvc := memberservice.NewService(members, auditor)
	eventSvc := eventservice.NewService(events, members, penalties, evaluator, emitter, auditor)
	trainingSvc := trainingservice.NewService(trainings, members, emitter, auditor)
	penaltySvc := penaltyservice.NewService(penalties, members, emitter, auditor)

	router := server.NewRouter(logger, tracer, tokens, server.Handlers{
		Auth:     authhandler.New(authSvc),
		Member:   memberhandler.New(memberSvc),
		Event:    eventhandler.New(eventSvc),
		Training: traininghandler.New(trainingSvc),
		Penalty:  penaltyhandler.New(penaltySvc),
		Health:   healthhandler.New(database, evaluator),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	// Give in-flight async notification emits time to reach the broker.
	time.Sleep(notification.ShutdownDrainDuration)
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("telemetry shutdown")
	}
}
