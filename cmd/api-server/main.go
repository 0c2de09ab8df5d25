package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/medibook/hospital-booking/internal/api"
	"github.com/medibook/hospital-booking/internal/config"
	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/internal/notify"
	redisclient "github.com/medibook/hospital-booking/internal/redis"
	"github.com/medibook/hospital-booking/pkg/logging"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("api-server starting up", "env", cfg.Env, "http_port", cfg.HTTPPort, "backend", cfg.StoreBackend)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The in-memory dataset always exists: it is either the active backing
	// store or the read fallback behind the remote one.
	memory := hospital.NewMemoryRepository(hospital.DefaultDataset())

	var repo hospital.Repository = memory

	needAWS := cfg.StoreBackend == config.BackendDynamo || cfg.SESFromEmail != ""
	var emailSender notify.EmailSender

	if needAWS {
		awsCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		awsCfg, err := awsconfig.LoadDefaultConfig(awsCtx, awsconfig.WithRegion(cfg.AWSRegion))
		cancel()
		if err != nil {
			log.Fatalf("aws config error: %v", err)
		}

		if cfg.StoreBackend == config.BackendDynamo {
			remote := hospital.NewDynamoRepository(
				dynamodb.NewFromConfig(awsCfg),
				hospital.DefaultTables(cfg.DynamoTablePrefix),
				hospital.DefaultDataset(),
				logger,
			)
			repo = hospital.NewFallbackRepository(remote, memory, logger)
			logger.Info("using remote document store with in-memory fallback", "table_prefix", cfg.DynamoTablePrefix)
		}

		if cfg.SESFromEmail != "" {
			emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SESFromName,
			}, logger)
		}
	}

	locker := redisclient.NewNoopLocker()
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("error closing redis", "error", err)
			}
		}()
		locker = redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
		logger.Info("booking lock enabled", "lock_ttl", cfg.LockTTL.String())
	} else {
		logger.Warn("redis not configured, bookings rely on the commit-time re-check only")
	}

	var smsSender notify.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		smsSender = notify.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, logger)
	}

	notifier := notify.NewService(emailSender, smsSender, logger)
	svc := hospital.NewService(repo, locker, logger)

	router := api.NewRouter(api.RouterConfig{
		Service:  svc,
		Notifier: notifier,
		Redis:    rdb,
		Backend:  cfg.StoreBackend,
		Env:      cfg.Env,
		Version:  version,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
