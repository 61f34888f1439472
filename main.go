package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"openears-backend/config"
	"openears-backend/internal/api"
	"openears-backend/internal/services"
	"openears-backend/internal/store"
	"openears-backend/internal/utils"
	"openears-backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	kv, err := openBackend(ctx, cfg)
	if err != nil {
		zlog.Fatal("failed to open store backend", zap.Error(err))
	}
	st := store.New(kv)
	defer st.Close()

	// Seeds the admin user and the empty ledger on first run.
	if err := st.Initialize(ctx); err != nil {
		zlog.Fatal("failed to initialize store", zap.Error(err))
	}

	clock := services.RealClock()
	users := services.NewUserService(st, clock, zlog)
	mailer := services.NewMailer(clock, cfg.EmailLatency(), zlog)
	session := services.NewSession(users, st, mailer, clock, cfg.AuthLatency(), zlog)
	donations := services.NewDonationFlow(session, mailer, clock, cfg.PaymentLatency())

	router := api.NewRouter(api.Deps{
		Log:       zlog,
		Users:     users,
		Session:   session,
		Mailer:    mailer,
		Donations: donations,
		Tokens:    utils.NewTokenManager(cfg.JWTSecret),
		Denylist:  services.NewDenylist(st, clock),
		Clock:     clock,
		Wizard: services.WizardConfig{
			ProcessingDelay: cfg.PaymentLatency(),
			ChatDelay:       cfg.ChatLatency(),
		},
	})

	zlog.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("store", cfg.StoreBackend))
	if err := router.Run(cfg.ListenAddr); err != nil {
		zlog.Fatal("failed to run server", zap.Error(err))
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(cfg.StorePath)
	case "sqlite":
		return store.OpenSQLite(cfg.StorePath)
	case "redis":
		return store.OpenRedis(ctx, cfg.RedisFullAddr(), cfg.RedisPassword)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
