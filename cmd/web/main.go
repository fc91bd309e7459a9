package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/monaltech/saleor/internal/config"
	apphttp "github.com/monaltech/saleor/internal/http"
	"github.com/monaltech/saleor/internal/modules/payments"
	"github.com/monaltech/saleor/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	gatewayCfg := cfg.Cybersource()
	store := payments.NewRepo(db)

	gateway, err := payments.NewGateway(gatewayCfg, store)
	if err != nil {
		log.Fatalf("failed to configure payment gateway: %v", err)
	}
	gateway.SetLogger(logger)

	reconciler := payments.NewReconciler(gatewayCfg, store)
	reconciler.SetLogger(logger)

	var archive storage.Storage
	if cfg.Archive.Enabled {
		res, err := storage.FromEnv(context.Background())
		if err != nil {
			log.Fatalf("failed to configure webhook archive: %v", err)
		}
		logger.Info("webhook archive enabled", "driver", res.Driver)
		archive = res.Storage
	}

	r := apphttp.NewRouter(apphttp.RouterDeps{
		Logger:   logger,
		Config:   gatewayCfg,
		Payments: gateway,
		Webhooks: reconciler,
		Archive:  archive,
	})

	logger.Info("listening", "addr", cfg.Addr, "env", cfg.Env, "live", gatewayCfg.IsLive)
	_ = r.Run(cfg.Addr)
}
