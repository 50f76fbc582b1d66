package main

import (
	"context"
	"log/slog"
	"os"

	"assetflow/auth"
	"assetflow/config"
	"assetflow/db"
	"assetflow/httpapi"
	"assetflow/mail"
	"assetflow/record"
	"assetflow/upload"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.New()

	if err := db.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("bootstrap database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := record.NewPGStore(pool)
	if cfg.SeedDemoData {
		if err := record.Seed(ctx, store, logger); err != nil {
			logger.Error("seed demo data", "error", err)
			os.Exit(1)
		}
	}

	uploads, err := newUploadStore(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap upload store", "error", err)
		os.Exit(1)
	}

	sender := mail.NewSMTPSender(cfg.SMTP, logger)
	authSvc := auth.NewService(store, sender, cfg.Auth.TokenSecret, logger)

	router := httpapi.NewRouter(&httpapi.API{
		Auth:    authSvc,
		Store:   store,
		Uploads: uploads,
		Logger:  logger,
	})

	logger.Info("asset management api listening", "addr", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}

func newUploadStore(ctx context.Context, cfg *config.Config) (upload.Store, error) {
	if cfg.Upload.Driver == "s3" {
		return upload.NewS3(ctx, upload.S3Config{
			Bucket:    cfg.Upload.S3Bucket,
			Region:    cfg.Upload.S3Region,
			Endpoint:  cfg.Upload.S3Endpoint,
			PathStyle: cfg.Upload.S3PathStyle,
			Prefix:    cfg.Upload.S3Prefix,
		})
	}
	return upload.NewFilesystem(cfg.Upload.Dir)
}
