package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drivelot/inventory-api/config"
	"github.com/drivelot/inventory-api/internal/adapters/objectstore"
)

// ConnectObjectStore connects the upload bucket and verifies it exists.
func ConnectObjectStore(cfg config.ObjectStoreConfig, logger *slog.Logger) (*objectstore.MinioStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := objectstore.New(ctx, objectstore.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	if logger != nil {
		logger.Info("object store connected", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	}

	return store, nil
}
