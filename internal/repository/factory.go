package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/habit-alert-api/pkg/cache"
	"github.com/noah-isme/habit-alert-api/pkg/config"
	"github.com/noah-isme/habit-alert-api/pkg/database"
)

// NewStore builds the blob store selected by configuration.
func NewStore(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFile, "":
		return NewFileStore(cfg.Store.DataDir)
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis store: %w", err)
		}
		return NewRedisStore(client), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres store: %w", err)
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
