package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/arnavshah/seat-lottery-go/pkg/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Open picks the document store: redis when REDIS_ADDR is set, otherwise the SQL database
func Open(cfg config.Config, db *gorm.DB) (Store, error) {
	if cfg.RedisAddr == "" {
		return NewGormStore(db), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	log.Printf("storage: using redis at %s", cfg.RedisAddr)
	return NewRedisStore(client, cfg.StoreTimeout), nil
}
