package di

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fib_dashboard/internal/app/config"
	"fib_dashboard/internal/platform/db"
	infraredis "fib_dashboard/internal/platform/redis"
)

// NewRedis はRedisへ接続します。未設定・接続失敗の場合は nil を返し、キャッシュなしで動作させます。
// 戻り値の close は常に呼び出して構いません。
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, func()) {
	if !cfg.Redis.Enabled() {
		log.Println("[INFO] Redis is not configured. Running without cache.")
		return nil, func() {}
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		return nil, func() {}
	}
	return rdb, func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}
}

// NewArchive はアーカイブDBを開いてマイグレーションします。
// archive.enabled が false なら nil を返します。
func NewArchive(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	gdb, err := db.OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}
