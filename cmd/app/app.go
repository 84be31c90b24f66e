package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/logger"
	"microblog/internal/repository"
	"microblog/internal/service"
	"microblog/internal/storage"
)

// App holds every long-lived dependency of the process.
type App struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	DB        *database.DB
	Redis     *redis.Client
	PageCache *cache.PageCache
	Repo      *repository.Repository
	Services  *service.Service
}

// New connects to PostgreSQL, MinIO and Redis. Only the database is required:
// without MinIO posts are saved without images, without Redis nothing is cached.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Log)

	// connection DB
	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// connection MinIO
	var images storage.Storage
	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		log.Warn("MinIO недоступен, загрузка изображений отключена", slog.Any("error", err))
	} else {
		images = minioClient
	}

	// connection Redis
	redisClient := cache.NewClient(cfg.Redis.URL, log)
	pageCache := cache.NewPageCache(redisClient, cfg.Redis.PageCacheTTL, log)

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, images, log)

	return &App{
		Cfg:       cfg,
		Logger:    log,
		DB:        db,
		Redis:     redisClient,
		PageCache: pageCache,
		Repo:      repo,
		Services:  services,
	}, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("ошибка закрытия Redis", slog.Any("error", err))
		}
	}

	if err := a.DB.CloseDB(); err != nil {
		return fmt.Errorf("ошибка закрытия БД: %w", err)
	}
	return nil
}
