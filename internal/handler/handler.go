package handlers

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/service"
)

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	AuthService    service.AuthService
	UserService    service.UserService
	GroupService   service.GroupService
	PostService    service.PostService
	CommentService service.CommentService
	FollowService  service.FollowService
	PageCache      *cache.PageCache
	Health         HealthChecker
	Renderer       Renderer
	Cfg            *config.Config
	Validate       *validator.Validate
	Logger         *slog.Logger
}

func NewHandlers(svc *service.Service, pageCache *cache.PageCache, health HealthChecker, cfg *config.Config, logger *slog.Logger) (*Handlers, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		AuthService:    svc.Auth,
		UserService:    svc.User,
		GroupService:   svc.Group,
		PostService:    svc.Post,
		CommentService: svc.Comment,
		FollowService:  svc.Follow,
		PageCache:      pageCache,
		Health:         health,
		Renderer:       renderer,
		Cfg:            cfg,
		Validate:       NewValidator(),
		Logger:         logger,
	}, nil
}
