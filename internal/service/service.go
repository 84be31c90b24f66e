package service

import (
	"log/slog"

	"microblog/internal/config"
	"microblog/internal/repository"
	"microblog/internal/storage"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Group   GroupService
	Post    PostService
	Comment CommentService
	Follow  FollowService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(rep.User, cfg),
		User:    NewUserService(rep.User),
		Group:   NewGroupService(rep.Group),
		Post:    NewPostService(rep, storage, logger),
		Comment: NewCommentService(rep.Post, rep.Comment),
		Follow:  NewFollowService(rep.User, rep.Follow),
	}
}
