package service

import (
	"context"
	"strings"

	"microblog/internal/models"
	"microblog/internal/repository"
)

type CommentService interface {
	AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error)
}

type commentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewCommentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) CommentService {
	return &commentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}
