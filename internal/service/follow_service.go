package service

import (
	"context"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// FollowService manages follower -> author edges. Both directions are
// idempotent: repeating a follow or an unfollow leaves the edge set unchanged.
type FollowService interface {
	Follow(ctx context.Context, userID int64, username string) (*models.User, error)
	Unfollow(ctx context.Context, userID int64, username string) (*models.User, error)
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
}

type followService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) FollowService {
	return &followService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// Follow returns the author together with ErrSelfFollow when userID is the author.
func (s *followService) Follow(ctx context.Context, userID int64, username string) (*models.User, error) {
	author, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if author.ID == userID {
		return author, ErrSelfFollow
	}

	if _, err := s.followRepo.GetOrCreate(ctx, userID, author.ID); err != nil {
		return nil, err
	}

	return author, nil
}

func (s *followService) Unfollow(ctx context.Context, userID int64, username string) (*models.User, error) {
	author, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if _, err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return nil, err
	}

	return author, nil
}

// IsFollowing is false for a user looking at their own profile.
func (s *followService) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}
