package service

import (
	"context"

	"chronicle/internal/observability"
	"chronicle/internal/repository"
)

// FollowService provides follow-edge business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes the user to the named author. Following yourself and
// following someone twice are both silent no-ops.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return nil
	}
	if err := s.followRepo.Create(ctx, userID, author.ID); err != nil {
		return err
	}
	observability.FollowEdgesChanged.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the user's subscription to the named author. A missing
// edge is reported as not found.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return err
	}
	observability.FollowEdgesChanged.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether the user follows the author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

// FollowerCount returns how many users follow the author.
func (s *FollowService) FollowerCount(ctx context.Context, authorID uint) (int64, error) {
	return s.followRepo.CountFollowers(ctx, authorID)
}
