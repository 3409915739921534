package service

import (
	"context"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/repository"
)

const leaderboardSize = 25

type LeaderboardService interface {
	// TopUsers ranks by externally computed leaderboard position. Unranked
	// users (position -1) never appear, whatever their click totals.
	TopUsers(ctx context.Context, country string) ([]*model.FacebookUser, error)
}

type leaderboardService struct {
	userRepo repository.UserRepository
}

func NewLeaderboardService(userRepo repository.UserRepository) LeaderboardService {
	return &leaderboardService{userRepo: userRepo}
}

func (s *leaderboardService) TopUsers(ctx context.Context, country string) ([]*model.FacebookUser, error) {
	return s.userRepo.TopUsers(ctx, country, leaderboardSize)
}
