package service

import (
	"context"
	"time"

	"github.com/badgeworks/affiliates/internal/repository"
)

type StatsService interface {
	TotalForMonth(ctx context.Context, userID string, year int, month time.Month) (int64, error)
	TotalForUser(ctx context.Context, userID string) (int64, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) TotalForMonth(ctx context.Context, userID string, year int, month time.Month) (int64, error) {
	return s.statsRepo.TotalForMonth(ctx, userID, year, month)
}

func (s *statsService) TotalForUser(ctx context.Context, userID string) (int64, error) {
	return s.statsRepo.TotalForUser(ctx, userID)
}
