package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = time.Minute
)

type DashboardService struct {
	DashboardRepo *repositories.DashboardRepository
	RDB           *redis.Client
}

// GetSummary serves the cached dashboard snapshot when fresh, otherwise
// recomputes and re-caches it. A cache failure degrades to a direct query.
func (s *DashboardService) GetSummary(ctx context.Context) (models.DashboardSummary, error) {
	if s.RDB != nil {
		if data, err := s.RDB.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var summary models.DashboardSummary
			if err := json.Unmarshal(data, &summary); err == nil {
				return summary, nil
			}
		}
	}

	summary, err := s.DashboardRepo.GetSummary(ctx, time.Now())
	if err != nil {
		return models.DashboardSummary{}, err
	}

	if s.RDB != nil {
		if data, err := json.Marshal(summary); err == nil {
			s.RDB.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL)
		}
	}
	return summary, nil
}

// Invalidate drops the cached snapshot after writes that change the numbers.
// Safe on a nil service or with caching disabled.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s == nil || s.RDB == nil {
		return
	}
	s.RDB.Del(ctx, dashboardCacheKey)
}
