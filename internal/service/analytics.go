package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/cache"
	"github.com/postboard/postboard/pkg/logging"
	"github.com/postboard/postboard/pkg/telemetry"
)

// DayStats is one calendar-day bucket of the daily breakdown.
type DayStats struct {
	Date    string `json:"date"`
	Created int64  `json:"created_comments_amount"`
	Blocked int64  `json:"blocked_comments_amount"`
	Total   int64  `json:"total_comments_amount"`
}

// CommentStatistics is the daily-breakdown response. PerDay holds one
// bucket per day with at least one comment, ascending; Total counts all
// comments in the range independently.
type CommentStatistics struct {
	PerDay []DayStats `json:"comments_statistic_per_day"`
	Total  int64      `json:"comments_total_amount"`
}

// AnalyticsService aggregates per-day comment counts over a date range.
type AnalyticsService struct {
	comments CommentStore
	cache    *cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService creates a new analytics service. redisCache may
// be nil, in which case every query hits the database.
func NewAnalyticsService(comments CommentStore, redisCache *cache.Cache, cacheTTL time.Duration) *AnalyticsService {
	return &AnalyticsService{
		comments: comments,
		cache:    redisCache,
		cacheTTL: cacheTTL,
		logger:   logging.WithComponent("analytics-service"),
	}
}

// DailyBreakdown returns per-day created/blocked/total comment counts
// for [dateFrom, dateTo] inclusive. Days without comments are omitted.
func (s *AnalyticsService) DailyBreakdown(ctx context.Context, dateFrom, dateTo time.Time) (*CommentStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.daily_breakdown")
	defer span.End()

	if dateFrom.After(dateTo) {
		return nil, fmt.Errorf("%w: The start date must be less than or equal to the end date.", ErrInvalidRange)
	}

	cacheKey := "analytics:" + cache.HashKey(
		"comments_daily_breakdown",
		dateFrom.Format("2006-01-02"),
		dateTo.Format("2006-01-02"),
	)
	if s.cache != nil {
		var cached CommentStatistics
		if err := s.cache.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	toExclusive := dateTo.AddDate(0, 0, 1)

	rows, err := s.comments.DailyBreakdown(ctx, dateFrom, toExclusive)
	if err != nil {
		return nil, err
	}

	total, err := s.comments.CountInRange(ctx, dateFrom, toExclusive)
	if err != nil {
		return nil, err
	}

	stats := &CommentStatistics{
		PerDay: make([]DayStats, 0, len(rows)),
		Total:  total,
	}
	for _, row := range rows {
		stats.PerDay = append(stats.PerDay, DayStats{
			Date:    row.Date.Format("2006-01-02"),
			Created: row.Created,
			Blocked: row.Blocked,
			Total:   row.Total,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(cacheKey, stats, s.cacheTTL); err != nil && err != cache.ErrCacheDisabled {
			s.logger.Warn("Failed to cache daily breakdown", zap.Error(err))
		}
	}

	return stats, nil
}
