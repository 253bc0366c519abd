package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postboard/postboard/internal/models"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDailyBreakdownInvertedRange(t *testing.T) {
	comments := newFakeCommentStore()
	svc := NewAnalyticsService(comments, nil, 0)

	_, err := svc.DailyBreakdown(context.Background(), day("2025-02-05"), day("2025-02-01"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("DailyBreakdown() error = %v, want ErrInvalidRange", err)
	}
	// Rejected before any aggregation runs.
	if comments.breakdownCalls != 0 || comments.countRangeCalls != 0 {
		t.Error("inverted range still hit the store")
	}
}

func TestDailyBreakdownSingleDay(t *testing.T) {
	comments := newFakeCommentStore()
	comments.breakdownRows = []models.DailyCommentStats{
		{Date: day("2025-02-03"), Created: 2, Blocked: 2, Total: 4},
	}
	comments.rangeTotal = 4
	svc := NewAnalyticsService(comments, nil, 0)

	stats, err := svc.DailyBreakdown(context.Background(), day("2025-02-03"), day("2025-02-03"))
	if err != nil {
		t.Fatalf("DailyBreakdown() error = %v", err)
	}
	if len(stats.PerDay) != 1 {
		t.Fatalf("len(PerDay) = %d, want 1", len(stats.PerDay))
	}
	got := stats.PerDay[0]
	if got.Date != "2025-02-03" {
		t.Errorf("Date = %q, want %q", got.Date, "2025-02-03")
	}
	if got.Created != 2 || got.Blocked != 2 || got.Total != 4 {
		t.Errorf("bucket = %+v, want created=2 blocked=2 total=4", got)
	}
	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
}

func TestDailyBreakdownOmitsEmptyDays(t *testing.T) {
	comments := newFakeCommentStore()
	comments.breakdownRows = []models.DailyCommentStats{
		{Date: day("2025-02-01"), Created: 1, Blocked: 0, Total: 1},
		{Date: day("2025-02-03"), Created: 2, Blocked: 1, Total: 3},
		{Date: day("2025-02-05"), Created: 0, Blocked: 2, Total: 2},
	}
	comments.rangeTotal = 6
	svc := NewAnalyticsService(comments, nil, 0)

	stats, err := svc.DailyBreakdown(context.Background(), day("2025-02-01"), day("2025-02-05"))
	if err != nil {
		t.Fatalf("DailyBreakdown() error = %v", err)
	}
	if len(stats.PerDay) != 3 {
		t.Fatalf("len(PerDay) = %d, want 3 (days without comments omitted)", len(stats.PerDay))
	}
	var created, blocked, total int64
	for _, bucket := range stats.PerDay {
		created += bucket.Created
		blocked += bucket.Blocked
		total += bucket.Total
	}
	if created != 3 || blocked != 3 || total != 6 {
		t.Errorf("sums = created=%d blocked=%d total=%d, want 3/3/6", created, blocked, total)
	}
	if stats.Total != 6 {
		t.Errorf("Total = %d, want 6", stats.Total)
	}
}

func TestDailyBreakdownWithoutCache(t *testing.T) {
	comments := newFakeCommentStore()
	comments.rangeTotal = 0
	svc := NewAnalyticsService(comments, nil, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := svc.DailyBreakdown(context.Background(), day("2025-02-01"), day("2025-02-02")); err != nil {
			t.Fatalf("DailyBreakdown() error = %v", err)
		}
	}
	// Nil cache means every call aggregates.
	if comments.breakdownCalls != 2 {
		t.Errorf("breakdown queries = %d, want 2", comments.breakdownCalls)
	}
}
