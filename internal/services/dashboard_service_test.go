package services

import (
	"context"
	"testing"
)

// The purchase order service drops the dashboard snapshot unconditionally
// after re-syncs and reconciliation repairs, so Invalidate has to hold up
// without a wired service or with caching disabled.
func TestDashboardInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("nil service", func(t *testing.T) {
		var s *DashboardService
		s.Invalidate(ctx)
	})

	t.Run("caching disabled", func(t *testing.T) {
		s := &DashboardService{}
		s.Invalidate(ctx)
	})
}
