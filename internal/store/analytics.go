package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

type AnalyticsAPI interface {
	Analytics(ctx context.Context) ([]domain.Analytics, error)
	SlotAnalytics(ctx context.Context, slotID string) ([]domain.Analytics, error)
}

type Analytics struct {
	*resource[domain.Analytics]
	api AnalyticsAPI
}

func NewAnalytics(client AnalyticsAPI, logger *zap.Logger) *Analytics {
	return &Analytics{
		resource: newResource("analytics", func(a domain.Analytics) string { return a.ID }, logger),
		api:      client,
	}
}

func (s *Analytics) Fetch(ctx context.Context) error {
	items, err := call(ctx, s.resource, "fetch", s.api.Analytics)
	if err != nil {
		return err
	}
	s.replaceAll(items)
	return nil
}

// FetchSlot returns the events of one slot without touching the cached list.
func (s *Analytics) FetchSlot(ctx context.Context, slotID string) ([]domain.Analytics, error) {
	return call(ctx, s.resource, "fetch_slot", func(ctx context.Context) ([]domain.Analytics, error) {
		return s.api.SlotAnalytics(ctx, slotID)
	})
}
