package store

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/api"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

type BidAPI interface {
	Bids(ctx context.Context) ([]domain.Bid, error)
	ActiveBids(ctx context.Context) ([]domain.Bid, error)
	CreateBid(ctx context.Context, in api.BidInput) (domain.Bid, error)
}

// Bids tracks all bids plus the backend's view of the active ones. The two
// lists load and fail independently; State reports both.
type Bids struct {
	*resource[domain.Bid]
	active *resource[domain.Bid]
	api    BidAPI
}

func NewBids(client BidAPI, logger *zap.Logger) *Bids {
	id := func(b domain.Bid) string { return b.ID }
	return &Bids{
		resource: newResource("bids", id, logger),
		active:   newResource("active_bids", id, logger),
		api:      client,
	}
}

// State is the state of all bids. Loading and Err also cover the active list.
func (s *Bids) State() State[domain.Bid] {
	st := s.resource.State()
	act := s.active.State()
	st.Loading = st.Loading || act.Loading
	st.Err = joinErrors(st.Err, act.Err)
	return st
}

func (s *Bids) Fetch(ctx context.Context) error {
	items, err := call(ctx, s.resource, "fetch", s.api.Bids)
	if err != nil {
		return err
	}
	s.replaceAll(items)
	return nil
}

func (s *Bids) FetchActive(ctx context.Context) error {
	items, err := call(ctx, s.active, "fetch", s.api.ActiveBids)
	if err != nil {
		return err
	}
	s.active.replaceAll(items)
	return nil
}

func (s *Bids) Active() []domain.Bid { return s.active.Items() }

func (s *Bids) Create(ctx context.Context, in api.BidInput) (domain.Bid, error) {
	bid, err := call(ctx, s.resource, "create", func(ctx context.Context) (domain.Bid, error) {
		return s.api.CreateBid(ctx, in)
	})
	if err != nil {
		return domain.Bid{}, err
	}
	s.appendItem(bid)
	if bid.Status == domain.BidActive {
		s.active.appendItem(bid)
	}
	return bid, nil
}

func joinErrors(msgs ...string) string {
	var kept []string
	for _, m := range msgs {
		if m != "" {
			kept = append(kept, m)
		}
	}
	return strings.Join(kept, "; ")
}
