package store

import (
	"context"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// API is everything the stores call on the backend client.
type API interface {
	CompanyAPI
	SlotAPI
	BidAPI
	AnalyticsAPI
	HealthAPI
}

// Store groups the per-resource stores the wall reads from.
type Store struct {
	Companies *Companies
	Slots     *Slots
	Bids      *Bids
	Analytics *Analytics
	Health    *Health

	logger  *zap.Logger
	started atomic.Bool
}

func New(client API, clock clockwork.Clock, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Companies: NewCompanies(client, logger),
		Slots:     NewSlots(client, logger),
		Bids:      NewBids(client, logger),
		Analytics: NewAnalytics(client, logger),
		Health:    NewHealth(client, clock, logger),
		logger:    logger,
	}
}

// Load fetches every resource the first time it is called and does nothing
// afterwards. It reports whether this call did the fetch.
func (s *Store) Load(ctx context.Context) (bool, error) {
	if !s.started.CompareAndSwap(false, true) {
		return false, nil
	}
	return true, s.Refresh(ctx)
}

// Refresh refetches every resource concurrently. A failing resource does not
// stop the others; the first error is returned after all have finished.
func (s *Store) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.Companies.Fetch(ctx) })
	g.Go(func() error { return s.Slots.Fetch(ctx) })
	g.Go(func() error { return s.Bids.Fetch(ctx) })
	g.Go(func() error { return s.Bids.FetchActive(ctx) })
	g.Go(func() error { return s.Analytics.Fetch(ctx) })
	err := g.Wait()
	if err != nil {
		s.logger.Info("refresh finished with errors, keeping previous data", zap.Error(err))
	}
	return err
}

// Snapshot is a consistent-enough copy of the data the wall renders. Each
// resource is copied under its own lock.
type Snapshot struct {
	Companies  State[domain.Company]
	Slots      State[domain.Slot]
	Bids       State[domain.Bid]
	ActiveBids []domain.Bid
	Analytics  State[domain.Analytics]
	Health     HealthStatus
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Companies:  s.Companies.State(),
		Slots:      s.Slots.State(),
		Bids:       s.Bids.State(),
		ActiveBids: s.Bids.Active(),
		Analytics:  s.Analytics.State(),
		Health:     s.Health.Status(),
	}
}

// BidsForSlot returns the cached bids of a backend slot id.
func (snap Snapshot) BidsForSlot(slotID string) []domain.Bid {
	var out []domain.Bid
	for _, b := range snap.Bids.Items {
		if b.SlotID == slotID {
			out = append(out, b)
		}
	}
	return out
}

// AnalyticsForSlot returns the cached analytics events of a backend slot id.
func (snap Snapshot) AnalyticsForSlot(slotID string) []domain.Analytics {
	var out []domain.Analytics
	for _, a := range snap.Analytics.Items {
		if a.SlotID == slotID {
			out = append(out, a)
		}
	}
	return out
}

// Errors lists the current error message of every resource that has one.
func (snap Snapshot) Errors() map[string]string {
	out := make(map[string]string)
	add := func(name, msg string) {
		if msg != "" {
			out[name] = msg
		}
	}
	add("companies", snap.Companies.Err)
	add("slots", snap.Slots.Err)
	add("bids", snap.Bids.Err)
	add("analytics", snap.Analytics.Err)
	add("health", snap.Health.Err)
	return out
}

func (snap Snapshot) Loading() bool {
	return snap.Companies.Loading || snap.Slots.Loading || snap.Bids.Loading || snap.Analytics.Loading
}
