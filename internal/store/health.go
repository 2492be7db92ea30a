package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// DefaultHealthInterval is how often the UI polls the health endpoint.
const DefaultHealthInterval = 30 * time.Second

type HealthAPI interface {
	Health(ctx context.Context) (domain.Health, error)
}

// HealthStatus is the tri-state result of health polling: Known is false
// until the first check finishes.
type HealthStatus struct {
	Known     bool
	Healthy   bool
	LastCheck time.Time
	Checking  bool
	Err       string
}

type Health struct {
	api    HealthAPI
	clock  clockwork.Clock
	logger *zap.Logger

	mu     sync.RWMutex
	status HealthStatus
}

func NewHealth(client HealthAPI, clock clockwork.Clock, logger *zap.Logger) *Health {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Health{api: client, clock: clock, logger: logger.With(zap.String("resource", "health"))}
}

// Check polls the backend once. LastCheck only advances on success.
func (h *Health) Check(ctx context.Context) (HealthStatus, error) {
	h.mu.Lock()
	h.status.Checking = true
	h.mu.Unlock()

	_, err := h.api.Health(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.Checking = false
	h.status.Known = true
	if err != nil {
		h.status.Healthy = false
		h.status.Err = err.Error()
		h.logger.Warn("health check failed", zap.Error(err))
		return h.status, err
	}
	h.status.Healthy = true
	h.status.Err = ""
	h.status.LastCheck = h.clock.Now()
	return h.status, nil
}

func (h *Health) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}
