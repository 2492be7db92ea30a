package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/api"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

type SlotAPI interface {
	Slots(ctx context.Context) ([]domain.Slot, error)
	UpdateSlot(ctx context.Context, id string, in api.SlotUpdate) (domain.Slot, error)
	AssignCompany(ctx context.Context, slotID, companyID string) (domain.Slot, error)
	UnassignSlot(ctx context.Context, slotID string) (domain.Slot, error)
}

type Slots struct {
	*resource[domain.Slot]
	api SlotAPI
}

func NewSlots(client SlotAPI, logger *zap.Logger) *Slots {
	return &Slots{
		resource: newResource("slots", func(s domain.Slot) string { return s.ID }, logger),
		api:      client,
	}
}

func (s *Slots) Fetch(ctx context.Context) error {
	items, err := call(ctx, s.resource, "fetch", s.api.Slots)
	if err != nil {
		return err
	}
	s.replaceAll(items)
	return nil
}

func (s *Slots) Update(ctx context.Context, id string, in api.SlotUpdate) (domain.Slot, error) {
	return s.mutate(ctx, "update", id, func(ctx context.Context) (domain.Slot, error) {
		return s.api.UpdateSlot(ctx, id, in)
	})
}

func (s *Slots) Assign(ctx context.Context, slotID, companyID string) (domain.Slot, error) {
	return s.mutate(ctx, "assign", slotID, func(ctx context.Context) (domain.Slot, error) {
		return s.api.AssignCompany(ctx, slotID, companyID)
	})
}

func (s *Slots) Unassign(ctx context.Context, slotID string) (domain.Slot, error) {
	return s.mutate(ctx, "unassign", slotID, func(ctx context.Context) (domain.Slot, error) {
		return s.api.UnassignSlot(ctx, slotID)
	})
}

func (s *Slots) mutate(ctx context.Context, op, id string, fn func(context.Context) (domain.Slot, error)) (domain.Slot, error) {
	slot, err := call(ctx, s.resource, op, fn)
	if err != nil {
		return domain.Slot{}, err
	}
	s.replaceByID(id, slot)
	return slot, nil
}
