package wall

import (
	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// Source tells where a slot's company came from.
type Source int

const (
	SourceNone Source = iota
	SourceBackend
	SourceStatic
)

func (s Source) String() string {
	switch s {
	case SourceBackend:
		return "backend"
	case SourceStatic:
		return "static"
	default:
		return "none"
	}
}

// Resolution is the outcome of looking up the company shown in one slot.
// Slot is the backend slot record when the backend knows the ordinal, even
// if the company itself came from the static table.
type Resolution struct {
	Source  Source
	Company domain.Company
	Slot    *domain.Slot
}

func (r Resolution) Found() bool { return r.Source != SourceNone }

// Resolve picks the company for a slot ordinal. The chain is tried in
// order: the company embedded in the backend slot with that number, the
// backend company referenced by the slot's company id, the static registry
// entry for the ordinal, nothing.
func Resolve(ordinal int, slots []domain.Slot, companies []domain.Company, reg *content.Registry) Resolution {
	var res Resolution
	for i := range slots {
		if slots[i].SlotNumber == ordinal {
			s := slots[i]
			res.Slot = &s
			break
		}
	}

	if res.Slot != nil {
		if c := res.Slot.Company; c != nil && c.Name != "" {
			res.Source = SourceBackend
			res.Company = *c
			return res
		}
		if id := res.Slot.CompanyID; id != "" {
			for _, c := range companies {
				if c.ID == id {
					res.Source = SourceBackend
					res.Company = c
					return res
				}
			}
		}
	}

	if reg != nil {
		if c, ok := reg.Company(ordinal); ok {
			res.Source = SourceStatic
			res.Company = c
		}
	}
	return res
}
