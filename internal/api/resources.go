package api

import (
	"context"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// CompanyInput is the writable subset of a company. Empty fields are left
// out of the request so updates only touch what is set.
type CompanyInput struct {
	Name        string `json:"name,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Tier        string `json:"tier,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
}

// SlotUpdate is a partial slot update.
type SlotUpdate struct {
	CompanyID *string `json:"companyId,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

type BidInput struct {
	CompanyID string           `json:"companyId"`
	SlotID    string           `json:"slotId"`
	Amount    float64          `json:"amount"`
	Status    domain.BidStatus `json:"status,omitempty"`
}

func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var h domain.Health
	err := c.get(ctx, "/health", &h)
	return h, err
}

func (c *Client) Companies(ctx context.Context) ([]domain.Company, error) {
	var out []domain.Company
	if err := c.get(ctx, "/api/companies", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Company(ctx context.Context, id string) (domain.Company, error) {
	var out domain.Company
	if err := c.get(ctx, "/api/companies/"+escape(id), &out); err != nil {
		return domain.Company{}, err
	}
	return out, nil
}

func (c *Client) CreateCompany(ctx context.Context, in CompanyInput) (domain.Company, error) {
	var out domain.Company
	if err := c.post(ctx, "/api/companies", in, &out); err != nil {
		return domain.Company{}, err
	}
	return out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, in CompanyInput) (domain.Company, error) {
	var out domain.Company
	if err := c.put(ctx, "/api/companies/"+escape(id), in, &out); err != nil {
		return domain.Company{}, err
	}
	return out, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/companies/"+escape(id))
}

func (c *Client) Slots(ctx context.Context) ([]domain.Slot, error) {
	var out []domain.Slot
	if err := c.get(ctx, "/api/slots", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Slot(ctx context.Context, id string) (domain.Slot, error) {
	var out domain.Slot
	if err := c.get(ctx, "/api/slots/"+escape(id), &out); err != nil {
		return domain.Slot{}, err
	}
	return out, nil
}

func (c *Client) UpdateSlot(ctx context.Context, id string, in SlotUpdate) (domain.Slot, error) {
	var out domain.Slot
	if err := c.put(ctx, "/api/slots/"+escape(id), in, &out); err != nil {
		return domain.Slot{}, err
	}
	return out, nil
}

func (c *Client) AssignCompany(ctx context.Context, slotID, companyID string) (domain.Slot, error) {
	var out domain.Slot
	body := struct {
		CompanyID string `json:"companyId"`
	}{companyID}
	if err := c.post(ctx, "/api/slots/"+escape(slotID)+"/assign", body, &out); err != nil {
		return domain.Slot{}, err
	}
	return out, nil
}

func (c *Client) UnassignSlot(ctx context.Context, slotID string) (domain.Slot, error) {
	var out domain.Slot
	if err := c.post(ctx, "/api/slots/"+escape(slotID)+"/unassign", nil, &out); err != nil {
		return domain.Slot{}, err
	}
	return out, nil
}

func (c *Client) Bids(ctx context.Context) ([]domain.Bid, error) {
	var out []domain.Bid
	if err := c.get(ctx, "/api/bidding", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ActiveBids(ctx context.Context) ([]domain.Bid, error) {
	var out []domain.Bid
	if err := c.get(ctx, "/api/bidding/active", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBid(ctx context.Context, in BidInput) (domain.Bid, error) {
	var out domain.Bid
	if err := c.post(ctx, "/api/bidding", in, &out); err != nil {
		return domain.Bid{}, err
	}
	return out, nil
}

func (c *Client) Analytics(ctx context.Context) ([]domain.Analytics, error) {
	var out []domain.Analytics
	if err := c.get(ctx, "/api/analytics", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SlotAnalytics(ctx context.Context, slotID string) ([]domain.Analytics, error) {
	var out []domain.Analytics
	if err := c.get(ctx, "/api/analytics/slot/"+escape(slotID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
