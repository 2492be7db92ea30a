// Package domain holds the sponsor wall records shared by the API client,
// the data stores, the content registry and the wall composer.
package domain

import (
	"encoding/json"
	"time"
)

// Company is a sponsor as returned by the backend or the static registry.
// Records are replaced wholesale on refetch and never mutated in place.
type Company struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Logo        string    `json:"logo,omitempty" yaml:"logo"`
	Website     string    `json:"website,omitempty" yaml:"website"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Category    string    `json:"category,omitempty" yaml:"category"`
	Tier        string    `json:"tier,omitempty" yaml:"tier"`
	Country     string    `json:"country,omitempty" yaml:"country"`
	Product     string    `json:"product,omitempty" yaml:"product"`
	CreatedAt   time.Time `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero" yaml:"-"`
}

// Slot is one numbered position of the wall as known to the backend.
type Slot struct {
	ID         string     `json:"id"`
	SlotNumber int        `json:"slotNumber"`
	CompanyID  string     `json:"companyId,omitempty"`
	Company    *Company   `json:"company,omitempty"`
	IsActive   bool       `json:"isActive"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	CreatedAt  time.Time  `json:"createdAt,omitzero"`
	UpdatedAt  time.Time  `json:"updatedAt,omitzero"`
}

type BidStatus string

const (
	BidActive  BidStatus = "active"
	BidWon     BidStatus = "won"
	BidLost    BidStatus = "lost"
	BidExpired BidStatus = "expired"
)

// Bid is an offer of a company for a slot.
type Bid struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	SlotID    string    `json:"slotId"`
	Amount    float64   `json:"amount"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Analytics is a single recorded event for a slot. Data is kept raw; the
// backend does not fix its shape.
type Analytics struct {
	ID        string          `json:"id"`
	SlotID    string          `json:"slotId"`
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Health is the body of the backend health endpoint.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
