package render

import (
	"strings"
	"testing"
	"time"

	styles "github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/store"
	"github.com/keilerkonzept/sponsorwall/internal/wall"
)

func TestInfoCard(t *testing.T) {
	info := content.LayerInfo{
		Layer:         domain.LayerHologram,
		Title:         "Hologram Effects Layer",
		Description:   "Advanced holographic projections with depth and light refraction effects across the wall",
		Icon:          "✨",
		Features:      []string{"3D Depth", "Light Refraction"},
		Compatibility: []string{"5D Beamer", "Holo Fans"},
		Performance:   "85%",
		Resources:     "High",
	}
	out := InfoCard(info, 40)
	assert.Contains(t, out, "Hologram Effects Layer")
	assert.Contains(t, out, "• 3D Depth")
	assert.Contains(t, out, "5D Beamer, Holo Fans")
	assert.Contains(t, out, "Performance 85% · Resources High")
	assert.LessOrEqual(t, styles.Width(out), 40)
}

func TestDetailPanel_EmptySlot(t *testing.T) {
	d := wall.Detail{Cell: wall.Cell{Ordinal: 25}, Layer: domain.LayerStatic}
	out := DetailPanel(d, testPricing, 40)
	assert.Contains(t, out, "Slot 25")
	assert.Contains(t, out, "Available for sponsoring")
	assert.Contains(t, out, "Weekend €12.5k")
	assert.NotContains(t, out, "Bids")
}

func TestDetailPanel_BackendSlot(t *testing.T) {
	d := wall.Detail{
		Cell: wall.Cell{
			Ordinal: 7,
			Active:  true,
			Resolution: wall.Resolution{
				Source: wall.SourceBackend,
				Company: domain.Company{
					Name:        "Acme",
					Category:    "Hardware",
					Country:     "DE",
					Description: strings.Repeat("Anvils and rockets for every occasion. ", 4),
				},
				Slot: &domain.Slot{ID: "slot-7", SlotNumber: 7},
			},
		},
		Layer: domain.LayerStatic,
		Bids: []domain.Bid{
			{ID: "b-1", Amount: 900, Status: domain.BidLost},
			{ID: "b-2", Amount: 1200, Status: domain.BidWon},
		},
		Analytics: []domain.Analytics{{ID: "a-1"}, {ID: "a-2"}, {ID: "a-3"}},
	}
	out := DetailPanel(d, testPricing, 40)
	assert.Contains(t, out, "Acme (backend)")
	assert.Contains(t, out, "● active")
	assert.Contains(t, out, content.CountryName("DE"))
	assert.Contains(t, out, "Bids (2)")
	assert.Less(t, strings.Index(out, "€1.200"), strings.Index(out, "€900"))
	assert.Contains(t, out, "Analytics events: 3")
	assert.LessOrEqual(t, styles.Width(out), 40)
}

func TestDetailPanel_StaticSlotHasNoBids(t *testing.T) {
	d := wall.Detail{
		Cell:  wall.Cell{Ordinal: 10, Resolution: company("Apple", "Technology", "US")},
		Layer: domain.LayerStatic,
	}
	out := DetailPanel(d, testPricing, 40)
	assert.Contains(t, out, "Apple (static)")
	assert.NotContains(t, out, "Bids")
	assert.NotContains(t, out, "Analytics")
}

func TestHealthBadge(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)
	last := now.Add(-12 * time.Second)

	assert.Contains(t, HealthBadge(store.HealthStatus{Checking: true}, now), "checking")
	assert.Contains(t, HealthBadge(store.HealthStatus{}, now), "unknown")
	assert.Contains(t, HealthBadge(store.HealthStatus{Known: true, Healthy: true, LastCheck: last}, now), "online (checked 12s ago)")
	assert.Contains(t, HealthBadge(store.HealthStatus{Known: true, LastCheck: last}, now), "offline (last ok 12s ago)")
	assert.NotContains(t, HealthBadge(store.HealthStatus{Known: true}, now), "last ok")
}

func TestErrorLine(t *testing.T) {
	assert.Empty(t, ErrorLine(nil))
	out := ErrorLine(map[string]string{"slots": "x", "companies": "y"})
	assert.Contains(t, out, "stale: companies, slots")
}
