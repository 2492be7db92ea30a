package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/store"
	"github.com/keilerkonzept/sponsorwall/internal/wall"
)

const maxPanelBids = 5

// InfoCard describes a layer: features, compatibility and resource use.
func InfoCard(info content.LayerInfo, width int) string {
	inner := max(10, width-4)
	var b strings.Builder
	b.WriteString(goldFg.Bold(true).Render(strings.TrimSpace(info.Icon + " " + info.Title)))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(info.Description, inner-2))
	if len(info.Features) > 0 {
		b.WriteString("\n\n")
		b.WriteString(boldFg.Render("Features"))
		for _, f := range info.Features {
			b.WriteString("\n • " + f)
		}
	}
	if len(info.Compatibility) > 0 {
		b.WriteString("\n\n")
		b.WriteString(boldFg.Render("Compatible with"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(strings.Join(info.Compatibility, ", "), inner-2))
	}
	b.WriteString("\n\n")
	b.WriteString(borderFg.Render(fmt.Sprintf("Performance %s · Resources %s", info.Performance, info.Resources)))
	return panelStyle.Width(inner).Render(b.String())
}

// DetailPanel is the content panel of a selected slot.
func DetailPanel(d wall.Detail, pricing content.Pricing, width int) string {
	inner := max(10, width-4)
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", boldFg.Render(fmt.Sprintf("Slot %d", d.Ordinal)), borderFg.Render(d.Layer.String()))
	if d.Active {
		b.WriteString(greenFg.Render("● active") + "\n")
	}

	if !d.Resolution.Found() {
		b.WriteString("\nAvailable for sponsoring\n")
		for _, line := range PriceLines(pricing) {
			b.WriteString(" " + line + "\n")
		}
	} else {
		co := d.Resolution.Company
		b.WriteString("\n")
		b.WriteString(goldFg.Bold(true).Render(co.Name))
		b.WriteString(borderFg.Render(" (" + d.Resolution.Source.String() + ")"))
		b.WriteString("\n")
		for _, field := range []struct{ label, value string }{
			{"Category", co.Category},
			{"Tier", co.Tier},
			{"Country", content.CountryName(co.Country)},
			{"Website", co.Website},
		} {
			if field.value != "" {
				fmt.Fprintf(&b, "%s %s\n", borderFg.Render(field.label+":"), field.value)
			}
		}
		if co.Description != "" {
			b.WriteString("\n")
			b.WriteString(wordwrap.String(co.Description, inner-2))
			b.WriteString("\n")
		}
	}

	if d.HasContent && d.Content.Title != "" {
		fmt.Fprintf(&b, "\n%s %s", borderFg.Render("Content:"), strings.TrimSpace(d.Content.Icon+" "+d.Content.Title))
		if d.Content.Category != "" {
			b.WriteString(borderFg.Render(" · " + d.Content.Category))
		}
		b.WriteString("\n")
	}
	if d.HasProduct {
		fmt.Fprintf(&b, "%s %s %s\n", borderFg.Render("Product:"), d.Product.Glyph, d.Product.Image(d.Ordinal))
	}

	if d.Resolution.Slot != nil {
		b.WriteString("\n")
		b.WriteString(bidLines(d.Bids))
		fmt.Fprintf(&b, "\n%s %d", borderFg.Render("Analytics events:"), len(d.Analytics))
	}
	return panelStyle.Width(inner).Render(strings.TrimRight(b.String(), "\n"))
}

func bidLines(bids []domain.Bid) string {
	if len(bids) == 0 {
		return borderFg.Render("No bids")
	}
	sorted := append([]domain.Bid(nil), bids...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	lines := []string{boldFg.Render(fmt.Sprintf("Bids (%d)", len(sorted)))}
	for i, bid := range sorted {
		if i == maxPanelBids {
			lines = append(lines, borderFg.Render(fmt.Sprintf(" … %d more", len(sorted)-i)))
			break
		}
		status := string(bid.Status)
		if bid.Status == domain.BidActive || bid.Status == domain.BidWon {
			status = greenFg.Render(status)
		}
		lines = append(lines, fmt.Sprintf(" %s %s", EuroAmount(bid.Amount), status))
	}
	return strings.Join(lines, "\n")
}

// HealthBadge summarizes the backend health check.
func HealthBadge(h store.HealthStatus, now time.Time) string {
	switch {
	case h.Checking && !h.Known:
		return borderFg.Render("○ backend: checking")
	case !h.Known:
		return borderFg.Render("○ backend: unknown")
	case h.Healthy:
		return greenFg.Render("● backend: online") + borderFg.Render(" (checked "+ago(now, h.LastCheck)+")")
	default:
		msg := redFg.Render("● backend: offline")
		if !h.LastCheck.IsZero() {
			msg += borderFg.Render(" (last ok " + ago(now, h.LastCheck) + ")")
		}
		return msg
	}
}

// ErrorLine lists the resources whose last fetch failed.
func ErrorLine(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return redFg.Render("stale: "+strings.Join(names, ", ")) + borderFg.Render(" (showing fallback content)")
}

func ago(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Truncate(time.Second)
	if d < time.Second {
		return "just now"
	}
	return d.String() + " ago"
}
