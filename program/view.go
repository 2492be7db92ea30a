package main

import (
	"fmt"
	"strings"
	"time"

	styles "github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/sponsorwall/internal/render"
)

func (m *model) View() string {
	now := m.now
	if now.IsZero() {
		now = m.clock.Now()
	}
	return m.frame(now)
}

// frame renders the whole screen at instant now.
func (m *model) frame(now time.Time) string {
	snap := m.store.Snapshot()
	g := m.wall.Grid(snap, now)
	pricing := m.registry.Pricing()

	header := render.Title(g.Layer, len(g.Active)) + "  " + render.HealthBadge(snap.Health, now)
	if m.loading || snap.Loading() {
		header += "  " + m.spinner.View() + borderFg.Render(" loading")
	}
	if m.paused {
		header += "  " + errorFg.Render("PAUSED")
	}

	grid := render.Grid(g, render.GridOptions{
		CellWidth: config.CellWidth,
		Pricing:   pricing,
		Cursor:    m.cursor,
	})

	var side string
	if d, ok := m.wall.Detail(snap, now); ok {
		side = render.DetailPanel(d, pricing, m.sideWidth)
	} else if info, ok := m.registry.LayerInfo(g.Layer); ok {
		side = render.InfoCard(info, m.sideWidth)
	}
	side = styles.JoinVertical(styles.Left, side, m.heatPane())

	body := styles.JoinHorizontal(styles.Top, grid, " ", side)
	rows := []string{header, render.LayerBar(g.Layer), body}
	if line := render.ErrorLine(snap.Errors()); line != "" {
		rows = append(rows, line)
	}
	if line := m.statusLine(now); line != "" {
		rows = append(rows, line)
	}
	if m.showStats {
		rows = append(rows, m.statsBlock(now))
	}
	rows = append(rows, m.help.View(keys))
	return styles.JoinVertical(styles.Left, rows...)
}

func (m *model) heatPane() string {
	title := borderFg.Render(fmt.Sprintf("HOT SLOTS (last %s)", config.WindowSize))
	if len(m.hot) == 0 {
		return styles.JoinVertical(styles.Left, title, borderFg.Render("no activations yet"))
	}
	canvas := m.plot.String()
	if canvas == "" {
		canvas = strings.Repeat("\n", plotHeight-1)
	}
	return styles.JoinVertical(styles.Left,
		title,
		m.list.View(),
		plotStyle.Render(canvas),
	)
}

func (m *model) statsBlock(now time.Time) string {
	snap := m.metrics.snapshot(now)
	title := "RUNTIME STATS (RUNNING)"
	if m.paused {
		title = "RUNTIME STATS (PAUSED)"
	}

	top := "-"
	if len(m.hot) > 0 {
		top = fmt.Sprintf("%s (%d)", m.hot[0].Item, m.hot[0].Count)
	}
	lines := []string{
		title,
		fmt.Sprintf("api requests: %d (%d failed)", snap.requests, snap.failures),
		fmt.Sprintf("api latency last/p95/max: %s / %s / %s",
			formatMetricDuration(snap.apiLatency.last),
			formatMetricDuration(snap.apiLatency.p95),
			formatMetricDuration(snap.apiLatency.max)),
		fmt.Sprintf("activation ticks: %d (%d inserts, %d evictions)", snap.ticks, snap.inserts, snap.evictions),
		fmt.Sprintf("hot slot ranking: %d full / %d partial, p95 %s",
			snap.fullRefreshes, snap.partRefreshes, formatMetricDuration(snap.rankTime.p95)),
		fmt.Sprintf("top-1: %s", top),
		fmt.Sprintf("uptime: %s", snap.uptime.Truncate(time.Second)),
	}
	return errorFg.Render(strings.Join(lines, "\n"))
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}
