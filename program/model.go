package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/keilerkonzept/topk/heap"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/wall"
)

const (
	defaultWidth  = 140
	sideMinWidth  = 34
	listHeight    = 10
	plotHeight    = 6
	statusTimeout = 4 * time.Second
)

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	borderFg      = styles.NewStyle().Foreground(borderColor)
	errorFg       = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
	plotStyle     = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			Foreground(borderColor).
			BorderForeground(borderColor)
)

type model struct {
	*app

	width, height int
	sideWidth     int

	cursor    int
	paused    bool
	showStats bool
	loading   bool
	now       time.Time
	err       error
	status    string
	statusAt  time.Time

	spinner        spinner.Model
	list           list.Model
	listDelegate   *list.DefaultDelegate
	help           help.Model
	plot           *plot.Canvas
	plotData       [][]float64
	plotLineColors []plot.Color
	logScale       bool
	hot            []heap.Item
}

func newModel(a *app) *model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.
		Foreground(selectedColor)
	d.ShowDescription = true

	l := list.New(make([]list.Item, 0), d, sideMinWidth, listHeight)
	l.Styles.NoItems = l.Styles.NoItems.
		Padding(0, 2)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)

	history := a.heat.historyLength()
	p := plot.NewCanvas(sideMinWidth, plotHeight)
	p.NumDataPoints = history
	p.ShowAxis = false
	p.LineColors = make([]plot.Color, config.K+1)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := &model{
		app:            a,
		cursor:         1,
		showStats:      config.StatsEnabled,
		loading:        true,
		spinner:        sp,
		list:           l,
		listDelegate:   &d,
		help:           help.New(),
		plot:           &p,
		plotData:       make([][]float64, config.K+1),
		plotLineColors: make([]plot.Color, config.K+1),
		logScale:       config.LogScale,
	}
	for i := range m.plotData {
		m.plotData[i] = make([]float64, history)
	}
	m.width = defaultWidth
	m.layout()
	return m
}

type frameMsg time.Time

func doFrameTick() tui.Cmd {
	return tui.Every(time.Second/time.Duration(config.FPS), func(t time.Time) tui.Msg {
		return frameMsg(t)
	})
}

type heatTickMsg time.Time

func doHeatTick() tui.Cmd {
	return tui.Every(time.Second/time.Duration(config.HeatFPS), func(t time.Time) tui.Msg {
		return heatTickMsg(t)
	})
}

type healthTickMsg time.Time

func doHealthTick() tui.Cmd {
	return tui.Tick(config.HealthInterval, func(t time.Time) tui.Msg {
		return healthTickMsg(t)
	})
}

type refreshTickMsg time.Time

func doRefreshTick() tui.Cmd {
	if config.RefreshInterval <= 0 {
		return nil
	}
	return tui.Tick(config.RefreshInterval, func(t time.Time) tui.Msg {
		return refreshTickMsg(t)
	})
}

type dataMsg struct {
	err error
	// fetched is false when Load found the data already loaded.
	fetched bool
}

type healthMsg struct{ err error }

func (m *model) loadCmd() tui.Cmd {
	return func() tui.Msg {
		fetched, err := m.store.Load(context.Background())
		return dataMsg{err: err, fetched: fetched}
	}
}

func (m *model) refreshCmd() tui.Cmd {
	return func() tui.Msg {
		return dataMsg{err: m.store.Refresh(context.Background()), fetched: true}
	}
}

func (m *model) healthCmd() tui.Cmd {
	return func() tui.Msg {
		_, err := m.store.Health.Check(context.Background())
		return healthMsg{err}
	}
}

func (m *model) Init() tui.Cmd {
	return tui.Batch(
		m.spinner.Tick,
		m.loadCmd(),
		m.healthCmd(),
		doFrameTick(),
		doHeatTick(),
		doHealthTick(),
		doRefreshTick(),
	)
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.paused {
			m.now = m.clock.Now()
			m.wall.Animate(m.now)
		}
		return m, doFrameTick()
	case heatTickMsg:
		if !m.paused {
			m.updateHeat()
		}
		return m, doHeatTick()
	case healthTickMsg:
		return m, tui.Batch(m.healthCmd(), doHealthTick())
	case refreshTickMsg:
		m.loading = true
		return m, tui.Batch(m.refreshCmd(), m.spinner.Tick, doRefreshTick())
	case dataMsg:
		m.loading = false
		m.err = msg.err
		if msg.fetched && msg.err == nil {
			m.logger.Debug("backend data refreshed")
		}
		return m, nil
	case healthMsg:
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tui.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tui.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tui.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tui.KeyMsg) (tui.Model, tui.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.ctrl.Stop()
		return m, tui.Quit
	case key.Matches(msg, keys.Static):
		m.selectLayer(domain.LayerStatic)
	case key.Matches(msg, keys.Hologram):
		m.selectLayer(domain.LayerHologram)
	case key.Matches(msg, keys.AR):
		m.selectLayer(domain.LayerAR)
	case key.Matches(msg, keys.Spinning):
		m.selectLayer(domain.LayerSpinning)
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, keys.Select):
		if err := m.wall.SelectSlot(m.cursor); err != nil {
			m.setStatus(err.Error())
		}
	case key.Matches(msg, keys.Clear):
		m.wall.ClearSelection()
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.setStatus("refetching backend data")
		return m, tui.Batch(m.refreshCmd(), m.spinner.Tick)
	case key.Matches(msg, keys.Pause):
		m.togglePause()
	case key.Matches(msg, keys.Stats):
		m.showStats = !m.showStats
		m.metrics.setEnabled(m.metrics.isEnabled() || m.showStats)
	case key.Matches(msg, keys.HotNext):
		m.list.CursorDown()
	case key.Matches(msg, keys.HotPrev):
		m.list.CursorUp()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *model) selectLayer(l domain.Layer) {
	if err := m.wall.SelectLayer(l); err != nil {
		m.setStatus(err.Error())
		return
	}
	if m.paused {
		m.ctrl.Pause()
	}
	shape := wall.Shape(l)
	m.cursor = min(max(m.cursor, 1), shape.Slots)
	m.layout()
}

func (m *model) moveCursor(dr, dc int) {
	shape := wall.Shape(m.wall.Layer())
	row, col := shape.Position(m.cursor)
	row = min(max(row+dr, 0), shape.Rows-1)
	col = min(max(col+dc, 0), shape.Cols-1)
	if n := shape.Ordinal(row, col); n != 0 {
		m.cursor = n
	}
}

func (m *model) togglePause() {
	m.paused = !m.paused
	if m.paused {
		m.ctrl.Pause()
		m.setStatus("paused")
		return
	}
	m.ctrl.Resume()
	m.setStatus("resumed")
}

func (m *model) setStatus(s string) {
	m.status = s
	m.statusAt = m.clock.Now()
}

// layout sizes the side column, the hot slot list and the plot to the
// window and the current grid.
func (m *model) layout() {
	gridWidth := wall.Shape(m.wall.Layer()).Cols * config.CellWidth
	m.sideWidth = max(sideMinWidth, m.width-gridWidth-1)

	m.list.SetSize(m.sideWidth, listHeight)
	p := plot.NewCanvas(max(1, m.sideWidth-2), plotHeight)
	p.NumDataPoints = m.plot.NumDataPoints
	p.ShowAxis = m.plot.ShowAxis
	p.LineColors = m.plot.LineColors
	m.plot = &p
	m.help.Width = m.width
}

func (m *model) updateHeat() {
	start := m.clock.Now()
	m.heat.advance(start)
	items, didFull := m.heat.top(start, listHeight/2)
	m.metrics.observeRankRefresh(m.clock.Since(start), didFull)
	m.hot = items
	m.updateList()
	m.updatePlot()
}

func (m *model) updateList() {
	selected := m.list.SelectedItem()
	items := make([]list.Item, len(m.hot))
	order := make(map[string]int, len(m.hot))
	for i, it := range m.hot {
		items[i] = listItem{Rank: i + 1, Item: it}
		order[it.Item] = i
	}
	m.list.SetItems(items)
	if selected != nil {
		if i, ok := order[selected.(listItem).Item.Item]; ok {
			m.list.Select(i)
		}
	}
}

// updatePlot draws every hot slot dimmed and the selected one highlighted
// on top.
func (m *model) updatePlot() {
	n := len(m.hot)
	if n == 0 {
		return
	}
	var highlight, dim plot.Color
	if styles.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Red, plot.DimGray
	} else {
		highlight, dim = plot.Black, plot.LightGray
	}

	selected := m.list.Index()
	for i := 0; i < n; i++ {
		// Start after the selected item so it lands last.
		it := m.hot[(selected+1+i)%n]
		m.heat.series(it, m.plotData[i], m.logScale)
		m.plotLineColors[i] = dim
	}
	m.plotLineColors[n-1] = highlight
	m.plotLineColors, m.plot.LineColors = m.plot.LineColors, m.plotLineColors
	m.plot.Fill(m.plotData[:n])
}

type listItem struct {
	Rank int
	heap.Item
}

func (i listItem) Title() string {
	l, n, ok := parseSlotKey(i.Item.Item)
	if !ok {
		return fmt.Sprintf("#%-2d %s", i.Rank, i.Item.Item)
	}
	return fmt.Sprintf("#%-2d S%02d %s", i.Rank, n, l.String())
}

func (i listItem) Description() string {
	return fmt.Sprintf("    %d activations", i.Count)
}

func (i listItem) FilterValue() string { return i.Item.Item }

func (m *model) statusLine(now time.Time) string {
	var parts []string
	if m.err != nil {
		var msg string
		if errors.Is(m.err, context.Canceled) {
			msg = "refresh cancelled"
		} else {
			msg = "last refresh failed: " + m.err.Error()
		}
		parts = append(parts, errorFg.Render(msg))
	}
	if m.status != "" && now.Sub(m.statusAt) < statusTimeout {
		parts = append(parts, borderFg.Render(m.status))
	}
	if len(parts) == 0 {
		return ""
	}
	return styles.JoinHorizontal(styles.Top, joinWith("  ", parts)...)
}

func joinWith(sep string, parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
