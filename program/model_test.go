package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// emptyBackend answers every collection with [] and reports itself healthy.
func emptyBackend(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/health" {
			_, _ = w.Write([]byte(`{"status":"ok","timestamp":"2026-01-01T00:00:00Z"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestApp(t *testing.T, baseURL string) (*app, *clockwork.FakeClock) {
	t.Helper()
	withConfig(t, func(c *Config) {
		c.APIURL = baseURL
		c.StatsEnabled = true
	})
	require.NoError(t, validateAndNormalizeConfig())

	clock := clockwork.NewFakeClock()
	a, err := newApp(zaptest.NewLogger(t), clock)
	require.NoError(t, err)
	t.Cleanup(a.ctrl.Stop)
	return a, clock
}

func TestRenderOnce_EmptyBackendShowsFallback(t *testing.T) {
	srv, hits := emptyBackend(t)
	a, _ := newTestApp(t, srv.URL)

	out := a.renderOnce(context.Background(), domain.LayerStatic)

	assert.Contains(t, out, "5D SPONSOR WALL")
	assert.Contains(t, out, "0 active")
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "S25")
	assert.Contains(t, out, "Day €5.000")
	assert.Contains(t, out, "backend: online")
	assert.NotContains(t, out, "stale:")
	assert.Positive(t, hits.Load())
	assert.Empty(t, a.ctrl.Active(domain.LayerStatic))
}

func TestRenderOnce_UnreachableBackendStillRenders(t *testing.T) {
	srv, _ := emptyBackend(t)
	url := srv.URL
	srv.Close()
	a, _ := newTestApp(t, url)

	out := a.renderOnce(context.Background(), domain.LayerHologram)
	assert.Contains(t, out, "Hologram Effects")
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "backend: offline")
	assert.Contains(t, out, "stale:")
}

func keyPress(s string) tui.KeyMsg {
	switch s {
	case "enter":
		return tui.KeyMsg{Type: tui.KeyEnter}
	case "esc":
		return tui.KeyMsg{Type: tui.KeyEscape}
	case "right":
		return tui.KeyMsg{Type: tui.KeyRight}
	case "down":
		return tui.KeyMsg{Type: tui.KeyDown}
	}
	return tui.KeyMsg{Type: tui.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...string) {
	for _, k := range keys {
		m.Update(keyPress(k))
	}
}

func TestModel_KeysDriveTheWall(t *testing.T) {
	srv, _ := emptyBackend(t)
	a, _ := newTestApp(t, srv.URL)
	m := newModel(a)

	press(m, "4")
	assert.Equal(t, domain.LayerSpinning, a.wall.Layer())
	assert.True(t, a.ctrl.Running())

	press(m, "right", "right", "down")
	assert.Equal(t, 8, m.cursor)

	press(m, "enter")
	n, ok := a.wall.Selected()
	require.True(t, ok)
	assert.Equal(t, 8, n)

	press(m, "esc")
	_, ok = a.wall.Selected()
	assert.False(t, ok)

	press(m, "enter", "3")
	_, ok = a.wall.Selected()
	assert.False(t, ok, "switching layers clears the selection")
	assert.Equal(t, domain.LayerAR, a.wall.Layer())
	assert.LessOrEqual(t, m.cursor, 16)
}

func TestModel_CursorStaysInsideGrid(t *testing.T) {
	srv, _ := emptyBackend(t)
	a, _ := newTestApp(t, srv.URL)
	m := newModel(a)

	press(m, "3")
	for range 10 {
		press(m, "right", "down")
	}
	assert.Equal(t, 16, m.cursor)

	press(m, "2")
	for range 10 {
		press(m, "down")
	}
	assert.Equal(t, 21, m.cursor)

	// The last row of the 24-slot grid ends at column 3.
	press(m, "l", "l", "l", "l", "l")
	assert.Equal(t, 24, m.cursor)
	press(m, "h", "h", "h", "h", "h")
	assert.Equal(t, 21, m.cursor)
}

func TestModel_PauseStopsActivation(t *testing.T) {
	srv, _ := emptyBackend(t)
	a, _ := newTestApp(t, srv.URL)
	m := newModel(a)

	press(m, "2")
	require.True(t, a.ctrl.Running())

	press(m, "p")
	assert.True(t, m.paused)
	assert.False(t, a.ctrl.Running())

	press(m, "4")
	assert.False(t, a.ctrl.Running(), "layer switches while paused stay paused")

	press(m, "p")
	assert.True(t, a.ctrl.Running())
}

func TestModel_ViewShowsDetailForSelection(t *testing.T) {
	srv, _ := emptyBackend(t)
	a, _ := newTestApp(t, srv.URL)
	m := newModel(a)
	m.Update(m.loadCmd()())

	press(m, "1")
	for range 9 {
		press(m, "right")
	}
	press(m, "enter")
	out := m.View()
	assert.True(t, strings.Contains(out, "Slot "), "detail panel missing")
	assert.Contains(t, out, "(static)")
	assert.Contains(t, out, "RUNTIME STATS")
}

func TestModel_QuitStopsController(t *testing.T) {
	srv, _ := emptyBackend(t)
	a, _ := newTestApp(t, srv.URL)
	m := newModel(a)
	press(m, "2")

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tui.QuitMsg{}, cmd())
	assert.False(t, a.ctrl.Running())
}
