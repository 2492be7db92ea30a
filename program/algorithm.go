package main

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/keilerkonzept/topk"
	"github.com/keilerkonzept/topk/heap"
	"github.com/keilerkonzept/topk/sliding"

	"github.com/keilerkonzept/sponsorwall/internal/activation"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// slotKey names a slot in the heat sketch, e.g. "spinning/07".
func slotKey(l domain.Layer, ordinal int) string {
	return fmt.Sprintf("%s/%02d", l.Mode(), ordinal)
}

// parseSlotKey is the inverse of slotKey.
func parseSlotKey(key string) (domain.Layer, int, bool) {
	mode, num, ok := strings.Cut(key, "/")
	if !ok {
		return 0, 0, false
	}
	l, err := domain.ParseLayer(mode)
	if err != nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return l, n, true
}

// heatSource is what the ranker reads from. Calls happen with the source
// already locked.
type heatSource interface {
	SortedSlice() []heap.Item
	Count(item string) uint32
}

// hotSlotRanker keeps an ordered view of the most activated slots. A full
// re-sort from the sketch happens every fullRefresh; in between only the
// counts of the first partialSize entries are refreshed and re-sorted.
type hotSlotRanker struct {
	k           int
	fullRefresh time.Duration
	partialSize int

	lastFull time.Time
	items    []heap.Item
}

func newHotSlotRanker(k int, fullRefresh time.Duration, partialSize int) *hotSlotRanker {
	return &hotSlotRanker{
		k:           max(1, k),
		fullRefresh: max(0, fullRefresh),
		partialSize: max(0, partialSize),
	}
}

func (r *hotSlotRanker) needsFull(now time.Time) bool {
	return len(r.items) == 0 || r.lastFull.IsZero() || r.fullRefresh == 0 ||
		now.Sub(r.lastFull) >= r.fullRefresh
}

// refresh returns a copy of the ranking and whether it was rebuilt from
// scratch. visible limits the partial refresh to what is on screen.
func (r *hotSlotRanker) refresh(now time.Time, visible int, src heatSource) ([]heap.Item, bool) {
	if r.needsFull(now) {
		r.items = src.SortedSlice()
		if len(r.items) > r.k {
			r.items = r.items[:r.k]
		}
		r.lastFull = now
		return append([]heap.Item(nil), r.items...), true
	}

	limit := len(r.items)
	if visible > 0 {
		limit = min(limit, visible)
	}
	if r.partialSize > 0 {
		limit = min(limit, r.partialSize)
	}
	head := r.items[:limit]
	for i := range head {
		head[i].Count = src.Count(head[i].Item)
	}
	sort.SliceStable(head, func(i, j int) bool {
		if head[i].Count != head[j].Count {
			return head[i].Count > head[j].Count
		}
		return head[i].Item < head[j].Item
	})
	return append([]heap.Item(nil), r.items...), false
}

// activationHeat counts activation inserts per slot over a sliding window.
// It is fed from the controller's listener and read by the UI.
type activationHeat struct {
	mu       sync.Mutex
	sketch   *sliding.Sketch
	tickSize time.Duration
	lastTick time.Time
	ranker   *hotSlotRanker
}

func newActivationHeat(sketch *sliding.Sketch, tickSize time.Duration, ranker *hotSlotRanker) *activationHeat {
	return &activationHeat{sketch: sketch, tickSize: tickSize, ranker: ranker}
}

// observe is an activation.Listener.
func (h *activationHeat) observe(ev activation.Event) {
	if !ev.Inserted {
		return
	}
	h.mu.Lock()
	h.sketch.Incr(slotKey(ev.Layer, ev.Ordinal))
	h.mu.Unlock()
}

// advance moves the sliding window forward to now.
func (h *activationHeat) advance(now time.Time) {
	t := now.Truncate(h.tickSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastTick.IsZero() {
		h.lastTick = t
		return
	}
	if ticks := int(t.Sub(h.lastTick) / h.tickSize); ticks > 0 {
		h.sketch.Ticks(ticks)
		h.lastTick = t
	}
}

func (h *activationHeat) top(now time.Time, visible int) ([]heap.Item, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ranker.refresh(now, visible, h.sketch)
}

func (h *activationHeat) historyLength() int {
	return h.sketch.BucketHistoryLength
}

// series fills out with the per-tick history of item, oldest first. Buckets
// whose fingerprint does not match item are ignored; the max over the
// remaining rows is the estimate.
func (h *activationHeat) series(item heap.Item, out []float64, logScale bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows := make([]int, 0, h.sketch.Depth)
	for k := 0; k < h.sketch.Depth; k++ {
		idx := topk.BucketIndex(item.Item, k, h.sketch.Width)
		b := h.sketch.Buckets[idx]
		if b.Fingerprint == item.Fingerprint && len(b.Counts) > 0 {
			rows = append(rows, idx)
		}
	}
	for j := range out {
		var c uint32
		for _, idx := range rows {
			b := h.sketch.Buckets[idx]
			c = max(c, b.Counts[(int(b.First)+j)%len(b.Counts)])
		}
		v := float64(c)
		if logScale {
			v = math.Log(max(1, v))
		}
		out[len(out)-1-j] = v
	}
}
