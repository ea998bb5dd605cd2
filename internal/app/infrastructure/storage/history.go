package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"

	"ircengine/internal/app/ports"
)

// History is a capped, TTL-bounded window of recently exchanged raw lines.
// Entries are keyed by a monotonic sequence number; once the window is full,
// recording a line evicts the oldest one.
type History struct {
	outer *otter.Cache[uint64, ports.HistoryEntry]

	mu       sync.Mutex
	seq      uint64
	capacity uint64
}

func NewHistory(capacity int, ttl time.Duration) *History {
	h := &History{capacity: uint64(capacity)}
	h.outer = otter.Must(&otter.Options[uint64, ports.HistoryEntry]{
		InitialCapacity:  capacity,
		ExpiryCalculator: otter.ExpiryAccessing[uint64, ports.HistoryEntry](ttl),
	})

	return h
}

func (h *History) Record(dir ports.Direction, line string) {
	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	h.outer.Set(seq, ports.HistoryEntry{
		Seq:  seq,
		Time: time.Now(),
		Dir:  dir,
		Line: line,
	})

	if h.capacity > 0 && seq > h.capacity {
		h.outer.Invalidate(seq - h.capacity)
	}
}

// Recent returns the retained entries, oldest first.
func (h *History) Recent() []ports.HistoryEntry {
	entries := make([]ports.HistoryEntry, 0)
	for _, e := range h.outer.All() {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	return entries
}

func (h *History) Clear() {
	h.outer.InvalidateAll()
}
