package client

import (
	"sync"
	"time"
)

// HistoryCap is the number of entries a History keeps.
const HistoryCap = 5

type HistoryEntry struct {
	Time    time.Time
	Message string
}

func (e HistoryEntry) String() string {
	return e.Time.Format("15:04:05") + " - " + e.Message
}

// History is a capped, most-recent-first event log.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	now     func() time.Time
}

func NewHistory() *History {
	return &History{now: time.Now}
}

// SetClock overrides the timestamp source.
func (h *History) SetClock(now func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

// Add prepends an entry, evicting the oldest once the cap is exceeded.
func (h *History) Add(message string) HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Time: h.now(), Message: message}
	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > HistoryCap {
		h.entries = h.entries[:HistoryCap]
	}
	return entry
}

// Entries returns the log, most recent first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
