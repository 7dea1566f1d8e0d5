package main

import (
	"sort"
	"sync"
	"time"
)

// LedgerEntry records who first discovered an element on this server and how often it has
// been discovered since.
type LedgerEntry struct {
	Element ElementID `json:"element"`
	FirstBy string    `json:"firstBy"`
	FirstAt time.Time `json:"firstAt"`
	Count   int       `json:"count"`
}

// DiscoveryLedger aggregates discovery events from every session. Safe for concurrent use.
type DiscoveryLedger struct {
	mu      sync.Mutex
	entries map[ElementID]*LedgerEntry
	now     func() time.Time
}

// NewDiscoveryLedger creates an empty ledger.
func NewDiscoveryLedger() *DiscoveryLedger {
	return &DiscoveryLedger{
		entries: make(map[ElementID]*LedgerEntry),
		now:     time.Now,
	}
}

// Record counts one discovery of id by name; returns true if it is the first on the server.
func (l *DiscoveryLedger) Record(id ElementID, name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		e.Count++
		return false
	}
	l.entries[id] = &LedgerEntry{Element: id, FirstBy: name, FirstAt: l.now().UTC(), Count: 1}
	return true
}

// Snapshot returns all entries ordered by element id.
func (l *DiscoveryLedger) Snapshot() []LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Element < out[j].Element })
	return out
}
