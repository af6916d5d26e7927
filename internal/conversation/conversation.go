package conversation

import (
	"sync"
	"time"
)

// Entry is a single completed exchange. Entries are immutable once appended.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
}

// History is the ordered record of a conversation. Appends are atomic: a
// reader never observes a partially written entry. The GUI host may append
// from a worker goroutine while another goroutine reads for prompt building.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a completed exchange.
func (h *History) Append(user, bot string) Entry {
	entry := Entry{
		Timestamp: time.Now(),
		User:      user,
		Bot:       bot,
	}
	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return entry
}

// Entries returns a copy of all entries in insertion order.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Window returns a copy of the most recent n entries in chronological order.
// If fewer than n entries exist, all of them are returned.
func (h *History) Window(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || len(h.entries) == 0 {
		return nil
	}
	start := len(h.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, len(h.entries)-start)
	copy(out, h.entries[start:])
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
