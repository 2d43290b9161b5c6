package state

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/five82/maitre/internal/queue"
)

// Filter selects which queue type the main view shows.
type Filter string

const (
	FilterAll      Filter = "All"
	FilterTable    Filter = "Table"
	FilterTakeaway Filter = "Takeaway"
)

var filterCycle = []Filter{FilterAll, FilterTable, FilterTakeaway}

// ParseFilter accepts the filter names case-insensitively. Empty means All.
func ParseFilter(value string) (Filter, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return FilterAll, nil
	}
	for _, f := range filterCycle {
		if strings.EqualFold(trimmed, string(f)) {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q", value)
}

// Next returns the filter after f in All → Table → Takeaway order.
func (f Filter) Next() Filter {
	for i, candidate := range filterCycle {
		if candidate == f {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return FilterAll
}

// Matches reports whether an entry of type t passes the filter.
func (f Filter) Matches(t queue.Type) bool {
	switch f {
	case FilterTable:
		return t == queue.TypeTable
	case FilterTakeaway:
		return t == queue.TypeTakeaway
	default:
		return true
	}
}

// Stats are the header aggregates computed over the full snapshot.
type Stats struct {
	Waiting     int
	Seated      int
	Done        int
	Total       int
	AverageWait int // rounded mean EstimatedWait over Waiting entries
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Entries             []queue.Entry
	Filter              Filter
	SearchTerm          string
	SearchResults       []queue.Entry
	Stats               Stats
	Loaded              bool // at least one reload succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive reload failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Searching reports whether a search term is active.
func (s Snapshot) Searching() bool {
	return s.SearchTerm != ""
}

// Filtered applies the snapshot's filter to its entries.
func (s Snapshot) Filtered() []queue.Entry {
	return filterEntries(s.Entries, s.Filter)
}

// View is what the queue table shows: search results while a term is active,
// otherwise the filtered entries.
func (s Snapshot) View() []queue.Entry {
	if s.Searching() {
		return cloneEntries(s.SearchResults)
	}
	return s.Filtered()
}

// Store coordinates concurrent updates to the queue snapshot. Entries are
// only ever replaced wholesale.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	issued  uint64 // last reload ticket handed out
	applied uint64 // newest ticket whose result reached the snapshot
}

// ReplaceAll swaps in a fresh list of entries.
func (s *Store) ReplaceAll(entries []queue.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(entries)
}

// Fail records a reload failure. The snapshot is emptied rather than left
// stale.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLocked(err)
}

// Ticket reserves an ordering number for a reload about to be issued.
func (s *Store) Ticket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// ReplaceAllIfCurrent applies entries unless a reload with a later ticket has
// already been applied. It reports whether the entries were applied.
func (s *Store) ReplaceAllIfCurrent(ticket uint64, entries []queue.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.applied {
		return false
	}
	s.applied = ticket
	s.replaceLocked(entries)
	return true
}

// FailIfCurrent is Fail with the same ticket rule as ReplaceAllIfCurrent.
func (s *Store) FailIfCurrent(ticket uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.applied {
		return false
	}
	s.applied = ticket
	s.failLocked(err)
	return true
}

func (s *Store) replaceLocked(entries []queue.Entry) {
	s.snapshot.Entries = cloneEntries(entries)
	s.snapshot.Stats = computeStats(s.snapshot.Entries)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

func (s *Store) failLocked(err error) {
	s.snapshot.Entries = nil
	s.snapshot.SearchResults = nil
	s.snapshot.Stats = Stats{}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// SetFilter changes the active queue type filter.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Filter = f
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Filter == "" {
		return FilterAll
	}
	return s.snapshot.Filter
}

// Filtered returns entries matching the active filter in snapshot order.
func (s *Store) Filtered() []queue.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterEntries(s.snapshot.Entries, s.snapshot.Filter)
}

// SetSearch stores the server's result set for term. A blank term clears the
// search instead.
func (s *Store) SetSearch(term string, results []queue.Entry) {
	term = strings.TrimSpace(term)
	s.mu.Lock()
	defer s.mu.Unlock()
	if term == "" {
		s.snapshot.SearchTerm = ""
		s.snapshot.SearchResults = nil
		return
	}
	s.snapshot.SearchTerm = term
	s.snapshot.SearchResults = cloneEntries(results)
}

// RefreshSearch replaces the results of an active search. It does nothing and
// returns false when term is no longer the active search.
func (s *Store) RefreshSearch(term string, results []queue.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if term == "" || s.snapshot.SearchTerm != term {
		return false
	}
	s.snapshot.SearchResults = cloneEntries(results)
	return true
}

// ClearSearchIf drops the search only while term is still the active one.
func (s *Store) ClearSearchIf(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if term == "" || s.snapshot.SearchTerm != term {
		return false
	}
	s.snapshot.SearchTerm = ""
	s.snapshot.SearchResults = nil
	return true
}

// ClearSearch drops the active search so View falls back to Filtered.
func (s *Store) ClearSearch() {
	s.SetSearch("", nil)
}

// SearchTerm returns the active search term, or "".
func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.SearchTerm
}

// View returns the active projection.
func (s *Store) View() []queue.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.View()
}

// Stats returns the current aggregates.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Stats
}

// WaitingCount counts Waiting entries of type t.
func (s *Store) WaitingCount(t queue.Type) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.snapshot.Entries {
		if e.Status == queue.StatusWaiting && e.Type == t {
			n++
		}
	}
	return n
}

// Entries returns a copy of the full snapshot list.
func (s *Store) Entries() []queue.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.snapshot.Entries)
}

// Lookup finds an entry by id in the snapshot, then in search results.
func (s *Store) Lookup(id int64) (queue.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]queue.Entry{s.snapshot.Entries, s.snapshot.SearchResults} {
		for _, e := range list {
			if e.ID == id {
				return e.Clone(), true
			}
		}
	}
	return queue.Entry{}, false
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = cloneEntries(s.snapshot.Entries)
	snap.SearchResults = cloneEntries(s.snapshot.SearchResults)
	if snap.Filter == "" {
		snap.Filter = FilterAll
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func filterEntries(entries []queue.Entry, f Filter) []queue.Entry {
	out := make([]queue.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e.Type) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func computeStats(entries []queue.Entry) Stats {
	var stats Stats
	waitSum := 0
	for _, e := range entries {
		switch e.Status {
		case queue.StatusWaiting:
			stats.Waiting++
			waitSum += e.EstimatedWait
		case queue.StatusSeated:
			stats.Seated++
		case queue.StatusDone:
			stats.Done++
		}
	}
	stats.Total = len(entries)
	if stats.Waiting > 0 {
		stats.AverageWait = int(math.Round(float64(waitSum) / float64(stats.Waiting)))
	}
	return stats
}

func cloneEntries(entries []queue.Entry) []queue.Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]queue.Entry, len(entries))
	for i, e := range entries {
		dup[i] = e.Clone()
	}
	return dup
}
