package queue

import (
	"fmt"
	"sync"
)

// NumberGenerator hands out provisional queue numbers for display while a
// create request is in flight. The counter is shared by both queue types and
// advances on every call; the server's number replaces it once known.
type NumberGenerator struct {
	mu   sync.Mutex
	next int
}

// Next returns the next provisional number for t, e.g. "T001" or "K002".
func (g *NumberGenerator) Next(t Type) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next < 1 {
		g.next = 1
	}
	n := g.next
	g.next++
	return fmt.Sprintf("%s%03d", t.Prefix(), n)
}
