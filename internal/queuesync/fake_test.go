package queuesync

import (
	"context"
	"sync"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
)

type pendingList struct {
	release chan []queue.Entry
}

// scriptedAPI answers the calls a test scripts and panics on the rest via the
// nil embedded interface.
type scriptedAPI struct {
	api.QueueAPI

	pending   chan *pendingList
	searchErr error
	updateErr error

	mu    sync.Mutex
	lists int
}

func (s *scriptedAPI) ListQueue(ctx context.Context) ([]queue.Entry, error) {
	s.mu.Lock()
	s.lists++
	s.mu.Unlock()
	if s.pending == nil {
		return nil, nil
	}
	p := &pendingList{release: make(chan []queue.Entry)}
	s.pending <- p
	return <-p.release, nil
}

func (s *scriptedAPI) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func (s *scriptedAPI) Search(ctx context.Context, term string) ([]queue.Entry, error) {
	return nil, s.searchErr
}

func (s *scriptedAPI) UpdateStatus(ctx context.Context, id int64, status queue.Status) error {
	return s.updateErr
}
