package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/cpusim/internal/logging"
	"github.com/me/cpusim/pkg/model"
)

// MemoryStore is an in-process Store. Runs are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]*model.Run
	order  []string // oldest first
	max    int
	logger *slog.Logger
}

// NewMemoryStore creates a store holding at most maxRuns runs; the oldest run
// is evicted to make room. maxRuns <= 0 means unbounded.
func NewMemoryStore(maxRuns int, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &MemoryStore{
		runs:   make(map[string]*model.Run),
		max:    maxRuns,
		logger: logger.With("component", "store"),
	}
}

// CreateRun stores run. Its id must be unique.
func (s *MemoryStore) CreateRun(_ context.Context, run *model.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)

	for s.max > 0 && len(s.order) > s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
		s.logger.Debug("run evicted", "id", oldest)
	}
	s.logger.Debug("run stored", "id", run.ID, "total", len(s.order))
	return nil
}

// GetRun returns the run with id, or nil if there is none.
func (s *MemoryStore) GetRun(_ context.Context, id string) (*model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs[id], nil
}

// ListRuns returns runs newest first, filtered by opts.Policy when set.
func (s *MemoryStore) ListRuns(_ context.Context, opts model.ListOptions) ([]*model.Run, int, error) {
	opts.Clamp()
	filter, err := opts.PolicyFilter()
	if err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		run := s.runs[s.order[i]]
		if filter != "" && run.Report.Policy != filter {
			continue
		}
		matched = append(matched, run)
	}

	total := len(matched)
	if opts.Offset >= total {
		return []*model.Run{}, total, nil
	}
	end := min(opts.Offset+opts.Limit, total)
	return matched[opts.Offset:end], total, nil
}

// DeleteRun removes the run with id. Deleting an unknown id is a not-found error.
func (s *MemoryStore) DeleteRun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return model.NewNotFoundError("simulation", id)
	}
	delete(s.runs, id)
	for i, rid := range s.order {
		if rid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close releases nothing; it exists to satisfy Store.
func (s *MemoryStore) Close() error { return nil }
var _ Store = (*MemoryStore)(nil)
