// Package store keeps finished simulation runs for the API server.
package store

import (
	"context"

	"github.com/me/cpusim/pkg/model"
)

// Store defines the run registry.
type Store interface {
	CreateRun(ctx context.Context, run *model.Run) error
	// GetRun returns nil, nil when no run has the given id.
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// ListRuns returns one page of runs, newest first, and the total matching count.
	ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error)
	DeleteRun(ctx context.Context, id string) error
	Close() error
}
