// Package storage persists finished run archives. The default backend
// keeps archives in memory for the lifetime of the process; a sqlite
// backend behind the sqlite build tag keeps run history across daemon
// restarts.
package storage

import (
	"context"
	"errors"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// ErrRunNotFound is returned when no archived run matches the id.
var ErrRunNotFound = errors.New("run not found")

// Store defines persistence operations for finished runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run models.StoredRun) error
	GetRun(ctx context.Context, id string) (models.StoredRun, error)
	// ListRuns returns archived runs newest first. A non-positive
	// limit returns every archived run.
	ListRuns(ctx context.Context, limit int) ([]models.StoredRun, error)
}
