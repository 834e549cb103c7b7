package repository

import (
	"context"
	"errors"

	"github.com/hrtools/rptracker/internal/model"
)

var ErrNotFound = errors.New("not found")

// SnapshotStore persists the entire application state as a single document.
// Load returns the full snapshot; Save overwrites it wholesale. Callers own
// the read-modify-write cycle — there is no partial-patch operation.
type SnapshotStore interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snap *model.Snapshot) error
}
