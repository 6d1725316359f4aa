package contract

import (
	"context"
	"errors"

	"goodvibes-bot/internal/model"
)

// ErrNotFound is returned when a natural-key lookup matches no store row.
var ErrNotFound = errors.New("record not found")

// IRecordRepository is the domain view of the remote tabular store.
type IRecordRepository interface {
	// Append persists one fully validated record as a new row.
	Append(ctx context.Context, rec *model.VibeRecord) error

	// ListValid returns every well-formed record with its sheet row index.
	// Malformed rows are skipped, never fatal.
	ListValid(ctx context.Context) ([]model.VibeRecord, error)

	// ListRecent renders the valid records sorted by date descending with
	// 1-based per-session positions, returning the human-readable listing
	// and the position-to-reference mapping. Both are empty when the store
	// holds no valid records.
	ListRecent(ctx context.Context) (string, map[int]model.RecordRef, error)

	// FindByNameDate looks up the first valid row matching the (name, date)
	// natural key. ErrNotFound when nothing matches.
	FindByNameDate(ctx context.Context, name, date string) (*model.RecordRef, error)

	// UpdateField writes one cell of the referenced row.
	UpdateField(ctx context.Context, ref model.RecordRef, change model.FieldChange) error

	// ClearRow blanks the referenced row without shifting later rows.
	ClearRow(ctx context.Context, ref model.RecordRef) error
}

// ISessionRepository is the registry of active conversation sessions,
// keyed by user identity.
type ISessionRepository interface {
	Save(session *model.Session)
	Get(userID int64) (*model.Session, bool)
	Delete(userID int64)
}
