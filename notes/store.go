package notes

// The persistence collaborator for notes. The service depends only on the
// Store interface; the PostgreSQL implementation lives in postgres.go and
// tests substitute an in-memory fake.

import (
	"context"
	"errors"
)

// ErrNoteNotFound is returned by store operations when no note matches the
// given criteria. For the conditional writes (UpdateContent, Delete) it also
// covers "exists but the author does not match": the condition is part of
// the statement, so the store cannot tell the two apart. The service
// classifies before surfacing an error to the caller.
var ErrNoteNotFound = errors.New("note not found")

// Store is the persistence contract for notes.
//
// The atomicity requirements of the service live here: ToggleFavorite must
// flip set membership and adjust the counter in one atomic operation per
// note, and UpdateContent/Delete must combine the ownership condition with
// the write so there is no window between check and mutation.
type Store interface {
	// Create inserts a new note and fills in the assigned ID and timestamps.
	Create(ctx context.Context, note *Note) (*Note, error)
	// ByID returns the note with the given identifier.
	ByID(ctx context.Context, id int64) (*Note, error)
	// List returns up to limit notes in unspecified order.
	List(ctx context.Context, limit int) ([]Note, error)
	// ListBefore returns up to limit notes ordered newest first (descending
	// id). When cursor is non-nil only notes with id strictly less than the
	// cursor are returned; the cursor is treated purely as a bound, never as
	// an existence check.
	ListBefore(ctx context.Context, cursor *int64, limit int) ([]Note, error)
	// UpdateContent replaces the content of the note only if it is authored
	// by authorID, returning the updated note. ErrNoteNotFound when no row
	// matched.
	UpdateContent(ctx context.Context, id, authorID int64, content string) (*Note, error)
	// Delete removes the note only if it is authored by authorID.
	// ErrNoteNotFound when no row matched.
	Delete(ctx context.Context, id, authorID int64) error
	// ToggleFavorite atomically adds userID to the note's favorited-by set
	// (incrementing the counter) when absent, or removes it (decrementing)
	// when present, and returns the updated note.
	ToggleFavorite(ctx context.Context, id, userID int64) (*Note, error)
}
