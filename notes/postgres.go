package notes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the PostgreSQL-backed Store.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a PGStore on top of the shared pool.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const noteColumns = `id, content, author_id, favorited_by, favorite_count, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.Content, &n.AuthorID, &n.FavoritedBy, &n.FavoriteCount, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if n.FavoritedBy == nil {
		n.FavoritedBy = []int64{}
	}
	return &n, nil
}

// Create inserts a new note record.
func (s *PGStore) Create(ctx context.Context, note *Note) (*Note, error) {
	query := `INSERT INTO notes (content, author_id, favorited_by, favorite_count)
              VALUES ($1, $2, '{}', 0)
              RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, note.Content, note.AuthorID).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	note.FavoritedBy = []int64{}
	note.FavoriteCount = 0
	return note, nil
}

// ByID returns the note with the given identifier.
func (s *PGStore) ByID(ctx context.Context, id int64) (*Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	return scanNote(s.db.QueryRow(ctx, query, id))
}

// List returns up to limit notes.
func (s *PGStore) List(ctx context.Context, limit int) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes LIMIT $1`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

// ListBefore returns up to limit notes newest first, bounded by the cursor
// when one is supplied. Identifiers increase with creation order, so
// `id < cursor` selects strictly older notes.
func (s *PGStore) ListBefore(ctx context.Context, cursor *int64, limit int) ([]Note, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if cursor != nil {
		query := `SELECT ` + noteColumns + ` FROM notes WHERE id < $1 ORDER BY id DESC LIMIT $2`
		rows, err = s.db.Query(ctx, query, *cursor, limit)
	} else {
		query := `SELECT ` + noteColumns + ` FROM notes ORDER BY id DESC LIMIT $1`
		rows, err = s.db.Query(ctx, query, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

// UpdateContent replaces the note's content. The author condition is part of
// the statement, so the ownership check and the write happen atomically;
// there is no time-of-check-to-time-of-use window.
func (s *PGStore) UpdateContent(ctx context.Context, id, authorID int64, content string) (*Note, error) {
	query := `UPDATE notes
              SET content = $3, updated_at = now()
              WHERE id = $1 AND author_id = $2
              RETURNING ` + noteColumns
	return scanNote(s.db.QueryRow(ctx, query, id, authorID, content))
}

// Delete removes the note, conditional on authorship like UpdateContent.
func (s *PGStore) Delete(ctx context.Context, id, authorID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// ToggleFavorite flips the caller's membership in the favorited-by set and
// adjusts the counter in one UPDATE. Both CASE expressions evaluate against
// the same row snapshot, so the set and the counter always move together,
// and row-level locking makes concurrent toggles serialize without lost
// updates.
func (s *PGStore) ToggleFavorite(ctx context.Context, id, userID int64) (*Note, error) {
	query := `UPDATE notes
              SET favorited_by = CASE WHEN $2 = ANY(favorited_by)
                                      THEN array_remove(favorited_by, $2)
                                      ELSE array_append(favorited_by, $2) END,
                  favorite_count = CASE WHEN $2 = ANY(favorited_by)
                                        THEN favorite_count - 1
                                        ELSE favorite_count + 1 END,
                  updated_at = now()
              WHERE id = $1
              RETURNING ` + noteColumns
	return scanNote(s.db.QueryRow(ctx, query, id, userID))
}

func collectNotes(rows pgx.Rows) ([]Note, error) {
	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Content, &n.AuthorID, &n.FavoritedBy, &n.FavoriteCount, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		if n.FavoritedBy == nil {
			n.FavoritedBy = []int64{}
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
