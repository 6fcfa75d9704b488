// Package notes is responsible for everything related to notes: creation,
// content updates, deletion, single and bulk reads, the cursor-paginated
// feed, and favorite toggling. It follows the modular structure of the other
// feature packages (models / store / service / handlers).
package notes

import "time"

// FeedPageSize is the fixed page size of the note feed.
const FeedPageSize = 10

// ListLimit caps the unpaginated notes listing.
const ListLimit = 100

// Note represents a note in the system.
// FavoriteCount is a denormalized cache of len(FavoritedBy); the two are
// only ever written together, in a single statement, so the invariant
// favorite_count == |favorited_by| holds at all times.
type Note struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	// AuthorID is set from the authenticated caller at creation and never
	// changes afterwards.
	AuthorID      int64     `json:"author_id"`
	FavoritedBy   []int64   `json:"favorited_by"`
	FavoriteCount int       `json:"favorite_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsFavoritedBy reports whether the given user is in the note's
// favorited-by set.
func (n *Note) IsFavoritedBy(userID int64) bool {
	for _, id := range n.FavoritedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// NewNoteRequest is the payload for creating a note.
type NewNoteRequest struct {
	Content string `json:"content" example:"An idea worth writing down"`
}

// UpdateNoteRequest is the payload for replacing a note's content.
type UpdateNoteRequest struct {
	Content string `json:"content" example:"The idea, revised"`
}

// DeleteNoteResponse reports whether the note was removed.
type DeleteNoteResponse struct {
	Deleted bool `json:"deleted"`
}

// FeedResponse is one page of the note feed, newest first.
// Cursor is the id of the oldest note in this page; it is absent when the
// page is empty, and callers must not request a next page then.
type FeedResponse struct {
	Notes       []Note `json:"notes"`
	Cursor      *int64 `json:"cursor,omitempty"`
	HasNextPage bool   `json:"has_next_page"`
}
