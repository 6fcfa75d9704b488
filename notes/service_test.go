package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/auth"
)

// --- helpers ---

// fakeStore is an in-memory Store for service tests. Each method takes the
// lock once, mirroring the per-statement atomicity of the real store.
type fakeStore struct {
	mu     sync.Mutex
	notes  map[int64]*Note
	nextID int64

	deleteErr error // injected failure for the removal-swallowing test
}

func newFakeStore() *fakeStore {
	return &fakeStore{notes: make(map[int64]*Note)}
}

func (f *fakeStore) Create(ctx context.Context, note *Note) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	note.ID = f.nextID
	note.FavoritedBy = []int64{}
	note.FavoriteCount = 0
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	stored := *note
	f.notes[note.ID] = &stored
	return note, nil
}

func (f *fakeStore) ByID(ctx context.Context, id int64) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	copied := *note
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context, limit int) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Note{}
	for _, note := range f.notes {
		if len(out) == limit {
			break
		}
		out = append(out, *note)
	}
	return out, nil
}

func (f *fakeStore) ListBefore(ctx context.Context, cursor *int64, limit int) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.notes))
	for id := range f.notes {
		if cursor == nil || id < *cursor {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := []Note{}
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, *f.notes[id])
	}
	return out, nil
}

func (f *fakeStore) UpdateContent(ctx context.Context, id, authorID int64, content string) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok || note.AuthorID != authorID {
		return nil, ErrNoteNotFound
	}
	note.Content = content
	note.UpdatedAt = time.Now()
	copied := *note
	return &copied, nil
}

func (f *fakeStore) Delete(ctx context.Context, id, authorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	note, ok := f.notes[id]
	if !ok || note.AuthorID != authorID {
		return ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) ToggleFavorite(ctx context.Context, id, userID int64) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	if note.IsFavoritedBy(userID) {
		kept := make([]int64, 0, len(note.FavoritedBy)-1)
		for _, uid := range note.FavoritedBy {
			if uid != userID {
				kept = append(kept, uid)
			}
		}
		note.FavoritedBy = kept
		note.FavoriteCount--
	} else {
		note.FavoritedBy = append(note.FavoritedBy, userID)
		note.FavoriteCount++
	}
	note.UpdatedAt = time.Now()
	copied := *note
	return &copied, nil
}

func newTestService(store Store) *NoteService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewNoteService(store, log)
}

func seedNotes(t *testing.T, svc *NoteService, authorID int64, count int) {
	t.Helper()
	caller := &auth.Identity{UserID: authorID}
	for i := 1; i <= count; i++ {
		_, err := svc.Create(context.Background(), fmt.Sprintf("note %d", i), caller)
		require.NoError(t, err)
	}
}

func noteIDs(notes []Note) []int64 {
	ids := make([]int64, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids
}

// --- create ---

func TestCreateNote(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	caller := &auth.Identity{UserID: 3}

	note, err := svc.Create(context.Background(), "hello", caller)
	require.NoError(t, err)

	assert.Equal(t, "hello", note.Content)
	assert.Equal(t, int64(3), note.AuthorID)
	// A fresh note always starts with no favorites, regardless of content.
	assert.Empty(t, note.FavoritedBy)
	assert.Equal(t, 0, note.FavoriteCount)
}

func TestCreateNoteRequiresAuth(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Create(context.Background(), "hello", nil)
	assert.True(t, apperror.IsUnauthenticated(err))
}

// --- feed ---

func TestFeedPaginatesNewestFirst(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 25)

	// First page: the 10 newest notes, ids 25..16.
	page1, err := svc.Feed(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{25, 24, 23, 22, 21, 20, 19, 18, 17, 16}, noteIDs(page1.Notes))
	assert.True(t, page1.HasNextPage)
	require.NotNil(t, page1.Cursor)
	assert.Equal(t, int64(16), *page1.Cursor)

	// Second page continues strictly below the cursor.
	page2, err := svc.Feed(context.Background(), page1.Cursor)
	require.NoError(t, err)
	assert.Equal(t, []int64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6}, noteIDs(page2.Notes))
	assert.True(t, page2.HasNextPage)
	require.NotNil(t, page2.Cursor)
	assert.Equal(t, int64(6), *page2.Cursor)

	// Third page holds the remaining 5 and reports no further pages.
	page3, err := svc.Feed(context.Background(), page2.Cursor)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, noteIDs(page3.Notes))
	assert.False(t, page3.HasNextPage)
	require.NotNil(t, page3.Cursor)
	assert.Equal(t, int64(1), *page3.Cursor)
}

func TestFeedEmpty(t *testing.T) {
	svc := newTestService(newFakeStore())

	feed, err := svc.Feed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, feed.Notes)
	assert.False(t, feed.HasNextPage)
	assert.Nil(t, feed.Cursor)
}

func TestFeedCursorOlderThanAllNotes(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 3)

	cursor := int64(1)
	feed, err := svc.Feed(context.Background(), &cursor)
	require.NoError(t, err)
	assert.Empty(t, feed.Notes)
	assert.False(t, feed.HasNextPage)
	assert.Nil(t, feed.Cursor)
}

func TestFeedCursorIsABoundNotAnExistenceCheck(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 5)

	// No note has id 1000; the cursor still works as an upper bound.
	cursor := int64(1000)
	feed, err := svc.Feed(context.Background(), &cursor)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, noteIDs(feed.Notes))
	assert.False(t, feed.HasNextPage)
}

func TestFeedExactPageBoundary(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, FeedPageSize)

	feed, err := svc.Feed(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, feed.Notes, FeedPageSize)
	// Exactly one page of notes: full page, nothing beyond it.
	assert.False(t, feed.HasNextPage)
}

// --- favorite toggling ---

func TestToggleFavoriteFlipsAndKeepsCounterConsistent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)
	caller := &auth.Identity{UserID: 2}

	first, err := svc.ToggleFavorite(context.Background(), 1, caller)
	require.NoError(t, err)
	assert.True(t, first.IsFavoritedBy(2))
	assert.Equal(t, len(first.FavoritedBy), first.FavoriteCount)
	assert.Equal(t, 1, first.FavoriteCount)

	// Toggle is its own inverse: a second call restores the original state.
	second, err := svc.ToggleFavorite(context.Background(), 1, caller)
	require.NoError(t, err)
	assert.False(t, second.IsFavoritedBy(2))
	assert.Equal(t, len(second.FavoritedBy), second.FavoriteCount)
	assert.Equal(t, 0, second.FavoriteCount)
}

func TestToggleFavoriteMultipleUsers(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	for userID := int64(2); userID <= 6; userID++ {
		note, err := svc.ToggleFavorite(context.Background(), 1, &auth.Identity{UserID: userID})
		require.NoError(t, err)
		// Counter tracks set cardinality after every single toggle.
		assert.Equal(t, len(note.FavoritedBy), note.FavoriteCount)
	}

	note, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, note.FavoriteCount)

	// One user un-favorites; the other four remain.
	note, err = svc.ToggleFavorite(context.Background(), 1, &auth.Identity{UserID: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, note.FavoriteCount)
	assert.False(t, note.IsFavoritedBy(4))
	assert.True(t, note.IsFavoritedBy(2))
}

func TestToggleFavoriteConcurrentCallers(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	const callers = 20
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.ToggleFavorite(context.Background(), 1, &auth.Identity{UserID: userID})
			assert.NoError(t, err)
		}(int64(i + 2))
	}
	wg.Wait()

	// Every toggle is reflected: no lost updates.
	note, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, callers, note.FavoriteCount)
	assert.Equal(t, len(note.FavoritedBy), note.FavoriteCount)
}

func TestToggleFavoriteRequiresAuth(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	_, err := svc.ToggleFavorite(context.Background(), 1, nil)
	assert.True(t, apperror.IsUnauthenticated(err))
}

func TestToggleFavoriteMissingNote(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.ToggleFavorite(context.Background(), 99, &auth.Identity{UserID: 2})
	assert.True(t, apperror.IsNotFound(err))
}

// --- update ---

func TestUpdateNoteByAuthor(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	note, err := svc.Update(context.Background(), 1, "revised", &auth.Identity{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "revised", note.Content)
	assert.Equal(t, int64(1), note.AuthorID)
}

func TestUpdateNoteByNonAuthorIsForbidden(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	_, err := svc.Update(context.Background(), 1, "hijacked", &auth.Identity{UserID: 2})
	assert.True(t, apperror.IsForbidden(err))

	// Nothing changed.
	note, getErr := svc.Get(context.Background(), 1)
	require.NoError(t, getErr)
	assert.Equal(t, "note 1", note.Content)
}

func TestUpdateNoteMissingBeatsForbidden(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	// Note 99 does not exist; a non-author caller still gets NotFound.
	_, err := svc.Update(context.Background(), 99, "content", &auth.Identity{UserID: 2})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateNoteRequiresAuth(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	_, err := svc.Update(context.Background(), 1, "content", nil)
	assert.True(t, apperror.IsUnauthenticated(err))
}

// --- delete ---

func TestDeleteNoteByAuthor(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	deleted, err := svc.Delete(context.Background(), 1, &auth.Identity{UserID: 1})
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(context.Background(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteNoteByNonAuthorIsForbidden(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)

	deleted, err := svc.Delete(context.Background(), 1, &auth.Identity{UserID: 2})
	assert.False(t, deleted)
	assert.True(t, apperror.IsForbidden(err))
}

func TestDeleteNoteMissing(t *testing.T) {
	svc := newTestService(newFakeStore())

	deleted, err := svc.Delete(context.Background(), 99, &auth.Identity{UserID: 1})
	assert.False(t, deleted)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteNoteStorageFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, 1)
	store.deleteErr = errors.New("connection reset")

	// Past the guards, a removal failure becomes a plain false, not an error.
	deleted, err := svc.Delete(context.Background(), 1, &auth.Identity{UserID: 1})
	assert.NoError(t, err)
	assert.False(t, deleted)
}

// --- reads ---

func TestListCapsAtLimit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	seedNotes(t, svc, 1, ListLimit+20)

	notes, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, ListLimit)
}

func TestGetMissingNote(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Get(context.Background(), 1)
	assert.True(t, apperror.IsNotFound(err))
}
