package notes

// This file contains the note business logic: the guard-gated mutations, the
// feed paginator, and the favorite toggler. All atomicity lives in the store
// (single conditional statements); the service sequences guards and
// classifies failures.

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/auth"
)

// NoteService provides note operations on top of the persistence
// collaborator.
type NoteService struct {
	store Store
	log   *logrus.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(store Store, log *logrus.Logger) *NoteService {
	return &NoteService{store: store, log: log}
}

// Create persists a new note authored by the caller, with an empty
// favorited-by set and a zero counter.
func (s *NoteService) Create(ctx context.Context, content string, caller *auth.Identity) (*Note, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	note := &Note{
		Content:  content,
		AuthorID: caller.UserID,
	}
	created, err := s.store.Create(ctx, note)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create note", err)
	}

	s.log.WithFields(logrus.Fields{"note_id": created.ID, "user_id": caller.UserID}).Info("note created")
	return created, nil
}

// Get returns a single note.
func (s *NoteService) Get(ctx context.Context, id int64) (*Note, error) {
	note, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, apperror.NewNotFoundError("note not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get note", err)
	}
	return note, nil
}

// List returns up to ListLimit notes in unspecified order.
func (s *NoteService) List(ctx context.Context) ([]Note, error) {
	notes, err := s.store.List(ctx, ListLimit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list notes", err)
	}
	return notes, nil
}

// Feed returns one page of the note feed, newest first.
//
// The store is asked for one more note than the page size; a full
// page-plus-one means there are older notes beyond this page. The cursor of
// the returned page is the id of its oldest note and is absent for an empty
// page.
func (s *NoteService) Feed(ctx context.Context, cursor *int64) (*FeedResponse, error) {
	notes, err := s.store.ListBefore(ctx, cursor, FeedPageSize+1)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query note feed", err)
	}

	hasNextPage := false
	if len(notes) > FeedPageSize {
		hasNextPage = true
		notes = notes[:FeedPageSize]
	}

	resp := &FeedResponse{
		Notes:       notes,
		HasNextPage: hasNextPage,
	}
	if len(notes) > 0 {
		next := notes[len(notes)-1].ID
		resp.Cursor = &next
	}
	return resp, nil
}

// Update replaces a note's content. The caller must be authenticated and
// must be the note's author. A missing note is NotFound; an existing note
// with a different author is Forbidden. NotFound takes precedence over
// Forbidden.
func (s *NoteService) Update(ctx context.Context, id int64, content string, caller *auth.Identity) (*Note, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	note, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, apperror.NewNotFoundError("note not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get note", err)
	}
	if err := auth.RequireOwnership(caller, note.AuthorID); err != nil {
		return nil, err
	}

	// The write re-checks authorship inside the statement, so even if the
	// note was deleted between the read above and this write, nothing is
	// overwritten blindly.
	updated, err := s.store.UpdateContent(ctx, id, caller.UserID, content)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			// The note disappeared after the ownership read.
			return nil, apperror.NewNotFoundError("note not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update note", err)
	}
	return updated, nil
}

// Delete removes a note. Guards mirror Update: authenticated, then NotFound
// for a missing note, then Forbidden for a non-author. Past the guards the
// result is a plain boolean: a storage failure on the final removal reports
// deleted=false with a nil error.
func (s *NoteService) Delete(ctx context.Context, id int64, caller *auth.Identity) (bool, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return false, err
	}

	note, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return false, apperror.NewNotFoundError("note not found", nil)
		}
		return false, apperror.NewDatabaseError("failed to get note", err)
	}
	if err := auth.RequireOwnership(caller, note.AuthorID); err != nil {
		return false, err
	}

	if err := s.store.Delete(ctx, id, caller.UserID); err != nil {
		s.log.WithError(err).WithField("note_id", id).Warn("note removal failed")
		return false, nil
	}

	s.log.WithFields(logrus.Fields{"note_id": id, "user_id": caller.UserID}).Info("note deleted")
	return true, nil
}

// ToggleFavorite flips the caller's membership in the note's favorited-by
// set. Applying it twice returns the note to its original state; each single
// call flips. The store performs the flip as one atomic command, so two
// concurrent toggles by different callers are both reflected.
func (s *NoteService) ToggleFavorite(ctx context.Context, id int64, caller *auth.Identity) (*Note, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	note, err := s.store.ToggleFavorite(ctx, id, caller.UserID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, apperror.NewNotFoundError("note not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to toggle favorite", err)
	}
	return note, nil
}
