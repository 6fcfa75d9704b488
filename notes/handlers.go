package notes

// HTTP handlers for the notes endpoints. Identity extraction happens in the
// upstream middleware; here each operation reads the (possibly nil) caller
// from the context and lets the service apply the guard.

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/auth"
)

// Handlers wraps the NoteService to provide HTTP handlers.
type Handlers struct {
	service *NoteService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *NoteService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the note routes on the given chi router.
// Route order matters for chi: the static /feed route is registered before
// the /{id} wildcard.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/feed", h.handleFeed)
	r.Get("/{id}", h.handleGet)
	r.Post("/", h.handleCreate)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Post("/{id}/favorite", h.handleToggleFavorite)
}

// noteID parses the {id} URL parameter.
func noteID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewValidationError("invalid note id: "+raw, err)
	}
	return id, nil
}

// handleList godoc
// @Summary List notes
// @Description Returns up to 100 notes in unspecified order. No authentication required.
// @Tags Notes
// @Produce json
// @Success 200 {array} notes.Note
// @Router /api/v1/notes [get]
func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, notes)
}

// handleFeed godoc
// @Summary Note feed
// @Description Returns one page of the note feed, newest first, with a cursor for the next page.
// @Tags Notes
// @Produce json
// @Param cursor query int false "Identifier of the oldest note from the previous page"
// @Success 200 {object} notes.FeedResponse
// @Failure 400 {object} apperror.ErrorResponse "Malformed cursor"
// @Router /api/v1/notes/feed [get]
func (h *Handlers) handleFeed(w http.ResponseWriter, r *http.Request) {
	var cursor *int64
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid cursor: "+raw, err))
			return
		}
		cursor = &parsed
	}

	feed, err := h.service.Feed(r.Context(), cursor)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, feed)
}

// handleGet godoc
// @Summary Single note
// @Description Returns one note by id. No authentication required.
// @Tags Notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} notes.Note
// @Failure 404 {object} apperror.ErrorResponse "Note not found"
// @Router /api/v1/notes/{id} [get]
func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	note, err := h.service.Get(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, note)
}

// handleCreate godoc
// @Summary Create note
// @Description Creates a new note authored by the caller.
// @Tags Notes
// @Accept json
// @Produce json
// @Param noteBody body notes.NewNoteRequest true "Note content"
// @Success 201 {object} notes.Note
// @Failure 400 {object} apperror.ErrorResponse "Invalid request body"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Security BearerAuth
// @Router /api/v1/notes [post]
func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req NewNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if req.Content == "" {
		auth.WriteError(w, r, apperror.NewValidationError("content is required", nil))
		return
	}

	note, err := h.service.Create(r.Context(), req.Content, auth.IdentityFromContext(r.Context()))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, note)
}

// handleUpdate godoc
// @Summary Update note
// @Description Replaces a note's content. Only the author may update a note.
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param noteBody body notes.UpdateNoteRequest true "New note content"
// @Success 200 {object} notes.Note
// @Failure 400 {object} apperror.ErrorResponse "Invalid request body"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Failure 403 {object} apperror.ErrorResponse "Caller is not the author"
// @Failure 404 {object} apperror.ErrorResponse "Note not found"
// @Security BearerAuth
// @Router /api/v1/notes/{id} [put]
func (h *Handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if req.Content == "" {
		auth.WriteError(w, r, apperror.NewValidationError("content is required", nil))
		return
	}

	note, err := h.service.Update(r.Context(), id, req.Content, auth.IdentityFromContext(r.Context()))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, note)
}

// handleDelete godoc
// @Summary Delete note
// @Description Removes a note. Only the author may delete a note. The response carries a boolean; a storage failure during removal reports deleted=false.
// @Tags Notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} notes.DeleteNoteResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Failure 403 {object} apperror.ErrorResponse "Caller is not the author"
// @Failure 404 {object} apperror.ErrorResponse "Note not found"
// @Security BearerAuth
// @Router /api/v1/notes/{id} [delete]
func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id, auth.IdentityFromContext(r.Context()))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, DeleteNoteResponse{Deleted: deleted})
}

// handleToggleFavorite godoc
// @Summary Toggle favorite
// @Description Adds the caller to the note's favorited-by set, or removes them if already present. Any authenticated user may toggle any note.
// @Tags Notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} notes.Note
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Failure 404 {object} apperror.ErrorResponse "Note not found"
// @Security BearerAuth
// @Router /api/v1/notes/{id}/favorite [post]
func (h *Handlers) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	note, err := h.service.ToggleFavorite(r.Context(), id, auth.IdentityFromContext(r.Context()))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, note)
}
