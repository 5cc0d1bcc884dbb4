package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Loekiboy/loek-it-up/internal/api/shared"
	"github.com/Loekiboy/loek-it-up/internal/service"
)

// WordListHandler handles the word list CRUD, import/export, and
// enrichment endpoints.
type WordListHandler struct {
	listService service.WordListService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewWordListHandler creates a new WordListHandler with the given dependencies.
func NewWordListHandler(listService service.WordListService, logger *slog.Logger) *WordListHandler {
	return &WordListHandler{
		listService: listService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "word_list_handler")),
	}
}

// listUpdateFromRequest converts the request payload to the service's
// update shape.
func listUpdateFromRequest(req WordListRequest) service.ListUpdate {
	update := service.ListUpdate{
		Title:    req.Title,
		LangFrom: req.LangFrom,
		LangTo:   req.LangTo,
		Subject:  req.Subject,
		Icon:     req.Icon,
	}
	for _, w := range req.Words {
		update.Words = append(update.Words, service.WordEntry{
			ID:         w.ID,
			Term:       w.Term,
			Definition: w.Definition,
		})
	}
	return update
}

// decodeListRequest parses and validates a WordListRequest body, writing
// the error response itself on failure.
func (h *WordListHandler) decodeListRequest(w http.ResponseWriter, r *http.Request) (WordListRequest, bool) {
	var req WordListRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return req, false
	}
	return req, true
}

// Create handles POST /lists.
func (h *WordListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	req, ok := h.decodeListRequest(w, r)
	if !ok {
		return
	}

	list, err := h.listService.CreateList(r.Context(), userID, listUpdateFromRequest(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, list)
}

// List handles GET /lists.
func (h *WordListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	lists, err := h.listService.ListLists(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list word lists")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lists)
}

// Get handles GET /lists/{id}.
func (h *WordListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	list, err := h.listService.GetList(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

// Update handles PUT /lists/{id}.
func (h *WordListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	req, ok := h.decodeListRequest(w, r)
	if !ok {
		return
	}

	list, err := h.listService.UpdateList(r.Context(), userID, listID, listUpdateFromRequest(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

// Delete handles DELETE /lists/{id}.
func (h *WordListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.listService.DeleteList(r.Context(), userID, listID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete list")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /lists/import: it parses pasted tab-separated
// term/definition lines and creates a list from them.
func (h *WordListHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ImportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	entries, err := h.listService.ParseTSV(req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to parse import")
		return
	}

	update := service.ListUpdate{
		Title:    req.Title,
		LangFrom: req.LangFrom,
		LangTo:   req.LangTo,
		Subject:  req.Subject,
		Icon:     req.Icon,
		Words:    entries,
	}

	list, err := h.listService.CreateList(r.Context(), userID, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create list")
		return
	}

	h.logger.Info("list imported",
		slog.String("list_id", list.ID.String()),
		slog.Int("word_count", len(list.Words)))

	shared.RespondWithJSON(w, r, http.StatusCreated, list)
}

// Export handles GET /lists/{id}/export, returning the list as a
// tab-separated text document.
func (h *WordListHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	text, err := h.listService.ExportTSV(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export list")
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", listID.String()+".tsv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		h.logger.Error("failed to write export response", "error", err)
	}
}

// Enrich handles POST /lists/{id}/examples, generating one example
// sentence per term.
func (h *WordListHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	sentences, err := h.listService.EnrichExamples(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate example sentences")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, EnrichResponse{Sentences: sentences})
}
