package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Loekiboy/loek-it-up/internal/api/shared"
	"github.com/Loekiboy/loek-it-up/internal/service"
	"github.com/Loekiboy/loek-it-up/internal/study"
	"github.com/Loekiboy/loek-it-up/internal/study/match"
)

// StudyHandler handles the study session endpoints. All session state
// lives in the StudyService's single slot; the handler only translates
// HTTP to service calls.
type StudyHandler struct {
	studyService *service.StudyService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler with the given dependencies.
func NewStudyHandler(studyService *service.StudyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
		validator:    validator.New(),
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// Start handles POST /study/session.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	if !req.Mode.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}
	if req.Direction != "" && !req.Direction.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown question direction")
		return
	}

	opts := service.StartOptions{
		WordIDs:   req.WordIDs,
		Direction: req.Direction,
		Stages:    req.Stages,
	}
	if req.Match != nil {
		opts.Match = *req.Match
	} else {
		opts.Match = match.DefaultOptions()
	}

	state, err := h.studyService.Start(r.Context(), userID, req.ListID, req.Mode, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, state)
}

// Resume handles POST /study/session/resume, rebuilding a session from
// its stored snapshot.
func (h *StudyHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ResumeSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	if !req.Mode.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	state, err := h.studyService.Resume(r.Context(), userID, req.ListID, req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to resume session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// State handles GET /study/session.
func (h *StudyHandler) State(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	state, err := h.studyService.State(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session state")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// Answer handles POST /study/session/answer.
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := h.studyService.SubmitAnswer(r.Context(), userID, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// Flip handles POST /study/session/flip, revealing the card back in the
// staged-learning flash stage.
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.studyService.Flip(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to flip card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Mark handles POST /study/session/mark, grading a flashcard as known
// or unknown.
func (h *StudyHandler) Mark(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req MarkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res, err := h.studyService.Mark(r.Context(), userID, req.Known)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to mark card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// Pick handles POST /study/session/pick, selecting a card on the
// matching board.
func (h *StudyHandler) Pick(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req PickRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	res, err := h.studyService.Pick(r.Context(), userID, req.CardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to pick card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// Override handles POST /study/session/override, accepting a previously
// wrong answer as correct.
func (h *StudyHandler) Override(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req OverrideRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.studyService.Override(r.Context(), userID, req.WordID); err != nil {
		HandleAPIError(w, r, err, "Failed to override answer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /study/session/summary.
func (h *StudyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.studyService.Summary(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session summary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// Exit handles DELETE /study/session. The last stored snapshot survives
// so an unfinished session can be resumed later.
func (h *StudyHandler) Exit(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.studyService.Exit(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to exit session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DiscardSnapshot handles DELETE /study/snapshots/{listID}/{mode}, the
// "start over" flow.
func (h *StudyHandler) DiscardSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "listID", h.logger)
	if !ok {
		return
	}

	mode := study.Mode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	if err := h.studyService.DiscardSnapshot(r.Context(), userID, listID, mode); err != nil {
		HandleAPIError(w, r, err, "Failed to discard saved session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
