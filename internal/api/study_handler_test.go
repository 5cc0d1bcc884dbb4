package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loekiboy/loek-it-up/internal/api/shared"
	"github.com/Loekiboy/loek-it-up/internal/config"
	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/service"
	"github.com/Loekiboy/loek-it-up/internal/store"
	"github.com/Loekiboy/loek-it-up/internal/study"
)

// memListStore serves one fixed list.
type memListStore struct {
	list *domain.WordList
}

func (m *memListStore) Create(ctx context.Context, list *domain.WordList) error { return nil }

func (m *memListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WordList, error) {
	if m.list == nil || m.list.ID != id {
		return nil, store.ErrWordListNotFound
	}
	return m.list, nil
}

func (m *memListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WordList, error) {
	return []*domain.WordList{m.list}, nil
}

func (m *memListStore) Update(ctx context.Context, list *domain.WordList) error { return nil }
func (m *memListStore) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (m *memListStore) WithTx(tx *sql.Tx) store.WordListStore                   { return m }

// memStatsStore accepts every answer.
type memStatsStore struct{}

func (memStatsStore) RecordAnswer(ctx context.Context, wordID uuid.UUID, correct bool) error {
	return nil
}
func (memStatsStore) RecordOverride(ctx context.Context, wordID uuid.UUID) error { return nil }
func (memStatsStore) WithTx(tx *sql.Tx) store.WordStatsStore                     { return memStatsStore{} }

// memSnapshotStore keeps the latest snapshot per key.
type memSnapshotStore struct {
	snaps map[string]*study.Snapshot
}

func (m *memSnapshotStore) key(userID, listID uuid.UUID, mode study.Mode) string {
	return userID.String() + listID.String() + string(mode)
}

func (m *memSnapshotStore) Save(ctx context.Context, userID uuid.UUID, snap *study.Snapshot) error {
	if m.snaps == nil {
		m.snaps = make(map[string]*study.Snapshot)
	}
	m.snaps[m.key(userID, snap.ListID, snap.Mode)] = snap
	return nil
}

func (m *memSnapshotStore) Get(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) (*study.Snapshot, error) {
	snap, ok := m.snaps[m.key(userID, listID, mode)]
	if !ok {
		return nil, store.ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *memSnapshotStore) Delete(ctx context.Context, userID, listID uuid.UUID, mode study.Mode) error {
	delete(m.snaps, m.key(userID, listID, mode))
	return nil
}

func studyTestRouter(t *testing.T, userID uuid.UUID, list *domain.WordList) http.Handler {
	t.Helper()

	cfg := config.StudyConfig{
		AdvanceDelayCorrectMS: 600,
		AdvanceDelayWrongMS:   900,
		ConnectLockoutMS:      450,
	}
	svc := service.NewStudyService(&memListStore{list: list}, memStatsStore{}, &memSnapshotStore{}, cfg, discardLogger())
	h := NewStudyHandler(svc, discardLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/study/session", h.Start)
	r.Post("/study/session/resume", h.Resume)
	r.Get("/study/session", h.State)
	r.Post("/study/session/answer", h.Answer)
	r.Post("/study/session/flip", h.Flip)
	r.Post("/study/session/mark", h.Mark)
	r.Post("/study/session/pick", h.Pick)
	r.Post("/study/session/override", h.Override)
	r.Get("/study/session/summary", h.Summary)
	r.Delete("/study/session", h.Exit)
	r.Delete("/study/snapshots/{listID}/{mode}", h.DiscardSnapshot)
	return r
}

func studyTestList(userID uuid.UUID, n int) *domain.WordList {
	list := domain.NewWordList(userID, "Unit 3", "nl", "en")
	pairs := [][2]string{
		{"huis", "house"},
		{"fiets", "bicycle"},
		{"kat", "cat"},
		{"brood", "bread"},
	}
	for i := 0; i < n && i < len(pairs); i++ {
		word, _ := domain.NewWord(list.ID, pairs[i][0], pairs[i][1])
		list.Words = append(list.Words, *word)
	}
	return list
}

func TestStudySessionOverHTTP(t *testing.T) {
	userID := uuid.New()
	list := studyTestList(userID, 3)
	router := studyTestRouter(t, userID, list)

	defs := make(map[uuid.UUID]string)
	for i := range list.Words {
		defs[list.Words[i].ID] = list.Words[i].Definition
	}

	w := doJSON(t, router, http.MethodPost, "/study/session", StartSessionRequest{
		ListID: list.ID,
		Mode:   study.ModeTyping,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var state service.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotNil(t, state.Question)
	assert.Equal(t, study.ModeTyping, state.Mode)

	// Answer every question correctly until the session completes.
	for i := 0; i < 30; i++ {
		w = doJSON(t, router, http.MethodGet, "/study/session", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		if state.Completed {
			break
		}

		w = doJSON(t, router, http.MethodPost, "/study/session/answer", AnswerRequest{
			Answer: defs[state.Question.WordID],
		})
		require.Equal(t, http.StatusOK, w.Code)

		var res study.GradeResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Correct)
	}
	require.True(t, state.Completed)

	w = doJSON(t, router, http.MethodGet, "/study/session/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary study.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.CorrectCount)
	assert.Equal(t, study.OutcomeFinished, summary.Outcome)

	w = doJSON(t, router, http.MethodDelete, "/study/session", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStudyStartUnknownMode(t *testing.T) {
	userID := uuid.New()
	list := studyTestList(userID, 2)
	router := studyTestRouter(t, userID, list)

	w := doJSON(t, router, http.MethodPost, "/study/session", map[string]any{
		"list_id": list.ID,
		"mode":    "osmosis",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudyStateWithoutSession(t *testing.T) {
	userID := uuid.New()
	router := studyTestRouter(t, userID, studyTestList(userID, 2))

	w := doJSON(t, router, http.MethodGet, "/study/session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No active study session")
}

func TestStudyWrongModeEvent(t *testing.T) {
	userID := uuid.New()
	list := studyTestList(userID, 2)
	router := studyTestRouter(t, userID, list)

	w := doJSON(t, router, http.MethodPost, "/study/session", StartSessionRequest{
		ListID: list.ID,
		Mode:   study.ModeFlashcards,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/study/session/answer", AnswerRequest{Answer: "house"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/study/session/mark", MarkRequest{Known: true})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStudyResumeWithoutSnapshot(t *testing.T) {
	userID := uuid.New()
	list := studyTestList(userID, 2)
	router := studyTestRouter(t, userID, list)

	w := doJSON(t, router, http.MethodPost, "/study/session/resume", ResumeSessionRequest{
		ListID: list.ID,
		Mode:   study.ModeTyping,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No saved session to resume")
}

func TestStudyDiscardSnapshot(t *testing.T) {
	userID := uuid.New()
	list := studyTestList(userID, 2)
	router := studyTestRouter(t, userID, list)

	w := doJSON(t, router, http.MethodDelete,
		"/study/snapshots/"+list.ID.String()+"/typing", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete,
		"/study/snapshots/"+list.ID.String()+"/osmosis", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
