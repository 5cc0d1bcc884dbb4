package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

// fakeListStore is an in-memory WordListStore for service tests.
type fakeListStore struct {
	lists map[uuid.UUID]*domain.WordList
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{lists: make(map[uuid.UUID]*domain.WordList)}
}

func (f *fakeListStore) Create(ctx context.Context, list *domain.WordList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	clone := *list
	clone.Words = append([]domain.Word(nil), list.Words...)
	f.lists[list.ID] = &clone
	return nil
}

func (f *fakeListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WordList, error) {
	list, ok := f.lists[id]
	if !ok {
		return nil, store.ErrWordListNotFound
	}
	clone := *list
	clone.Words = append([]domain.Word(nil), list.Words...)
	return &clone, nil
}

func (f *fakeListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WordList, error) {
	var out []*domain.WordList
	for _, list := range f.lists {
		if list.UserID == userID {
			out = append(out, list)
		}
	}
	return out, nil
}

func (f *fakeListStore) Update(ctx context.Context, list *domain.WordList) error {
	if _, ok := f.lists[list.ID]; !ok {
		return store.ErrWordListNotFound
	}
	return f.Create(ctx, list)
}

func (f *fakeListStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.lists[id]; !ok {
		return store.ErrWordListNotFound
	}
	delete(f.lists, id)
	return nil
}

func (f *fakeListStore) WithTx(tx *sql.Tx) store.WordListStore { return f }

// fakeGenerator returns canned example sentences.
type fakeGenerator struct {
	sentences map[string]string
	err       error
}

func (g *fakeGenerator) ExampleSentences(ctx context.Context, language string, terms []string) (map[string]string, error) {
	return g.sentences, g.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// txDB returns a sqlmock DB that accepts any number of begin/commit
// pairs, for services that only use the transaction as a scope.
func txDB(t *testing.T, transactions int) *sql.DB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < transactions; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return db
}

func TestParseTSV(t *testing.T) {
	svc := NewWordListService(newFakeListStore(), txDB(t, 0), nil, testLogger())

	entries, err := svc.ParseTSV("huis\thouse\nfiets\tbicycle\nno-tab-line\n\t\nkat\tcat")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "huis", entries[0].Term)
	assert.Equal(t, "house", entries[0].Definition)
	assert.Equal(t, "kat", entries[2].Term)

	_, err = svc.ParseTSV("just some text without tabs")
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestCreateAndGetList(t *testing.T) {
	userID := uuid.New()
	svc := NewWordListService(newFakeListStore(), txDB(t, 1), nil, testLogger())

	list, err := svc.CreateList(context.Background(), userID, ListUpdate{
		Title:    "Unit 3",
		LangFrom: "nl",
		LangTo:   "en",
		Words: []WordEntry{
			{Term: "huis", Definition: "house"},
			{Term: "fiets", Definition: "bicycle"},
		},
	})
	require.NoError(t, err)
	require.Len(t, list.Words, 2)

	got, err := svc.GetList(context.Background(), userID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unit 3", got.Title)

	_, err = svc.GetList(context.Background(), uuid.New(), list.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = svc.GetList(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, store.ErrWordListNotFound)
}

func TestUpdateListKeepsWordIdentity(t *testing.T) {
	userID := uuid.New()
	svc := NewWordListService(newFakeListStore(), txDB(t, 2), nil, testLogger())

	list, err := svc.CreateList(context.Background(), userID, ListUpdate{
		Title:    "Unit 3",
		LangFrom: "nl",
		LangTo:   "en",
		Words:    []WordEntry{{Term: "huis", Definition: "house"}},
	})
	require.NoError(t, err)
	keptID := list.Words[0].ID

	updated, err := svc.UpdateList(context.Background(), userID, list.ID, ListUpdate{
		Title:    "Unit 3 revised",
		LangFrom: "nl",
		LangTo:   "en",
		Words: []WordEntry{
			{ID: keptID, Term: "huis", Definition: "house, home"},
			{Term: "kat", Definition: "cat"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Words, 2)

	// The kept word carries its stored ID through the edit.
	assert.Equal(t, keptID, updated.Words[0].ID)
	assert.Equal(t, "house, home", updated.Words[0].Definition)
	assert.NotEqual(t, uuid.Nil, updated.Words[1].ID)
}

func TestDeleteList(t *testing.T) {
	userID := uuid.New()
	svc := NewWordListService(newFakeListStore(), txDB(t, 2), nil, testLogger())

	list, err := svc.CreateList(context.Background(), userID, ListUpdate{
		Title:    "Unit 3",
		LangFrom: "nl",
		LangTo:   "en",
		Words:    []WordEntry{{Term: "huis", Definition: "house"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(context.Background(), userID, list.ID))

	_, err = svc.GetList(context.Background(), userID, list.ID)
	assert.ErrorIs(t, err, store.ErrWordListNotFound)
}

func TestExportTSV(t *testing.T) {
	userID := uuid.New()
	svc := NewWordListService(newFakeListStore(), txDB(t, 1), nil, testLogger())

	list, err := svc.CreateList(context.Background(), userID, ListUpdate{
		Title:    "Unit 3",
		LangFrom: "nl",
		LangTo:   "en",
		Words: []WordEntry{
			{Term: "huis", Definition: "house"},
			{Term: "fiets", Definition: "bicycle"},
		},
	})
	require.NoError(t, err)

	out, err := svc.ExportTSV(context.Background(), userID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Titel:\tUnit 3\nTalen:\tnl -> en\n\nhuis\thouse\nfiets\tbicycle\n", out)
}

func TestEnrichExamples(t *testing.T) {
	userID := uuid.New()
	lists := newFakeListStore()

	disabled := NewWordListService(lists, txDB(t, 0), nil, testLogger())
	_, err := disabled.EnrichExamples(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrEnrichmentDisabled)

	gen := &fakeGenerator{sentences: map[string]string{"huis": "Ik woon in een huis."}}
	svc := NewWordListService(lists, txDB(t, 1), gen, testLogger())

	list, err := svc.CreateList(context.Background(), userID, ListUpdate{
		Title:    "Unit 3",
		LangFrom: "nl",
		LangTo:   "en",
		Words:    []WordEntry{{Term: "huis", Definition: "house"}},
	})
	require.NoError(t, err)

	sentences, err := svc.EnrichExamples(context.Background(), userID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ik woon in een huis.", sentences["huis"])
}
