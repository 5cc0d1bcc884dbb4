package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

func newWordListStore(t *testing.T) (*PostgresWordListStore, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewPostgresWordListStore(db, nil), mock, func() { _ = db.Close() }
}

func testList(t *testing.T) *domain.WordList {
	t.Helper()

	list := domain.NewWordList(uuid.New(), "Unit 3", "nl", "en")
	for _, pair := range [][2]string{{"huis", "house"}, {"fiets", "bicycle"}} {
		word, err := domain.NewWord(list.ID, pair[0], pair[1])
		require.NoError(t, err)
		list.Words = append(list.Words, *word)
	}
	return list
}

func TestWordListStoreCreate(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	list := testList(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO word_lists")).
		WithArgs(
			list.ID, list.UserID, list.Title, list.LangFrom, list.LangTo,
			list.Subject, list.Icon, list.CreatedAt, list.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO words")).
		WithArgs(list.Words[0].ID, list.ID, "huis", "house", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO words")).
		WithArgs(list.Words[1].ID, list.ID, "fiets", "bicycle", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), list))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreCreateUnknownUser(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	list := testList(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO word_lists")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	err := s.Create(context.Background(), list)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreCreateInvalidList(t *testing.T) {
	s, _, cleanup := newWordListStore(t)
	defer cleanup()

	empty := domain.NewWordList(uuid.New(), "Unit 3", "nl", "en")
	err := s.Create(context.Background(), empty)
	assert.ErrorIs(t, err, domain.ErrListNoWords)
}

func TestWordListStoreGetByID(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	listID := uuid.New()
	userID := uuid.New()
	wordID := uuid.New()
	now := time.Now().UTC()

	listRows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "lang_from", "lang_to", "subject", "icon", "created_at", "updated_at",
	}).AddRow(listID, userID, "Unit 3", "nl", "en", "Dutch", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM word_lists")).
		WithArgs(listID).
		WillReturnRows(listRows)

	wordRows := sqlmock.NewRows([]string{
		"id", "list_id", "term", "definition", "correct_count", "wrong_count",
	}).AddRow(wordID, listID, "huis", "house", 3, 1)
	mock.ExpectQuery(regexp.QuoteMeta("FROM words")).
		WithArgs(listID).
		WillReturnRows(wordRows)

	list, err := s.GetByID(context.Background(), listID)
	require.NoError(t, err)
	assert.Equal(t, "Unit 3", list.Title)
	require.Len(t, list.Words, 1)
	assert.Equal(t, "huis", list.Words[0].Term)
	assert.Equal(t, 3, list.Words[0].Stats.Correct)
	assert.Equal(t, 1, list.Words[0].Stats.Wrong)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreGetByIDNotFound(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM word_lists")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrWordListNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreListByUserEmpty(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM word_lists")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "lang_from", "lang_to", "subject", "icon", "created_at", "updated_at",
		}))

	lists, err := s.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreUpdate(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	list := testList(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE word_lists")).
		WithArgs(
			list.Title, list.LangFrom, list.LangTo, list.Subject, list.Icon,
			list.UpdatedAt, list.ID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM words")).
		WithArgs(list.ID, list.Words[0].ID, list.Words[1].ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO words")).
		WithArgs(list.Words[0].ID, list.ID, "huis", "house", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO words")).
		WithArgs(list.Words[1].ID, list.ID, "fiets", "bicycle", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Update(context.Background(), list))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreUpdateNotFound(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	list := testList(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE word_lists")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), list)
	assert.ErrorIs(t, err, store.ErrWordListNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreDelete(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM word_lists")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordListStoreDeleteNotFound(t *testing.T) {
	s, mock, cleanup := newWordListStore(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM word_lists")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Delete(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrWordListNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
