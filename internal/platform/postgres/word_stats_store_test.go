package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loekiboy/loek-it-up/internal/store"
)

func newWordStatsStore(t *testing.T) (*PostgresWordStatsStore, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewPostgresWordStatsStore(db, nil), mock, func() { _ = db.Close() }
}

func TestWordStatsStoreRecordAnswer(t *testing.T) {
	s, mock, cleanup := newWordStatsStore(t)
	defer cleanup()

	wordID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("SET correct_count = correct_count + 1")).
		WithArgs(wordID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET wrong_count = wrong_count + 1")).
		WithArgs(wordID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.RecordAnswer(context.Background(), wordID, true))
	require.NoError(t, s.RecordAnswer(context.Background(), wordID, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordStatsStoreRecordAnswerNotFound(t *testing.T) {
	s, mock, cleanup := newWordStatsStore(t)
	defer cleanup()

	wordID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE words")).
		WithArgs(wordID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RecordAnswer(context.Background(), wordID, true)
	assert.ErrorIs(t, err, store.ErrWordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordStatsStoreRecordOverride(t *testing.T) {
	s, mock, cleanup := newWordStatsStore(t)
	defer cleanup()

	wordID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("GREATEST(wrong_count - 1, 0)")).
		WithArgs(wordID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.RecordOverride(context.Background(), wordID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordStatsStoreRecordOverrideNotFound(t *testing.T) {
	s, mock, cleanup := newWordStatsStore(t)
	defer cleanup()

	wordID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE words")).
		WithArgs(wordID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RecordOverride(context.Background(), wordID)
	assert.ErrorIs(t, err, store.ErrWordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
