package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Loekiboy/loek-it-up/internal/service"
	"github.com/Loekiboy/loek-it-up/internal/service/auth"
	"github.com/Loekiboy/loek-it-up/internal/store"
	"github.com/Loekiboy/loek-it-up/internal/study"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"list not found", store.ErrWordListNotFound, http.StatusNotFound},
		{"snapshot not found", store.ErrSnapshotNotFound, http.StatusNotFound},
		{"no active session", service.ErrNoActiveSession, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"wrong session mode", service.ErrWrongSessionMode, http.StatusConflict},
		{"invalid event", study.ErrInvalidEvent, http.StatusConflict},
		{"empty import", service.ErrEmptyImport, http.StatusBadRequest},
		{"unknown word", study.ErrUnknownWord, http.StatusBadRequest},
		{"enrichment disabled", service.ErrEnrichmentDisabled, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("load: %w", store.ErrWordListNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	internal := errors.New("pq: connection to postgres://user:hunter2@db failed")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "hunter2")

	assert.Equal(t, "Word list not found", GetSafeErrorMessage(store.ErrWordListNotFound))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestHandleAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/lists", nil)

	HandleAPIError(w, r, fmt.Errorf("get list: %w", service.ErrNotOwned), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You do not own this list")
	assert.NotContains(t, w.Body.String(), "get list")
}

func TestHandleAPIErrorFallbackMessage(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/lists", nil)

	HandleAPIError(w, r, errors.New("pq: out of memory"), "Failed to list word lists")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to list word lists")
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
