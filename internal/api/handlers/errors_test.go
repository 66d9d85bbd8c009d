package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEngineError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrItemNotFound, http.StatusNotFound},
		{domain.ErrNotAuthorized, http.StatusForbidden},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidAction, http.StatusBadRequest},
		{domain.ErrInvalidDeadline, http.StatusBadRequest},
		{domain.ErrBelowBasePrice, http.StatusConflict},
		{domain.ErrBelowCurrentHighest, http.StatusConflict},
		{domain.ErrAuctionClosed, http.StatusConflict},
		{domain.ErrAuctionAlreadyClosed, http.StatusConflict},
		{domain.ErrAuctionStillOpen, http.StatusConflict},
		{errors.New("mysql went away"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, writeEngineError(c, logger.NewNop(), tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

// Wrapped errors must still land on the mapped status, not fall through
// to a 500.
func TestWriteEngineError_Wrapped(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fmt.Errorf("place bid: %w", domain.ErrBelowCurrentHighest)
	require.NoError(t, writeEngineError(c, logger.NewNop(), err))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// Storage failures never leak their internals to the caller.
func TestWriteEngineError_InternalReasonHidden(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, writeEngineError(c, logger.NewNop(), errors.New("dsn: secret")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
