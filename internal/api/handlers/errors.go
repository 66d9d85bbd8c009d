package handlers

import (
	"errors"
	"net/http"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

// writeEngineError maps engine rejections onto HTTP. Business-rule
// rejections keep their distinct reason so callers never see them collapsed
// into a generic failure.
func writeEngineError(c echo.Context, log logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, reason(err))
	case errors.Is(err, domain.ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, reason(err))
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrInvalidDeadline):
		return c.JSON(http.StatusBadRequest, reason(err))
	case errors.Is(err, domain.ErrBelowBasePrice),
		errors.Is(err, domain.ErrBelowCurrentHighest),
		errors.Is(err, domain.ErrAuctionClosed),
		errors.Is(err, domain.ErrAuctionAlreadyClosed),
		errors.Is(err, domain.ErrAuctionStillOpen):
		return c.JSON(http.StatusConflict, reason(err))
	default:
		log.Error("Request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func reason(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
