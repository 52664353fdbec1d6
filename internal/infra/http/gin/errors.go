package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/middleware"
	"stayrent/internal/app/queries"
	"stayrent/internal/domain/booking"
	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, middleware.ErrValidation),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, calendar.ErrInvalidPropertyID),
		errors.Is(err, booking.ErrUnknownPicker):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrSessionConflict):
		return http.StatusConflict
	case errors.Is(err, booking.ErrDateUnavailable),
		errors.Is(err, booking.ErrCheckInRequired),
		errors.Is(err, booking.ErrCheckOutPickerDisabled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrNilBus),
		errors.Is(err, queries.ErrNilBus):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed", "status", status, "path", c.FullPath(), "error", err)
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
