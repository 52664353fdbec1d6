package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/dto"
	sessionsapp "stayrent/internal/app/handlers/sessions"
	"stayrent/internal/app/queries"
)

type SessionHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Location *time.Location
	Logger   *slog.Logger
}

type startSessionRequest struct {
	PropertyID         int64  `json:"property_id"`
	Month              string `json:"month"`
	ApplySearchContext bool   `json:"apply_search_context"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type monthRequest struct {
	Month string `json:"month"`
}

func (h SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	month, err := optionalMonth(req.Month, h.Location)
	if err != nil {
		badRequest(c, err)
		return
	}
	cmd := sessionsapp.StartCommand{PropertyID: req.PropertyID, Month: month, ApplySearchContext: req.ApplySearchContext}
	h.dispatch(c, http.StatusCreated, cmd)
}

func (h SessionHandler) View(c *gin.Context) {
	month, err := optionalMonth(c.Query("month"), h.Location)
	if err != nil {
		badRequest(c, err)
		return
	}
	query := sessionsapp.ViewQuery{SessionID: c.Param("id"), Month: month}
	result, err := queries.Ask[sessionsapp.ViewQuery, dto.Session](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SessionHandler) SelectCheckIn(c *gin.Context) {
	date, ok := h.bindDate(c)
	if !ok {
		return
	}
	h.dispatch(c, http.StatusOK, sessionsapp.SelectCheckInCommand{SessionID: c.Param("id"), Date: date})
}

func (h SessionHandler) SelectCheckOut(c *gin.Context) {
	date, ok := h.bindDate(c)
	if !ok {
		return
	}
	h.dispatch(c, http.StatusOK, sessionsapp.SelectCheckOutCommand{SessionID: c.Param("id"), Date: date})
}

func (h SessionHandler) Picker(c *gin.Context) {
	var open bool
	switch action := c.Param("action"); action {
	case "open":
		open = true
	case "close":
	default:
		badRequest(c, fmt.Errorf("picker action must be open or close, got %q", action))
		return
	}
	cmd := sessionsapp.PickerCommand{SessionID: c.Param("id"), Picker: c.Param("picker"), Open: open}
	h.dispatch(c, http.StatusOK, cmd)
}

func (h SessionHandler) ShowMonth(c *gin.Context) {
	var req monthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Month == "" {
		badRequest(c, fmt.Errorf("month is required"))
		return
	}
	month, err := optionalMonth(req.Month, h.Location)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.dispatch(c, http.StatusOK, sessionsapp.ShowMonthCommand{SessionID: c.Param("id"), Month: month})
}

func (h SessionHandler) Clear(c *gin.Context) {
	h.dispatch(c, http.StatusOK, sessionsapp.ClearSelectionCommand{SessionID: c.Param("id")})
}

func (h SessionHandler) bindDate(c *gin.Context) (time.Time, bool) {
	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return time.Time{}, false
	}
	date, err := requiredDate("date", req.Date, h.Location)
	if err != nil {
		badRequest(c, err)
		return time.Time{}, false
	}
	return date, true
}

func (h SessionHandler) dispatch(c *gin.Context, status int, cmd commands.Command) {
	result, err := commands.Dispatch[commands.Command, dto.Session](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(status, result)
}

var _ SessionHTTP = SessionHandler{}
