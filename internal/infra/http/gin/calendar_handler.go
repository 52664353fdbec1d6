package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayrent/internal/app/dto"
	calendarapp "stayrent/internal/app/handlers/calendar"
	pricingapp "stayrent/internal/app/handlers/pricing"
	"stayrent/internal/app/queries"
)

type CalendarHandler struct {
	Queries  queries.Bus
	Location *time.Location
	Logger   *slog.Logger
}

func (h CalendarHandler) Month(c *gin.Context) {
	id, err := propertyIDParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	month, err := optionalMonth(c.Query("month"), h.Location)
	if err != nil {
		badRequest(c, err)
		return
	}
	apply, err := boolQuery(c, "apply_search_context")
	if err != nil {
		badRequest(c, err)
		return
	}
	query := calendarapp.GetMonthQuery{PropertyID: id, Month: month, ApplySearchContext: apply}
	result, err := queries.Ask[calendarapp.GetMonthQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CalendarHandler) Quote(c *gin.Context) {
	id, err := propertyIDParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	checkIn, err := requiredDate("check_in", c.Query("check_in"), h.Location)
	if err != nil {
		badRequest(c, err)
		return
	}
	checkOut, err := requiredDate("check_out", c.Query("check_out"), h.Location)
	if err != nil {
		badRequest(c, err)
		return
	}
	apply, err := boolQuery(c, "apply_search_context")
	if err != nil {
		badRequest(c, err)
		return
	}
	query := pricingapp.QuoteQuery{PropertyID: id, CheckIn: checkIn, CheckOut: checkOut, ApplySearchContext: apply}
	result, err := queries.Ask[pricingapp.QuoteQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CalendarHTTP = CalendarHandler{}
