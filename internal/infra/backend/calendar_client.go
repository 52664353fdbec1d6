package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stayrent/internal/app/resolver"
	domaincalendar "stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

var (
	ErrPropertyNotFound = errors.New("backend: property not found")
	ErrNotConfigured    = errors.New("backend: client not configured")
)

// CalendarClient reads month calendars from the rental backend:
//
//	GET {BaseURL}/properties/{id}/calendar?month=YYYY-MM-DD&applySearchContext=true|false
type CalendarClient struct {
	Client  *http.Client
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger
}

type calendarResponse struct {
	PropertyID   int64         `json:"propertyId"`
	PropertyName string        `json:"propertyName"`
	Calendar     []calendarDay `json:"calendar"`
}

type calendarDay struct {
	Date                string      `json:"date"`
	LowestPrice         *float64    `json:"lowestPrice"`
	AvailableRoomsCount int         `json:"availableRoomsCount"`
	RoomPrices          []roomPrice `json:"roomPrices"`
}

type roomPrice struct {
	RoomID         int64   `json:"roomId"`
	Price          float64 `json:"price"`
	IsSeasonalRate bool    `json:"isSeasonalRate"`
}

func (c *CalendarClient) FetchMonth(ctx context.Context, id domaincalendar.PropertyID, month time.Time, applySearchContext bool) (domaincalendar.PropertyCalendar, error) {
	var zero domaincalendar.PropertyCalendar
	if c == nil || c.Client == nil || c.BaseURL == "" {
		return zero, ErrNotConfigured
	}
	if !id.Valid() {
		return zero, domaincalendar.ErrInvalidPropertyID
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	monthParam := daterange.FormatLocalDate(daterange.MonthStart(month))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(id, monthParam, applySearchContext), nil)
	if err != nil {
		return zero, err
	}
	request.Header.Set("Accept", "application/json")
	if c.Token != "" {
		request.Header.Set("Authorization", "Bearer "+c.Token)
	}

	started := time.Now()
	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError(ctx, "calendar request failed", id, monthParam, err)
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return zero, fmt.Errorf("%w: %d", ErrPropertyNotFound, id)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("backend calendar returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		c.logError(ctx, "calendar request rejected", id, monthParam, err)
		return zero, err
	}

	var body calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logError(ctx, "calendar decode failed", id, monthParam, err)
		return zero, fmt.Errorf("decode calendar: %w", err)
	}

	if c.Logger != nil {
		c.Logger.DebugContext(ctx, "calendar fetched",
			"property_id", int64(id), "month", monthParam, "days", len(body.Calendar), "duration", time.Since(started))
	}
	return body.toDomain(id), nil
}

func (c *CalendarClient) endpoint(id domaincalendar.PropertyID, month string, applySearchContext bool) string {
	q := url.Values{}
	q.Set("month", month)
	q.Set("applySearchContext", strconv.FormatBool(applySearchContext))
	return fmt.Sprintf("%s/properties/%d/calendar?%s", strings.TrimRight(c.BaseURL, "/"), id, q.Encode())
}

func (c *CalendarClient) logError(ctx context.Context, msg string, id domaincalendar.PropertyID, month string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.ErrorContext(ctx, msg, "property_id", int64(id), "month", month, "error", err)
}

func (r calendarResponse) toDomain(requested domaincalendar.PropertyID) domaincalendar.PropertyCalendar {
	cal := domaincalendar.PropertyCalendar{PropertyID: requested, PropertyName: r.PropertyName}
	for _, day := range r.Calendar {
		d := domaincalendar.Day{
			Date:                day.Date,
			LowestPrice:         day.LowestPrice,
			AvailableRoomsCount: day.AvailableRoomsCount,
		}
		for _, rp := range day.RoomPrices {
			d.RoomPrices = append(d.RoomPrices, domaincalendar.RoomPrice{RoomID: rp.RoomID, Price: rp.Price, IsSeasonalRate: rp.IsSeasonalRate})
		}
		cal.Days = append(cal.Days, d)
	}
	return cal.Normalize()
}

var _ resolver.Source = (*CalendarClient)(nil)
