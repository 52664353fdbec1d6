package sessions

import (
	"context"
	"fmt"
	"time"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/dto"
	"stayrent/internal/domain/booking"
	"stayrent/internal/domain/shared/daterange"
)

const (
	selectCheckInKey  = "sessions.select_check_in"
	selectCheckOutKey = "sessions.select_check_out"
)

type SelectCheckInCommand struct {
	SessionID string    `validate:"required"`
	Date      time.Time `validate:"required"`
}

func (SelectCheckInCommand) Key() string { return selectCheckInKey }

type SelectCheckOutCommand struct {
	SessionID string    `validate:"required"`
	Date      time.Time `validate:"required"`
}

func (SelectCheckOutCommand) Key() string { return selectCheckOutKey }

// SelectCheckInHandler accepts only dates the check-in picker would enable.
// Selecting a check-in always drops the current check-out.
type SelectCheckInHandler struct {
	Deps
}

func (h *SelectCheckInHandler) Handle(ctx context.Context, cmd SelectCheckInCommand) (dto.Session, error) {
	session, err := h.load(ctx, cmd.SessionID)
	if err != nil {
		return dto.Session{}, err
	}
	idx := h.monthCalendar(ctx, session, cmd.Date).Index()
	if booking.CheckInDisabled(cmd.Date, h.today(), idx) {
		return dto.Session{}, fmt.Errorf("%w: check-in %s", booking.ErrDateUnavailable, daterange.FormatLocalDate(cmd.Date))
	}
	if err := session.SelectCheckIn(cmd.Date, h.now()); err != nil {
		return dto.Session{}, err
	}
	if err := h.persist(ctx, session); err != nil {
		return dto.Session{}, err
	}
	return h.render(ctx, session, time.Time{}), nil
}

type SelectCheckOutHandler struct {
	Deps
}

func (h *SelectCheckOutHandler) Handle(ctx context.Context, cmd SelectCheckOutCommand) (dto.Session, error) {
	session, err := h.load(ctx, cmd.SessionID)
	if err != nil {
		return dto.Session{}, err
	}
	if !session.HasCheckIn() {
		return dto.Session{}, booking.ErrCheckInRequired
	}
	idx := h.monthCalendar(ctx, session, cmd.Date).Index()
	if booking.CheckOutDisabled(cmd.Date, session.CheckIn, idx) {
		return dto.Session{}, fmt.Errorf("%w: check-out %s", booking.ErrDateUnavailable, daterange.FormatLocalDate(cmd.Date))
	}
	if err := session.SelectCheckOut(cmd.Date, h.now()); err != nil {
		return dto.Session{}, err
	}
	if err := h.persist(ctx, session); err != nil {
		return dto.Session{}, err
	}
	return h.render(ctx, session, time.Time{}), nil
}

var (
	_ commands.Handler[SelectCheckInCommand, dto.Session]  = (*SelectCheckInHandler)(nil)
	_ commands.Handler[SelectCheckOutCommand, dto.Session] = (*SelectCheckOutHandler)(nil)
)
