package sessions

import (
	"context"
	"time"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/dto"
	"stayrent/internal/domain/booking"
)

const (
	pickerKey    = "sessions.picker"
	showMonthKey = "sessions.show_month"
	clearKey     = "sessions.clear"
)

type PickerCommand struct {
	SessionID string `validate:"required"`
	Picker    string `validate:"oneof=check-in check-out"`
	Open      bool
}

func (PickerCommand) Key() string { return pickerKey }

type ShowMonthCommand struct {
	SessionID string    `validate:"required"`
	Month     time.Time `validate:"required"`
}

func (ShowMonthCommand) Key() string { return showMonthKey }

type ClearSelectionCommand struct {
	SessionID string `validate:"required"`
}

func (ClearSelectionCommand) Key() string { return clearKey }

type PickerHandler struct {
	Deps
}

func (h *PickerHandler) Handle(ctx context.Context, cmd PickerCommand) (dto.Session, error) {
	picker, err := booking.ParsePicker(cmd.Picker)
	if err != nil {
		return dto.Session{}, err
	}
	session, err := h.load(ctx, cmd.SessionID)
	if err != nil {
		return dto.Session{}, err
	}
	if cmd.Open {
		err = session.OpenPicker(picker, h.now())
	} else {
		err = session.ClosePicker(picker, h.now())
	}
	if err != nil {
		return dto.Session{}, err
	}
	if err := h.persist(ctx, session); err != nil {
		return dto.Session{}, err
	}
	return h.render(ctx, session, time.Time{}), nil
}

type ShowMonthHandler struct {
	Deps
}

func (h *ShowMonthHandler) Handle(ctx context.Context, cmd ShowMonthCommand) (dto.Session, error) {
	session, err := h.load(ctx, cmd.SessionID)
	if err != nil {
		return dto.Session{}, err
	}
	if err := session.ShowMonth(cmd.Month, h.now()); err != nil {
		return dto.Session{}, err
	}
	if err := h.persist(ctx, session); err != nil {
		return dto.Session{}, err
	}
	return h.render(ctx, session, time.Time{}), nil
}

type ClearSelectionHandler struct {
	Deps
}

func (h *ClearSelectionHandler) Handle(ctx context.Context, cmd ClearSelectionCommand) (dto.Session, error) {
	session, err := h.load(ctx, cmd.SessionID)
	if err != nil {
		return dto.Session{}, err
	}
	session.ClearSelection(h.now())
	if err := h.persist(ctx, session); err != nil {
		return dto.Session{}, err
	}
	return h.render(ctx, session, time.Time{}), nil
}

var (
	_ commands.Handler[PickerCommand, dto.Session]         = (*PickerHandler)(nil)
	_ commands.Handler[ShowMonthCommand, dto.Session]      = (*ShowMonthHandler)(nil)
	_ commands.Handler[ClearSelectionCommand, dto.Session] = (*ClearSelectionHandler)(nil)
)
