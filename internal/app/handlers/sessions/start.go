package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/dto"
	"stayrent/internal/domain/booking"
	"stayrent/internal/domain/calendar"
)

const startKey = "sessions.start"

type StartCommand struct {
	PropertyID         int64 `validate:"gt=0"`
	Month              time.Time
	ApplySearchContext bool
}

func (StartCommand) Key() string { return startKey }

type StartHandler struct {
	Deps
	NewID func() string
}

func (h *StartHandler) Handle(ctx context.Context, cmd StartCommand) (dto.Session, error) {
	newID := h.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := h.now()
	month := cmd.Month
	if month.IsZero() {
		month = now.In(h.Calendars.Location())
	}
	session, err := booking.NewSession(booking.NewSessionParams{
		ID:                 booking.SessionID(newID()),
		PropertyID:         calendar.PropertyID(cmd.PropertyID),
		ApplySearchContext: cmd.ApplySearchContext,
		Month:              month,
		Now:                now,
	})
	if err != nil {
		return dto.Session{}, err
	}
	if err := h.persist(ctx, session); err != nil {
		return dto.Session{}, err
	}
	h.logger().InfoContext(ctx, "picker session started", "session_id", string(session.ID), "property_id", cmd.PropertyID)
	return h.render(ctx, session, time.Time{}), nil
}

var _ commands.Handler[StartCommand, dto.Session] = (*StartHandler)(nil)
