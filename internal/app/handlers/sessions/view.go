package sessions

import (
	"context"
	"time"

	"stayrent/internal/app/dto"
	"stayrent/internal/app/queries"
)

const viewKey = "sessions.view"

// ViewQuery renders a session. Month overrides the displayed month for this
// read only.
type ViewQuery struct {
	SessionID string `validate:"required"`
	Month     time.Time
}

func (ViewQuery) Key() string { return viewKey }

type ViewHandler struct {
	Deps
}

func (h *ViewHandler) Handle(ctx context.Context, q ViewQuery) (dto.Session, error) {
	session, err := h.load(ctx, q.SessionID)
	if err != nil {
		return dto.Session{}, err
	}
	return h.render(ctx, session, q.Month), nil
}

var _ queries.Handler[ViewQuery, dto.Session] = (*ViewHandler)(nil)
