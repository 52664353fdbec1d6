package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/IBM/sarama"

	domaincalendar "stayrent/internal/domain/calendar"
)

var ErrMalformedEvent = errors.New("kafka: malformed calendar event")

// Invalidator drops cached calendar months of a property.
type Invalidator interface {
	Invalidate(ctx context.Context, id domaincalendar.PropertyID) (int, error)
}

// Inbox remembers processed event ids. Seen only checks; Mark records.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// CalendarEventHandler reacts to backend calendar changes (bookings, blocks,
// seasonal rates) by invalidating the cached months of the property. The
// payload is a CloudEvent whose data carries propertyId.
type CalendarEventHandler struct {
	Calendars Invalidator
	Inbox     Inbox
	Logger    *slog.Logger
}

type calendarEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		PropertyID json.Number `json:"propertyId"`
	} `json:"data"`
}

func (h *CalendarEventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt calendarEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		h.warnDropped(ctx, msg, err)
		return nil
	}
	raw, err := strconv.ParseInt(evt.Data.PropertyID.String(), 10, 64)
	id := domaincalendar.PropertyID(raw)
	if err != nil || !id.Valid() {
		h.warnDropped(ctx, msg, fmt.Errorf("%w: property id %q", ErrMalformedEvent, evt.Data.PropertyID))
		return nil
	}
	if evt.ID == "" {
		evt.ID = fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}
	if h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}
	n, err := h.Calendars.Invalidate(ctx, id)
	if err != nil {
		return err
	}
	if h.Inbox != nil {
		if err := h.Inbox.Mark(ctx, evt.ID); err != nil {
			// Invalidation is idempotent; an unmarked id only costs a repeat.
			h.warnUnmarked(ctx, evt.ID, err)
		}
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "calendar invalidated by event", "event_id", evt.ID, "type", evt.Type, "property_id", raw, "entries", n)
	}
	return nil
}

// warnDropped logs a message that can never be processed; it is acknowledged
// so it does not block the partition.
func (h *CalendarEventHandler) warnDropped(ctx context.Context, msg *sarama.ConsumerMessage, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.WarnContext(ctx, "calendar event dropped", "topic", msg.Topic, "offset", msg.Offset, "error", err)
}

func (h *CalendarEventHandler) warnUnmarked(ctx context.Context, eventID string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.WarnContext(ctx, "calendar event not marked", "event_id", eventID, "error", err)
}

var _ MessageHandler = (*CalendarEventHandler)(nil)
