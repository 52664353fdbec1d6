package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
	"stayrent/internal/domain/shared/events"
)

var (
	ErrSessionNotFound        = errors.New("booking: session not found")
	ErrSessionConflict        = errors.New("booking: session was modified concurrently")
	ErrSessionIDRequired      = errors.New("booking: session id is required")
	ErrCheckInRequired        = errors.New("booking: check-in must be selected first")
	ErrCheckOutPickerDisabled = errors.New("booking: check-out picker is disabled until a check-in is selected")
	ErrDateUnavailable        = errors.New("booking: date cannot be selected")
	ErrUnknownPicker          = errors.New("booking: unknown picker")
)

type SessionID string

type Picker string

const (
	PickerCheckIn  Picker = "check-in"
	PickerCheckOut Picker = "check-out"
)

func ParsePicker(raw string) (Picker, error) {
	switch Picker(strings.ToLower(strings.TrimSpace(raw))) {
	case PickerCheckIn:
		return PickerCheckIn, nil
	case PickerCheckOut:
		return PickerCheckOut, nil
	default:
		return "", ErrUnknownPicker
	}
}

// Session holds the date picker state of one guest looking at one property.
// Zero CheckIn/CheckOut mean "not selected".
type Session struct {
	ID                 SessionID
	PropertyID         calendar.PropertyID
	ApplySearchContext bool
	Month              time.Time
	CheckIn            time.Time
	CheckOut           time.Time
	CheckInPickerOpen  bool
	CheckOutPickerOpen bool
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	events.EventRecorder
}

type NewSessionParams struct {
	ID                 SessionID
	PropertyID         calendar.PropertyID
	ApplySearchContext bool
	Month              time.Time
	Now                time.Time
}

type SessionRepository interface {
	ByID(ctx context.Context, id SessionID) (*Session, error)
	// Save stores the session if its Version matches the stored one and
	// bumps Version; otherwise it fails with ErrSessionConflict.
	Save(ctx context.Context, session *Session) error
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewSession(p NewSessionParams) (*Session, error) {
	if strings.TrimSpace(string(p.ID)) == "" {
		return nil, ErrSessionIDRequired
	}
	if !p.PropertyID.Valid() {
		return nil, calendar.ErrInvalidPropertyID
	}
	month := p.Month
	if !daterange.IsValid(month) {
		month = p.Now
	}
	s := &Session{
		ID:                 p.ID,
		PropertyID:         p.PropertyID,
		ApplySearchContext: p.ApplySearchContext,
		Month:              daterange.MonthStart(month),
		CreatedAt:          p.Now.UTC(),
		UpdatedAt:          p.Now.UTC(),
	}
	s.Record(SessionStarted{SessionID: string(s.ID), PropertyID: int64(s.PropertyID), At: s.CreatedAt})
	return s, nil
}

func (s *Session) HasCheckIn() bool  { return daterange.IsValid(s.CheckIn) }
func (s *Session) HasCheckOut() bool { return daterange.IsValid(s.CheckOut) }

// Stay returns the selected range when both ends are set.
func (s *Session) Stay() (daterange.DateRange, bool) {
	if !s.HasCheckIn() || !s.HasCheckOut() {
		return daterange.DateRange{}, false
	}
	dr, err := daterange.New(s.CheckIn, s.CheckOut)
	if err != nil {
		return daterange.DateRange{}, false
	}
	return dr, true
}

// SelectCheckIn stores the check-in date and always drops the check-out, which
// has to be chosen again against the new check-in.
func (s *Session) SelectCheckIn(date, now time.Time) error {
	if !daterange.IsValid(date) {
		return daterange.ErrInvalidDate
	}
	cleared := s.HasCheckOut()
	s.CheckIn = daterange.Normalize(date)
	s.CheckOut = time.Time{}
	s.CheckInPickerOpen = false
	s.touch(now)
	s.Record(CheckInSelected{
		SessionID:       string(s.ID),
		PropertyID:      int64(s.PropertyID),
		CheckIn:         daterange.FormatLocalDate(s.CheckIn),
		ClearedCheckOut: cleared,
		At:              s.UpdatedAt,
	})
	return nil
}

// SelectCheckOut stores the check-out date. The check-in is left untouched.
func (s *Session) SelectCheckOut(date, now time.Time) error {
	if !s.HasCheckIn() {
		return ErrCheckInRequired
	}
	if !daterange.IsValid(date) {
		return daterange.ErrInvalidDate
	}
	s.CheckOut = daterange.Normalize(date)
	s.CheckOutPickerOpen = false
	s.touch(now)
	nights := 0
	if dr, ok := s.Stay(); ok {
		nights = dr.Nights()
	}
	s.Record(CheckOutSelected{
		SessionID:  string(s.ID),
		PropertyID: int64(s.PropertyID),
		CheckIn:    daterange.FormatLocalDate(s.CheckIn),
		CheckOut:   daterange.FormatLocalDate(s.CheckOut),
		Nights:     nights,
		At:         s.UpdatedAt,
	})
	return nil
}

func (s *Session) OpenPicker(p Picker, now time.Time) error {
	switch p {
	case PickerCheckIn:
		s.CheckInPickerOpen = true
	case PickerCheckOut:
		if !s.HasCheckIn() {
			return ErrCheckOutPickerDisabled
		}
		s.CheckOutPickerOpen = true
	default:
		return ErrUnknownPicker
	}
	s.touch(now)
	return nil
}

func (s *Session) ClosePicker(p Picker, now time.Time) error {
	switch p {
	case PickerCheckIn:
		s.CheckInPickerOpen = false
	case PickerCheckOut:
		s.CheckOutPickerOpen = false
	default:
		return ErrUnknownPicker
	}
	s.touch(now)
	return nil
}

// ShowMonth moves the displayed month. The selection is kept.
func (s *Session) ShowMonth(anchor, now time.Time) error {
	if !daterange.IsValid(anchor) {
		return daterange.ErrInvalidDate
	}
	s.Month = daterange.MonthStart(anchor)
	s.touch(now)
	return nil
}

func (s *Session) ClearSelection(now time.Time) {
	s.CheckIn = time.Time{}
	s.CheckOut = time.Time{}
	s.CheckInPickerOpen = false
	s.CheckOutPickerOpen = false
	s.touch(now)
	s.Record(SelectionCleared{SessionID: string(s.ID), PropertyID: int64(s.PropertyID), At: s.UpdatedAt})
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}
