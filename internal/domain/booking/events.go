package booking

import "time"

type SessionStarted struct {
	SessionID  string    `json:"session_id"`
	PropertyID int64     `json:"property_id"`
	At         time.Time `json:"at"`
}

func (e SessionStarted) EventName() string     { return "selection.session_started" }
func (e SessionStarted) AggregateID() string   { return e.SessionID }
func (e SessionStarted) OccurredAt() time.Time { return e.At }

type CheckInSelected struct {
	SessionID       string    `json:"session_id"`
	PropertyID      int64     `json:"property_id"`
	CheckIn         string    `json:"check_in"`
	ClearedCheckOut bool      `json:"cleared_check_out"`
	At              time.Time `json:"at"`
}

func (e CheckInSelected) EventName() string     { return "selection.check_in_selected" }
func (e CheckInSelected) AggregateID() string   { return e.SessionID }
func (e CheckInSelected) OccurredAt() time.Time { return e.At }

type CheckOutSelected struct {
	SessionID  string    `json:"session_id"`
	PropertyID int64     `json:"property_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Nights     int       `json:"nights"`
	At         time.Time `json:"at"`
}

func (e CheckOutSelected) EventName() string     { return "selection.check_out_selected" }
func (e CheckOutSelected) AggregateID() string   { return e.SessionID }
func (e CheckOutSelected) OccurredAt() time.Time { return e.At }

type SelectionCleared struct {
	SessionID  string    `json:"session_id"`
	PropertyID int64     `json:"property_id"`
	At         time.Time `json:"at"`
}

func (e SelectionCleared) EventName() string     { return "selection.cleared" }
func (e SelectionCleared) AggregateID() string   { return e.SessionID }
func (e SelectionCleared) OccurredAt() time.Time { return e.At }
