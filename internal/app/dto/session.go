package dto

import "time"

type DateWindow struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type SessionDay struct {
	Date                string   `json:"date"`
	LowestPrice         *float64 `json:"lowest_price"`
	AvailableRoomsCount *int     `json:"available_rooms_count"`
	Seasonal            bool     `json:"seasonal"`
	CheckInDisabled     bool     `json:"check_in_disabled"`
	CheckOutDisabled    bool     `json:"check_out_disabled"`
	InRange             bool     `json:"in_range"`
}

// Session is the full picker state a client renders.
type Session struct {
	ID                    string       `json:"id"`
	PropertyID            int64        `json:"property_id"`
	PropertyName          string       `json:"property_name,omitempty"`
	ApplySearchContext    bool         `json:"apply_search_context"`
	Month                 string       `json:"month"`
	CheckIn               string       `json:"check_in,omitempty"`
	CheckOut              string       `json:"check_out,omitempty"`
	CheckInPickerOpen     bool         `json:"check_in_picker_open"`
	CheckOutPickerOpen    bool         `json:"check_out_picker_open"`
	CheckOutPickerEnabled bool         `json:"check_out_picker_enabled"`
	CheckOutWindow        *DateWindow  `json:"check_out_window,omitempty"`
	CheckoutAvailable     bool         `json:"checkout_available"`
	Days                  []SessionDay `json:"days"`
	Quote                 *Quote       `json:"quote,omitempty"`
	Version               int64        `json:"version"`
	UpdatedAt             time.Time    `json:"updated_at"`
}
