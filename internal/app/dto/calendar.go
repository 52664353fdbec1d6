package dto

import (
	"stayrent/internal/domain/calendar"
)

type RoomPrice struct {
	RoomID         int64   `json:"room_id"`
	Price          float64 `json:"price"`
	IsSeasonalRate bool    `json:"is_seasonal_rate"`
}

type CalendarDay struct {
	Date                string      `json:"date"`
	LowestPrice         *float64    `json:"lowest_price"`
	AvailableRoomsCount int         `json:"available_rooms_count"`
	RoomPrices          []RoomPrice `json:"room_prices"`
}

type Calendar struct {
	PropertyID   int64         `json:"property_id"`
	PropertyName string        `json:"property_name,omitempty"`
	Month        string        `json:"month"`
	Days         []CalendarDay `json:"days"`
}

func MapCalendar(cal calendar.PropertyCalendar, month string) Calendar {
	out := Calendar{
		PropertyID:   int64(cal.PropertyID),
		PropertyName: cal.PropertyName,
		Month:        month,
		Days:         make([]CalendarDay, 0, len(cal.Days)),
	}
	for _, day := range cal.Days {
		out.Days = append(out.Days, MapCalendarDay(day))
	}
	return out
}

func MapCalendarDay(day calendar.Day) CalendarDay {
	rooms := make([]RoomPrice, 0, len(day.RoomPrices))
	for _, rp := range day.RoomPrices {
		rooms = append(rooms, RoomPrice{RoomID: rp.RoomID, Price: rp.Price, IsSeasonalRate: rp.IsSeasonalRate})
	}
	return CalendarDay{
		Date:                day.Date,
		LowestPrice:         day.LowestPrice,
		AvailableRoomsCount: day.AvailableRoomsCount,
		RoomPrices:          rooms,
	}
}
