package availability

import (
	"errors"
	"testing"
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(in, out)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return dr
}

func villa() *Inventory {
	return &Inventory{
		PropertyID: 9,
		Name:       "Villa Kayu",
		Rooms: []Room{
			{ID: 1, Name: "Deluxe", BasePrice: 200, Units: 1},
			{ID: 2, Name: "Standard", BasePrice: 120, Units: 2},
		},
		SeasonalRates: []calendar.SeasonalRate{
			{Name: "Nyepi", StartDate: d(2024, time.March, 10), EndDate: d(2024, time.March, 12), FixedPrice: 90, AppliesTo: calendar.ScopeRoom, RoomID: 1},
			{Name: "Long weekend", StartDate: d(2024, time.March, 11), EndDate: d(2024, time.March, 11), FixedPrice: 300, AppliesTo: calendar.ScopeProperty},
		},
	}
}

func TestDayAppliesSeasonalRates(t *testing.T) {
	inv := villa()
	day := inv.Day(d(2024, time.March, 11))
	if day.AvailableRoomsCount != 3 || len(day.RoomPrices) != 2 {
		t.Fatalf("day = %+v", day)
	}
	if day.RoomPrices[0].Price != 90 || !day.RoomPrices[0].IsSeasonalRate {
		t.Fatalf("room scoped rate should win: %+v", day.RoomPrices[0])
	}
	if day.RoomPrices[1].Price != 300 || !day.RoomPrices[1].IsSeasonalRate {
		t.Fatalf("property rate should apply to other rooms: %+v", day.RoomPrices[1])
	}
	if day.LowestPrice == nil || *day.LowestPrice != 90 {
		t.Fatalf("lowest = %v, want 90", day.LowestPrice)
	}

	plain := inv.Day(d(2024, time.March, 20))
	if plain.RoomPrices[0].IsSeasonalRate || *plain.LowestPrice != 120 {
		t.Fatalf("plain day = %+v", plain)
	}
}

func TestBlocksReduceAvailability(t *testing.T) {
	inv := villa()
	if err := inv.AddBlock(Block{RoomID: 1, Range: mustRange(t, d(2024, time.March, 5), d(2024, time.March, 7)), Reason: ReasonMaintenance}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if err := inv.AddBlock(Block{RoomID: 2, Range: mustRange(t, d(2024, time.March, 5), d(2024, time.March, 6)), Reason: ReasonBooking}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	day := inv.Day(d(2024, time.March, 5))
	if day.AvailableRoomsCount != 1 || len(day.RoomPrices) != 1 || day.RoomPrices[0].RoomID != 2 {
		t.Fatalf("day = %+v", day)
	}
	if next := inv.Day(d(2024, time.March, 7)); next.AvailableRoomsCount != 3 {
		t.Fatalf("block end is exclusive, got %d rooms", next.AvailableRoomsCount)
	}

	if err := inv.AddBlock(Block{Range: mustRange(t, d(2024, time.March, 25), d(2024, time.March, 26)), Reason: ReasonHostBlock}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	closed := inv.Day(d(2024, time.March, 25))
	if closed.AvailableRoomsCount != 0 || closed.LowestPrice != nil {
		t.Fatalf("property block must close the day: %+v", closed)
	}
}

func TestAddBlockRejectsOverlapAndUnknownRoom(t *testing.T) {
	inv := villa()
	r := mustRange(t, d(2024, time.March, 5), d(2024, time.March, 8))
	if err := inv.AddBlock(Block{RoomID: 1, Range: r, Reason: ReasonMaintenance}); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if err := inv.AddBlock(Block{RoomID: 1, Range: mustRange(t, d(2024, time.March, 7), d(2024, time.March, 9))}); !errors.Is(err, ErrOverlappingRange) {
		t.Fatalf("err = %v", err)
	}
	if err := inv.AddBlock(Block{RoomID: 77, Range: r}); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("err = %v", err)
	}
}

func TestMonthCalendarCoversEveryDay(t *testing.T) {
	cal := villa().MonthCalendar(d(2024, time.February, 14))
	if len(cal.Days) != 29 || cal.Days[0].Date != "2024-02-01" || cal.PropertyName != "Villa Kayu" {
		t.Fatalf("calendar = %d days starting %s", len(cal.Days), cal.Days[0].Date)
	}
}
