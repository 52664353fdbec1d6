package pricing

import (
	"testing"
	"time"

	"stayrent/internal/domain/calendar"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func price(v float64) *float64 { return &v }

func marchCalendar() calendar.Index {
	return calendar.PropertyCalendar{
		PropertyID: 1,
		Days: []calendar.Day{
			{Date: "2024-03-01", LowestPrice: price(100), AvailableRoomsCount: 2, RoomPrices: []calendar.RoomPrice{{RoomID: 1, Price: 100}}},
			{Date: "2024-03-02", LowestPrice: price(150), AvailableRoomsCount: 1, RoomPrices: []calendar.RoomPrice{{RoomID: 1, Price: 150, IsSeasonalRate: true}}},
			{Date: "2024-03-03", LowestPrice: price(999), AvailableRoomsCount: 1},
			{Date: "2024-03-05", AvailableRoomsCount: 0},
			{Date: "2024-03-06", LowestPrice: price(80), AvailableRoomsCount: 1},
		},
	}.Index()
}

func TestAccumulateHalfOpenInterval(t *testing.T) {
	quote := Accumulate(d(2024, time.March, 1), d(2024, time.March, 3), marchCalendar())
	if quote.Total != 250 {
		t.Fatalf("Total = %v, want 250", quote.Total)
	}
	if quote.Nights != 2 || len(quote.Lines) != 2 {
		t.Fatalf("nights = %d lines = %d", quote.Nights, len(quote.Lines))
	}
	if quote.Lines[0].Seasonal || !quote.Lines[1].Seasonal {
		t.Fatalf("seasonal flags = %v/%v", quote.Lines[0].Seasonal, quote.Lines[1].Seasonal)
	}
	if !quote.Complete() {
		t.Fatal("fully priced stay should be complete")
	}
}

func TestAccumulateIsIdempotent(t *testing.T) {
	cal := marchCalendar()
	first := Total(d(2024, time.March, 1), d(2024, time.March, 7), cal)
	second := Total(d(2024, time.March, 1), d(2024, time.March, 7), cal)
	if first != second {
		t.Fatalf("totals differ: %v vs %v", first, second)
	}
}

func TestAccumulateZeroNightGuard(t *testing.T) {
	cal := marchCalendar()
	tests := []struct {
		name    string
		in, out time.Time
	}{
		{"same day", d(2024, time.March, 2), d(2024, time.March, 2)},
		{"inverted", d(2024, time.March, 3), d(2024, time.March, 1)},
		{"zero checkin", time.Time{}, d(2024, time.March, 3)},
		{"zero checkout", d(2024, time.March, 1), time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := Accumulate(tt.in, tt.out, cal)
			if quote.Total != 0 || quote.Nights != 0 {
				t.Fatalf("quote = %+v, want zero", quote)
			}
		})
	}
}

func TestAccumulateSkipsMissingAndUnpricedDays(t *testing.T) {
	quote := Accumulate(d(2024, time.March, 3), d(2024, time.March, 7), marchCalendar())
	// 03-03 = 999, 03-04 missing, 03-05 blocked, 03-06 = 80
	if quote.Total != 1079 {
		t.Fatalf("Total = %v, want 1079", quote.Total)
	}
	if len(quote.UnpricedDates) != 2 || quote.UnpricedDates[0] != "2024-03-04" || quote.UnpricedDates[1] != "2024-03-05" {
		t.Fatalf("UnpricedDates = %v", quote.UnpricedDates)
	}
	if quote.Complete() {
		t.Fatal("quote with gaps must not be complete")
	}
}

func TestAccumulateWithoutCalendar(t *testing.T) {
	quote := Accumulate(d(2024, time.March, 1), d(2024, time.March, 3), nil)
	if quote.Total != 0 || quote.Nights != 2 || len(quote.UnpricedDates) != 2 {
		t.Fatalf("quote = %+v", quote)
	}
}

func TestAccumulateIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("WITA", 8*60*60)
	in := time.Date(2024, time.March, 1, 21, 45, 0, 0, loc)
	out := time.Date(2024, time.March, 3, 6, 0, 0, 0, loc)
	if got := Total(in, out, marchCalendar()); got != 250 {
		t.Fatalf("Total = %v, want 250", got)
	}
}
