package booking

import (
	"testing"
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func blockedOn(dates ...string) calendar.Index {
	cal := calendar.PropertyCalendar{PropertyID: 1}
	for _, date := range dates {
		cal.Days = append(cal.Days, calendar.Day{Date: date, AvailableRoomsCount: 0})
	}
	return cal.Index()
}

func TestCheckInDisablesPastAndZeroAvailabilityDays(t *testing.T) {
	today := d(2024, time.March, 10)
	cal := blockedOn("2024-03-12")
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday", d(2024, time.March, 9), true},
		{"today", d(2024, time.March, 10), false},
		{"fully booked", d(2024, time.March, 12), true},
		{"unknown to calendar", d(2024, time.March, 15), false},
		{"invalid", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckInDisabled(tt.date, today, cal); got != tt.want {
				t.Errorf("CheckInDisabled(%s) = %v, want %v", daterange.FormatLocalDate(tt.date), got, tt.want)
			}
		})
	}
}

func TestCheckInIgnoresTimeOfDayForToday(t *testing.T) {
	today := time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)
	if CheckInDisabled(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC), today, nil) {
		t.Fatal("earlier hour on the same day must stay selectable")
	}
}

func TestCheckOutWindow(t *testing.T) {
	checkIn := d(2024, time.March, 15)
	cal := blockedOn("2024-03-20")
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"check-in itself", d(2024, time.March, 15), true},
		{"before check-in", d(2024, time.March, 14), true},
		{"first night", d(2024, time.March, 16), false},
		{"blocked in window", d(2024, time.March, 20), true},
		{"one month later", d(2024, time.April, 15), false},
		{"past one month", d(2024, time.April, 16), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckOutDisabled(tt.date, checkIn, cal); got != tt.want {
				t.Errorf("CheckOutDisabled(%s) = %v, want %v", daterange.FormatLocalDate(tt.date), got, tt.want)
			}
		})
	}

	enabled := SelectableCheckOuts(checkIn, cal)
	// 2024-03-16 .. 2024-04-15 is 31 days, minus the blocked 20th.
	if len(enabled) != 30 {
		t.Fatalf("len(SelectableCheckOuts) = %d, want 30", len(enabled))
	}
	if daterange.FormatLocalDate(enabled[0]) != "2024-03-16" || daterange.FormatLocalDate(enabled[len(enabled)-1]) != "2024-04-15" {
		t.Fatalf("window %s..%s", daterange.FormatLocalDate(enabled[0]), daterange.FormatLocalDate(enabled[len(enabled)-1]))
	}
}

func TestCheckOutDisabledWithoutCheckIn(t *testing.T) {
	if !CheckOutDisabled(d(2024, time.March, 16), time.Time{}, nil) {
		t.Fatal("check-out must be disabled until a check-in exists")
	}
	if got := SelectableCheckOuts(time.Time{}, nil); got != nil {
		t.Fatalf("SelectableCheckOuts = %v, want nil", got)
	}
}

func TestCheckOutWindowUsesCalendarMonths(t *testing.T) {
	_, last, ok := CheckOutWindow(d(2024, time.January, 31))
	if !ok || !last.Equal(d(2024, time.February, 29)) {
		t.Fatalf("last = %s, want 2024-02-29", daterange.FormatLocalDate(last))
	}
}

func TestSelectableCheckOutsCanBeEmpty(t *testing.T) {
	dates := make([]string, 0, 31)
	for day := d(2024, time.March, 16); !day.After(d(2024, time.April, 15)); day = day.AddDate(0, 0, 1) {
		dates = append(dates, daterange.FormatLocalDate(day))
	}
	if got := SelectableCheckOuts(d(2024, time.March, 15), blockedOn(dates...)); len(got) != 0 {
		t.Fatalf("expected no checkout dates, got %d", len(got))
	}
}
