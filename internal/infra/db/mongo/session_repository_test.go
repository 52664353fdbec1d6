package mongo

import (
	"testing"
	"time"

	_ "time/tzdata"

	domainbooking "stayrent/internal/domain/booking"
)

func TestSessionDocumentKeepsCalendarDates(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, time.March, 9, 23, 30, 0, 0, loc)
	s, err := domainbooking.NewSession(domainbooking.NewSessionParams{ID: "s", PropertyID: 3, Month: now, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.SelectCheckIn(time.Date(2024, time.March, 10, 15, 0, 0, 0, loc), now)
	s.Version = 4

	doc := newSessionDocument(s)
	if doc.CheckIn != "2024-03-10" || doc.CheckOut != "" || doc.Month != "2024-03-01" {
		t.Fatalf("doc = %+v", doc)
	}
	back, err := doc.toAggregate(loc)
	if err != nil {
		t.Fatalf("toAggregate: %v", err)
	}
	if !back.CheckIn.Equal(time.Date(2024, time.March, 10, 0, 0, 0, 0, loc)) || back.HasCheckOut() || back.Version != 4 {
		t.Fatalf("session = %+v", back)
	}

	doc.CheckOut = "10/03/2024"
	if _, err := doc.toAggregate(loc); err == nil {
		t.Fatal("expected a parse error for a malformed date")
	}
}
