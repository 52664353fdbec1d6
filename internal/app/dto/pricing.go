package dto

import "stayrent/internal/domain/pricing"

type NightlyLine struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	Seasonal bool    `json:"seasonal"`
}

type Quote struct {
	PropertyID    int64         `json:"property_id"`
	CheckIn       string        `json:"check_in"`
	CheckOut      string        `json:"check_out"`
	Nights        int           `json:"nights"`
	Total         float64       `json:"total"`
	Complete      bool          `json:"complete"`
	Lines         []NightlyLine `json:"lines"`
	UnpricedDates []string      `json:"unpriced_dates"`
}

func MapQuote(propertyID int64, q pricing.Quote) Quote {
	lines := make([]NightlyLine, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, NightlyLine{Date: l.Date, Price: l.Price, Seasonal: l.Seasonal})
	}
	unpriced := q.UnpricedDates
	if unpriced == nil {
		unpriced = []string{}
	}
	return Quote{
		PropertyID:    propertyID,
		CheckIn:       q.CheckIn,
		CheckOut:      q.CheckOut,
		Nights:        q.Nights,
		Total:         q.Total,
		Complete:      q.Complete(),
		Lines:         lines,
		UnpricedDates: unpriced,
	}
}
