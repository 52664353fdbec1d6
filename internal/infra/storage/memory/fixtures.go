package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	domainavailability "stayrent/internal/domain/availability"
	domaincalendar "stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

type inventoryFixture struct {
	PropertyID    int64                 `json:"property_id"`
	Name          string                `json:"name"`
	Rooms         []roomFixture         `json:"rooms"`
	SeasonalRates []seasonalRateFixture `json:"seasonal_rates"`
	Blocks        []blockFixture        `json:"blocks"`
}

type roomFixture struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
	Units     int     `json:"units"`
}

type seasonalRateFixture struct {
	Name       string  `json:"name"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	FixedPrice float64 `json:"fixed_price"`
	AppliesTo  string  `json:"applies_to"`
	RoomID     int64   `json:"room_id"`
}

type blockFixture struct {
	RoomID    int64  `json:"room_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

// LoadInventoryFixtures decodes a JSON array of properties into repo. Invalid
// entries are logged and skipped; the count of stored properties is returned.
func LoadInventoryFixtures(ctx context.Context, repo *InventoryRepository, r io.Reader, loc *time.Location, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var fixtures []inventoryFixture
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}
	stored := 0
	for _, fx := range fixtures {
		inv, err := fx.inventory(loc)
		if err != nil {
			logger.Error("fixture invalid", "property_id", fx.PropertyID, "error", err)
			continue
		}
		if err := repo.Save(ctx, inv); err != nil {
			logger.Error("cannot store fixture inventory", "property_id", fx.PropertyID, "error", err)
			continue
		}
		stored++
		logger.Info("inventory fixture imported", "property_id", fx.PropertyID, "rooms", len(inv.Rooms))
	}
	return stored, nil
}

func (fx inventoryFixture) inventory(loc *time.Location) (*domainavailability.Inventory, error) {
	inv := &domainavailability.Inventory{PropertyID: domaincalendar.PropertyID(fx.PropertyID), Name: fx.Name}
	if !inv.PropertyID.Valid() {
		return nil, domaincalendar.ErrInvalidPropertyID
	}
	for _, room := range fx.Rooms {
		units := room.Units
		if units <= 0 {
			units = 1
		}
		inv.Rooms = append(inv.Rooms, domainavailability.Room{ID: room.ID, Name: room.Name, BasePrice: room.BasePrice, Units: units})
	}
	for _, rate := range fx.SeasonalRates {
		start, err := daterange.FromDateString(rate.StartDate, loc)
		if err != nil {
			return nil, fmt.Errorf("seasonal rate %q: %w", rate.Name, err)
		}
		end, err := daterange.FromDateString(rate.EndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("seasonal rate %q: %w", rate.Name, err)
		}
		scope := domaincalendar.RateScope(rate.AppliesTo)
		if scope == "" {
			scope = domaincalendar.ScopeProperty
		}
		inv.SeasonalRates = append(inv.SeasonalRates, domaincalendar.SeasonalRate{
			Name:       rate.Name,
			StartDate:  start,
			EndDate:    end,
			FixedPrice: rate.FixedPrice,
			AppliesTo:  scope,
			RoomID:     rate.RoomID,
		})
	}
	for _, b := range fx.Blocks {
		from, err := daterange.FromDateString(b.From, loc)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Reference, err)
		}
		to, err := daterange.FromDateString(b.To, loc)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Reference, err)
		}
		dr, err := daterange.New(from, to)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Reference, err)
		}
		block := domainavailability.Block{
			RoomID:    b.RoomID,
			Range:     dr,
			Reason:    domainavailability.BlockReason(b.Reason),
			Reference: b.Reference,
		}
		if err := inv.AddBlock(block); err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Reference, err)
		}
	}
	return inv, nil
}
