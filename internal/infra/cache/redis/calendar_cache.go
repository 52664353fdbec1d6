package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"stayrent/internal/app/resolver"
	domaincalendar "stayrent/internal/domain/calendar"
)

const defaultPrefix = "stayrent:calendar:"

// CalendarCache shares resolved months between replicas. Entries expire by
// themselves after TTL, so Sweep has nothing to do.
type CalendarCache struct {
	Client *goredis.Client
	TTL    time.Duration
	Prefix string
}

// NewClient parses a redis:// URL.
func NewClient(rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return goredis.NewClient(opts), nil
}

func (c *CalendarCache) Get(ctx context.Context, key resolver.Key) (resolver.Entry, bool, error) {
	raw, err := c.Client.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return resolver.Entry{}, false, nil
	}
	if err != nil {
		return resolver.Entry{}, false, err
	}
	entry, err := decodeEntry(raw)
	if err != nil {
		return resolver.Entry{}, false, err
	}
	return entry, true, nil
}

func (c *CalendarCache) Put(ctx context.Context, key resolver.Key, entry resolver.Entry) error {
	raw, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.redisKey(key), raw, c.TTL).Err()
}

func (c *CalendarCache) InvalidateProperty(ctx context.Context, id domaincalendar.PropertyID) (int, error) {
	pattern := fmt.Sprintf("%s%d:*", c.prefix(), id)
	iter := c.Client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.Client.Del(ctx, keys...).Result()
	return int(n), err
}

func (c *CalendarCache) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

// Ping is used as a readiness probe.
func (c *CalendarCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *CalendarCache) redisKey(key resolver.Key) string {
	return c.prefix() + key.String()
}

func (c *CalendarCache) prefix() string {
	if c.Prefix == "" {
		return defaultPrefix
	}
	return c.Prefix
}

type entryRecord struct {
	PropertyID   int64       `json:"property_id"`
	PropertyName string      `json:"property_name"`
	FetchedAt    time.Time   `json:"fetched_at"`
	Days         []dayRecord `json:"days"`
}

type dayRecord struct {
	Date      string       `json:"date"`
	Lowest    *float64     `json:"lowest_price"`
	Available int          `json:"available_rooms_count"`
	Rooms     []roomRecord `json:"room_prices,omitempty"`
}

type roomRecord struct {
	RoomID   int64   `json:"room_id"`
	Price    float64 `json:"price"`
	Seasonal bool    `json:"seasonal"`
}

func encodeEntry(e resolver.Entry) ([]byte, error) {
	rec := entryRecord{
		PropertyID:   int64(e.Calendar.PropertyID),
		PropertyName: e.Calendar.PropertyName,
		FetchedAt:    e.FetchedAt.UTC(),
	}
	for _, day := range e.Calendar.Days {
		dr := dayRecord{Date: day.Date, Lowest: day.LowestPrice, Available: day.AvailableRoomsCount}
		for _, rp := range day.RoomPrices {
			dr.Rooms = append(dr.Rooms, roomRecord{RoomID: rp.RoomID, Price: rp.Price, Seasonal: rp.IsSeasonalRate})
		}
		rec.Days = append(rec.Days, dr)
	}
	return json.Marshal(rec)
}

func decodeEntry(raw []byte) (resolver.Entry, error) {
	var rec entryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return resolver.Entry{}, fmt.Errorf("decode cached calendar: %w", err)
	}
	cal := domaincalendar.PropertyCalendar{PropertyID: domaincalendar.PropertyID(rec.PropertyID), PropertyName: rec.PropertyName}
	for _, dr := range rec.Days {
		day := domaincalendar.Day{Date: dr.Date, LowestPrice: dr.Lowest, AvailableRoomsCount: dr.Available}
		for _, rr := range dr.Rooms {
			day.RoomPrices = append(day.RoomPrices, domaincalendar.RoomPrice{RoomID: rr.RoomID, Price: rr.Price, IsSeasonalRate: rr.Seasonal})
		}
		cal.Days = append(cal.Days, day)
	}
	return resolver.Entry{Calendar: cal.Normalize(), FetchedAt: rec.FetchedAt}, nil
}

var _ resolver.Cache = (*CalendarCache)(nil)
