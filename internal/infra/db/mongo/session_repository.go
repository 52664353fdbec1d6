package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayrent/internal/domain/booking"
	domaincalendar "stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

const sessionsCollection = "picker_sessions"

// SessionRepository stores picker sessions. Dates are kept as YYYY-MM-DD
// strings and read back as midnight in loc.
type SessionRepository struct {
	col *mongo.Collection
	loc *time.Location
}

// NewSessionRepository ensures a TTL index so abandoned sessions expire even
// when the sweep job is not running.
func NewSessionRepository(ctx context.Context, db *mongo.Database, loc *time.Location, ttl time.Duration) (*SessionRepository, error) {
	col := db.Collection(sessionsCollection)
	if ttl > 0 {
		idx := mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)),
		}
		if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
			return nil, err
		}
	}
	if loc == nil {
		loc = time.Local
	}
	return &SessionRepository{col: col, loc: loc}, nil
}

func (r *SessionRepository) ByID(ctx context.Context, id domainbooking.SessionID) (*domainbooking.Session, error) {
	var doc sessionDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainbooking.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toAggregate(r.loc)
}

func (r *SessionRepository) Save(ctx context.Context, s *domainbooking.Session) error {
	doc := newSessionDocument(s)
	filter := bson.M{"_id": doc.ID, "version": s.Version}
	doc.Version = s.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrSessionConflict
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrSessionConflict
	}
	s.Version = doc.Version
	return nil
}

func (r *SessionRepository) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type sessionDocument struct {
	ID                 string    `bson:"_id"`
	PropertyID         int64     `bson:"property_id"`
	ApplySearchContext bool      `bson:"apply_search_context"`
	Month              string    `bson:"month"`
	CheckIn            string    `bson:"check_in,omitempty"`
	CheckOut           string    `bson:"check_out,omitempty"`
	CheckInPickerOpen  bool      `bson:"check_in_picker_open"`
	CheckOutPickerOpen bool      `bson:"check_out_picker_open"`
	Version            int64     `bson:"version"`
	CreatedAt          time.Time `bson:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at"`
}

func newSessionDocument(s *domainbooking.Session) sessionDocument {
	return sessionDocument{
		ID:                 string(s.ID),
		PropertyID:         int64(s.PropertyID),
		ApplySearchContext: s.ApplySearchContext,
		Month:              daterange.FormatLocalDate(s.Month),
		CheckIn:            daterange.FormatLocalDate(s.CheckIn),
		CheckOut:           daterange.FormatLocalDate(s.CheckOut),
		CheckInPickerOpen:  s.CheckInPickerOpen,
		CheckOutPickerOpen: s.CheckOutPickerOpen,
		Version:            s.Version,
		CreatedAt:          s.CreatedAt.UTC(),
		UpdatedAt:          s.UpdatedAt.UTC(),
	}
}

func (d sessionDocument) toAggregate(loc *time.Location) (*domainbooking.Session, error) {
	s := &domainbooking.Session{
		ID:                 domainbooking.SessionID(d.ID),
		PropertyID:         domaincalendar.PropertyID(d.PropertyID),
		ApplySearchContext: d.ApplySearchContext,
		CheckInPickerOpen:  d.CheckInPickerOpen,
		CheckOutPickerOpen: d.CheckOutPickerOpen,
		Version:            d.Version,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	var err error
	if s.Month, err = optionalDate(d.Month, loc); err != nil {
		return nil, err
	}
	if s.CheckIn, err = optionalDate(d.CheckIn, loc); err != nil {
		return nil, err
	}
	if s.CheckOut, err = optionalDate(d.CheckOut, loc); err != nil {
		return nil, err
	}
	return s, nil
}

func optionalDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return daterange.FromDateString(raw, loc)
}

var _ domainbooking.SessionRepository = (*SessionRepository)(nil)
