package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/outbox"
	"stayrent/internal/app/queries"
)

type markCommand struct {
	SessionID string    `validate:"required"`
	Date      time.Time `validate:"required"`
	Picker    string    `validate:"omitempty,oneof=check-in check-out"`
}

func (markCommand) Key() string { return "test.mark" }

type echoQuery struct {
	PropertyID int64 `validate:"gt=0"`
}

func (echoQuery) Key() string { return "test.echo" }

type countingOutbox struct {
	flushes int
	err     error
}

func (c *countingOutbox) Add(context.Context, outbox.EventRecord) error { return nil }
func (c *countingOutbox) Flush(context.Context) error {
	c.flushes++
	return c.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestCommandPipeline(t *testing.T) {
	registry := commands.NewRegistry()
	fail := false
	commands.RegisterHandler(registry, commands.HandlerFunc[markCommand, string](func(ctx context.Context, cmd markCommand) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok:" + cmd.SessionID, nil
	}))
	box := &countingOutbox{}
	bus := ChainCommands(registry, Logging(quiet()), Validation(NewStructValidator()), OutboxFlush(box, quiet()))
	ctx := context.Background()

	got, err := commands.Dispatch[markCommand, string](ctx, bus, markCommand{SessionID: "s", Date: time.Now()})
	if err != nil || got != "ok:s" || box.flushes != 1 {
		t.Fatalf("got %q err %v flushes %d", got, err, box.flushes)
	}

	_, err = commands.Dispatch[markCommand, string](ctx, bus, markCommand{Picker: "calendar"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	want := "validation failed: sessionid is required; date is required; picker must be one of [check-in check-out]"
	if err.Error() != want {
		t.Fatalf("err = %q", err.Error())
	}

	fail = true
	if _, err := bus.Dispatch(ctx, markCommand{SessionID: "s", Date: time.Now()}); err == nil || box.flushes != 1 {
		t.Fatalf("failed command must not flush, err %v flushes %d", err, box.flushes)
	}
}

func TestFlushFailureKeepsResult(t *testing.T) {
	registry := commands.NewRegistry()
	commands.RegisterHandler(registry, commands.HandlerFunc[markCommand, string](func(ctx context.Context, cmd markCommand) (string, error) {
		return "saved", nil
	}))
	box := &countingOutbox{err: errors.New("outbox full")}
	bus := ChainCommands(registry, OutboxFlush(box, quiet()))
	got, err := commands.Dispatch[markCommand, string](context.Background(), bus, markCommand{SessionID: "s", Date: time.Now()})
	if err != nil || got != "saved" || box.flushes != 1 {
		t.Fatalf("got %q err %v flushes %d", got, err, box.flushes)
	}
}

func TestQueryPipeline(t *testing.T) {
	registry := queries.NewRegistry()
	queries.RegisterHandler(registry, queries.HandlerFunc[echoQuery, int64](func(ctx context.Context, q echoQuery) (int64, error) {
		return q.PropertyID, nil
	}))
	bus := ChainQueries(registry, QueryLogging(quiet()), QueryValidation(NewStructValidator()))
	ctx := context.Background()

	if got, err := queries.Ask[echoQuery, int64](ctx, bus, echoQuery{PropertyID: 5}); err != nil || got != 5 {
		t.Fatalf("got %d err %v", got, err)
	}
	if _, err := queries.Ask[echoQuery, int64](ctx, bus, echoQuery{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	if _, err := queries.Ask[echoQuery, string](ctx, bus, echoQuery{PropertyID: 5}); !errors.Is(err, queries.ErrResultType) {
		t.Fatalf("err = %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	registry := commands.NewRegistry()
	if _, err := registry.Dispatch(context.Background(), markCommand{}); !errors.Is(err, commands.ErrHandlerNotFound) {
		t.Fatalf("err = %v", err)
	}
}
