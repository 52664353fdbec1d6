package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	appoutbox "stayrent/internal/app/outbox"
)

type fakeRelay struct {
	queue  []*appoutbox.Claimed
	sent   []string
	failed map[string]time.Time
}

func (r *fakeRelay) Claim(context.Context, string) (*appoutbox.Claimed, error) {
	if len(r.queue) == 0 {
		return nil, nil
	}
	rec := r.queue[0]
	r.queue = r.queue[1:]
	return rec, nil
}

func (r *fakeRelay) MarkSent(_ context.Context, id string) error {
	r.sent = append(r.sent, id)
	return nil
}

func (r *fakeRelay) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	if r.failed == nil {
		r.failed = map[string]time.Time{}
	}
	r.failed[id] = next
	return nil
}

type published struct {
	topic, key string
	payload    []byte
	headers    map[string]string
}

type fakeProducer struct {
	out  []published
	fail bool
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.out = append(p.out, published{topic, key, payload, headers})
	return nil
}

func claimed(id, name string, attempts int) *appoutbox.Claimed {
	return &appoutbox.Claimed{
		EventRecord: appoutbox.EventRecord{
			ID:        id,
			Name:      name,
			Payload:   []byte(`{"session_id":"s-1","check_in":"2024-03-15"}`),
			Aggregate: "s-1",
			Headers:   map[string]string{"event-name": name},
		},
		Attempts: attempts,
	}
}

func TestDrainPublishesCloudEvents(t *testing.T) {
	relay := &fakeRelay{queue: []*appoutbox.Claimed{claimed("e1", "selection.check_in_selected", 0), claimed("e2", "selection.cleared", 0)}}
	producer := &fakeProducer{}
	w := &Worker{Relay: relay, Producer: producer, TopicPrefix: "dev.", ID: "w1"}

	n, err := w.Drain(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Drain = %d, %v", n, err)
	}
	if len(relay.sent) != 2 || producer.out[0].topic != "dev.selection.events.v1" || producer.out[0].key != "s-1" {
		t.Fatalf("published = %+v", producer.out)
	}
	var evt map[string]any
	if err := json.Unmarshal(producer.out[0].payload, &evt); err != nil {
		t.Fatal(err)
	}
	if evt["type"] != "selection.check_in_selected.v1" || evt["id"] != "e1" || evt["source"] != "app://stayrent" {
		t.Fatalf("event = %v", evt)
	}
	if data, ok := evt["data"].(map[string]any); !ok || data["check_in"] != "2024-03-15" {
		t.Fatalf("data = %v", evt["data"])
	}
	if producer.out[0].headers["content-type"] != "application/cloudevents+json" || producer.out[0].headers["event-name"] == "" {
		t.Fatalf("headers = %v", producer.out[0].headers)
	}
}

func TestFailedPublishSchedulesRetry(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	relay := &fakeRelay{queue: []*appoutbox.Claimed{claimed("e1", "selection.cleared", 1)}}
	w := &Worker{
		Relay:    relay,
		Producer: &fakeProducer{fail: true},
		Backoff:  []time.Duration{time.Second, 5 * time.Second},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return now },
	}
	if _, err := w.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if next := relay.failed["e1"]; !next.Equal(now.Add(5 * time.Second)) {
		t.Fatalf("next attempt = %v", next)
	}
	if got := w.nextRetry(9); !got.Equal(now.Add(5 * time.Second)) {
		t.Fatalf("backoff should stay at its last step, got %v", got)
	}
}

func TestRunRequiresDependencies(t *testing.T) {
	if err := (&Worker{}).Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
