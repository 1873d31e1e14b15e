package gate

import (
	"testing"
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/level"
)

func TestNotices_RepeatedEntryIsDistinct(t *testing.T) {
	key := audience.Key{Event: audience.EventEscalation, Level: level.FacilityAgenda}
	first := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	second := first.Add(40 * 24 * time.Hour)

	a := Notices(key, "PROP-001", first, map[string]any{"score": 85})
	b := Notices(key, "PROP-001", second, map[string]any{"score": 85})
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("got %d and %d notices, want 3 each", len(a), len(b))
	}
	for i := range a {
		if a[i].Template != b[i].Template {
			t.Fatalf("templates differ: %s vs %s", a[i].Template, b[i].Template)
		}
		if a[i].Occurrence == b[i].Occurrence {
			t.Errorf("%s: both entries share occurrence %s", a[i].Template, a[i].Occurrence)
		}
	}
	if a[0].Occurrence != "2026-03-02T09:00:00.000000Z" || a[0].Payload["occurredAt"] != a[0].Occurrence {
		t.Errorf("occurrence = %q, payload = %v", a[0].Occurrence, a[0].Payload["occurredAt"])
	}
	if a[0].Payload["score"] != 85 || a[0].Payload["kind"] != string(a[0].Kind) {
		t.Errorf("payload = %v", a[0].Payload)
	}
}
