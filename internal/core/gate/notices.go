package gate

import (
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/effects"
)

// OccurrenceLayout formats the event time that tells repeated notices apart.
const OccurrenceLayout = "2006-01-02T15:04:05.000000Z"

// Notices expands the recipient table row for key into notify effects. Every
// notice carries payload plus its own kind and the time of the event.
func Notices(key audience.Key, proposalID string, at time.Time, payload map[string]any) []effects.NotifyEffect {
	rules := audience.Rules(key)
	occurrence := at.UTC().Format(OccurrenceLayout)
	out := make([]effects.NotifyEffect, 0, len(rules))
	for _, r := range rules {
		p := make(map[string]any, len(payload)+3)
		for k, v := range payload {
			p[k] = v
		}
		p["kind"] = string(r.Kind)
		p["event"] = string(key.Event)
		p["occurredAt"] = occurrence
		out = append(out, effects.NotifyEffect{
			ProposalID: proposalID,
			Audience:   r.Audience,
			Kind:       r.Kind,
			Template:   audience.Template(key, r.Audience),
			Occurrence: occurrence,
			Payload:    p,
		})
	}
	return out
}
