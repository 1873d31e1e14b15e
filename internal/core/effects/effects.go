// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/level"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Visibility values for a proposal.
const (
	VisibilityDepartment = "department"
	VisibilityFacility   = "facility"
)

// LevelChangeEffect describes a conditional update of a proposal's tier.
// ExpectedLevel is the tier the proposal must still occupy when the update
// is applied. It is not an Effect: the owning service applies it itself so
// that a lost race can be reported as CONFLICT.
type LevelChangeEffect struct {
	ProposalID     string
	ExpectedLevel  level.Level
	Level          level.Level
	Status         string
	Visibility     string     // Empty leaves visibility unchanged
	VotingDeadline *time.Time // Nil leaves the deadline unchanged unless ClearDeadline
	ClearDeadline  bool
	DecisionBy     string
	DecisionAt     time.Time
	DecisionReason string
}

// NotifyEffect asks the shell to notify an audience about a proposal.
// Occurrence identifies the event instance; the same template may be sent
// again for a later occurrence.
type NotifyEffect struct {
	ProposalID string
	Audience   audience.Audience
	Kind       audience.Kind
	Template   string
	Occurrence string
	Payload    map[string]any
}

func (e NotifyEffect) EffectType() string { return "notify" }

// DocumentEffect asks the shell to create the companion proposal document
// unless one already exists.
type DocumentEffect struct {
	ProposalID string
	OwnerID    string
	Title      string
}

func (e DocumentEffect) EffectType() string { return "document" }

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }
