// Package audience declares who hears about what. Recipient groups are
// resolved from a static table keyed by event, tier and decision so that the
// rules never depend on how users are stored or queried.
package audience

import (
	"fmt"

	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/permission"
)

// Event is the kind of engine action that triggers a notification.
type Event string

const (
	EventMilestone  Event = "milestone"
	EventEscalation Event = "escalation"
	EventReview     Event = "review"
	EventExpired    Event = "expired"
)

// Audience names a recipient group.
type Audience string

const (
	Author             Audience = "author"
	DeptSupervisors    Audience = "dept_supervisors"
	DeptManagers       Audience = "dept_managers"
	FacilityDirectors  Audience = "facility_directors"
	FacilityStaff      Audience = "facility_staff"
	CorporateReviewers Audience = "corporate_reviewers"
	Executives         Audience = "executives"
)

// Kind is how a notice is framed to its recipients.
type Kind string

const (
	Informational  Kind = "informational"
	PreAlert       Kind = "pre_alert"
	ActionRequired Kind = "action_required"
)

// Scope restricts the users an audience is drawn from.
type Scope string

const (
	ScopeAuthor     Scope = "author"
	ScopeDepartment Scope = "department"
	ScopeFacility   Scope = "facility"
	ScopeCorporate  Scope = "corporate"
)

// Spec describes how an audience is resolved: a scope plus a half-open
// permission range [Min, Max). A zero Max means no upper bound.
type Spec struct {
	Scope Scope
	Min   permission.Level
	Max   permission.Level
}

var specs = map[Audience]Spec{
	Author:             {Scope: ScopeAuthor},
	DeptSupervisors:    {Scope: ScopeDepartment, Min: permission.Of(5), Max: permission.Of(7)},
	DeptManagers:       {Scope: ScopeDepartment, Min: permission.Of(7), Max: permission.Of(9)},
	FacilityDirectors:  {Scope: ScopeFacility, Min: permission.Of(8), Max: permission.Of(10)},
	FacilityStaff:      {Scope: ScopeFacility},
	CorporateReviewers: {Scope: ScopeCorporate, Min: permission.Of(10), Max: permission.Of(11)},
	Executives:         {Scope: ScopeCorporate, Min: permission.Of(11), Max: permission.Of(19)},
}

// SpecFor returns the resolution spec for a.
func SpecFor(a Audience) (Spec, bool) {
	s, ok := specs[a]
	return s, ok
}

// Rule sends one kind of notice to one audience.
type Rule struct {
	Audience Audience
	Kind     Kind
}

// Key identifies a row of the recipient table. Decision is empty for tier
// entry events.
type Key struct {
	Event    Event
	Level    level.Level
	Decision string
}

var tierEntry = map[level.Level][]Rule{
	level.DeptReview: {
		{Audience: Author, Kind: Informational},
		{Audience: DeptSupervisors, Kind: PreAlert},
		{Audience: DeptManagers, Kind: PreAlert},
	},
	level.DeptAgenda: {
		{Audience: Author, Kind: Informational},
		{Audience: DeptSupervisors, Kind: ActionRequired},
		{Audience: DeptManagers, Kind: Informational},
	},
	level.FacilityAgenda: {
		{Audience: Author, Kind: Informational},
		{Audience: FacilityDirectors, Kind: ActionRequired},
		{Audience: FacilityStaff, Kind: Informational},
	},
	level.CorpReview: {
		{Audience: Author, Kind: Informational},
		{Audience: CorporateReviewers, Kind: ActionRequired},
	},
	level.CorpAgenda: {
		{Audience: Author, Kind: Informational},
		{Audience: Executives, Kind: ActionRequired},
	},
}

var decisions = map[Key][]Rule{
	{Event: EventReview, Decision: "approve_as_dept_agenda"}: {
		{Audience: Author, Kind: Informational},
		{Audience: DeptManagers, Kind: Informational},
	},
	{Event: EventReview, Decision: "reject"}: {
		{Audience: Author, Kind: Informational},
	},
	{Event: EventExpired, Decision: "approve_at_current_level"}: {
		{Audience: Author, Kind: Informational},
	},
	{Event: EventExpired, Decision: "downgrade"}: {
		{Audience: Author, Kind: Informational},
		{Audience: DeptManagers, Kind: Informational},
	},
	{Event: EventExpired, Decision: "reject"}: {
		{Audience: Author, Kind: Informational},
	},
}

// Rules returns the notification rules for key. Milestone and escalation
// events share the tier-entry audience of the tier being entered.
func Rules(key Key) []Rule {
	switch key.Event {
	case EventMilestone, EventEscalation:
		return tierEntry[key.Level]
	}
	if key.Decision == "escalate_to_facility" {
		return tierEntry[level.FacilityAgenda]
	}
	return decisions[Key{Event: key.Event, Decision: key.Decision}]
}

// Template names the notice sent to an audience for key. Templates are stable
// identifiers; rendering belongs to the transport.
func Template(key Key, a Audience) string {
	if key.Decision != "" {
		return fmt.Sprintf("%s.%s.%s", key.Event, key.Decision, a)
	}
	return fmt.Sprintf("%s.%s.%s", key.Event, key.Level, a)
}
