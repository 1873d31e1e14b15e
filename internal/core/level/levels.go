// Package level contains the tier table and the tier state machine.
// This is part of the Functional Core - no I/O, only pure functions.
package level

import (
	"fmt"
	"strings"

	"github.com/example/agenda/internal/core/permission"
)

// Level is one of the ordered escalation tiers a proposal occupies.
type Level string

const (
	Pending        Level = "PENDING"
	DeptReview     Level = "DEPT_REVIEW"
	DeptAgenda     Level = "DEPT_AGENDA"
	FacilityAgenda Level = "FACILITY_AGENDA"
	CorpReview     Level = "CORP_REVIEW"
	CorpAgenda     Level = "CORP_AGENDA"
)

// Proposal statuses. The awaiting statuses are owned by a tier (see Entry);
// the rest mark a proposal that no longer advances.
const (
	StatusAwaitingVotes      = "awaiting votes"
	StatusDeptReview         = "under department review"
	StatusAwaitingSupervisor = "awaiting supervisor review"
	StatusAwaitingDirector   = "awaiting facility-director review"
	StatusAwaitingCorporate  = "awaiting corporate review"
	StatusCorporateAgenda    = "awaiting corporate decision"

	StatusApprovedDeptAgenda = "approved as department agenda"
	StatusApprovedAtLevel    = "approved at current level"
	StatusArchived           = "archived"
)

// Entry is one row of the tier table.
type Entry struct {
	Level Level
	// EnterScore is the score at which a proposal becomes eligible for this tier.
	EnterScore int
	// ManualMin is the permission floor for forcing entry into this tier.
	// permission.None means the tier has no floor.
	ManualMin permission.Level
	// AwaitingStatus is the status a proposal holds while sitting in the tier.
	AwaitingStatus string
}

// Table is ordered; index is rank.
var Table = []Entry{
	{Level: Pending, EnterScore: 0, ManualMin: permission.None, AwaitingStatus: StatusAwaitingVotes},
	{Level: DeptReview, EnterScore: 30, ManualMin: permission.None, AwaitingStatus: StatusDeptReview},
	{Level: DeptAgenda, EnterScore: 50, ManualMin: permission.None, AwaitingStatus: StatusAwaitingSupervisor},
	{Level: FacilityAgenda, EnterScore: 100, ManualMin: permission.Of(7), AwaitingStatus: StatusAwaitingDirector},
	{Level: CorpReview, EnterScore: 300, ManualMin: permission.Of(8), AwaitingStatus: StatusAwaitingCorporate},
	{Level: CorpAgenda, EnterScore: 600, ManualMin: permission.Of(11), AwaitingStatus: StatusCorporateAgenda},
}

// Rank returns the position of l in the table, or -1 for an unknown level.
func Rank(l Level) int {
	for i, e := range Table {
		if e.Level == l {
			return i
		}
	}
	return -1
}

// Lookup returns the table entry for l.
func Lookup(l Level) (Entry, bool) {
	r := Rank(l)
	if r < 0 {
		return Entry{}, false
	}
	return Table[r], true
}

// Parse converts user input (case-insensitive) into a Level.
func Parse(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if Rank(l) < 0 {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// Valid reports whether l is a known tier.
func (l Level) Valid() bool {
	return Rank(l) >= 0
}

func (l Level) String() string {
	return string(l)
}

// EnterScore returns the score threshold for entering l.
func EnterScore(l Level) int {
	e, _ := Lookup(l)
	return e.EnterScore
}

// RequiredPermission returns the manual-override floor for entering l.
func RequiredPermission(l Level) permission.Level {
	e, _ := Lookup(l)
	return e.ManualMin
}

// AwaitingStatus returns the status a proposal holds while in l.
func AwaitingStatus(l Level) string {
	e, _ := Lookup(l)
	return e.AwaitingStatus
}

// Previous returns the tier immediately below l. ok is false for PENDING.
func Previous(l Level) (Level, bool) {
	r := Rank(l)
	if r <= 0 {
		return "", false
	}
	return Table[r-1].Level, true
}

// Next returns the tier immediately above l. ok is false for the top tier.
func Next(l Level) (Level, bool) {
	r := Rank(l)
	if r < 0 || r >= len(Table)-1 {
		return "", false
	}
	return Table[r+1].Level, true
}

// NextThreshold returns the entry score of the tier above l.
func NextThreshold(l Level) (int, bool) {
	next, ok := Next(l)
	if !ok {
		return 0, false
	}
	return EnterScore(next), true
}

// IsTerminalStatus reports whether status marks a proposal that no gate may
// move any further.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusArchived, StatusApprovedDeptAgenda, StatusApprovedAtLevel:
		return true
	}
	return false
}
