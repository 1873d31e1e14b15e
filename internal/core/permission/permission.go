// Package permission models the numeric authority level attached to a user.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Hierarchical levels run from 1 (line staff) to 18 (board level) in 0.5
// steps; a .5 value is the "team-lead capable" variant of the integer tier
// below it. 97, 98 and 99 are disjoint special-authority roles. Internally a
// Level stores twice its numeric value so that comparisons never touch
// floating point.
package permission

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Level is a permission level in fixed point (value × 2).
type Level int

// None is the zero Level. It is below every valid level and is used by
// tables to mean "no floor".
const None Level = 0

const (
	minHierarchical = 1 * 2
	maxHierarchical = 18 * 2
)

// Special-authority roles.
const (
	OccupationalHealth Level = 97 * 2
	Physician          Level = 98 * 2
	SystemAdmin        Level = 99 * 2
)

// Frequently referenced hierarchy floors.
const (
	Supervisor      Level = 5 * 2
	Manager         Level = 7 * 2
	DeputyDirector  Level = 8 * 2
	FacilityTopTier Level = 10 * 2
	Executive       Level = 11 * 2
)

// Of returns the Level for a whole-number tier. It does not validate.
func Of(tier int) Level {
	return Level(tier * 2)
}

// FromFloat converts a numeric value into a Level, rejecting values outside
// the permission domain.
func FromFloat(v float64) (Level, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None, fmt.Errorf("invalid permission level %v", v)
	}
	doubled := v * 2
	if doubled != math.Trunc(doubled) {
		return None, fmt.Errorf("invalid permission level %v: only .5 increments are allowed", v)
	}
	l := Level(int(doubled))
	if !l.Valid() {
		return None, fmt.Errorf("invalid permission level %v: must be 1-18 or 97, 98, 99", v)
	}
	return l, nil
}

// Parse parses a textual level such as "7", "2.5" or "99".
func Parse(s string) (Level, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return None, fmt.Errorf("invalid permission level %q", s)
	}
	return FromFloat(v)
}

// Valid reports whether l is inside the permission domain.
func (l Level) Valid() bool {
	if l >= minHierarchical && l <= maxHierarchical {
		return true
	}
	return l.IsSpecial()
}

// IsSpecial reports whether l is one of the non-hierarchical roles.
func (l Level) IsSpecial() bool {
	return l == OccupationalHealth || l == Physician || l == SystemAdmin
}

// IsLeadVariant reports whether l is a .5 level.
func (l Level) IsLeadVariant() bool {
	return l%2 != 0
}

// AtLeast reports whether l meets the floor min using ordinary numeric >=.
func (l Level) AtLeast(min Level) bool {
	return l >= min
}

// Within reports whether min <= l < max.
func (l Level) Within(min, max Level) bool {
	return l >= min && l < max
}

// Float returns the numeric value.
func (l Level) Float() float64 {
	return float64(l) / 2
}

// Doubled returns the fixed-point storage value.
func (l Level) Doubled() int {
	return int(l)
}

// FromDoubled rebuilds a Level from its storage value.
func FromDoubled(v int) Level {
	return Level(v)
}

func (l Level) String() string {
	if l%2 == 0 {
		return strconv.Itoa(int(l) / 2)
	}
	return strconv.Itoa(int(l)/2) + ".5"
}
