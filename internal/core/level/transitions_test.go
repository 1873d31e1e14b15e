package level

import (
	"testing"

	"github.com/example/agenda/internal/core/permission"
)

func TestTargetLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{-5, Pending},
		{0, Pending},
		{29, Pending},
		{30, DeptReview},
		{49, DeptReview},
		{50, DeptAgenda},
		{99, DeptAgenda},
		{100, FacilityAgenda},
		{299, FacilityAgenda},
		{300, CorpReview},
		{599, CorpReview},
		{600, CorpAgenda},
		{10000, CorpAgenda},
	}

	for _, tt := range tests {
		if got := TargetLevelForScore(tt.score); got != tt.want {
			t.Errorf("TargetLevelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTargetLevelForScore_Monotonic(t *testing.T) {
	prev := Rank(TargetLevelForScore(0))
	for s := 1; s <= 700; s++ {
		r := Rank(TargetLevelForScore(s))
		if r < prev {
			t.Fatalf("rank decreased at score %d: %d < %d", s, r, prev)
		}
		prev = r
	}
}

func TestIsLegalManualTransition(t *testing.T) {
	tests := []struct {
		name    string
		current Level
		target  Level
		actor   permission.Level
		want    bool
	}{
		{
			name:    "manager can force facility agenda",
			current: DeptAgenda,
			target:  FacilityAgenda,
			actor:   permission.Of(7),
			want:    true,
		},
		{
			name:    "supervisor cannot force facility agenda",
			current: DeptAgenda,
			target:  FacilityAgenda,
			actor:   permission.Of(6),
			want:    false,
		},
		{
			name:    "lead variant below floor is rejected",
			current: DeptAgenda,
			target:  FacilityAgenda,
			actor:   permission.Level(13),
			want:    false,
		},
		{
			name:    "corp review needs 8",
			current: FacilityAgenda,
			target:  CorpReview,
			actor:   permission.Of(5),
			want:    false,
		},
		{
			name:    "executive may skip straight to corp agenda",
			current: Pending,
			target:  CorpAgenda,
			actor:   permission.Of(11),
			want:    true,
		},
		{
			name:    "tier without floor is open to any actor",
			current: Pending,
			target:  DeptReview,
			actor:   permission.Of(1),
			want:    true,
		},
		{
			name:    "backwards move is never legal",
			current: FacilityAgenda,
			target:  DeptReview,
			actor:   permission.SystemAdmin,
			want:    false,
		},
		{
			name:    "same level is not a transition",
			current: CorpReview,
			target:  CorpReview,
			actor:   permission.SystemAdmin,
			want:    false,
		},
		{
			name:    "unknown target is rejected",
			current: Pending,
			target:  Level("BOARD"),
			actor:   permission.SystemAdmin,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsLegalManualTransition(tt.current, tt.target, tt.actor)
			if got != tt.want {
				t.Errorf("IsLegalManualTransition(%s, %s, %v) = %v, want %v", tt.current, tt.target, tt.actor, got, tt.want)
			}
		})
	}
}

func TestPreviousAndNext(t *testing.T) {
	if prev, ok := Previous(FacilityAgenda); !ok || prev != DeptAgenda {
		t.Errorf("Previous(FACILITY_AGENDA) = %s, %v", prev, ok)
	}
	if _, ok := Previous(Pending); ok {
		t.Error("PENDING should have no previous tier")
	}
	if next, ok := Next(CorpReview); !ok || next != CorpAgenda {
		t.Errorf("Next(CORP_REVIEW) = %s, %v", next, ok)
	}
	if _, ok := Next(CorpAgenda); ok {
		t.Error("CORP_AGENDA should have no next tier")
	}
}

func TestNextThreshold(t *testing.T) {
	tests := []struct {
		level Level
		want  int
	}{
		{DeptAgenda, 100},
		{FacilityAgenda, 300},
		{CorpReview, 600},
	}
	for _, tt := range tests {
		got, ok := NextThreshold(tt.level)
		if !ok || got != tt.want {
			t.Errorf("NextThreshold(%s) = %d, %v; want %d", tt.level, got, ok, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" facility_agenda ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != FacilityAgenda {
		t.Errorf("Parse() = %s, want FACILITY_AGENDA", got)
	}
	if _, err := Parse("board"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, s := range []string{StatusArchived, StatusApprovedDeptAgenda, StatusApprovedAtLevel} {
		if !IsTerminalStatus(s) {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	for _, e := range Table {
		if IsTerminalStatus(e.AwaitingStatus) {
			t.Errorf("awaiting status %q should not be terminal", e.AwaitingStatus)
		}
	}
}
