package cli

import (
	"time"

	"github.com/fatih/color"

	"github.com/example/agenda/internal/core/level"
)

// levelLabel colours a tier by how far up the hierarchy it sits.
func levelLabel(l string) string {
	switch level.Level(l) {
	case level.Pending, level.DeptReview:
		return l
	case level.DeptAgenda:
		return color.New(color.FgCyan).Sprint(l)
	case level.FacilityAgenda:
		return color.New(color.FgBlue).Sprint(l)
	case level.CorpReview, level.CorpAgenda:
		return color.New(color.FgHiMagenta).Sprint(l)
	default:
		return l
	}
}

func statusLabel(status string) string {
	switch status {
	case level.StatusArchived:
		return color.New(color.FgRed).Sprint(status)
	case level.StatusApprovedDeptAgenda, level.StatusApprovedAtLevel:
		return color.New(color.FgGreen).Sprint(status)
	default:
		return status
	}
}

func rateLabel(rate float64) string {
	c := color.FgRed
	switch {
	case rate >= 80:
		c = color.FgGreen
	case rate >= 50:
		c = color.FgYellow
	}
	return color.New(c).Sprintf("%.1f%%", rate)
}

func formatDeadline(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
