// Package report renders weekly report artifacts from aggregated stats.
package report

import (
	"context"
	"fmt"
	"strings"

	"example.com/progress/internal/domain"
)

// TextRenderer produces a plain-text report artifact. Downstream channels
// that want a richer card can substitute their own Renderer.
type TextRenderer struct{}

// NewTextRenderer constructs a TextRenderer.
func NewTextRenderer() TextRenderer { return TextRenderer{} }

// Render formats the 7-day and 30-day summaries plus the points balance.
func (TextRenderer) Render(_ context.Context, _ string, r domain.Report) (string, error) {
	var b strings.Builder
	b.WriteString("Progress report\n")
	fmt.Fprintf(&b, "Last 7 days: workouts %d, sales %d, cash %s\n",
		r.Week.SportCount, r.Week.SaleCount, FormatMoney(r.Week.CashSum))
	fmt.Fprintf(&b, "Last 30 days: workouts %d, sales %d, cash %s\n",
		r.Month.SportCount, r.Month.SaleCount, FormatMoney(r.Month.CashSum))
	fmt.Fprintf(&b, "Sleep %d h, meditation %d min, reading %d min (30 days)\n",
		r.Month.SleepHours, r.Month.MeditationMinutes, r.Month.ReadingMinutes)
	fmt.Fprintf(&b, "Points: %d", r.Points)
	return b.String(), nil
}

// FormatMoney renders an amount with thin thousands separators, e.g.
// 1234567 -> "1 234 567".
func FormatMoney(v int64) string {
	digits := fmt.Sprintf("%d", v)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return sign + strings.Join(groups, " ")
}
