package domain

import "time"

// Goal is a user-defined threshold bundle with a reward and a deadline.
// Goals are immutable once created; eligible/expired status is derived at
// evaluation time and never stored.
type Goal struct {
	ID          string
	UserID      string
	Title       string
	Reward      string
	SportMin    int
	BusinessMin int
	SalesMin    int
	SpiritMin   int
	PointsMin   int64
	Deadline    time.Time // calendar date, midnight UTC
	CreatedAt   time.Time
}

// GracePeriod is how long past its deadline a goal may still be evaluated as
// eligible.
const GracePeriod = 24 * time.Hour

// Goal progress dimensions, as reported in shortfalls.
const (
	DimensionSport    = "sport"
	DimensionBusiness = "business"
	DimensionSales    = "sales"
	DimensionSpirit   = "spirit"
	DimensionPoints   = "points"
)

// Shortfall names one unmet threshold of a pending goal.
type Shortfall struct {
	Dimension string
	Current   int64
	Required  int64
}

// PendingGoal pairs a goal with the thresholds it has not met yet.
type PendingGoal struct {
	Goal       Goal
	Shortfalls []Shortfall
}

// GoalEvaluation is the outcome of evaluating all of a user's goals at a
// point in time. Expired goals appear in neither list.
type GoalEvaluation struct {
	Eligible []Goal
	Pending  []PendingGoal
}

// GoalProgress captures the measured values a goal was checked against.
type GoalProgress struct {
	SportCount    int
	BusinessCount int
	SalesCount    int
	SpiritCount   int
	Points        int64
}

// met reports whether every threshold is satisfied, and the shortfalls
// otherwise.
func (g Goal) met(p GoalProgress) (bool, []Shortfall) {
	var missing []Shortfall
	if p.SportCount < g.SportMin {
		missing = append(missing, Shortfall{DimensionSport, int64(p.SportCount), int64(g.SportMin)})
	}
	if p.BusinessCount < g.BusinessMin {
		missing = append(missing, Shortfall{DimensionBusiness, int64(p.BusinessCount), int64(g.BusinessMin)})
	}
	if p.SalesCount < g.SalesMin {
		missing = append(missing, Shortfall{DimensionSales, int64(p.SalesCount), int64(g.SalesMin)})
	}
	if p.SpiritCount < g.SpiritMin {
		missing = append(missing, Shortfall{DimensionSpirit, int64(p.SpiritCount), int64(g.SpiritMin)})
	}
	if p.Points < g.PointsMin {
		missing = append(missing, Shortfall{DimensionPoints, p.Points, g.PointsMin})
	}
	return len(missing) == 0, missing
}

// progress folds the events inside the goal window into measured values.
// The points balance is supplied separately because it is cumulative, not
// windowed.
func progress(events []Event, points int64) GoalProgress {
	p := GoalProgress{Points: points}
	for _, ev := range events {
		switch {
		case ev.Kind == EventSport:
			p.SportCount++
		case ev.Kind == EventCall || ev.Kind == EventVisibility:
			p.BusinessCount++
		case ev.Kind == EventSale:
			p.SalesCount++
		case ev.Kind.Spirit() && ev.Value > 0:
			p.SpiritCount++
		}
	}
	return p
}
