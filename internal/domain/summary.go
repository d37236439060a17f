package domain

// Reduce folds a slice of events into a Summary. It is a pure function of
// its input: the same events always produce the same Summary.
func Reduce(events []Event) Summary {
	var s Summary
	for _, ev := range events {
		switch ev.Kind {
		case EventSport:
			s.SportCount++
		case EventCall:
			s.CallCount++
		case EventVisibility:
			s.VisibilityCount++
		case EventSale:
			s.SaleCount++
			s.SaleSum += ev.Value
		case EventCash:
			s.CashSum += ev.Value
		case EventSleep:
			s.SleepHours += ev.Value
		case EventMeditation:
			s.MeditationMinutes += ev.Value
		case EventReading:
			s.ReadingMinutes += ev.Value
		}
	}
	return s
}
