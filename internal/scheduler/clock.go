package scheduler

import "time"

// Clock abstracts wall-clock reads so firing behaviour can be tested with a
// controllable time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the real wall clock.
func SystemClock() Clock { return systemClock{} }
