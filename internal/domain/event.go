package domain

import "time"

// EventKind identifies which life dimension an action belongs to.
type EventKind string

const (
	EventSport      EventKind = "sport"
	EventCall       EventKind = "call"
	EventVisibility EventKind = "visibility"
	EventSale       EventKind = "sale"
	EventCash       EventKind = "cash"
	EventSleep      EventKind = "sleep"
	EventMeditation EventKind = "meditation"
	EventReading    EventKind = "reading"
)

// Valid reports whether the kind is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventSport, EventCall, EventVisibility, EventSale, EventCash,
		EventSleep, EventMeditation, EventReading:
		return true
	}
	return false
}

// CarriesValue reports whether events of this kind require a numeric payload:
// an amount for sales and cash, hours for sleep, minutes for meditation and
// reading.
func (k EventKind) CarriesValue() bool {
	switch k {
	case EventSale, EventCash, EventSleep, EventMeditation, EventReading:
		return true
	}
	return false
}

// Spirit reports whether the kind counts toward the spirit dimension of goal
// progress.
func (k EventKind) Spirit() bool {
	switch k {
	case EventSleep, EventMeditation, EventReading:
		return true
	}
	return false
}

// Event is the immutable record of one user action. Events are only ever
// appended; nothing in the system updates or deletes them.
type Event struct {
	ID        string
	UserID    string
	Kind      EventKind
	Value     int64
	TypeRef   string // activity type ID, set on sport events logged from a reminder
	CreatedAt time.Time
}

// ActivityType is a user-defined category for sport events ("gym", "pool").
type ActivityType struct {
	ID     string
	UserID string
	Name   string
}

// ScheduleEntry defines when the reminder for one activity type fires, in the
// user's local time.
type ScheduleEntry struct {
	ID        string
	UserID    string
	TypeID    string
	DayOfWeek int    // 0=Sunday .. 6=Saturday
	TimeOfDay string // "HH:MM" local wall clock
}

// ScheduleSlot is a schedule entry joined with its activity type name, the
// shape the reminder scheduler consumes.
type ScheduleSlot struct {
	ActivityName string
	DayOfWeek    int
	TimeOfDay    string
}

// Settings holds the per-user configuration the engine depends on.
type Settings struct {
	UserID        string
	Timezone      string
	NotifyEnabled bool
	SaleThreshold int64
	CreatedAt     time.Time
}

// Summary is the reduction of a user's events over a trailing window.
type Summary struct {
	SportCount        int
	CallCount         int
	VisibilityCount   int
	SaleCount         int
	SaleSum           int64
	CashSum           int64
	SleepHours        int64
	MeditationMinutes int64
	ReadingMinutes    int64
}

// Cursor models the pagination token for event listings.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}
