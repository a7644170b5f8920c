package domain

import "time"

// TimeEntry represents one timesheet record in the domain.
// Employee is already resolved from the upstream name fields and may be empty.
type TimeEntry struct {
	Employee string
	Start    time.Time
	End      time.Time
}

// WorkedSeconds returns End - Start in seconds. Inverted timestamps yield a
// negative value.
func (e TimeEntry) WorkedSeconds() float64 {
	return e.End.Sub(e.Start).Seconds()
}
