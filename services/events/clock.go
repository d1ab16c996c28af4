package events

import "time"

// Clock abstracts wall-clock time so the upcoming/past decision can be
// pinned down in tests. An event is upcoming while datetime >= now; there is
// no persisted status field.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Upcoming reports whether an event scheduled at datetime still accepts
// suggestions and votes. The boundary belongs to upcoming: an event whose
// datetime equals now has not passed.
func Upcoming(now, datetime time.Time) bool {
	return !datetime.Before(now)
}
