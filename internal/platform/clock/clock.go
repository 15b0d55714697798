package clock

import "time"

// Clock abstracts time to keep lifecycle rules and streak math
// deterministic in tests. Location is the zone used to bucket sessions
// into calendar days for stats.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c SystemClock) Location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}
