package guardkit

import "time"

// Clock supplies the current time to every time-based component (cache
// expiry, rate windows, audit timestamps) so tests can advance time
// deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall-clock implementation used outside of tests.
var SystemClock Clock = systemClock{}
