package clock

import "time"

// Clock abstracts time for services that branch on it (order expiry,
// dispute timestamps) so tests can pin the instant.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fixed returns a Clock pinned to a single instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at.UTC()} }

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }
