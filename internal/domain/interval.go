package domain

import "fmt"

// Interval is the closed set of supported history granularities.
type Interval string

const (
	IntervalDay   Interval = "1d"
	IntervalWeek  Interval = "1wk"
	IntervalMonth Interval = "1mo"
)

var validIntervals = map[Interval]bool{
	IntervalDay:   true,
	IntervalWeek:  true,
	IntervalMonth: true,
}

// IsValid checks if the interval is one of the known values.
func (i Interval) IsValid() bool {
	return validIntervals[i]
}

// ParseInterval parses a string into an Interval.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if !iv.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}

	return iv, nil
}
