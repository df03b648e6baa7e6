package directory

import "math"

// Stats aggregates subscription state over a list of accounts.
// Total == Subscribed + NonSubscribed always holds for values produced by
// ComputeStats.
type Stats struct {
	Total          int
	Subscribed     int
	NonSubscribed  int
	ConversionRate float64 // percent, one decimal
}

// ComputeStats derives Stats from accounts.
func ComputeStats(accounts []Account) Stats {
	subscribed := 0
	for _, a := range accounts {
		if a.IsSubscribed {
			subscribed++
		}
	}
	return NewStats(len(accounts), subscribed)
}

// NewStats builds Stats from the two counters.
func NewStats(total, subscribed int) Stats {
	return Stats{
		Total:          total,
		Subscribed:     subscribed,
		NonSubscribed:  total - subscribed,
		ConversionRate: ConversionRate(total, subscribed),
	}
}

// ConversionRate returns subscribed/total as a percentage rounded to one
// decimal, or 0 for an empty directory.
func ConversionRate(total, subscribed int) float64 {
	if total <= 0 {
		return 0
	}
	return RoundOne(float64(subscribed) / float64(total) * 100)
}

// RoundOne rounds v to one decimal place, halves away from zero.
func RoundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

// Valid reports whether s is internally consistent: non-negative counters
// that add up to the total.
func (s Stats) Valid() bool {
	return s.Total >= 0 && s.Subscribed >= 0 && s.NonSubscribed >= 0 &&
		s.Subscribed+s.NonSubscribed == s.Total
}

// Equal compares counters and the rounded rate.
func (s Stats) Equal(o Stats) bool {
	return s.Total == o.Total &&
		s.Subscribed == o.Subscribed &&
		s.NonSubscribed == o.NonSubscribed &&
		RoundOne(s.ConversionRate) == RoundOne(o.ConversionRate)
}
