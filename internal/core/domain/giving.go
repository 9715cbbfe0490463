package domain

import "time"

// GivingRange selects the time window for giving aggregation.
type GivingRange string

// Giving ranges.
const (
	// Range30Days covers the trailing 30 days.
	Range30Days GivingRange = "30d"

	// Range90Days covers the trailing 90 days.
	Range90Days GivingRange = "90d"

	// RangeYearToDate covers January 1 of the current year onward.
	RangeYearToDate GivingRange = "ytd"

	// RangeAllTime ranks by the denormalised lifetime value instead of
	// summing gifts.
	RangeAllTime GivingRange = "all"
)

// IsValid returns true if the range is recognised.
func (r GivingRange) IsValid() bool {
	switch r {
	case Range30Days, Range90Days, RangeYearToDate, RangeAllTime:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r GivingRange) String() string {
	return string(r)
}

// Cutoff returns the inclusive window start in DateOnly format, computed
// from now. The second return is false for RangeAllTime, which has no
// cutoff and no gift-level lookup.
func (r GivingRange) Cutoff(now time.Time) (string, bool) {
	switch r {
	case Range30Days:
		return FormatDateOnly(now.AddDate(0, 0, -30)), true
	case Range90Days:
		return FormatDateOnly(now.AddDate(0, 0, -90)), true
	case RangeYearToDate:
		return FormatDateOnly(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())), true
	default:
		return "", false
	}
}

// DonorRanking is one entry in a top-donors list.
type DonorRanking struct {
	// Donor is the ranked donor projection.
	Donor DonorSummary

	// Total is the summed gift amount inside the window, or the lifetime
	// value for RangeAllTime.
	Total float64

	// LastGiftInWindow is the most recent qualifying gift date, empty for
	// RangeAllTime (the donor's denormalised LastGiftDate stands in).
	LastGiftInWindow string
}
