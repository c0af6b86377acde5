package toll

import "time"

// Band is a half-open time-of-day range [Start, End) charged at Fee.
type Band struct {
	Start time.Duration
	End   time.Duration
	Fee   int
}

// Contains reports whether the time-of-day offset falls inside the band.
func (b Band) Contains(offset time.Duration) bool {
	return offset >= b.Start && offset < b.End
}

func hm(hour, minute int) time.Duration {
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
}

// feeTable covers the whole day. Night hours are listed explicitly at fee 0
// so the bands add up to 24 hours.
var feeTable = []Band{
	{Start: hm(0, 0), End: hm(6, 0), Fee: 0},
	{Start: hm(6, 0), End: hm(6, 30), Fee: 8},
	{Start: hm(6, 30), End: hm(7, 0), Fee: 13},
	{Start: hm(7, 0), End: hm(8, 0), Fee: 18},
	{Start: hm(8, 0), End: hm(8, 30), Fee: 13},
	{Start: hm(8, 30), End: hm(15, 0), Fee: 8},
	{Start: hm(15, 0), End: hm(15, 30), Fee: 13},
	{Start: hm(15, 30), End: hm(17, 0), Fee: 18},
	{Start: hm(17, 0), End: hm(18, 0), Fee: 13},
	{Start: hm(18, 0), End: hm(18, 30), Fee: 8},
	{Start: hm(18, 30), End: hm(24, 0), Fee: 0},
}

// Bands returns a copy of the fee table in time-of-day order.
func Bands() []Band {
	out := make([]Band, len(feeTable))
	copy(out, feeTable)
	return out
}

// BaseFee returns the fee for t's time of day, ignoring vehicle and date
// exemptions. Seconds are ignored: pricing has minute resolution.
func BaseFee(t time.Time) int {
	offset := hm(t.Hour(), t.Minute())
	for _, b := range feeTable {
		if b.Contains(offset) {
			return b.Fee
		}
	}
	return 0
}
