// Package toll computes the congestion tax owed by one vehicle for one day.
package toll

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/vehicle"
)

const (
	// DailyCap is the most a vehicle can be charged in one calendar day.
	DailyCap = 60

	// IntervalWindow is how long after its first passage a charge interval
	// keeps absorbing later passages.
	IntervalWindow = time.Hour
)

// ErrMixedDays is returned when the passages given for a daily fee do not all
// fall on the same calendar date.
var ErrMixedDays = errors.New("all passages must be on the same day")

// MixedDaysError reports the first passage date and a date that differs from it.
type MixedDaysError struct {
	First     holiday.Date
	Offending holiday.Date
}

func (e *MixedDaysError) Error() string {
	return fmt.Sprintf("%s: got %s and %s", ErrMixedDays, e.First, e.Offending)
}

// Is makes errors.Is(err, ErrMixedDays) match.
func (e *MixedDaysError) Is(target error) bool {
	return target == ErrMixedDays
}

// DateOracle decides whether a date is toll free for every vehicle.
type DateOracle interface {
	IsExemptDate(t time.Time) bool
}

// Calculator applies the fee table, exemptions, interval merging and the
// daily cap. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	oracle DateOracle
}

// New returns a Calculator that consults oracle for toll-free dates. A nil
// oracle recomputes holidays on every lookup.
func New(oracle DateOracle) *Calculator {
	if oracle == nil {
		oracle = holiday.Oracle{}
	}
	return &Calculator{oracle: oracle}
}

var defaultCalculator = New(nil)

// FeeAt returns the fee for a single passage at t using the default calculator.
func FeeAt(t time.Time, category vehicle.Category) int {
	return defaultCalculator.FeeAt(t, category)
}

// DailyFee returns the capped fee for one day of passages using the default
// calculator.
func DailyFee(category vehicle.Category, passages []time.Time) (int, error) {
	return defaultCalculator.DailyFee(category, passages)
}

// IsExemptDate reports whether t falls on a toll-free date.
func (c *Calculator) IsExemptDate(t time.Time) bool {
	return c.oracle.IsExemptDate(t)
}

// FeeAt returns the fee for a single passage at t. Toll-free dates and
// toll-free vehicles pay nothing.
func (c *Calculator) FeeAt(t time.Time, category vehicle.Category) int {
	if c.oracle.IsExemptDate(t) || category.IsTollFree() {
		return 0
	}
	return BaseFee(t)
}

// DailyFee returns the total fee for passages made on a single calendar day.
// Passages within IntervalWindow of the start of an interval are charged once
// at the highest fee among them, and the total never exceeds DailyCap.
func (c *Calculator) DailyFee(category vehicle.Category, passages []time.Time) (int, error) {
	st, err := c.Statement(category, passages)
	if err != nil {
		return 0, err
	}
	return st.Total, nil
}

// Passage is one toll point crossing with the fee it would cost on its own.
type Passage struct {
	Time time.Time `json:"time"`
	Fee  int       `json:"fee"`
}

// Interval is a group of passages charged once at Fee.
type Interval struct {
	Start    time.Time `json:"start"`
	Fee      int       `json:"fee"`
	Passages []Passage `json:"passages"`
}

// Statement explains how a daily fee was reached.
type Statement struct {
	Date      holiday.Date     `json:"date"`
	Category  vehicle.Category `json:"category"`
	Intervals []Interval       `json:"intervals"`
	Uncapped  int              `json:"uncapped"`
	Total     int              `json:"total"`
	Capped    bool             `json:"capped"`
}

// Statement computes the daily fee for passages and returns the intervals it
// was built from. The input slice is not modified. Passages spanning more
// than one calendar date are rejected with a *MixedDaysError.
func (c *Calculator) Statement(category vehicle.Category, passages []time.Time) (*Statement, error) {
	st := &Statement{Category: category, Intervals: []Interval{}}
	if len(passages) == 0 {
		return st, nil
	}

	sorted := make([]time.Time, len(passages))
	copy(sorted, passages)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	first := holiday.DateOf(sorted[0])
	for _, t := range sorted[1:] {
		if d := holiday.DateOf(t); d != first {
			return nil, &MixedDaysError{First: first, Offending: d}
		}
	}
	st.Date = first

	start := sorted[0]
	fee := c.FeeAt(start, category)
	total := fee
	current := Interval{Start: start, Fee: fee, Passages: []Passage{{Time: start, Fee: fee}}}

	for _, t := range sorted[1:] {
		next := c.FeeAt(t, category)
		elapsed := int64(t.Sub(start) / time.Second)

		if elapsed <= int64(IntervalWindow/time.Second) {
			if next > fee {
				total += next - fee
				fee = next
				current.Fee = fee
			}
			current.Passages = append(current.Passages, Passage{Time: t, Fee: next})
			continue
		}

		st.Intervals = append(st.Intervals, current)
		start = t
		fee = next
		total += next
		current = Interval{Start: t, Fee: next, Passages: []Passage{{Time: t, Fee: next}}}
	}
	st.Intervals = append(st.Intervals, current)

	st.Uncapped = total
	st.Total = min(total, DailyCap)
	st.Capped = total > DailyCap
	return st, nil
}
