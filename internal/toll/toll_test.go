package toll

import (
	"errors"
	"testing"
	"time"

	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/vehicle"
)

// 2024-03-12 is an ordinary Tuesday.
func weekday(hour, minute int) time.Time {
	return time.Date(2024, time.March, 12, hour, minute, 0, 0, time.Local)
}

func TestFeeAt_Bands(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         int
	}{
		{0, 0, 0},
		{5, 59, 0},
		{6, 0, 8},
		{6, 29, 8},
		{6, 30, 13},
		{6, 59, 13},
		{7, 0, 18},
		{7, 59, 18},
		{8, 0, 13},
		{8, 29, 13},
		{8, 30, 8},
		{12, 0, 8},
		{14, 59, 8},
		{15, 0, 13},
		{15, 29, 13},
		{15, 30, 18},
		{16, 59, 18},
		{17, 0, 13},
		{17, 59, 13},
		{18, 0, 8},
		{18, 29, 8},
		{18, 30, 0},
		{23, 59, 0},
	}

	for _, tt := range tests {
		ts := weekday(tt.hour, tt.minute)
		t.Run(ts.Format("15:04"), func(t *testing.T) {
			if got := FeeAt(ts, vehicle.Car); got != tt.want {
				t.Errorf("FeeAt(%s) = %d, want %d", ts.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestBands_CoverWholeDay(t *testing.T) {
	bands := Bands()
	var covered time.Duration
	for i, b := range bands {
		if b.End <= b.Start {
			t.Fatalf("band %d is empty or inverted: %v-%v", i, b.Start, b.End)
		}
		if i > 0 && b.Start != bands[i-1].End {
			t.Fatalf("band %d starts at %v, previous ends at %v", i, b.Start, bands[i-1].End)
		}
		covered += b.End - b.Start
	}
	if covered != 24*time.Hour {
		t.Errorf("bands cover %v, want 24h", covered)
	}
}

func TestFeeAt_ExemptDates(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, time.March, 16, 7, 30, 0, 0, time.Local),  // Saturday
		time.Date(2024, time.March, 17, 7, 30, 0, 0, time.Local),  // Sunday
		time.Date(2024, time.January, 1, 7, 30, 0, 0, time.Local), // New Year's Day
		time.Date(2024, time.March, 29, 7, 30, 0, 0, time.Local),  // Good Friday
		time.Date(2024, time.April, 1, 7, 30, 0, 0, time.Local),   // Easter Monday
		time.Date(2024, time.May, 9, 7, 30, 0, 0, time.Local),     // Ascension Day
		time.Date(2024, time.June, 21, 7, 30, 0, 0, time.Local),   // Midsummer Eve
		time.Date(2024, time.July, 15, 7, 30, 0, 0, time.Local),   // July
		time.Date(2024, time.December, 31, 7, 30, 0, 0, time.Local),
	}

	for _, d := range dates {
		t.Run(d.Format("2006-01-02"), func(t *testing.T) {
			if got := FeeAt(d, vehicle.Car); got != 0 {
				t.Errorf("FeeAt(%s) = %d, want 0", d, got)
			}
		})
	}
}

func TestFeeAt_TollFreeVehicles(t *testing.T) {
	for _, c := range vehicle.Categories() {
		want := 18
		if c.IsTollFree() {
			want = 0
		}
		if got := FeeAt(weekday(7, 30), c); got != want {
			t.Errorf("FeeAt(07:30, %s) = %d, want %d", c, got, want)
		}
	}
}

func TestDailyFee(t *testing.T) {
	tests := []struct {
		name     string
		category vehicle.Category
		passages []time.Time
		want     int
	}{
		{
			name:     "no passages",
			category: vehicle.Car,
			want:     0,
		},
		{
			name:     "single passage",
			category: vehicle.Car,
			passages: []time.Time{weekday(7, 15)},
			want:     18,
		},
		{
			name:     "two passages ten minutes apart charge once",
			category: vehicle.Car,
			passages: []time.Time{weekday(8, 30), weekday(8, 40)},
			want:     8,
		},
		{
			name:     "merging within window keeps the highest fee",
			category: vehicle.Car,
			passages: []time.Time{weekday(6, 20), weekday(7, 10)},
			want:     18,
		},
		{
			name:     "lower fee inside window adds nothing",
			category: vehicle.Car,
			passages: []time.Time{weekday(7, 30), weekday(8, 10)},
			want:     18,
		},
		{
			name:     "gap over an hour opens a new interval",
			category: vehicle.Car,
			passages: []time.Time{weekday(7, 0), weekday(8, 5)},
			want:     31,
		},
		{
			name:     "exactly sixty minutes stays in the interval",
			category: vehicle.Car,
			passages: []time.Time{weekday(6, 0), weekday(7, 0)},
			want:     18,
		},
		{
			name:     "window is anchored at the interval start",
			category: vehicle.Car,
			passages: []time.Time{weekday(9, 0), weekday(9, 50), weekday(10, 40)},
			want:     16,
		},
		{
			name:     "unsorted input is sorted first",
			category: vehicle.Car,
			passages: []time.Time{weekday(8, 5), weekday(7, 0)},
			want:     31,
		},
		{
			name:     "daily cap",
			category: vehicle.Car,
			passages: []time.Time{
				weekday(6, 0), weekday(7, 5), weekday(8, 10), weekday(15, 0),
				weekday(16, 5), weekday(17, 10), weekday(18, 15),
			},
			want: 60,
		},
		{
			name:     "toll free vehicle",
			category: vehicle.Diplomat,
			passages: []time.Time{weekday(7, 0), weekday(8, 5), weekday(16, 0)},
			want:     0,
		},
		{
			name:     "weekend",
			category: vehicle.Car,
			passages: []time.Time{
				time.Date(2024, time.March, 16, 7, 0, 0, 0, time.Local),
				time.Date(2024, time.March, 16, 16, 0, 0, 0, time.Local),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DailyFee(tt.category, tt.passages)
			if err != nil {
				t.Fatalf("DailyFee() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DailyFee() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDailyFee_NeverExceedsCap(t *testing.T) {
	var passages []time.Time
	for minute := 0; minute < 24*60; minute += 7 {
		passages = append(passages, weekday(minute/60, minute%60))
		got, err := DailyFee(vehicle.Car, passages)
		if err != nil {
			t.Fatalf("DailyFee() unexpected error: %v", err)
		}
		if got > DailyCap {
			t.Fatalf("DailyFee() = %d with %d passages, exceeds cap %d", got, len(passages), DailyCap)
		}
	}
}

func TestDailyFee_MixedDays(t *testing.T) {
	passages := []time.Time{
		weekday(7, 0),
		time.Date(2024, time.March, 13, 7, 0, 0, 0, time.Local),
	}

	fee, err := DailyFee(vehicle.Car, passages)
	if !errors.Is(err, ErrMixedDays) {
		t.Fatalf("DailyFee() error = %v, want ErrMixedDays", err)
	}
	if fee != 0 {
		t.Errorf("DailyFee() returned partial fee %d on error", fee)
	}

	var mixed *MixedDaysError
	if !errors.As(err, &mixed) {
		t.Fatalf("expected *MixedDaysError, got %T", err)
	}
	if mixed.First != holiday.NewDate(2024, time.March, 12) {
		t.Errorf("First = %s, want 2024-03-12", mixed.First)
	}
	if mixed.Offending != holiday.NewDate(2024, time.March, 13) {
		t.Errorf("Offending = %s, want 2024-03-13", mixed.Offending)
	}
}

func TestDailyFee_MixedDaysRejectedForTollFreeVehicle(t *testing.T) {
	passages := []time.Time{
		weekday(7, 0),
		time.Date(2024, time.March, 13, 7, 0, 0, 0, time.Local),
	}
	if _, err := DailyFee(vehicle.Military, passages); !errors.Is(err, ErrMixedDays) {
		t.Fatalf("DailyFee() error = %v, want ErrMixedDays", err)
	}
}

func TestDailyFee_DoesNotReorderInput(t *testing.T) {
	passages := []time.Time{weekday(9, 0), weekday(7, 0)}
	if _, err := DailyFee(vehicle.Car, passages); err != nil {
		t.Fatalf("DailyFee() unexpected error: %v", err)
	}
	if !passages[0].Equal(weekday(9, 0)) {
		t.Error("DailyFee() reordered the caller's slice")
	}
}

func TestStatement(t *testing.T) {
	passages := []time.Time{weekday(6, 20), weekday(6, 50), weekday(7, 10), weekday(15, 45)}

	st, err := New(nil).Statement(vehicle.Car, passages)
	if err != nil {
		t.Fatalf("Statement() unexpected error: %v", err)
	}

	if st.Date != holiday.NewDate(2024, time.March, 12) {
		t.Errorf("Date = %s, want 2024-03-12", st.Date)
	}
	if len(st.Intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(st.Intervals))
	}
	if st.Intervals[0].Fee != 18 || len(st.Intervals[0].Passages) != 3 {
		t.Errorf("first interval = fee %d with %d passages, want fee 18 with 3",
			st.Intervals[0].Fee, len(st.Intervals[0].Passages))
	}
	if st.Intervals[1].Fee != 18 {
		t.Errorf("second interval fee = %d, want 18", st.Intervals[1].Fee)
	}
	if st.Total != 36 || st.Uncapped != 36 || st.Capped {
		t.Errorf("totals = %d/%d capped=%v, want 36/36 capped=false", st.Total, st.Uncapped, st.Capped)
	}
}

type fixedOracle bool

func (o fixedOracle) IsExemptDate(time.Time) bool { return bool(o) }

func TestCalculator_UsesOracle(t *testing.T) {
	exempt := New(fixedOracle(true))
	if got := exempt.FeeAt(weekday(7, 30), vehicle.Car); got != 0 {
		t.Errorf("FeeAt() with exempt oracle = %d, want 0", got)
	}

	never := New(fixedOracle(false))
	saturday := time.Date(2024, time.March, 16, 7, 30, 0, 0, time.Local)
	if got := never.FeeAt(saturday, vehicle.Car); got != 18 {
		t.Errorf("FeeAt() with non-exempt oracle = %d, want 18", got)
	}
}
