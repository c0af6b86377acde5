package holiday

import (
	"testing"
	"time"
)

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want Date
	}{
		{1961, NewDate(1961, time.April, 2)},
		{2000, NewDate(2000, time.April, 23)},
		{2008, NewDate(2008, time.March, 23)},
		{2011, NewDate(2011, time.April, 24)},
		{2019, NewDate(2019, time.April, 21)},
		{2024, NewDate(2024, time.March, 31)},
		{2025, NewDate(2025, time.April, 20)},
		{2038, NewDate(2038, time.April, 25)},
		{2285, NewDate(2285, time.March, 22)},
	}

	for _, tt := range tests {
		if got := EasterSunday(tt.year); got != tt.want {
			t.Errorf("EasterSunday(%d) = %s, want %s", tt.year, got, tt.want)
		}
	}
}

func TestEasterSunday_IsSunday(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		d := EasterSunday(year)
		if d.Weekday() != time.Sunday {
			t.Fatalf("EasterSunday(%d) = %s is a %s", year, d, d.Weekday())
		}
		if d.Month != time.March && d.Month != time.April {
			t.Fatalf("EasterSunday(%d) = %s is outside March/April", year, d)
		}
	}
}

func TestMidsummerEve(t *testing.T) {
	tests := []struct {
		year int
		want Date
	}{
		{2020, NewDate(2020, time.June, 19)}, // June 19 is a Friday
		{2023, NewDate(2023, time.June, 23)},
		{2024, NewDate(2024, time.June, 21)},
		{2025, NewDate(2025, time.June, 20)},
	}

	for _, tt := range tests {
		if got := MidsummerEve(tt.year); got != tt.want {
			t.Errorf("MidsummerEve(%d) = %s, want %s", tt.year, got, tt.want)
		}
	}
}

func TestMidsummerEve_FridayWithinWeek(t *testing.T) {
	for year := 1990; year <= 2050; year++ {
		d := MidsummerEve(year)
		if d.Weekday() != time.Friday {
			t.Fatalf("MidsummerEve(%d) = %s is a %s", year, d, d.Weekday())
		}
		if d.Month != time.June || d.Day < 19 || d.Day > 25 {
			t.Fatalf("MidsummerEve(%d) = %s outside June 19-25", year, d)
		}
	}
}

func TestDates(t *testing.T) {
	set := Dates(2024)

	want := []Date{
		NewDate(2024, time.January, 1),
		NewDate(2024, time.January, 6),
		NewDate(2024, time.May, 1),
		NewDate(2024, time.June, 6),
		NewDate(2024, time.December, 24),
		NewDate(2024, time.December, 25),
		NewDate(2024, time.December, 26),
		NewDate(2024, time.December, 31),
		NewDate(2024, time.March, 29), // Good Friday
		NewDate(2024, time.March, 31), // Easter Sunday
		NewDate(2024, time.April, 1),  // Easter Monday
		NewDate(2024, time.May, 9),    // Ascension Day
		NewDate(2024, time.May, 19),   // Pentecost
		NewDate(2024, time.June, 21),  // Midsummer Eve
		NewDate(2024, time.June, 22),  // Midsummer Day
	}
	for _, d := range want {
		if !set.Contains(d) {
			t.Errorf("Dates(2024) missing %s", d)
		}
	}

	for day := 1; day <= 31; day++ {
		d := NewDate(2024, time.July, day)
		if !set.Contains(d) {
			t.Errorf("Dates(2024) missing %s", d)
		}
	}

	if set.Contains(NewDate(2024, time.August, 1)) {
		t.Error("Dates(2024) should not contain 2024-08-01")
	}
	if set.Contains(NewDate(2024, time.March, 12)) {
		t.Error("Dates(2024) should not contain 2024-03-12")
	}

	// 8 fixed + 5 Easter-based + 2 midsummer + 31 July days.
	if len(set) != 46 {
		t.Errorf("Dates(2024) has %d dates, want 46", len(set))
	}
}

func TestDates_Deterministic(t *testing.T) {
	a := Dates(2031).Sorted()
	b := Dates(2031).Sorted()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("date %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestIsExemptDate(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"tuesday", time.Date(2024, time.March, 12, 8, 0, 0, 0, time.UTC), false},
		{"saturday", time.Date(2024, time.March, 16, 8, 0, 0, 0, time.UTC), true},
		{"sunday", time.Date(2024, time.March, 17, 8, 0, 0, 0, time.UTC), true},
		{"epiphany", time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC), true},
		{"good friday", time.Date(2025, time.April, 18, 8, 0, 0, 0, time.UTC), true},
		{"easter monday", time.Date(2025, time.April, 21, 8, 0, 0, 0, time.UTC), true},
		{"day after easter monday", time.Date(2025, time.April, 22, 8, 0, 0, 0, time.UTC), false},
		{"july weekday", time.Date(2025, time.July, 2, 8, 0, 0, 0, time.UTC), true},
		{"christmas eve", time.Date(2025, time.December, 24, 8, 0, 0, 0, time.UTC), true},
		{"first of august", time.Date(2025, time.August, 1, 8, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExemptDate(tt.at); got != tt.want {
				t.Errorf("IsExemptDate(%s) = %v, want %v", tt.at.Format(DateLayout), got, tt.want)
			}
			if got := (Oracle{}).IsExemptDate(tt.at); got != tt.want {
				t.Errorf("Oracle.IsExemptDate(%s) = %v, want %v", tt.at.Format(DateLayout), got, tt.want)
			}
		})
	}
}

func TestIsExemptDate_UsesLocalDate(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	// Friday 23:30 UTC is already Saturday in CET.
	at := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC)
	if IsExemptDate(at) {
		t.Fatalf("IsExemptDate(%s UTC) = true, want false", at)
	}
	if !IsExemptDate(at.In(cet)) {
		t.Fatalf("IsExemptDate(%s CET) = false, want true", at.In(cet))
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{NewDate(2024, time.March, 12), ""},
		{NewDate(2024, time.March, 16), ReasonWeekend},
		{NewDate(2024, time.March, 31), ReasonEasterSunday},
		{NewDate(2024, time.June, 22), ReasonMidsummerDay},
		{NewDate(2024, time.July, 9), ReasonJuly},
		{NewDate(2024, time.December, 31), ReasonNewYearsEve},
	}

	for _, tt := range tests {
		if got := Reason(tt.date); got != tt.want {
			t.Errorf("Reason(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if next := d.AddDays(1); next != NewDate(2024, time.February, 29) {
		t.Errorf("AddDays(1) = %s, want 2024-02-29", next)
	}
	if next := d.AddDays(2); next != NewDate(2024, time.March, 1) {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", next)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Error("Before is not ordering dates")
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("expected error for invalid month")
	}
}
