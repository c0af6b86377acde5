// Package holiday decides which calendar dates are free of congestion tax.
//
// Everything in this package except Calendar is a pure function of its
// arguments: holiday sets are rebuilt on every call and never shared.
package holiday

import "time"

// Exemption reasons reported by Reason.
const (
	ReasonWeekend      = "weekend"
	ReasonNewYearsDay  = "new_year"
	ReasonEpiphany     = "epiphany"
	ReasonMayDay       = "may_day"
	ReasonNationalDay  = "national_day"
	ReasonChristmasEve = "christmas_eve"
	ReasonChristmasDay = "christmas_day"
	ReasonBoxingDay    = "boxing_day"
	ReasonNewYearsEve  = "new_years_eve"
	ReasonGoodFriday   = "good_friday"
	ReasonEasterSunday = "easter_sunday"
	ReasonEasterMonday = "easter_monday"
	ReasonAscensionDay = "ascension_day"
	ReasonPentecost    = "pentecost"
	ReasonMidsummerEve = "midsummer_eve"
	ReasonMidsummerDay = "midsummer_day"
	ReasonJuly         = "july"
)

// fixedDates are holidays that fall on the same day every year.
var fixedDates = []struct {
	month  time.Month
	day    int
	reason string
}{
	{time.January, 1, ReasonNewYearsDay},
	{time.January, 6, ReasonEpiphany},
	{time.May, 1, ReasonMayDay},
	{time.June, 6, ReasonNationalDay},
	{time.December, 24, ReasonChristmasEve},
	{time.December, 25, ReasonChristmasDay},
	{time.December, 26, ReasonBoxingDay},
	{time.December, 31, ReasonNewYearsEve},
}

// EasterSunday returns the date of Easter Sunday in the Gregorian calendar
// using the anonymous (Meeus/Jones/Butcher) algorithm.
func EasterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return Date{Year: year, Month: time.Month(month), Day: day}
}

// MidsummerEve returns the first Friday on or after June 19.
func MidsummerEve(year int) Date {
	june19 := Date{Year: year, Month: time.June, Day: 19}
	daysUntilFriday := (isoWeekday(time.Friday) + 7 - isoWeekday(june19.Weekday())) % 7
	return june19.AddDays(daysUntilFriday)
}

// isoWeekday numbers weekdays from Monday = 1 to Sunday = 7.
func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Dates returns the holidays of year, excluding ordinary weekends.
func Dates(year int) Set {
	set := make(Set, 64)
	for d := range reasons(year) {
		set.Add(d)
	}
	return set
}

// reasons maps every holiday of year to the reason it is toll free. Later
// entries win when two holidays share a date.
func reasons(year int) map[Date]string {
	out := make(map[Date]string, 64)

	for _, f := range fixedDates {
		out[Date{Year: year, Month: f.month, Day: f.day}] = f.reason
	}

	easter := EasterSunday(year)
	out[easter.AddDays(-2)] = ReasonGoodFriday
	out[easter] = ReasonEasterSunday
	out[easter.AddDays(1)] = ReasonEasterMonday
	out[easter.AddDays(39)] = ReasonAscensionDay
	out[easter.AddDays(49)] = ReasonPentecost

	midsummer := MidsummerEve(year)
	out[midsummer] = ReasonMidsummerEve
	out[midsummer.AddDays(1)] = ReasonMidsummerDay

	for day := 1; day <= 31; day++ {
		out[Date{Year: year, Month: time.July, Day: day}] = ReasonJuly
	}

	return out
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsExemptDate reports whether t falls on a toll-free date: a weekend day or a
// holiday of t's year. The date is taken in t's own location.
func IsExemptDate(t time.Time) bool {
	d := DateOf(t)
	if IsWeekend(d) {
		return true
	}
	return Dates(d.Year).Contains(d)
}

// Reason explains why d is toll free, or returns "" when it is not. Holiday
// reasons take precedence over the weekend.
func Reason(d Date) string {
	if r, ok := reasons(d.Year)[d]; ok {
		return r
	}
	if IsWeekend(d) {
		return ReasonWeekend
	}
	return ""
}

// Oracle answers IsExemptDate by recomputing the holiday set on every call.
// The zero value is ready to use.
type Oracle struct{}

// IsExemptDate implements the date oracle used by the fee calculator.
func (Oracle) IsExemptDate(t time.Time) bool {
	return IsExemptDate(t)
}
