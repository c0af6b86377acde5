package holiday

import (
	"fmt"
	"time"

	"github.com/goodtune/tollfee/internal/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of years a Calendar keeps by default.
const DefaultCacheSize = 16

// Calendar is a caching date oracle for long-running callers. Each cached
// holiday set is built once with Dates and never modified afterwards.
type Calendar struct {
	years *lru.Cache[int, Set]
}

// NewCalendar creates a Calendar holding at most size years.
func NewCalendar(size int) (*Calendar, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[int, Set](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create holiday cache: %w", err)
	}
	return &Calendar{years: cache}, nil
}

// Holidays returns the holiday set for year. Callers must not modify it.
func (c *Calendar) Holidays(year int) Set {
	if set, ok := c.years.Get(year); ok {
		metrics.HolidayCacheHits.Inc()
		return set
	}
	metrics.HolidayCacheMisses.Inc()

	set := Dates(year)
	c.years.Add(year, set)
	return set
}

// IsExemptDate reports whether t falls on a weekend or a cached holiday.
func (c *Calendar) IsExemptDate(t time.Time) bool {
	d := DateOf(t)
	if IsWeekend(d) {
		return true
	}
	return c.Holidays(d.Year).Contains(d)
}

// Len returns the number of cached years.
func (c *Calendar) Len() int {
	return c.years.Len()
}
