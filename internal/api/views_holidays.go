package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/rs/zerolog"
)

// HolidayViews serves the toll-free calendar.
type HolidayViews struct {
	calendar *holiday.Calendar
	logger   zerolog.Logger
}

// NewHolidayViews creates a new holiday views instance.
func NewHolidayViews(calendar *holiday.Calendar, logger zerolog.Logger) *HolidayViews {
	return &HolidayViews{
		calendar: calendar,
		logger:   logger.With().Str("handler", "holidays").Logger(),
	}
}

// HolidayEntry is one toll-free date and why it is exempt.
type HolidayEntry struct {
	Date   holiday.Date `json:"date"`
	Reason string       `json:"reason"`
}

// List returns the holiday dates of a year, excluding ordinary weekends.
func (v *HolidayViews) List(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "year must be between 1 and 9999",
		})
		return
	}

	dates := v.calendar.Holidays(year).Sorted()
	entries := make([]HolidayEntry, 0, len(dates))
	for _, d := range dates {
		entries = append(entries, HolidayEntry{Date: d, Reason: holiday.Reason(d)})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"year":     year,
		"holidays": entries,
		"count":    len(entries),
	})
}
