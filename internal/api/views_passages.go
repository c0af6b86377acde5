package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/ledger"
	"github.com/goodtune/tollfee/internal/storage"
	"github.com/rs/zerolog"
)

// PassageViews handles passage recording and charge lookups.
type PassageViews struct {
	ledger *ledger.Ledger
	logger zerolog.Logger
}

// NewPassageViews creates a new passage views instance.
func NewPassageViews(l *ledger.Ledger, logger zerolog.Logger) *PassageViews {
	return &PassageViews{
		ledger: l,
		logger: logger.With().Str("handler", "passages").Logger(),
	}
}

// Record stores a passage reported by the authenticated gantry.
func (v *PassageViews) Record(ctx *gin.Context) {
	var in ledger.PassageInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
		return
	}

	// The token, not the body, identifies the gantry
	in.Gantry = ctx.GetString(gantryKey)

	charge, err := v.ledger.RecordPassage(ctx.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPassage) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_passage",
				"message": err.Error(),
			})
			return
		}
		v.logger.Error().Err(err).Str("gantry", in.Gantry).Msg("Failed to record passage")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to record passage",
		})
		return
	}

	ctx.JSON(http.StatusCreated, charge)
}

// VehicleCharge returns a vehicle's charge and interval breakdown for a day.
func (v *PassageViews) VehicleCharge(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}
	plate := ctx.Param("plate")

	charge, err := v.ledger.DailyCharge(ctx.Request.Context(), plate, date)
	if err != nil {
		v.storageError(ctx, err, "charge")
		return
	}

	st, err := v.ledger.Statement(ctx.Request.Context(), plate, date)
	if err != nil {
		v.storageError(ctx, err, "statement")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"charge":    charge,
		"statement": st,
	})
}

// DayCharges returns every vehicle's charge for a day.
func (v *PassageViews) DayCharges(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	charges, err := v.ledger.ListCharges(ctx.Request.Context(), date)
	if err != nil {
		v.storageError(ctx, err, "charges")
		return
	}

	total := 0
	for _, c := range charges {
		total += c.Fee
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date":    date,
		"charges": charges,
		"count":   len(charges),
		"total":   total,
	})
}

func (v *PassageViews) storageError(ctx *gin.Context, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "No " + what + " recorded for this vehicle and date",
		})
		return
	}
	v.logger.Error().Err(err).Str("what", what).Msg("Storage lookup failed")
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error":   "server_error",
		"message": "Failed to retrieve " + what,
	})
}

func parseDateParam(ctx *gin.Context) (holiday.Date, bool) {
	date, err := holiday.ParseDate(ctx.Param("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "date must be in YYYY-MM-DD form",
		})
		return holiday.Date{}, false
	}
	return date, true
}
