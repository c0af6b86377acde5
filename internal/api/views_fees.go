package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodtune/tollfee/internal/ledger"
	"github.com/goodtune/tollfee/internal/toll"
	"github.com/goodtune/tollfee/internal/vehicle"
	"github.com/rs/zerolog"
)

// FeeViews handles stateless fee calculation requests.
type FeeViews struct {
	ledger *ledger.Ledger
	logger zerolog.Logger
}

// NewFeeViews creates a new fee views instance.
func NewFeeViews(l *ledger.Ledger, logger zerolog.Logger) *FeeViews {
	return &FeeViews{
		ledger: l,
		logger: logger.With().Str("handler", "fees").Logger(),
	}
}

// FeeRequest is the body of the quote and daily fee endpoints.
type FeeRequest struct {
	Category   string      `json:"category"`
	Timestamps []time.Time `json:"timestamps"`
}

// bindFeeRequest parses the body and category, writing a 400 on failure.
func bindFeeRequest(ctx *gin.Context) (vehicle.Category, []time.Time, bool) {
	var req FeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
		return "", nil, false
	}

	category, err := vehicle.ParseCategory(req.Category)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_category",
			"message": err.Error(),
		})
		return "", nil, false
	}

	return category, req.Timestamps, true
}

// Quote splits timestamps per local day and returns a statement for each.
func (v *FeeViews) Quote(ctx *gin.Context) {
	category, timestamps, ok := bindFeeRequest(ctx)
	if !ok {
		return
	}

	quote, err := v.ledger.Quote(category, timestamps)
	if err != nil {
		v.logger.Error().Err(err).Msg("Failed to compute quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to compute quote",
		})
		return
	}

	days := ledger.SortedDays(quote)
	statements := make([]*toll.Statement, 0, len(days))
	total := 0
	for _, d := range days {
		statements = append(statements, quote[d])
		total += quote[d].Total
	}

	ctx.JSON(http.StatusOK, gin.H{
		"category":   category,
		"statements": statements,
		"total":      total,
	})
}

// Daily returns the fee for timestamps on a single local day.
func (v *FeeViews) Daily(ctx *gin.Context) {
	category, timestamps, ok := bindFeeRequest(ctx)
	if !ok {
		return
	}

	st, err := v.ledger.DailyFee(category, timestamps)
	if err != nil {
		if errors.Is(err, toll.ErrMixedDays) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "mixed_days",
				"message": err.Error(),
			})
			return
		}
		v.logger.Error().Err(err).Msg("Failed to compute daily fee")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to compute daily fee",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"fee":       st.Total,
		"statement": st,
	})
}

// At returns the fee for a single passage.
func (v *FeeViews) At(ctx *gin.Context) {
	category, err := vehicle.ParseCategory(ctx.DefaultQuery("category", string(vehicle.Car)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_category",
			"message": err.Error(),
		})
		return
	}

	at, err := time.Parse(time.RFC3339, ctx.Query("time"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "time must be an RFC 3339 timestamp",
		})
		return
	}

	fee, exemptDate := v.ledger.FeeAt(at, category)

	ctx.JSON(http.StatusOK, gin.H{
		"time":              at.In(v.ledger.Location()),
		"category":          category,
		"fee":               fee,
		"exempt_date":       exemptDate,
		"toll_free_vehicle": category.IsTollFree(),
	})
}
