package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all API routes with the Gin engine.
func SetupRoutes(r *gin.Engine, deps *Deps) {
	// Global middleware
	r.Use(LoggingMiddleware(deps.Logger))
	r.Use(MetricsMiddleware())

	feeViews := NewFeeViews(deps.Ledger, deps.Logger)
	holidayViews := NewHolidayViews(deps.Calendar, deps.Logger)
	passageViews := NewPassageViews(deps.Ledger, deps.Logger)

	// Health check (public)
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// Stateless fee calculation
		v1.POST("/fees/quote", feeViews.Quote)
		v1.POST("/fees/daily", feeViews.Daily)
		v1.GET("/fees/at", feeViews.At)

		v1.GET("/holidays/:year", holidayViews.List)

		// Recorded charges
		v1.GET("/vehicles/:plate/charges/:date", passageViews.VehicleCharge)
		v1.GET("/charges/:date", passageViews.DayCharges)

		// Gantries must authenticate to report passages
		gantry := v1.Group("")
		gantry.Use(AuthMiddleware(deps.Auth))
		gantry.POST("/passages", passageViews.Record)
	}
}
