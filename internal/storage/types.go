package storage

import (
	"time"

	"github.com/goodtune/tollfee/internal/vehicle"
)

// Passage represents a single vehicle passing a toll point.
type Passage struct {
	ID        string           `json:"id"`
	Plate     string           `json:"plate"`
	Category  vehicle.Category `json:"category"`
	Gantry    string           `json:"gantry"`
	Timestamp time.Time        `json:"timestamp"`
}

// DailyCharge is the fee owed by one vehicle for one local day.
type DailyCharge struct {
	Date       string           `json:"date"`
	Plate      string           `json:"plate"`
	Category   vehicle.Category `json:"category"`
	Fee        int              `json:"fee"`
	Uncapped   int              `json:"uncapped"`
	Passages   int              `json:"passages"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Capped reports whether the daily cap reduced the charge.
func (c *DailyCharge) Capped() bool {
	return c.Uncapped > c.Fee
}
