package redis

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goodtune/tollfee/internal/storage"
	"github.com/goodtune/tollfee/internal/vehicle"
)

// parsePassage converts a Redis hash to Passage
func parsePassage(data map[string]string) (*storage.Passage, error) {
	if len(data) == 0 {
		return nil, storage.ErrNotFound
	}

	timestamp, err := time.Parse(time.RFC3339Nano, data["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	category, err := vehicle.ParseCategory(data["category"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse category: %w", err)
	}

	return &storage.Passage{
		ID:        data["id"],
		Plate:     data["plate"],
		Category:  category,
		Gantry:    data["gantry"],
		Timestamp: timestamp,
	}, nil
}

// parseDailyCharge converts a Redis hash to DailyCharge
func parseDailyCharge(data map[string]string) (*storage.DailyCharge, error) {
	if len(data) == 0 {
		return nil, storage.ErrNotFound
	}

	category, err := vehicle.ParseCategory(data["category"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse category: %w", err)
	}

	fee, err := strconv.Atoi(data["fee"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse fee: %w", err)
	}

	uncapped, err := strconv.Atoi(data["uncapped"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse uncapped: %w", err)
	}

	passages, err := strconv.Atoi(data["passages"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse passages: %w", err)
	}

	computedAt, err := time.Parse(time.RFC3339Nano, data["computed_at"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse computed_at: %w", err)
	}

	return &storage.DailyCharge{
		Date:       data["date"],
		Plate:      data["plate"],
		Category:   category,
		Fee:        fee,
		Uncapped:   uncapped,
		Passages:   passages,
		ComputedAt: computedAt,
	}, nil
}
