package redis

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/goodtune/tollfee/internal/storage"
	"github.com/redis/go-redis/v9"
)

type chargeStore struct {
	client *redis.Client
	ttl    int64
}

// Put creates or replaces the charge for a vehicle and day
func (s *chargeStore) Put(ctx context.Context, charge storage.DailyCharge) error {
	script := redis.NewScript(putChargeScript)

	keys := []string{
		chargeKey(charge.Date, charge.Plate),
		dayChargesKey(charge.Date),
		daysKey,
	}
	args := []interface{}{
		charge.Date,
		charge.Plate,
		string(charge.Category),
		charge.Fee,
		charge.Uncapped,
		charge.Passages,
		charge.ComputedAt.Format(time.RFC3339Nano),
		s.ttl,
	}

	return script.Run(ctx, s.client, keys, args...).Err()
}

// Get retrieves the charge for a vehicle and day
func (s *chargeStore) Get(ctx context.Context, date string, plate string) (*storage.DailyCharge, error) {
	data, err := s.client.HGetAll(ctx, chargeKey(date, plate)).Result()
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, storage.ErrNotFound
	}

	return parseDailyCharge(data)
}

// ListForDay returns all charges for a day ordered by plate
func (s *chargeStore) ListForDay(ctx context.Context, date string) ([]storage.DailyCharge, error) {
	plates, err := s.client.SMembers(ctx, dayChargesKey(date)).Result()
	if err != nil {
		return nil, err
	}

	if len(plates) == 0 {
		return []storage.DailyCharge{}, nil
	}

	// Use pipeline for batch retrieval
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(plates))

	for i, plate := range plates {
		cmds[i] = pipe.HGetAll(ctx, chargeKey(date, plate))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	charges := make([]storage.DailyCharge, 0, len(plates))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			continue
		}

		charge, err := parseDailyCharge(data)
		if err == nil {
			charges = append(charges, *charge)
		}
	}

	slices.SortFunc(charges, func(a, b storage.DailyCharge) int {
		return strings.Compare(a.Plate, b.Plate)
	})
	return charges, nil
}
