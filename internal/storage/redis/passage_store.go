package redis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/goodtune/tollfee/internal/storage"
	"github.com/redis/go-redis/v9"
)

type passageStore struct {
	client *redis.Client
	ttl    int64
}

// Record stores a passage under the calendar day of its timestamp, in the
// timestamp's own location. Recording an existing ID is a no-op and returns
// false.
func (s *passageStore) Record(ctx context.Context, passage storage.Passage) (bool, error) {
	if passage.ID == "" {
		return false, fmt.Errorf("passage ID is required")
	}

	script := redis.NewScript(recordPassageScript)

	date := passage.Timestamp.Format("2006-01-02")
	keys := []string{
		passageKey(passage.ID),
		dayPassagesKey(date, passage.Plate),
		dayVehiclesKey(date),
		daysKey,
	}
	args := []interface{}{
		passage.ID,
		passage.Plate,
		string(passage.Category),
		passage.Gantry,
		passage.Timestamp.Format(time.RFC3339Nano),
		passage.Timestamp.UnixMilli(),
		date,
		s.ttl,
	}

	inserted, err := script.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return inserted == 1, nil
}

// ListForDay returns a vehicle's passages for a day ordered by time
func (s *passageStore) ListForDay(ctx context.Context, date string, plate string) ([]storage.Passage, error) {
	ids, err := s.client.ZRange(ctx, dayPassagesKey(date, plate), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []storage.Passage{}, nil
	}

	// Use pipeline for efficient batch retrieval
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))

	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, passageKey(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	passages := make([]storage.Passage, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			continue
		}

		passage, err := parsePassage(data)
		if err == nil {
			passages = append(passages, *passage)
		}
	}

	// Scores only carry millisecond precision
	slices.SortStableFunc(passages, func(a, b storage.Passage) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return passages, nil
}

// ListVehicles returns the plates seen on a day, sorted
func (s *passageStore) ListVehicles(ctx context.Context, date string) ([]string, error) {
	plates, err := s.client.SMembers(ctx, dayVehiclesKey(date)).Result()
	if err != nil {
		return nil, err
	}

	slices.Sort(plates)
	return plates, nil
}

// DeleteBefore removes every passage and charge recorded for days strictly
// before cutoffDate and returns the number of passages deleted.
func (s *passageStore) DeleteBefore(ctx context.Context, cutoffDate string) (int, error) {
	days, err := s.client.SMembers(ctx, daysKey).Result()
	if err != nil {
		return 0, err
	}

	var deletedCount int
	for _, date := range days {
		// ISO dates order lexically
		if date >= cutoffDate {
			continue
		}

		n, err := s.deleteDay(ctx, date)
		if err != nil {
			return deletedCount, fmt.Errorf("delete %s: %w", date, err)
		}
		deletedCount += n
	}

	return deletedCount, nil
}

func (s *passageStore) deleteDay(ctx context.Context, date string) (int, error) {
	plates, err := s.client.SMembers(ctx, dayVehiclesKey(date)).Result()
	if err != nil {
		return 0, err
	}

	toDelete := []string{dayVehiclesKey(date), dayChargesKey(date)}
	var passages int

	for _, plate := range plates {
		dayKey := dayPassagesKey(date, plate)
		ids, err := s.client.ZRange(ctx, dayKey, 0, -1).Result()
		if err != nil {
			return 0, err
		}
		for _, id := range ids {
			toDelete = append(toDelete, passageKey(id))
		}
		toDelete = append(toDelete, dayKey)
		passages += len(ids)
	}

	chargePlates, err := s.client.SMembers(ctx, dayChargesKey(date)).Result()
	if err != nil {
		return 0, err
	}
	for _, plate := range chargePlates {
		toDelete = append(toDelete, chargeKey(date, plate))
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, toDelete...)
	pipe.SRem(ctx, daysKey, date)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return passages, nil
}
