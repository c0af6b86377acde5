// Package ledger records toll point passages and keeps each vehicle's daily
// charge up to date.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/metrics"
	"github.com/goodtune/tollfee/internal/storage"
	"github.com/goodtune/tollfee/internal/toll"
	"github.com/goodtune/tollfee/internal/vehicle"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidPassage is returned when a passage is missing required fields.
var ErrInvalidPassage = errors.New("invalid passage")

// Ledger maps passages onto local calendar days and stores the resulting
// daily charges.
type Ledger struct {
	store    storage.Store
	calc     *toll.Calculator
	location *time.Location
	clock    Clock
	logger   zerolog.Logger

	// mu serialises record-and-recompute so a charge never misses a
	// concurrently recorded passage.
	mu sync.Mutex
}

// Config holds ledger configuration
type Config struct {
	// Location is the timezone whose calendar days fees are computed for.
	Location *time.Location
	Clock    Clock
}

// PassageInput is a passage reported by a toll point.
type PassageInput struct {
	ID        string           `json:"id"`
	Plate     string           `json:"plate"`
	Category  vehicle.Category `json:"category"`
	Gantry    string           `json:"gantry"`
	Timestamp time.Time        `json:"timestamp"`
}

// New creates a Ledger. A nil calculator uses toll.New(nil).
func New(store storage.Store, calc *toll.Calculator, config Config, logger zerolog.Logger) *Ledger {
	if calc == nil {
		calc = toll.New(nil)
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}

	return &Ledger{
		store:    store,
		calc:     calc,
		location: config.Location,
		clock:    config.Clock,
		logger:   logger.With().Str("component", "ledger").Logger(),
	}
}

// Location returns the timezone the ledger computes days in.
func (l *Ledger) Location() *time.Location {
	return l.location
}

// Today returns the current local date.
func (l *Ledger) Today() holiday.Date {
	return holiday.DateOf(l.clock.Now().In(l.location))
}

// RecordPassage stores a passage and returns the vehicle's recomputed charge
// for the local day the passage fell on.
func (l *Ledger) RecordPassage(ctx context.Context, in PassageInput) (*storage.DailyCharge, error) {
	plate := vehicle.NormalizePlate(in.Plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrInvalidPassage)
	}
	category, err := vehicle.ParseCategory(string(in.Category))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPassage, err)
	}
	if in.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: timestamp is required", ErrInvalidPassage)
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	passage := storage.Passage{
		ID:        id,
		Plate:     plate,
		Category:  category,
		Gantry:    in.Gantry,
		Timestamp: in.Timestamp.In(l.location),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	inserted, err := l.store.Passages().Record(ctx, passage)
	if err != nil {
		return nil, fmt.Errorf("failed to record passage: %w", err)
	}
	if inserted {
		metrics.PassagesRecorded.WithLabelValues(category.String()).Inc()
	}

	l.logger.Debug().
		Str("passage_id", id).
		Str("plate", plate).
		Str("gantry", in.Gantry).
		Time("timestamp", passage.Timestamp).
		Bool("duplicate", !inserted).
		Msg("Recorded passage")

	return l.recompute(ctx, plate, holiday.DateOf(passage.Timestamp))
}

// recompute rebuilds and stores the charge for plate on date from the stored
// passages. Callers hold mu.
func (l *Ledger) recompute(ctx context.Context, plate string, date holiday.Date) (*storage.DailyCharge, error) {
	passages, err := l.store.Passages().ListForDay(ctx, date.String(), plate)
	if err != nil {
		return nil, fmt.Errorf("failed to list passages: %w", err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("passage for %s on %s not found after recording", plate, date)
	}

	category := dayCategory(passages)
	st, err := l.statement(category, passages)
	if err != nil {
		return nil, err
	}

	previous, err := l.store.Charges().Get(ctx, date.String(), plate)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load charge: %w", err)
	}

	charge := storage.DailyCharge{
		Date:       date.String(),
		Plate:      plate,
		Category:   category,
		Fee:        st.Total,
		Uncapped:   st.Uncapped,
		Passages:   len(passages),
		ComputedAt: l.clock.Now(),
	}
	if err := l.store.Charges().Put(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to store charge: %w", err)
	}

	prevFee, prevCapped := 0, false
	if previous != nil {
		prevFee, prevCapped = previous.Fee, previous.Capped()
	}
	if delta := charge.Fee - prevFee; delta > 0 {
		metrics.FeesChargedTotal.WithLabelValues(category.String()).Add(float64(delta))
	}
	if charge.Capped() && !prevCapped {
		metrics.DailyCapReached.Inc()
		l.logger.Info().
			Str("plate", plate).
			Str("date", charge.Date).
			Int("uncapped", charge.Uncapped).
			Msg("Daily cap reached")
	}

	return &charge, nil
}

func (l *Ledger) statement(category vehicle.Category, passages []storage.Passage) (*toll.Statement, error) {
	times := make([]time.Time, len(passages))
	for i, p := range passages {
		times[i] = p.Timestamp
	}
	return l.DailyFee(category, times)
}

// DailyCharge returns the stored charge for a vehicle on a local date.
func (l *Ledger) DailyCharge(ctx context.Context, plate string, date holiday.Date) (*storage.DailyCharge, error) {
	return l.store.Charges().Get(ctx, date.String(), vehicle.NormalizePlate(plate))
}

// Statement recomputes the interval breakdown for a vehicle on a local date
// from its stored passages. It returns storage.ErrNotFound when the vehicle
// has no passages that day.
func (l *Ledger) Statement(ctx context.Context, plate string, date holiday.Date) (*toll.Statement, error) {
	passages, err := l.store.Passages().ListForDay(ctx, date.String(), vehicle.NormalizePlate(plate))
	if err != nil {
		return nil, fmt.Errorf("failed to list passages: %w", err)
	}
	if len(passages) == 0 {
		return nil, storage.ErrNotFound
	}

	return l.statement(dayCategory(passages), passages)
}

// dayCategory picks the category a day is charged under. passages must be
// non-empty and ordered by time; the latest passage wins if a vehicle was
// reclassified during the day.
func dayCategory(passages []storage.Passage) vehicle.Category {
	return passages[len(passages)-1].Category
}

// ListCharges returns every stored charge for a local date.
func (l *Ledger) ListCharges(ctx context.Context, date holiday.Date) ([]storage.DailyCharge, error) {
	return l.store.Charges().ListForDay(ctx, date.String())
}

// FeeAt returns the fee for a single passage at t in the ledger's location
// and whether t falls on a toll-free date.
func (l *Ledger) FeeAt(t time.Time, category vehicle.Category) (fee int, exemptDate bool) {
	local := t.In(l.location)
	return l.calc.FeeAt(local, category), l.calc.IsExemptDate(local)
}

// DailyFee computes the capped fee for timestamps that must all fall on one
// local day. Otherwise it returns an error matching toll.ErrMixedDays.
func (l *Ledger) DailyFee(category vehicle.Category, timestamps []time.Time) (*toll.Statement, error) {
	local := make([]time.Time, len(timestamps))
	for i, t := range timestamps {
		local[i] = t.In(l.location)
	}

	st, err := l.calc.Statement(category, local)
	if err != nil {
		metrics.FeeCalculationsTotal.WithLabelValues(category.String(), "error").Inc()
		return nil, err
	}
	metrics.FeeCalculationsTotal.WithLabelValues(category.String(), "ok").Inc()
	return st, nil
}

// Quote computes fees for arbitrary timestamps without storing anything.
// Timestamps are converted to the ledger's location and split per local day,
// and each day is charged independently.
func (l *Ledger) Quote(category vehicle.Category, timestamps []time.Time) (map[holiday.Date]*toll.Statement, error) {
	return Quote(l.calc, l.location, category, timestamps)
}

// Quote is Ledger.Quote without a store, for offline callers.
func Quote(calc *toll.Calculator, loc *time.Location, category vehicle.Category, timestamps []time.Time) (map[holiday.Date]*toll.Statement, error) {
	days := make(map[holiday.Date][]time.Time)
	for _, t := range timestamps {
		local := t.In(loc)
		d := holiday.DateOf(local)
		days[d] = append(days[d], local)
	}

	out := make(map[holiday.Date]*toll.Statement, len(days))
	for d, times := range days {
		st, err := calc.Statement(category, times)
		if err != nil {
			metrics.FeeCalculationsTotal.WithLabelValues(category.String(), "error").Inc()
			return nil, fmt.Errorf("quote %s: %w", d, err)
		}
		metrics.FeeCalculationsTotal.WithLabelValues(category.String(), "ok").Inc()
		out[d] = st
	}
	return out, nil
}

// SortedDays returns the keys of a quote in calendar order.
func SortedDays(quote map[holiday.Date]*toll.Statement) []holiday.Date {
	days := make([]holiday.Date, 0, len(quote))
	for d := range quote {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}

// Prune deletes passages and charges older than days local days and returns
// the number of passages removed.
func (l *Ledger) Prune(ctx context.Context, days int) (int, error) {
	cutoff := l.Today().AddDays(-days)

	deleted, err := l.store.Passages().DeleteBefore(ctx, cutoff.String())
	if err != nil {
		return deleted, fmt.Errorf("failed to prune passages before %s: %w", cutoff, err)
	}
	metrics.PassagesPruned.Add(float64(deleted))

	l.logger.Info().
		Int("passages_deleted", deleted).
		Str("cutoff_date", cutoff.String()).
		Msg("Pruned old passages")

	return deleted, nil
}
