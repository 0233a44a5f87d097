// Package aggregator folds a user's entries into per-day summaries.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/grouping"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
)

// MaxRangeDays is the widest inclusive span AggregateRange accepts.
const MaxRangeDays = 7

// EntryFetcher is the slice of storage.MealRepository the aggregator reads.
type EntryFetcher interface {
	FetchEntries(ctx context.Context, userID string, from, to time.Time) ([]models.MealLogEntry, error)
}

var _ EntryFetcher = (storage.MealRepository)(nil)

// Aggregator produces DailySummary values, reading through an optional
// DayCache.
type Aggregator struct {
	repo  EntryFetcher
	cal   calendar.Calendar
	cache *DayCache
}

// New creates an Aggregator. cache may be nil to disable caching.
func New(repo EntryFetcher, cal calendar.Calendar, cache *DayCache) *Aggregator {
	return &Aggregator{repo: repo, cal: cal, cache: cache}
}

// Day is one day's raw entries, their display grouping and summary.
type Day struct {
	Entries []models.MealLogEntry
	Meals   []models.GroupedMeal
	Summary models.DailySummary
}

// LoadDay returns the raw entries logged on the day containing date.
//
// A result is only cached if the day was not invalidated while it was being
// fetched. Callers that switch days while a load is in flight must still
// compare the returned day against their current selection before using it.
func (a *Aggregator) LoadDay(ctx context.Context, userID string, date time.Time) ([]models.MealLogEntry, error) {
	key := a.cal.Key(date)

	var gen uint64
	if a.cache != nil {
		entries, g, ok := a.cache.Get(userID, key)
		if ok {
			slog.Debug("Day cache hit", "user_id", userID, "date", key)
			return entries, nil
		}
		gen = g
	}

	from, to := a.cal.Bounds(date)
	entries, err := a.repo.FetchEntries(ctx, userID, from, to)
	if err != nil {
		if a.cache != nil {
			a.cache.Abandon(userID, key)
		}
		return nil, storage.Classify("LoadDay", err)
	}

	if a.cache != nil && !a.cache.Put(userID, key, gen, entries) {
		slog.Debug("Discarded stale day fetch", "user_id", userID, "date", key)
	}
	return entries, nil
}

// LoadGroupedDay loads a day and groups it for display.
func (a *Aggregator) LoadGroupedDay(ctx context.Context, userID string, date time.Time) (*Day, error) {
	entries, err := a.LoadDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	meals, err := grouping.GroupForDisplay(entries)
	if err != nil {
		return nil, err
	}
	return &Day{
		Entries: entries,
		Meals:   meals,
		Summary: summarize(a.cal.Key(date), entries, meals),
	}, nil
}

// AggregateDay summarises the day containing date.
func (a *Aggregator) AggregateDay(ctx context.Context, userID string, date time.Time) (models.DailySummary, error) {
	day, err := a.LoadGroupedDay(ctx, userID, date)
	if err != nil {
		return models.DailySummary{}, err
	}
	return day.Summary, nil
}

// AggregateRange summarises every day from start to end inclusive, oldest
// first. Ranges wider than MaxRangeDays are rejected before any fetch.
func (a *Aggregator) AggregateRange(ctx context.Context, userID string, start, end time.Time) ([]models.DailySummary, error) {
	const op = "AggregateRange"

	span := a.cal.DaysBetween(start, end)
	if span < 1 {
		return nil, errs.Validation(op, "end date is before start date")
	}
	if span > MaxRangeDays {
		return nil, errs.Validation(op, "range spans %d days, at most %d allowed", span, MaxRangeDays)
	}

	summaries := make([]models.DailySummary, 0, span)
	day := a.cal.StartOfDay(start)
	for range span {
		summary, err := a.AggregateDay(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
		day = day.AddDate(0, 0, 1)
	}
	return summaries, nil
}

// summarize folds one day's raw entries.
// Macros are summed over raw entries while MealCount counts display groups,
// so a three-item group counts as one meal.
func summarize(dayKey string, entries []models.MealLogEntry, meals []models.GroupedMeal) models.DailySummary {
	return models.DailySummary{
		Date:      dayKey,
		Totals:    grouping.Sum(entries),
		MealCount: len(meals),
	}
}
