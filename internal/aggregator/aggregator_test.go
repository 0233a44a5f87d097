package aggregator

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage/sqlite"
)

// countingFetcher counts fetches and can run a hook mid-fetch.
type countingFetcher struct {
	inner   EntryFetcher
	calls   atomic.Int32
	during  func()
	failing bool
}

func (f *countingFetcher) FetchEntries(ctx context.Context, userID string, from, to time.Time) ([]models.MealLogEntry, error) {
	f.calls.Add(1)
	if f.failing {
		return nil, errors.New("timeout talking to database")
	}
	entries, err := f.inner.FetchEntries(ctx, userID, from, to)
	if f.during != nil {
		f.during()
	}
	return entries, err
}

var day0 = time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*sqlite.SQLiteStore, *countingFetcher, *DayCache, *Aggregator) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cal := calendar.New(time.UTC)
	fetcher := &countingFetcher{inner: store}
	cache := NewDayCache(cal)
	return store, fetcher, cache, New(fetcher, cal, cache)
}

func insert(t *testing.T, store *sqlite.SQLiteStore, calories int, at time.Time, group *models.GroupRef) {
	t.Helper()
	err := store.InsertEntry(context.Background(), &models.MealLogEntry{
		UserID:      "alice",
		MealType:    models.MealTypeManual,
		Description: "food",
		Quantity:    1,
		Macros:      models.Macros{Calories: calories, Protein: 5, Carbs: 10, Fat: 2.5},
		Group:       group,
		LoggedAt:    at,
	})
	if err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
}

func TestAggregateDayCountsGroupsNotEntries(t *testing.T) {
	store, _, _, agg := setup(t)
	lunch := &models.GroupRef{ID: "g-lunch", Name: "Lunch"}

	insert(t, store, 300, day0.Add(8*time.Hour), nil)
	insert(t, store, 400, day0.Add(12*time.Hour), lunch)
	insert(t, store, 250, day0.Add(12*time.Hour+time.Minute), lunch)
	insert(t, store, 150, day0.Add(12*time.Hour+2*time.Minute), lunch)

	summary, err := agg.AggregateDay(context.Background(), "alice", day0.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("AggregateDay failed: %v", err)
	}

	if summary.Date != "2026-07-06" {
		t.Errorf("Date = %s, want 2026-07-06", summary.Date)
	}
	if summary.MealCount != 2 {
		t.Errorf("MealCount = %d, want 2", summary.MealCount)
	}
	if summary.Totals.Calories != 1100 || summary.Totals.Protein != 20 || summary.Totals.Fat != 10 {
		t.Errorf("unexpected totals: %+v", summary.Totals)
	}
}

func TestAggregateRangeGuard(t *testing.T) {
	store, fetcher, _, agg := setup(t)
	ctx := context.Background()

	insert(t, store, 500, day0.Add(12*time.Hour), nil)
	insert(t, store, 700, day0.AddDate(0, 0, 3).Add(18*time.Hour), nil)

	t.Run("eight day span is rejected before fetching", func(t *testing.T) {
		_, err := agg.AggregateRange(ctx, "alice", day0, day0.AddDate(0, 0, 7))
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if n := fetcher.calls.Load(); n != 0 {
			t.Errorf("expected no fetches, got %d", n)
		}
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := agg.AggregateRange(ctx, "alice", day0, day0.AddDate(0, 0, -1))
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("seven day span succeeds oldest first", func(t *testing.T) {
		summaries, err := agg.AggregateRange(ctx, "alice", day0, day0.AddDate(0, 0, 6))
		if err != nil {
			t.Fatalf("AggregateRange failed: %v", err)
		}
		if len(summaries) != 7 {
			t.Fatalf("expected 7 summaries, got %d", len(summaries))
		}
		if summaries[0].Date != "2026-07-06" || summaries[6].Date != "2026-07-12" {
			t.Errorf("unexpected order: %s .. %s", summaries[0].Date, summaries[6].Date)
		}
		if summaries[0].Totals.Calories != 500 || summaries[3].Totals.Calories != 700 {
			t.Errorf("unexpected totals: %d, %d", summaries[0].Totals.Calories, summaries[3].Totals.Calories)
		}
		if summaries[1].MealCount != 0 {
			t.Errorf("empty day MealCount = %d, want 0", summaries[1].MealCount)
		}
	})
}

func TestDayCache(t *testing.T) {
	store, fetcher, cache, agg := setup(t)
	ctx := context.Background()
	insert(t, store, 500, day0.Add(12*time.Hour), nil)

	if _, err := agg.LoadDay(ctx, "alice", day0); err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if _, err := agg.LoadDay(ctx, "alice", day0.Add(6*time.Hour)); err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if n := fetcher.calls.Load(); n != 1 {
		t.Errorf("expected 1 fetch with a warm cache, got %d", n)
	}

	// A mutation invalidates the day and the next load sees new rows
	insert(t, store, 250, day0.Add(13*time.Hour), nil)
	cache.Invalidate("alice", day0.Add(13*time.Hour))

	entries, err := agg.LoadDay(ctx, "alice", day0)
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after invalidation, got %d", len(entries))
	}
	if n := fetcher.calls.Load(); n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
}

func TestDayCacheDiscardsStaleFetch(t *testing.T) {
	store, fetcher, cache, agg := setup(t)
	ctx := context.Background()
	insert(t, store, 500, day0.Add(12*time.Hour), nil)

	// The day is mutated while the first fetch is in flight
	fetcher.during = func() {
		fetcher.during = nil
		cache.InvalidateKey("alice", "2026-07-06")
	}

	if _, err := agg.LoadDay(ctx, "alice", day0); err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Error("stale fetch should not have been cached")
	}

	if _, err := agg.LoadDay(ctx, "alice", day0); err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Error("fresh fetch should have been cached")
	}
}

func TestCacheIsolatesUsers(t *testing.T) {
	cache := NewDayCache(calendar.New(time.UTC))
	cache.Put("alice", "2026-07-06", 0, []models.MealLogEntry{{ID: "a"}})

	if _, _, ok := cache.Get("bob", "2026-07-06"); ok {
		t.Error("expected miss for another user")
	}
	got, _, ok := cache.Get("alice", "2026-07-06")
	if !ok || len(got) != 1 {
		t.Fatalf("expected hit, got %v %v", got, ok)
	}

	// Callers cannot mutate the cached slice
	got[0].ID = "changed"
	again, _, _ := cache.Get("alice", "2026-07-06")
	if again[0].ID != "a" {
		t.Error("cached entries were mutated through a returned slice")
	}
}

func TestRepositoryErrorPropagates(t *testing.T) {
	_, fetcher, _, agg := setup(t)
	fetcher.failing = true

	_, err := agg.AggregateDay(context.Background(), "alice", day0)
	if errs.KindOf(err) != errs.KindRepository {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestDayCacheDoesNotGrowOnInvalidation(t *testing.T) {
	store, fetcher, cache, agg := setup(t)
	ctx := context.Background()
	insert(t, store, 500, day0.Add(12*time.Hour), nil)

	for i := range 30 {
		cache.Invalidate("alice", day0.AddDate(0, 0, -i))
	}
	if n := len(cache.slots); n != 0 {
		t.Errorf("invalidating unfetched days left %d slots", n)
	}

	if _, err := agg.LoadDay(ctx, "alice", day0); err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	cache.Invalidate("alice", day0)
	if n := len(cache.slots); n != 0 {
		t.Errorf("invalidated day left %d slots", n)
	}

	fetcher.failing = true
	if _, err := agg.LoadDay(ctx, "alice", day0); err == nil {
		t.Fatal("expected fetch error")
	}
	if n := len(cache.slots); n != 0 {
		t.Errorf("failed fetch left %d slots", n)
	}
}
