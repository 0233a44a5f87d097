package grouping

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
	"github.com/mmynk/macrotrack/internal/storage/sqlite"
)

// recordingCache records invalidated day keys.
type recordingCache struct {
	mu   sync.Mutex
	cal  calendar.Calendar
	days map[string]int
}

func (c *recordingCache) Invalidate(userID string, day time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days[userID+"/"+c.cal.Key(day)]++
}

// failingRepo wraps a repository and fails selected calls.
type failingRepo struct {
	storage.MealRepository
	failBulkUpdate bool
	block          chan struct{}
}

func (r *failingRepo) BulkUpdateGroup(ctx context.Context, userID string, ids []string, group *models.GroupRef) error {
	if r.block != nil {
		<-r.block
	}
	if r.failBulkUpdate {
		return errors.New("connection reset")
	}
	return r.MealRepository.BulkUpdateGroup(ctx, userID, ids, group)
}

type fixture struct {
	store  *sqlite.SQLiteStore
	engine *Engine
	cache  *recordingCache
	cal    calendar.Calendar
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cal := calendar.New(time.UTC)
	cache := &recordingCache{cal: cal, days: make(map[string]int)}
	return &fixture{store: store, engine: NewEngine(store, cal, cache), cache: cache, cal: cal}
}

func (f *fixture) log(t *testing.T, description string, calories int, at time.Time) string {
	t.Helper()
	e := &models.MealLogEntry{
		UserID:      "alice",
		MealType:    models.MealTypeManual,
		Description: description,
		Quantity:    1,
		Macros:      models.Macros{Calories: calories, Protein: 10, Carbs: 10, Fat: 10},
		LoggedAt:    at,
	}
	if err := f.store.InsertEntry(context.Background(), e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	return e.ID
}

func (f *fixture) display(t *testing.T, day time.Time) []models.GroupedMeal {
	t.Helper()
	from, to := f.cal.Bounds(day)
	entries, err := f.store.FetchEntries(context.Background(), "alice", from, to)
	if err != nil {
		t.Fatalf("FetchEntries failed: %v", err)
	}
	meals, err := GroupForDisplay(entries)
	if err != nil {
		t.Fatalf("GroupForDisplay failed: %v", err)
	}
	return meals
}

func countSingletons(meals []models.GroupedMeal) int {
	n := 0
	for _, m := range meals {
		if m.Singleton() {
			n++
		}
	}
	return n
}

func TestLunchScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	rice := f.log(t, "Rice", 200, day.Add(12*time.Hour))
	curry := f.log(t, "Curry", 450, day.Add(12*time.Hour+5*time.Minute))
	f.log(t, "Tea", 30, day.Add(16*time.Hour))

	groupID, err := f.engine.CreateGroup(ctx, "alice", []string{rice, curry}, "Lunch")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	meals := f.display(t, day)
	if len(meals) != 2 {
		t.Fatalf("expected 2 grouped meals, got %d", len(meals))
	}
	var lunch *models.GroupedMeal
	for i := range meals {
		if !meals[i].Singleton() {
			lunch = &meals[i]
		}
	}
	if lunch == nil || lunch.Group.ID != groupID || len(lunch.Meals) != 2 {
		t.Fatalf("unexpected lunch group: %+v", lunch)
	}
	if lunch.Totals.Calories != 650 || lunch.Totals.Protein != 20 {
		t.Errorf("lunch totals = %+v, want 650 kcal / 20 g protein", lunch.Totals)
	}

	if err := f.engine.DissolveGroup(ctx, "alice", groupID); err != nil {
		t.Fatalf("DissolveGroup failed: %v", err)
	}
	meals = f.display(t, day)
	if len(meals) != 3 || countSingletons(meals) != 3 {
		t.Errorf("expected 3 singletons after dissolve, got %d meals (%d singletons)", len(meals), countSingletons(meals))
	}

	if f.cache.days["alice/2026-06-01"] == 0 {
		t.Error("expected the day to be invalidated")
	}
}

func TestRemoveFromGroupDemotesLoneMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)

	a := f.log(t, "Eggs", 180, now)
	b := f.log(t, "Toast", 120, now.Add(time.Minute))
	groupID, err := f.engine.CreateGroup(ctx, "alice", []string{a, b}, "Breakfast")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if err := f.engine.RemoveFromGroup(ctx, "alice", a); err != nil {
		t.Fatalf("RemoveFromGroup failed: %v", err)
	}

	for _, id := range []string{a, b} {
		e, err := f.store.GetEntry(ctx, "alice", id)
		if err != nil {
			t.Fatalf("GetEntry failed: %v", err)
		}
		if e.Group != nil {
			t.Errorf("entry %s still in group %s", id, e.Group.ID)
		}
	}

	members, err := f.store.FetchGroupMembers(ctx, "alice", groupID)
	if err != nil {
		t.Fatalf("FetchGroupMembers failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected empty group, got %d members", len(members))
	}

	// Removing an already ungrouped entry is a no-op
	if err := f.engine.RemoveFromGroup(ctx, "alice", a); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestRemoveFromGroupKeepsLargerGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 2, 19, 0, 0, 0, time.UTC)

	ids := []string{
		f.log(t, "Steak", 600, now),
		f.log(t, "Fries", 400, now.Add(time.Minute)),
		f.log(t, "Salad", 90, now.Add(2*time.Minute)),
	}
	groupID, err := f.engine.CreateGroup(ctx, "alice", ids, "Dinner")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if err := f.engine.RemoveFromGroup(ctx, "alice", ids[0]); err != nil {
		t.Fatalf("RemoveFromGroup failed: %v", err)
	}
	members, err := f.store.FetchGroupMembers(ctx, "alice", groupID)
	if err != nil {
		t.Fatalf("FetchGroupMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 remaining members, got %d", len(members))
	}
}

func TestCreateGroupValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.log(t, "Banana", 105, time.Now())

	tests := []struct {
		name     string
		ids      []string
		group    string
		wantKind errs.Kind
	}{
		{"empty ids", nil, "Lunch", errs.KindValidation},
		{"blank ids", []string{" ", ""}, "Lunch", errs.KindValidation},
		{"blank name", []string{id}, "   ", errs.KindValidation},
		{"unknown entry", []string{id, "missing"}, "Lunch", errs.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateGroup(ctx, "alice", tt.ids, tt.group)
			if got := errs.KindOf(err); got != tt.wantKind {
				t.Errorf("CreateGroup() kind = %v, want %v (err %v)", got, tt.wantKind, err)
			}
		})
	}

	// Another user's entry is not visible
	if _, err := f.engine.CreateGroup(ctx, "bob", []string{id}, "Snack"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not found for another user's entry, got %v", err)
	}
}

func TestAddToGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC)

	a := f.log(t, "Sushi", 300, now)
	b := f.log(t, "Miso", 60, now.Add(time.Minute))
	c := f.log(t, "Edamame", 120, now.Add(2*time.Minute))

	groupID, err := f.engine.CreateGroup(ctx, "alice", []string{a, b}, "Lunch")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	total, err := f.engine.AddToGroup(ctx, "alice", []string{c}, groupID)
	if err != nil {
		t.Fatalf("AddToGroup failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total items = %d, want 3", total)
	}

	got, err := f.store.GetEntry(ctx, "alice", c)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.Group == nil || got.Group.Name != "Lunch" {
		t.Errorf("expected group name copied, got %+v", got.Group)
	}

	// Re-adding an existing member does not inflate the count
	total, err = f.engine.AddToGroup(ctx, "alice", []string{a}, groupID)
	if err != nil {
		t.Fatalf("AddToGroup (existing member) failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total items = %d, want 3", total)
	}

	if _, err := f.engine.AddToGroup(ctx, "alice", []string{c}, "no-such-group"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not found for unknown group, got %v", err)
	}
}

func TestMovingEntriesDemotesOriginGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 4, 12, 0, 0, 0, time.UTC)

	a := f.log(t, "Burger", 700, now)
	b := f.log(t, "Shake", 500, now.Add(time.Minute))
	c := f.log(t, "Cookie", 200, now.Add(2*time.Minute))

	first, err := f.engine.CreateGroup(ctx, "alice", []string{a, b}, "Lunch")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := f.engine.CreateGroup(ctx, "alice", []string{b, c}, "Dessert"); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	members, err := f.store.FetchGroupMembers(ctx, "alice", first)
	if err != nil {
		t.Fatalf("FetchGroupMembers failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected origin group to be dissolved, got %d members", len(members))
	}
}

func TestDeleteEntryDemotesLoneMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	a := f.log(t, "Pasta", 650, now)
	b := f.log(t, "Wine", 125, now.Add(time.Minute))
	if _, err := f.engine.CreateGroup(ctx, "alice", []string{a, b}, "Dinner"); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if err := f.engine.DeleteEntry(ctx, "alice", a); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	got, err := f.store.GetEntry(ctx, "alice", b)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.Group != nil {
		t.Error("expected remaining member to be demoted")
	}

	if err := f.engine.DeleteEntry(ctx, "alice", a); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	a := f.log(t, "Pancakes", 400, now)
	b := f.log(t, "Syrup", 100, now.Add(time.Minute))
	keep := f.log(t, "Orange juice", 110, now.Add(2*time.Minute))
	groupID, err := f.engine.CreateGroup(ctx, "alice", []string{a, b}, "Brunch")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if err := f.engine.DeleteGroup(ctx, "alice", groupID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	for _, id := range []string{a, b} {
		if _, err := f.store.GetEntry(ctx, "alice", id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected %s to be deleted, got %v", id, err)
		}
	}
	if _, err := f.store.GetEntry(ctx, "alice", keep); err != nil {
		t.Errorf("unrelated entry was touched: %v", err)
	}

	if err := f.engine.DeleteGroup(ctx, "alice", groupID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not found for deleted group, got %v", err)
	}
}

func TestFindOrCreateGroupByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)

	a := f.log(t, "Granola", 250, day.Add(7*time.Hour))
	groupID, err := f.engine.CreateGroup(ctx, "alice", []string{a}, "Breakfast")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	got, found, err := f.engine.FindOrCreateGroupByName(ctx, "alice", "  breakfast ", day.Add(20*time.Hour))
	if err != nil {
		t.Fatalf("FindOrCreateGroupByName failed: %v", err)
	}
	if !found || got != groupID {
		t.Errorf("got (%q, %v), want (%q, true)", got, found, groupID)
	}

	_, found, err = f.engine.FindOrCreateGroupByName(ctx, "alice", "Breakfast", day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("FindOrCreateGroupByName failed: %v", err)
	}
	if found {
		t.Error("expected no group on a different day")
	}

	if _, _, err := f.engine.FindOrCreateGroupByName(ctx, "alice", "", day); errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRepositoryFailureIsSurfaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.log(t, "Soup", 200, time.Now())

	engine := NewEngine(&failingRepo{MealRepository: f.store, failBulkUpdate: true}, f.cal, nil)
	_, err := engine.CreateGroup(ctx, "alice", []string{a}, "Lunch")
	if errs.KindOf(err) != errs.KindRepository {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestConcurrentMutationRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	a := f.log(t, "Taco", 200, now)
	b := f.log(t, "Burrito", 600, now.Add(time.Minute))
	groupID, err := f.engine.CreateGroup(ctx, "alice", []string{a, b}, "Dinner")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	repo := &failingRepo{MealRepository: f.store, block: make(chan struct{})}
	engine := NewEngine(repo, f.cal, nil)

	done := make(chan error, 1)
	go func() { done <- engine.DissolveGroup(ctx, "alice", groupID) }()

	// Wait until the first mutation holds the group
	deadline := time.Now().Add(5 * time.Second)
	for {
		engine.mu.Lock()
		_, held := engine.busy[groupID]
		engine.mu.Unlock()
		if held || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := engine.RemoveFromGroup(ctx, "alice", a); errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error for concurrent mutation, got %v", err)
	}

	close(repo.block)
	if err := <-done; err != nil {
		t.Fatalf("DissolveGroup failed: %v", err)
	}
}
