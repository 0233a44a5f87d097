package grouping

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
)

// Invalidator is told which days a mutation touched.
type Invalidator interface {
	Invalidate(userID string, day time.Time)
}

// Engine applies group-membership mutations through a MealRepository.
//
// After every mutation a group with a single remaining member is dissolved:
// a group of one is not a group. Mutations on a group that is already being
// mutated are rejected rather than interleaved.
type Engine struct {
	repo  storage.MealRepository
	cal   calendar.Calendar
	cache Invalidator

	mu   sync.Mutex
	busy map[string]struct{}
}

// NewEngine creates an Engine. cache may be nil.
func NewEngine(repo storage.MealRepository, cal calendar.Calendar, cache Invalidator) *Engine {
	return &Engine{
		repo:  repo,
		cal:   cal,
		cache: cache,
		busy:  make(map[string]struct{}),
	}
}

// CreateGroup puts the listed entries into a new group named groupName and
// returns its id. Entries that were in another group leave it.
func (e *Engine) CreateGroup(ctx context.Context, userID string, entryIDs []string, groupName string) (string, error) {
	const op = "CreateGroup"

	ids := normalizeIDs(entryIDs)
	name := strings.TrimSpace(groupName)
	if len(ids) == 0 {
		return "", errs.Validation(op, "at least one entry is required")
	}
	if name == "" {
		return "", errs.Validation(op, "group name is required")
	}

	entries, err := e.resolveEntries(ctx, op, userID, ids)
	if err != nil {
		return "", err
	}

	origins := originGroups(entries, "")
	release, err := e.acquire(op, origins...)
	if err != nil {
		return "", err
	}
	defer release()

	group := &models.GroupRef{ID: uuid.New().String(), Name: name}
	if err := e.repo.BulkUpdateGroup(ctx, userID, ids, group); err != nil {
		return "", storage.Classify(op, err)
	}
	e.touch(userID, entries...)

	if err := e.demoteLoneMembers(ctx, op, userID, origins); err != nil {
		return "", err
	}

	slog.Info("Group created", "user_id", userID, "group_id", group.ID, "name", name, "entries", len(ids))
	return group.ID, nil
}

// AddToGroup moves the listed entries into an existing group, copying its
// name, and returns the group's new member count.
func (e *Engine) AddToGroup(ctx context.Context, userID string, entryIDs []string, groupID string) (int, error) {
	const op = "AddToGroup"

	ids := normalizeIDs(entryIDs)
	if len(ids) == 0 {
		return 0, errs.Validation(op, "at least one entry is required")
	}
	if strings.TrimSpace(groupID) == "" {
		return 0, errs.Validation(op, "group id is required")
	}

	members, err := e.members(ctx, op, userID, groupID)
	if err != nil {
		return 0, err
	}
	name, err := sharedName(op, groupID, members)
	if err != nil {
		return 0, err
	}

	entries, err := e.resolveEntries(ctx, op, userID, ids)
	if err != nil {
		return 0, err
	}

	origins := originGroups(entries, groupID)
	release, err := e.acquire(op, append(origins, groupID)...)
	if err != nil {
		return 0, err
	}
	defer release()

	if err := e.repo.BulkUpdateGroup(ctx, userID, ids, &models.GroupRef{ID: groupID, Name: name}); err != nil {
		return 0, storage.Classify(op, err)
	}
	e.touch(userID, entries...)
	e.touch(userID, members...)

	if err := e.demoteLoneMembers(ctx, op, userID, origins); err != nil {
		return 0, err
	}

	total := make(map[string]struct{}, len(members)+len(ids))
	for _, m := range members {
		total[m.ID] = struct{}{}
	}
	for _, id := range ids {
		total[id] = struct{}{}
	}

	slog.Info("Entries added to group", "user_id", userID, "group_id", groupID, "added", len(ids), "total_items", len(total))
	return len(total), nil
}

// FindOrCreateGroupByName looks for a group labelled groupName (trimmed,
// case-insensitive) among the user's entries on date. It reports found=false
// when there is none, in which case the caller creates one.
// If several groups share the label, the most recently logged one wins.
func (e *Engine) FindOrCreateGroupByName(ctx context.Context, userID, groupName string, date time.Time) (string, bool, error) {
	const op = "FindOrCreateGroupByName"

	name := strings.TrimSpace(groupName)
	if name == "" {
		return "", false, errs.Validation(op, "group name is required")
	}

	from, to := e.cal.Bounds(date)
	entries, err := e.repo.FetchEntries(ctx, userID, from, to)
	if err != nil {
		return "", false, storage.Classify(op, err)
	}

	meals, err := GroupForDisplay(entries)
	if err != nil {
		return "", false, err
	}
	for _, m := range meals {
		if m.Group != nil && strings.EqualFold(m.Group.Name, name) {
			return m.Group.ID, true, nil
		}
	}
	return "", false, nil
}

// RemoveFromGroup demotes one entry to a singleton. If that leaves its group
// with a single member, that member is demoted too. Removing an entry that is
// not grouped is a no-op.
func (e *Engine) RemoveFromGroup(ctx context.Context, userID, entryID string) error {
	const op = "RemoveFromGroup"

	entry, err := e.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return storage.Classify(op, err)
	}
	if entry.Group == nil {
		return nil
	}
	groupID := entry.Group.ID

	release, err := e.acquire(op, groupID)
	if err != nil {
		return err
	}
	defer release()

	if err := e.repo.BulkUpdateGroup(ctx, userID, []string{entryID}, nil); err != nil {
		return storage.Classify(op, err)
	}
	e.touch(userID, *entry)

	if err := e.demoteLoneMembers(ctx, op, userID, []string{groupID}); err != nil {
		return err
	}

	slog.Info("Entry removed from group", "user_id", userID, "entry_id", entryID, "group_id", groupID)
	return nil
}

// DissolveGroup demotes every member of a group to a singleton in one bulk
// update.
func (e *Engine) DissolveGroup(ctx context.Context, userID, groupID string) error {
	const op = "DissolveGroup"

	members, err := e.members(ctx, op, userID, groupID)
	if err != nil {
		return err
	}

	release, err := e.acquire(op, groupID)
	if err != nil {
		return err
	}
	defer release()

	if err := e.repo.BulkUpdateGroup(ctx, userID, entryIDs(members), nil); err != nil {
		return storage.Classify(op, err)
	}
	e.touch(userID, members...)

	slog.Info("Group dissolved", "user_id", userID, "group_id", groupID, "entries", len(members))
	return nil
}

// DeleteGroup deletes every member of a group. Irreversible.
func (e *Engine) DeleteGroup(ctx context.Context, userID, groupID string) error {
	const op = "DeleteGroup"

	members, err := e.members(ctx, op, userID, groupID)
	if err != nil {
		return err
	}

	release, err := e.acquire(op, groupID)
	if err != nil {
		return err
	}
	defer release()

	if err := e.repo.DeleteByGroupID(ctx, userID, groupID); err != nil {
		return storage.Classify(op, err)
	}
	e.touch(userID, members...)

	slog.Info("Group deleted", "user_id", userID, "group_id", groupID, "entries", len(members))
	return nil
}

// DeleteEntry deletes one entry. If it was the second-to-last member of a
// group, the remaining member is demoted.
func (e *Engine) DeleteEntry(ctx context.Context, userID, entryID string) error {
	const op = "DeleteEntry"

	entry, err := e.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return storage.Classify(op, err)
	}

	var groups []string
	if entry.Group != nil {
		groups = []string{entry.Group.ID}
	}
	release, err := e.acquire(op, groups...)
	if err != nil {
		return err
	}
	defer release()

	if err := e.repo.DeleteEntry(ctx, userID, entryID); err != nil {
		return storage.Classify(op, err)
	}
	e.touch(userID, *entry)

	if err := e.demoteLoneMembers(ctx, op, userID, groups); err != nil {
		return err
	}

	slog.Info("Entry deleted", "user_id", userID, "entry_id", entryID)
	return nil
}

// demoteLoneMembers dissolves any of the given groups left with one member.
func (e *Engine) demoteLoneMembers(ctx context.Context, op, userID string, groupIDs []string) error {
	for _, groupID := range groupIDs {
		members, err := e.repo.FetchGroupMembers(ctx, userID, groupID)
		if err != nil {
			return storage.Classify(op, err)
		}
		if len(members) != 1 {
			continue
		}
		if err := e.repo.BulkUpdateGroup(ctx, userID, []string{members[0].ID}, nil); err != nil {
			return storage.Classify(op, err)
		}
		e.touch(userID, members[0])
		slog.Info("Demoted lone group member", "user_id", userID, "group_id", groupID, "entry_id", members[0].ID)
	}
	return nil
}

// members returns a group's entries, or a not-found error if it has none.
func (e *Engine) members(ctx context.Context, op, userID, groupID string) ([]models.MealLogEntry, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, errs.Validation(op, "group id is required")
	}
	members, err := e.repo.FetchGroupMembers(ctx, userID, groupID)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	if len(members) == 0 {
		return nil, errs.NotFound(op, "group %s not found", groupID)
	}
	return members, nil
}

// resolveEntries fetches ids and fails if any is missing.
func (e *Engine) resolveEntries(ctx context.Context, op, userID string, ids []string) ([]models.MealLogEntry, error) {
	entries, err := e.repo.GetEntries(ctx, userID, ids)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	if len(entries) == len(ids) {
		return entries, nil
	}

	found := make(map[string]bool, len(entries))
	for _, en := range entries {
		found[en.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return nil, errs.NotFound(op, "entries not found: %s", strings.Join(missing, ", "))
}

// acquire marks groups as being mutated until release is called.
func (e *Engine) acquire(op string, groupIDs ...string) (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range groupIDs {
		if _, ok := e.busy[id]; ok {
			return nil, errs.Validation(op, "group %s has a mutation in progress", id)
		}
	}
	for _, id := range groupIDs {
		e.busy[id] = struct{}{}
	}

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for _, id := range groupIDs {
			delete(e.busy, id)
		}
	}, nil
}

func (e *Engine) touch(userID string, entries ...models.MealLogEntry) {
	if e.cache == nil {
		return
	}
	for _, en := range entries {
		e.cache.Invalidate(userID, en.LoggedAt)
	}
}

func sharedName(op, groupID string, members []models.MealLogEntry) (string, error) {
	name := members[0].Group.Name
	for _, m := range members[1:] {
		if m.Group.Name != name {
			return "", errs.Integrity(op, "group %s has conflicting names %q and %q", groupID, name, m.Group.Name)
		}
	}
	return name, nil
}

// originGroups returns the distinct groups entries currently belong to,
// other than except.
func originGroups(entries []models.MealLogEntry, except string) []string {
	var groups []string
	for _, en := range entries {
		if id := en.GroupID(); id != "" && id != except && !slices.Contains(groups, id) {
			groups = append(groups, id)
		}
	}
	return groups
}

func normalizeIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func entryIDs(entries []models.MealLogEntry) []string {
	ids := make([]string, len(entries))
	for i, en := range entries {
		ids[i] = en.ID
	}
	return ids
}
