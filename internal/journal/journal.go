// Package journal implements the actions that create and correct meal-log
// entries: manual logs, quick-item logs, AI-analyzed logs and value
// corrections.
package journal

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/macrotrack/internal/analysis"
	"github.com/mmynk/macrotrack/internal/calculator"
	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/grouping"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
)

// QuickItemGetter is the part of the quick-item store logging needs.
type QuickItemGetter interface {
	GetQuickItem(ctx context.Context, userID, itemID string) (*models.QuickItem, error)
}

// Journal writes entries and keeps the day cache and groups consistent.
type Journal struct {
	repo     storage.MealRepository
	items    QuickItemGetter
	engine   *grouping.Engine
	analyzer analysis.Analyzer
	cal      calendar.Calendar
	cache    grouping.Invalidator

	now func() time.Time
}

// New creates a Journal. analyzer and cache may be nil; without an analyzer
// LogAnalyzed is rejected.
func New(repo storage.MealRepository, items QuickItemGetter, engine *grouping.Engine, analyzer analysis.Analyzer, cal calendar.Calendar, cache grouping.Invalidator) *Journal {
	return &Journal{
		repo:     repo,
		items:    items,
		engine:   engine,
		analyzer: analyzer,
		cal:      cal,
		cache:    cache,
		now:      time.Now,
	}
}

// Placement says which day an entry is logged for and which group, if any,
// it joins.
type Placement struct {
	// Day is the chosen calendar day. Zero means today.
	Day time.Time

	// GroupName merges the entry into the day's group with that label, or
	// starts one. Blank leaves the entry ungrouped. If joining fails, the
	// log call returns the saved, ungrouped entry together with the error.
	GroupName string
}

// ManualEntry is a user-typed entry.
type ManualEntry struct {
	Description string
	Macros      models.Macros
	ImageURL    string
	Placement
}

// QuickItemLog logs Quantity units of a saved quick item.
type QuickItemLog struct {
	QuickItemID string
	Quantity    float64
	Placement
}

// Share is the user's part of a dish eaten by several people.
type Share struct {
	MyPortion     float64
	PeopleSharing float64
}

// AnalyzeInput is a photo or text to estimate and log.
type AnalyzeInput struct {
	Request  analysis.Request
	ImageURL string

	// Share, when set, scales the estimate down to the user's portion.
	Share *Share
	Placement
}

// LogManual records an entry with user-supplied values.
func (j *Journal) LogManual(ctx context.Context, userID string, in ManualEntry) (*models.MealLogEntry, error) {
	const op = "LogManual"

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, errs.Validation(op, "description is required")
	}
	if err := validateMacros(op, in.Macros); err != nil {
		return nil, err
	}

	entry := &models.MealLogEntry{
		UserID:      userID,
		MealType:    models.MealTypeManual,
		Description: description,
		ImageURL:    in.ImageURL,
		Quantity:    1,
		Macros:      in.Macros,
	}
	return j.insert(ctx, op, entry, in.Placement)
}

// LogQuickItem records Quantity units of a quick item, scaling its
// per-serving values.
func (j *Journal) LogQuickItem(ctx context.Context, userID string, in QuickItemLog) (*models.MealLogEntry, error) {
	const op = "LogQuickItem"

	if strings.TrimSpace(in.QuickItemID) == "" {
		return nil, errs.Validation(op, "quick item id is required")
	}
	if in.Quantity <= 0 {
		return nil, errs.Validation(op, "quantity must be positive, got %v", in.Quantity)
	}

	item, err := j.items.GetQuickItem(ctx, userID, in.QuickItemID)
	if err != nil {
		return nil, storage.Classify(op, err)
	}

	entry := &models.MealLogEntry{
		UserID:      userID,
		MealType:    models.MealTypeQuickItem,
		Description: item.Name,
		ImageURL:    item.ImageURL,
		QuickItemID: item.ID,
		Quantity:    in.Quantity,
		Macros:      calculator.ScaleMacros(item.Macros, in.Quantity, item.ServingSize),
	}
	return j.insert(ctx, op, entry, in.Placement)
}

// LogAnalyzed estimates a meal with the analyzer and records the result.
// Analyzer failures are returned unchanged.
func (j *Journal) LogAnalyzed(ctx context.Context, userID string, in AnalyzeInput) (*models.MealLogEntry, error) {
	const op = "LogAnalyzed"

	if j.analyzer == nil {
		return nil, errs.Validation(op, "meal analysis is not configured")
	}
	if in.Share != nil {
		if _, err := calculator.ShareMacros(models.Macros{}, in.Share.MyPortion, in.Share.PeopleSharing); err != nil {
			return nil, err
		}
	}

	estimate, err := j.analyzer.Analyze(ctx, in.Request)
	if err != nil {
		slog.Error("Meal analysis failed", "user_id", userID, "photo", in.Request.Photo(), "error", err)
		return nil, err
	}

	macros := estimate.Macros
	if in.Share != nil {
		macros, err = calculator.ShareMacros(macros, in.Share.MyPortion, in.Share.PeopleSharing)
		if err != nil {
			return nil, err
		}
	}

	mealType := models.MealTypeManual
	if in.Request.Photo() {
		mealType = models.MealTypePhoto
	}

	entry := &models.MealLogEntry{
		UserID:      userID,
		MealType:    mealType,
		Description: estimate.Description,
		ImageURL:    in.ImageURL,
		Quantity:    1,
		Macros:      macros,
	}
	return j.insert(ctx, op, entry, in.Placement)
}

// Correct applies a value correction to an entry. Changing the quantity of a
// quick-item entry rescales its macros from the template unless the patch
// sets them explicitly. A LoggedAt in the patch selects a day and is
// normalized like a new log; one on the entry's current day is ignored.
func (j *Journal) Correct(ctx context.Context, userID, entryID string, patch models.EntryPatch) (*models.MealLogEntry, error) {
	const op = "CorrectEntry"

	if patch.Empty() {
		return nil, errs.Validation(op, "nothing to correct")
	}
	if err := validatePatch(op, &patch); err != nil {
		return nil, err
	}

	before, err := j.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, storage.Classify(op, err)
	}

	if patch.LoggedAt != nil {
		if j.cal.SameDay(*patch.LoggedAt, before.LoggedAt) {
			patch.LoggedAt = nil
		} else {
			moved := j.cal.LoggedAt(*patch.LoggedAt, j.now())
			patch.LoggedAt = &moved
		}
	}

	if err := j.rescaleQuickItem(ctx, userID, before, &patch); err != nil {
		return nil, storage.Classify(op, err)
	}

	// Groups never span days, so a moved entry leaves its group first.
	if patch.LoggedAt != nil && before.Group != nil {
		if err := j.engine.RemoveFromGroup(ctx, userID, entryID); err != nil {
			return nil, err
		}
	}

	after, err := j.repo.UpdateEntry(ctx, userID, entryID, patch)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	j.invalidate(userID, before.LoggedAt, after.LoggedAt)

	slog.Info("Entry corrected", "user_id", userID, "entry_id", entryID)
	return after, nil
}

func (j *Journal) rescaleQuickItem(ctx context.Context, userID string, entry *models.MealLogEntry, patch *models.EntryPatch) error {
	if patch.Quantity == nil || entry.MealType != models.MealTypeQuickItem || entry.QuickItemID == "" {
		return nil
	}
	if patch.Calories != nil || patch.Protein != nil || patch.Carbs != nil || patch.Fat != nil {
		return nil
	}

	item, err := j.items.GetQuickItem(ctx, userID, entry.QuickItemID)
	if err != nil {
		return err
	}
	m := calculator.ScaleMacros(item.Macros, *patch.Quantity, item.ServingSize)
	patch.Calories, patch.Protein, patch.Carbs, patch.Fat = &m.Calories, &m.Protein, &m.Carbs, &m.Fat
	return nil
}

// insert resolves the logical time, persists the entry and attaches it to
// the requested group. If attaching fails the entry stays saved ungrouped and
// is returned together with the error.
func (j *Journal) insert(ctx context.Context, op string, entry *models.MealLogEntry, p Placement) (*models.MealLogEntry, error) {
	now := j.now()
	day := p.Day
	if day.IsZero() {
		day = now
	}
	entry.LoggedAt = j.cal.LoggedAt(day, now)

	if err := j.repo.InsertEntry(ctx, entry); err != nil {
		return nil, storage.Classify(op, err)
	}
	j.invalidate(entry.UserID, entry.LoggedAt)

	slog.Info("Entry logged",
		"user_id", entry.UserID,
		"entry_id", entry.ID,
		"meal_type", entry.MealType,
		"calories", entry.Macros.Calories,
		"date", j.cal.Key(entry.LoggedAt),
	)

	if strings.TrimSpace(p.GroupName) == "" {
		return entry, nil
	}
	if err := j.attach(ctx, entry, p.GroupName); err != nil {
		slog.Error("Failed to group logged entry", "user_id", entry.UserID, "entry_id", entry.ID, "group_name", p.GroupName, "error", err)
		return entry, err
	}

	grouped, err := j.repo.GetEntry(ctx, entry.UserID, entry.ID)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	return grouped, nil
}

// attach merges the entry into the day's group labelled name, or creates it.
func (j *Journal) attach(ctx context.Context, entry *models.MealLogEntry, name string) error {
	groupID, found, err := j.engine.FindOrCreateGroupByName(ctx, entry.UserID, name, entry.LoggedAt)
	if err != nil {
		return err
	}
	if found {
		_, err = j.engine.AddToGroup(ctx, entry.UserID, []string{entry.ID}, groupID)
		return err
	}
	_, err = j.engine.CreateGroup(ctx, entry.UserID, []string{entry.ID}, name)
	return err
}

func (j *Journal) invalidate(userID string, days ...time.Time) {
	if j.cache == nil {
		return
	}
	for _, d := range days {
		j.cache.Invalidate(userID, d)
	}
}

func validateMacros(op string, m models.Macros) error {
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return errs.Validation(op, "macros must not be negative")
	}
	return nil
}

func validatePatch(op string, p *models.EntryPatch) error {
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		if d == "" {
			return errs.Validation(op, "description must not be blank")
		}
		p.Description = &d
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return errs.Validation(op, "quantity must be positive, got %v", *p.Quantity)
	}
	if p.Calories != nil && *p.Calories < 0 {
		return errs.Validation(op, "calories must not be negative")
	}
	for _, v := range []*float64{p.Protein, p.Carbs, p.Fat} {
		if v != nil && *v < 0 {
			return errs.Validation(op, "macros must not be negative")
		}
	}
	return nil
}
