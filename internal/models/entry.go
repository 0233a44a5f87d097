package models

import "time"

// MealType records how an entry was logged.
type MealType string

const (
	MealTypePhoto     MealType = "photo"
	MealTypeManual    MealType = "manual"
	MealTypeQuickItem MealType = "quick_item"
)

// Valid reports whether t is one of the known meal types.
func (t MealType) Valid() bool {
	switch t {
	case MealTypePhoto, MealTypeManual, MealTypeQuickItem:
		return true
	}
	return false
}

// GroupRef identifies the group an entry belongs to.
// Both fields are always set together.
type GroupRef struct {
	// ID is the shared group identifier (UUID format).
	ID string

	// Name is the display label shared by every member (e.g., "Lunch").
	Name string
}

// MealLogEntry represents one logged food item.
type MealLogEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// UserID is the owner. Entries are never shared across users.
	UserID string

	// MealType records how the entry was logged.
	MealType MealType

	// Description is the food name or free-text summary.
	Description string

	// ImageURL optionally references an uploaded photo.
	ImageURL string

	// QuickItemID optionally references the QuickItem template this entry was
	// logged from. The template is referenced, not owned.
	QuickItemID string

	// Quantity is the multiplier applied to a QuickItem's per-serving values.
	// Always 1 for non quick-item entries.
	Quantity float64

	// Macros holds the nutrition values of this entry.
	Macros Macros

	// Group is nil when the entry is ungrouped.
	Group *GroupRef

	// LoggedAt is the logical time of consumption, distinct from CreatedAt.
	LoggedAt time.Time

	// CreatedAt is the Unix timestamp when the row was created.
	CreatedAt int64
}

// Grouped reports whether the entry belongs to a group.
func (e *MealLogEntry) Grouped() bool {
	return e.Group != nil
}

// GroupID returns the entry's group id, or "" if ungrouped.
func (e *MealLogEntry) GroupID() string {
	if e.Group == nil {
		return ""
	}
	return e.Group.ID
}

// EntryPatch carries a partial value correction for an entry.
// Nil fields are left unchanged. Group membership is not patchable here;
// it only changes through the grouping operations.
type EntryPatch struct {
	Description *string
	Quantity    *float64
	Calories    *int
	Protein     *float64
	Carbs       *float64
	Fat         *float64
	LoggedAt    *time.Time
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Description == nil && p.Quantity == nil && p.Calories == nil &&
		p.Protein == nil && p.Carbs == nil && p.Fat == nil && p.LoggedAt == nil
}
