// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/macrotrack/internal/models"
)

// ErrNotFound is returned (wrapped) when a row does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("not found")

// MealRepository defines CRUD over meal-log rows.
// Every method is scoped by user id: rows owned by another user behave as if
// they did not exist.
type MealRepository interface {
	// FetchEntries returns the user's entries with from <= LoggedAt < to.
	FetchEntries(ctx context.Context, userID string, from, to time.Time) ([]models.MealLogEntry, error)

	// GetEntry retrieves one entry. Returns ErrNotFound if missing.
	GetEntry(ctx context.Context, userID, entryID string) (*models.MealLogEntry, error)

	// GetEntries retrieves the listed entries. Missing ids are omitted.
	GetEntries(ctx context.Context, userID string, entryIDs []string) ([]models.MealLogEntry, error)

	// FetchGroupMembers returns every entry carrying groupID.
	FetchGroupMembers(ctx context.Context, userID, groupID string) ([]models.MealLogEntry, error)

	// InsertEntry persists a new entry.
	// The entry.ID and entry.CreatedAt fields will be populated by the store.
	InsertEntry(ctx context.Context, entry *models.MealLogEntry) error

	// UpdateEntry applies a value correction and returns the updated row.
	UpdateEntry(ctx context.Context, userID, entryID string, patch models.EntryPatch) (*models.MealLogEntry, error)

	// DeleteEntry removes one entry. Returns ErrNotFound if missing.
	DeleteEntry(ctx context.Context, userID, entryID string) error

	// BulkUpdateGroup assigns group to every listed entry. A nil group
	// ungroups them.
	BulkUpdateGroup(ctx context.Context, userID string, entryIDs []string, group *models.GroupRef) error

	// DeleteByGroupID removes every entry carrying groupID.
	DeleteByGroupID(ctx context.Context, userID, groupID string) error
}

// QuickItemStore defines persistence for quick-add templates.
type QuickItemStore interface {
	CreateQuickItem(ctx context.Context, item *models.QuickItem) error
	GetQuickItem(ctx context.Context, userID, itemID string) (*models.QuickItem, error)
	ListQuickItems(ctx context.Context, userID string) ([]models.QuickItem, error)
	UpdateQuickItem(ctx context.Context, item *models.QuickItem) error
	DeleteQuickItem(ctx context.Context, userID, itemID string) error
}

// ProfileStore defines persistence for profiles and their computed targets.
type ProfileStore interface {
	// SaveProfile upserts the profile together with the targets computed from it.
	SaveProfile(ctx context.Context, profile *models.Profile, targets models.NutritionTargets) error

	// GetProfile returns ErrNotFound when the user has no profile yet.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// GetTargets returns ErrNotFound when no targets have been computed.
	GetTargets(ctx context.Context, userID string) (*models.NutritionTargets, error)
}

// Store bundles every store the server needs.
// This abstraction allows swapping storage backends (SQLite, a hosted
// Postgres, etc.) without changing the service layer.
type Store interface {
	MealRepository
	QuickItemStore
	ProfileStore

	// Close releases any resources held by the store.
	Close() error
}
