package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
)

const entryColumns = `id, user_id, meal_type, description, image_url, quick_item_id, quantity,
	calories, protein, carbs, fat, group_id, group_name, logged_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.MealLogEntry, error) {
	var (
		e                   models.MealLogEntry
		mealType            string
		imageURL, quickItem sql.NullString
		groupID, groupName  sql.NullString
		loggedAt            int64
	)
	err := row.Scan(&e.ID, &e.UserID, &mealType, &e.Description, &imageURL, &quickItem, &e.Quantity,
		&e.Macros.Calories, &e.Macros.Protein, &e.Macros.Carbs, &e.Macros.Fat,
		&groupID, &groupName, &loggedAt, &e.CreatedAt)
	if err != nil {
		return e, err
	}

	e.MealType = models.MealType(mealType)
	e.ImageURL = imageURL.String
	e.QuickItemID = quickItem.String
	e.LoggedAt = time.UnixMilli(loggedAt)
	if groupID.Valid {
		e.Group = &models.GroupRef{ID: groupID.String, Name: groupName.String}
	}
	return e, nil
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]models.MealLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.MealLogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// FetchEntries retrieves the user's entries logged in [from, to).
func (s *SQLiteStore) FetchEntries(ctx context.Context, userID string, from, to time.Time) ([]models.MealLogEntry, error) {
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM meal_entries
		 WHERE user_id = ? AND logged_at >= ? AND logged_at < ?
		 ORDER BY logged_at, id`,
		userID, from.UnixMilli(), to.UnixMilli(),
	)
}

// GetEntry retrieves a single entry by ID.
func (s *SQLiteStore) GetEntry(ctx context.Context, userID, entryID string) (*models.MealLogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM meal_entries WHERE user_id = ? AND id = ?`,
		userID, entryID,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("entry", entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &e, nil
}

// GetEntries retrieves the listed entries. IDs that don't exist are omitted.
func (s *SQLiteStore) GetEntries(ctx context.Context, userID string, entryIDs []string) ([]models.MealLogEntry, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	in, args := placeholders(entryIDs, userID)
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM meal_entries
		 WHERE user_id = ? AND id IN (`+in+`)
		 ORDER BY logged_at, id`,
		args...,
	)
}

// FetchGroupMembers retrieves every entry in a group.
func (s *SQLiteStore) FetchGroupMembers(ctx context.Context, userID, groupID string) ([]models.MealLogEntry, error) {
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM meal_entries
		 WHERE user_id = ? AND group_id = ?
		 ORDER BY logged_at, id`,
		userID, groupID,
	)
}

// InsertEntry persists a new entry to the database.
func (s *SQLiteStore) InsertEntry(ctx context.Context, entry *models.MealLogEntry) error {
	// Generate IDs if not set
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	if entry.Quantity == 0 {
		entry.Quantity = 1
	}

	var groupID, groupName any
	if entry.Group != nil {
		groupID, groupName = entry.Group.ID, entry.Group.Name
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, string(entry.MealType), entry.Description,
		nullString(entry.ImageURL), nullString(entry.QuickItemID), entry.Quantity,
		entry.Macros.Calories, entry.Macros.Protein, entry.Macros.Carbs, entry.Macros.Fat,
		groupID, groupName, entry.LoggedAt.UnixMilli(), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	return nil
}

// UpdateEntry applies the non-nil fields of patch and returns the updated row.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, userID, entryID string, patch models.EntryPatch) (*models.MealLogEntry, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Calories != nil {
		add("calories", *patch.Calories)
	}
	if patch.Protein != nil {
		add("protein", *patch.Protein)
	}
	if patch.Carbs != nil {
		add("carbs", *patch.Carbs)
	}
	if patch.Fat != nil {
		add("fat", *patch.Fat)
	}
	if patch.LoggedAt != nil {
		add("logged_at", patch.LoggedAt.UnixMilli())
	}

	if len(sets) > 0 {
		query := "UPDATE meal_entries SET " + strings.Join(sets, ", ") + " WHERE user_id = ? AND id = ?"
		args = append(args, userID, entryID)

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update entry: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return nil, notFound("entry", entryID)
		}
	}

	return s.GetEntry(ctx, userID, entryID)
}

// DeleteEntry removes an entry by ID.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, userID, entryID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM meal_entries WHERE user_id = ? AND id = ?",
		userID, entryID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return notFound("entry", entryID)
	}
	return nil
}

// BulkUpdateGroup sets (or clears, for a nil group) the group on every listed
// entry in one transaction.
func (s *SQLiteStore) BulkUpdateGroup(ctx context.Context, userID string, entryIDs []string, group *models.GroupRef) error {
	if len(entryIDs) == 0 {
		return nil
	}

	var groupID, groupName any
	if group != nil {
		groupID, groupName = group.ID, group.Name
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	in, args := placeholders(entryIDs, groupID, groupName, userID)
	result, err := tx.ExecContext(ctx,
		`UPDATE meal_entries SET group_id = ?, group_name = ?
		 WHERE user_id = ? AND id IN (`+in+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if int(n) != len(entryIDs) {
		return fmt.Errorf("updated %d of %d entries: %w", n, len(entryIDs), storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteByGroupID removes every entry in a group.
func (s *SQLiteStore) DeleteByGroupID(ctx context.Context, userID, groupID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM meal_entries WHERE user_id = ? AND group_id = ?",
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return notFound("group", groupID)
	}
	return nil
}
