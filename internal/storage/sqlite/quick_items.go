package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/macrotrack/internal/models"
)

const quickItemColumns = `id, user_id, name, unit, serving_size, calories, protein, carbs, fat, image_url, created_at`

func scanQuickItem(row rowScanner) (models.QuickItem, error) {
	var (
		item     models.QuickItem
		imageURL sql.NullString
	)
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Unit, &item.ServingSize,
		&item.Macros.Calories, &item.Macros.Protein, &item.Macros.Carbs, &item.Macros.Fat,
		&imageURL, &item.CreatedAt)
	item.ImageURL = imageURL.String
	return item, err
}

// CreateQuickItem persists a new quick item.
func (s *SQLiteStore) CreateQuickItem(ctx context.Context, item *models.QuickItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}
	if item.ServingSize <= 0 {
		item.ServingSize = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quick_items (`+quickItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Name, item.Unit, item.ServingSize,
		item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fat,
		nullString(item.ImageURL), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quick item: %w", err)
	}
	return nil
}

// GetQuickItem retrieves a quick item by ID.
func (s *SQLiteStore) GetQuickItem(ctx context.Context, userID, itemID string) (*models.QuickItem, error) {
	item, err := scanQuickItem(s.db.QueryRowContext(ctx,
		`SELECT `+quickItemColumns+` FROM quick_items WHERE user_id = ? AND id = ?`,
		userID, itemID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("quick item", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quick item: %w", err)
	}
	return &item, nil
}

// ListQuickItems retrieves the user's quick items ordered by name.
func (s *SQLiteStore) ListQuickItems(ctx context.Context, userID string) ([]models.QuickItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+quickItemColumns+` FROM quick_items WHERE user_id = ? ORDER BY name COLLATE NOCASE, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quick items: %w", err)
	}
	defer rows.Close()

	var items []models.QuickItem
	for rows.Next() {
		item, err := scanQuickItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quick item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quick items: %w", err)
	}
	return items, nil
}

// UpdateQuickItem overwrites an existing quick item.
func (s *SQLiteStore) UpdateQuickItem(ctx context.Context, item *models.QuickItem) error {
	if item.ServingSize <= 0 {
		item.ServingSize = 1
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE quick_items
		 SET name = ?, unit = ?, serving_size = ?, calories = ?, protein = ?, carbs = ?, fat = ?, image_url = ?
		 WHERE user_id = ? AND id = ?`,
		item.Name, item.Unit, item.ServingSize,
		item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fat,
		nullString(item.ImageURL), item.UserID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quick item: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return notFound("quick item", item.ID)
	}
	return nil
}

// DeleteQuickItem removes a quick item. Entries logged from it keep their
// values; their reference is cleared by the foreign key.
func (s *SQLiteStore) DeleteQuickItem(ctx context.Context, userID, itemID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM quick_items WHERE user_id = ? AND id = ?",
		userID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete quick item: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return notFound("quick item", itemID)
	}
	return nil
}
