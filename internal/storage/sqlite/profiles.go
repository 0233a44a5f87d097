package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/macrotrack/internal/models"
)

// SaveProfile upserts the profile and its computed targets.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *models.Profile, targets models.NutritionTargets) error {
	profile.UpdatedAt = time.Now().Unix()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, display_name, sex, age, height_cm, weight_kg, activity_level, goal,
		     target_calories, target_protein, target_carbs, target_fat, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		     display_name = excluded.display_name,
		     sex = excluded.sex,
		     age = excluded.age,
		     height_cm = excluded.height_cm,
		     weight_kg = excluded.weight_kg,
		     activity_level = excluded.activity_level,
		     goal = excluded.goal,
		     target_calories = excluded.target_calories,
		     target_protein = excluded.target_protein,
		     target_carbs = excluded.target_carbs,
		     target_fat = excluded.target_fat,
		     updated_at = excluded.updated_at`,
		profile.UserID, profile.DisplayName, string(profile.Sex), profile.Age,
		profile.HeightCM, profile.WeightKG, profile.ActivityLevel, string(profile.Goal),
		targets.Calories, targets.Protein, targets.Carbs, targets.Fat, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a user's profile.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p         models.Profile
		sex, goal string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, display_name, sex, age, height_cm, weight_kg, activity_level, goal, updated_at
		 FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&p.UserID, &p.DisplayName, &sex, &p.Age, &p.HeightCM, &p.WeightKG, &p.ActivityLevel, &goal, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("profile", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Sex = models.Sex(sex)
	p.Goal = models.Goal(goal)
	return &p, nil
}

// GetTargets retrieves the targets computed at the last profile save.
func (s *SQLiteStore) GetTargets(ctx context.Context, userID string) (*models.NutritionTargets, error) {
	var t models.NutritionTargets
	err := s.db.QueryRowContext(ctx,
		`SELECT target_calories, target_protein, target_carbs, target_fat FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&t.Calories, &t.Protein, &t.Carbs, &t.Fat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("targets", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get targets: %w", err)
	}
	return &t, nil
}
