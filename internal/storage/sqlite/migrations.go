package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Times are stored as Unix milliseconds so same-day entries keep their order.
const schema = `
CREATE TABLE IF NOT EXISTS quick_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    unit TEXT NOT NULL,
    serving_size REAL NOT NULL CHECK (serving_size > 0),
    calories INTEGER NOT NULL CHECK (calories >= 0),
    protein REAL NOT NULL CHECK (protein >= 0),
    carbs REAL NOT NULL CHECK (carbs >= 0),
    fat REAL NOT NULL CHECK (fat >= 0),
    image_url TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meal_entries (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    meal_type TEXT NOT NULL,
    description TEXT NOT NULL,
    image_url TEXT,
    quick_item_id TEXT,
    quantity REAL NOT NULL DEFAULT 1 CHECK (quantity > 0),
    calories INTEGER NOT NULL CHECK (calories >= 0),
    protein REAL NOT NULL CHECK (protein >= 0),
    carbs REAL NOT NULL CHECK (carbs >= 0),
    fat REAL NOT NULL CHECK (fat >= 0),
    group_id TEXT,
    group_name TEXT,
    logged_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    CHECK ((group_id IS NULL) = (group_name IS NULL)),
    FOREIGN KEY (quick_item_id) REFERENCES quick_items(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    sex TEXT NOT NULL,
    age INTEGER NOT NULL,
    height_cm REAL NOT NULL,
    weight_kg REAL NOT NULL,
    activity_level TEXT NOT NULL,
    goal TEXT NOT NULL,
    target_calories INTEGER NOT NULL,
    target_protein REAL NOT NULL,
    target_carbs REAL NOT NULL,
    target_fat REAL NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meal_entries_user_logged ON meal_entries(user_id, logged_at);
CREATE INDEX IF NOT EXISTS idx_meal_entries_group_id ON meal_entries(user_id, group_id);
CREATE INDEX IF NOT EXISTS idx_quick_items_user_id ON quick_items(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
