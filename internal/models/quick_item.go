package models

// QuickItem is a reusable nutrition template for fast logging.
// Values are per ServingSize units of Unit.
type QuickItem struct {
	// ID is the unique identifier for the quick item (UUID format).
	ID string

	// UserID is the owner.
	UserID string

	// Name is the display name (e.g., "Protein shake").
	Name string

	// Unit is the serving unit label (e.g., "g", "scoop", "slice").
	Unit string

	// ServingSize is how many units the nutrition values describe.
	// Defaults to 1 when unset; never 0.
	ServingSize float64

	// Macros holds the per-serving nutrition values.
	Macros Macros

	// ImageURL optionally references a photo of the item.
	ImageURL string

	// CreatedAt is the Unix timestamp when the quick item was created.
	CreatedAt int64
}
