// Package analysis estimates the nutrition of a meal from a photo or a
// free-text description.
package analysis

import (
	"context"
	"errors"

	"github.com/mmynk/macrotrack/internal/models"
)

// ErrNoEstimate is returned when the model answered without a usable estimate.
var ErrNoEstimate = errors.New("no nutrition estimate in response")

// Request describes the meal to analyze. Exactly one of Image or Text is set.
type Request struct {
	Image    []byte
	MimeType string
	Text     string

	// Hints are extra details from the user (e.g., "cooked in olive oil").
	Hints []string

	// Exclusions are items in the photo the user did not eat.
	Exclusions []string
}

// Photo reports whether the request carries an image.
func (r Request) Photo() bool {
	return len(r.Image) > 0
}

// Estimate is the analyzer's answer for the whole meal.
type Estimate struct {
	Description string
	Macros      models.Macros
}

// Analyzer turns a Request into an Estimate.
// Implementations do not retry; failures are returned to the caller as is.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Estimate, error)
}
