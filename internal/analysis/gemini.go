package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmynk/macrotrack/internal/calculator"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
)

// GeminiConfig configures a GeminiAnalyzer.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiAnalyzer calls the Gemini generateContent endpoint.
type GeminiAnalyzer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiAnalyzer creates an analyzer. Empty Model and BaseURL fall back to
// the defaults.
func NewGeminiAnalyzer(cfg GeminiConfig) *GeminiAnalyzer {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GeminiAnalyzer{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// estimateJSON is the object the prompt asks the model to answer with.
type estimateJSON struct {
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// Analyze sends the request to Gemini and parses the estimate out of the
// first candidate.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, req Request) (*Estimate, error) {
	const op = "Analyze"

	if !req.Photo() && strings.TrimSpace(req.Text) == "" {
		return nil, errs.Validation(op, "an image or a description is required")
	}
	if req.Photo() && req.MimeType == "" {
		return nil, errs.Validation(op, "image mime type is required")
	}

	parts := []geminiPart{{Text: buildPrompt(req)}}
	if req.Photo() {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: req.MimeType,
			Data:     base64.StdEncoding.EncodeToString(req.Image),
		}})
	}

	text, err := g.generate(ctx, geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json", Temperature: 0.2},
	})
	if err != nil {
		return nil, err
	}

	estimate, err := parseEstimate(text)
	if err != nil {
		slog.Warn("Unparseable analysis response", "model", g.model, "error", err)
		return nil, err
	}
	return estimate, nil
}

func (g *GeminiAnalyzer) generate(ctx context.Context, body geminiRequest) (string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call analysis model: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analysis request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoEstimate
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	if req.Photo() {
		b.WriteString("Estimate the nutrition of the meal in this photo.\n")
	} else {
		fmt.Fprintf(&b, "Estimate the nutrition of this meal: %s\n", strings.TrimSpace(req.Text))
	}
	if len(req.Hints) > 0 {
		fmt.Fprintf(&b, "Additional details: %s\n", strings.Join(req.Hints, "; "))
	}
	if len(req.Exclusions) > 0 {
		fmt.Fprintf(&b, "Do not count: %s\n", strings.Join(req.Exclusions, "; "))
	}
	b.WriteString(`Answer with a single JSON object and nothing else:
{"description": string, "calories": number, "protein": number, "carbs": number, "fat": number}
protein, carbs and fat are grams for the whole meal.`)
	return b.String()
}

// parseEstimate extracts the JSON object from a model answer, tolerating
// markdown code fences and surrounding prose.
func parseEstimate(text string) (*Estimate, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrNoEstimate
	}

	var raw estimateJSON
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse estimate: %w", err)
	}
	if raw.Calories < 0 || raw.Protein < 0 || raw.Carbs < 0 || raw.Fat < 0 {
		return nil, fmt.Errorf("estimate has negative values: %+v", raw)
	}

	description := strings.TrimSpace(raw.Description)
	if description == "" {
		description = "Meal"
	}
	return &Estimate{
		Description: description,
		Macros: models.Macros{
			Calories: calculator.RoundCalories(raw.Calories),
			Protein:  calculator.RoundGrams(raw.Protein),
			Carbs:    calculator.RoundGrams(raw.Carbs),
			Fat:      calculator.RoundGrams(raw.Fat),
		},
	}, nil
}
