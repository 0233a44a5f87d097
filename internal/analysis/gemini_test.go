package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
)

func geminiServer(t *testing.T, answer string, check func(r *http.Request, body geminiRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var body geminiRequest
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if check != nil {
			check(r, body)
		}

		resp := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": answer}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzePhoto(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff}
	answer := "```json\n{\"description\": \"Chicken rice bowl\", \"calories\": 612.5, \"protein\": 41.26, \"carbs\": 70, \"fat\": 14.04}\n```"

	srv := geminiServer(t, answer, func(r *http.Request, body geminiRequest) {
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "secret" {
			t.Errorf("api key header = %q", got)
		}
		parts := body.Contents[0].Parts
		if len(parts) != 2 || parts[1].InlineData == nil {
			t.Errorf("expected prompt and inline image, got %+v", parts)
			return
		}
		if parts[1].InlineData.Data != base64.StdEncoding.EncodeToString(image) {
			t.Error("image not base64 encoded")
		}
		if !strings.Contains(parts[0].Text, "Do not count: the fries") {
			t.Errorf("exclusions missing from prompt: %q", parts[0].Text)
		}
	})

	a := NewGeminiAnalyzer(GeminiConfig{APIKey: "secret", Model: "test-model", BaseURL: srv.URL})
	got, err := a.Analyze(context.Background(), Request{
		Image:      image,
		MimeType:   "image/jpeg",
		Exclusions: []string{"the fries"},
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	want := Estimate{
		Description: "Chicken rice bowl",
		Macros:      models.Macros{Calories: 613, Protein: 41.3, Carbs: 70, Fat: 14},
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestAnalyzeText(t *testing.T) {
	srv := geminiServer(t, `Sure! {"description":"","calories":95,"protein":0.5,"carbs":25,"fat":0.3}`, func(r *http.Request, body geminiRequest) {
		parts := body.Contents[0].Parts
		if len(parts) != 1 {
			t.Errorf("text request should not carry inline data")
		}
		if !strings.Contains(parts[0].Text, "one apple") {
			t.Errorf("description missing from prompt: %q", parts[0].Text)
		}
	})

	a := NewGeminiAnalyzer(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := a.Analyze(context.Background(), Request{Text: "one apple"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if got.Description != "Meal" {
		t.Errorf("blank description should fall back, got %q", got.Description)
	}
	if got.Macros.Calories != 95 {
		t.Errorf("calories = %d, want 95", got.Macros.Calories)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		a := NewGeminiAnalyzer(GeminiConfig{BaseURL: "http://127.0.0.1:0"})
		_, err := a.Analyze(context.Background(), Request{Text: "  "})
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		a := NewGeminiAnalyzer(GeminiConfig{BaseURL: srv.URL})
		_, err := a.Analyze(context.Background(), Request{Text: "toast"})
		if err == nil || !strings.Contains(err.Error(), "429") {
			t.Errorf("expected status in error, got %v", err)
		}
	})

	t.Run("no json in answer", func(t *testing.T) {
		srv := geminiServer(t, "I can't tell what this is.", nil)
		a := NewGeminiAnalyzer(GeminiConfig{BaseURL: srv.URL})
		_, err := a.Analyze(context.Background(), Request{Text: "mystery"})
		if !errors.Is(err, ErrNoEstimate) {
			t.Errorf("expected ErrNoEstimate, got %v", err)
		}
	})

	t.Run("negative values", func(t *testing.T) {
		srv := geminiServer(t, `{"description":"x","calories":-5,"protein":1,"carbs":1,"fat":1}`, nil)
		a := NewGeminiAnalyzer(GeminiConfig{BaseURL: srv.URL})
		if _, err := a.Analyze(context.Background(), Request{Text: "x"}); err == nil {
			t.Error("expected error")
		}
	})
}
