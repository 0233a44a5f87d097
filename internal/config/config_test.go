package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "GEMINI_API_KEY", "GEMINI_MODEL",
		"ANALYSIS_TIMEOUT", "TIMEZONE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8080 || cfg.Addr() != ":8080" {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "./data/macrotrack.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.AnalysisTimeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.AnalysisTimeout)
	}
	if cfg.Location != time.UTC {
		t.Errorf("location = %v, want UTC", cfg.Location)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("logging = %v/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=7070\nJWT_SECRET=from-file\nTIMEZONE=Europe/Berlin\nLOG_LEVEL=debug\nLOG_FORMAT=json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("TIMEZONE")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("environment should win over file, got port %d", cfg.Port)
	}
	if cfg.JWTSecret != "from-file" {
		t.Errorf("secret = %q", cfg.JWTSecret)
	}
	if cfg.Location.String() != "Europe/Berlin" {
		t.Errorf("location = %v", cfg.Location)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("logging = %v/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad port", map[string]string{"JWT_SECRET": "x", "PORT": "http"}},
		{"bad timeout", map[string]string{"JWT_SECRET": "x", "ANALYSIS_TIMEOUT": "soon"}},
		{"bad timezone", map[string]string{"JWT_SECRET": "x", "TIMEZONE": "Mars/Olympus"}},
		{"bad level", map[string]string{"JWT_SECRET": "x", "LOG_LEVEL": "loud"}},
		{"bad format", map[string]string{"JWT_SECRET": "x", "LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Error("expected error")
			}
		})
	}
}
