// Command devtoken prints a bearer token for local testing, signed with
// JWT_SECRET.
//
//	go run ./cmd/devtoken -user alice -ttl 24h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mmynk/macrotrack/internal/auth"
	"github.com/mmynk/macrotrack/internal/config"
)

func main() {
	userID := flag.String("user", "dev-user", "user id to put in the token subject")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, 0).Generate(*userID, *email, *ttl)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
