//go:build ignore

// posts a sample confirmation event to a running server, signed when WEBHOOK_SECRET is set.
// usage: go run scripts/send_webhook.go <user id> <email> [url]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"codeberg.org/finboard/server/internal/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: go run scripts/send_webhook.go <user id> <email> [url]")
		os.Exit(1)
	}

	target := "http://localhost:8080/functions/v1/user-onboarding"
	if len(os.Args) > 3 {
		target = os.Args[3]
	}

	body, err := json.Marshal(map[string]any{
		"table":  "users",
		"type":   "UPDATE",
		"schema": "auth",
		"record": map[string]any{
			"id":                 os.Args[1],
			"email":              os.Args[2],
			"email_confirmed_at": time.Now().UTC().Format(time.RFC3339),
			"raw_user_meta_data": map[string]any{},
		},
	})
	if err != nil {
		log.Fatalf("failed to encode event: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		req.Header.Set(auth.HeaderSignature, auth.Sign(body, secret))
	}

	if jwtSecret := os.Getenv("SUPABASE_JWT_SECRET"); jwtSecret != "" {
		token, err := auth.GenerateServiceToken(jwtSecret, time.Minute)
		if err != nil {
			log.Fatalf("failed to sign token: %v", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("%d %s\n", resp.StatusCode, out)
}
