//go:build ignore

// prints a service_role token for calling the webhook and status endpoints locally.
// usage: go run scripts/gen_service_token.go [ttl]
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"codeberg.org/finboard/server/internal/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		log.Fatal("SUPABASE_JWT_SECRET not set")
	}

	ttl := time.Hour
	if len(os.Args) > 1 {
		parsed, err := time.ParseDuration(os.Args[1])
		if err != nil {
			log.Fatalf("invalid ttl: %v", err)
		}

		ttl = parsed
	}

	token, err := auth.GenerateServiceToken(secret, ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
