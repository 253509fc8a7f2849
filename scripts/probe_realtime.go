//go:build ignore

// checks that the realtime endpoint accepts a websocket handshake.
// usage: go run scripts/probe_realtime.go [url]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"codeberg.org/finboard/server/internal/realtime"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	target := os.Getenv("REALTIME_URL")
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	if target == "" {
		log.Fatal("REALTIME_URL not set")
	}

	if key := os.Getenv("REALTIME_API_KEY"); key != "" {
		target += "?apikey=" + key + "&vsn=1.0.0"
	}

	dialer := realtime.NewDialer(os.Getenv("FORCE_SECURE_WEBSOCKET") == "true")

	if dialer.Probe(context.Background(), target) {
		fmt.Println("realtime reachable")
		return
	}

	fmt.Println("realtime unreachable")
	os.Exit(1)
}
