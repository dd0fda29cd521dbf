// gentoken mints a collector bearer token for the write endpoints.
//
//	go run ./cmd/gentoken -secret "$JWT_SECRET" -collector ext-chrome-01 -hours 720
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xsha511/brightdata-scraper/internal/middleware"
)

func main() {
	secret := flag.String("secret", "", "JWT signing secret (required)")
	collector := flag.String("collector", "extension", "collector identifier embedded in the token")
	hours := flag.Int("hours", 720, "token lifetime in hours")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "gentoken: -secret is required")
		os.Exit(1)
	}

	now := time.Now()
	claims := middleware.CollectorClaims{
		CollectorID: *collector,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(*hours) * time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gentoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
