package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/pawmart/pawmart/internal/auth"
)

type output struct {
	Email     string    `json:"email"`
	Issuer    string    `json:"issuer,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token"`
	Header    string    `json:"authorization"`
}

func main() {
	var (
		secret = flag.String("secret", os.Getenv("JWT_SECRET"), "HS256 signing secret (AUTH_PROVIDER=jwt)")
		issuer = flag.String("issuer", os.Getenv("JWT_ISSUER"), "Token issuer, must match JWT_ISSUER")
		email  = flag.String("email", "dev@pawmart.local", "Email claim of the token")
		ttl    = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		format = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		fmt.Fprintln(os.Stderr, "invalid email:", err)
		os.Exit(1)
	}
	if *ttl <= 0 {
		fmt.Fprintln(os.Stderr, "ttl must be positive")
		os.Exit(1)
	}

	token, err := auth.NewJWT(*secret, *issuer).Issue(*email, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}

	out := output{
		Email:     *email,
		Issuer:    *issuer,
		ExpiresAt: time.Now().Add(*ttl).UTC().Truncate(time.Second),
		Token:     token,
		Header:    "Bearer " + token,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
