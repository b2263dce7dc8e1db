// Command kiosk-token mints an administrator session token from the
// configured KIOSK_JWT_* settings, for local testing of the admin routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/config"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

func main() {
	subject := flag.String("sub", "admin", "token subject (administrator identity)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to KIOSK_JWT_TTL")
	flag.Parse()

	log := logger.NewWithWriter(os.Stderr, 0)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("load config", "error", err)
	}

	lifetime := cfg.JWT.TTL
	if *ttl > 0 {
		lifetime = *ttl
	}
	if lifetime <= 0 {
		lifetime = 12 * time.Hour
	}

	token, err := auth.NewSigner(auth.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}).Issue(*subject, lifetime)
	if err != nil {
		log.Fatal("issue token", "error", err)
	}

	fmt.Fprintln(os.Stdout, token)
}
