package main

import (
	"flag"
	"fmt"
	"log"

	"mbills-payments/internal/config"
	"mbills-payments/internal/infra/api"
)

// tokengen prints a bearer token for the /api/v1 routes, signed with http.jwt_secret.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	subject := flag.String("sub", "backoffice", "token subject (calling system)")
	ttl := flag.Duration("ttl", 0, "token lifetime (default 24h)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	tok, err := api.NewAuthManager(cfg.HTTP.JWTSecret, *ttl).Mint(*subject)
	if err != nil {
		log.Fatalf("mint: %v", err)
	}
	fmt.Println(tok)
}
