package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sports-auction/internal/auth"
	"sports-auction/internal/config"
	"sports-auction/internal/logger"

	"go.uber.org/zap"
)

// Mints a bearer token for an operator or a team owner, signed with JWT_SECRET.
//
//	go run ./cmd/token -role admin -user alice
//	go run ./cmd/token -role team -user bob -team <team uuid> -ttl 12h
func main() {
	role := flag.String("role", auth.RoleAdmin, "token role: admin or team")
	user := flag.String("user", "", "user id recorded in the audit log")
	team := flag.String("team", "", "team id, required for team tokens")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	log := logger.Default()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	auth.InitJWT(cfg.App.JWTSecret)

	token, err := auth.GenerateToken(*user, *role, *team, *ttl)
	if err != nil {
		log.Fatal("Failed to generate token", zap.Error(err))
	}
	fmt.Println(token)
}
