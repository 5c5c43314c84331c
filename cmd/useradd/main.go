// Command useradd creates a login for the store API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ariefcatur/go-store-api/internal/auth"
	"github.com/ariefcatur/go-store-api/internal/config"
	"github.com/ariefcatur/go-store-api/internal/logx"
	"github.com/ariefcatur/go-store-api/internal/postgres"
	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "plain-text password")
	role := flag.String("role", string(auth.RoleCustomer), "manager or customer")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logx.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := auth.NewService(&auth.Repo{DB: db}, auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry), log)
	u, err := svc.Register(ctx, *username, *password, auth.Role(*role))
	if err != nil {
		log.Error("create user", "username", *username, "error", err)
		os.Exit(1)
	}
	fmt.Printf("created user %q (id %d, role %s)\n", u.Username, u.ID, u.Role)
}
