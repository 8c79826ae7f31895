package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := OpenStore(ctx, cfg.Database.Dialect, cfg.Database.DSN)
	cancel()
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	// Seed the administrator account if one is configured
	if err := seedAdmin(store, cfg.Admin); err != nil {
		log.Fatalf("seeding admin user: %v", err)
	}

	tokens := NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	api := NewAPI(store, NewTaskService(store), tokens)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	Route(e, api, cfg.Auth.Secret)

	e.Logger.Fatal(e.Start(cfg.Addr))
}

// seedAdmin makes sure the configured administrator account exists. Nothing
// happens when no password is configured, and reruns leave an existing
// account untouched.
func seedAdmin(store *Store, admin AdminConfig) error {
	if admin.PassWord == "" {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.PassWord), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user := User{
		UserName:     admin.UserName,
		PasswordHash: string(hashedPassword),
		FirstName:    "Admin",
		IsAdmin:      true,
	}
	if _, err := store.InsertUser(ctx, user); err != nil && !errors.Is(err, ErrUsernameTaken) {
		return err
	}
	return nil
}
