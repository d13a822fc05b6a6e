package main

import (
	"log"

	"game-night/internal/config"
	"game-night/internal/db"
	"game-night/internal/seed"
	"game-night/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	st := store.NewGorm(conn)
	if err := seed.Admin(st, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}
	if err := seed.DemoData(st); err != nil {
		log.Fatalf("demo seed failed: %v", err)
	}
	log.Println("seed complete")
}
