package main

import (
	"log"
	"time"

	"game-night/internal/config"
	"game-night/internal/db"
	"game-night/internal/seed"
	"game-night/internal/server"
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
	sqlDB, err := conn.DB()
	if err != nil {
		log.Fatalf("database handle unavailable: %v", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	st := store.NewGorm(conn)
	if err := seed.Admin(st, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}
	if cfg.SeedDemoData {
		if err := seed.DemoData(st); err != nil {
			log.Fatalf("demo seed failed: %v", err)
		}
	}

	srv := server.New(st, cfg)
	log.Printf("game-night server listening on %s", cfg.Addr)
	if err := srv.Router().Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
