package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"routeboard/adapters/postgres"
	"routeboard/internal/config"
	"routeboard/internal/session"
	"routeboard/ports"
	"routeboard/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rules, err := appConfig.LoadRules()
	if err != nil {
		log.Fatalf("Failed to load classification rules: %v", err)
	}

	store, cleanup, err := buildStore(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	defer cleanup()

	app := ui.NewApp(rules, store)
	if err := app.Start(ui.Config{Port: appConfig.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildStore wires the configured storage backend: a Postgres repository or
// a local JSON snapshot file.
func buildStore(appConfig *config.Config) (ports.RecordStore, func(), error) {
	switch appConfig.Storage.Backend {
	case "postgres":
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if _, err := db.Exec(postgres.Schema); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Printf("[Main] Using postgres record store")
		return postgres.NewDeliveryRepository(db), func() { db.Close() }, nil
	default:
		log.Printf("[Main] Using local snapshot store at %s", appConfig.Storage.SnapshotPath)
		return session.NewSnapshotStore(appConfig.Storage.SnapshotPath), func() {}, nil
	}
}
