package main

import (
	"context"
	"flag"
	"log"

	"github.com/baxromumarov/civic-reps/internal/store"
)

func main() {
	driver := flag.String("driver", store.DriverSQLite, "Database driver (sqlite or postgres)")
	dsn := flag.String("db", "data/civic.db", "Database DSN")
	flag.Parse()

	db, err := store.NewStore(*driver, *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations executed successfully")
}
