// Command migrate applies or rolls back the embedded schema migrations.
//
// Usage: migrate [up|down]. Default is up.
package main

import (
	"log"
	"os"

	"squad-portal/backend/internal/config"
	"squad-portal/backend/internal/db/migrate"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
		log.Fatalf("migrate %s: %v", direction, err)
	}
	log.Printf("migrate %s: done", direction)
}
