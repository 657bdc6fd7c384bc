// Command main runs the database seeder for Memoir.
package main

import (
	"flag"
	"log"

	"memoir/internal/config"
	"memoir/internal/database"
	"memoir/internal/secrets"
	"memoir/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	recordsPerUser := flag.Int("records", 5, "Number of records of each type per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Seeded confidential values must be encrypted with the same key the
	// server will read them with.
	cipher, err := secrets.NewCipher(cfg.EncryptionKey, cfg.AppSecret)
	if err != nil {
		log.Fatalf("Failed to initialize cipher: %v", err)
	}

	if err := seed.Seed(db, cipher, seed.Options{
		NumUsers:       *numUsers,
		RecordsPerUser: *recordsPerUser,
		ShouldClean:    *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
