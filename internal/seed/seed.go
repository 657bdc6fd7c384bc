package seed

import (
	"fmt"
	"log"

	"memoir/internal/database"
	"memoir/internal/secrets"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers       int
	RecordsPerUser int
	ShouldClean    bool
}

// Seed populates the database with demo accounts and records.
func Seed(db *gorm.DB, cipher *secrets.Cipher, opts Options) error {
	log.Printf("Seeding %d users with ~%d records each...", opts.NumUsers, opts.RecordsPerUser)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	factory := NewFactory(db, cipher)

	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		for j := 0; j < opts.RecordsPerUser; j++ {
			if _, err := factory.CreateAchievement(user); err != nil {
				return fmt.Errorf("failed to create achievement: %w", err)
			}
			if _, err := factory.CreateGoal(user); err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}
			if _, err := factory.CreateExpense(user); err != nil {
				return fmt.Errorf("failed to create expense: %w", err)
			}
			if _, err := factory.CreateNote(user); err != nil {
				return fmt.Errorf("failed to create note: %w", err)
			}
			if _, err := factory.CreateConfidentialDetail(user); err != nil {
				return fmt.Errorf("failed to create confidential detail: %w", err)
			}
		}
	}

	log.Printf("Seeding complete: %d users, every account logs in with password123", opts.NumUsers)
	return nil
}

// clearData removes existing records, children before users so foreign keys
// never block the wipe.
func clearData(db *gorm.DB) error {
	entities := database.Models()
	for i := len(entities) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(entities[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
