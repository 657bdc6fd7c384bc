// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account that owns records. Deleting a user cascades to
// every dependent record set at the storage level.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Achievements        []Achievement        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Goals               []Goal               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Expenses            []Expense            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notes               []Note               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ConfidentialDetails []ConfidentialDetail `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
