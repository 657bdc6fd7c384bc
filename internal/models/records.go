package models

import (
	"time"

	"memoir/internal/money"
)

// Achievement is a dated accomplishment owned by a single user.
type Achievement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	AchievedOn  *time.Time `gorm:"type:date" json:"achieved_on,omitempty"`
	UserID      uint       `gorm:"index;not null" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

// Goal statuses. Any other value is rejected on create and update.
const (
	GoalStatusPlanned    = "planned"
	GoalStatusInProgress = "in progress"
	GoalStatusComplete   = "complete"
)

// ValidGoalStatus reports whether s is one of the three allowed goal statuses.
func ValidGoalStatus(s string) bool {
	switch s {
	case GoalStatusPlanned, GoalStatusInProgress, GoalStatusComplete:
		return true
	}
	return false
}

// Goal is a planned objective with an enumerated status.
type Goal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      string     `gorm:"size:20;not null;default:planned" json:"status"`
	TargetDate  *time.Time `gorm:"type:date" json:"target_date,omitempty"`
	UserID      uint       `gorm:"index;not null" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

// Expense is a dated spend. The amount is exact base-10 cents and never
// passes through a binary float.
type Expense struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Amount    money.Cents `gorm:"not null" json:"amount"`
	Date      time.Time   `gorm:"type:date;not null" json:"date"`
	Category  string      `gorm:"size:100;not null" json:"category"`
	Notes     string      `gorm:"type:text" json:"notes"`
	UserID    uint        `gorm:"index;not null" json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"-"`
}

// Note is a free-form text record.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// ConfidentialDetail stores a titled secret. EncryptedValue only ever holds
// ciphertext tokens; plaintext exists in memory on the request path only.
type ConfidentialDetail struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	EncryptedValue string    `gorm:"type:text;not null" json:"-"`
	UserID         uint      `gorm:"index;not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}
