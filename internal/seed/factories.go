// Package seed provides helpers to create demo data for development and
// testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"memoir/internal/models"
	"memoir/internal/money"
	"memoir/internal/secrets"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var expenseCategories = []string{
	"food", "travel", "rent", "utilities", "entertainment",
	"health", "books", "clothing", "subscriptions",
}

var goalStatuses = []string{
	models.GoalStatusPlanned,
	models.GoalStatusInProgress,
	models.GoalStatusComplete,
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	cipher *secrets.Cipher
	rand   *rand.Rand
}

// NewFactory creates a Factory bound to the given database. The cipher is
// used to encrypt generated confidential values the same way the API does.
func NewFactory(db *gorm.DB, cipher *secrets.Cipher) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		cipher: cipher,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pastDate returns a UTC date up to maxDays in the past.
func (f *Factory) pastDate(maxDays int) time.Time {
	daysBack := f.rand.Intn(maxDays)
	return time.Now().UTC().AddDate(0, 0, -daysBack).Truncate(24 * time.Hour)
}

// CreateUser constructs and persists a sample user. The password for every
// seeded account is "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAchievement persists a generated achievement for the user.
func (f *Factory) CreateAchievement(user *models.User, overrides ...func(*models.Achievement)) (*models.Achievement, error) {
	achievedOn := f.pastDate(365)
	record := &models.Achievement{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		AchievedOn:  &achievedOn,
		UserID:      user.ID,
	}
	for _, override := range overrides {
		override(record)
	}

	if err := f.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateGoal persists a generated goal for the user.
func (f *Factory) CreateGoal(user *models.User, overrides ...func(*models.Goal)) (*models.Goal, error) {
	targetDate := time.Now().UTC().AddDate(0, 0, f.rand.Intn(180)+1).Truncate(24 * time.Hour)
	record := &models.Goal{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Status:      goalStatuses[f.rand.Intn(len(goalStatuses))],
		TargetDate:  &targetDate,
		UserID:      user.ID,
	}
	for _, override := range overrides {
		override(record)
	}

	if err := f.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateExpense persists a generated expense for the user.
func (f *Factory) CreateExpense(user *models.User, overrides ...func(*models.Expense)) (*models.Expense, error) {
	record := &models.Expense{
		Amount:   money.Cents(f.rand.Intn(20000) + 100),
		Date:     f.pastDate(90),
		Category: expenseCategories[f.rand.Intn(len(expenseCategories))],
		Notes:    gofakeit.Sentence(6),
		UserID:   user.ID,
	}
	for _, override := range overrides {
		override(record)
	}

	if err := f.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateNote persists a generated note for the user.
func (f *Factory) CreateNote(user *models.User, overrides ...func(*models.Note)) (*models.Note, error) {
	record := &models.Note{
		Title:   gofakeit.Sentence(3),
		Content: gofakeit.Paragraph(2, 3, 10, "\n"),
		UserID:  user.ID,
	}
	for _, override := range overrides {
		override(record)
	}

	if err := f.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateConfidentialDetail persists a generated confidential detail for the
// user, encrypting the value with the factory's cipher.
func (f *Factory) CreateConfidentialDetail(user *models.User, overrides ...func(*models.ConfidentialDetail)) (*models.ConfidentialDetail, error) {
	encrypted, err := f.cipher.Encrypt(gofakeit.Password(true, true, true, true, false, 16))
	if err != nil {
		return nil, err
	}

	record := &models.ConfidentialDetail{
		Title:          gofakeit.BuzzWord() + " password",
		EncryptedValue: encrypted,
		UserID:         user.ID,
	}
	for _, override := range overrides {
		override(record)
	}

	if err := f.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
