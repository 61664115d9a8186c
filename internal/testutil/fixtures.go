package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"jodtang/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    &email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateLinkedTestUser creates a user already linked to a LINE identity.
func CreateLinkedTestUser(t *testing.T, db *gorm.DB, lineUserID string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	user.LineUserID = &lineUserID
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("failed to link test user: %v", err)
	}
	return user
}

// CreateTestGroup creates an active group with a unique LINE group ID.
func CreateTestGroup(t *testing.T, db *gorm.DB) *models.Group {
	t.Helper()

	group := &models.Group{
		LineGroupID: fmt.Sprintf("G%d", nextID()),
		Name:        fmt.Sprintf("Test Group %d", nextID()),
		IsActive:    true,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestCategory creates a category owned by the given user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.TransactionType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: &userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Emoji:  "🏷️",
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateDefaultCategory creates an unowned default category.
func CreateDefaultCategory(t *testing.T, db *gorm.DB, name string, categoryType models.TransactionType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      name,
		Emoji:     "📌",
		Type:      categoryType,
		IsDefault: true,
		SortOrder: int(nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create default category: %v", err)
	}
	return category
}

// CreateTestShortcut creates a shortcut for the user pointing at the category.
func CreateTestShortcut(t *testing.T, db *gorm.DB, userID uint, keyword string, category *models.Category) *models.Shortcut {
	t.Helper()

	shortcut := &models.Shortcut{
		UserID:     userID,
		Keyword:    keyword,
		CategoryID: category.ID,
		Type:       category.Type,
	}
	if err := db.Create(shortcut).Error; err != nil {
		t.Fatalf("failed to create test shortcut: %v", err)
	}
	return shortcut
}

// CreateTestTransaction creates a personal transaction dated today.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()
	return createTransaction(t, db, userID, nil, categoryID, txType, amount, time.Now())
}

// CreateTestGroupTransaction creates a group-scoped transaction dated today.
func CreateTestGroupTransaction(t *testing.T, db *gorm.DB, userID, groupID, categoryID uint, txType models.TransactionType, amount string) *models.Transaction {
	t.Helper()
	return createTransaction(t, db, userID, &groupID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a personal transaction on a specific date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID, categoryID uint, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()
	return createTransaction(t, db, userID, nil, categoryID, txType, amount, date)
}

func createTransaction(t *testing.T, db *gorm.DB, userID uint, groupID *uint, categoryID uint, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid test amount %q: %v", amount, err)
	}

	// Effective dates are stored at day granularity.
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	tx := &models.Transaction{
		UserID:          userID,
		GroupID:         groupID,
		CategoryID:      categoryID,
		Type:            txType,
		Amount:          amt,
		Source:          models.SourceLine,
		TransactionDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
