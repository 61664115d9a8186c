package database

import (
	"fmt"

	"jodtang/internal/logger"
	"jodtang/internal/models"

	"gorm.io/gorm"
)

type seedCategory struct {
	name  string
	emoji string
}

var defaultIncomeCategories = []seedCategory{
	{"เงินเดือน", "💰"},
	{"โบนัส", "🎁"},
	{"ลงทุน", "📈"},
	{"ขายของ", "🏪"},
	{"รายรับอื่นๆ", "✨"},
}

var defaultExpenseCategories = []seedCategory{
	{"อาหาร", "🍔"},
	{"เดินทาง", "🚗"},
	{"ช้อปปิ้ง", "🛒"},
	{"บันเทิง", "🎬"},
	{"สุขภาพ", "💊"},
	{"ค่าบ้าน", "🏠"},
	{"ค่าน้ำ/ค่าไฟ", "💡"},
	{"โทรศัพท์/อินเทอร์เน็ต", "📱"},
	{"การศึกษา", "📚"},
	{"รายจ่ายอื่นๆ", "💸"},
}

// SeedDefaultCategories inserts the ownerless default categories if none
// exist yet. Safe to call on every startup.
func SeedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("is_default = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count default categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i, c := range defaultIncomeCategories {
			cat := models.Category{
				Name:      c.name,
				Emoji:     c.emoji,
				Type:      models.TransactionTypeIncome,
				IsDefault: true,
				SortOrder: i + 1,
			}
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("failed to seed income category %q: %w", c.name, err)
			}
		}
		for i, c := range defaultExpenseCategories {
			cat := models.Category{
				Name:      c.name,
				Emoji:     c.emoji,
				Type:      models.TransactionTypeExpense,
				IsDefault: true,
				SortOrder: i + 1,
			}
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("failed to seed expense category %q: %w", c.name, err)
			}
		}
		logger.Get().Infow("seeded default categories",
			"income", len(defaultIncomeCategories),
			"expense", len(defaultExpenseCategories),
		)
		return nil
	})
}
