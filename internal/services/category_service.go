package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a user-owned category. Owned categories share the
// namespace with defaults only for display; the uniqueness check is per owner.
func (s *categoryService) CreateCategory(userID uint, name, emoji string, categoryType models.TransactionType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.TransactionTypeIncome && categoryType != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		UserID: &userID,
		Name:   name,
		Emoji:  emoji,
		Type:   categoryType,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	return category, nil
}

// VisibleCategories returns the categories a user can record against:
// defaults first (in seed order), then the user's own. A nil userID
// returns only the defaults. An optional type narrows the result.
func (s *categoryService) VisibleCategories(userID *uint, categoryType *models.TransactionType) ([]models.Category, error) {
	query := s.db.Model(&models.Category{})
	if userID != nil {
		query = query.Where("is_default = ? OR user_id = ?", true, *userID)
	} else {
		query = query.Where("is_default = ?", true)
	}
	if categoryType != nil {
		query = query.Where("type = ?", *categoryType)
	}

	var categories []models.Category
	if err := query.Order("is_default DESC, sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category visible to the user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", categoryID, true, userID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &category, nil
}

// UpdateCategory renames or re-tags a user-owned category. Defaults are
// immutable.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, emoji string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategory
	}

	name = strings.TrimSpace(name)
	if name != "" {
		category.Name = name
	}
	if emoji != "" {
		category.Emoji = emoji
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return category, nil
}

// DeleteCategory removes a user-owned category together with any shortcuts
// pointing at it. Transactions keep their category_id; history is never
// rewritten by a category deletion.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Shortcut{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}
