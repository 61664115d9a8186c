package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/models"
)

// shortcutService handles shortcut-related business logic.
type shortcutService struct {
	db *gorm.DB
}

// NewShortcutService creates a new ShortcutServicer.
func NewShortcutService(db *gorm.DB) ShortcutServicer {
	return &shortcutService{db: db}
}

// CreateShortcut creates a keyword shortcut to an existing category. The
// shortcut's transaction type mirrors the category's type so a recorded
// entry never disagrees with its label.
func (s *shortcutService) CreateShortcut(userID uint, keyword, emoji string, categoryID uint) (*models.Shortcut, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "shortcut keyword is required")
	}

	var category models.Category
	err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", categoryID, true, userID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var count int64
	if err := s.db.Model(&models.Shortcut{}).
		Where("user_id = ? AND keyword = ?", userID, keyword).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateShortcut
	}

	shortcut := &models.Shortcut{
		UserID:     userID,
		Keyword:    keyword,
		Emoji:      emoji,
		CategoryID: category.ID,
		Type:       category.Type,
	}

	if err := s.db.Create(shortcut).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	shortcut.Category = category
	return shortcut, nil
}

// GetUserShortcuts retrieves all shortcuts for a user, newest first.
func (s *shortcutService) GetUserShortcuts(userID uint) ([]models.Shortcut, error) {
	var shortcuts []models.Shortcut
	err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&shortcuts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return shortcuts, nil
}

// GetShortcutByID retrieves a single shortcut owned by the user.
func (s *shortcutService) GetShortcutByID(userID, shortcutID uint) (*models.Shortcut, error) {
	var shortcut models.Shortcut
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", shortcutID, userID).
		First(&shortcut).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShortcutNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &shortcut, nil
}

// UpdateShortcut changes a shortcut's keyword, emoji, or target category.
// Re-pointing at a different category re-derives the shortcut type.
func (s *shortcutService) UpdateShortcut(userID, shortcutID uint, keyword, emoji string, categoryID uint) (*models.Shortcut, error) {
	shortcut, err := s.GetShortcutByID(userID, shortcutID)
	if err != nil {
		return nil, err
	}

	keyword = strings.TrimSpace(keyword)
	if keyword != "" && keyword != shortcut.Keyword {
		var count int64
		if err := s.db.Model(&models.Shortcut{}).
			Where("user_id = ? AND keyword = ? AND id <> ?", userID, keyword, shortcut.ID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateShortcut
		}
		shortcut.Keyword = keyword
	}
	if emoji != "" {
		shortcut.Emoji = emoji
	}

	if categoryID != 0 && categoryID != shortcut.CategoryID {
		var category models.Category
		err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", categoryID, true, userID).
			First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		shortcut.CategoryID = category.ID
		shortcut.Type = category.Type
		shortcut.Category = category
	}

	if err := s.db.Save(shortcut).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return shortcut, nil
}

// DeleteShortcut removes a shortcut owned by the user.
func (s *shortcutService) DeleteShortcut(userID, shortcutID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", shortcutID, userID).Delete(&models.Shortcut{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrShortcutNotFound
	}
	return nil
}

// ShortcutsForUser returns the user's shortcuts for keyword resolution,
// newest first so resolver tie-breaks favor the latest definition.
func (s *shortcutService) ShortcutsForUser(userID uint) ([]models.Shortcut, error) {
	return s.GetUserShortcuts(userID)
}

// DefaultCategories returns the seeded categories in display order for
// keyword resolution fallback.
func (s *shortcutService) DefaultCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Where("is_default = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return categories, nil
}
