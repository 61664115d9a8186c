package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/models"
)

const fallbackGroupName = "กลุ่ม LINE"
const fallbackMemberName = "LINE User"

// groupService resolves LINE groups and their members.
type groupService struct {
	db *gorm.DB
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB) GroupServicer {
	return &groupService{db: db}
}

// EnsureActiveGroup creates the group if unseen, refreshes the name when one
// is observed, and marks it active. Used for bot join events, where
// reactivation is allowed.
func (s *groupService) EnsureActiveGroup(lineGroupID, name string) (*models.Group, error) {
	if lineGroupID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "LINE group ID is required")
	}
	name = strings.TrimSpace(name)

	var group models.Group
	err := s.db.Where("line_group_id = ?", lineGroupID).First(&group).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		group = models.Group{
			LineGroupID: lineGroupID,
			Name:        fallbackGroupName,
			IsActive:    true,
		}
		if name != "" {
			group.Name = name
		}
		if err := s.db.Create(&group).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return &group, nil
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	if name != "" {
		group.Name = name
	}
	group.IsActive = true
	if err := s.db.Save(&group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &group, nil
}

// ActiveGroup looks up a group for an ordinary chat message. Unseen groups
// are created active; inactive groups return nil — a plain message never
// reactivates a group the bot was removed from.
func (s *groupService) ActiveGroup(lineGroupID string) (*models.Group, error) {
	if lineGroupID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "LINE group ID is required")
	}

	var group models.Group
	err := s.db.Where("line_group_id = ?", lineGroupID).First(&group).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.EnsureActiveGroup(lineGroupID, "")
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	if !group.IsActive {
		return nil, nil
	}
	return &group, nil
}

// DeactivateGroup flips the group inactive. Transactions are kept.
func (s *groupService) DeactivateGroup(lineGroupID string) error {
	res := s.db.Model(&models.Group{}).
		Where("line_group_id = ?", lineGroupID).
		Update("is_active", false)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// RenameGroup sets a new display name on an existing group.
func (s *groupService) RenameGroup(lineGroupID, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
	}
	return s.EnsureActiveGroup(lineGroupID, name)
}

// ResolveMember maps the sender of a group message to a durable user,
// creating a shadow account on first contact, and ensures a membership row.
// The first resolved member of a group becomes admin; everyone after that is
// a member. The membership count and the insert happen inside one
// transaction so concurrent first messages cannot both claim admin.
func (s *groupService) ResolveMember(group *models.Group, lineUserID string, profile *MemberProfile) (*models.User, error) {
	if group == nil || lineUserID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group and LINE user ID are required")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("line_user_id = ?", lineUserID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			shadow, err := newShadowUser(lineUserID, profile)
			if err != nil {
				return err
			}
			if err := tx.Create(shadow).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
			user = *shadow
		case err != nil:
			return apperrors.Wrap(apperrors.ErrStorage, err)
		default:
			if user.AvatarURL == "" && profile != nil && profile.AvatarURL != "" {
				if err := tx.Model(&user).Update("avatar_url", profile.AvatarURL).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrStorage, err)
				}
			}
		}

		var membership models.GroupMember
		err = tx.Where("group_id = ? AND user_id = ?", group.ID, user.ID).First(&membership).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		var memberCount int64
		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ?", group.ID).
			Count(&memberCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		role := models.MemberRoleMember
		if memberCount == 0 {
			role = models.MemberRoleAdmin
		}

		membership = models.GroupMember{
			GroupID:  group.ID,
			UserID:   user.ID,
			Role:     role,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&membership).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// newShadowUser builds an account for a first-seen group participant. The
// password is a random bcrypt hash that can never authenticate; the account
// only anchors group ledger entries until the user registers explicitly.
func newShadowUser(lineUserID string, profile *MemberProfile) (*models.User, error) {
	name := fallbackMemberName
	avatar := ""
	if profile != nil {
		if strings.TrimSpace(profile.DisplayName) != "" {
			name = strings.TrimSpace(profile.DisplayName)
		}
		avatar = profile.AvatarURL
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	id := lineUserID
	return &models.User{
		Name:       name,
		LineUserID: &id,
		AvatarURL:  avatar,
		Password:   string(hash),
	}, nil
}
