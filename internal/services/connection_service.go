package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/logger"
	"jodtang/internal/models"
)

const (
	codePrefix   = "CONNECT-"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// With a 36^6 code space collisions are rare; the retry bound exists to
	// keep the uniqueness invariant from ever spinning.
	maxCodeAttempts = 5
)

// connectionService manages the one-time LINE linking codes.
type connectionService struct {
	db *gorm.DB
}

// NewConnectionService creates a new ConnectionServicer.
func NewConnectionService(db *gorm.DB) ConnectionServicer {
	return &connectionService{db: db}
}

// IssueCode invalidates any prior unconsumed codes for the user and issues a
// fresh one expiring after ttl.
func (s *connectionService) IssueCode(userID uint, ttl time.Duration) (*models.LineConnection, error) {
	if ttl <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ttl must be positive")
	}

	var conn *models.LineConnection
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND is_connected = ?", userID, false).
			Delete(&models.LineConnection{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		code, err := s.uniqueCode(tx)
		if err != nil {
			return err
		}

		conn = &models.LineConnection{
			UserID:         userID,
			ConnectionCode: code,
			IsConnected:    false,
			CodeExpiresAt:  time.Now().Add(ttl),
		}
		if err := tx.Create(conn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("connection code issued",
		"user_id", userID,
		"expires_at", conn.CodeExpiresAt,
	)
	return conn, nil
}

// uniqueCode generates a candidate code and retries until it does not collide
// with any existing row. Consumed codes keep their value and share the unique
// index, so they count as collisions too.
func (s *connectionService) uniqueCode(tx *gorm.DB) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrStorage, err)
		}

		taken, err := codeTaken(tx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperrors.Wrap(apperrors.ErrStorage, fmt.Errorf("could not generate a unique code in %d attempts", maxCodeAttempts))
}

func codeTaken(tx *gorm.DB, code string) (bool, error) {
	var count int64
	if err := tx.Model(&models.LineConnection{}).
		Where("connection_code = ?", code).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return count > 0, nil
}

func generateCode() (string, error) {
	b := make([]byte, codeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return codePrefix + string(b), nil
}

// ConnectWithCode consumes a code and links the LINE identity to the code's
// owner. The consume-and-link sequence is a single atomic unit guarded by a
// conditional update on the unconsumed flag, so two concurrent consumers of
// the same code cannot both succeed.
func (s *connectionService) ConnectWithCode(code, lineUserID string) (*models.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || lineUserID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "code and LINE user ID are required")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var conn models.LineConnection
		if err := tx.Where("connection_code = ? AND is_connected = ?", code, false).
			First(&conn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCodeNotFound
			}
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		if conn.IsCodeExpired() {
			return apperrors.ErrCodeExpired
		}

		// Reject if this LINE identity already belongs to a different user.
		var existing models.User
		err := tx.Where("line_user_id = ? AND id != ?", lineUserID, conn.UserID).First(&existing).Error
		if err == nil {
			return apperrors.ErrAlreadyLinked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		now := time.Now()
		res := tx.Model(&models.LineConnection{}).
			Where("id = ? AND is_connected = ?", conn.ID, false).
			Updates(map[string]interface{}{
				"line_user_id": lineUserID,
				"is_connected": true,
				"connected_at": now,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race with a concurrent consumer.
			return apperrors.ErrCodeNotFound
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", conn.UserID).
			Update("line_user_id", lineUserID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		if err := tx.First(&user, conn.UserID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("LINE account connected",
		"user_id", user.ID,
		"line_user_id", lineUserID,
	)
	return &user, nil
}

// Disconnect clears the user's LINE link so a fresh code can be issued later.
// Historical transactions are untouched.
func (s *connectionService) Disconnect(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LineConnection{}).
			Where("user_id = ? AND is_connected = ?", userID, true).
			Updates(map[string]interface{}{
				"is_connected": false,
				"line_user_id": nil,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotLinked
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("line_user_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		return nil
	})
}

// ActiveCode returns the user's unconsumed, unexpired code, if any.
func (s *connectionService) ActiveCode(userID uint) (*models.LineConnection, error) {
	var conn models.LineConnection
	err := s.db.Where("user_id = ? AND is_connected = ? AND code_expires_at > ?", userID, false, time.Now()).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCodeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &conn, nil
}

// FindUserByLineID looks up the user linked to a LINE identity. Returns
// (nil, nil) when no user is linked.
func (s *connectionService) FindUserByLineID(lineUserID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("line_user_id = ?", lineUserID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &user, nil
}

// SweepExpired deletes all unconsumed, expired codes. Idempotent; safe to run
// concurrently.
func (s *connectionService) SweepExpired() (int64, error) {
	res := s.db.Where("is_connected = ? AND code_expires_at < ?", false, time.Now()).
		Delete(&models.LineConnection{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorage, res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Get().Infow("cleaned up expired connection codes", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
