package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "jodtang/internal/errors"
)

// Scope selects the ledger partition an operation runs against: a personal
// ledger (user's transactions with no group) or a group ledger (all
// transactions tagged with the group, regardless of creator). Exactly one
// side must be set.
type Scope struct {
	UserID  *uint
	GroupID *uint
}

// PersonalScope scopes to a user's personal ledger.
func PersonalScope(userID uint) Scope {
	return Scope{UserID: &userID}
}

// GroupScope scopes to a group ledger.
func GroupScope(groupID uint) Scope {
	return Scope{GroupID: &groupID}
}

// Validate rejects scopes with neither or both sides set.
func (s Scope) Validate() error {
	if (s.UserID == nil) == (s.GroupID == nil) {
		return apperrors.ErrInvalidScope
	}
	return nil
}

// apply restricts a transaction query to the scope.
func (s Scope) apply(q *gorm.DB) *gorm.DB {
	if s.GroupID != nil {
		return q.Where("group_id = ?", *s.GroupID)
	}
	return q.Where("user_id = ? AND group_id IS NULL", *s.UserID)
}

// dateOnly truncates a time to midnight in its own location. All effective
// dates are stored and compared at day granularity.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Bounds returns the closed date interval for the period relative to now.
// Weeks run Monday through Sunday. AllTime reports bounded=false.
func (p Period) Bounds(now time.Time) (start, end time.Time, bounded bool) {
	today := dateOnly(now)
	switch p {
	case PeriodToday:
		return today, today, true
	case PeriodWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = today.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 6), true
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, -1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
