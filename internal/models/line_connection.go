package models

import "time"

// LineConnection is a one-time linking code tying a LINE identity to a
// registered user. Lifecycle: issued -> consumed (terminal) or issued ->
// expired (derived from CodeExpiresAt, not a stored state). A user holds at
// most one unconsumed code at a time; once consumed the row is immutable.
type LineConnection struct {
	Base
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	LineUserID     *string    `gorm:"index" json:"line_user_id,omitempty"`
	ConnectionCode string     `gorm:"uniqueIndex;not null" json:"connection_code"`
	IsConnected    bool       `gorm:"default:false" json:"is_connected"`
	ConnectedAt    *time.Time `json:"connected_at,omitempty"`
	CodeExpiresAt  time.Time  `gorm:"not null" json:"code_expires_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// IsCodeExpired reports whether the code is past its expiry.
func (c *LineConnection) IsCodeExpired() bool {
	return time.Now().After(c.CodeExpiresAt)
}
