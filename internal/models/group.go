package models

import "time"

// Group is a shared ledger container backed by a LINE group chat.
// Groups are never hard-deleted: removing the bot (or /ลบกลุ่ม) flips
// IsActive off, and only an explicit bot re-join turns it back on.
type Group struct {
	Base
	LineGroupID string `gorm:"uniqueIndex;not null" json:"line_group_id"`
	Name        string `gorm:"not null" json:"name"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Members      []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:GroupID" json:"transactions,omitempty"`
}

// MemberRole is the informational role of a group member. The first resolved
// member of a group becomes admin; everyone after that is a member. No
// authorization decision depends on it.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// GroupMember tracks that a user has been observed in a group.
// Unique per (group, user); created lazily the first time the user speaks.
type GroupMember struct {
	Base
	GroupID  uint       `gorm:"not null;uniqueIndex:uq_group_members_group_user" json:"group_id"`
	UserID   uint       `gorm:"not null;uniqueIndex:uq_group_members_group_user" json:"user_id"`
	Role     MemberRole `gorm:"not null;default:'member'" json:"role"`
	JoinedAt time.Time  `gorm:"not null" json:"joined_at"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
