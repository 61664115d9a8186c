package models

// User represents an account holder. Users originate either from explicit
// registration on the web (email + password) or as shadow accounts created
// the first time an unlinked LINE identity speaks in a group. Shadow accounts
// have no email and an unusable random password; they exist only to anchor
// group ledger entries until the user registers and links explicitly.
type User struct {
	Base
	Name       string  `gorm:"not null" json:"name"`
	Email      *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password   string  `gorm:"not null" json:"-"`
	LineUserID *string `gorm:"uniqueIndex" json:"line_user_id,omitempty"`
	AvatarURL  string  `json:"avatar_url,omitempty"`

	// Relationships
	Shortcuts    []Shortcut    `gorm:"foreignKey:UserID" json:"shortcuts,omitempty"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// IsLinked reports whether this user has a LINE identity attached.
func (u *User) IsLinked() bool {
	return u.LineUserID != nil && *u.LineUserID != ""
}
