package models

// Shortcut maps an account-owned keyword (and optional emoji) to a category
// and transaction type so a ledger entry can be recorded from a single word.
// Unique per (user, keyword); deleting the category cascades the shortcut.
type Shortcut struct {
	Base
	UserID     uint            `gorm:"not null;uniqueIndex:uq_shortcuts_user_keyword" json:"user_id"`
	Keyword    string          `gorm:"not null;uniqueIndex:uq_shortcuts_user_keyword;index" json:"keyword"`
	Emoji      string          `json:"emoji,omitempty"`
	CategoryID uint            `gorm:"not null" json:"category_id"`
	Type       TransactionType `gorm:"not null" json:"type"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category"`
}

// DisplayKeyword returns the emoji-prefixed keyword used in replies.
func (s *Shortcut) DisplayKeyword() string {
	if s.Emoji == "" {
		return s.Keyword
	}
	return s.Emoji + " " + s.Keyword
}
