package models

// Category is a named, emoji-tagged label for transactions. Default
// categories have no owner, are visible to everyone and can never be
// mutated or deleted by a user action. Owned categories are visible
// only to their owner.
type Category struct {
	Base
	UserID    *uint           `gorm:"index:idx_categories_user_type" json:"user_id,omitempty"`
	Name      string          `gorm:"not null" json:"name"`
	Emoji     string          `gorm:"not null" json:"emoji"`
	Type      TransactionType `gorm:"not null;index:idx_categories_user_type" json:"type"`
	IsDefault bool            `gorm:"default:false;index" json:"is_default"`
	SortOrder int             `gorm:"default:0" json:"sort_order"`

	// Relationships
	Shortcuts    []Shortcut    `gorm:"foreignKey:CategoryID" json:"shortcuts,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// DisplayName returns the emoji-prefixed name used in replies.
func (c *Category) DisplayName() string {
	return c.Emoji + " " + c.Name
}
