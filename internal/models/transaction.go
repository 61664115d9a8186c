package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the sign of a transaction. The amount itself is
// always positive; the sign is derived from the type, never stored.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionSource tags where a transaction was recorded from.
type TransactionSource string

const (
	SourceLine TransactionSource = "line"
	SourceWeb  TransactionSource = "web"
)

// Transaction is a single ledger entry. It belongs either to a personal
// ledger (GroupID nil, scoped by UserID) or to exactly one group ledger
// (GroupID set), never both; the scope is fixed once written.
type Transaction struct {
	Base
	UserID          uint              `gorm:"not null;index:idx_transactions_user_date" json:"user_id"`
	GroupID         *uint             `gorm:"index:idx_transactions_group_date" json:"group_id,omitempty"`
	CategoryID      uint              `gorm:"not null" json:"category_id"`
	Type            TransactionType   `gorm:"not null" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note            string            `json:"note,omitempty"`
	Source          TransactionSource `gorm:"not null;default:'line'" json:"source"`
	LineMessageID   string            `json:"line_message_id,omitempty"`
	TransactionDate time.Time         `gorm:"type:date;not null;index:idx_transactions_user_date;index:idx_transactions_group_date" json:"transaction_date"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category"`
	Group    *Group   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// SignedAmount returns the amount with the sign implied by the type.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
