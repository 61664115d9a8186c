package services

import (
	"time"

	"github.com/shopspring/decimal"

	"jodtang/internal/models"
	"jodtang/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// ConnectionServicer manages one-time codes linking a LINE identity to a
// registered user.
type ConnectionServicer interface {
	IssueCode(userID uint, ttl time.Duration) (*models.LineConnection, error)
	ConnectWithCode(code, lineUserID string) (*models.User, error)
	Disconnect(userID uint) error
	ActiveCode(userID uint) (*models.LineConnection, error)
	FindUserByLineID(lineUserID string) (*models.User, error)
	SweepExpired() (int64, error)
}

// MemberProfile carries the platform-provided display info for a group
// participant.
type MemberProfile struct {
	DisplayName string
	AvatarURL   string
}

// GroupServicer resolves LINE groups and their members into durable records.
type GroupServicer interface {
	EnsureActiveGroup(lineGroupID, name string) (*models.Group, error)
	ActiveGroup(lineGroupID string) (*models.Group, error)
	DeactivateGroup(lineGroupID string) error
	RenameGroup(lineGroupID, name string) (*models.Group, error)
	ResolveMember(group *models.Group, lineUserID string, profile *MemberProfile) (*models.User, error)
}

// Period is a reporting window, always relative to the caller's current time.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// Summary holds period totals for a ledger scope.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	Name   string          `json:"name"`
	Emoji  string          `json:"emoji"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryStats groups period totals by category, sorted descending by amount.
type CategoryStats struct {
	IncomeByCategory  []CategoryTotal `json:"income_by_category"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
}

// RecordParams carries the fields of a new ledger entry.
type RecordParams struct {
	CategoryID    uint
	Type          models.TransactionType
	Amount        decimal.Decimal
	Note          string
	Source        models.TransactionSource
	LineMessageID string
	Date          time.Time // zero value records against today
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Period     *Period
	Type       *models.TransactionType
	CategoryID *uint
	FromDate   *time.Time
	ToDate     *time.Time
}

// LedgerServicer defines the contract for scoped ledger operations.
type LedgerServicer interface {
	Record(scope Scope, creatorID uint, p RecordParams) (*models.Transaction, decimal.Decimal, error)
	CancelLast(scope Scope) (*models.Transaction, error)
	GetSummary(scope Scope, period Period) (*Summary, error)
	StatsByCategory(scope Scope, period Period) (*CategoryStats, error)
	Recent(scope Scope, limit int) ([]models.Transaction, error)
	ClearPeriod(scope Scope, period Period) (int64, error)
	TodayBalance(scope Scope) (decimal.Decimal, error)
	GetTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, p RecordParams) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// ShortcutServicer defines the contract for shortcut management. It also
// serves as the resolver's read-only lookup source.
type ShortcutServicer interface {
	CreateShortcut(userID uint, keyword, emoji string, categoryID uint) (*models.Shortcut, error)
	GetUserShortcuts(userID uint) ([]models.Shortcut, error)
	GetShortcutByID(userID, shortcutID uint) (*models.Shortcut, error)
	UpdateShortcut(userID, shortcutID uint, keyword, emoji string, categoryID uint) (*models.Shortcut, error)
	DeleteShortcut(userID, shortcutID uint) error

	// message.ShortcutSource
	ShortcutsForUser(userID uint) ([]models.Shortcut, error)
	DefaultCategories() ([]models.Category, error)
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	CreateCategory(userID uint, name, emoji string, categoryType models.TransactionType) (*models.Category, error)
	VisibleCategories(userID *uint, categoryType *models.TransactionType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, emoji string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}
