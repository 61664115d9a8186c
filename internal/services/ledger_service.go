package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/models"
	"jodtang/internal/pagination"
)

// recentMaxLimit caps the number of rows Recent will ever return, regardless
// of the caller-requested limit.
const recentMaxLimit = 20

// ledgerService handles scoped transaction recording and aggregation.
// Monetary sums are computed in Go with decimal arithmetic so aggregation
// never passes through binary floating point.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// Record creates a transaction in the scope and returns it together with the
// scope's same-day net balance. The amount must be positive, the effective
// date must not be in the future, and the type must match the category's
// type at creation time.
func (s *ledgerService) Record(scope Scope, creatorID uint, p RecordParams) (*models.Transaction, decimal.Decimal, error) {
	zero := decimal.Zero
	if err := scope.Validate(); err != nil {
		return nil, zero, err
	}
	if creatorID == 0 {
		return nil, zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "creator is required")
	}
	if !p.Amount.IsPositive() {
		return nil, zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = dateOnly(date)
	if date.After(dateOnly(time.Now())) {
		return nil, zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "effective date must not be in the future")
	}

	var category models.Category
	if err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", p.CategoryID, true, creatorID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, zero, apperrors.ErrCategoryNotFound
		}
		return nil, zero, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if category.Type != p.Type {
		return nil, zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction type does not match category type")
	}

	source := p.Source
	if source == "" {
		source = models.SourceLine
	}

	tx := &models.Transaction{
		UserID:          creatorID,
		GroupID:         scope.GroupID,
		CategoryID:      category.ID,
		Type:            p.Type,
		Amount:          p.Amount.Round(2),
		Note:            p.Note,
		Source:          source,
		LineMessageID:   p.LineMessageID,
		TransactionDate: date,
	}
	if err := s.db.Create(tx).Error; err != nil {
		return nil, zero, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	tx.Category = category

	balance, err := s.dayBalance(scope, date)
	if err != nil {
		return nil, zero, err
	}
	return tx, balance, nil
}

// CancelLast deletes and returns the most recently created transaction in
// scope, or nil when the scope is empty. Deletion is keyed by primary key
// inside a transaction so a concurrent CancelLast racing with a new Record
// cannot double-apply; the loser of a delete race gets nil.
func (s *ledgerService) CancelLast(scope Scope) (*models.Transaction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var deleted *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var last models.Transaction
		err := scope.apply(tx.Preload("Category")).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		res := tx.Where("id = ?", last.ID).Delete(&models.Transaction{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = &last
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// GetSummary returns income/expense totals and net balance for the period.
func (s *ledgerService) GetSummary(scope Scope, period Period) (*Summary, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.scopedRows(scope, period)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, t := range rows {
		if t.Type == models.TransactionTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

// StatsByCategory groups period totals by category, sorted descending by
// amount. Computed on read; nothing is materialized.
func (s *ledgerService) StatsByCategory(scope Scope, period Period) (*CategoryStats, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	q := scope.apply(s.db.Model(&models.Transaction{})).Preload("Category")
	if start, end, bounded := period.Bounds(time.Now()); bounded {
		q = q.Where("transaction_date >= ? AND transaction_date <= ?", start, end)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	type bucket struct {
		name   string
		emoji  string
		amount decimal.Decimal
	}
	income := map[uint]*bucket{}
	expense := map[uint]*bucket{}
	stats := &CategoryStats{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}

	for _, t := range rows {
		buckets := expense
		if t.Type == models.TransactionTypeIncome {
			buckets = income
			stats.TotalIncome = stats.TotalIncome.Add(t.Amount)
		} else {
			stats.TotalExpense = stats.TotalExpense.Add(t.Amount)
		}
		b, ok := buckets[t.CategoryID]
		if !ok {
			b = &bucket{name: t.Category.Name, emoji: t.Category.Emoji, amount: decimal.Zero}
			buckets[t.CategoryID] = b
		}
		b.amount = b.amount.Add(t.Amount)
	}

	collect := func(buckets map[uint]*bucket) []CategoryTotal {
		out := make([]CategoryTotal, 0, len(buckets))
		for _, b := range buckets {
			out = append(out, CategoryTotal{Name: b.name, Emoji: b.emoji, Amount: b.amount})
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Amount.Equal(out[j].Amount) {
				return out[i].Amount.GreaterThan(out[j].Amount)
			}
			return out[i].Name < out[j].Name
		})
		return out
	}
	stats.IncomeByCategory = collect(income)
	stats.ExpenseByCategory = collect(expense)
	return stats, nil
}

// Recent returns the latest transactions in scope, ordered by effective date
// then creation time, newest first. The limit is capped at recentMaxLimit.
func (s *ledgerService) Recent(scope Scope, limit int) ([]models.Transaction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > recentMaxLimit {
		limit = recentMaxLimit
	}

	var rows []models.Transaction
	err := scope.apply(s.db.Preload("Category")).
		Order("transaction_date DESC, created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return rows, nil
}

// ClearPeriod bulk-deletes all transactions in scope within the period
// bound. Irreversible.
func (s *ledgerService) ClearPeriod(scope Scope, period Period) (int64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	q := scope.apply(s.db)
	if start, end, bounded := period.Bounds(time.Now()); bounded {
		q = q.Where("transaction_date >= ? AND transaction_date <= ?", start, end)
	}

	res := q.Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorage, res.Error)
	}
	return res.RowsAffected, nil
}

// TodayBalance returns the scope's net balance for today's effective date.
func (s *ledgerService) TodayBalance(scope Scope) (decimal.Decimal, error) {
	if err := scope.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.dayBalance(scope, dateOnly(time.Now()))
}

func (s *ledgerService) dayBalance(scope Scope, day time.Time) (decimal.Decimal, error) {
	var rows []models.Transaction
	err := scope.apply(s.db.Model(&models.Transaction{})).
		Where("transaction_date = ?", day).
		Select("type", "amount").
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	balance := decimal.Zero
	for _, t := range rows {
		balance = balance.Add(t.SignedAmount())
	}
	return balance, nil
}

func (s *ledgerService) scopedRows(scope Scope, period Period) ([]models.Transaction, error) {
	q := scope.apply(s.db.Model(&models.Transaction{})).Select("type", "amount")
	if start, end, bounded := period.Bounds(time.Now()); bounded {
		q = q.Where("transaction_date >= ? AND transaction_date <= ?", start, end)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return rows, nil
}

// GetTransactions retrieves a paginated, filtered list of the user's
// personal transactions for the web surface.
func (s *ledgerService) GetTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := PersonalScope(userID).apply(s.db.Model(&models.Transaction{}))
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var rows []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Period != nil {
		if start, end, bounded := f.Period.Bounds(time.Now()); bounded {
			q = q.Where("transaction_date >= ? AND transaction_date <= ?", start, end)
		}
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", dateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", dateOnly(*f.ToDate))
	}
	return q
}

// GetTransactionByID retrieves one of the user's own transactions.
func (s *ledgerService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &tx, nil
}

// UpdateTransaction edits amount, note, category, type or date of one of the
// user's own transactions. The ledger scope (personal vs group) is fixed
// once written and cannot be changed here.
func (s *ledgerService) UpdateTransaction(userID, transactionID uint, p RecordParams) (*models.Transaction, error) {
	tx, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if p.CategoryID != 0 {
		var category models.Category
		if err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", p.CategoryID, true, userID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if p.Type != "" && category.Type != p.Type {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction type does not match category type")
		}
		tx.CategoryID = category.ID
		tx.Type = category.Type
		tx.Category = category
	}
	if !p.Amount.IsZero() {
		if !p.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		tx.Amount = p.Amount.Round(2)
	}
	if p.Note != "" {
		tx.Note = p.Note
	}
	if !p.Date.IsZero() {
		date := dateOnly(p.Date)
		if date.After(dateOnly(time.Now())) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "effective date must not be in the future")
		}
		tx.TransactionDate = date
	}

	if err := s.db.Save(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return tx, nil
}

// DeleteTransaction removes one of the user's own transactions.
func (s *ledgerService) DeleteTransaction(userID, transactionID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", transactionID, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
