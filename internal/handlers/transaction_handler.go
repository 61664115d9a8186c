package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/models"
	"jodtang/internal/pagination"
	"jodtang/internal/services"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction and dashboard requests.
type TransactionHandler struct {
	ledgerService services.LedgerServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerService services.LedgerServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// CreateTransactionRequest represents the transaction creation payload
type CreateTransactionRequest struct {
	CategoryID uint            `json:"category_id" binding:"required"`
	Type       string          `json:"type" binding:"required,transaction_type"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Note       string          `json:"note" binding:"max=255"`
	Date       string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateTransactionRequest represents the transaction update payload
type UpdateTransactionRequest struct {
	CategoryID uint            `json:"category_id"`
	Type       string          `json:"type" binding:"omitempty,transaction_type"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" binding:"max=255"`
	Date       string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// CreateTransaction records a new personal transaction
// @Summary     Create transaction
// @Description Record a transaction in the user's personal ledger
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} object "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /transactions [post]
// @Security    BearerAuth
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date"))
		return
	}

	tx, dayBalance, err := h.ledgerService.Record(services.PersonalScope(userID), userID, services.RecordParams{
		CategoryID: req.CategoryID,
		Type:       models.TransactionType(req.Type),
		Amount:     req.Amount,
		Note:       req.Note,
		Source:     models.SourceWeb,
		Date:       date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction":   tx,
		"today_balance": dayBalance,
	})
}

// GetTransactions lists the user's personal transactions
// @Summary     List transactions
// @Description List personal transactions with pagination and optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       period query string false "Period filter (today|week|month|all)"
// @Param       type query string false "Type filter (income|expense)"
// @Param       category_id query int false "Category filter"
// @Param       from query string false "From date (YYYY-MM-DD)"
// @Param       to query string false "To date (YYYY-MM-DD)"
// @Success     200 {object} object "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
// @Security    BearerAuth
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.ledgerService.GetTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if p := c.Query("period"); p != "" {
		period := services.Period(p)
		switch period {
		case services.PeriodToday, services.PeriodWeek, services.PeriodMonth, services.PeriodAll:
			filter.Period = &period
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be today, week, month, or all")
		}
	}

	if t := c.Query("type"); t != "" {
		if t != string(models.TransactionTypeIncome) && t != string(models.TransactionTypeExpense) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
		}
		txType := models.TransactionType(t)
		filter.Type = &txType
	}

	if cid := c.Query("category_id"); cid != "" {
		id, err := strconv.ParseUint(cid, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	if from := c.Query("from"); from != "" {
		d, err := parseDate(from)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from date")
		}
		filter.FromDate = &d
	}

	if to := c.Query("to"); to != "" {
		d, err := parseDate(to)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to date")
		}
		filter.ToDate = &d
	}

	return filter, nil
}

// GetTransaction retrieves one transaction
// @Summary     Get transaction
// @Description Get a single transaction created by the user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} object "Transaction"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
// @Security    BearerAuth
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.ledgerService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction updates a transaction
// @Summary     Update transaction
// @Description Update a transaction's category, type, amount, note, or date
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} object "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [put]
// @Security    BearerAuth
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date"))
		return
	}

	tx, err := h.ledgerService.UpdateTransaction(userID, transactionID, services.RecordParams{
		CategoryID: req.CategoryID,
		Type:       models.TransactionType(req.Type),
		Amount:     req.Amount,
		Note:       req.Note,
		Date:       date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction deletes a transaction
// @Summary     Delete transaction
// @Description Delete a transaction created by the user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} object "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
// @Security    BearerAuth
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func parsePeriod(c *gin.Context) (services.Period, error) {
	p := c.DefaultQuery("period", string(services.PeriodMonth))
	period := services.Period(p)
	switch period {
	case services.PeriodToday, services.PeriodWeek, services.PeriodMonth, services.PeriodAll:
		return period, nil
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be today, week, month, or all")
	}
}

// GetSummary returns period totals for the personal ledger
// @Summary     Get summary
// @Description Get income, expense, and balance totals for a period
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Param       period query string false "Period (today|week|month|all), default month"
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /dashboard/summary [get]
// @Security    BearerAuth
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.ledgerService.GetSummary(services.PersonalScope(userID), period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetStats returns per-category totals for the personal ledger
// @Summary     Get category stats
// @Description Get per-category income and expense totals for a period
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Param       period query string false "Period (today|week|month|all), default month"
// @Success     200 {object} services.CategoryStats "Stats"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /dashboard/stats [get]
// @Security    BearerAuth
func (h *TransactionHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.ledgerService.StatsByCategory(services.PersonalScope(userID), period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecent returns the most recent personal transactions
// @Summary     Get recent transactions
// @Description Get the most recent transactions, capped at 20
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Param       limit query int false "Max entries, default 10"
// @Success     200 {object} object "Recent transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /dashboard/recent [get]
// @Security    BearerAuth
func (h *TransactionHandler) GetRecent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 10
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
		limit = parsed
	}

	transactions, err := h.ledgerService.Recent(services.PersonalScope(userID), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
