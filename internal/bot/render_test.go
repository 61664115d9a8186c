package bot

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"jodtang/internal/models"
	"jodtang/internal/services"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"50", "50.00"},
		{"120.5", "120.50"},
		{"1000", "1,000.00"},
		{"1234567.89", "1,234,567.89"},
		{"-50", "-50.00"},
		{"-1234.5", "-1,234.50"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("invalid amount %q: %v", tt.in, err)
		}
		if got := formatAmount(d); got != tt.want {
			t.Errorf("formatAmount(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderRecorded(t *testing.T) {
	amount, _ := decimal.NewFromString("150")
	balance, _ := decimal.NewFromString("-150")
	text := renderText(Reply{
		Kind: ReplyRecorded,
		Transaction: &models.Transaction{
			Type:   models.TransactionTypeExpense,
			Amount: amount,
			Note:   "ข้าวมันไก่",
		},
		Category:   &models.Category{Name: "อาหาร", Emoji: "🍜"},
		DayBalance: balance,
	})

	for _, want := range []string{"บันทึกรายจ่ายสำเร็จ", "150.00 บาท", "ข้าวมันไก่", "-150.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in rendered text:\n%s", want, text)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	income, _ := decimal.NewFromString("1000")
	expense, _ := decimal.NewFromString("200")
	text := renderText(Reply{
		Kind:   ReplySummary,
		Period: services.PeriodToday,
		Summary: &services.Summary{
			TotalIncome:  income,
			TotalExpense: expense,
			Balance:      income.Sub(expense),
		},
	})

	for _, want := range []string{"สรุปยอดวันนี้", "1,000.00", "200.00", "800.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in rendered text:\n%s", want, text)
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	tests := []struct {
		txType models.TransactionType
		label  string
	}{
		{models.TransactionTypeIncome, "รายรับ"},
		{models.TransactionTypeExpense, "รายจ่าย"},
	}
	for _, tt := range tests {
		amount, _ := decimal.NewFromString("120.5")
		text := renderText(Reply{
			Kind:        ReplyCancelled,
			Transaction: &models.Transaction{Type: tt.txType, Amount: amount},
		})
		for _, want := range []string{"ยกเลิกรายการสำเร็จ", tt.label, "120.50 บาท"} {
			if !strings.Contains(text, want) {
				t.Errorf("expected %q in rendered text:\n%s", want, text)
			}
		}
	}
}

func TestRenderRecentEmpty(t *testing.T) {
	text := renderText(Reply{Kind: ReplyRecent})
	if !strings.Contains(text, "ยังไม่มีรายการ") {
		t.Errorf("expected empty-state text, got:\n%s", text)
	}
}

func TestRenderConnectFailedCarriesReason(t *testing.T) {
	text := renderText(Reply{Kind: ReplyConnectFailed, Message: "Connection code has expired, request a new one"})
	if !strings.Contains(text, "Connection code has expired") {
		t.Errorf("expected failure reason in text:\n%s", text)
	}
}
