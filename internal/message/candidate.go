package message

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Candidate is a transaction-shaped message: "<keyword> <amount> [note]".
type Candidate struct {
	Keyword string
	Amount  decimal.Decimal
	Note    string
}

// candidateRe is greedy on the leading keyword, requires one numeric amount
// (digit groups optionally comma-separated, up to 2 decimal places) and
// treats everything after the amount as an optional note.
var candidateRe = regexp.MustCompile(`^(.+?)\s+([\d,]+(?:\.\d{1,2})?)\s*(.*)$`)

// ParseCandidate extracts {keyword, amount, note} from message text, or nil
// when the text does not match the pattern or the amount is not positive.
// Amounts are rounded half-up to 2 decimal places.
func ParseCandidate(text string) *Candidate {
	m := candidateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return nil
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil
	}

	return &Candidate{
		Keyword: strings.TrimSpace(m[1]),
		Amount:  amount,
		Note:    strings.TrimSpace(m[3]),
	}
}
