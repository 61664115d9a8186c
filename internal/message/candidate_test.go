package message

import "testing"

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		amount  string
		note    string
	}{
		{"basic", "ข้าว 50", "ข้าว", "50", ""},
		{"with_note", "อาหาร 150 ข้าวมันไก่", "อาหาร", "150", "ข้าวมันไก่"},
		{"decimal", "กาแฟ 45.50", "กาแฟ", "45.5", ""},
		{"comma_separated", "เงินเดือน 25,000", "เงินเดือน", "25000", ""},
		{"multi_word_keyword", "ค่า รถ 30", "ค่า รถ", "30", ""},
		{"extra_whitespace", "  ข้าว   50  ", "ข้าว", "50", ""},
		{"emoji_keyword", "🍔 80", "🍔", "80", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseCandidate(tt.text)
			if c == nil {
				t.Fatalf("expected candidate for %q, got nil", tt.text)
			}
			if c.Keyword != tt.keyword {
				t.Errorf("expected keyword %q, got %q", tt.keyword, c.Keyword)
			}
			if c.Amount.String() != tt.amount {
				t.Errorf("expected amount %s, got %s", tt.amount, c.Amount)
			}
			if c.Note != tt.note {
				t.Errorf("expected note %q, got %q", tt.note, c.Note)
			}
		})
	}
}

func TestParseCandidateRejects(t *testing.T) {
	for _, text := range []string{
		"ข้าว",        // no amount
		"ข้าว ห้าสิบ", // non-numeric amount
		"ข้าว 0",      // zero
		"50",          // amount only, no keyword
		"",            // empty
	} {
		if c := ParseCandidate(text); c != nil {
			t.Errorf("expected nil for %q, got %+v", text, c)
		}
	}
}

func TestParseCandidateExcessDecimals(t *testing.T) {
	// The amount group captures at most 2 decimal places; the remainder
	// falls into the note.
	c := ParseCandidate("ข้าว 50.123")
	if c == nil {
		t.Fatal("expected candidate")
	}
	if c.Amount.String() != "50.12" {
		t.Errorf("expected amount 50.12, got %s", c.Amount)
	}
	if c.Note != "3" {
		t.Errorf("expected note 3, got %q", c.Note)
	}
}
