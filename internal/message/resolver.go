package message

import (
	"strings"
	"time"

	"jodtang/internal/models"
)

// ShortcutSource is the read-only lookup the resolver depends on.
type ShortcutSource interface {
	ShortcutsForUser(userID uint) ([]models.Shortcut, error)
	DefaultCategories() ([]models.Category, error)
}

// Resolution is the outcome of matching a keyword: the category to record
// against, the transaction type it implies, and the shortcut that matched
// (nil when a default category matched directly).
type Resolution struct {
	Category models.Category
	Shortcut *models.Shortcut
	Type     models.TransactionType
}

// candidateEntry is one matchable item: a shortcut keyword or a default
// category name, with its emoji and creation time for tie-breaking.
type candidateEntry struct {
	keyword   string
	emoji     string
	createdAt time.Time
}

// matcher is one strategy in the resolution tier list. Match returns the
// index of the matched entry, or -1.
type matcher interface {
	Match(keyword string, entries []candidateEntry) int
}

// matchTiers is the fixed evaluation order: exact match first, then prefix.
var matchTiers = []matcher{exactMatcher{}, prefixMatcher{}}

// exactMatcher matches a case-insensitive keyword equality or an exact emoji
// equality.
type exactMatcher struct{}

func (exactMatcher) Match(keyword string, entries []candidateEntry) int {
	lower := strings.ToLower(keyword)
	for i, e := range entries {
		if strings.ToLower(e.keyword) == lower {
			return i
		}
		if e.emoji != "" && e.emoji == keyword {
			return i
		}
	}
	return -1
}

// prefixMatcher matches when the message keyword starts with an entry's emoji
// or keyword (handles an emoji glued to free text). Ambiguity policy: the
// longest matching prefix wins; among equal lengths the most recently created
// entry wins.
type prefixMatcher struct{}

func (prefixMatcher) Match(keyword string, entries []candidateEntry) int {
	best := -1
	bestLen := 0
	for i, e := range entries {
		matched := 0
		if e.emoji != "" && strings.HasPrefix(keyword, e.emoji) {
			matched = len(e.emoji)
		}
		if e.keyword != "" && strings.HasPrefix(keyword, e.keyword) && len(e.keyword) > matched {
			matched = len(e.keyword)
		}
		if matched == 0 {
			continue
		}
		if matched > bestLen {
			best, bestLen = i, matched
			continue
		}
		if matched == bestLen && e.createdAt.After(entries[best].createdAt) {
			best = i
		}
	}
	return best
}

// Resolver finds the category implied by a free-text keyword, trying the
// account's own shortcuts first and falling back to default categories.
type Resolver struct {
	src ShortcutSource
}

// NewResolver creates a Resolver backed by the given lookup source.
func NewResolver(src ShortcutSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve runs the tiers against the user's shortcuts, then against default
// categories. Returns nil when nothing matches.
func (r *Resolver) Resolve(userID uint, keyword string) (*Resolution, error) {
	shortcuts, err := r.src.ShortcutsForUser(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]candidateEntry, len(shortcuts))
	for i, s := range shortcuts {
		entries[i] = candidateEntry{keyword: s.Keyword, emoji: s.Emoji, createdAt: s.CreatedAt}
	}
	for _, tier := range matchTiers {
		if i := tier.Match(keyword, entries); i >= 0 {
			s := shortcuts[i]
			return &Resolution{Category: s.Category, Shortcut: &s, Type: s.Type}, nil
		}
	}

	categories, err := r.src.DefaultCategories()
	if err != nil {
		return nil, err
	}

	entries = make([]candidateEntry, len(categories))
	for i, c := range categories {
		entries[i] = candidateEntry{keyword: c.Name, emoji: c.Emoji, createdAt: c.CreatedAt}
	}
	for _, tier := range matchTiers {
		if i := tier.Match(keyword, entries); i >= 0 {
			c := categories[i]
			return &Resolution{Category: c, Type: c.Type}, nil
		}
	}

	return nil, nil
}
