// Package bot turns webhook events into ledger actions and structured reply
// intents. Intents carry typed payloads; turning them into chat text is the
// renderer's job, so the dispatcher can be tested without string matching.
package bot

import (
	"github.com/shopspring/decimal"

	"jodtang/internal/models"
	"jodtang/internal/services"
)

// ReplyKind identifies what a reply is about.
type ReplyKind string

const (
	ReplyRecorded        ReplyKind = "recorded"
	ReplySummary         ReplyKind = "summary"
	ReplyStats           ReplyKind = "stats"
	ReplyRecent          ReplyKind = "recent"
	ReplyCancelled       ReplyKind = "cancelled"
	ReplyNothingToCancel ReplyKind = "nothing_to_cancel"
	ReplyCleared         ReplyKind = "cleared"
	ReplyHelp            ReplyKind = "help"
	ReplyStatus          ReplyKind = "status"
	ReplyShortcutList    ReplyKind = "shortcut_list"
	ReplyCategoryList    ReplyKind = "category_list"
	ReplyConnected       ReplyKind = "connected"
	ReplyConnectFailed   ReplyKind = "connect_failed"
	ReplyNotLinked       ReplyKind = "not_linked"
	ReplyWelcome         ReplyKind = "welcome"
	ReplyGroupWelcome    ReplyKind = "group_welcome"
	ReplyGroupDeleted    ReplyKind = "group_deleted"
	ReplyGroupRenamed    ReplyKind = "group_renamed"
	ReplyRecordUsage     ReplyKind = "record_usage"
	ReplyUnknownKeyword  ReplyKind = "unknown_keyword"
	ReplyUnknownCommand  ReplyKind = "unknown_command"
	ReplyUnknownMessage  ReplyKind = "unknown_message"
	ReplyError           ReplyKind = "error"
)

// Reply is a structured reply intent. Exactly the payload fields relevant to
// its kind are set.
type Reply struct {
	Kind ReplyKind

	// recorded
	Transaction *models.Transaction
	Category    *models.Category
	DayBalance  decimal.Decimal

	// summary / stats / recent / cleared
	Period       services.Period
	Summary      *services.Summary
	Stats        *services.CategoryStats
	Transactions []models.Transaction
	ClearedCount int64

	// status / connected
	User   *models.User
	Linked bool

	// shortcut / category lists
	Shortcuts  []models.Shortcut
	Categories []models.Category

	// group_renamed
	GroupName string

	// unknown_keyword
	Keyword string

	// connect_failed / error
	Message string
}

func errorReply(msg string) Reply {
	return Reply{Kind: ReplyError, Message: msg}
}
