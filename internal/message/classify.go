// Package message turns raw chat text into structured intents: commands,
// connection codes, transaction candidates, or unknown. Everything in this
// package is pure string work; resolving keywords against stored shortcuts
// goes through the ShortcutSource interface.
package message

import (
	"regexp"
	"strings"
)

// Kind is the lexical class of an inbound message.
type Kind string

const (
	KindCommand        Kind = "command"
	KindConnectionCode Kind = "connection_code"
	KindCandidate      Kind = "candidate"
	KindUnknown        Kind = "unknown"
)

// Command is a canonical command identifier.
type Command string

const (
	CmdHelp         Command = "help"
	CmdSummaryToday Command = "summary_today"
	CmdSummaryWeek  Command = "summary_week"
	CmdSummaryMonth Command = "summary_month"
	CmdSummaryAll   Command = "summary_all"
	CmdStats        Command = "stats"
	CmdCancel       Command = "cancel"
	CmdShortcuts    Command = "shortcuts"
	CmdCategories   Command = "categories"
	CmdStatus       Command = "status"
	CmdRecent       Command = "recent"
	CmdClear        Command = "clear"
	CmdDeleteGroup  Command = "delete_group"
	CmdRenameGroup  Command = "rename_group"
	CmdRecord       Command = "record"
	CmdUnknown      Command = "unknown"
)

// commandTable maps surface command strings (including Thai aliases) to
// canonical command identifiers.
var commandTable = map[string]Command{
	"/help":         CmdHelp,
	"/ช่วยเหลือ":    CmdHelp,
	"/ยอดวันนี้":    CmdSummaryToday,
	"/ยอดสัปดาห์":   CmdSummaryWeek,
	"/ยอดเดือนนี้":  CmdSummaryMonth,
	"/ยอดรวม":       CmdSummaryAll,
	"/สถิติ":        CmdStats,
	"/ยกเลิก":       CmdCancel,
	"/คำสั่ง":       CmdShortcuts,
	"/หมวดหมู่":     CmdCategories,
	"/สถานะ":        CmdStatus,
	"/รายการล่าสุด": CmdRecent,
	"/เคลียร์ยอด":   CmdClear,
	"/ลบกลุ่ม":      CmdDeleteGroup,
	"/ชื่อกลุ่ม":    CmdRenameGroup,
	"/บันทึก":       CmdRecord,
}

var (
	connectionCodeRe = regexp.MustCompile(`(?i)^CONNECT-[A-Z0-9]{6}$`)
	amountHintRe     = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// Classification is the result of lexically classifying a message.
type Classification struct {
	Kind           Kind
	Command        Command
	CommandArg     string
	ConnectionCode string
	Candidate      *Candidate
	Raw            string
}

// Classify classifies raw message text. The command-prefix check takes
// priority over everything else, then the connection-code pattern, then
// transaction-candidate parsing. Deterministic for any input; whitespace-only
// text classifies as unknown.
func Classify(text string) Classification {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return classifyCommand(text)
	}

	if connectionCodeRe.MatchString(text) {
		return Classification{
			Kind:           KindConnectionCode,
			ConnectionCode: strings.ToUpper(text),
			Raw:            text,
		}
	}

	if cand := ParseCandidate(text); cand != nil {
		return Classification{Kind: KindCandidate, Candidate: cand, Raw: text}
	}

	return Classification{Kind: KindUnknown, Raw: text}
}

func classifyCommand(text string) Classification {
	parts := whitespaceRe.Split(text, 2)
	name := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	cmd, ok := commandTable[name]
	if !ok {
		cmd = CmdUnknown
	}

	return Classification{
		Kind:       KindCommand,
		Command:    cmd,
		CommandArg: arg,
		Raw:        text,
	}
}

// HasAmount reports whether the text contains a numeric substring that could
// be an amount. Used to give a more helpful reply for unknown messages.
func HasAmount(text string) bool {
	return amountHintRe.MatchString(text)
}
