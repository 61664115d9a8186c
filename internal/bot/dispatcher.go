package bot

import (
	"context"
	"errors"
	"strings"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/line"
	"jodtang/internal/logger"
	"jodtang/internal/message"
	"jodtang/internal/models"
	"jodtang/internal/services"
)

const recentDefaultLimit = 10

// Dispatcher routes webhook events to the services and produces reply
// intents. One dispatcher serves all chats; it holds no per-event state.
type Dispatcher struct {
	connections services.ConnectionServicer
	groups      services.GroupServicer
	ledger      services.LedgerServicer
	shortcuts   services.ShortcutServicer
	categories  services.CategoryServicer
	interp      *message.Interpreter
	messenger   line.Messenger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	connections services.ConnectionServicer,
	groups services.GroupServicer,
	ledger services.LedgerServicer,
	shortcuts services.ShortcutServicer,
	categories services.CategoryServicer,
	interp *message.Interpreter,
	messenger line.Messenger,
) *Dispatcher {
	return &Dispatcher{
		connections: connections,
		groups:      groups,
		ledger:      ledger,
		shortcuts:   shortcuts,
		categories:  categories,
		interp:      interp,
		messenger:   messenger,
	}
}

// HandleEvent processes one webhook event and returns the reply intents to
// send. A nil slice means stay silent. Errors are returned only for faults
// the caller should log; user-facing failures come back as reply intents.
func (d *Dispatcher) HandleEvent(ctx context.Context, event line.Event) ([]Reply, error) {
	switch event.Type {
	case line.EventTypeMessage:
		return d.handleMessage(ctx, event)
	case line.EventTypeFollow:
		return d.handleFollow(event)
	case line.EventTypeUnfollow:
		d.handleUnfollow(event)
		return nil, nil
	case line.EventTypeJoin:
		return d.handleJoin(ctx, event)
	case line.EventTypeLeave:
		d.handleLeave(event)
		return nil, nil
	default:
		logger.Get().Infow("unhandled event type", "type", event.Type)
		return nil, nil
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, event line.Event) ([]Reply, error) {
	if !event.IsTextMessage() {
		return nil, nil
	}

	lineUserID := event.Source.UserID
	if lineUserID == "" {
		logger.Get().Warnw("message event without user id")
		return nil, nil
	}

	var group *models.Group
	if event.IsGroup() {
		var err error
		group, err = d.groups.ActiveGroup(event.GroupID())
		if err != nil {
			return nil, err
		}
		// A deactivated group stays deactivated until the bot rejoins; plain
		// messages in it get no reply.
		if group == nil {
			return nil, nil
		}
	}

	// Resolve the sender. In groups every sender gets an account, shadow or
	// linked; in one-on-one chats unlinked senders stay nil.
	user, err := d.connections.FindUserByLineID(lineUserID)
	if err != nil {
		return nil, err
	}
	if group != nil {
		var profile *services.MemberProfile
		if p, perr := d.messenger.GetGroupMemberProfile(ctx, group.LineGroupID, lineUserID); perr == nil {
			profile = &services.MemberProfile{DisplayName: p.DisplayName, AvatarURL: p.PictureURL}
		}
		user, err = d.groups.ResolveMember(group, lineUserID, profile)
		if err != nil {
			return nil, err
		}
	}

	parsed, err := d.interp.Interpret(event.Message.Text, user)
	if err != nil {
		return nil, err
	}

	switch {
	case parsed.Kind == message.KindConnectionCode:
		return d.handleConnectionCode(parsed.ConnectionCode, lineUserID), nil
	case parsed.Kind == message.KindCommand:
		return d.handleCommand(parsed, user, group)
	case parsed.IsTransaction():
		return d.handleTransaction(parsed, user, group, event.Message.ID), nil
	default:
		return d.handleUnknown(parsed, user), nil
	}
}

func (d *Dispatcher) handleConnectionCode(code, lineUserID string) []Reply {
	user, err := d.connections.ConnectWithCode(code, lineUserID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return []Reply{{Kind: ReplyConnectFailed, Message: appErr.Message}}
		}
		logger.Get().Errorw("connect with code failed", "error", err.Error())
		return []Reply{{Kind: ReplyConnectFailed, Message: "ไม่สามารถเชื่อมต่อได้ กรุณาลองใหม่อีกครั้ง"}}
	}
	return []Reply{{Kind: ReplyConnected, User: user}}
}

func (d *Dispatcher) handleCommand(parsed *message.ParsedMessage, user *models.User, group *models.Group) ([]Reply, error) {
	switch parsed.Command {
	case message.CmdHelp:
		return []Reply{{Kind: ReplyHelp}}, nil

	case message.CmdStatus:
		if user == nil || !user.IsLinked() {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		return []Reply{{Kind: ReplyStatus, User: user, Linked: true}}, nil

	case message.CmdShortcuts:
		if user == nil {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		shortcuts, err := d.shortcuts.GetUserShortcuts(user.ID)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyShortcutList, Shortcuts: shortcuts}}, nil

	case message.CmdCategories:
		var userID *uint
		if user != nil {
			userID = &user.ID
		}
		categories, err := d.categories.VisibleCategories(userID, nil)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyCategoryList, Categories: categories}}, nil

	case message.CmdSummaryToday, message.CmdSummaryWeek, message.CmdSummaryMonth, message.CmdSummaryAll:
		scope, ok := commandScope(user, group)
		if !ok {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		period := summaryPeriod(parsed.Command)
		summary, err := d.ledger.GetSummary(scope, period)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplySummary, Period: period, Summary: summary}}, nil

	case message.CmdStats:
		scope, ok := commandScope(user, group)
		if !ok {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		stats, err := d.ledger.StatsByCategory(scope, services.PeriodMonth)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyStats, Period: services.PeriodMonth, Stats: stats}}, nil

	case message.CmdCancel:
		scope, ok := commandScope(user, group)
		if !ok {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		deleted, err := d.ledger.CancelLast(scope)
		if err != nil {
			return nil, err
		}
		if deleted == nil {
			return []Reply{{Kind: ReplyNothingToCancel}}, nil
		}
		return []Reply{{Kind: ReplyCancelled, Transaction: deleted}}, nil

	case message.CmdRecent:
		scope, ok := commandScope(user, group)
		if !ok {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		transactions, err := d.ledger.Recent(scope, recentDefaultLimit)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyRecent, Transactions: transactions}}, nil

	case message.CmdRecord:
		return []Reply{{Kind: ReplyRecordUsage}}, nil

	case message.CmdClear:
		scope, ok := commandScope(user, group)
		if !ok {
			return []Reply{{Kind: ReplyNotLinked}}, nil
		}
		count, err := d.ledger.ClearPeriod(scope, services.PeriodMonth)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyCleared, Period: services.PeriodMonth, ClearedCount: count}}, nil

	case message.CmdRenameGroup:
		if group == nil {
			return []Reply{errorReply("❌ คำสั่งนี้ใช้ได้เฉพาะในกลุ่ม")}, nil
		}
		name := strings.TrimSpace(parsed.CommandArg)
		if name == "" {
			return []Reply{errorReply("❌ กรุณาระบุชื่อกลุ่ม\n\nตัวอย่าง: /ชื่อกลุ่ม บ้านเรา")}, nil
		}
		renamed, err := d.groups.RenameGroup(group.LineGroupID, name)
		if err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyGroupRenamed, GroupName: renamed.Name}}, nil

	case message.CmdDeleteGroup:
		if group == nil {
			return []Reply{errorReply("❌ คำสั่งนี้ใช้ได้เฉพาะในกลุ่ม")}, nil
		}
		if err := d.groups.DeactivateGroup(group.LineGroupID); err != nil {
			return nil, err
		}
		return []Reply{{Kind: ReplyGroupDeleted}}, nil

	default:
		return []Reply{{Kind: ReplyUnknownCommand, Message: parsed.Raw}}, nil
	}
}

func (d *Dispatcher) handleTransaction(parsed *message.ParsedMessage, user *models.User, group *models.Group, messageID string) []Reply {
	if user == nil {
		return []Reply{{Kind: ReplyNotLinked}}
	}

	scope := services.PersonalScope(user.ID)
	if group != nil {
		scope = services.GroupScope(group.ID)
	}

	cand := parsed.Candidate
	res := parsed.Resolution
	tx, dayBalance, err := d.ledger.Record(scope, user.ID, services.RecordParams{
		CategoryID:    res.Category.ID,
		Type:          res.Type,
		Amount:        cand.Amount,
		Note:          cand.Note,
		Source:        models.SourceLine,
		LineMessageID: messageID,
	})
	if err != nil {
		logger.Get().Errorw("failed to record transaction",
			"error", err.Error(),
			"user_id", user.ID,
			"keyword", cand.Keyword,
		)
		return []Reply{errorReply("ไม่สามารถบันทึกรายการได้ กรุณาลองใหม่อีกครั้ง หรือพิมพ์ /help เพื่อดูวิธีใช้งาน")}
	}

	return []Reply{{
		Kind:        ReplyRecorded,
		Transaction: tx,
		Category:    &res.Category,
		DayBalance:  dayBalance,
	}}
}

func (d *Dispatcher) handleUnknown(parsed *message.ParsedMessage, user *models.User) []Reply {
	if message.HasAmount(parsed.Raw) {
		if user == nil {
			return []Reply{{Kind: ReplyNotLinked}}
		}
		keyword := parsed.Raw
		if parsed.Candidate != nil {
			keyword = parsed.Candidate.Keyword
		}
		return []Reply{{Kind: ReplyUnknownKeyword, Keyword: keyword}}
	}
	return []Reply{{Kind: ReplyUnknownMessage}}
}

func (d *Dispatcher) handleFollow(event line.Event) ([]Reply, error) {
	if event.Source.UserID == "" {
		return nil, nil
	}
	user, err := d.connections.FindUserByLineID(event.Source.UserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return []Reply{{Kind: ReplyWelcome, User: user, Linked: true}}, nil
	}
	return []Reply{{Kind: ReplyWelcome}}, nil
}

func (d *Dispatcher) handleUnfollow(event line.Event) {
	if event.Source.UserID != "" {
		logger.Get().Infow("user unfollowed", "line_user_id", event.Source.UserID)
	}
}

func (d *Dispatcher) handleJoin(ctx context.Context, event line.Event) ([]Reply, error) {
	lineGroupID := event.GroupID()
	if lineGroupID == "" {
		return nil, nil
	}

	groupName := ""
	if summary, err := d.messenger.GetGroupSummary(ctx, lineGroupID); err == nil {
		groupName = summary.GroupName
	}

	group, err := d.groups.EnsureActiveGroup(lineGroupID, groupName)
	if err != nil {
		return nil, err
	}
	return []Reply{{Kind: ReplyGroupWelcome, GroupName: group.Name}}, nil
}

func (d *Dispatcher) handleLeave(event line.Event) {
	lineGroupID := event.GroupID()
	if lineGroupID == "" {
		return
	}
	if err := d.groups.DeactivateGroup(lineGroupID); err != nil {
		logger.Get().Errorw("failed to deactivate group on leave",
			"error", err.Error(),
			"line_group_id", lineGroupID,
		)
		return
	}
	logger.Get().Infow("bot left group", "line_group_id", lineGroupID)
}

// commandScope picks the ledger scope for a command: the group when in a
// group chat, otherwise the linked personal account. The second return is
// false when no scope is available.
func commandScope(user *models.User, group *models.Group) (services.Scope, bool) {
	if group != nil {
		return services.GroupScope(group.ID), true
	}
	if user != nil {
		return services.PersonalScope(user.ID), true
	}
	return services.Scope{}, false
}

func summaryPeriod(cmd message.Command) services.Period {
	switch cmd {
	case message.CmdSummaryToday:
		return services.PeriodToday
	case message.CmdSummaryWeek:
		return services.PeriodWeek
	case message.CmdSummaryAll:
		return services.PeriodAll
	default:
		return services.PeriodMonth
	}
}
