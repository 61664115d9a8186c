package bot

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jodtang/internal/line"
	"jodtang/internal/message"
	"jodtang/internal/models"
	"jodtang/internal/services"
	"jodtang/internal/testutil"
)

// fakeMessenger satisfies line.Messenger without network calls.
type fakeMessenger struct {
	groupName  string
	memberName string
	replies    [][]line.TextMessage
}

func (f *fakeMessenger) Reply(_ context.Context, _ string, messages []line.TextMessage) error {
	f.replies = append(f.replies, messages)
	return nil
}

func (f *fakeMessenger) GetProfile(_ context.Context, _ string) (*line.Profile, error) {
	return &line.Profile{DisplayName: f.memberName}, nil
}

func (f *fakeMessenger) GetGroupMemberProfile(_ context.Context, _, _ string) (*line.Profile, error) {
	return &line.Profile{DisplayName: f.memberName}, nil
}

func (f *fakeMessenger) GetGroupSummary(_ context.Context, groupID string) (*line.GroupSummary, error) {
	return &line.GroupSummary{GroupID: groupID, GroupName: f.groupName}, nil
}

func newTestDispatcher(t *testing.T, db *gorm.DB) (*Dispatcher, *fakeMessenger) {
	t.Helper()

	connections := services.NewConnectionService(db)
	groups := services.NewGroupService(db)
	ledger := services.NewLedgerService(db)
	shortcuts := services.NewShortcutService(db)
	categories := services.NewCategoryService(db)
	interp := message.NewInterpreter(message.NewResolver(shortcuts))
	messenger := &fakeMessenger{groupName: "บ้านเรา", memberName: "สมชาย"}

	return NewDispatcher(connections, groups, ledger, shortcuts, categories, interp, messenger), messenger
}

func textEvent(text, lineUserID, lineGroupID string) line.Event {
	e := line.Event{
		Type:       line.EventTypeMessage,
		ReplyToken: "token",
		Message:    line.Message{ID: "msg-1", Type: "text", Text: text},
	}
	e.Source.UserID = lineUserID
	if lineGroupID != "" {
		e.Source.Type = line.SourceTypeGroup
		e.Source.GroupID = lineGroupID
	} else {
		e.Source.Type = line.SourceTypeUser
	}
	return e
}

func requireKind(t *testing.T, replies []Reply, kind ReplyKind) Reply {
	t.Helper()
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	if replies[0].Kind != kind {
		t.Fatalf("expected reply kind %q, got %q", kind, replies[0].Kind)
	}
	return replies[0]
}

func TestDispatcherRecordsTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	user := testutil.CreateLinkedTestUser(t, db, "U-rec")
	food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
	testutil.CreateTestShortcut(t, db, user.ID, "ข้าว", food)

	replies, err := d.HandleEvent(ctx, textEvent("ข้าว 50 มื้อเที่ยง", "U-rec", ""))
	testutil.AssertNoError(t, err)

	reply := requireKind(t, replies, ReplyRecorded)
	if reply.Transaction == nil || reply.Transaction.Note != "มื้อเที่ยง" {
		t.Fatalf("unexpected transaction %+v", reply.Transaction)
	}
	if reply.Transaction.GroupID != nil {
		t.Error("one-on-one chat must record into the personal ledger")
	}
	if reply.Category == nil || reply.Category.ID != food.ID {
		t.Error("expected resolved category on the reply")
	}
}

func TestDispatcherGroupScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

	// An unregistered sender in a group gets a shadow account and can record
	// against a default category keyword.
	replies, err := d.HandleEvent(ctx, textEvent("อาหาร 75", "U-shadow", "G-1"))
	testutil.AssertNoError(t, err)

	reply := requireKind(t, replies, ReplyRecorded)
	if reply.Transaction.GroupID == nil {
		t.Fatal("group chat must record into the group ledger")
	}

	var user models.User
	testutil.AssertNoError(t, db.Where("line_user_id = ?", "U-shadow").First(&user).Error)
	if user.Name != "สมชาย" {
		t.Errorf("expected shadow account named from profile, got %q", user.Name)
	}
	if reply.Transaction.UserID != user.ID {
		t.Error("expected the shadow account as creator")
	}
}

func TestDispatcherInactiveGroupStaysInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	testutil.CreateLinkedTestUser(t, db, "U-gone")
	testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

	join := line.Event{Type: line.EventTypeJoin}
	join.Source.Type = line.SourceTypeGroup
	join.Source.GroupID = "G-gone"
	_, err := d.HandleEvent(ctx, join)
	testutil.AssertNoError(t, err)

	leave := line.Event{Type: line.EventTypeLeave}
	leave.Source.Type = line.SourceTypeGroup
	leave.Source.GroupID = "G-gone"
	_, err = d.HandleEvent(ctx, leave)
	testutil.AssertNoError(t, err)

	t.Run("plain_message_does_not_reactivate", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("อาหาร 75", "U-gone", "G-gone"))
		testutil.AssertNoError(t, err)
		if replies != nil {
			t.Fatalf("expected silence in a deactivated group, got %+v", replies)
		}

		var group models.Group
		testutil.AssertNoError(t, db.Where("line_group_id = ?", "G-gone").First(&group).Error)
		if group.IsActive {
			t.Error("plain message must not reactivate the group")
		}
		var count int64
		testutil.AssertNoError(t, db.Model(&models.Transaction{}).
			Where("group_id = ?", group.ID).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected no group transactions, got %d", count)
		}
	})

	t.Run("commands_are_silent_too", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/ยอดวันนี้", "U-gone", "G-gone"))
		testutil.AssertNoError(t, err)
		if replies != nil {
			t.Fatalf("expected silence, got %+v", replies)
		}
	})

	t.Run("rejoin_reactivates", func(t *testing.T) {
		_, err := d.HandleEvent(ctx, join)
		testutil.AssertNoError(t, err)

		replies, err := d.HandleEvent(ctx, textEvent("อาหาร 75", "U-gone", "G-gone"))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyRecorded)
	})
}

func TestDispatcherPersonalAndGroupLedgersIsolated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	testutil.CreateLinkedTestUser(t, db, "U-iso")
	testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

	_, err := d.HandleEvent(ctx, textEvent("อาหาร 50", "U-iso", ""))
	testutil.AssertNoError(t, err)
	_, err = d.HandleEvent(ctx, textEvent("อาหาร 75", "U-iso", "G-iso"))
	testutil.AssertNoError(t, err)

	replies, err := d.HandleEvent(ctx, textEvent("/ยอดวันนี้", "U-iso", ""))
	testutil.AssertNoError(t, err)
	personal := requireKind(t, replies, ReplySummary)
	if !personal.Summary.TotalExpense.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected personal expense 50, got %s", personal.Summary.TotalExpense)
	}

	replies, err = d.HandleEvent(ctx, textEvent("/ยอดวันนี้", "U-iso", "G-iso"))
	testutil.AssertNoError(t, err)
	grouped := requireKind(t, replies, ReplySummary)
	if !grouped.Summary.TotalExpense.Equal(decimal.NewFromInt(75)) {
		t.Errorf("expected group expense 75, got %s", grouped.Summary.TotalExpense)
	}
}

func TestDispatcherConnectionCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	connections := services.NewConnectionService(db)
	conn, err := connections.IssueCode(user.ID, 10*time.Minute)
	testutil.AssertNoError(t, err)

	t.Run("valid_code", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent(conn.ConnectionCode, "U-link", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyConnected)
		if reply.User == nil || reply.User.ID != user.ID {
			t.Error("expected the linked user on the reply")
		}
	})

	t.Run("consumed_code", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent(conn.ConnectionCode, "U-other", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyConnectFailed)
		if reply.Message == "" {
			t.Error("expected a failure message")
		}
	})
}

func TestDispatcherCommands(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	user := testutil.CreateLinkedTestUser(t, db, "U-cmd")
	food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
	testutil.CreateTestShortcut(t, db, user.ID, "ข้าว", food)
	testutil.CreateTestTransaction(t, db, user.ID, food.ID, models.TransactionTypeExpense, "120")

	t.Run("help", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/help", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyHelp)
	})

	t.Run("status_linked", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/สถานะ", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyStatus)
		if !reply.Linked {
			t.Error("expected linked status")
		}
	})

	t.Run("status_unlinked", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/สถานะ", "U-stranger", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyNotLinked)
	})

	t.Run("shortcuts", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/คำสั่ง", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyShortcutList)
		if len(reply.Shortcuts) != 1 {
			t.Errorf("expected 1 shortcut, got %d", len(reply.Shortcuts))
		}
	})

	t.Run("categories_visible_to_anyone", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/หมวดหมู่", "U-stranger", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyCategoryList)
		if len(reply.Categories) != 1 {
			t.Errorf("expected 1 default category, got %d", len(reply.Categories))
		}
	})

	t.Run("recent", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/รายการล่าสุด", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyRecent)
		if len(reply.Transactions) != 1 {
			t.Errorf("expected 1 transaction, got %d", len(reply.Transactions))
		}
	})

	t.Run("cancel_then_nothing", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/ยกเลิก", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyCancelled)

		replies, err = d.HandleEvent(ctx, textEvent("/ยกเลิก", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyNothingToCancel)
	})

	t.Run("summary_requires_scope", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/ยอดวันนี้", "U-stranger", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyNotLinked)
	})

	t.Run("record_usage", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/บันทึก", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyRecordUsage)
	})

	t.Run("rename_group_outside_group", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/ชื่อกลุ่ม บ้านใหม่", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyError)
	})

	t.Run("rename_group", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("/ชื่อกลุ่ม บ้านใหม่", "U-cmd", "G-rename"))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyGroupRenamed)
		if reply.GroupName != "บ้านใหม่" {
			t.Errorf("expected new group name, got %q", reply.GroupName)
		}
	})

	t.Run("clear_month", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, food.ID, models.TransactionTypeExpense, "10")
		replies, err := d.HandleEvent(ctx, textEvent("/เคลียร์ยอด", "U-cmd", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyCleared)
		if reply.ClearedCount != 1 {
			t.Errorf("expected 1 cleared row, got %d", reply.ClearedCount)
		}
	})
}

func TestDispatcherUnknownMessages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	testutil.CreateLinkedTestUser(t, db, "U-unk")

	t.Run("amount_with_unknown_keyword", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("อะไรก็ไม่รู้ 50", "U-unk", ""))
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyUnknownKeyword)
		if reply.Keyword != "อะไรก็ไม่รู้" {
			t.Errorf("unexpected keyword %q", reply.Keyword)
		}
	})

	t.Run("amount_from_unlinked_sender", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("ข้าว 50", "U-nobody", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyNotLinked)
	})

	t.Run("plain_chatter", func(t *testing.T) {
		replies, err := d.HandleEvent(ctx, textEvent("สวัสดีครับ", "U-unk", ""))
		testutil.AssertNoError(t, err)
		requireKind(t, replies, ReplyUnknownMessage)
	})

	t.Run("non_text_ignored", func(t *testing.T) {
		event := textEvent("", "U-unk", "")
		event.Message.Type = "sticker"
		replies, err := d.HandleEvent(ctx, event)
		testutil.AssertNoError(t, err)
		if replies != nil {
			t.Errorf("expected silence, got %+v", replies)
		}
	})
}

func TestDispatcherLifecycleEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	d, _ := newTestDispatcher(t, db)
	ctx := context.Background()

	t.Run("follow_new_user", func(t *testing.T) {
		event := line.Event{Type: line.EventTypeFollow}
		event.Source.UserID = "U-new"
		replies, err := d.HandleEvent(ctx, event)
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyWelcome)
		if reply.Linked {
			t.Error("unknown follower must not be greeted as linked")
		}
	})

	t.Run("follow_linked_user", func(t *testing.T) {
		testutil.CreateLinkedTestUser(t, db, "U-back")
		event := line.Event{Type: line.EventTypeFollow}
		event.Source.UserID = "U-back"
		replies, err := d.HandleEvent(ctx, event)
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyWelcome)
		if !reply.Linked {
			t.Error("expected a welcome-back for the linked user")
		}
	})

	t.Run("join_and_leave", func(t *testing.T) {
		join := line.Event{Type: line.EventTypeJoin}
		join.Source.Type = line.SourceTypeGroup
		join.Source.GroupID = "G-life"
		replies, err := d.HandleEvent(ctx, join)
		testutil.AssertNoError(t, err)
		reply := requireKind(t, replies, ReplyGroupWelcome)
		if reply.GroupName != "บ้านเรา" {
			t.Errorf("expected the platform group name, got %q", reply.GroupName)
		}

		leave := line.Event{Type: line.EventTypeLeave}
		leave.Source.Type = line.SourceTypeGroup
		leave.Source.GroupID = "G-life"
		replies, err = d.HandleEvent(ctx, leave)
		testutil.AssertNoError(t, err)
		if replies != nil {
			t.Error("leave must be silent")
		}

		var group models.Group
		testutil.AssertNoError(t, db.Where("line_group_id = ?", "G-life").First(&group).Error)
		if group.IsActive {
			t.Error("expected the group deactivated after leave")
		}
	})
}
