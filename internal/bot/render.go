package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jodtang/internal/line"
	"jodtang/internal/models"
	"jodtang/internal/services"
)

const recordUsage = "📝 บันทึกรายการ\n\n" +
	"รูปแบบ: [คำสั่งลัด] [จำนวน] [หมายเหตุ]\n\n" +
	"ตัวอย่าง:\n" +
	"• รายรับ: เงินเดือน 5000\n" +
	"• รายจ่าย: อาหาร 150 ข้าวมันไก่\n\n" +
	"พิมพ์ /คำสั่ง เพื่อดูคำสั่งลัดของคุณ"

const helpText = "📖 คู่มือใช้งาน จดตังค์\n\n" +
	"บันทึกรายการ: [คำสั่งลัด] [จำนวน] [หมายเหตุ]\n" +
	"เช่น อาหาร 150 ข้าวมันไก่\n\n" +
	"คำสั่งทั้งหมด:\n" +
	"/ยอดวันนี้ /ยอดสัปดาห์ /ยอดเดือนนี้ /ยอดรวม\n" +
	"/สถิติ — สถิติแยกตามหมวดหมู่\n" +
	"/รายการล่าสุด — รายการที่บันทึกล่าสุด\n" +
	"/ยกเลิก — ยกเลิกรายการล่าสุด\n" +
	"/เคลียร์ยอด — ลบรายการเดือนนี้\n" +
	"/คำสั่ง — คำสั่งลัดของคุณ\n" +
	"/หมวดหมู่ — หมวดหมู่ทั้งหมด\n" +
	"/สถานะ — สถานะการเชื่อมต่อ\n\n" +
	"ในกลุ่ม: /ชื่อกลุ่ม /ลบกลุ่ม\n\n" +
	"เชื่อมต่อบัญชี: สมัครที่เว็บไซต์แล้วพิมพ์รหัส CONNECT-XXXXXX"

const notLinkedText = "❌ บัญชี LINE ของคุณยังไม่ได้เชื่อมต่อกับระบบ\n\n" +
	"กรุณาสมัครสมาชิกที่เว็บไซต์แล้วพิมพ์รหัส CONNECT-XXXXXX เพื่อเชื่อมต่อ"

func typeLabel(t models.TransactionType) string {
	if t == models.TransactionTypeIncome {
		return "รายรับ"
	}
	return "รายจ่าย"
}

var periodLabels = map[services.Period]string{
	services.PeriodToday: "วันนี้",
	services.PeriodWeek:  "สัปดาห์นี้",
	services.PeriodMonth: "เดือนนี้",
	services.PeriodAll:   "ทั้งหมด",
}

// Render turns a reply intent into an outbound text message.
func Render(r Reply) line.TextMessage {
	return line.NewTextMessage(renderText(r))
}

// RenderAll renders a batch of reply intents.
func RenderAll(replies []Reply) []line.TextMessage {
	messages := make([]line.TextMessage, 0, len(replies))
	for _, r := range replies {
		messages = append(messages, Render(r))
	}
	return messages
}

func renderText(r Reply) string {
	switch r.Kind {
	case ReplyRecorded:
		return renderRecorded(r)
	case ReplySummary:
		return renderSummary(r)
	case ReplyStats:
		return renderStats(r)
	case ReplyRecent:
		return renderRecent(r)
	case ReplyCancelled:
		return fmt.Sprintf("✅ ยกเลิกรายการสำเร็จ\n\n%s %s บาท",
			typeLabel(r.Transaction.Type), formatAmount(r.Transaction.Amount))
	case ReplyNothingToCancel:
		return "ไม่มีรายการที่จะยกเลิก"
	case ReplyCleared:
		if r.ClearedCount == 0 {
			return "ไม่มีรายการในเดือนนี้ที่จะเคลียร์"
		}
		return fmt.Sprintf("🗑️ เคลียร์ยอดเดือนนี้สำเร็จ\n\nลบรายการทั้งหมด %d รายการ", r.ClearedCount)
	case ReplyHelp:
		return helpText
	case ReplyStatus:
		return renderStatus(r)
	case ReplyShortcutList:
		return renderShortcuts(r)
	case ReplyCategoryList:
		return renderCategories(r)
	case ReplyConnected:
		return fmt.Sprintf("🎉 เชื่อมต่อสำเร็จ!\n\nสวัสดีคุณ %s\nเริ่มบันทึกรายรับรายจ่ายได้เลย\n\nพิมพ์ /help เพื่อดูวิธีใช้งาน", r.User.Name)
	case ReplyConnectFailed:
		return fmt.Sprintf("❌ %s\n\nกรุณาเข้าเว็บไซต์เพื่อขอรหัสใหม่", r.Message)
	case ReplyNotLinked:
		return notLinkedText
	case ReplyWelcome:
		if r.Linked {
			return fmt.Sprintf("ยินดีต้อนรับกลับ คุณ %s! 👋\n\nเริ่มบันทึกรายการได้เลย", r.User.Name)
		}
		return "ยินดีต้อนรับสู่ จดตังค์! 👋\n\n" +
			"สมัครสมาชิกที่เว็บไซต์แล้วพิมพ์รหัส CONNECT-XXXXXX เพื่อเชื่อมต่อบัญชี\n\n" +
			"พิมพ์ /help เพื่อดูวิธีใช้งาน"
	case ReplyGroupWelcome:
		name := r.GroupName
		if name == "" {
			name = "กลุ่มนี้"
		}
		return fmt.Sprintf("สวัสดีครับ! 👋\n\nจดตังค์พร้อมบันทึกรายรับรายจ่ายของ %s แล้ว\n\nพิมพ์ /help เพื่อดูวิธีใช้งาน", name)
	case ReplyGroupDeleted:
		return "✅ ยกเลิกการเชื่อมต่อกลุ่มแล้ว\n\nข้อมูลรายการจะยังคงอยู่ในระบบ"
	case ReplyGroupRenamed:
		return fmt.Sprintf("✅ เปลี่ยนชื่อกลุ่มเป็น \"%s\" แล้ว", r.GroupName)
	case ReplyRecordUsage:
		return recordUsage
	case ReplyUnknownKeyword:
		return fmt.Sprintf("❓ ไม่พบคำสั่งลัดที่ตรงกับ \"%s\"\n\n"+
			"พิมพ์ /คำสั่ง เพื่อดูคำสั่งลัดของคุณ\n"+
			"หรือสร้างคำสั่งลัดใหม่ได้ที่เว็บแอป", r.Keyword)
	case ReplyUnknownCommand:
		return fmt.Sprintf("❓ คำสั่งไม่รู้จัก: %s\n\nพิมพ์ /help เพื่อดูคำสั่งทั้งหมด", r.Message)
	case ReplyUnknownMessage:
		return "❓ ไม่เข้าใจข้อความ\n\nพิมพ์ /help เพื่อดูวิธีใช้งาน"
	case ReplyError:
		return "❌ " + strings.TrimPrefix(r.Message, "❌ ")
	default:
		return "❓ ไม่เข้าใจข้อความ\n\nพิมพ์ /help เพื่อดูวิธีใช้งาน"
	}
}

func renderRecorded(r Reply) string {
	title := "💸 บันทึกรายจ่ายสำเร็จ"
	if r.Transaction.Type == models.TransactionTypeIncome {
		title = "💰 บันทึกรายรับสำเร็จ"
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s บาท\n", r.Category.DisplayName(), formatAmount(r.Transaction.Amount))
	if r.Transaction.Note != "" {
		fmt.Fprintf(&b, "📝 %s\n", r.Transaction.Note)
	}
	fmt.Fprintf(&b, "\nยอดคงเหลือวันนี้: %s บาท", formatAmount(r.DayBalance))
	return b.String()
}

func renderSummary(r Reply) string {
	label := periodLabels[r.Period]
	return fmt.Sprintf("📊 สรุปยอด%s\n\n"+
		"💰 รายรับ: %s บาท\n"+
		"💸 รายจ่าย: %s บาท\n"+
		"💵 คงเหลือ: %s บาท",
		label,
		formatAmount(r.Summary.TotalIncome),
		formatAmount(r.Summary.TotalExpense),
		formatAmount(r.Summary.Balance))
}

func renderStats(r Reply) string {
	label := periodLabels[r.Period]
	var b strings.Builder
	fmt.Fprintf(&b, "📈 สถิติ%s\n", label)

	if len(r.Stats.IncomeByCategory) > 0 {
		b.WriteString("\n💰 รายรับ\n")
		for _, row := range r.Stats.IncomeByCategory {
			fmt.Fprintf(&b, "%s %s: %s บาท\n", row.Emoji, row.Name, formatAmount(row.Amount))
		}
	}
	if len(r.Stats.ExpenseByCategory) > 0 {
		b.WriteString("\n💸 รายจ่าย\n")
		for _, row := range r.Stats.ExpenseByCategory {
			fmt.Fprintf(&b, "%s %s: %s บาท\n", row.Emoji, row.Name, formatAmount(row.Amount))
		}
	}
	if len(r.Stats.IncomeByCategory) == 0 && len(r.Stats.ExpenseByCategory) == 0 {
		b.WriteString("\nยังไม่มีรายการในช่วงนี้")
		return b.String()
	}

	fmt.Fprintf(&b, "\nรวมรายรับ %s | รายจ่าย %s บาท",
		formatAmount(r.Stats.TotalIncome), formatAmount(r.Stats.TotalExpense))
	return b.String()
}

func renderRecent(r Reply) string {
	if len(r.Transactions) == 0 {
		return "ยังไม่มีรายการที่บันทึกไว้"
	}

	var b strings.Builder
	b.WriteString("🧾 รายการล่าสุด\n")
	for _, tx := range r.Transactions {
		sign := "-"
		if tx.Type == models.TransactionTypeIncome {
			sign = "+"
		}
		fmt.Fprintf(&b, "\n%s %s%s บาท", tx.TransactionDate.Format("02/01"), sign, formatAmount(tx.Amount))
		if tx.Note != "" {
			fmt.Fprintf(&b, " (%s)", tx.Note)
		}
	}
	return b.String()
}

func renderStatus(r Reply) string {
	email := "ไม่ระบุ"
	if r.User.Email != nil {
		email = *r.User.Email
	}
	return fmt.Sprintf("✅ สถานะการเชื่อมต่อ\n\n"+
		"👤 ชื่อ: %s\n"+
		"📧 อีเมล: %s\n"+
		"🔗 LINE: เชื่อมต่อแล้ว", r.User.Name, email)
}

func renderShortcuts(r Reply) string {
	if len(r.Shortcuts) == 0 {
		return "ยังไม่มีคำสั่งลัด\n\nสร้างคำสั่งลัดได้ที่เว็บแอป"
	}

	var b strings.Builder
	b.WriteString("⚡ คำสั่งลัดของคุณ\n")
	for _, sc := range r.Shortcuts {
		fmt.Fprintf(&b, "\n%s → %s", sc.DisplayKeyword(), sc.Category.DisplayName())
	}
	return b.String()
}

func renderCategories(r Reply) string {
	var income, expense []string
	for _, c := range r.Categories {
		if c.Type == models.TransactionTypeIncome {
			income = append(income, c.DisplayName())
		} else {
			expense = append(expense, c.DisplayName())
		}
	}

	var b strings.Builder
	b.WriteString("🏷️ หมวดหมู่\n")
	if len(income) > 0 {
		b.WriteString("\n💰 รายรับ\n")
		b.WriteString(strings.Join(income, "\n"))
		b.WriteString("\n")
	}
	if len(expense) > 0 {
		b.WriteString("\n💸 รายจ่าย\n")
		b.WriteString(strings.Join(expense, "\n"))
	}
	return b.String()
}

// formatAmount renders a decimal with thousand separators and two decimal
// places, matching how amounts appear elsewhere in the product.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(fracPart)
	return b.String()
}
