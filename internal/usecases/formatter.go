package usecases

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"contact_relay/internal/entities"
)

// MessagePreviewLimit caps the free-text message shown in a notification.
const MessagePreviewLimit = 200

// Formatter renders Telegram HTML messages. It never fails: absent optional
// fields just produce shorter output.
type Formatter struct {
	AdminURL string
}

// NewContact renders a contact notification. Optional fields appear in the
// fixed order email, company, project type, message, timestamp.
func (f Formatter) NewContact(n entities.ContactNotification) string {
	lines := []string{
		"🆕 <b>New request from the website!</b>",
		"",
		field("👤", "Name", n.Name),
		field("📞", "Phone", n.Phone),
	}
	lines = appendOptional(lines, "📧", "Email", n.Email)
	lines = appendOptional(lines, "🏢", "Company", n.Company)
	lines = appendOptional(lines, "📋", "Project type", n.ProjectType)
	lines = appendOptional(lines, "💬", "Message", TruncateMessage(n.Message))
	lines = appendOptional(lines, "🕐", "Received", n.Timestamp)

	if n.HasContactID() {
		lines = f.appendAdminLink(lines)
	}
	return strings.Join(lines, "\n")
}

// Reminder renders the fixed three-field reminder template.
func (f Formatter) Reminder(name, phone, note string) string {
	return fmt.Sprintf("⏰ <b>Reminder!</b>\n\nTime to contact the client:\n👤 %s\n📞 %s\n\n📝 <b>Note:</b> %s",
		html.EscapeString(name), html.EscapeString(phone), html.EscapeString(note))
}

// DueReminder renders a reminder fetched from the backend.
func (f Formatter) DueReminder(r entities.ReminderRecord) string {
	lines := []string{
		"⏰ <b>Reminder!</b>",
		"",
		"Time to contact the client:",
		field("👤", "Name", r.Name),
		field("📞", "Phone", r.Phone),
	}
	lines = appendOptional(lines, "📧", "Email", r.Email)
	lines = appendOptional(lines, "🏢", "Company", r.Company)
	lines = appendOptional(lines, "📋", "Project type", r.ProjectType)
	lines = append(lines, "", field("🕐", "Scheduled for", r.RemindAt))
	return strings.Join(f.appendAdminLink(lines), "\n")
}

func (f Formatter) appendAdminLink(lines []string) []string {
	if f.AdminURL == "" {
		return lines
	}
	return append(lines, "", fmt.Sprintf("<a href='%s'>📊 Open in admin panel</a>", html.EscapeString(f.AdminURL)))
}

// TruncateMessage keeps the first MessagePreviewLimit characters and marks the cut with "...".
func TruncateMessage(s string) string {
	if utf8.RuneCountInString(s) <= MessagePreviewLimit {
		return s
	}
	return string([]rune(s)[:MessagePreviewLimit]) + "..."
}

// Annotate appends an outcome line to the plain text of a delivered message.
// The original text is escaped since it is re-sent in HTML mode.
func Annotate(original, result string) string {
	return html.EscapeString(original) + "\n\n" + result
}

func field(icon, label, value string) string {
	return fmt.Sprintf("%s <b>%s:</b> %s", icon, label, html.EscapeString(value))
}

func appendOptional(lines []string, icon, label, value string) []string {
	if value == "" {
		return lines
	}
	return append(lines, field(icon, label, value))
}
