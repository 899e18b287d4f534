package http

import (
	"errors"
	"strings"
	"unicode/utf8"

	"contact_relay/internal/entities"
)

// Input validation constants
const (
	MaxNameLength    = 256
	MaxPhoneLength   = 64
	MaxFieldLength   = 512
	MaxMessageLength = 10000
)

var (
	errNameRequired  = errors.New("name is required")
	errPhoneRequired = errors.New("phone is required")
	errFieldTooLong  = errors.New("field too long")
)

// NormalizeContact trims and sanitizes every field and enforces length limits.
func NormalizeContact(n *entities.ContactNotification) error {
	n.Name = SanitizeString(n.Name)
	n.Phone = SanitizeString(n.Phone)
	n.Email = SanitizeString(n.Email)
	n.Company = SanitizeString(n.Company)
	n.ProjectType = SanitizeString(n.ProjectType)
	n.Message = SanitizeString(n.Message)
	n.Timestamp = SanitizeString(n.Timestamp)

	if n.Name == "" {
		return errNameRequired
	}
	if n.Phone == "" {
		return errPhoneRequired
	}
	if !ValidateLength(n.Name, 1, MaxNameLength) || !ValidateLength(n.Phone, 1, MaxPhoneLength) ||
		!ValidateLength(n.Email, 0, MaxFieldLength) || !ValidateLength(n.Company, 0, MaxFieldLength) ||
		!ValidateLength(n.ProjectType, 0, MaxFieldLength) || !ValidateLength(n.Timestamp, 0, MaxFieldLength) ||
		!ValidateLength(n.Message, 0, MaxMessageLength) {
		return errFieldTooLong
	}
	return nil
}

func NormalizeReminder(r *entities.ReminderNote) error {
	r.Name = SanitizeString(r.Name)
	r.Phone = SanitizeString(r.Phone)
	r.Note = SanitizeString(r.Note)

	if r.Name == "" {
		return errNameRequired
	}
	if r.Phone == "" {
		return errPhoneRequired
	}
	if !ValidateLength(r.Name, 1, MaxNameLength) || !ValidateLength(r.Phone, 1, MaxPhoneLength) ||
		!ValidateLength(r.Note, 0, MaxMessageLength) {
		return errFieldTooLong
	}
	return nil
}

// SanitizeString removes null bytes, invalid UTF-8 and surrounding space
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.TrimSpace(s)
}

// ValidateLength checks the rune count is within bounds
func ValidateLength(s string, min, max int) bool {
	l := utf8.RuneCountInString(s)
	return l >= min && l <= max
}
