package entities

// ContactNotification is the "new contact" event posted by the website backend.
type ContactNotification struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	ProjectType string `json:"project_type,omitempty"`
	Message     string `json:"message,omitempty"`
	ContactID   *int64 `json:"contact_id,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// HasContactID reports whether the backend assigned an id. 0 counts as absent.
func (n ContactNotification) HasContactID() bool {
	return n.ContactID != nil && *n.ContactID > 0
}

// ReminderRecord is a due reminder as returned by the backend
type ReminderRecord struct {
	ContactID   int64  `json:"contact_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	ProjectType string `json:"project_type,omitempty"`
	RemindAt    string `json:"remind_at"`
}

// ReminderNote is the free-form reminder posted to /api/send-reminder
type ReminderNote struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Note  string `json:"note"`
}
