package usecases

import "contact_relay/internal/entities"

// ContactKeyboard carries the two actions plus the admin link.
func ContactKeyboard(contactID int64, adminURL string) entities.Keyboard {
	kb := entities.Keyboard{
		{
			{Text: "✅ Processed", Data: entities.NewActionToken(entities.ActionProcessed, contactID).Data()},
			{Text: "⏰ Tomorrow", Data: entities.NewActionToken(entities.ActionTomorrow, contactID).Data()},
		},
	}
	return append(kb, AdminKeyboard(adminURL)...)
}

// AdminKeyboard is the single admin-link button left after an action
// succeeds. nil when no admin URL is configured.
func AdminKeyboard(adminURL string) entities.Keyboard {
	if adminURL == "" {
		return nil
	}
	return entities.Keyboard{{{Text: "👀 Open in admin panel", URL: adminURL}}}
}
