package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"

	"contact_relay/internal/entities"
)

type sentMessage struct {
	chat     string
	text     string
	keyboard entities.Keyboard
}

type textEdit struct {
	ref      entities.MessageRef
	text     string
	keyboard entities.Keyboard
}

type fakeChat struct {
	mu            sync.Mutex
	sent          []sentMessage
	textEdits     []textEdit
	keyboardEdits []entities.MessageRef
	answered      []string

	sendErr     error
	failSendFor string // fail sends whose text contains this
	editTextErr error
	editKbErr   error
}

func (f *fakeChat) SendHTML(_ context.Context, chat, text string, kb entities.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	if f.failSendFor != "" && strings.Contains(text, f.failSendFor) {
		return errors.New("telegram: Bad Request")
	}
	f.sent = append(f.sent, sentMessage{chat: chat, text: text, keyboard: kb})
	return nil
}

func (f *fakeChat) EditText(_ context.Context, ref entities.MessageRef, text string, kb entities.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editTextErr != nil {
		return f.editTextErr
	}
	f.textEdits = append(f.textEdits, textEdit{ref: ref, text: text, keyboard: kb})
	return nil
}

func (f *fakeChat) EditKeyboard(_ context.Context, ref entities.MessageRef, _ entities.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editKbErr != nil {
		return f.editKbErr
	}
	f.keyboardEdits = append(f.keyboardEdits, ref)
	return nil
}

func (f *fakeChat) AnswerCallback(_ context.Context, id, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, id)
	return nil
}

func (f *fakeChat) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type backendCall struct {
	endpoint  string
	contactID int64
	args      []string
}

type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall

	reminders   []entities.ReminderRecord
	dueErrs     []error // consumed one per DueReminders call
	statusErr   error
	noteErr     error
	reminderErr error
	markErr     error
}

func (f *fakeBackend) record(endpoint string, id int64, args ...string) {
	f.mu.Lock()
	f.calls = append(f.calls, backendCall{endpoint: endpoint, contactID: id, args: args})
	f.mu.Unlock()
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id int64, status string) error {
	f.record("update-status", id, status)
	return f.statusErr
}

func (f *fakeBackend) AddNote(_ context.Context, id int64, text, author string) error {
	f.record("add-note", id, text, author)
	return f.noteErr
}

func (f *fakeBackend) SetReminder(_ context.Context, id int64, remindAt string) error {
	f.record("set-reminder", id, remindAt)
	return f.reminderErr
}

func (f *fakeBackend) DueReminders(context.Context) ([]entities.ReminderRecord, error) {
	f.record("due-reminders", 0)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.dueErrs) > 0 {
		err := f.dueErrs[0]
		f.dueErrs = f.dueErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.reminders, nil
}

func (f *fakeBackend) MarkReminderSent(_ context.Context, id int64) error {
	f.record("mark-reminder-sent", id)
	return f.markErr
}

func (f *fakeBackend) callsTo(endpoint string) []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []backendCall
	for _, c := range f.calls {
		if c.endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func int64Ptr(v int64) *int64 { return &v }
