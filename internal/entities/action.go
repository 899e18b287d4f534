package entities

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrMalformedToken   = errors.New("malformed action token")
	ErrInvalidContactID = errors.New("invalid contact id")
	ErrUnknownAction    = errors.New("unknown action")
)

// Action is the closed set of inline actions a contact message carries.
type Action int

const (
	ActionUnknown Action = iota
	ActionProcessed
	ActionTomorrow
)

func (a Action) String() string {
	switch a {
	case ActionProcessed:
		return "processed"
	case ActionTomorrow:
		return "tomorrow"
	default:
		return "unknown"
	}
}

// ActionToken is the parsed form of "<action>:<contactId>" callback data.
type ActionToken struct {
	Action    Action
	Raw       string // action segment as received
	ContactID int64
}

// Data renders the token back to its wire form.
func (t ActionToken) Data() string {
	name := t.Raw
	if t.Action != ActionUnknown {
		name = t.Action.String()
	}
	return name + ":" + strconv.FormatInt(t.ContactID, 10)
}

// NewActionToken builds a token for a known action.
func NewActionToken(action Action, contactID int64) ActionToken {
	return ActionToken{Action: action, Raw: action.String(), ContactID: contactID}
}

// ParseActionToken splits data on the first ':' and resolves the action.
// An unknown action name still yields the parsed token together with ErrUnknownAction.
func ParseActionToken(data string) (ActionToken, error) {
	name, id, ok := strings.Cut(data, ":")
	if !ok {
		return ActionToken{}, ErrMalformedToken
	}

	contactID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ActionToken{}, ErrInvalidContactID
	}

	token := ActionToken{Raw: name, ContactID: contactID}
	switch name {
	case "processed":
		token.Action = ActionProcessed
	case "tomorrow":
		token.Action = ActionTomorrow
	default:
		return token, ErrUnknownAction
	}
	return token, nil
}
