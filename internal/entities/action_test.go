package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionToken(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    ActionToken
		wantErr error
	}{
		{name: "processed", data: "processed:42", want: ActionToken{Action: ActionProcessed, Raw: "processed", ContactID: 42}},
		{name: "tomorrow", data: "tomorrow:7", want: ActionToken{Action: ActionTomorrow, Raw: "tomorrow", ContactID: 7}},
		{name: "no separator", data: "processed42", wantErr: ErrMalformedToken},
		{name: "empty", data: "", wantErr: ErrMalformedToken},
		{name: "non numeric id", data: "processed:abc", wantErr: ErrInvalidContactID},
		{name: "split on first colon only", data: "processed:1:2", wantErr: ErrInvalidContactID},
		{name: "unknown action", data: "archive:5", want: ActionToken{Action: ActionUnknown, Raw: "archive", ContactID: 5}, wantErr: ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionToken(tt.data)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionTokenData(t *testing.T) {
	assert.Equal(t, "processed:12", NewActionToken(ActionProcessed, 12).Data())
	assert.Equal(t, "tomorrow:3", NewActionToken(ActionTomorrow, 3).Data())

	tok, err := ParseActionToken(NewActionToken(ActionTomorrow, 99).Data())
	require.NoError(t, err)
	assert.Equal(t, ActionTomorrow, tok.Action)
	assert.Equal(t, int64(99), tok.ContactID)
}
