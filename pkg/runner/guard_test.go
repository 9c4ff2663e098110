package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelGuard(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		denied  []string
		channel string
		want    bool
	}{
		{name: "no patterns allows everything", channel: "C123", want: true},
		{name: "allowed exact", allowed: []string{"C123"}, channel: "C123", want: true},
		{name: "not in allow list", allowed: []string{"C123"}, channel: "C999", want: false},
		{name: "allowed wildcard", allowed: []string{"C0*"}, channel: "C0ABCDEF", want: true},
		{name: "denied wins over allowed", allowed: []string{"C*"}, denied: []string{"C0GENERAL"}, channel: "C0GENERAL", want: false},
		{name: "denied only", denied: []string{"G*"}, channel: "G42", want: false},
		{name: "denied only other channel", denied: []string{"G*"}, channel: "C42", want: true},
		{name: "character class", allowed: []string{"[CD]1*"}, channel: "D12", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, err := NewChannelGuard(tt.allowed, tt.denied)
			require.NoError(t, err)

			assert.Equal(t, tt.want, guard.IsAllowed(tt.channel))

			err = guard.Check(tt.channel)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrChannelNotAllowed))
				assert.Contains(t, err.Error(), tt.channel)
			}
		})
	}
}

func TestChannelGuard_InvalidPattern(t *testing.T) {
	_, err := NewChannelGuard([]string{"C[123"}, nil)
	assert.Error(t, err)

	_, err = NewChannelGuard(nil, []string{"G[9"})
	assert.Error(t, err)
}

func TestChannelGuard_Nil(t *testing.T) {
	var guard *ChannelGuard
	assert.True(t, guard.IsAllowed("anything"))
	assert.NoError(t, guard.Check("anything"))
}
