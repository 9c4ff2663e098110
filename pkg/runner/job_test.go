package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/slackpost/pkg/slack"
)

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadJob(t *testing.T) {
	path := writeJob(t, `
workspace: https://acme.slack.com
channel: C0123456789
messages:
  - "Good morning!"
  - "Morning all"
cookie_file: /var/lib/slackpost/acme.gob
headless: true
timeouts:
  login: 45s
  post: 20s
  settle: 0s
constraints:
  allowed_channels: ["C0*"]
  denied_channels: ["C0GENERAL"]
logging:
  verbosity: quiet
`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, "https://acme.slack.com", job.Workspace)
	assert.Equal(t, "C0123456789", job.Channel)
	assert.Equal(t, []string{"Good morning!", "Morning all"}, job.Messages)
	assert.Equal(t, "/var/lib/slackpost/acme.gob", job.CookieFile)
	require.NotNil(t, job.Headless)
	assert.True(t, *job.Headless)
	assert.Equal(t, 45*time.Second, job.Timeouts.Login)
	assert.Equal(t, 20*time.Second, job.Timeouts.Post)
	require.NotNil(t, job.Timeouts.Settle)
	assert.Zero(t, *job.Timeouts.Settle)
	assert.Equal(t, []string{"C0*"}, job.Constraints.AllowedChannels)
	assert.Equal(t, "quiet", job.Logging.Verbosity)
}

func TestLoadJob_Minimal(t *testing.T) {
	job, err := LoadJob(writeJob(t, "channel: C1\n"))
	require.NoError(t, err)

	assert.Nil(t, job.Headless)
	assert.Nil(t, job.Timeouts.Settle)
	assert.Equal(t, "normal", job.Logging.Verbosity)
}

func TestLoadJob_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
	}{
		{name: "unknown key", content: "chanel: C1\n"},
		{name: "not yaml", content: "workspace: [unterminated\n"},
		{name: "bad workspace", content: "workspace: http://acme.slack.com\n", is: slack.ErrInvalidFormat},
		{name: "negative timeout", content: "timeouts:\n  post: -5s\n"},
		{name: "negative settle", content: "timeouts:\n  settle: -1s\n"},
		{name: "bad verbosity", content: "logging:\n  verbosity: loud\n"},
		{name: "bad pattern", content: "constraints:\n  denied_channels: [\"C[1\"]\n"},
		{name: "padded channel", content: "channel: \" C1\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJob(writeJob(t, tt.content))
			require.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}

func TestLoadJob_MissingFile(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
