package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/slackpost/pkg/browser"
	"github.com/entrhq/slackpost/pkg/browser/browsertest"
	appconfig "github.com/entrhq/slackpost/pkg/config"
	"github.com/entrhq/slackpost/pkg/cookies"
	"github.com/entrhq/slackpost/pkg/runner"
	"github.com/entrhq/slackpost/pkg/slack"
)

const (
	testWorkspace = "https://acme.slack.com"
	testChannel   = "C0123456789"
)

func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "slackpost-home")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", home)
	os.Unsetenv(workspaceEnv)

	code := m.Run()
	os.RemoveAll(home)
	os.Exit(code)
}

func parse(t *testing.T, args ...string) *CLIConfig {
	t.Helper()
	fs := flag.NewFlagSet("slackpost", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cli, err := parseFlags(fs, args)
	require.NoError(t, err)
	return cli
}

func TestParseFlags(t *testing.T) {
	cli := parse(t,
		"-workspace", testWorkspace,
		"-channel", testChannel,
		"-message", "first",
		"-message", "second",
		"-settle", "2s",
		"third", "fourth",
	)

	assert.Equal(t, testWorkspace, cli.Workspace)
	assert.Equal(t, testChannel, cli.Channel)
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, []string(cli.Messages))
	assert.Equal(t, 2*time.Second, cli.Settle)
	assert.True(t, cli.set["settle"])
	assert.False(t, cli.set["headless"])
}

func TestParseFlags_WorkspaceFromEnvironment(t *testing.T) {
	t.Setenv(workspaceEnv, "https://env.slack.com")

	cli := parse(t, "-channel", testChannel)
	assert.Equal(t, "https://env.slack.com", cli.Workspace)
	assert.False(t, cli.set["workspace"])
}

func TestParseFlags_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-verbosity", "loud"},
		{"-no-such-flag"},
		{"-settle", "soon"},
	} {
		fs := flag.NewFlagSet("slackpost", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		_, err := parseFlags(fs, args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestResolve(t *testing.T) {
	settle := 3 * time.Second
	headless := true
	job := &runner.Job{
		Workspace:  "https://job.slack.com",
		Channel:    "CJOB",
		Messages:   []string{"from job"},
		CookieFile: "job.gob",
		Headless:   &headless,
		Timeouts:   runner.TimeoutConfig{Settle: &settle},
		Logging:    runner.LoggingConfig{Verbosity: "quiet"},
	}
	slackSettings := appconfig.NewSlackSection().Settings()
	slackSettings.WorkspaceURL = "https://config.slack.com"
	browserSettings := appconfig.NewBrowserSection().Settings()

	t.Run("settings only", func(t *testing.T) {
		opts, err := resolve(parse(t, "-channel", "C1"), nil, slackSettings, browserSettings)
		require.NoError(t, err)

		assert.Equal(t, "https://config.slack.com", opts.Workspace)
		assert.Equal(t, cookies.DefaultFileName, opts.CookieFile)
		assert.Equal(t, slack.DefaultSettleDelay, opts.SettleDelay)
		assert.Equal(t, runner.VerbosityNormal, opts.Verbosity)
		assert.Equal(t, browserSettings.ViewportWidth, opts.Session.Viewport.Width)
	})

	t.Run("job overrides settings", func(t *testing.T) {
		opts, err := resolve(parse(t), job, slackSettings, browserSettings)
		require.NoError(t, err)

		assert.Equal(t, "https://job.slack.com", opts.Workspace)
		assert.Equal(t, "CJOB", opts.Channel)
		assert.Equal(t, []string{"from job"}, opts.Messages)
		assert.Equal(t, "job.gob", opts.CookieFile)
		assert.True(t, opts.Session.Headless)
		assert.Equal(t, settle, opts.SettleDelay)
		assert.Equal(t, runner.VerbosityQuiet, opts.Verbosity)
	})

	t.Run("flags override job", func(t *testing.T) {
		cli := parse(t,
			"-workspace", testWorkspace,
			"-channel", testChannel,
			"-message", "from flag",
			"-cookies", "flag.gob",
			"-headless=false",
			"-settle", "0s",
			"-timeout", "5s",
			"-verbosity", "debug",
		)
		opts, err := resolve(cli, job, slackSettings, browserSettings)
		require.NoError(t, err)

		assert.Equal(t, testWorkspace, opts.Workspace)
		assert.Equal(t, testChannel, opts.Channel)
		assert.Equal(t, []string{"from flag"}, opts.Messages)
		assert.Equal(t, "flag.gob", opts.CookieFile)
		assert.False(t, opts.Session.Headless)
		assert.Zero(t, opts.SettleDelay)
		assert.Equal(t, 5*time.Second, opts.LoginTimeout)
		assert.Equal(t, 5*time.Second, opts.PostTimeout)
		assert.Equal(t, runner.VerbosityDebug, opts.Verbosity)
	})

	t.Run("job beats environment", func(t *testing.T) {
		t.Setenv(workspaceEnv, "https://env.slack.com")
		opts, err := resolve(parse(t), job, slackSettings, browserSettings)
		require.NoError(t, err)
		assert.Equal(t, "https://job.slack.com", opts.Workspace)
	})

	t.Run("post needs workspace and channel", func(t *testing.T) {
		_, err := resolve(parse(t, "-channel", "C1"), nil, appconfig.NewSlackSection().Settings(), browserSettings)
		assert.Error(t, err)

		_, err = resolve(parse(t, "-workspace", testWorkspace), nil, slackSettings, browserSettings)
		assert.Error(t, err)
	})

	t.Run("login needs neither", func(t *testing.T) {
		opts, err := resolve(parse(t, "-login"), nil, appconfig.NewSlackSection().Settings(), browserSettings)
		require.NoError(t, err)
		assert.True(t, opts.Login)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		_, err := resolve(parse(t, "-channel", "C1", "-timeout", "0s"), nil, slackSettings, browserSettings)
		assert.Error(t, err)
	})
}

// slackDriver serves a logged-in session (cookie "d") and testChannel.
func slackDriver() *browsertest.Driver {
	d := browsertest.NewDriver()
	d.SessionCookie = "d"
	d.LoggedInPage = &browsertest.Page{Elements: map[string]string{slack.LoginMarkerSelector: "me"}}
	d.Pages[slack.ChannelURL(testWorkspace, testChannel)] = browsertest.Page{Elements: map[string]string{
		slack.ChannelTitleSelector: "random",
		slack.MessageInputSelector: "",
		slack.SendButtonSelector:   "",
	}}
	return d
}

func runArgs(t *testing.T, launcher runner.Launcher, args ...string) (int, string) {
	t.Helper()
	dir := t.TempDir()
	args = append([]string{"-config", filepath.Join(dir, "config.json")}, args...)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), parse(t, args...), strings.NewReader(""), &stdout, &stderr, launcher)
	return code, stdout.String() + stderr.String()
}

func TestRun_Post(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "session.gob")
	require.NoError(t, cookies.NewFileStore(cookieFile).Save([]browser.Cookie{
		{Name: "d", Value: "xoxd-1", Domain: ".slack.com", Path: "/", Expires: -1},
	}))

	driver := slackDriver()
	launcher := browsertest.NewLauncher(driver)

	code, out := runArgs(t, launcher,
		"-workspace", testWorkspace,
		"-channel", testChannel,
		"-cookies", cookieFile,
		"-settle", "0s",
		"-message", "Good morning!",
	)

	assert.Equal(t, exitOK, code, out)
	assert.Equal(t, []string{"Good morning!"}, driver.Typed[slack.MessageInputSelector])
	assert.Equal(t, 1, launcher.Shutdowns)
	assert.Contains(t, out, "SUCCESS")
}

func TestRun_NoMessagesNeverLaunches(t *testing.T) {
	launcher := browsertest.NewLauncher(slackDriver())

	code, out := runArgs(t, launcher, "-workspace", testWorkspace, "-channel", testChannel)

	assert.Equal(t, exitFailure, code)
	assert.Zero(t, launcher.Launches)
	assert.Contains(t, out, "no message to post")
}

func TestRun_NotLoggedIn(t *testing.T) {
	launcher := browsertest.NewLauncher(slackDriver())

	code, out := runArgs(t, launcher,
		"-workspace", testWorkspace,
		"-channel", testChannel,
		"-cookies", filepath.Join(t.TempDir(), "missing.gob"),
		"-message", "hi",
	)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, "not logged in to Slack")
	assert.Equal(t, 1, launcher.Shutdowns)
}

func TestRun_UsageErrors(t *testing.T) {
	launcher := browsertest.NewLauncher(slackDriver())

	code, _ := runArgs(t, launcher, "-workspace", testWorkspace, "-message", "hi")
	assert.Equal(t, exitUsage, code)

	code, _ = runArgs(t, launcher, "-job", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, exitUsage, code)

	assert.Zero(t, launcher.Launches)
}

func TestRun_InvalidWorkspace(t *testing.T) {
	launcher := browsertest.NewLauncher(slackDriver())

	code, out := runArgs(t, launcher, "-workspace", "https://acme.slack.com/", "-channel", testChannel, "-message", "hi")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, "invalid workspace URL format")
	assert.Zero(t, launcher.Launches)
}

func TestRun_JobFile(t *testing.T) {
	dir := t.TempDir()
	cookieFile := filepath.Join(dir, "session.gob")
	require.NoError(t, cookies.NewFileStore(cookieFile).Save([]browser.Cookie{{Name: "d", Value: "v", Domain: ".slack.com", Path: "/"}}))

	jobFile := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(jobFile, []byte(`
workspace: `+testWorkspace+`
channel: `+testChannel+`
messages: ["from the job"]
cookie_file: `+cookieFile+`
timeouts:
  settle: 0s
logging:
  verbosity: quiet
`), 0600))

	driver := slackDriver()
	code, out := runArgs(t, browsertest.NewLauncher(driver), "-job", jobFile)

	assert.Equal(t, exitOK, code, out)
	assert.Equal(t, []string{"from the job"}, driver.Typed[slack.MessageInputSelector])
	assert.Contains(t, out, "post succeeded")
}

func TestRun_LoginSavesWorkspace(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.json")
	cookieFile := filepath.Join(dir, "session.gob")

	tests := []struct {
		name          string
		args          []string
		wantCode      int
		wantWorkspace string
	}{
		{
			name:     "login without workspace leaves settings alone",
			args:     []string{"-login"},
			wantCode: exitOK,
		},
		{
			name:          "login with workspace records it",
			args:          []string{"-login", "-workspace", testWorkspace},
			wantCode:      exitOK,
			wantWorkspace: testWorkspace,
		},
		{
			name:          "invalid workspace is rejected before launch",
			args:          []string{"-login", "-workspace", "acme.slack.com"},
			wantCode:      exitUsage,
			wantWorkspace: testWorkspace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := browsertest.NewDriver()
			driver.SetCookies([]browser.Cookie{{Name: "d", Value: "xoxd-new", Domain: ".slack.com", Path: "/"}})
			launcher := browsertest.NewLauncher(driver)

			args := append([]string{"-config", configFile, "-cookies", cookieFile}, tt.args...)
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), parse(t, args...), strings.NewReader("\n"), &stdout, &stderr, launcher)
			require.Equal(t, tt.wantCode, code, stdout.String()+stderr.String())

			if tt.wantCode == exitOK {
				assert.Equal(t, 1, launcher.Launches)
				assert.FileExists(t, cookieFile)
			} else {
				assert.Zero(t, launcher.Launches)
			}

			require.NoError(t, appconfig.Initialize(configFile))
			assert.Equal(t, tt.wantWorkspace, appconfig.GetSlack().Settings().WorkspaceURL)
		})
	}
}
