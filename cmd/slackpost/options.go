package main

import (
	"fmt"
	"time"

	"github.com/entrhq/slackpost/pkg/browser"
	appconfig "github.com/entrhq/slackpost/pkg/config"
	"github.com/entrhq/slackpost/pkg/runner"
)

// runOptions is the merged result of flags, job file and settings.
type runOptions struct {
	Login bool
	// SaveWorkspace records Workspace as the default after a login.
	SaveWorkspace bool
	Workspace     string
	Channel   string
	Messages  []string

	CookieFile   string
	Session      browser.SessionOptions
	SkipInstall  bool
	LoginTimeout time.Duration
	PostTimeout  time.Duration
	SettleDelay  time.Duration

	AllowedChannels []string
	DeniedChannels  []string

	Verbosity runner.Verbosity
}

// resolve merges the sources in order of precedence: flags given on the
// command line, the job file, the environment, then the settings file.
func resolve(cli *CLIConfig, job *runner.Job, slack appconfig.SlackSettings, br appconfig.BrowserSettings) (*runOptions, error) {
	if job == nil {
		job = &runner.Job{}
	}

	opts := &runOptions{
		Login:           cli.Login,
		SaveWorkspace:   cli.Login && cli.set["workspace"],
		CookieFile:      slack.CookieFile,
		SkipInstall:     br.SkipInstall,
		LoginTimeout:    slack.LoginTimeout,
		PostTimeout:     slack.PostTimeout,
		SettleDelay:     slack.SettleDelay,
		AllowedChannels: slack.AllowedChannels,
		DeniedChannels:  slack.DeniedChannels,
		Session: browser.SessionOptions{
			Headless: br.Headless,
			Viewport: &browser.Viewport{Width: br.ViewportWidth, Height: br.ViewportHeight},
			Timeout:  br.Timeout,
			Channel:  br.Channel,
		},
	}

	// Workspace: explicit flag, job, environment (the flag default), settings
	switch {
	case cli.set["workspace"]:
		opts.Workspace = cli.Workspace
	case job.Workspace != "":
		opts.Workspace = job.Workspace
	case cli.Workspace != "":
		opts.Workspace = cli.Workspace
	default:
		opts.Workspace = slack.WorkspaceURL
	}

	opts.Channel = job.Channel
	if cli.set["channel"] {
		opts.Channel = cli.Channel
	}

	opts.Messages = job.Messages
	if len(cli.Messages) > 0 {
		opts.Messages = cli.Messages
	}

	if job.CookieFile != "" {
		opts.CookieFile = job.CookieFile
	}
	if cli.set["cookies"] {
		opts.CookieFile = cli.CookieFile
	}

	if job.Headless != nil {
		opts.Session.Headless = *job.Headless
	}
	if cli.set["headless"] {
		opts.Session.Headless = cli.Headless
	}

	if job.Timeouts.Login > 0 {
		opts.LoginTimeout = job.Timeouts.Login
	}
	if job.Timeouts.Post > 0 {
		opts.PostTimeout = job.Timeouts.Post
	}
	if cli.set["timeout"] {
		if cli.Timeout <= 0 {
			return nil, fmt.Errorf("-timeout must be positive, got %v", cli.Timeout)
		}
		opts.LoginTimeout = cli.Timeout
		opts.PostTimeout = cli.Timeout
	}

	if job.Timeouts.Settle != nil {
		opts.SettleDelay = *job.Timeouts.Settle
	}
	if cli.set["settle"] {
		if cli.Settle < 0 {
			return nil, fmt.Errorf("-settle cannot be negative, got %v", cli.Settle)
		}
		opts.SettleDelay = cli.Settle
	}

	if len(job.Constraints.AllowedChannels) > 0 {
		opts.AllowedChannels = job.Constraints.AllowedChannels
	}
	if len(job.Constraints.DeniedChannels) > 0 {
		opts.DeniedChannels = job.Constraints.DeniedChannels
	}

	verbosity := job.Logging.Verbosity
	if cli.set["verbosity"] || verbosity == "" {
		verbosity = cli.Verbosity
	}
	v, err := runner.ParseVerbosity(verbosity)
	if err != nil {
		return nil, err
	}
	opts.Verbosity = v

	if !opts.Login {
		if opts.Workspace == "" {
			return nil, fmt.Errorf("a workspace is required: use -workspace, %s or a job file", workspaceEnv)
		}
		if opts.Channel == "" {
			return nil, fmt.Errorf("a channel is required: use -channel or a job file")
		}
	}

	return opts, nil
}
