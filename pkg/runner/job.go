package runner

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/slackpost/pkg/slack"
)

// Job describes a routine post, typically run from cron:
//
//	workspace: https://acme.slack.com
//	channel: C0123456789
//	messages:
//	  - "Good morning!"
//	  - "Morning all"
//	headless: true
//	timeouts:
//	  settle: 5s
//	constraints:
//	  denied_channels: ["C0GENERAL*"]
//	logging:
//	  verbosity: quiet
//
// Any field left out falls back to flags, then to the settings file.
type Job struct {
	Workspace   string             `yaml:"workspace"`
	Channel     string             `yaml:"channel"`
	Messages    []string           `yaml:"messages"`
	CookieFile  string             `yaml:"cookie_file"`
	Headless    *bool              `yaml:"headless"`
	Timeouts    TimeoutConfig      `yaml:"timeouts"`
	Constraints ChannelConstraints `yaml:"constraints"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// TimeoutConfig holds wait durations. Zero means unset. Settle is a pointer
// because a zero settle delay is a meaningful choice.
type TimeoutConfig struct {
	Login  time.Duration  `yaml:"login"`
	Post   time.Duration  `yaml:"post"`
	Settle *time.Duration `yaml:"settle"`
}

// ChannelConstraints limits which channels the job may post to.
type ChannelConstraints struct {
	AllowedChannels []string `yaml:"allowed_channels"`
	DeniedChannels  []string `yaml:"denied_channels"`
}

// LoggingConfig defines console output settings
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity"`
}

// LoadJob reads and validates a YAML job file. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job Job
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", path, err)
	}
	return &job, nil
}

// Validate checks the values that are present and fills in the default
// verbosity.
func (j *Job) Validate() error {
	if j.Workspace != "" {
		if err := slack.ValidateWorkspaceURL(j.Workspace); err != nil {
			return err
		}
	}

	if strings.TrimSpace(j.Channel) != j.Channel {
		return fmt.Errorf("channel %q has surrounding whitespace", j.Channel)
	}

	if j.Timeouts.Login < 0 {
		return fmt.Errorf("timeouts.login cannot be negative")
	}
	if j.Timeouts.Post < 0 {
		return fmt.Errorf("timeouts.post cannot be negative")
	}
	if j.Timeouts.Settle != nil && *j.Timeouts.Settle < 0 {
		return fmt.Errorf("timeouts.settle cannot be negative")
	}

	if _, err := NewChannelGuard(j.Constraints.AllowedChannels, j.Constraints.DeniedChannels); err != nil {
		return err
	}

	if j.Logging.Verbosity == "" {
		j.Logging.Verbosity = "normal"
	}
	if _, err := ParseVerbosity(j.Logging.Verbosity); err != nil {
		return err
	}

	return nil
}
