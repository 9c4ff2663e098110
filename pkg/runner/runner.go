package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/slackpost/pkg/browser"
	"github.com/entrhq/slackpost/pkg/logging"
	"github.com/entrhq/slackpost/pkg/slack"
)

// Flows
const (
	FlowLogin = "login"
	FlowPost  = "post"
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Launcher starts and tears down the browser for a run.
// *browser.Launcher satisfies it.
type Launcher interface {
	Launch(opts browser.SessionOptions) (browser.Driver, error)
	Shutdown() error
}

// Options configures a Runner. Zero durations use the slack package
// defaults; SettleDelay is used as given.
type Options struct {
	Session      browser.SessionOptions
	LoginTimeout time.Duration
	PostTimeout  time.Duration
	SettleDelay  time.Duration

	AllowedChannels []string
	DeniedChannels  []string

	// Confirm blocks until the operator has logged in. Defaults to waiting
	// for Enter on stdin.
	Confirm slack.Confirmer

	// Rand picks among message candidates. Nil uses the global source.
	Rand *rand.Rand

	Logger   *logging.Logger
	Reporter *Reporter
}

// PostRequest names what to post and where.
type PostRequest struct {
	Workspace string
	Channel   string
	Messages  []string
}

// Summary describes the outcome of one run.
type Summary struct {
	ID        string        `json:"id"`
	Flow      string        `json:"flow"`
	Workspace string        `json:"workspace,omitempty"`
	Channel   string        `json:"channel,omitempty"`
	Message   string        `json:"message,omitempty"`
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	LogPath   string        `json:"log_path,omitempty"`

	// LastURL is the page the browser was on when the run failed.
	LastURL string `json:"last_url,omitempty"`
}

// Runner sequences the login and post flows around a single browser
// session.
type Runner struct {
	launcher Launcher
	store    slack.CookieStore
	opts     Options
	guard    *ChannelGuard
	logger   *logging.Logger
	reporter *Reporter
}

// New creates a runner. It fails only on invalid channel patterns.
func New(launcher Launcher, store slack.CookieStore, opts Options) (*Runner, error) {
	guard, err := NewChannelGuard(opts.AllowedChannels, opts.DeniedChannels)
	if err != nil {
		return nil, err
	}

	if opts.Confirm == nil {
		opts.Confirm = StdinConfirmer(nil, nil)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard("runner")
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NewReporter(io.Discard, VerbosityQuiet)
	}

	return &Runner{
		launcher: launcher,
		store:    store,
		opts:     opts,
		guard:    guard,
		logger:   logger,
		reporter: reporter,
	}, nil
}

func (r *Runner) newSummary(flow string) *Summary {
	return &Summary{
		ID:        uuid.New().String(),
		Flow:      flow,
		Status:    "running",
		StartTime: time.Now(),
		LogPath:   r.logger.LogPath(),
	}
}

func (r *Runner) finish(s *Summary, err error) (*Summary, error) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	if err != nil {
		s.Status = StatusFailed
		s.Error = Describe(err)
		r.logger.Errorf("%s failed: %v", s.Flow, err)
	} else {
		s.Status = StatusSuccess
		r.logger.Infof("%s finished in %s", s.Flow, s.Duration)
	}
	return s, err
}

// withBrowser launches a session, runs fn and always shuts the browser down,
// including when fn panics. A shutdown failure is logged but does not fail
// an otherwise successful run. When fn fails the current page is recorded
// in s.
func (r *Runner) withBrowser(s *Summary, opts browser.SessionOptions, workspace string, fn func(*slack.Automator) error) error {
	defer func() {
		if err := r.launcher.Shutdown(); err != nil {
			r.logger.Warnf("browser shutdown: %v", err)
			r.reporter.Warningf("browser did not shut down cleanly: %v", err)
		}
	}()

	r.logger.Debugf("launching browser (headless=%t)", opts.Headless)
	driver, err := r.launcher.Launch(opts)
	if err != nil {
		return err
	}

	automator := slack.NewAutomator(driver, r.store, workspace,
		slack.WithSettleDelay(r.opts.SettleDelay),
		slack.WithLogger(r.logger),
	)
	if err := fn(automator); err != nil {
		s.LastURL = driver.URL()
		r.logger.Debugf("browser was on %s", s.LastURL)
		return err
	}
	return nil
}

// Login opens a visible browser on the Slack sign-in page, waits for the
// operator to confirm and saves the session cookies.
func (r *Runner) Login(ctx context.Context) (*Summary, error) {
	summary := r.newSummary(FlowLogin)
	r.logger.Infof("starting login capture")

	if err := ctx.Err(); err != nil {
		return r.finish(summary, err)
	}

	opts := r.opts.Session
	opts.Headless = false

	err := r.withBrowser(summary, opts, "", func(a *slack.Automator) error {
		r.reporter.Step("Opening Slack sign-in page")
		r.reporter.Infof("Log in in the browser window, then return here.")
		if err := a.CaptureLogin(ctx, r.opts.Confirm); err != nil {
			return err
		}
		r.reporter.Successf("Session cookies saved")
		return nil
	})

	return r.finish(summary, err)
}

// Post restores the saved session and posts one of req.Messages to
// req.Channel. Everything that can be checked without a browser is checked
// before one is launched.
func (r *Runner) Post(ctx context.Context, req PostRequest) (*Summary, error) {
	summary := r.newSummary(FlowPost)
	summary.Workspace = req.Workspace
	summary.Channel = req.Channel

	if err := slack.ValidateWorkspaceURL(req.Workspace); err != nil {
		return r.finish(summary, err)
	}
	if req.Channel == "" {
		return r.finish(summary, fmt.Errorf("%w: channel ID is required", slack.ErrInvalidChannel))
	}

	message, err := slack.PickMessage(req.Messages, r.opts.Rand)
	if err != nil {
		return r.finish(summary, err)
	}
	summary.Message = message
	r.logger.Debugf("picked message %q from %d candidates", message, len(req.Messages))

	if err := r.guard.Check(req.Channel); err != nil {
		return r.finish(summary, err)
	}

	if err := ctx.Err(); err != nil {
		return r.finish(summary, err)
	}

	err = r.withBrowser(summary, r.opts.Session, req.Workspace, func(a *slack.Automator) error {
		r.reporter.Step("Restoring saved session")
		if err := a.RestoreSession(r.opts.LoginTimeout); err != nil {
			return err
		}
		r.reporter.Verbosef("logged in to %s", req.Workspace)

		if err := ctx.Err(); err != nil {
			return err
		}

		r.reporter.Step(fmt.Sprintf("Opening channel %s", req.Channel))
		if err := a.NavigateToChannel(req.Channel); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		r.reporter.Step("Posting message")
		if err := a.PostMessage(ctx, message, r.opts.PostTimeout); err != nil {
			return err
		}
		r.reporter.Successf("Message '%s' posted successfully.", message)
		return nil
	})

	return r.finish(summary, err)
}

// StdinConfirmer returns a Confirmer that prints a prompt to out and waits
// for a line on in. Nil arguments mean os.Stdin and os.Stdout.
func StdinConfirmer(in io.Reader, out io.Writer) slack.Confirmer {
	return func(ctx context.Context) error {
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}

		fmt.Fprint(out, "Press Enter after you have logged in manually...")

		done := make(chan error, 1)
		// On cancellation this goroutine stays blocked on in until the process exits.
		go func() {
			_, err := bufio.NewReader(in).ReadString('\n')
			if err == io.EOF {
				err = nil
			}
			done <- err
		}()

		select {
		case err := <-done:
			fmt.Fprintln(out)
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
