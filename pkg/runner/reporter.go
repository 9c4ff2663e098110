package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/slackpost/pkg/browser"
	"github.com/entrhq/slackpost/pkg/cookies"
	"github.com/entrhq/slackpost/pkg/slack"
)

// Verbosity controls how much the Reporter prints.
type Verbosity int

const (
	// VerbosityQuiet shows only warnings, errors and the final summary
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal shows each step (default)
	VerbosityNormal
	// VerbosityVerbose adds detail lines
	VerbosityVerbose
	// VerbosityDebug adds everything
	VerbosityDebug
)

// ParseVerbosity converts quiet, normal, verbose or debug to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "quiet":
		return VerbosityQuiet, nil
	case "", "normal":
		return VerbosityNormal, nil
	case "verbose":
		return VerbosityVerbose, nil
	case "debug":
		return VerbosityDebug, nil
	default:
		return VerbosityNormal, fmt.Errorf("invalid verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", s)
	}
}

var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	mintGreen   = lipgloss.Color("#A8E6CF")
	amber       = lipgloss.Color("#FCD34D")
	errorRed    = lipgloss.Color("#F87171")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")

	ruleStyle    = lipgloss.NewStyle().Foreground(brightWhite).Bold(true)
	stepStyle    = lipgloss.NewStyle().Foreground(salmonPink)
	successStyle = lipgloss.NewStyle().Foreground(mintGreen).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(brightWhite)
	warnStyle    = lipgloss.NewStyle().Foreground(amber)
	errorStyle   = lipgloss.NewStyle().Foreground(errorRed).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(mutedGray)
)

// Reporter prints run progress for the operator.
type Reporter struct {
	level     Verbosity
	writer    io.Writer
	stepCount int
}

// NewReporter creates a reporter writing to w (stdout when nil).
func NewReporter(w io.Writer, level Verbosity) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{level: level, writer: w}
}

func (r *Reporter) println(style lipgloss.Style, s string) {
	fmt.Fprintln(r.writer, style.Render(s))
}

// Step prints a numbered step.
func (r *Reporter) Step(message string) {
	if r.level >= VerbosityNormal {
		r.stepCount++
		r.println(stepStyle, fmt.Sprintf("[%d] %s", r.stepCount, message))
	}
}

// Successf prints a success line.
func (r *Reporter) Successf(format string, args ...interface{}) {
	if r.level >= VerbosityNormal {
		r.println(successStyle, "✓ "+fmt.Sprintf(format, args...))
	}
}

// Infof prints an informational line.
func (r *Reporter) Infof(format string, args ...interface{}) {
	if r.level >= VerbosityNormal {
		r.println(infoStyle, fmt.Sprintf(format, args...))
	}
}

// Warningf prints a warning at every level.
func (r *Reporter) Warningf(format string, args ...interface{}) {
	r.println(warnStyle, "⚠ Warning: "+fmt.Sprintf(format, args...))
}

// Errorf prints an error at every level.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.println(errorStyle, "✗ Error: "+fmt.Sprintf(format, args...))
}

// Verbosef prints detail in verbose mode.
func (r *Reporter) Verbosef(format string, args ...interface{}) {
	if r.level >= VerbosityVerbose {
		r.println(detailStyle, "→ "+fmt.Sprintf(format, args...))
	}
}

// Debugf prints internals in debug mode.
func (r *Reporter) Debugf(format string, args ...interface{}) {
	if r.level >= VerbosityDebug {
		r.println(detailStyle, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

// Summary prints the final run summary. Quiet runs get a single line.
func (r *Reporter) Summary(s *Summary) {
	if s == nil {
		return
	}

	if r.level == VerbosityQuiet {
		if s.Status == StatusSuccess {
			r.println(successStyle, fmt.Sprintf("✓ %s succeeded in %s", s.Flow, s.Duration.Round(time.Millisecond)))
		} else {
			r.println(errorStyle, fmt.Sprintf("✗ %s failed: %s", s.Flow, s.Error))
		}
		return
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(r.writer)
	r.println(ruleStyle, rule)
	r.println(ruleStyle, "  RUN SUMMARY")
	r.println(ruleStyle, rule)

	if s.Status == StatusSuccess {
		fmt.Fprintf(r.writer, "  Status: %s\n", successStyle.Render("✓ SUCCESS"))
	} else {
		fmt.Fprintf(r.writer, "  Status: %s\n", errorStyle.Render("✗ FAILED"))
	}
	fmt.Fprintf(r.writer, "  Flow: %s\n", s.Flow)
	if s.Workspace != "" {
		fmt.Fprintf(r.writer, "  Workspace: %s\n", s.Workspace)
	}
	if s.Channel != "" {
		fmt.Fprintf(r.writer, "  Channel: %s\n", s.Channel)
	}
	if s.Message != "" {
		fmt.Fprintf(r.writer, "  Message: %q\n", s.Message)
	}
	fmt.Fprintf(r.writer, "  Duration: %s\n", s.Duration.Round(time.Millisecond))

	if r.level >= VerbosityVerbose {
		fmt.Fprintf(r.writer, "  Run ID: %s\n", s.ID)
		if s.LogPath != "" {
			fmt.Fprintf(r.writer, "  Log: %s\n", s.LogPath)
		}
		if s.LastURL != "" {
			fmt.Fprintf(r.writer, "  Page: %s\n", s.LastURL)
		}
	}

	if s.Error != "" {
		fmt.Fprintln(r.writer)
		r.println(errorStyle, "  Error Details:")
		fmt.Fprintf(r.writer, "    %s\n", s.Error)
	}

	r.println(ruleStyle, rule)
}

// Describe turns an error into the message shown to the operator, one per
// failure category.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "Interrupted before the run finished."
	case errors.Is(err, context.DeadlineExceeded):
		return "The run exceeded its time limit."
	case errors.Is(err, slack.ErrNotLoggedIn):
		return "You're not logged in to Slack. Please ensure you have valid cookies or use the -login flag."
	case errors.Is(err, cookies.ErrCookieFile):
		return "There was an issue with the cookie file. It might be corrupted, missing, or there might be permission issues."
	case errors.Is(err, slack.ErrInvalidFormat),
		errors.Is(err, slack.ErrInvalidChannel),
		errors.Is(err, slack.ErrNoMessage),
		errors.Is(err, ErrChannelNotAllowed):
		return err.Error()
	case errors.Is(err, browser.ErrElementNotFound):
		return "A necessary web element was not found. Slack's UI might have changed."
	case errors.Is(err, browser.ErrTimeout):
		return "Operation timed out. Ensure you have a stable internet connection."
	case errors.Is(err, browser.ErrDriver):
		return "There was an issue with the browser driver. Ensure Playwright and its browsers are installed and up-to-date."
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
