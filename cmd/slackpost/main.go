// Package main provides slackpost, a command line tool that posts a message
// to a Slack channel through a real browser session. A one-time interactive
// login saves the session cookies; later runs reuse them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/entrhq/slackpost/pkg/browser"
	appconfig "github.com/entrhq/slackpost/pkg/config"
	"github.com/entrhq/slackpost/pkg/cookies"
	"github.com/entrhq/slackpost/pkg/logging"
	"github.com/entrhq/slackpost/pkg/runner"
	"github.com/entrhq/slackpost/pkg/slack"
)

const version = "0.1.0"

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// workspaceEnv supplies the default for -workspace.
const workspaceEnv = "SLACKPOST_WORKSPACE"

// messageList collects repeated -message flags.
type messageList []string

func (m *messageList) String() string {
	return strings.Join(*m, ", ")
}

func (m *messageList) Set(value string) error {
	*m = append(*m, value)
	return nil
}

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Workspace   string
	Login       bool
	Channel     string
	Messages    messageList
	CookieFile  string
	ConfigFile  string
	JobFile     string
	Headless    bool
	Settle      time.Duration
	Timeout     time.Duration
	Verbosity   string
	ShowVersion bool

	// set records which flags appeared on the command line
	set map[string]bool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cli, err := parseFlags(flag.NewFlagSet("slackpost", flag.ContinueOnError), os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}
		os.Exit(exitUsage)
	}

	if cli.ShowVersion {
		fmt.Printf("slackpost v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	code := run(ctx, cli, os.Stdin, os.Stdout, os.Stderr, nil)
	cancel()
	os.Exit(code)
}

// parseFlags parses args into a CLIConfig. Positional arguments are extra
// message candidates.
func parseFlags(flags *flag.FlagSet, args []string) (*CLIConfig, error) {
	cli := &CLIConfig{}

	flags.StringVar(&cli.Workspace, "workspace", os.Getenv(workspaceEnv), "Slack workspace URL, e.g. https://company.slack.com (env "+workspaceEnv+")")
	flags.BoolVar(&cli.Login, "login", false, "Log in manually in a browser window and save the session cookies")
	flags.StringVar(&cli.Channel, "channel", "", "ID of the channel to post to")
	flags.Var(&cli.Messages, "message", "Message to post; repeat to give candidates, one is chosen at random")
	flags.StringVar(&cli.CookieFile, "cookies", "", "Cookie file (default "+cookies.DefaultFileName+")")
	flags.StringVar(&cli.ConfigFile, "config", "", "Settings file (default ~/.slackpost/config.json)")
	flags.StringVar(&cli.JobFile, "job", "", "YAML job file describing the post")
	flags.BoolVar(&cli.Headless, "headless", false, "Run the browser without a window when posting")
	flags.DurationVar(&cli.Settle, "settle", 0, "Pause after pressing send (default 10s)")
	flags.DurationVar(&cli.Timeout, "timeout", 0, "Maximum wait for the login check and the message box (default 30s)")
	flags.StringVar(&cli.Verbosity, "verbosity", "normal", "Console output: quiet, normal, verbose or debug")
	flags.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flags.Usage = func() {
		out := flags.Output()
		fmt.Fprintf(out, "slackpost - post to Slack through a saved browser session\n\n")
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  slackpost -login\n")
		fmt.Fprintf(out, "  slackpost -workspace URL -channel ID -message TEXT [-message TEXT ...] [TEXT ...]\n")
		fmt.Fprintf(out, "  slackpost -job job.yaml\n\n")
		fmt.Fprintf(out, "Options:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cli.Messages = append(cli.Messages, flags.Args()...)

	cli.set = make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		cli.set[f.Name] = true
	})

	if _, err := runner.ParseVerbosity(cli.Verbosity); err != nil {
		fmt.Fprintln(flags.Output(), err)
		return nil, err
	}

	return cli, nil
}

// run executes one login or post and returns the process exit code.
// A nil launcher means a real Playwright browser. The login flow waits for
// a line on stdin.
func run(ctx context.Context, cli *CLIConfig, stdin io.Reader, stdout, stderr io.Writer, launcher runner.Launcher) int {
	var job *runner.Job
	if cli.JobFile != "" {
		var err error
		job, err = runner.LoadJob(cli.JobFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}

	if err := appconfig.Initialize(cli.ConfigFile); err != nil {
		fmt.Fprintf(stderr, "Error: failed to load settings: %v\n", err)
		return exitUsage
	}

	opts, err := resolve(cli, job, appconfig.GetSlack().Settings(), appconfig.GetBrowser().Settings())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if opts.SaveWorkspace {
		if err := slack.ValidateWorkspaceURL(opts.Workspace); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}

	logger, logErr := logging.NewLogger("slackpost")
	defer logger.Close()
	if opts.Verbosity < runner.VerbosityDebug {
		logger.SetLevel(logging.LevelInfo)
	}

	reporter := runner.NewReporter(stdout, opts.Verbosity)
	if logErr != nil {
		reporter.Warningf("file logging unavailable: %v", logErr)
	}
	reporter.Debugf("run %s logging to %s", logger.RunID(), logger.LogPath())

	if launcher == nil {
		l := browser.NewLauncher()
		l.SkipInstall = opts.SkipInstall
		if opts.Verbosity == runner.VerbosityDebug {
			l.Output = logger.Writer()
		}
		launcher = l
	}

	r, err := runner.New(launcher, cookies.NewFileStore(opts.CookieFile), runner.Options{
		Session:         opts.Session,
		LoginTimeout:    opts.LoginTimeout,
		PostTimeout:     opts.PostTimeout,
		SettleDelay:     opts.SettleDelay,
		AllowedChannels: opts.AllowedChannels,
		DeniedChannels:  opts.DeniedChannels,
		Confirm:         runner.StdinConfirmer(stdin, stdout),
		Logger:          logger,
		Reporter:        reporter,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	var summary *runner.Summary
	if opts.Login {
		summary, err = r.Login(ctx)
		if err == nil && opts.SaveWorkspace {
			if saveErr := saveWorkspace(opts.Workspace); saveErr != nil {
				logger.Warnf("saving default workspace: %v", saveErr)
				reporter.Warningf("could not save the default workspace: %v", saveErr)
			} else {
				reporter.Successf("Saved %s as the default workspace", opts.Workspace)
			}
		}
	} else {
		summary, err = r.Post(ctx, runner.PostRequest{
			Workspace: opts.Workspace,
			Channel:   opts.Channel,
			Messages:  opts.Messages,
		})
	}

	reporter.Summary(summary)
	if err != nil {
		return exitFailure
	}
	return exitOK
}

// saveWorkspace makes url the default workspace in the settings file.
func saveWorkspace(url string) error {
	appconfig.GetSlack().SetWorkspaceURL(url)
	return appconfig.Global().SaveAll()
}
