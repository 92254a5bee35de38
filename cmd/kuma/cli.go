package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/ludo-technologies/kuma/app"
	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/config"
	"github.com/ludo-technologies/kuma/internal/constants"
	"github.com/ludo-technologies/kuma/internal/logging"
	"github.com/ludo-technologies/kuma/internal/version"
	"github.com/ludo-technologies/kuma/service"
	"github.com/spf13/cobra"
)

// CLI is one kuma invocation with its process collaborators
type CLI struct {
	stdout io.Writer
	stderr io.Writer

	runner     domain.CommandRunner
	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)
	exit       func(code int)
	homeDir    func() (string, error)

	// beforeRun, when set, sees the dispatcher after the interrupt
	// handler is installed
	beforeRun func(d *service.Dispatcher)
}

func newCLI(stdout, stderr io.Writer) *CLI {
	return &CLI{
		stdout:     stdout,
		stderr:     stderr,
		runner:     service.NewExecCommandRunner(),
		notify:     signal.Notify,
		stopNotify: signal.Stop,
		exit:       os.Exit,
		homeDir:    os.UserHomeDir,
	}
}

// Run executes kuma with args and returns the process exit code
func (c *CLI) Run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(c.stderr, "%v\n%s", r, debug.Stack())
			code = constants.ExitFailure
		}
	}()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	err := root.Execute()
	if err == nil {
		return constants.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(c.stderr, "Error: %s\n", exitErr.Message)
		}
		return exitErr.Code
	}

	var fatal *fatalError
	if errors.As(err, &fatal) {
		fmt.Fprintln(c.stderr, fatal.Error())
		c.stderr.Write(fatal.stack)
		return constants.ExitFailure
	}

	fmt.Fprintf(c.stderr, "Error: %v\n", err)
	return constants.ExitFailure
}

func (c *CLI) rootCmd() *cobra.Command {
	var opts domain.Options

	cmd := &cobra.Command{
		Use:   "kuma [options] [paths...]",
		Short: "kuma - runs flay, flog and rubocop as one check",
		Long: `kuma runs the flay duplication detector, the flog complexity reporter and
the rubocop style checker against the given paths (default: the current
directory), forwards their reports and exits 0 only when every tool passed.

Examples:
  # Check the current directory
  kuma

  # Check selected paths with the extended rule set
  kuma -R app lib

  # Use an explicit configuration file
  kuma -c config/kuma.yml

  # Record the current findings in .kuma_todo.yml
  kuma --auto-gen-config`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, opts, args)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fatal(err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.Format, "format", "f", "",
		"Output format passed to tools that support one")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "",
		"Configuration file used for every target")
	flags.BoolVarP(&opts.ExtendedRules, "extended-rules", "R", false,
		"Enable the extended rule set")
	flags.BoolVar(&opts.AutoGenConfig, "auto-gen-config", false,
		fmt.Sprintf("Generate %s tolerating the current findings", constants.TodoFileName))
	flags.BoolVar(&opts.Version, "version", false,
		"Display version")
	flags.BoolVar(&opts.VerboseVersion, "verbose-version", false,
		"Display verbose version")
	flags.BoolVarP(&opts.Debug, "debug", "d", false,
		"Display debug info")
	flags.BoolVar(&opts.JSON, "json", false,
		"Write a JSON run report to stdout instead of the tool output")
	flags.StringSliceVar(&opts.Only, "only", nil,
		"Run only the named tools (comma-separated)")
	flags.BoolVar(&opts.NoProgress, "no-progress", false,
		"Disable the progress bar")

	cmd.AddCommand(initCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// runCheck is the lifecycle of a check run
func (c *CLI) runCheck(cmd *cobra.Command, opts domain.Options, paths []string) error {
	if opts.HasExitingOption() {
		if opts.Version {
			fmt.Fprintln(c.stdout, version.GetVersion())
		}
		if opts.VerboseVersion {
			fmt.Fprintln(c.stdout, version.GetFullVersion())
		}
		return nil
	}

	logger := logging.New(c.stderr, opts.Debug)
	ctx := logging.WithLogger(cmd.Context(), logger)

	loader := config.NewLoader(c.stderr, logger)
	loader.AutoGenConfig = opts.AutoGenConfig
	loader.HomeDir = c.homeDir
	store := config.NewStore(loader)
	if opts.ConfigPath != "" {
		if err := store.SetOptionsConfig(opts.ConfigPath); err != nil {
			return fatal(err)
		}
	}

	out := c.stdout
	if opts.JSON {
		out = io.Discard
	}

	abort := &domain.AbortState{}
	dispatcher := service.NewDispatcher(opts, store, app.NewTargetResolver(), c.runner, out, abort)
	progress := service.NewProgressManager(!opts.NoProgress && !opts.JSON)
	defer progress.Close()
	dispatcher.SetProgressManager(progress)

	stop := c.trapInterrupt(dispatcher)
	defer stop()

	if c.beforeRun != nil {
		c.beforeRun(dispatcher)
	}

	start := time.Now()
	passed := dispatcher.Run(ctx, paths)
	duration := time.Since(start)
	stop()
	progress.Close()

	if opts.AutoGenConfig {
		notices := c.stdout
		if opts.JSON {
			notices = c.stderr
		}
		if _, err := app.NewTodoUseCase(notices).Generate(dispatcher.Results(), constants.TodoFileName); err != nil {
			return fatal(err)
		}
	}

	exitCode := constants.ExitSuccess
	if !passed || dispatcher.Aborting() {
		exitCode = constants.ExitFailure
	}

	if opts.JSON {
		report := service.NewRunReport(dispatcher.Results(), dispatcher.Errors(), passed, dispatcher.Aborting(), exitCode, duration)
		if err := service.WriteRunReport(c.stdout, report); err != nil {
			return fatal(err)
		}
	}

	if err := service.WriteErrorSummary(c.stderr, dispatcher.Errors()); err != nil {
		return fatal(err)
	}

	if exitCode != constants.ExitSuccess {
		return &ExitError{Code: exitCode}
	}
	return nil
}

func fatal(err error) error {
	return &fatalError{err: err, stack: debug.Stack()}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "kuma version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
