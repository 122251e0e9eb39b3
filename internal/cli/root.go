// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/f9-o/apiprobe/internal/cli/commands"
	"github.com/f9-o/apiprobe/internal/core/config"
	"github.com/f9-o/apiprobe/internal/core/logger"
	"github.com/f9-o/apiprobe/internal/probe"
	"github.com/f9-o/apiprobe/pkg/errs"
	"github.com/f9-o/apiprobe/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
type globalFlags struct {
	debug bool
}

// NewRootCmd builds the apiprobe command tree.
func NewRootCmd() *cobra.Command {
	var flags globalFlags

	runCmd := commands.NewRunCmd()

	root := &cobra.Command{
		Use:   "apiprobe",
		Short: "apiprobe — smoke tests for the diagnostic analysis API",
		Long: `apiprobe pings the diagnostic service, falls back to alternative URLs,
waits out a cold start if needed, and submits a fixed general diagnosis.
The exit code reflects the diagnosis alone. Without a subcommand it behaves
like "apiprobe run" with default fallbacks and cold-start delay.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "help" {
				return nil
			}
			return initRuntime(cmd, flags)
		},
	}

	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug-level logging")
	root.PersistentFlags().String("base-url", "", "Service base URL (env NEXT_PUBLIC_BACKEND_URL, then BACKEND_URL)")
	root.PersistentFlags().Duration("timeout", 0, "Per-request timeout; 0 waits indefinitely (env APIPROBE_TIMEOUT)")

	root.AddCommand(
		runCmd,
		commands.NewPingCmd(),
		commands.NewDiagnoseCmd(),
		commands.NewVersionCmd(),
	)

	origHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	return root
}

// Execute runs the CLI. Called by main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command tree with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	code, _ := execute(NewRootCmd(), args, stdout, stderr)
	return code
}

// execute runs root and releases the runtime of the command that ran,
// whether or not it failed. It returns the exit code and that command.
func execute(root *cobra.Command, args []string, stdout, stderr io.Writer) (int, *cobra.Command) {
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	p := pprint.New(stdout, stderr)
	if cmd != nil {
		if rt, ok := commands.Lookup(cmd.Context()); ok {
			if cerr := rt.Log.Close(); cerr != nil {
				p.Error("close log: %s", cerr)
			}
		}
	}

	if err != nil {
		if pe := errs.AsProbe(err); pe != nil {
			p.Error("%s", pe.UserMessage())
		} else {
			p.Error("%s", err)
		}
		return 1, cmd
	}
	return 0, cmd
}

// initRuntime loads config and logger and builds the HTTP client before each command runs.
func initRuntime(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return errs.Wrap(err, errs.ErrConfig, "config").
			WithAdvice("check NEXT_PUBLIC_BACKEND_URL, BACKEND_URL and APIPROBE_* variables")
	}

	base, err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Debug:  flags.debug,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return errs.Wrap(err, errs.ErrConfig, "logger")
	}
	log, runID := base.WithRun()
	log.Debug("config resolved",
		"base", cfg.BaseURL,
		"source", cfg.BaseURLSource,
		"fallbacks", cfg.FallbackURLs,
		"cold_start", cfg.ColdStartDelay,
		"timeout", cfg.Timeout,
	)

	cmd.SetContext(commands.NewContext(cmd.Context(), &commands.Runtime{
		Config: cfg,
		Log:    log,
		Out:    pprint.New(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Client: probe.NewClient(cfg.Timeout, log),
		RunID:  runID,
		Flags:  commands.GlobalFlags{Debug: flags.debug},
	}))
	return nil
}
