package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"cxt/pkg/clipboard"
	"cxt/pkg/config"
	"cxt/pkg/ignore"
	"cxt/pkg/logging"
	"cxt/pkg/output"
	"cxt/pkg/picker"
	"cxt/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// app carries the collaborators of a run so tests can replace them.
type app struct {
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer

	isTerminal   func() bool
	workDir      func() (string, error)
	newClipboard func(*zap.Logger) output.Clipboard
	runPicker    func(context.Context, picker.Options) (picker.Result, error)

	cfgFile  string
	viper    *viper.Viper
	logger   *zap.Logger
	exitCode int
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		},
		workDir: os.Getwd,
		newClipboard: func(logger *zap.Logger) output.Clipboard {
			return clipboard.New(logger)
		},
		runPicker: picker.Run,
		logger:    zap.NewNop(),
	}
}

// flagKeys maps root command flags to their config keys.
var flagKeys = map[string]string{
	"print":         config.KeyPrint,
	"write":         config.KeyWrite,
	"relative":      config.KeyRelative,
	"no-path":       config.KeyNoPath,
	"hidden":        config.KeyHidden,
	"tui":           config.KeyTUI,
	"ignore":        config.KeyIgnore,
	"exclude":       config.KeyExclude,
	"global-ignore": config.KeyGlobalIgnore,
	"on-conflict":   config.KeyOnConflict,
	"no-clipboard":  config.KeyNoClipboard,
	"dry-run":       config.KeyDryRun,
	"verbose":       config.KeyVerbose,
	"debug":         config.KeyDebug,
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cxt [paths...]",
		Short: "cxt collects file contents for pasting into an LLM prompt",
		Long: `cxt reads the files and directories you name (or pick with --tui), prefixes
each file with a "--- File: <path> ---" header and sends the result to the
clipboard, stdout and/or a file.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.run,
	}

	flags := rootCmd.Flags()
	flags.BoolP("print", "p", false, "Print the content to stdout (also copies it to the clipboard)")
	flags.StringP("write", "w", "", "Write the content to `FILE`")
	flags.BoolP("relative", "r", false, "Use paths relative to the current directory in headers")
	flags.BoolP("no-path", "n", false, "Omit the file path headers")
	flags.Bool("hidden", false, "Include hidden files and directories")
	flags.BoolP("tui", "t", false, "Choose files and directories in an interactive picker")
	flags.StringSliceP("ignore", "i", nil, "Skip this file or directory (repeatable)")
	flags.StringSliceP("exclude", "e", nil, "Skip paths matching a gitignore `PATTERN` (repeatable)")
	flags.String("global-ignore", "", "Global ignore `FILE` (default $"+ignore.GlobalEnv+")")
	flags.String("on-conflict", string(output.PolicyPrompt), "When --write targets an existing file: prompt, replace, append or cancel")
	flags.Bool("no-clipboard", false, "Never copy to the clipboard")
	flags.Bool("ci", false, "Alias for --no-clipboard")
	_ = flags.MarkHidden("ci")
	flags.Bool("dry-run", false, "Print the files that would be combined as a tree and exit")

	persistent := rootCmd.PersistentFlags()
	persistent.BoolP("verbose", "v", false, "Log progress to stderr")
	persistent.Bool("debug", false, "Log debug details to stderr")
	persistent.StringVar(&a.cfgFile, "config", "", "Config `FILE` (default $XDG_CONFIG_HOME/cxt/config.yaml)")

	rootCmd.AddCommand(newVersionCmd(a), newConfigCmd(a))
	return rootCmd
}

// setup reads the config, binds flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		v.Set(config.KeyNoClipboard, true)
	}
	a.viper = v

	logger, err := logging.New(logging.Options{
		Debug:      v.GetBool(config.KeyDebug),
		Verbose:    v.GetBool(config.KeyVerbose),
		AppName:    version.AppName,
		AppVersion: version.Get().Version,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("Using config file", zap.String("path", used))
	}
	return nil
}

func (a *app) execute(ctx context.Context, args []string) int {
	a.exitCode = ExitOK
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	err := rootCmd.ExecuteContext(ctx)
	defer logging.Sync(a.logger)
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			rootCmd.PrintErrln("Run 'cxt --help' for usage.")
		}
		return ExitFatal
	}
	return a.exitCode
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newApp().execute(ctx, os.Args[1:])
}
