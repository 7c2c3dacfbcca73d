package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/linekit/config"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/logger"
)

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

// app carries the global flags and what setup derives from them.
type app struct {
	configFile string
	pipelines  string
	logLevel   string
	dir        string

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "linekit",
		Short: "Run unix-style line commands and pipelines",
		Long: `linekit runs line-oriented text commands (cat, grep, head, tail, sort,
uniq, wc) alone or chained into pipelines.

Examples:
  linekit exec sort --opt descending < words.txt
  linekit exec grep --opt ignoreCase error < app.log
  linekit run top-errors --pipelines pipelines.yml < app.log
  linekit serve`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./linekit.yml or ./config/linekit.yml)")
	flags.StringVar(&a.pipelines, "pipelines", "", "pipeline definitions file (default from config, else pipelines.yml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default warn, serve uses the config)")
	flags.StringVar(&a.dir, "dir", "", "directory relative file operands resolve against")

	root.AddCommand(
		a.newRunCmd(),
		a.newExecCmd(),
		a.newCommandsCmd(),
		a.newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration, applies the flags on top and installs the
// global logger. Logs always go to stderr so stdout carries only output.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	if a.pipelines != "" {
		cfg.Pipelines = a.pipelines
	}
	if a.dir != "" {
		cfg.Env.CurrentDirectory = a.dir
	}
	switch {
	case a.logLevel != "":
		cfg.Logging.Level = a.logLevel
	case cmd.Name() != "serve":
		cfg.Logging.Level = "warn"
	}
	if err := cfg.Logging.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr())
	logger.SetGlobalLogger(a.log)
	logger.RegisterDefaults("pipeline", "server")
	return nil
}

// formatError renders err for the terminal, prefixing AppErrors with their
// code.
func formatError(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return fmt.Sprintf("%s: %s", appErr.Code, appErr.Message)
	}
	return err.Error()
}

// exitCode maps errors caused by the invocation itself to exitUsage.
func exitCode(err error) int {
	for _, code := range []errors.ErrorCode{
		errors.ErrCodeInvalidConfiguration,
		errors.ErrCodeUnknownCommand,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeNotFound,
	} {
		if errors.HasCode(err, code) {
			return exitUsage
		}
	}
	return exitFailure
}
