package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ezerfernandes/dotmd/internal/config"
	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/logger"
)

//go:embed help/root.md
var rootHelp string

type statusFunc func(format string, args ...interface{})

type options struct {
	configFile      string
	quiet           bool
	includeDisabled bool
	auto            bool
	save            bool
	lang            []string
	action          []string

	viper  *viper.Viper
	cfg    *config.Config
	status statusFunc
	filter filterFunc

	stdin   io.Reader
	logFile *os.File
}

func newOptions(stdin io.Reader) *options {
	return &options{
		viper:  config.New(),
		stdin:  stdin,
		status: func(string, ...interface{}) {},
		filter: func(*directive.Directive) bool { return true },
	}
}

func (opts *options) createStatus(w io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
}

// Execute runs the dotmd command line and exits the process on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	root := rootCmd(newOptions(os.Stdin))

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:           "dotmd",
		Short:         "Build dotfiles from annotated Markdown code blocks",
		Long:          rootHelp,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logFile != nil {
				opts.logFile.Close()
			}
		},

		DisableAutoGenTag: true,
	}

	flags := cmd.PersistentFlags()

	flags.StringVar(&opts.configFile, "config", "", "config file (default .dotmd.yaml in the working or home directory)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("build-dir", "build", "root of the symlink staging tree")
	flags.String("filter", "**/*.md", "glob selecting documents when no file is given")
	flags.Bool("strict-backup", true, "fail a symlink when the existing target cannot be backed up")

	bindFlag(opts.viper, config.KeyDebug, flags.Lookup("debug"))
	bindFlag(opts.viper, config.KeyBuildDir, flags.Lookup("build-dir"))
	bindFlag(opts.viper, config.KeyFilter, flags.Lookup("filter"))
	bindFlag(opts.viper, config.KeyStrictBackup, flags.Lookup("strict-backup"))

	cmd.AddCommand(listCmd(opts), applyCmd(opts), cacheCmd(opts))

	return cmd
}

// setup loads the configuration, the logger and the directive filter before
// any subcommand runs.
func (opts *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.viper, opts.configFile)
	if err != nil {
		return err
	}

	opts.cfg = cfg
	opts.createStatus(cmd.ErrOrStderr())

	if opts.filter, err = filter(opts.lang, opts.action); err != nil {
		return err
	}

	log, err := opts.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cmd.SetContext(logger.WithLogger(cmd.Context(), log))

	return nil
}

func (opts *options) newLogger(stderr io.Writer) (*slog.Logger, error) {
	logOpts := []logger.Option{logger.WithStderr(stderr), logger.WithFormat(opts.cfg.LogFormat)}

	if opts.cfg.Debug {
		logOpts = append(logOpts, logger.WithDebug())
	}

	if opts.quiet {
		logOpts = append(logOpts, logger.WithQuiet())
	}

	if len(opts.cfg.LogFile) != 0 {
		f, err := os.OpenFile(opts.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}

		opts.logFile = f
		logOpts = append(logOpts, logger.WithWriter(f))
	}

	return logger.New(logOpts...), nil
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

const fileMode = 0o644

var version = "dev"
