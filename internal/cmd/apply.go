package cmd

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/dotmd/internal/engine"
	"github.com/ezerfernandes/dotmd/internal/logger"
	"github.com/ezerfernandes/dotmd/internal/settings"
)

//go:embed help/apply.md
var applyHelp string

func applyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "apply [flags] [filename...]",
		Aliases: []string{"build"},
		Short:   "Apply directives",
		Long:    applyHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyRun(cmd, args, opts)
		},
		DisableAutoGenTag: true,
	}

	addSelectFlags(cmd, opts)

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "do not ask before applying the batch")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the selection for later runs")

	return cmd
}

func applyRun(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()

	res, err := opts.scan(ctx, args, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	confirmer := newLineConfirmer(opts.stdin, out)

	if len(res.selected) == 0 {
		opts.status("nothing to apply\n")

		return nil
	}

	if !opts.auto {
		yes, err := confirmer.Confirm(ctx, fmt.Sprintf("Build %d directives from %d files?", len(res.selected), len(res.files)))
		if err != nil {
			return err
		}

		if !yes {
			fmt.Fprintln(out, "(cancelled)")

			return nil
		}
	}

	if opts.save {
		sel := settings.NewSelection(opts.cfg.Filter, res.files, res.selected)
		if err := opts.store().Save(sel); err != nil {
			return fmt.Errorf("saving selection: %w", err)
		}

		opts.status("saved selection to %s\n", opts.cfg.CacheFile)
	}

	eng := engine.New(engine.Config{ //nolint:exhaustruct
		BuildDir:     opts.cfg.BuildDir,
		StrictBackup: opts.cfg.StrictBackup,
		Confirmer:    confirmer,
		Presenter:    newScriptPresenter(out),
		Stdin:        confirmer.reader,
		Stdout:       out,
		Stderr:       cmd.ErrOrStderr(),
	})

	logger.FromContext(ctx).Debug("applying", "directives", len(res.selected), "epoch", eng.Epoch(), "staging", eng.StagingDir())

	rep := newReporter(out)
	results := eng.ExecuteAll(ctx, res.selected, rep.report)

	opts.status("%d of %d directives processed\n", len(results)-rep.failed(), len(res.selected))

	if n := rep.failed(); n > 0 {
		return fmt.Errorf("%d directive(s) failed", n)
	}

	return nil
}
