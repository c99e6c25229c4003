package cmd

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/dotmd/internal/settings"
)

//go:embed help/cache.md
var cacheHelp string

func cacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:               "cache",
		Short:             "Manage the saved selection",
		Long:              cacheHelp,
		DisableAutoGenTag: true,
	}

	show := &cobra.Command{ //nolint:exhaustruct
		Use:   "show",
		Short: "Print the saved selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cacheShow(cmd, opts)
		},
	}

	save := &cobra.Command{ //nolint:exhaustruct
		Use:   "save [flags] [filename...]",
		Short: "Save the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cacheSave(cmd, args, opts)
		},
	}

	addSelectFlags(save, opts)

	remove := &cobra.Command{ //nolint:exhaustruct
		Use:   "clear",
		Short: "Remove the saved selection",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := opts.store().Remove(); err != nil {
				return err
			}

			opts.status("removed %s\n", opts.cfg.CacheFile)

			return nil
		},
	}

	cmd.AddCommand(show, save, remove)

	return cmd
}

func cacheShow(cmd *cobra.Command, opts *options) error {
	store := opts.store()

	if !store.Exists() {
		opts.status("no saved selection in %s\n", store.Path)

		return nil
	}

	sel, err := store.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(sel.Filter) != 0 {
		fmt.Fprintf(out, "filter: %s\n", sel.Filter)
	}

	fmt.Fprintln(out, "files:")

	for _, f := range sel.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}

	fmt.Fprintf(out, "blocks: %d\n", len(sel.Blocks))

	return nil
}

// cacheSave records the current selection. A selection equal to the saved
// one leaves the cache untouched.
func cacheSave(cmd *cobra.Command, args []string, opts *options) error {
	res, err := opts.scan(cmd.Context(), args, false)
	if err != nil {
		return err
	}

	sel := settings.NewSelection(opts.cfg.Filter, res.files, res.selected)
	store := opts.store()

	if store.Exists() {
		saved, err := store.Load()
		if err == nil && saved.Covers(sel) && sel.Covers(saved) {
			fmt.Fprintln(cmd.OutOrStdout(), "(all blocks already saved)")

			return nil
		}
	}

	if err := store.Save(sel); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}

	opts.status("saved %d blocks from %d files to %s\n", len(sel.Blocks), len(sel.Files), store.Path)

	return nil
}
