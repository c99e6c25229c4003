package cmd

import (
	_ "embed"
	"strconv"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/dotmd/internal/directive"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [filename...]",
		Aliases: []string{"ls"},
		Short:   "List directives",
		Long:    listHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRun(cmd, args, opts)
		},
		DisableAutoGenTag: true,
	}

	addSelectFlags(cmd, opts)

	cmd.Flags().BoolVarP(&opts.includeDisabled, "include-disabled", "a", false, "include disabled directives")

	return cmd
}

// addSelectFlags registers the flags that narrow the directive selection.
func addSelectFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringSliceVarP(&opts.lang, "lang", "l", nil, "language filter (glob)")
	cmd.Flags().StringSliceVar(&opts.action, "action", nil, "action filter (glob)")
}

func listRun(cmd *cobra.Command, args []string, opts *options) error {
	res, err := opts.scan(cmd.Context(), args, true)
	if err != nil {
		return err
	}

	if res.fromCache {
		opts.status("using saved selection from %s\n", opts.cfg.CacheFile)
	}

	header := color.New(color.FgGreen, color.Underline).SprintfFunc()
	index := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("#", "Action", "Lang", "Target", "Disabled", "Label").
		WithWriter(cmd.OutOrStdout()).
		WithHeaderFormatter(header).
		WithFirstColumnFormatter(index)

	for i, d := range res.selected {
		tbl.AddRow(strconv.Itoa(i+1), d.Action.Name, d.Language, d.TargetPath, d.DisabledReason, d.Label)
	}

	tbl.Print()

	totals := directive.Summarize(res.all)
	opts.status("%d directives (%d active, %d disabled) in %d files\n",
		totals.Total, totals.Active, totals.Disabled, len(res.files))

	return nil
}
