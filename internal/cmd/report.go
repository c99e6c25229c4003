package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/engine"
)

// reporter prints one line per result. A separator is printed whenever the
// action changes from the previous result.
type reporter struct {
	w    io.Writer
	last string

	ok, skip, fail, warn, faint func(format string, a ...interface{}) string

	counts map[engine.Kind]int
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:      w,
		ok:     color.New(color.FgGreen).SprintfFunc(),
		skip:   color.New(color.FgYellow).SprintfFunc(),
		fail:   color.New(color.FgRed, color.Bold).SprintfFunc(),
		warn:   color.New(color.FgMagenta).SprintfFunc(),
		faint:  color.New(color.Faint).SprintfFunc(),
		counts: make(map[engine.Kind]int),
	}
}

func (r *reporter) report(res engine.Result) {
	r.counts[res.Kind]++

	if name := res.Directive.Action.Name; name != r.last {
		if len(r.last) != 0 {
			fmt.Fprintln(r.w, r.faint("---"))
		}

		r.last = name
	}

	if len(res.Backup) != 0 {
		fmt.Fprintf(r.w, "%s %s\n", r.faint("backup"), res.Backup)
	}

	switch res.Kind {
	case engine.KindOK:
		fmt.Fprintln(r.w, r.ok("%s", res.Message))
	case engine.KindSkipped:
		fmt.Fprintln(r.w, r.skip("skipped %s: %s", res.Directive.Label, res.Message))
	case engine.KindFailed:
		if res.Err != nil {
			fmt.Fprintln(r.w, r.fail("failed %s: %s: %v", res.Directive.Label, res.Message, res.Err))
		} else {
			fmt.Fprintln(r.w, r.fail("failed %s: %s", res.Directive.Label, res.Message))
		}
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(r.w, r.warn("warning: %s", w))
	}
}

func (r *reporter) failed() int {
	return r.counts[engine.KindFailed]
}

// scriptPresenter echoes a script before it is confirmed, dimming comment
// lines.
type scriptPresenter struct {
	w     io.Writer
	title func(format string, a ...interface{}) string
	faint func(format string, a ...interface{}) string
}

func newScriptPresenter(w io.Writer) *scriptPresenter {
	return &scriptPresenter{
		w:     w,
		title: color.New(color.FgCyan, color.Bold).SprintfFunc(),
		faint: color.New(color.Faint).SprintfFunc(),
	}
}

func (p *scriptPresenter) ShowScript(d *directive.Directive, lines []engine.ScriptLine) {
	fmt.Fprintln(p.w, p.title("%s (%s)", d.Label, d.SourcePath))

	for _, line := range lines {
		if line.Comment {
			fmt.Fprintln(p.w, p.faint("%s", line.Text))
		} else {
			fmt.Fprintln(p.w, line.Text)
		}
	}
}
