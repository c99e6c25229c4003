package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezerfernandes/dotmd/internal/directive"
	"github.com/ezerfernandes/dotmd/internal/logger"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const scriptMode = 0o700

// run shows the script, waits for confirmation and executes it with the
// interpreter mapped to the block's language. Nothing is executed unless the
// confirmer answers yes.
func (e *Engine) run(ctx context.Context, d *directive.Directive) Result {
	interpreter, found := LookupInterpreter(d.Language)
	if !found {
		res := skipped(fmt.Sprintf("don't know how to run a '%s' block", d.Language))
		res.Err = ErrUnknownInterpreter

		return res
	}

	if err := interpreter.check(d.Content); err != nil {
		return failed("script does not parse", err)
	}

	if e.cfg.Presenter != nil {
		e.cfg.Presenter.ShowScript(d, SplitScript(d.Content, interpreter.Comment))
	}

	confirmed, err := e.confirm(ctx, fmt.Sprintf("Run %s?", d.Label))
	if err != nil {
		return failed("confirmation failed", err)
	}

	if !confirmed {
		res := skipped("not confirmed")
		res.Err = ErrNotConfirmed

		return res
	}

	script, err := e.materialize(d.Content, interpreter.Ext)
	if err != nil {
		return failed("cannot write script", err)
	}
	defer os.Remove(script)

	log := logger.FromContext(ctx).With("script", script, "interpreter", interpreter.Command[0])
	log.Debug("running script")

	code, err := e.runScript(ctx, interpreter.Command, script, filepath.Dir(d.SourcePath))
	if err != nil {
		return failed("cannot start "+interpreter.Command[0], err)
	}

	if code == 0 {
		return ok("ran " + d.Label)
	}

	log.Debug("script exited", "code", code)

	res := failed(fmt.Sprintf("%s exited with %d", interpreter.Command[0], code), fmt.Errorf("exit status %d", code))

	cont, err := e.confirm(ctx, fmt.Sprintf("%s failed with exit status %d. Continue?", d.Label, code))
	if err != nil || !cont {
		res.Halt = true
	}

	return res
}

// materialize writes content to an executable temporary file.
func (e *Engine) materialize(content, ext string) (string, error) {
	f, err := os.CreateTemp(e.cfg.TempDir, "dotmd-run-*"+ext)
	if err != nil {
		return "", err
	}

	name := f.Name()

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(name)

		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(name)

		return "", err
	}

	if err := os.Chmod(name, scriptMode); err != nil {
		os.Remove(name)

		return "", err
	}

	return name, nil
}

// runScript invokes command with the script path as its last argument and
// the engine's standard streams. It returns the exit status.
func (e *Engine) runScript(ctx context.Context, command []string, script, dir string) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(strings.Join(command, " ")+` "$1"`), "")
	if err != nil {
		return -1, err
	}

	opts := []interp.RunnerOption{
		interp.Params("--", script),
		interp.StdIO(e.cfg.Stdin, e.cfg.Stdout, e.cfg.Stderr),
	}

	if info, serr := os.Stat(dir); serr == nil && info.IsDir() {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}
