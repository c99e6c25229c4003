package engine

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Interpreter describes how to run a script written in one language.
type Interpreter struct {
	// Command is the argv prefix; the script path is appended.
	Command []string
	// Comment is the line comment prefix of the language.
	Comment string
	// Ext is the extension given to the materialized script.
	Ext string

	// Shell scripts are parsed before they are offered for confirmation.
	checkSyntax bool
	variant     syntax.LangVariant
}

var (
	posixShell = Interpreter{Command: []string{"sh"}, Comment: "#", Ext: ".sh", checkSyntax: true, variant: syntax.LangPOSIX}
	bashShell  = Interpreter{Command: []string{"bash"}, Comment: "#", Ext: ".bash", checkSyntax: true, variant: syntax.LangBash}
	zshShell   = Interpreter{Command: []string{"zsh"}, Comment: "#", Ext: ".zsh"}
	fishShell  = Interpreter{Command: []string{"fish"}, Comment: "#", Ext: ".fish"}
	node       = Interpreter{Command: []string{"node"}, Comment: "//", Ext: ".js"}
	python     = Interpreter{Command: []string{"python3"}, Comment: "#", Ext: ".py"}
	ruby       = Interpreter{Command: []string{"ruby"}, Comment: "#", Ext: ".rb"}
	perl       = Interpreter{Command: []string{"perl"}, Comment: "#", Ext: ".pl"}
	powershell = Interpreter{Command: []string{"pwsh", "-NoProfile", "-File"}, Comment: "#", Ext: ".ps1"}
)

var interpreters = map[string]Interpreter{
	"sh":         posixShell,
	"shell":      posixShell,
	"bash":       bashShell,
	"zsh":        zshShell,
	"fish":       fishShell,
	"js":         node,
	"javascript": node,
	"mjs":        node,
	"py":         python,
	"python":     python,
	"rb":         ruby,
	"ruby":       ruby,
	"pl":         perl,
	"perl":       perl,
	"ps1":        powershell,
	"powershell": powershell,
	"pwsh":       powershell,
}

// LookupInterpreter returns the interpreter for a code block language.
// Languages are matched case-insensitively.
func LookupInterpreter(lang string) (Interpreter, bool) {
	interp, ok := interpreters[strings.ToLower(lang)]

	return interp, ok
}

// Languages returns the languages that can be run.
func Languages() []string {
	langs := make([]string, 0, len(interpreters))
	for lang := range interpreters {
		langs = append(langs, lang)
	}

	return langs
}

// ScriptLine is one line of a script as shown before confirmation.
type ScriptLine struct {
	Text    string
	Comment bool
}

// SplitScript splits content into lines, marking those that start with the
// comment prefix.
func SplitScript(content, comment string) []ScriptLine {
	raw := strings.Split(content, "\n")
	lines := make([]ScriptLine, 0, len(raw))

	for _, text := range raw {
		isComment := len(comment) > 0 && strings.HasPrefix(strings.TrimSpace(text), comment)
		lines = append(lines, ScriptLine{Text: text, Comment: isComment})
	}

	return lines
}

// check parses shell scripts so syntax errors surface before execution.
func (i Interpreter) check(content string) error {
	if !i.checkSyntax {
		return nil
	}

	_, err := syntax.NewParser(syntax.Variant(i.variant)).Parse(strings.NewReader(content), "")

	return err
}
