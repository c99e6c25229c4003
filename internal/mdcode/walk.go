package mdcode

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var reInfo = regexp.MustCompile(`^\s*(\S*)\s*(.*?)\s*$`)

// Walker is a callback invoked for each fenced code block found in a Markdown
// document. Returning an error stops the walk.
type Walker func(block *Block) error

// Walk parses a Markdown document and calls walker for every fenced code
// block, including blocks hidden inside a <script type="text/markdown">
// wrapper.
func Walk(source []byte, walker Walker) error {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	root := parser.Parse(reader).OwnerDocument()

	return ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			return ast.WalkContinue, nil
		}

		fcb := asFencedCodeBlock(unhideCodeBlock(node, source))
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		if err := walker(extractBlock(fcb, source)); err != nil {
			return ast.WalkStop, err
		}

		return ast.WalkContinue, nil
	})
}

func asFencedCodeBlock(node ast.Node) *ast.FencedCodeBlock {
	if node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func extractBlock(fcb *ast.FencedCodeBlock, source []byte) *Block {
	block := &Block{Code: extractCode(fcb, source)}

	if fcb.Info != nil {
		block.Lang, block.Info = parseInfo(fcb.Info.Text(source))
	}

	block.StartLine, block.EndLine = extractLines(fcb, source)

	return block
}

// parseInfo splits a fence info string into the language and the meta string
// that follows it. An info string that starts with "{" has no language.
func parseInfo(info []byte) (string, string) {
	all := reInfo.FindSubmatch(info)
	if all == nil {
		return "", ""
	}

	lang, meta := string(all[1]), string(all[2])

	if strings.HasPrefix(lang, "{") {
		return "", strings.TrimSpace(lang + " " + meta)
	}

	return lang, meta
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var startLine, endLine int

	lines := fcb.Lines()

	if fcb.Info != nil {
		startLine = lineAt(source, fcb.Info.Segment.Start)
	} else if lines.Len() > 0 {
		startLine = lineAt(source, lines.At(0).Start) - 1
	}

	if lines.Len() > 0 {
		endLine = lineAt(source, lines.At(lines.Len()-1).Stop)
	} else if startLine > 0 {
		endLine = startLine + 1
	}

	return startLine, endLine
}

func lineAt(source []byte, offset int) int {
	return bytes.Count(source[:min(offset, len(source))], []byte{'\n'}) + 1
}

// extractCode joins the block's lines and drops the final line terminator,
// so a one-line block "hello" yields exactly "hello".
func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	code := buff.Bytes()
	code = bytes.TrimSuffix(code, []byte{'\n'})
	code = bytes.TrimSuffix(code, []byte{'\r'})

	return code
}

var (
	reHiddenOpen = regexp.MustCompile(`^\s*(<!--)?\s*<script\s*type=["']text/markdown["']\s*>\s*$`)
	reFence      = regexp.MustCompile("^\\s*(```|~~~)")
)

// unhideCodeBlock turns an HTML block of the form
//
//	<!-- <script type="text/markdown">
//	```sh action=run
//	...
//	```
//	</script> -->
//
// into a fenced code block node. Any other node is returned unchanged.
func unhideCodeBlock(node ast.Node, source []byte) ast.Node { //nolint:ireturn
	html, ok := node.(*ast.HTMLBlock)
	if !ok {
		return node
	}

	const minLines = 3

	lines := html.Lines()
	if lines.Len() < minLines {
		return node
	}

	first := lines.At(0)
	if !reHiddenOpen.Match(first.Value(source)) {
		return node
	}

	open := lines.At(1)

	loc := reFence.FindIndex(open.Value(source))
	if loc == nil {
		return node
	}

	last := lines.Len() - 1
	if !isFence(lines.At(last), source) {
		last--
		if last < 2 || !isFence(lines.At(last), source) {
			return node
		}
	}

	info := ast.NewTextSegment(text.NewSegment(open.Start+loc[1], open.Stop-1))
	fcb := ast.NewFencedCodeBlock(info)

	segs := text.NewSegments()
	for i := 2; i < last; i++ {
		segs.Append(lines.At(i))
	}

	fcb.SetLines(segs)

	return fcb
}

func isFence(seg text.Segment, source []byte) bool {
	return reFence.Match(seg.Value(source))
}
