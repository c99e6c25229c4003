package mdcode

// Block is a fenced code block found in a Markdown document.
type Block struct {
	Lang string
	// Info is the part of the fence's info string that follows the language.
	Info      string
	Code      []byte
	StartLine int
	EndLine   int
}

type Blocks []*Block
