package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// lineConfirmer asks yes/no questions on a terminal. Anything but "y" or
// "yes" is a no, and so is end of input. Scripts must read their input from
// reader so that answers and script input share one buffer.
type lineConfirmer struct {
	reader *bufio.Reader
	w      io.Writer
}

func newLineConfirmer(r io.Reader, w io.Writer) *lineConfirmer {
	return &lineConfirmer{reader: bufio.NewReader(r), w: w}
}

func (c *lineConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(c.w, "%s [y/N] ", message)

	line, err := c.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	if errors.Is(err, io.EOF) && len(line) == 0 {
		fmt.Fprintln(c.w)

		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
