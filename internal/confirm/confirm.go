// Package confirm provides the operator confirmation gate that guards
// batch execution and orphan deletion.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Gate asks the operator whether to proceed. Anything but an explicit
// confirmation (including read errors or closed input) means no.
type Gate func() bool

// Stdin returns a Gate that prompts on out and accepts exactly "y" from a
// single line of in.
func Stdin(in io.Reader, out io.Writer) Gate {
	reader := bufio.NewReader(in)
	return func() bool {
		fmt.Fprint(out, "Continue? [y/n] ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		return strings.TrimSpace(line) == "y"
	}
}

// Always returns a Gate that confirms unconditionally (--yes).
func Always() Gate {
	return func() bool { return true }
}

// WithContext makes a gate answer "no" as soon as ctx is canceled, even
// while the underlying gate is blocked reading input.
func WithContext(ctx context.Context, gate Gate) Gate {
	return func() bool {
		answer := make(chan bool, 1)
		go func() { answer <- gate() }()
		select {
		case ok := <-answer:
			return ok && ctx.Err() == nil
		case <-ctx.Done():
			return false
		}
	}
}
