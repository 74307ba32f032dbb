// Package prompt collects single-line answers from the operator.
// Interactive commands (register, login, product add/edit) depend on the
// Prompter interface only, so tests script their input.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when the input source is exhausted.
var ErrNoInput = errors.New("prompt: no more input")

// Prompter asks for one field and returns the trimmed answer.
type Prompter interface {
	Ask(label string) (string, error)
}

// Line prompts on out and reads answers line-by-line from in.
type Line struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{scanner: bufio.NewScanner(in), out: out}
}

func (l *Line) Ask(label string) (string, error) {
	fmt.Fprintf(l.out, "%s: ", label)
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", fmt.Errorf("prompt: read: %w", err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(l.scanner.Text()), nil
}

// Next reads the next line without printing a label. The command loop
// and Ask share one scanner, so prompts never swallow loop input.
func (l *Line) Next() (string, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", fmt.Errorf("prompt: read: %w", err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(l.scanner.Text()), nil
}

// Script replays canned answers in order. Useful in tests.
type Script struct {
	answers []string
	pos     int
}

func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) Ask(string) (string, error) {
	if s.pos >= len(s.answers) {
		return "", ErrNoInput
	}
	a := s.answers[s.pos]
	s.pos++
	return strings.TrimSpace(a), nil
}
