package ux

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions on a reader/writer pair.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPrompter creates a Prompter over in and out, typically stdin and stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Confirm prints question and reads one line. Only "y" or "Y" is affirmative;
// the line ending is dropped and nothing else is trimmed. End of input with no
// answer is a decline.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprint(p.writer, question)

	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(p.writer)
		return false, nil
	}

	answer := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	return strings.ToLower(answer) == "y", nil
}
