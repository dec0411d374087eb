package vm

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Input is the line source behind String read.
type Input interface {
	// ReadLine returns the next line without its terminator. ok is false at
	// end of input; err reports a failing source.
	ReadLine() (line string, ok bool, err error)
}

// LineInput reads lines from an io.Reader.
type LineInput struct {
	r *bufio.Reader
}

// NewLineInput wraps r as an Input.
func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{r: bufio.NewReader(r)}
}

func (li *LineInput) ReadLine() (string, bool, error) {
	line, err := li.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// emptyInput is at end of input immediately.
type emptyInput struct{}

func (emptyInput) ReadLine() (string, bool, error) { return "", false, nil }
