package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio reads lines from in and writes to out.
// One buffered reader is kept so no input is lost between calls.
type Stdio struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewStdio returns the process terminal
func NewStdio() IO {
	return New(os.Stdin, os.Stdout)
}

// New returns an IO over arbitrary streams
func New(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (s *Stdio) Println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// ReadInput prints prompt and returns the next line without surrounding spaces.
// A last line without newline is returned before io.EOF.
func (s *Stdio) ReadInput(prompt string) (string, error) {
	if prompt != "" {
		s.Printf("%s", prompt)
	}
	input, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && input != "" {
			return strings.TrimSpace(input), nil
		}
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword reads without echo when in is a terminal, otherwise reads a line
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	f, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(int(f.Fd()))
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}
