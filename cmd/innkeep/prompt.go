package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal hooks, replaced in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// readLine reads one line from stdin, trimming the newline. The reader is
// shared so consecutive prompts do not lose buffered input.
func (a *app) readLine() (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.in)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("unexpected end of input")
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks for a value unless one was given on the command line.
func (a *app) prompt(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(a.errOut, "%s: ", label)
	return a.readLine()
}

// promptPassword reads a password without echo when stdin is a terminal.
// Piped input falls back to a plain line read.
func (a *app) promptPassword(label string) (string, error) {
	f, ok := a.in.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return a.prompt(label, "")
	}
	fmt.Fprintf(a.errOut, "%s: ", label)
	b, err := readPassword(int(f.Fd()))
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
