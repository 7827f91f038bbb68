/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ui provides the user interface for the program
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/prompt"
	"golang.org/x/term"
)

// Prompter reads answers of the user from an input. Answers are read
// line by line from a single buffer so that consecutive prompts on a pipe
// do not lose input.
type Prompter struct {
	in     io.Reader
	reader *bufio.Reader
}

// NewPrompter returns a prompter reading from the given input
func NewPrompter(in io.Reader) *Prompter {
	return &Prompter{
		in:     in,
		reader: bufio.NewReader(in),
	}
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", errors.Wrap(err, "reading input")
	}

	return strings.TrimRight(input, "\r\n"), nil
}

// terminalFd returns the file descriptor of the input if it is a terminal
func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}

	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// Input prompts the user for a line of input
func (p *Prompter) Input(message string) (string, error) {
	log.Askf(message, false)

	input, err := p.readLine()
	if err != nil {
		return "", errors.Wrap(err, "getting user input")
	}

	return strings.TrimSpace(input), nil
}

// Password prompts the user for a password. On a terminal the input is
// not echoed.
func (p *Prompter) Password(message string) (string, error) {
	log.Askf(message, true)

	fd, ok := terminalFd(p.in)
	if !ok {
		return p.readLine()
	}

	password, err := term.ReadPassword(fd)
	if err != nil {
		return "", errors.Wrap(err, "getting user input")
	}
	fmt.Fprintln(color.Output)

	return string(password), nil
}

// Confirm prompts for user input to confirm a choice
func (p *Prompter) Confirm(question string, optimistic bool) (bool, error) {
	confirmed, err := prompt.Confirm(p.reader, color.Output, log.ColorGreen.Sprint("[?] ")+question, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "getting user input")
	}

	return confirmed, nil
}

// ConfirmTyped asks the user to type the expected text to confirm a
// destructive action
func (p *Prompter) ConfirmTyped(expected string) (bool, error) {
	confirmed, err := prompt.ConfirmTyped(p.reader, color.Output, expected)
	if err != nil {
		return false, errors.Wrap(err, "getting user input")
	}

	return confirmed, nil
}

// MakeRaw puts the input in raw mode if it is a terminal and returns a
// function restoring the previous mode. It is a no-op otherwise.
func MakeRaw(in io.Reader) (func(), error) {
	fd, ok := terminalFd(in)
	if !ok {
		return func() {}, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "entering raw mode")
	}

	return func() {
		term.Restore(fd, state)
	}, nil
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\r\n", "\n")
	if _, err := io.WriteString(c.w, strings.ReplaceAll(s, "\n", "\r\n")); err != nil {
		return 0, err
	}

	return len(p), nil
}

// NewRawWriter returns a writer that ends lines with a carriage return so
// that output lines up on a terminal in raw mode
func NewRawWriter(w io.Writer) io.Writer {
	return crlfWriter{w: w}
}
