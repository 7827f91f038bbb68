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

// Package prompt reads confirmations from an interactive terminal
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FormatQuestion formats a yes/no question with the appropriate choice indicator
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

func readLine(r io.Reader) (string, error) {
	input, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", errors.Wrap(err, "reading input")
	}

	return strings.TrimSpace(input), nil
}

// Confirm writes the question to w and reads a yes/no answer from r.
// In optimistic mode, an empty answer confirms.
func Confirm(r io.Reader, w io.Writer, question string, optimistic bool) (bool, error) {
	fmt.Fprint(w, FormatQuestion(question, optimistic)+" ")

	input, err := readLine(r)
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	if input == "" {
		return optimistic, nil
	}

	return input == "y" || input == "yes", nil
}

// ConfirmTyped asks the user to type the expected text back. The answer is
// compared case-insensitively, ignoring surrounding whitespace.
func ConfirmTyped(r io.Reader, w io.Writer, expected string) (bool, error) {
	fmt.Fprintf(w, "Type %q to confirm: ", expected)

	input, err := readLine(r)
	if err != nil {
		return false, err
	}

	return strings.EqualFold(input, strings.TrimSpace(expected)), nil
}
