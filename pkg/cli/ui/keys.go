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

package ui

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/study"
)

// ErrInterrupted is returned when the user presses ctrl-c or ctrl-d
var ErrInterrupted = errors.New("interrupted")

const (
	keyCtrlC  = 0x03
	keyCtrlD  = 0x04
	keyEscape = 0x1b
)

// KeyReader decodes key presses from a terminal in raw mode
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader returns a key reader over the given input
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

var arrowKeys = map[byte]study.KeyKind{
	'A': study.KeyUp,
	'B': study.KeyDown,
	'C': study.KeyRight,
	'D': study.KeyLeft,
}

// readEscape decodes the rest of an escape sequence. A lone escape is the
// escape key.
func (k *KeyReader) readEscape() (study.KeyEvent, error) {
	if k.r.Buffered() < 2 {
		return study.KeyEvent{Kind: study.KeyEscape}, nil
	}

	next, err := k.r.Peek(2)
	if err != nil || (next[0] != '[' && next[0] != 'O') {
		return study.KeyEvent{Kind: study.KeyEscape}, nil
	}

	kind, ok := arrowKeys[next[1]]
	if !ok {
		return study.KeyEvent{Kind: study.KeyEscape}, nil
	}

	k.r.Discard(2)

	return study.KeyEvent{Kind: kind}, nil
}

// ReadKey blocks until the next key press
func (k *KeyReader) ReadKey() (study.KeyEvent, error) {
	r, _, err := k.r.ReadRune()
	if err != nil {
		return study.KeyEvent{}, err
	}

	switch r {
	case keyCtrlC, keyCtrlD:
		return study.KeyEvent{}, ErrInterrupted
	case keyEscape:
		return k.readEscape()
	case ' ':
		return study.KeyEvent{Kind: study.KeySpace}, nil
	case '\r', '\n':
		return study.KeyEvent{Kind: study.KeyEnter}, nil
	}

	return study.KeyEvent{Kind: study.KeyRune, Rune: r}, nil
}

// ReadLine reads a line typed with the terminal in cooked mode. The line
// ending is dropped.
func (k *KeyReader) ReadLine() (string, error) {
	line, err := k.r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
