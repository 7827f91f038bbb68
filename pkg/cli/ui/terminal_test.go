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
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/recallcards/recall/pkg/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer

	output := color.Output
	noColor := color.NoColor
	color.Output = &buf
	color.NoColor = true
	t.Cleanup(func() {
		color.Output = output
		color.NoColor = noColor
	})

	return &buf
}

func TestPrompter(t *testing.T) {
	captureOutput(t)

	p := NewPrompter(strings.NewReader("alice@example.com\npass1234\ny\nbiology\n"))

	email, err := p.Input("email")
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, email, "alice@example.com", "email mismatch")

	password, err := p.Password("password")
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, password, "pass1234", "password mismatch")

	ok, err := p.Confirm("continue?", false)
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, ok, true, "confirmation mismatch")

	ok, err = p.ConfirmTyped("biology")
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, ok, true, "typed confirmation mismatch")
}

func TestPrompter_ConfirmTyped(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{input: "biology\n", expected: true},
		{input: "Biology\n", expected: true},
		{input: "bio\n", expected: false},
		{input: "\n", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			buf := captureOutput(t)

			ok, err := NewPrompter(strings.NewReader(tc.input)).ConfirmTyped("biology")
			assert.Equal(t, err, nil, "error mismatch")
			assert.Equal(t, ok, tc.expected, "result mismatch")
			assert.Equal(t, buf.String(), `Type "biology" to confirm: `, "prompt mismatch")
		})
	}
}

func TestRawWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewRawWriter(&buf)

	n, err := w.Write([]byte("front\nback\r\n"))
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, n, 12, "written length mismatch")
	assert.Equal(t, buf.String(), "front\r\nback\r\n", "output mismatch")
}

func TestMakeRaw_notTerminal(t *testing.T) {
	restore, err := MakeRaw(strings.NewReader(""))
	assert.Equal(t, err, nil, "error mismatch")
	restore()
}
