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

package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/recallcards/recall/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	testCases := []struct {
		question   string
		optimistic bool
		expected   string
	}{
		{
			question:   "Remove user alice@example.com?",
			optimistic: false,
			expected:   "Remove user alice@example.com? (y/N)",
		},
		{
			question:   "Continue?",
			optimistic: true,
			expected:   "Continue? (Y/n)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.question, func(t *testing.T) {
			result := FormatQuestion(tc.question, tc.optimistic)
			assert.Equal(t, result, tc.expected, "formatted question mismatch")
		})
	}
}

func TestConfirm(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		optimistic bool
		expected   bool
	}{
		{
			name:       "pessimistic with y",
			input:      "y\n",
			optimistic: false,
			expected:   true,
		},
		{
			name:       "pessimistic with yes",
			input:      "YES\n",
			optimistic: false,
			expected:   true,
		},
		{
			name:       "pessimistic with empty",
			input:      "\n",
			optimistic: false,
			expected:   false,
		},
		{
			name:       "optimistic with empty",
			input:      "  \n",
			optimistic: true,
			expected:   true,
		},
		{
			name:       "optimistic with n",
			input:      "n\n",
			optimistic: true,
			expected:   false,
		},
		{
			name:       "no trailing newline",
			input:      "y",
			optimistic: false,
			expected:   true,
		},
		{
			name:       "unknown answer",
			input:      "maybe\n",
			optimistic: false,
			expected:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			result, err := Confirm(strings.NewReader(tc.input), &out, "Continue?", tc.optimistic)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assert.Equal(t, result, tc.expected, "Confirm result mismatch")
			assert.Equal(t, out.String(), FormatQuestion("Continue?", tc.optimistic)+" ", "question mismatch")
		})
	}
}

func TestConfirm_closedInput(t *testing.T) {
	var out bytes.Buffer
	_, err := Confirm(strings.NewReader(""), &out, "Continue?", true)
	if err == nil {
		t.Fatal("expected error when reading from empty reader")
	}
}

func TestConfirmTyped(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "exact",
			input:    "biology\n",
			expected: true,
		},
		{
			name:     "case and spaces",
			input:    "  Biology \n",
			expected: true,
		},
		{
			name:     "prefix",
			input:    "bio\n",
			expected: false,
		},
		{
			name:     "empty",
			input:    "\n",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			ok, err := ConfirmTyped(strings.NewReader(tc.input), &out, "biology")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assert.Equal(t, ok, tc.expected, "confirmation mismatch")
			assert.Equal(t, out.String(), `Type "biology" to confirm: `, "prompt mismatch")
		})
	}
}
