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

package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/assert"
)

func TestShouldLog(t *testing.T) {
	defer SetLevel(LevelInfo)

	levels := []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

	for i, current := range levels {
		for j, level := range levels {
			SetLevel(current)

			assert.Equal(t, shouldLog(level), j >= i, fmt.Sprintf("%s level showing %s", current, level))
		}
	}

	SetLevel("verbose")
	assert.Equal(t, shouldLog(LevelDebug), false, "unknown level should behave like info")
	assert.Equal(t, shouldLog(LevelInfo), true, "unknown level should behave like info")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)

	WithFields(Fields{"deck": "biology"}).Info("Loaded deck.")
	WithFields(Fields{
		"deck": "biology",
		"err":  errors.New("connection refused"),
	}).Warn("Could not load deck.")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 1, "info entry should be filtered out")

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding log line"))
	}

	assert.Equal(t, got[fieldKeyLevel], LevelWarn, "level mismatch")
	assert.Equal(t, got[fieldKeyMessage], "Could not load deck.", "message mismatch")
	assert.Equal(t, got["deck"], "biology", "field mismatch")
	assert.Equal(t, got["err"], "connection refused", "errors should be logged by message")
}

func TestErrorWrap(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	ErrorWrap(errors.New("disk full"), "saving card")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding log line"))
	}

	assert.Equal(t, got[fieldKeyMessage], "saving card: disk full", "message mismatch")
	assert.Equal(t, got[fieldKeyLevel], LevelError, "level mismatch")
}
