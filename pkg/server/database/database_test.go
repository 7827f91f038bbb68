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

package database

import (
	"testing"

	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/server/log"
	"gorm.io/gorm/logger"
)

func TestGetDBLogLevel(t *testing.T) {
	testCases := []struct {
		name     string
		level    string
		expected logger.LogLevel
	}{
		{
			name:     "debug level maps to Info",
			level:    log.LevelDebug,
			expected: logger.Info,
		},
		{
			name:     "info level maps to Silent",
			level:    log.LevelInfo,
			expected: logger.Silent,
		},
		{
			name:     "warn level maps to Warn",
			level:    log.LevelWarn,
			expected: logger.Warn,
		},
		{
			name:     "error level maps to Error",
			level:    log.LevelError,
			expected: logger.Error,
		},
		{
			name:     "unknown level maps to Silent",
			level:    "unknown",
			expected: logger.Silent,
		},
		{
			name:     "empty string maps to Silent",
			level:    "",
			expected: logger.Silent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := getDBLogLevel(tc.level)
			assert.Equal(t, result, tc.expected, "log level mismatch")
		})
	}
}

func TestParamsDialect(t *testing.T) {
	testCases := []struct {
		params   Params
		expected string
	}{
		{
			params:   Params{Path: "/tmp/recall/server.db"},
			expected: DialectSQLite,
		},
		{
			params:   Params{URL: "postgres://recall@localhost:5432/recall"},
			expected: DialectPostgres,
		},
		{
			params:   Params{Path: "/tmp/recall/server.db", URL: "postgres://recall@localhost:5432/recall"},
			expected: DialectPostgres,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.params.Dialect(), tc.expected, "dialect mismatch")
		})
	}
}

func TestToNullString(t *testing.T) {
	assert.Equal(t, ToNullString("alice@example.com").Valid, true, "non-empty string should be valid")
	assert.Equal(t, ToNullString("alice@example.com").String, "alice@example.com", "value mismatch")
	assert.Equal(t, ToNullString("").Valid, false, "empty string should be null")
}
