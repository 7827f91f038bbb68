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

package infra

import (
	"testing"
	"time"

	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/clock"
)

func TestRequireLogin(t *testing.T) {
	c := clock.NewMock()
	now := c.Now()

	testCases := []struct {
		name     string
		key      string
		expiry   int64
		expected error
	}{
		{
			name:     "no session",
			expected: ErrLoginRequired,
		},
		{
			name:     "live session",
			key:      "some-key",
			expiry:   now.Add(time.Hour).Unix(),
			expected: nil,
		},
		{
			name:     "expired session",
			key:      "some-key",
			expiry:   now.Add(-time.Hour).Unix(),
			expected: ErrSessionExpired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.RecallCtx{
				SessionKey:       tc.key,
				SessionKeyExpiry: tc.expiry,
				Clock:            c,
			}

			assert.Equal(t, RequireLogin(ctx), tc.expected, "error mismatch")
		})
	}
}
