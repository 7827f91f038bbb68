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

package token

import (
	"encoding/base64"
	"testing"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/assert"
)

func TestNewSessionKey(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 10; i++ {
		key, err := NewSessionKey()
		if err != nil {
			t.Fatal(errors.Wrap(err, "generating"))
		}

		b, err := base64.URLEncoding.DecodeString(key)
		if err != nil {
			t.Fatal(errors.Wrap(err, "decoding"))
		}

		assert.Equal(t, len(b), SessionKeyBytes, "key length mismatch")
		assert.Equal(t, seen[key], false, "keys should not repeat")
		seen[key] = true
	}
}
