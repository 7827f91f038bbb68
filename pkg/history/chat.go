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

package history

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ChatMessage is a message in a tutor chat transcript
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatKey returns the store key of the chat transcript for the deck
func ChatKey(deckName string) string {
	return "chat-history-" + deckName
}

// LoadChat returns the cached chat transcript for the deck. An unreadable
// transcript is treated as empty.
func (c *Cache) LoadChat(deckName string) []ChatMessage {
	raw, ok, err := c.store.Get(ChatKey(deckName))
	if err != nil {
		c.readError(errors.Wrap(err, "reading chat transcript"))
		return []ChatMessage{}
	}
	if !ok {
		return []ChatMessage{}
	}

	var messages []ChatMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil || messages == nil {
		if err != nil {
			c.readError(errors.Wrap(err, "parsing chat transcript"))
		}
		return []ChatMessage{}
	}

	return messages
}

// SaveChat replaces the cached chat transcript for the deck
func (c *Cache) SaveChat(deckName string, messages []ChatMessage) error {
	b, err := json.Marshal(messages)
	if err != nil {
		return errors.Wrap(err, "marshalling chat transcript")
	}

	if err := c.store.Set(ChatKey(deckName), string(b)); err != nil {
		return errors.Wrap(err, "writing chat transcript")
	}

	return nil
}

// ClearChat drops the cached chat transcript for the deck
func (c *Cache) ClearChat(deckName string) error {
	return c.store.Delete(ChatKey(deckName))
}
