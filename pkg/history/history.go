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

// Package history keeps a time-boxed local cache of recently opened decks
package history

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/clock"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/kv"
)

const (
	// Key is the store key holding the serialized history
	Key = "studyHistory"
	// TTL is the age after which an entry is no longer listed as recent
	TTL = 7 * 24 * time.Hour
)

// Entry is a cached deck
type Entry struct {
	DeckName  string      `json:"deck_name"`
	CardCount int         `json:"card_count"`
	Timestamp int64       `json:"timestamp"`
	Cards     []deck.Card `json:"cards"`
}

// WrittenAt returns the time at which the entry was written
func (e Entry) WrittenAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Cache is the local history of opened decks. It is a best-effort cache
// and never the source of truth for deck content.
type Cache struct {
	store kv.Store
	clock clock.Clock

	// OnReadError, if set, is called when the stored history cannot be
	// read. The history is treated as empty either way.
	OnReadError func(error)
}

// New returns a cache persisted in the given store
func New(store kv.Store, c clock.Clock) *Cache {
	return &Cache{
		store: store,
		clock: c,
	}
}

func (c *Cache) read() []Entry {
	raw, ok, err := c.store.Get(Key)
	if err != nil {
		c.readError(errors.Wrap(err, "reading history"))
		return []Entry{}
	}
	if !ok || raw == "" {
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.readError(errors.Wrap(err, "parsing history"))
		return []Entry{}
	}
	if entries == nil {
		return []Entry{}
	}

	return entries
}

func (c *Cache) readError(err error) {
	if c.OnReadError != nil {
		c.OnReadError(err)
	}
}

func (c *Cache) write(entries []Entry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "marshalling history")
	}

	if err := c.store.Set(Key, string(b)); err != nil {
		return errors.Wrap(err, "writing history")
	}

	return nil
}

func without(entries []Entry, deckName string) []Entry {
	ret := []Entry{}

	for _, e := range entries {
		if e.DeckName == deckName {
			continue
		}

		ret = append(ret, e)
	}

	return ret
}

// Upsert replaces the entry for the deck with a fresh snapshot and moves
// it to the front of the history
func (c *Cache) Upsert(deckName string, cards []deck.Card) error {
	if deckName == "" {
		return nil
	}

	snapshot := make([]deck.Card, len(cards))
	copy(snapshot, cards)

	entry := Entry{
		DeckName:  deckName,
		CardCount: len(deck.RealCards(cards)),
		Timestamp: c.clock.Now().UnixMilli(),
		Cards:     snapshot,
	}

	entries := append([]Entry{entry}, without(c.read(), deckName)...)

	return c.write(entries)
}

// ListRecent returns the entries in the order they are stored, which is
// most recently upserted first. Entries TTL old or older are left out unless
// includeExpired is set.
func (c *Cache) ListRecent(includeExpired bool) []Entry {
	entries := c.read()
	if includeExpired {
		return entries
	}

	now := c.clock.Now()
	ret := []Entry{}

	for _, e := range entries {
		if now.Sub(e.WrittenAt()) >= TTL {
			continue
		}

		ret = append(ret, e)
	}

	return ret
}

// GetByName returns the entry for the deck, expired or not. It returns nil
// if the deck is not in the history.
func (c *Cache) GetByName(deckName string) *Entry {
	for _, e := range c.read() {
		if e.DeckName == deckName {
			entry := e
			return &entry
		}
	}

	return nil
}

// Remove drops the entry for the deck
func (c *Cache) Remove(deckName string) error {
	entries := c.read()

	filtered := without(entries, deckName)
	if len(filtered) == len(entries) {
		return nil
	}

	return c.write(filtered)
}

// RemoveCard drops the entries of every deck holding the card
func (c *Cache) RemoveCard(cardUUID string) error {
	entries := c.read()
	ret := []Entry{}

	for _, e := range entries {
		held := false
		for _, card := range e.Cards {
			if card.UUID == cardUUID {
				held = true
				break
			}
		}
		if held {
			continue
		}

		ret = append(ret, e)
	}

	if len(ret) == len(entries) {
		return nil
	}

	return c.write(ret)
}
