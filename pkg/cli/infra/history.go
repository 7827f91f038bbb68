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
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/history"
)

// NewHistory returns the history cache of recently studied decks. A
// history that cannot be read is logged in debug mode and treated as empty.
func NewHistory(ctx context.RecallCtx) *history.Cache {
	h := history.New(ctx.Store, ctx.Clock)
	h.OnReadError = func(err error) {
		log.Debug("ignoring unreadable history: %s\n", err.Error())
	}

	return h
}

// ForgetDecks drops the cached entries of the decks so that the next study
// session fetches them from the server
func ForgetDecks(ctx context.RecallCtx, deckNames ...string) {
	h := NewHistory(ctx)

	for _, name := range deckNames {
		if err := h.Remove(name); err != nil {
			log.Debug("clearing history of %s: %s\n", name, err.Error())
		}
	}
}

// ForgetCard drops the cached entries of the decks holding the card
func ForgetCard(ctx context.RecallCtx, cardUUID string) {
	if err := NewHistory(ctx).RemoveCard(cardUUID); err != nil {
		log.Debug("clearing history of card %s: %s\n", cardUUID, err.Error())
	}
}
