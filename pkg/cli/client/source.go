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

package client

import (
	stdcontext "context"

	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/deck"
)

// Source reads cards and progress of the signed in user from the server.
// The server resolves the user from the session, so the user identifiers
// passed to it are only used by the session cache.
type Source struct {
	ctx context.RecallCtx
}

// NewSource returns a source talking to the server of the given context
func NewSource(ctx context.RecallCtx) *Source {
	return &Source{ctx: ctx}
}

// DeckCards is an implementation of study.Source.DeckCards
func (s *Source) DeckCards(c stdcontext.Context, userID, deckName string) ([]deck.Card, error) {
	return getDeckCards(s.ctx, deckName, &requestOptions{Context: c})
}

// Progress is an implementation of study.Source.Progress
func (s *Source) Progress(c stdcontext.Context, userID string, cardUUIDs []string) (map[string]deck.Status, error) {
	return getProgress(s.ctx, cardUUIDs, &requestOptions{Context: c})
}

// SetProgress is an implementation of study.Source.SetProgress
func (s *Source) SetProgress(c stdcontext.Context, userID, cardUUID string, status deck.Status) error {
	_, err := setProgress(s.ctx, cardUUID, status, &requestOptions{Context: c})
	return err
}
