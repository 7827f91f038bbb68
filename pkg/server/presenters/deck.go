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

package presenters

import (
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/app"
)

// Deck is a result of PresentDeck
type Deck struct {
	Name      string    `json:"name"`
	CardCount int       `json:"card_count"`
	Owner     DeckOwner `json:"owner"`
}

// DeckOwner is the owner of a deck. The email is reduced to a handle.
type DeckOwner struct {
	UUID   string `json:"uuid"`
	Handle string `json:"handle"`
}

// PresentDeck presents a deck
func PresentDeck(d app.DeckSummary) Deck {
	return Deck{
		Name:      d.Name,
		CardCount: d.CardCount,
		Owner: DeckOwner{
			UUID:   d.OwnerUUID,
			Handle: deck.Handle(d.OwnerEmail),
		},
	}
}

// PresentDecks presents decks
func PresentDecks(decks []app.DeckSummary) []Deck {
	ret := []Deck{}

	for _, d := range decks {
		ret = append(ret, PresentDeck(d))
	}

	return ret
}
