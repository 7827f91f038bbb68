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
	"github.com/recallcards/recall/pkg/server/database"
)

// PresentCard presents a card of the user with the given uuid
func PresentCard(card database.Card, ownerUUID string) deck.Card {
	return deck.Card{
		UUID:      card.UUID,
		OwnerUUID: ownerUUID,
		Deck:      card.Deck,
		Question:  card.Question,
		Answer:    card.Answer,
		CreatedAt: FormatTS(card.CreatedAt),
	}
}

// PresentCards presents cards of a single owner
func PresentCards(cards []database.Card, ownerUUID string) []deck.Card {
	ret := []deck.Card{}

	for _, card := range cards {
		p := PresentCard(card, ownerUUID)
		ret = append(ret, p)
	}

	return ret
}
