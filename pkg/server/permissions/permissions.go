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

// Package permissions decides who may act on a resource
package permissions

import (
	"github.com/recallcards/recall/pkg/server/database"
)

// EditCard checks if the given user can change or delete the given card
func EditCard(user *database.User, card database.Card) bool {
	if user == nil {
		return false
	}
	if card.UserID == 0 {
		return false
	}

	return card.UserID == user.ID
}

// CopyDeck checks if the given user can copy a deck of the given owner into
// their own collection. Decks are readable by every signed in user, but
// copying a deck onto itself is not allowed.
func CopyDeck(user *database.User, owner database.User) bool {
	if user == nil {
		return false
	}
	if owner.ID == 0 {
		return false
	}

	return owner.ID != user.ID
}
