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

package app

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/log"
	"github.com/recallcards/recall/pkg/server/permissions"
)

// TransferResult is the outcome of a deck transfer
type TransferResult struct {
	Count    int
	DeckName string
	Message  string
}

// transferBatchSize is the number of cards inserted per statement
const transferBatchSize = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike escapes the LIKE wildcards in s so that it matches literally
// under ESCAPE '\'
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (a *App) deckNamesWithPrefix(userID int, prefix string) (map[string]bool, error) {
	var names []string
	err := a.DB.Model(&database.Card{}).
		Where(`user_id = ? AND deck LIKE ? ESCAPE '\'`, userID, escapeLike(prefix)+"%").
		Distinct().Pluck("deck", &names).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding deck names")
	}

	ret := map[string]bool{}
	for _, n := range names {
		ret[n] = true
	}

	return ret, nil
}

// TransferDeck copies the real cards of a deck owned by another user into
// a new deck of the user, named after the source deck and its owner. The
// copy is not atomic; a failure while inserting can leave a partial deck.
func (a *App) TransferDeck(user database.User, sourceOwnerUUID, sourceDeck string) (TransferResult, error) {
	sourceDeck = deck.NormalizeName(sourceDeck)
	if sourceDeck == "" {
		return TransferResult{}, ErrDeckNameRequired
	}

	owner, err := a.GetUserByUUID(sourceOwnerUUID)
	if err != nil {
		return TransferResult{}, err
	}
	if ok := permissions.CopyDeck(&user, *owner); !ok {
		return TransferResult{}, ErrForbidden
	}

	base := deck.NormalizeName(deck.TransferBaseName(sourceDeck, deck.Handle(owner.Email.String)))
	existing, err := a.deckNamesWithPrefix(user.ID, base)
	if err != nil {
		return TransferResult{}, err
	}
	name := deck.NextAvailableName(base, existing)

	rows, err := a.GetDeckCards(owner.ID, sourceDeck)
	if err != nil {
		return TransferResult{}, errors.Wrap(err, "reading source deck")
	}
	copies := []database.Card{}
	for _, r := range rows {
		if r.Question == deck.Placeholder {
			continue
		}

		c, err := newCard(user.ID, name, r.Question, r.Answer)
		if err != nil {
			return TransferResult{}, err
		}
		copies = append(copies, c)
	}

	if len(copies) == 0 {
		return TransferResult{
			DeckName: name,
			Message:  fmt.Sprintf("%s has no cards to copy", sourceDeck),
		}, nil
	}

	if err := a.DB.CreateInBatches(&copies, transferBatchSize).Error; err != nil {
		return TransferResult{}, errors.Wrap(err, "copying cards")
	}

	log.WithFields(log.Fields{
		"user_id":  user.ID,
		"owner_id": owner.ID,
		"deck":     name,
		"count":    len(copies),
	}).Info("deck transferred")

	return TransferResult{
		Count:    len(copies),
		DeckName: name,
		Message:  fmt.Sprintf("Copied %d cards into %s", len(copies), name),
	}, nil
}
