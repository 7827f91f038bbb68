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

package controllers

import (
	"net/http"

	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/context"
	mw "github.com/recallcards/recall/pkg/server/middleware"
)

// NewTransfers creates a new Transfers controller
func NewTransfers(app *app.App) *Transfers {
	return &Transfers{
		app: app,
	}
}

// Transfers is a controller for copying the decks of other users
type Transfers struct {
	app *app.App
}

type transferPayload struct {
	OwnerUUID string `schema:"owner_uuid" json:"owner_uuid" validate:"required"`
	Deck      string `schema:"deck" json:"deck" validate:"required"`
}

// TransferResp is the response of a transfer
type TransferResp struct {
	Count    int    `json:"count"`
	DeckName string `json:"deck_name"`
	Message  string `json:"message"`
}

// Create copies a deck of another user into a new deck of the user
func (t *Transfers) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params transferPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	result, err := t.app.TransferDeck(*user, params.OwnerUUID, params.Deck)
	if err != nil {
		handleJSONError(w, err, "transferring deck")
		return
	}

	respondJSON(w, http.StatusCreated, TransferResp{
		Count:    result.Count,
		DeckName: result.DeckName,
		Message:  result.Message,
	})
}
