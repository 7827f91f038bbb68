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
	"github.com/recallcards/recall/pkg/server/database"
	mw "github.com/recallcards/recall/pkg/server/middleware"
	"github.com/recallcards/recall/pkg/server/presenters"
)

// NewCards creates a new Cards controller
func NewCards(app *app.App) *Cards {
	return &Cards{
		app: app,
	}
}

// Cards is a controller for the cards
type Cards struct {
	app *app.App
}

type createCardPayload struct {
	Deck     string `schema:"deck" json:"deck" validate:"required"`
	Question string `schema:"question" json:"question" validate:"required"`
	Answer   string `schema:"answer" json:"answer" validate:"required"`
}

// Create adds a card to a deck of the user
func (c *Cards) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params createCardPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	card, err := c.app.AddCard(*user, params.Deck, params.Question, params.Answer)
	if err != nil {
		handleJSONError(w, err, "adding card")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentCard(card, user.UUID))
}

type updateCardPayload struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Deck     *string `json:"deck"`
}

// Update edits a card. A deck in the payload moves the card.
func (c *Cards) Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	uuid, err := pathVar(r, "cardUUID")
	if err != nil {
		handleJSONError(w, err, "reading card uuid")
		return
	}

	var params updateCardPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if params.Question == nil && params.Answer == nil && params.Deck == nil {
		handleJSONError(w, badRequestError{msg: "nothing to update"}, "validating payload")
		return
	}

	var card database.Card
	if params.Deck != nil {
		card, err = c.app.MoveCard(*user, uuid, *params.Deck)
		if err != nil {
			handleJSONError(w, err, "moving card")
			return
		}
	}
	if params.Question != nil || params.Answer != nil {
		card, err = c.app.UpdateCard(*user, uuid, app.UpdateCardParams{
			Question: params.Question,
			Answer:   params.Answer,
		})
		if err != nil {
			handleJSONError(w, err, "updating card")
			return
		}
	}

	respondJSON(w, http.StatusOK, presenters.PresentCard(card, user.UUID))
}

// Delete deletes a card
func (c *Cards) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	uuid, err := pathVar(r, "cardUUID")
	if err != nil {
		handleJSONError(w, err, "reading card uuid")
		return
	}

	card, err := c.app.DeleteCard(*user, uuid)
	if err != nil {
		handleJSONError(w, err, "deleting card")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentCard(card, user.UUID))
}
