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
	"github.com/recallcards/recall/pkg/server/presenters"
)

// NewDecks creates a new Decks controller
func NewDecks(app *app.App) *Decks {
	return &Decks{
		app: app,
	}
}

// Decks is a controller for the decks
type Decks struct {
	app *app.App
}

// Index lists the decks of the user
func (d *Decks) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	decks, err := d.app.ListDecks(user.ID)
	if err != nil {
		handleJSONError(w, err, "listing decks")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentDecks(decks))
}

type communityQuery struct {
	Search string `schema:"q" json:"q" validate:"max=100"`
}

// Community lists the decks other users share
func (d *Decks) Community(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var q communityQuery
	if err := parseQuery(r, &q); err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	decks, err := d.app.ListCommunityDecks(user.ID, q.Search)
	if err != nil {
		handleJSONError(w, err, "listing community decks")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentDecks(decks))
}

type createDeckPayload struct {
	Name string `schema:"name" json:"name" validate:"required"`
}

// CreateDeckResp is the response of a deck creation
type CreateDeckResp struct {
	Name string `json:"name"`
}

// Create creates an empty deck
func (d *Decks) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params createDeckPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	name, err := d.app.CreateDeck(*user, params.Name)
	if err != nil {
		handleJSONError(w, err, "creating deck")
		return
	}

	respondJSON(w, http.StatusCreated, CreateDeckResp{Name: name})
}

// Cards lists every card of a deck of the user, the placeholder included
func (d *Decks) Cards(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	name, err := pathVar(r, "name")
	if err != nil {
		handleJSONError(w, err, "reading deck name")
		return
	}

	cards, err := d.app.GetDeckCards(user.ID, name)
	if err != nil {
		handleJSONError(w, err, "finding cards")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentCards(cards, user.UUID))
}

type deleteDeckPayload struct {
	Confirmation string `schema:"confirmation" json:"confirmation" validate:"required"`
}

// DeleteDeckResp is the response of a deck deletion
type DeleteDeckResp struct {
	Deleted int64 `json:"deleted"`
}

// Delete deletes a deck. The payload must repeat the name of the deck.
func (d *Decks) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	name, err := pathVar(r, "name")
	if err != nil {
		handleJSONError(w, err, "reading deck name")
		return
	}

	var params deleteDeckPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	n, err := d.app.DeleteDeck(*user, name, params.Confirmation)
	if err != nil {
		handleJSONError(w, err, "deleting deck")
		return
	}

	respondJSON(w, http.StatusOK, DeleteDeckResp{Deleted: n})
}
