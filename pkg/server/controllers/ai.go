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

	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/context"
	"github.com/recallcards/recall/pkg/server/llm"
	mw "github.com/recallcards/recall/pkg/server/middleware"
	"github.com/recallcards/recall/pkg/server/presenters"
)

// NewAI creates a new AI controller
func NewAI(app *app.App) *AI {
	return &AI{
		app: app,
	}
}

// AI is a controller for the generation and tutoring endpoints
type AI struct {
	app *app.App
}

type generatePayload struct {
	Topic        string         `json:"topic" validate:"required,max=200"`
	Context      string         `json:"context" validate:"max=4000"`
	Links        []string       `json:"links" validate:"max=10,dive,max=2000"`
	SubTopics    []string       `json:"sub_topics" validate:"max=20,dive,max=200"`
	Tone         string         `json:"tone" validate:"omitempty,oneof=casual neutral formal"`
	Conciseness  string         `json:"conciseness" validate:"omitempty,oneof=concise standard detailed"`
	Technicality string         `json:"technicality" validate:"omitempty,oneof=layman standard technical"`
	Formatting   string         `json:"formatting" validate:"omitempty,oneof=standard bullet_points step_by_step"`
	NumCards     int            `json:"num_cards" validate:"min=1,max=50"`
	Cards        []app.CardSlot `json:"cards" validate:"max=50"`
}

// GenerateResp is the response of a generation
type GenerateResp struct {
	Cards []app.CardSlot `json:"cards"`
	Usage llm.Usage      `json:"usage"`
}

// Generate drafts cards with the language model. Nothing is saved.
func (a *AI) Generate(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params generatePayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	result, err := a.app.Generate(r.Context(), *user, app.GenerateParams{
		Topic:        params.Topic,
		Context:      params.Context,
		Links:        params.Links,
		SubTopics:    params.SubTopics,
		Tone:         params.Tone,
		Conciseness:  params.Conciseness,
		Technicality: params.Technicality,
		Formatting:   params.Formatting,
		NumCards:     params.NumCards,
		Slots:        params.Cards,
	})
	if err != nil {
		handleJSONError(w, err, "generating cards")
		return
	}

	respondJSON(w, http.StatusOK, GenerateResp{
		Cards: result.Cards,
		Usage: result.Usage,
	})
}

type saveGeneratedPayload struct {
	Deck  string         `json:"deck" validate:"required"`
	Cards []app.CardSlot `json:"cards" validate:"required,min=1,max=50"`
}

// SaveResp is the response of saving generated cards
type SaveResp struct {
	Count int         `json:"count"`
	Cards []deck.Card `json:"cards"`
}

// Save stores the complete cards of a generation in a deck
func (a *AI) Save(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params saveGeneratedPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	cards, err := a.app.SaveCards(*user, params.Deck, params.Cards)
	if err != nil {
		handleJSONError(w, err, "saving cards")
		return
	}

	respondJSON(w, http.StatusCreated, SaveResp{
		Count: len(cards),
		Cards: presenters.PresentCards(cards, user.UUID),
	})
}

type chatPayload struct {
	Deck     string        `json:"deck" validate:"required"`
	Messages []llm.Message `json:"messages" validate:"required,min=1,max=50"`
}

// ChatResp is the reply of the tutor
type ChatResp struct {
	Reply string    `json:"reply"`
	Usage llm.Usage `json:"usage"`
}

// Chat answers a question about a deck of the user
func (a *AI) Chat(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params chatPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	result, err := a.app.Chat(r.Context(), *user, app.ChatParams{
		Deck:     params.Deck,
		Messages: params.Messages,
	})
	if err != nil {
		handleJSONError(w, err, "chatting")
		return
	}

	respondJSON(w, http.StatusOK, ChatResp{
		Reply: result.Reply,
		Usage: result.Usage,
	})
}
