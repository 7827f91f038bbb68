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
	"time"

	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/context"
	mw "github.com/recallcards/recall/pkg/server/middleware"
	"github.com/recallcards/recall/pkg/server/presenters"
)

// NewProgress creates a new Progress controller
func NewProgress(app *app.App) *Progress {
	return &Progress{
		app: app,
	}
}

// Progress is a controller for the learning progress
type Progress struct {
	app *app.App
}

type progressQueryPayload struct {
	CardUUIDs []string `json:"card_uuids" validate:"max=1000"`
}

// ProgressQueryResp is the response of a progress query
type ProgressQueryResp struct {
	Progress map[string]deck.Status `json:"progress"`
}

// Query returns the stored statuses of the given cards. Cards without a
// status are omitted.
func (p *Progress) Query(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params progressQueryPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	progress, err := p.app.GetProgress(user.ID, params.CardUUIDs)
	if err != nil {
		handleJSONError(w, err, "getting progress")
		return
	}

	respondJSON(w, http.StatusOK, ProgressQueryResp{Progress: progress})
}

type upsertProgressPayload struct {
	Status string `schema:"status" json:"status" validate:"required,oneof=new learning reviewing mastered"`
}

// ProgressResp is a stored status of a card
type ProgressResp struct {
	CardUUID string      `json:"card_uuid"`
	Status   deck.Status `json:"status"`
	LastSeen time.Time   `json:"last_seen"`
}

// Upsert records the status of a card
func (p *Progress) Upsert(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	cardUUID, err := pathVar(r, "cardUUID")
	if err != nil {
		handleJSONError(w, err, "reading card uuid")
		return
	}

	var params upsertProgressPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	record, err := p.app.UpsertProgress(*user, cardUUID, deck.Status(params.Status))
	if err != nil {
		handleJSONError(w, err, "saving progress")
		return
	}

	respondJSON(w, http.StatusOK, ProgressResp{
		CardUUID: record.CardUUID,
		Status:   deck.NormalizeStatus(record.Status),
		LastSeen: presenters.FormatTS(record.LastSeen),
	})
}

// MasteredResp is the number of mastered cards
type MasteredResp struct {
	Count int64 `json:"count"`
}

// Mastered counts the mastered cards among the given ones
func (p *Progress) Mastered(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var params progressQueryPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	count, err := p.app.CountMastered(user.ID, params.CardUUIDs)
	if err != nil {
		handleJSONError(w, err, "counting mastered cards")
		return
	}

	respondJSON(w, http.StatusOK, MasteredResp{Count: count})
}
