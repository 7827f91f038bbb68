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

// Package deck defines the cards, decks and learning statuses shared by
// the server and the command line client
package deck

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Placeholder is the question of the card that stands in for an empty deck.
// A deck exists as long as at least one card row exists for it, so a deck
// with no real cards keeps exactly one placeholder card.
const Placeholder = "---PLACEHOLDER---"

// Status is the learning stage of a card for a user
type Status string

const (
	// StatusNew is the status of a card that has not been studied
	StatusNew Status = "new"
	// StatusLearning is the status of a card being learned
	StatusLearning Status = "learning"
	// StatusReviewing is the status of a card under review
	StatusReviewing Status = "reviewing"
	// StatusMastered is the status of a mastered card
	StatusMastered Status = "mastered"
)

// Statuses lists all statuses in their enum order
var Statuses = []Status{StatusNew, StatusLearning, StatusReviewing, StatusMastered}

// ErrInvalidStatus is an error for an unknown status value
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus parses the given string into a status
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}

	return "", errors.Wrapf(ErrInvalidStatus, "'%s'", s)
}

// NormalizeStatus resolves a stored status value. Values outside of the
// enum, including empty ones, resolve to StatusNew.
func NormalizeStatus(s string) Status {
	st, err := ParseStatus(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return StatusNew
	}

	return st
}

// Card is a question and answer pair in a deck
type Card struct {
	UUID      string    `json:"uuid"`
	OwnerUUID string    `json:"owner_uuid,omitempty"`
	Deck      string    `json:"deck"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// IsPlaceholder returns true if the card stands in for an empty deck
func (c Card) IsPlaceholder() bool {
	return c.Question == Placeholder
}

// RealCards returns the cards that are not placeholders, preserving order
func RealCards(cards []Card) []Card {
	ret := []Card{}

	for _, c := range cards {
		if c.IsPlaceholder() {
			continue
		}

		ret = append(ret, c)
	}

	return ret
}

// NormalizeName returns the canonical form of a deck name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Handle returns the display handle for the given email, which is its
// local part
func Handle(email string) string {
	if idx := strings.Index(email, "@"); idx >= 0 {
		return email[:idx]
	}

	return email
}
