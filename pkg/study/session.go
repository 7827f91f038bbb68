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

// Package study drives a study session over the cards of a single deck
package study

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/history"
)

// ErrDeckNotFound is returned when a deck has no real cards in either the
// history cache or the remote store
var ErrDeckNotFound = errors.New("the deck could not be found")

// Source is the remote store of cards and progress
type Source interface {
	DeckCards(ctx context.Context, userID, deckName string) ([]deck.Card, error)
	// Progress returns the statuses recorded for the given cards. Cards
	// without a record are left out of the map.
	Progress(ctx context.Context, userID string, cardUUIDs []string) (map[string]deck.Status, error)
	SetProgress(ctx context.Context, userID, cardUUID string, status deck.Status) error
}

// ViewCard is a card being studied
type ViewCard struct {
	deck.Card
	Status deck.Status
	// Rotation is the tilt of the card in degrees, in [-5, 5)
	Rotation float64
	// OffsetX is the horizontal offset of the card, in [-2, 2)
	OffsetX float64
}

// Direction is the direction of navigation
type Direction int

const (
	// Next moves to the following card
	Next Direction = iota
	// Prev moves to the preceding card
	Prev
)

// State is the lifecycle state of a session
type State int

const (
	// StateIdle is the state before any deck is loaded
	StateIdle State = iota
	// StateReady is the state of a session with at least one card
	StateReady
	// StateNotFound is the terminal state of a session whose deck is missing
	// or has no real cards
	StateNotFound
)

// Session is the state of a study session. It is driven from a single
// goroutine; only the persistence of statuses runs in the background.
type Session struct {
	source Source
	cache  *history.Cache
	rand   *rand.Rand

	// OnError, if set, receives failures that do not stop the session,
	// such as a status that could not be saved
	OnError func(error)

	userID   string
	deckName string
	state    State
	cards    []ViewCard
	index    int
	flipped  bool

	wg sync.WaitGroup
}

// NewSession returns an idle session. cache may be nil, in which case every
// load goes to the source.
func NewSession(source Source, cache *history.Cache, rnd *rand.Rand) *Session {
	return &Session{
		source: source,
		cache:  cache,
		rand:   rnd,
	}
}

func (s *Session) report(err error) {
	if s.OnError != nil {
		s.OnError(err)
	}
}

func (s *Session) resolveCards(ctx context.Context, deckName, userID string) ([]deck.Card, error) {
	if s.cache != nil {
		if entry := s.cache.GetByName(deckName); entry != nil {
			return entry.Cards, nil
		}
	}

	cards, err := s.source.DeckCards(ctx, userID, deckName)
	if err != nil {
		return nil, errors.Wrap(err, "fetching cards")
	}
	if len(cards) == 0 {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Upsert(deckName, cards); err != nil {
			s.report(errors.Wrap(err, "caching deck"))
		}
	}

	return cards, nil
}

// Load resolves the cards of the deck and resets the session to the first
// card. A deck without real cards puts the session in StateNotFound and
// returns ErrDeckNotFound.
func (s *Session) Load(ctx context.Context, deckName, userID string) error {
	s.userID = userID
	s.deckName = deckName
	s.cards = nil
	s.index = 0
	s.flipped = false

	cards, err := s.resolveCards(ctx, deckName, userID)
	if err != nil {
		s.state = StateIdle
		return err
	}

	studyCards := deck.RealCards(cards)
	if len(studyCards) == 0 {
		s.state = StateNotFound
		return ErrDeckNotFound
	}

	uuids := make([]string, 0, len(studyCards))
	for _, c := range studyCards {
		uuids = append(uuids, c.UUID)
	}

	progress, err := s.source.Progress(ctx, userID, uuids)
	if err != nil {
		s.report(errors.Wrap(err, "fetching progress"))
		progress = nil
	}

	viewCards := make([]ViewCard, 0, len(studyCards))
	for _, c := range studyCards {
		status, ok := progress[c.UUID]
		if !ok {
			status = deck.StatusNew
		}

		viewCards = append(viewCards, ViewCard{
			Card:     c,
			Status:   status,
			Rotation: s.rand.Float64()*10 - 5,
			OffsetX:  s.rand.Float64()*4 - 2,
		})
	}

	s.cards = viewCards
	s.state = StateReady

	return nil
}

// Flip turns the current card over
func (s *Session) Flip() {
	s.flipped = !s.flipped
}

// Advance moves to the next or previous card. The deck wraps around in
// both directions.
func (s *Session) Advance(d Direction) {
	n := len(s.cards)
	if n == 0 {
		return
	}

	s.flipped = false

	switch d {
	case Next:
		s.index = (s.index + 1) % n
	case Prev:
		s.index = (s.index - 1 + n) % n
	}
}

// SetStatus sets the status of the current card and saves it in the
// background. A failed save is reported through OnError and the local
// status is kept.
func (s *Session) SetStatus(ctx context.Context, status deck.Status) error {
	if _, err := deck.ParseStatus(string(status)); err != nil {
		return err
	}
	if len(s.cards) == 0 {
		return nil
	}

	card := &s.cards[s.index]
	card.Status = status

	userID := s.userID
	cardUUID := card.UUID
	bg := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.source.SetProgress(bg, userID, cardUUID, status); err != nil {
			s.report(errors.Wrapf(err, "saving status of card %s", cardUUID))
		}
	}()

	return nil
}

// Wait blocks until all background saves have finished
func (s *Session) Wait() {
	s.wg.Wait()
}

// Current returns the card under study. The boolean is false when the
// session has no cards.
func (s *Session) Current() (ViewCard, bool) {
	if len(s.cards) == 0 {
		return ViewCard{}, false
	}

	return s.cards[s.index], true
}

// Cards returns a copy of the cards in the session
func (s *Session) Cards() []ViewCard {
	ret := make([]ViewCard, len(s.cards))
	copy(ret, s.cards)

	return ret
}

// Empty returns true if the session has no cards to study
func (s *Session) Empty() bool {
	return len(s.cards) == 0
}

// Index returns the position of the current card
func (s *Session) Index() int {
	return s.index
}

// IsFlipped returns true if the current card shows its answer
func (s *Session) IsFlipped() bool {
	return s.flipped
}

// State returns the lifecycle state of the session
func (s *Session) State() State {
	return s.state
}

// DeckName returns the name of the loaded deck
func (s *Session) DeckName() string {
	return s.deckName
}
