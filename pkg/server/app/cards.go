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
	"errors"
	"strings"

	pkgErrors "github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/helpers"
	"github.com/recallcards/recall/pkg/server/permissions"
	"gorm.io/gorm"
)

// DeckSummary is a deck of a user with the number of its real cards
type DeckSummary struct {
	Name       string
	CardCount  int
	OwnerUUID  string
	OwnerEmail string
}

// CardSlot is a question and answer pair submitted for a deck. Either side
// may be empty.
type CardSlot struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UpdateCardParams is the set of changes to a card. Nil fields are left
// unchanged.
type UpdateCardParams struct {
	Question *string
	Answer   *string
}

func newCard(userID int, deckName, question, answer string) (database.Card, error) {
	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Card{}, err
	}

	return database.Card{
		UUID:     uuid,
		UserID:   userID,
		Deck:     deckName,
		Question: question,
		Answer:   answer,
	}, nil
}

func validateCardContent(question, answer string) error {
	if strings.TrimSpace(question) == "" {
		return ErrQuestionRequired
	}
	if strings.TrimSpace(answer) == "" {
		return ErrAnswerRequired
	}
	if question == deck.Placeholder {
		return ErrReservedQuestion
	}

	return nil
}

func countDeckRows(db *gorm.DB, userID int, deckName string) (int64, error) {
	var count int64
	if err := db.Model(&database.Card{}).Where("user_id = ? AND deck = ?", userID, deckName).Count(&count).Error; err != nil {
		return 0, pkgErrors.Wrap(err, "counting deck rows")
	}

	return count, nil
}

func deletePlaceholder(db *gorm.DB, userID int, deckName string) error {
	if err := db.Where("user_id = ? AND deck = ? AND question = ?", userID, deckName, deck.Placeholder).Delete(&database.Card{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting placeholder")
	}

	return nil
}

// ensurePlaceholder keeps a deck without real cards in existence by giving
// it a single placeholder card
func ensurePlaceholder(db *gorm.DB, userID int, deckName string) error {
	count, err := countDeckRows(db, userID, deckName)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	p, err := newCard(userID, deckName, deck.Placeholder, "")
	if err != nil {
		return err
	}
	if err := db.Create(&p).Error; err != nil {
		return pkgErrors.Wrap(err, "creating placeholder")
	}

	return nil
}

// GetDeckCards returns every row of the deck, the placeholder included,
// in the order of creation
func (a *App) GetDeckCards(userID int, deckName string) ([]database.Card, error) {
	var cards []database.Card
	if err := a.DB.Where("user_id = ? AND deck = ?", userID, deck.NormalizeName(deckName)).Order("id ASC").Find(&cards).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding cards")
	}

	return cards, nil
}

func (a *App) deckSummaryQuery() *gorm.DB {
	return a.DB.Table("cards").
		Select("cards.deck AS name, SUM(CASE WHEN cards.question <> ? THEN 1 ELSE 0 END) AS card_count, users.uuid AS owner_uuid, users.email AS owner_email", deck.Placeholder).
		Joins("INNER JOIN users ON users.id = cards.user_id").
		Group("cards.deck, users.uuid, users.email")
}

// ListDecks returns the decks of the user ordered by name
func (a *App) ListDecks(userID int) ([]DeckSummary, error) {
	ret := []DeckSummary{}
	if err := a.deckSummaryQuery().Where("cards.user_id = ?", userID).Order("cards.deck ASC").Scan(&ret).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "listing decks")
	}

	return ret, nil
}

// ListCommunityDecks returns the decks of other users that have at least
// one real card. A non-empty search keeps the decks whose name contains it.
func (a *App) ListCommunityDecks(userID int, search string) ([]DeckSummary, error) {
	q := a.deckSummaryQuery().Where("cards.user_id <> ?", userID)
	if s := deck.NormalizeName(search); s != "" {
		q = q.Where("cards.deck LIKE ?", "%"+s+"%")
	}

	ret := []DeckSummary{}
	err := q.
		Having("SUM(CASE WHEN cards.question <> ? THEN 1 ELSE 0 END) > 0", deck.Placeholder).
		Order("cards.deck ASC, users.email ASC").
		Scan(&ret).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "listing community decks")
	}

	return ret, nil
}

// CreateDeck creates an empty deck for the user
func (a *App) CreateDeck(user database.User, name string) (string, error) {
	deckName := deck.NormalizeName(name)
	if deckName == "" {
		return "", ErrDeckNameRequired
	}

	tx := a.DB.Begin()

	count, err := countDeckRows(tx, user.ID, deckName)
	if err != nil {
		tx.Rollback()
		return "", err
	}
	if count > 0 {
		tx.Rollback()
		return "", ErrDeckExists
	}

	if err := ensurePlaceholder(tx, user.ID, deckName); err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Commit().Error; err != nil {
		return "", pkgErrors.Wrap(err, "committing transaction")
	}

	return deckName, nil
}

// AddCard adds a card to the deck of the user, creating the deck if it
// does not exist
func (a *App) AddCard(user database.User, deckName, question, answer string) (database.Card, error) {
	deckName = deck.NormalizeName(deckName)
	if deckName == "" {
		return database.Card{}, ErrDeckNameRequired
	}
	if err := validateCardContent(question, answer); err != nil {
		return database.Card{}, err
	}

	card, err := newCard(user.ID, deckName, question, answer)
	if err != nil {
		return database.Card{}, err
	}

	tx := a.DB.Begin()

	if err := tx.Create(&card).Error; err != nil {
		tx.Rollback()
		return database.Card{}, pkgErrors.Wrap(err, "inserting card")
	}
	if err := deletePlaceholder(tx, user.ID, deckName); err != nil {
		tx.Rollback()
		return database.Card{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return database.Card{}, pkgErrors.Wrap(err, "committing transaction")
	}

	return card, nil
}

// getOwnedCard finds a real card the user may edit
func getOwnedCard(db *gorm.DB, user database.User, uuid string) (database.Card, error) {
	var card database.Card
	err := db.Where("uuid = ?", uuid).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return card, ErrCardNotFound
	} else if err != nil {
		return card, pkgErrors.Wrap(err, "finding card")
	}

	if card.Question == deck.Placeholder {
		return card, ErrCardNotFound
	}
	if ok := permissions.EditCard(&user, card); !ok {
		return card, ErrForbidden
	}

	return card, nil
}

// UpdateCard changes the question or answer of a card
func (a *App) UpdateCard(user database.User, uuid string, p UpdateCardParams) (database.Card, error) {
	card, err := getOwnedCard(a.DB, user, uuid)
	if err != nil {
		return card, err
	}

	if p.Question != nil {
		card.Question = *p.Question
	}
	if p.Answer != nil {
		card.Answer = *p.Answer
	}
	if err := validateCardContent(card.Question, card.Answer); err != nil {
		return card, err
	}

	if err := a.DB.Save(&card).Error; err != nil {
		return card, pkgErrors.Wrap(err, "saving card")
	}

	return card, nil
}

// MoveCard moves a card to another deck of the same user. The source deck
// keeps a placeholder if it runs out of cards.
func (a *App) MoveCard(user database.User, uuid, deckName string) (database.Card, error) {
	target := deck.NormalizeName(deckName)
	if target == "" {
		return database.Card{}, ErrDeckNameRequired
	}

	tx := a.DB.Begin()

	card, err := getOwnedCard(tx, user, uuid)
	if err != nil {
		tx.Rollback()
		return card, err
	}
	if card.Deck == target {
		tx.Rollback()
		return card, ErrSameDeck
	}

	source := card.Deck
	card.Deck = target
	if err := tx.Save(&card).Error; err != nil {
		tx.Rollback()
		return card, pkgErrors.Wrap(err, "moving card")
	}
	if err := deletePlaceholder(tx, user.ID, target); err != nil {
		tx.Rollback()
		return card, err
	}
	if err := ensurePlaceholder(tx, user.ID, source); err != nil {
		tx.Rollback()
		return card, err
	}

	if err := tx.Commit().Error; err != nil {
		return card, pkgErrors.Wrap(err, "committing transaction")
	}

	return card, nil
}

// DeleteCard deletes a card. Deleting the last card of a deck leaves the
// deck with a placeholder.
func (a *App) DeleteCard(user database.User, uuid string) (database.Card, error) {
	tx := a.DB.Begin()

	card, err := getOwnedCard(tx, user, uuid)
	if err != nil {
		tx.Rollback()
		return card, err
	}

	if err := tx.Delete(&card).Error; err != nil {
		tx.Rollback()
		return card, pkgErrors.Wrap(err, "deleting card")
	}
	if err := ensurePlaceholder(tx, user.ID, card.Deck); err != nil {
		tx.Rollback()
		return card, err
	}

	if err := tx.Commit().Error; err != nil {
		return card, pkgErrors.Wrap(err, "committing transaction")
	}

	return card, nil
}

// DeleteDeck deletes every card of the deck. The confirmation must repeat
// the name of the deck.
func (a *App) DeleteDeck(user database.User, name, confirmation string) (int64, error) {
	deckName := deck.NormalizeName(name)
	if deckName == "" {
		return 0, ErrDeckNameRequired
	}
	if deck.NormalizeName(confirmation) != deckName {
		return 0, ErrConfirmationMismatch
	}

	res := a.DB.Where("user_id = ? AND deck = ?", user.ID, deckName).Delete(&database.Card{})
	if err := res.Error; err != nil {
		return 0, pkgErrors.Wrap(err, "deleting deck")
	}
	if res.RowsAffected == 0 {
		return 0, ErrDeckNotFound
	}

	return res.RowsAffected, nil
}

// SaveCards adds the complete pairs among the given slots to the deck and
// returns the saved cards. Slots missing either side are left out.
func (a *App) SaveCards(user database.User, deckName string, slots []CardSlot) ([]database.Card, error) {
	deckName = deck.NormalizeName(deckName)
	if deckName == "" {
		return nil, ErrDeckNameRequired
	}

	cards := []database.Card{}
	for _, s := range slots {
		if validateCardContent(s.Question, s.Answer) != nil {
			continue
		}

		c, err := newCard(user.ID, deckName, s.Question, s.Answer)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		return nil, ErrNothingToSave
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cards).Error; err != nil {
			return pkgErrors.Wrap(err, "inserting cards")
		}

		return deletePlaceholder(tx, user.ID, deckName)
	})
	if err != nil {
		return nil, err
	}

	return cards, nil
}
