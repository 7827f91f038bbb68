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
	"testing"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/testutils"
)

func strPtr(s string) *string {
	return &s
}

func TestCreateDeck(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		name, err := a.CreateDeck(user, "  Biology ")
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating deck"))
		}

		assert.Equal(t, name, "biology", "name mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{deck.Placeholder}, "questions mismatch")
	})

	t.Run("existing", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		testutils.SetupCard(db, user, "biology", "What is ATP?", "Energy currency of the cell")

		a := NewTest()
		a.DB = db
		_, err := a.CreateDeck(user, "BIOLOGY")

		assert.Equal(t, err, ErrDeckExists, "error mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{"What is ATP?"}, "questions mismatch")
	})

	t.Run("same name for another user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		testutils.SetupCard(db, bob, "biology", "What is ATP?", "Energy currency of the cell")

		a := NewTest()
		a.DB = db
		if _, err := a.CreateDeck(alice, "biology"); err != nil {
			t.Fatal(errors.Wrap(err, "creating deck"))
		}

		assert.DeepEqual(t, testutils.DeckQuestions(t, db, alice, "biology"), []string{deck.Placeholder}, "questions mismatch")
	})

	t.Run("blank name", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		_, err := a.CreateDeck(user, "   ")

		assert.Equal(t, err, ErrDeckNameRequired, "error mismatch")
	})
}

func TestAddCard(t *testing.T) {
	t.Run("replaces placeholder", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		testutils.SetupPlaceholder(db, user, "biology")

		a := NewTest()
		a.DB = db
		card, err := a.AddCard(user, "Biology", "What is ATP?", "Energy currency of the cell")
		if err != nil {
			t.Fatal(errors.Wrap(err, "adding card"))
		}

		assert.Equal(t, card.Deck, "biology", "deck mismatch")
		assert.Equal(t, card.UserID, user.ID, "owner mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{"What is ATP?"}, "questions mismatch")
	})

	t.Run("creates deck", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		if _, err := a.AddCard(user, "chemistry", "What is pH?", "A measure of acidity"); err != nil {
			t.Fatal(errors.Wrap(err, "adding card"))
		}

		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "chemistry"), []string{"What is pH?"}, "questions mismatch")
	})

	testCases := []struct {
		name     string
		deck     string
		question string
		answer   string
		expected error
	}{
		{
			name:     "missing deck",
			deck:     " ",
			question: "q",
			answer:   "a",
			expected: ErrDeckNameRequired,
		},
		{
			name:     "missing question",
			deck:     "biology",
			question: "  ",
			answer:   "a",
			expected: ErrQuestionRequired,
		},
		{
			name:     "missing answer",
			deck:     "biology",
			question: "q",
			answer:   "",
			expected: ErrAnswerRequired,
		},
		{
			name:     "reserved question",
			deck:     "biology",
			question: deck.Placeholder,
			answer:   "a",
			expected: ErrReservedQuestion,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
			testutils.SetupPlaceholder(db, user, "biology")

			a := NewTest()
			a.DB = db
			_, err := a.AddCard(user, tc.deck, tc.question, tc.answer)

			assert.Equal(t, err, tc.expected, "error mismatch")
			assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{deck.Placeholder}, "questions mismatch")
		})
	}
}

func TestDeleteCard(t *testing.T) {
	t.Run("last card leaves placeholder", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		c1 := testutils.SetupCard(db, user, "biology", "What is ATP?", "Energy currency of the cell")

		a := NewTest()
		a.DB = db
		if _, err := a.DeleteCard(user, c1.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "deleting card"))
		}

		questions := testutils.DeckQuestions(t, db, user, "biology")
		assert.DeepEqual(t, questions, []string{deck.Placeholder}, "questions mismatch")
	})

	t.Run("other cards remain", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		c1 := testutils.SetupCard(db, user, "biology", "q1", "a1")
		testutils.SetupCard(db, user, "biology", "q2", "a2")

		a := NewTest()
		a.DB = db
		if _, err := a.DeleteCard(user, c1.UUID); err != nil {
			t.Fatal(errors.Wrap(err, "deleting card"))
		}

		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{"q2"}, "questions mismatch")
	})

	t.Run("card of another user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		c1 := testutils.SetupCard(db, bob, "biology", "q1", "a1")

		a := NewTest()
		a.DB = db
		_, err := a.DeleteCard(alice, c1.UUID)

		assert.Equal(t, err, ErrForbidden, "error mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, bob, "biology"), []string{"q1"}, "questions mismatch")
	})

	t.Run("placeholder", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		p := testutils.SetupPlaceholder(db, user, "biology")

		a := NewTest()
		a.DB = db
		_, err := a.DeleteCard(user, p.UUID)

		assert.Equal(t, err, ErrCardNotFound, "error mismatch")
	})

	t.Run("missing", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		_, err := a.DeleteCard(user, testutils.MustUUID(t))

		assert.Equal(t, err, ErrCardNotFound, "error mismatch")
	})
}

func TestUpdateCard(t *testing.T) {
	testCases := []struct {
		name             string
		params           UpdateCardParams
		expectedErr      error
		expectedQuestion string
		expectedAnswer   string
	}{
		{
			name:             "question",
			params:           UpdateCardParams{Question: strPtr("What is ADP?")},
			expectedQuestion: "What is ADP?",
			expectedAnswer:   "a1",
		},
		{
			name:             "answer",
			params:           UpdateCardParams{Answer: strPtr("Adenosine diphosphate")},
			expectedQuestion: "q1",
			expectedAnswer:   "Adenosine diphosphate",
		},
		{
			name:             "empty answer",
			params:           UpdateCardParams{Answer: strPtr(" ")},
			expectedErr:      ErrAnswerRequired,
			expectedQuestion: "q1",
			expectedAnswer:   "a1",
		},
		{
			name:             "reserved question",
			params:           UpdateCardParams{Question: strPtr(deck.Placeholder)},
			expectedErr:      ErrReservedQuestion,
			expectedQuestion: "q1",
			expectedAnswer:   "a1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
			c1 := testutils.SetupCard(db, user, "biology", "q1", "a1")

			a := NewTest()
			a.DB = db
			_, err := a.UpdateCard(user, c1.UUID, tc.params)
			assert.Equal(t, err, tc.expectedErr, "error mismatch")

			var cardRecord database.Card
			testutils.MustExec(t, db.Where("uuid = ?", c1.UUID).First(&cardRecord), "finding card")
			assert.Equal(t, cardRecord.Question, tc.expectedQuestion, "question mismatch")
			assert.Equal(t, cardRecord.Answer, tc.expectedAnswer, "answer mismatch")
		})
	}
}

func TestMoveCard(t *testing.T) {
	t.Run("into placeholder deck", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		c1 := testutils.SetupCard(db, user, "biology", "q1", "a1")
		testutils.SetupPlaceholder(db, user, "chemistry")

		a := NewTest()
		a.DB = db
		card, err := a.MoveCard(user, c1.UUID, " Chemistry")
		if err != nil {
			t.Fatal(errors.Wrap(err, "moving card"))
		}

		assert.Equal(t, card.Deck, "chemistry", "deck mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{deck.Placeholder}, "source questions mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "chemistry"), []string{"q1"}, "target questions mismatch")
	})

	t.Run("source keeps other cards", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		c1 := testutils.SetupCard(db, user, "biology", "q1", "a1")
		testutils.SetupCard(db, user, "biology", "q2", "a2")

		a := NewTest()
		a.DB = db
		if _, err := a.MoveCard(user, c1.UUID, "chemistry"); err != nil {
			t.Fatal(errors.Wrap(err, "moving card"))
		}

		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{"q2"}, "source questions mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "chemistry"), []string{"q1"}, "target questions mismatch")
	})

	t.Run("same deck", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		c1 := testutils.SetupCard(db, user, "biology", "q1", "a1")

		a := NewTest()
		a.DB = db
		_, err := a.MoveCard(user, c1.UUID, "BIOLOGY")

		assert.Equal(t, err, ErrSameDeck, "error mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{"q1"}, "questions mismatch")
	})
}

func TestDeleteDeck(t *testing.T) {
	testCases := []struct {
		name          string
		confirmation  string
		expectedErr   error
		expectedCount int64
		remaining     []string
	}{
		{
			name:          "confirmed",
			confirmation:  "biology",
			expectedCount: 2,
			remaining:     []string{},
		},
		{
			name:         "wrong confirmation",
			confirmation: "bio",
			expectedErr:  ErrConfirmationMismatch,
			remaining:    []string{"q1", "q2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
			testutils.SetupCard(db, user, "biology", "q1", "a1")
			testutils.SetupCard(db, user, "biology", "q2", "a2")
			testutils.SetupCard(db, user, "chemistry", "q3", "a3")

			a := NewTest()
			a.DB = db
			count, err := a.DeleteDeck(user, "biology", tc.confirmation)

			assert.Equal(t, err, tc.expectedErr, "error mismatch")
			assert.Equal(t, count, tc.expectedCount, "count mismatch")
			assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), tc.remaining, "questions mismatch")
			assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "chemistry"), []string{"q3"}, "other deck mismatch")
		})
	}

	t.Run("missing", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		_, err := a.DeleteDeck(user, "biology", "biology")

		assert.Equal(t, err, ErrDeckNotFound, "error mismatch")
	})
}

func TestListDecks(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	testutils.SetupCard(db, alice, "physics", "q1", "a1")
	testutils.SetupCard(db, alice, "physics", "q2", "a2")
	testutils.SetupPlaceholder(db, alice, "biology")
	testutils.SetupCard(db, bob, "history", "q3", "a3")
	testutils.SetupPlaceholder(db, bob, "empty")

	a := NewTest()
	a.DB = db

	t.Run("own", func(t *testing.T) {
		decks, err := a.ListDecks(alice.ID)
		if err != nil {
			t.Fatal(errors.Wrap(err, "listing decks"))
		}

		assert.DeepEqual(t, decks, []DeckSummary{
			{Name: "biology", CardCount: 0, OwnerUUID: alice.UUID, OwnerEmail: "alice@example.com"},
			{Name: "physics", CardCount: 2, OwnerUUID: alice.UUID, OwnerEmail: "alice@example.com"},
		}, "decks mismatch")
	})

	t.Run("community", func(t *testing.T) {
		decks, err := a.ListCommunityDecks(alice.ID, "")
		if err != nil {
			t.Fatal(errors.Wrap(err, "listing decks"))
		}

		assert.DeepEqual(t, decks, []DeckSummary{
			{Name: "history", CardCount: 1, OwnerUUID: bob.UUID, OwnerEmail: "bob@example.com"},
		}, "decks mismatch")
	})

	t.Run("community search", func(t *testing.T) {
		hits, err := a.ListCommunityDecks(alice.ID, "HIST")
		if err != nil {
			t.Fatal(errors.Wrap(err, "listing decks"))
		}
		misses, err := a.ListCommunityDecks(alice.ID, "physics")
		if err != nil {
			t.Fatal(errors.Wrap(err, "listing decks"))
		}

		assert.Equal(t, len(hits), 1, "hit count mismatch")
		assert.Equal(t, len(misses), 0, "miss count mismatch")
	})
}

func TestSaveCards(t *testing.T) {
	t.Run("drops incomplete rows", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		testutils.SetupPlaceholder(db, user, "biology")

		a := NewTest()
		a.DB = db
		cards, err := a.SaveCards(user, "Biology", []CardSlot{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: ""},
			{Question: "", Answer: "a3"},
			{Question: "q4", Answer: "a4"},
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "saving cards"))
		}

		assert.Equal(t, len(cards), 2, "saved count mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{"q1", "q4"}, "questions mismatch")
	})

	t.Run("nothing to save", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		testutils.SetupPlaceholder(db, user, "biology")

		a := NewTest()
		a.DB = db
		_, err := a.SaveCards(user, "biology", []CardSlot{{Question: "q1"}})

		assert.Equal(t, err, ErrNothingToSave, "error mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, user, "biology"), []string{deck.Placeholder}, "questions mismatch")
	})
}
