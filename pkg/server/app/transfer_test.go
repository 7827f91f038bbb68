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

func TestTransferDeck(t *testing.T) {
	t.Run("copies real cards", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		c1 := testutils.SetupCard(db, bob, "x", "q1", "a1")
		testutils.SetupCard(db, bob, "x", "q2", "a2")
		testutils.SetupProgress(db, bob, c1.UUID, deck.StatusMastered)

		a := NewTest()
		a.DB = db
		res, err := a.TransferDeck(alice, bob.UUID, "X")
		if err != nil {
			t.Fatal(errors.Wrap(err, "transferring"))
		}

		assert.Equal(t, res.Count, 2, "count mismatch")
		assert.Equal(t, res.DeckName, "x by bob", "deck name mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, alice, "x by bob"), []string{"q1", "q2"}, "questions mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, bob, "x"), []string{"q1", "q2"}, "source should be untouched")

		var progressCount int64
		testutils.MustExec(t, db.Model(&database.Progress{}).Where("user_id = ?", alice.ID).Count(&progressCount), "counting progress")
		assert.Equal(t, progressCount, int64(0), "progress should not be copied")
	})

	t.Run("name collision", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		testutils.SetupCard(db, bob, "x", "q1", "a1")
		testutils.SetupCard(db, alice, "x by bob", "old", "old")
		testutils.SetupPlaceholder(db, alice, "x by bob (2)")

		a := NewTest()
		a.DB = db
		res, err := a.TransferDeck(alice, bob.UUID, "x")
		if err != nil {
			t.Fatal(errors.Wrap(err, "transferring"))
		}

		assert.Equal(t, res.DeckName, "x by bob (3)", "deck name mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, alice, "x by bob (3)"), []string{"q1"}, "questions mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, alice, "x by bob"), []string{"old"}, "existing deck should be untouched")
	})

	t.Run("placeholder only", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		testutils.SetupPlaceholder(db, bob, "x")

		a := NewTest()
		a.DB = db
		res, err := a.TransferDeck(alice, bob.UUID, "x")
		if err != nil {
			t.Fatal(errors.Wrap(err, "transferring"))
		}

		assert.Equal(t, res.Count, 0, "count mismatch")
		assert.Equal(t, res.DeckName, "x by bob", "deck name mismatch")

		var cardCount int64
		testutils.MustExec(t, db.Model(&database.Card{}).Where("user_id = ?", alice.ID).Count(&cardCount), "counting cards")
		assert.Equal(t, cardCount, int64(0), "no cards should be created")
	})

	t.Run("deck without rows", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")

		a := NewTest()
		a.DB = db
		res, err := a.TransferDeck(alice, bob.UUID, "nothing")
		if err != nil {
			t.Fatal(errors.Wrap(err, "transferring"))
		}

		assert.Equal(t, res.Count, 0, "count mismatch")
		assert.Equal(t, res.DeckName, "nothing by bob", "deck name mismatch")

		var cardCount int64
		testutils.MustExec(t, db.Model(&database.Card{}).Where("user_id = ?", alice.ID).Count(&cardCount), "counting cards")
		assert.Equal(t, cardCount, int64(0), "no cards should be created")
	})

	t.Run("wildcards in the name", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
		bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
		testutils.SetupCard(db, bob, `a\b_%`, "q1", "a1")
		testutils.SetupCard(db, alice, `a\b_% by bob`, "old", "old")
		testutils.SetupCard(db, alice, "axb_% by bob (2)", "other", "other")

		a := NewTest()
		a.DB = db
		res, err := a.TransferDeck(alice, bob.UUID, `a\b_%`)
		if err != nil {
			t.Fatal(errors.Wrap(err, "transferring"))
		}

		assert.Equal(t, res.DeckName, `a\b_% by bob (2)`, "deck name mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, alice, `a\b_% by bob (2)`), []string{"q1"}, "questions mismatch")
		assert.DeepEqual(t, testutils.DeckQuestions(t, db, alice, `a\b_% by bob`), []string{"old"}, "existing deck should be untouched")
	})

	testCases := []struct {
		name      string
		ownerUUID func(alice, bob database.User) string
		deck      string
		expected  error
	}{
		{
			name:      "own deck",
			ownerUUID: func(alice, bob database.User) string { return alice.UUID },
			deck:      "mine",
			expected:  ErrForbidden,
		},
		{
			name:      "unknown owner",
			ownerUUID: func(alice, bob database.User) string { return "2d7b9f0c-1f1a-4c57-8b1e-4d7a3f9a0c11" },
			deck:      "x",
			expected:  ErrNotFound,
		},
		{
			name:      "blank deck",
			ownerUUID: func(alice, bob database.User) string { return bob.UUID },
			deck:      " ",
			expected:  ErrDeckNameRequired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			alice := testutils.SetupUserData(db, "alice@example.com", "pass1234")
			bob := testutils.SetupUserData(db, "bob@example.com", "pass1234")
			testutils.SetupCard(db, alice, "mine", "q1", "a1")
			testutils.SetupCard(db, bob, "x", "q1", "a1")

			a := NewTest()
			a.DB = db
			_, err := a.TransferDeck(alice, tc.ownerUUID(alice, bob), tc.deck)

			assert.Equal(t, err, tc.expected, "error mismatch")

			var cardCount int64
			testutils.MustExec(t, db.Model(&database.Card{}).Where("user_id = ?", alice.ID).Count(&cardCount), "counting cards")
			assert.Equal(t, cardCount, int64(1), "card count mismatch")
		})
	}
}

func TestEscapeLike(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "biology by bob", expected: "biology by bob"},
		{input: "100% by bob", expected: `100\% by bob`},
		{input: "a_b by bob", expected: `a\_b by bob`},
		{input: `c:\notes by bob`, expected: `c:\\notes by bob`},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, escapeLike(tc.input), tc.expected, "escaped mismatch")
		})
	}
}
