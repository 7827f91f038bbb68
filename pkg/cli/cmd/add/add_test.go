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

package add

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/testutils"
	"github.com/recallcards/recall/pkg/cli/ui"
	"github.com/recallcards/recall/pkg/deck"
	apitest "github.com/recallcards/recall/pkg/server/testutils"
)

func TestGetContent(t *testing.T) {
	testutils.CaptureOutput(t)

	testCases := []struct {
		name             string
		input            string
		question         string
		answer           string
		expectedQuestion string
		expectedAnswer   string
		ok               bool
	}{
		{
			name:             "both from flags",
			question:         "What is ATP?",
			answer:           "Energy currency",
			expectedQuestion: "What is ATP?",
			expectedAnswer:   "Energy currency",
			ok:               true,
		},
		{
			name:             "both prompted",
			input:            "What is ATP?\nEnergy currency\n",
			expectedQuestion: "What is ATP?",
			expectedAnswer:   "Energy currency",
			ok:               true,
		},
		{
			name:             "answer prompted",
			input:            "Energy currency\n",
			question:         "What is ATP?",
			expectedQuestion: "What is ATP?",
			expectedAnswer:   "Energy currency",
			ok:               true,
		},
		{
			name:  "empty answer",
			input: "What is ATP?\n\n",
			ok:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := ui.NewPrompter(strings.NewReader(tc.input))

			question, answer, err := getContent(p, tc.question, tc.answer)
			if !tc.ok {
				assert.NotEqual(t, err, nil, "error should not be nil")
				return
			}
			if err != nil {
				t.Fatal(errors.Wrap(err, "getting content"))
			}

			assert.Equal(t, question, tc.expectedQuestion, "question mismatch")
			assert.Equal(t, answer, tc.expectedAnswer, "answer mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	server := testutils.NewServer(t, nil)
	alice := apitest.SetupUserData(server.DB, "alice@example.com", "pass1234")
	apitest.SetupPlaceholder(server.DB, alice, "biology")

	ctx := testutils.NewCtx(t, server)
	testutils.Login(t, &ctx, server.DB, alice)

	h := infra.NewHistory(ctx)
	if err := h.Upsert("biology", []deck.Card{{UUID: "stale", Deck: "biology", Question: deck.Placeholder}}); err != nil {
		t.Fatal(errors.Wrap(err, "preparing history"))
	}

	card, err := Do(ctx, "Biology", "What is ATP?", "Energy currency")
	if err != nil {
		t.Fatal(errors.Wrap(err, "adding card"))
	}

	assert.Equal(t, card.Deck, "biology", "deck mismatch")
	assert.NotEqual(t, card.UUID, "", "uuid should be set")
	assert.DeepEqual(t, apitest.DeckQuestions(t, server.DB, alice, "biology"), []string{"What is ATP?"}, "questions mismatch")
	assert.Equal(t, h.GetByName("biology") == nil, true, "cached deck should be forgotten")
}
