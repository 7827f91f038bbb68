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

package edit

import (
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/output"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/spf13/cobra"
)

var questionFlag, answerFlag, deckFlag string

var example = `
 * Edit the question of a card
 recall edit 6f0a2b6e-1d0b-4a55-9b3c-2d6f3c0e6b1a -q "What does ATP stand for?"

 * Move a card to another deck
 recall edit 6f0a2b6e-1d0b-4a55-9b3c-2d6f3c0e6b1a -d biochemistry`

// ErrNothingToEdit is returned when no change is given
var ErrNothingToEdit = errors.New("Nothing to edit. Pass --question, --answer or --deck")

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new edit command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <card uuid>",
		Short:   "Edit a card or move it to another deck",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&questionFlag, "question", "q", "", "the new question")
	f.StringVarP(&answerFlag, "answer", "a", "", "the new answer")
	f.StringVarP(&deckFlag, "deck", "d", "", "the deck to move the card to")

	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Do applies the non-empty changes to the card. Every cached deck that
// held the card, as well as the deck it ends up in, is forgotten.
func Do(ctx context.RecallCtx, uuid, question, answer, deckName string) (deck.Card, error) {
	payload := client.UpdateCardPayload{
		Question: optional(question),
		Answer:   optional(answer),
		Deck:     optional(deckName),
	}
	if payload.Question == nil && payload.Answer == nil && payload.Deck == nil {
		return deck.Card{}, ErrNothingToEdit
	}

	card, err := client.UpdateCard(ctx, uuid, payload)
	if err != nil {
		return card, err
	}

	infra.ForgetCard(ctx, uuid)
	infra.ForgetDecks(ctx, card.Deck)

	return card, nil
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		card, err := Do(ctx, args[0], questionFlag, answerFlag, deckFlag)
		if err == ErrNothingToEdit {
			return err
		} else if err != nil {
			return errors.Wrap(err, "editing the card")
		}

		log.Successf("edited in %s\n", card.Deck)
		output.Cards(color.Output, []deck.Card{card})

		return nil
	}
}
