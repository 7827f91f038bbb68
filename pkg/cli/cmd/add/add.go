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
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/output"
	"github.com/recallcards/recall/pkg/cli/ui"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/spf13/cobra"
)

var questionFlag, answerFlag string

var example = `
 * Add a card, prompting for the question and the answer
 recall add biology

 * Skip the prompts
 recall add biology -q "What is ATP?" -a "The energy currency of the cell"`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new add command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <deck>",
		Short:   "Add a new card",
		Aliases: []string{"a"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&questionFlag, "question", "q", "", "the question on the front of the card")
	f.StringVarP(&answerFlag, "answer", "a", "", "the answer on the back of the card")

	return cmd
}

// getContent prompts for the sides of the card that were not given
func getContent(p *ui.Prompter, question, answer string) (string, string, error) {
	var err error

	if question == "" {
		question, err = p.Input("question")
		if err != nil {
			return "", "", errors.Wrap(err, "getting question input")
		}
	}
	if question == "" {
		return "", "", errors.New("Empty question")
	}

	if answer == "" {
		answer, err = p.Input("answer")
		if err != nil {
			return "", "", errors.Wrap(err, "getting answer input")
		}
	}
	if answer == "" {
		return "", "", errors.New("Empty answer")
	}

	return question, answer, nil
}

// Do adds a card to the deck, creating the deck if needed
func Do(ctx context.RecallCtx, deckName, question, answer string) (deck.Card, error) {
	card, err := client.CreateCard(ctx, deckName, question, answer)
	if err != nil {
		return card, err
	}

	infra.ForgetDecks(ctx, card.Deck)

	return card, nil
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		question, answer, err := getContent(ui.NewPrompter(cmd.InOrStdin()), questionFlag, answerFlag)
		if err != nil {
			return err
		}

		card, err := Do(ctx, args[0], question, answer)
		if err != nil {
			return errors.Wrap(err, "adding the card")
		}

		log.Successf("added to %s\n", card.Deck)
		output.Cards(color.Output, []deck.Card{card})

		return nil
	}
}
