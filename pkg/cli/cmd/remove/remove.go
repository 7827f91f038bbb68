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

package remove

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/ui"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/spf13/cobra"
)

var cardFlags []string
var yesFlag bool

var example = `
 * Delete a deck and all its cards
 recall remove biology

 * Delete cards by their uuid
 recall remove -c 6f0a2b6e-1d0b-4a55-9b3c-2d6f3c0e6b1a -c 0d6c3bb4-7b0e-4d1f-8a4b-7e0c9f7d2a11`

func preRun(cmd *cobra.Command, args []string) error {
	if len(cardFlags) > 0 {
		if len(args) > 0 {
			return errors.New("Pass either a deck or cards")
		}

		return nil
	}

	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new remove command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <deck?>",
		Short:   "Remove a deck or cards",
		Aliases: []string{"rm", "d", "delete"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringSliceVarP(&cardFlags, "card", "c", nil, "uuid of a card to remove")
	f.BoolVarP(&yesFlag, "yes", "y", false, "remove without asking for confirmation")

	return cmd
}

// RemoveDeck deletes every card of the deck along with its local history
// and chat transcript. The server checks the confirmation against the name.
func RemoveDeck(ctx context.RecallCtx, name, confirmation string) (int64, error) {
	resp, err := client.DeleteDeck(ctx, name, confirmation)
	if err != nil {
		return 0, err
	}

	deckName := deck.NormalizeName(name)
	infra.ForgetDecks(ctx, deckName)
	if err := infra.NewHistory(ctx).ClearChat(deckName); err != nil {
		log.Debug("clearing chat of %s: %s\n", deckName, err.Error())
	}

	return resp.Deleted, nil
}

// RemoveCards deletes the cards in order and returns the deleted ones. It
// stops at the first failure.
func RemoveCards(ctx context.RecallCtx, uuids []string) ([]deck.Card, error) {
	ret := []deck.Card{}

	for _, uuid := range uuids {
		card, err := client.DeleteCard(ctx, uuid)
		if err != nil {
			return ret, errors.Wrapf(err, "deleting card %s", uuid)
		}

		infra.ForgetDecks(ctx, card.Deck)
		ret = append(ret, card)
	}

	return ret, nil
}

// confirmCards asks once for all the cards. Removing several cards takes a
// typed confirmation.
func confirmCards(p *ui.Prompter, uuids []string) (bool, error) {
	if len(uuids) == 1 {
		return p.Confirm("remove this card?", false)
	}

	return p.ConfirmTyped(fmt.Sprintf("remove %d cards", len(uuids)))
}

func runDeck(ctx context.RecallCtx, p *ui.Prompter, name string) error {
	if !yesFlag {
		log.Warnf("this deletes every card in %s\n", name)

		ok, err := p.ConfirmTyped(name)
		if err != nil {
			return err
		}
		if !ok {
			log.Plainf("aborted\n")
			return nil
		}
	}

	if _, err := RemoveDeck(ctx, name, name); err != nil {
		return errors.Wrap(err, "removing the deck")
	}

	log.Successf("removed %s\n", name)

	return nil
}

func runCards(ctx context.RecallCtx, p *ui.Prompter, uuids []string) error {
	if !yesFlag {
		ok, err := confirmCards(p, uuids)
		if err != nil {
			return err
		}
		if !ok {
			log.Plainf("aborted\n")
			return nil
		}
	}

	cards, err := RemoveCards(ctx, uuids)
	for _, c := range cards {
		log.Successf("removed %s from %s\n", c.UUID, c.Deck)
	}
	if err != nil {
		return errors.Wrap(err, "removing cards")
	}

	return nil
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		p := ui.NewPrompter(cmd.InOrStdin())
		if len(cardFlags) > 0 {
			return runCards(ctx, p, cardFlags)
		}

		return runDeck(ctx, p, args[0])
	}
}
