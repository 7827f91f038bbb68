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

package ls

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/output"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/spf13/cobra"
)

var example = `
 * List your decks
 recall ls

 * List the cards in a deck
 recall ls biology

 * Search the decks of other users
 recall ls --community -q bio`

var communityFlag bool
var queryFlag string

// ErrDeckNotFound is returned when listing the cards of a missing deck
var ErrDeckNotFound = errors.New("deck not found")

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.New("Incorrect number of argument")
	}
	if len(args) == 1 && (communityFlag || queryFlag != "") {
		return errors.New("--community and --query are only valid when listing decks")
	}

	return nil
}

// NewCmd returns a new ls command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls <deck?>",
		Short:   "List decks or the cards in a deck",
		Aliases: []string{"l", "decks"},
		Example: example,
		PreRunE: preRun,
		RunE:    NewRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&communityFlag, "community", "", false, "list the decks of other users")
	f.StringVarP(&queryFlag, "query", "q", "", "only list community decks whose name contains the query")

	return cmd
}

// ListDecks returns the decks of the user whose name contains the query.
// With community set, the decks of other users are searched instead.
func ListDecks(ctx context.RecallCtx, community bool, query string) ([]client.Deck, error) {
	if community {
		return client.GetCommunityDecks(ctx, query)
	}

	decks, err := client.GetDecks(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return decks, nil
	}

	q := deck.NormalizeName(query)
	ret := []client.Deck{}
	for _, d := range decks {
		if strings.Contains(d.Name, q) {
			ret = append(ret, d)
		}
	}

	return ret, nil
}

// ListCards returns the cards of a deck of the user, the placeholder of an
// empty deck included
func ListCards(ctx context.RecallCtx, deckName string) ([]deck.Card, error) {
	cards, err := client.GetDeckCards(ctx, deckName)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrDeckNotFound
	}

	return cards, nil
}

// NewRun returns a new run function for ls
func NewRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		if len(args) == 0 {
			decks, err := ListDecks(ctx, communityFlag, queryFlag)
			if err != nil {
				return errors.Wrap(err, "listing decks")
			}

			output.Decks(color.Output, decks, communityFlag)
			return nil
		}

		cards, err := ListCards(ctx, args[0])
		if err != nil {
			return errors.Wrapf(err, "listing cards of %s", args[0])
		}

		output.Cards(color.Output, cards)
		return nil
	}
}
