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

package recent

import (
	"github.com/fatih/color"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/output"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/spf13/cobra"
)

var allFlag bool

var example = `
 * List the decks studied in the last week
 recall recent

 * Include older decks
 recall recent --all`

// NewCmd returns a new recent command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recent",
		Short:   "List recently studied decks",
		Aliases: []string{"r"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&allFlag, "all", "", false, "include decks that were studied more than a week ago")

	return cmd
}

// masteredCount returns the number of mastered cards among the cards, or
// -1 if it cannot be known
func masteredCount(ctx context.RecallCtx, cards []deck.Card) int64 {
	realCards := deck.RealCards(cards)
	if len(realCards) == 0 {
		return 0
	}
	if !ctx.LoggedIn() {
		return -1
	}

	uuids := make([]string, 0, len(realCards))
	for _, c := range realCards {
		uuids = append(uuids, c.UUID)
	}

	n, err := client.CountMastered(ctx, uuids)
	if err != nil {
		log.Debug("counting mastered cards: %s\n", err.Error())
		return -1
	}

	return n
}

// Do returns the decks of the history, most recent first
func Do(ctx context.RecallCtx, includeExpired bool) []output.RecentDeck {
	entries := infra.NewHistory(ctx).ListRecent(includeExpired)

	ret := make([]output.RecentDeck, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, output.RecentDeck{
			Entry:    e,
			Mastered: masteredCount(ctx, e.Cards),
		})
	}

	return ret
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		output.Recent(color.Output, ctx.Clock.Now(), Do(ctx, allFlag))

		return nil
	}
}
