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

package transfer

import (
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/spf13/cobra"
)

var example = `
 * Find a deck of another user
 recall ls --community -q biology

 * Copy it into your decks
 recall transfer 2a3e6f0c-5d7b-4c1e-9f8a-0b6d4e2c1a37 biology`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new transfer command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transfer <owner uuid> <deck>",
		Short:   "Copy a deck of another user into your decks",
		Aliases: []string{"t"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do copies the deck of the owner. The copy is named after the deck and
// its owner, with a numeric suffix if the name is taken.
func Do(ctx context.RecallCtx, ownerUUID, deckName string) (client.TransferResp, error) {
	resp, err := client.Transfer(ctx, ownerUUID, deckName)
	if err != nil {
		return resp, err
	}

	infra.ForgetDecks(ctx, resp.DeckName)

	return resp, nil
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		resp, err := Do(ctx, args[0], args[1])
		if err != nil {
			return errors.Wrap(err, "transferring the deck")
		}

		if resp.Count == 0 {
			log.Warnf("%s\n", resp.Message)
			return nil
		}

		log.Successf("%s\n", resp.Message)

		return nil
	}
}
