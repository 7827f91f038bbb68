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

package create

import (
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/spf13/cobra"
)

var example = `
 recall create biology`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new create command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create <deck>",
		Short:   "Create an empty deck",
		Aliases: []string{"new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do creates an empty deck and returns its normalized name
func Do(ctx context.RecallCtx, name string) (string, error) {
	resp, err := client.CreateDeck(ctx, name)
	if err != nil {
		if client.StatusCode(err) == 409 {
			return "", errors.Errorf("deck %s already exists", name)
		}

		return "", err
	}

	return resp.Name, nil
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		name, err := Do(ctx, args[0])
		if err != nil {
			return errors.Wrap(err, "creating the deck")
		}

		log.Successf("created %s\n", name)

		return nil
	}
}
