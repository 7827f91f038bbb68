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

package generate

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

// maxCards is the largest number of cards a single generation may ask for
const maxCards = 50

// ErrQuotaExhausted is an error for a user who spent the monthly token limit
var ErrQuotaExhausted = errors.New("you have used up your AI quota for this month")

var (
	numFlag          int
	contextFlag      string
	linkFlag         []string
	subTopicFlag     []string
	toneFlag         string
	concisenessFlag  string
	technicalityFlag string
	formattingFlag   string
	deckFlag         string
	yesFlag          bool
)

var styles = map[string][]string{
	"tone":         {"neutral", "formal", "casual"},
	"conciseness":  {"standard", "concise", "detailed"},
	"technicality": {"standard", "layman", "technical"},
	"formatting":   {"standard", "bullet_points", "step_by_step"},
}

var example = `
 * Draft ten cards about a topic
 recall generate "photosynthesis"

 * Tune the cards and save them to a deck
 recall generate "photosynthesis" -n 5 --tone casual --sub-topic "light reactions" -d biology`

func validateStyle(name, value string) error {
	if value == "" {
		return nil
	}

	for _, v := range styles[name] {
		if v == value {
			return nil
		}
	}

	return errors.Errorf("invalid %s %q. choose one of %v", name, value, styles[name])
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if numFlag < 1 || numFlag > maxCards {
		return errors.Errorf("the number of cards must be between 1 and %d", maxCards)
	}

	flags := map[string]string{
		"tone":         toneFlag,
		"conciseness":  concisenessFlag,
		"technicality": technicalityFlag,
		"formatting":   formattingFlag,
	}
	for name, value := range flags {
		if err := validateStyle(name, value); err != nil {
			return err
		}
	}

	return nil
}

// NewCmd returns a new generate command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate <topic>",
		Short:   "Draft cards about a topic with AI",
		Aliases: []string{"g", "gen"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.IntVarP(&numFlag, "num", "n", 10, "the number of cards to draft")
	f.StringVarP(&contextFlag, "context", "", "", "notes the cards should be based on")
	f.StringSliceVarP(&linkFlag, "link", "", []string{}, "reference links")
	f.StringSliceVarP(&subTopicFlag, "sub-topic", "", []string{}, "sub-topics to cover")
	f.StringVarP(&toneFlag, "tone", "", "", "neutral, formal or casual")
	f.StringVarP(&concisenessFlag, "conciseness", "", "", "standard, concise or detailed")
	f.StringVarP(&technicalityFlag, "technicality", "", "", "standard, layman or technical")
	f.StringVarP(&formattingFlag, "formatting", "", "", "standard, bullet_points or step_by_step")
	f.StringVarP(&deckFlag, "deck", "d", "", "save the cards to the deck")
	f.BoolVarP(&yesFlag, "yes", "y", false, "save without confirming")

	return cmd
}

// Do drafts cards. Users who spent their quota are refused before the
// model is asked.
func Do(ctx context.RecallCtx, payload client.GeneratePayload) (client.GenerateResp, error) {
	me, err := client.GetMe(ctx)
	if err != nil {
		return client.GenerateResp{}, err
	}
	if me.QuotaExhausted() {
		return client.GenerateResp{}, ErrQuotaExhausted
	}

	return client.Generate(ctx, payload)
}

// Save stores the drafted cards in the deck
func Save(ctx context.RecallCtx, deckName string, cards []client.CardSlot) (client.SaveResp, error) {
	resp, err := client.SaveGenerated(ctx, deckName, cards)
	if err != nil {
		return resp, err
	}

	infra.ForgetDecks(ctx, deck.NormalizeName(deckName))

	return resp, nil
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		resp, err := Do(ctx, client.GeneratePayload{
			Topic:        args[0],
			Context:      contextFlag,
			Links:        linkFlag,
			SubTopics:    subTopicFlag,
			Tone:         toneFlag,
			Conciseness:  concisenessFlag,
			Technicality: technicalityFlag,
			Formatting:   formattingFlag,
			NumCards:     numFlag,
		})
		if err == ErrQuotaExhausted {
			return err
		} else if err != nil {
			return errors.Wrap(err, "drafting the cards")
		}

		output.Slots(color.Output, resp.Cards)
		log.Debug("used %d tokens\n", resp.Usage.TotalTokens)

		if deckFlag == "" {
			return nil
		}

		if !yesFlag {
			ok, err := ui.NewPrompter(cmd.InOrStdin()).Confirm("save these cards to "+deckFlag+"?", true)
			if err != nil {
				return err
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		saved, err := Save(ctx, deckFlag, resp.Cards)
		if err != nil {
			return errors.Wrap(err, "saving the cards")
		}

		log.Successf("saved %d cards to %s\n", saved.Count, deck.NormalizeName(deckFlag))

		return nil
	}
}
