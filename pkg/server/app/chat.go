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
	"bytes"
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/llm"
)

const chatTemperature = 0.7

// ChatParams is a question to the tutor about a deck
type ChatParams struct {
	Deck string
	// Messages is the conversation so far, ending with the question of the
	// user
	Messages []llm.Message
}

// ChatResult is the reply of the tutor
type ChatResult struct {
	Reply string
	Usage llm.Usage
}

// TutorSystemPrompt returns the instructions for the tutor studying the
// given cards with the user
func TutorSystemPrompt(deckName string, cards []database.Card) (string, error) {
	data := struct {
		Deck  string
		Cards []database.Card
	}{
		Deck:  deckName,
		Cards: []database.Card{},
	}
	for _, c := range cards {
		if c.Question == deck.Placeholder {
			continue
		}
		data.Cards = append(data.Cards, c)
	}

	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, "tutor.tmpl", data); err != nil {
		return "", errors.Wrap(err, "rendering prompt")
	}

	return buf.String(), nil
}

func validateChatMessages(messages []llm.Message) error {
	if len(messages) == 0 {
		return ErrMessagesRequired
	}

	for _, m := range messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return ErrInvalidRole
		}
	}

	last := messages[len(messages)-1]
	if last.Role != llm.RoleUser || strings.TrimSpace(last.Content) == "" {
		return ErrMessagesRequired
	}

	return nil
}

// Chat answers the latest question of the user about one of the decks of
// the user
func (a *App) Chat(ctx context.Context, user database.User, p ChatParams) (ChatResult, error) {
	if a.LLM == nil {
		return ChatResult{}, ErrAIDisabled
	}

	deckName := deck.NormalizeName(p.Deck)
	if deckName == "" {
		return ChatResult{}, ErrDeckNameRequired
	}
	if err := validateChatMessages(p.Messages); err != nil {
		return ChatResult{}, err
	}
	if err := a.checkQuota(user.ID); err != nil {
		return ChatResult{}, err
	}

	cards, err := a.GetDeckCards(user.ID, deckName)
	if err != nil {
		return ChatResult{}, err
	}
	if len(cards) == 0 {
		return ChatResult{}, ErrDeckNotFound
	}

	system, err := TutorSystemPrompt(deckName, cards)
	if err != nil {
		return ChatResult{}, err
	}

	messages := append([]llm.Message{{Role: llm.RoleSystem, Content: system}}, p.Messages...)
	res, err := a.LLM.Complete(ctx, llm.Request{
		Messages:    messages,
		Temperature: chatTemperature,
	})
	if err != nil {
		return ChatResult{}, errors.Wrap(err, "asking the tutor")
	}

	if err := a.IncrementTokensUsed(user.ID, res.Usage.TotalTokens); err != nil {
		return ChatResult{}, err
	}

	return ChatResult{
		Reply: res.Content,
		Usage: res.Usage,
	}, nil
}
