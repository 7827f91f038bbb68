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
	"embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/llm"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

var prompts = template.Must(template.ParseFS(promptFiles, "prompts/*.tmpl"))

// MaxGeneratedCards is the largest number of cards a single generation
// may ask for
const MaxGeneratedCards = 50

const generationTemperature = 0.8

const generationSystemPrompt = "You are an expert flashcard creator."

var toneInstructions = map[string]string{
	"formal":  "highly formal and academic",
	"casual":  "casual and easy to understand",
	"neutral": "neutral and informative",
}

var concisenessInstructions = map[string]string{
	"concise":  "extremely concise, ideally a single sentence",
	"detailed": "detailed and comprehensive, with thorough explanations",
	"standard": "direct and easy to understand",
}

var technicalityInstructions = map[string]string{
	"layman":    "plain, free of jargon and suited to a beginner",
	"technical": "precise and technical, suited to an expert",
	"standard":  "suited to a reader with some background in the subject",
}

var formattingInstructions = map[string]string{
	"bullet_points": "bullet points",
	"step_by_step":  "numbered steps",
	"standard":      "plain sentences",
}

func instruction(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}

	return m[fallback]
}

var flashcardSchema = &llm.Schema{
	Name: "flashcards",
	Schema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"flashcards": map[string]interface{}{
				"type":        "array",
				"description": "The flashcards in order",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"question": map[string]interface{}{"type": "string", "description": "The question for the flashcard"},
						"answer":   map[string]interface{}{"type": "string", "description": "The answer to the flashcard"},
					},
					"required":             []string{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"flashcards"},
		"additionalProperties": false,
	},
}

// GenerateParams is a request for generated cards
type GenerateParams struct {
	Topic        string
	Context      string
	Links        []string
	SubTopics    []string
	Tone         string
	Conciseness  string
	Technicality string
	Formatting   string
	NumCards     int
	// Slots are the cards the user already wrote, by position. Filled sides
	// are kept and only the empty ones are generated.
	Slots []CardSlot
}

// GenerateResult is the outcome of a generation
type GenerateResult struct {
	Cards []CardSlot
	Usage llm.Usage
}

type promptSlot struct {
	Position int
	Question string
	Answer   string
}

type generatePromptData struct {
	Topic        string
	Context      string
	Links        []string
	SubTopics    []string
	Tone         string
	Conciseness  string
	Technicality string
	Formatting   string
	NumCards     int
	Slots        []promptSlot
}

func (p GenerateParams) validate() error {
	if strings.TrimSpace(p.Topic) == "" {
		return ErrTopicRequired
	}
	if p.NumCards < 1 || p.NumCards > MaxGeneratedCards {
		return ErrInvalidCardCount
	}
	if len(p.Slots) > p.NumCards {
		return ErrInvalidCardCount
	}

	return nil
}

func trimmedNonEmpty(items []string) []string {
	ret := []string{}
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}

	return ret
}

// GeneratePrompt renders the instructions sent to the model for the given
// request
func GeneratePrompt(p GenerateParams) (string, error) {
	data := generatePromptData{
		Topic:        strings.TrimSpace(p.Topic),
		Context:      strings.TrimSpace(p.Context),
		Links:        trimmedNonEmpty(p.Links),
		SubTopics:    trimmedNonEmpty(p.SubTopics),
		Tone:         instruction(toneInstructions, p.Tone, "neutral"),
		Conciseness:  instruction(concisenessInstructions, p.Conciseness, "standard"),
		Technicality: instruction(technicalityInstructions, p.Technicality, "standard"),
		Formatting:   instruction(formattingInstructions, p.Formatting, "standard"),
		NumCards:     p.NumCards,
	}

	for i, s := range p.Slots {
		q, a := strings.TrimSpace(s.Question), strings.TrimSpace(s.Answer)
		if q == "" && a == "" {
			continue
		}

		data.Slots = append(data.Slots, promptSlot{Position: i + 1, Question: q, Answer: a})
	}

	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, "generate.tmpl", data); err != nil {
		return "", errors.Wrap(err, "rendering prompt")
	}

	return buf.String(), nil
}

// mergeSlots overlays the sides the user filled in onto the generated cards
func mergeSlots(generated, slots []CardSlot) []CardSlot {
	ret := make([]CardSlot, len(generated))

	for i, g := range generated {
		c := CardSlot{
			Question: strings.TrimSpace(g.Question),
			Answer:   strings.TrimSpace(g.Answer),
		}

		if i < len(slots) {
			if q := strings.TrimSpace(slots[i].Question); q != "" {
				c.Question = q
			}
			if a := strings.TrimSpace(slots[i].Answer); a != "" {
				c.Answer = a
			}
		}

		ret[i] = c
	}

	return ret
}

// Generate asks the model for exactly p.NumCards cards. A reply with any
// other number of cards fails the whole request, although the tokens it
// used are still counted against the user.
func (a *App) Generate(ctx context.Context, user database.User, p GenerateParams) (GenerateResult, error) {
	if a.LLM == nil {
		return GenerateResult{}, ErrAIDisabled
	}
	if err := p.validate(); err != nil {
		return GenerateResult{}, err
	}
	if err := a.checkQuota(user.ID); err != nil {
		return GenerateResult{}, err
	}

	prompt, err := GeneratePrompt(p)
	if err != nil {
		return GenerateResult{}, err
	}

	res, err := a.LLM.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: generationSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: generationTemperature,
		Schema:      flashcardSchema,
	})
	if err != nil {
		return GenerateResult{}, errors.Wrap(err, "generating cards")
	}

	if err := a.IncrementTokensUsed(user.ID, res.Usage.TotalTokens); err != nil {
		return GenerateResult{}, err
	}

	var out struct {
		Flashcards []CardSlot `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		return GenerateResult{}, errors.Wrap(ErrMalformedOutput, err.Error())
	}
	if len(out.Flashcards) != p.NumCards {
		return GenerateResult{}, errors.Wrapf(ErrGenerationCount, "wanted %d, got %d", p.NumCards, len(out.Flashcards))
	}

	return GenerateResult{
		Cards: mergeSlots(out.Flashcards, p.Slots),
		Usage: res.Usage,
	}, nil
}
