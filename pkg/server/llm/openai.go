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

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// OpenAI is a Client for the OpenAI chat completions API and compatible
// endpoints
type OpenAI struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewOpenAI returns a client for the given endpoint
func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	return &OpenAI{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		HTTPClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type jsonSchemaFormat struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
	Strict bool                   `json:"strict"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *OpenAI) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	payload := chatRequest{
		Model:       c.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}
	if req.Schema != nil {
		payload.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   req.Schema.Name,
				Schema: req.Schema.Schema,
				Strict: true,
			},
		}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling payload")
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "constructing request")
	}

	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+c.APIKey)

	return hreq, nil
}

// Complete sends the conversation to the chat completions endpoint
func (c *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	hreq, err := c.newRequest(ctx, req)
	if err != nil {
		return Response{}, err
	}

	res, err := c.HTTPClient.Do(hreq)
	if err != nil {
		return Response{}, errors.Wrap(err, "sending request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{}, errors.Wrap(err, "reading response body")
	}

	var payload chatResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if res.StatusCode >= 400 {
			return Response{}, &APIError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(body))}
		}

		return Response{}, errors.Wrap(err, "decoding response")
	}

	if payload.Error != nil {
		return Response{}, &APIError{StatusCode: res.StatusCode, Message: payload.Error.Message}
	}
	if res.StatusCode >= 400 {
		return Response{}, &APIError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if len(payload.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}

	msg := payload.Choices[0].Message
	if msg.Refusal != "" {
		return Response{}, errors.Errorf("the model refused: %s", msg.Refusal)
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Content: content,
		Usage:   payload.Usage,
	}, nil
}
