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

// Package llm provides a client for chat completion language models
package llm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const (
	// RoleSystem is the role of the instructions to the model
	RoleSystem = "system"
	// RoleUser is the role of the messages written by the user
	RoleUser = "user"
	// RoleAssistant is the role of the messages written by the model
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the model returns no content
var ErrEmptyResponse = errors.New("the model returned no content")

// Message is a message in a conversation with the model
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema is a JSON schema the model output must follow
type Schema struct {
	Name   string
	Schema map[string]interface{}
}

// Request is a completion request
type Request struct {
	Messages    []Message
	Temperature float64
	// Schema, if set, asks for structured output
	Schema *Schema
}

// Usage is the number of tokens a completion consumed
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the result of a completion
type Response struct {
	Content string
	Usage   Usage
}

// Client completes conversations
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ClientFunc is an adapter to use an ordinary function as a Client
type ClientFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls f(ctx, req)
func (f ClientFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// APIError is an error returned by the model provider
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model provider responded with %d: %s", e.StatusCode, e.Message)
}
