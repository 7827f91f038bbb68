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
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is an error for a missing resource
	ErrNotFound = errors.New("not found")
	// ErrForbidden is an error for an action the user may not perform
	ErrForbidden = errors.New("forbidden")
	// ErrLoginInvalid is an error for mismatching login credentials
	ErrLoginInvalid = errors.New("wrong login credentials")

	// ErrEmailRequired is an error for a missing email
	ErrEmailRequired = errors.New("email is required")
	// ErrPasswordRequired is an error for a missing password
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidPassword is an error for a wrong current password
	ErrInvalidPassword = errors.New("wrong password")
	// ErrPasswordTooShort is an error for a password shorter than 8 characters
	ErrPasswordTooShort = errors.New("password should be longer than 8 characters")
	// ErrPasswordConfirmationMismatch is an error for a mismatching password confirmation
	ErrPasswordConfirmationMismatch = errors.New("password confirmation does not match")
	// ErrDuplicateEmail is an error for an email that is already taken
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrDeckNameRequired is an error for a missing deck name
	ErrDeckNameRequired = errors.New("deck name is required")
	// ErrDeckExists is an error for creating a deck under a name in use
	ErrDeckExists = errors.New("a deck with the name already exists")
	// ErrDeckNotFound is an error for a deck without any rows
	ErrDeckNotFound = errors.New("deck not found")
	// ErrCardNotFound is an error for a missing card
	ErrCardNotFound = errors.New("card not found")
	// ErrQuestionRequired is an error for a card without a question
	ErrQuestionRequired = errors.New("question is required")
	// ErrAnswerRequired is an error for a card without an answer
	ErrAnswerRequired = errors.New("answer is required")
	// ErrReservedQuestion is an error for a card whose question is the
	// placeholder marker
	ErrReservedQuestion = errors.New("the question is reserved")
	// ErrSameDeck is an error for moving a card to the deck it is in
	ErrSameDeck = errors.New("the card is already in the deck")
	// ErrConfirmationMismatch is an error for a destructive action confirmed
	// with the wrong text
	ErrConfirmationMismatch = errors.New("confirmation does not match")
	// ErrNothingToSave is an error for a save without a complete card
	ErrNothingToSave = errors.New("no complete cards to save")

	// ErrTopicRequired is an error for a generation request without a topic
	ErrTopicRequired = errors.New("topic is required")
	// ErrInvalidCardCount is an error for a generation request with a card
	// count out of range
	ErrInvalidCardCount = errors.New("invalid number of cards")
	// ErrQuotaExceeded is an error for a user who spent the monthly tokens
	ErrQuotaExceeded = errors.New("monthly token limit reached")
	// ErrGenerationCount is an error for a model reply with a card count
	// different from the requested one
	ErrGenerationCount = errors.New("the model returned a wrong number of cards")
	// ErrMalformedOutput is an error for a model reply that is not the
	// requested JSON
	ErrMalformedOutput = errors.New("the model returned malformed output")
	// ErrAIDisabled is an error for AI requests on a server without a model
	ErrAIDisabled = errors.New("AI features are not configured")
	// ErrMessagesRequired is an error for a chat request without a question
	ErrMessagesRequired = errors.New("a question is required")
	// ErrInvalidRole is an error for a chat message with an unknown role
	ErrInvalidRole = errors.New("invalid message role")
)
