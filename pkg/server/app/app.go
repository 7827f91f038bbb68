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
	"github.com/recallcards/recall/pkg/clock"
	"github.com/recallcards/recall/pkg/server/llm"
	"github.com/recallcards/recall/pkg/server/mailer"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL content in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
	// ErrInvalidTokenLimit is an error for a token limit that is not positive
	ErrInvalidTokenLimit = errors.New("The token limit must be positive")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
)

// App is an application context
type App struct {
	DB    *gorm.DB
	Clock clock.Clock
	// LLM is the language model behind generation and chat. If nil, both
	// are unavailable.
	LLM                 llm.Client
	EmailBackend        mailer.Backend
	TokenLimit          int
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBPath              string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.TokenLimit <= 0 {
		return ErrInvalidTokenLimit
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}

	return nil
}
