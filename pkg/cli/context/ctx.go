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

// Package context defines the runtime context of the CLI
package context

import (
	"database/sql"
	"net/http"

	"github.com/recallcards/recall/pkg/clock"
	"github.com/recallcards/recall/pkg/kv"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// RecallCtx is a context holding the information of the current runtime
type RecallCtx struct {
	Paths            Paths
	APIEndpoint      string
	Version          string
	DB               *sql.DB
	Store            kv.Store
	SessionKey       string
	SessionKeyExpiry int64
	Clock            clock.Clock
	HTTPClient       *http.Client
}

// LoggedIn reports whether the context holds a session key that has not
// expired yet
func (ctx RecallCtx) LoggedIn() bool {
	if ctx.SessionKey == "" {
		return false
	}
	if ctx.SessionKeyExpiry == 0 || ctx.Clock == nil {
		return true
	}

	return ctx.Clock.Now().Unix() < ctx.SessionKeyExpiry
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx RecallCtx) RecallCtx {
	var sessionKey string
	if ctx.SessionKey != "" {
		sessionKey = "1"
	} else {
		sessionKey = "0"
	}
	ctx.SessionKey = sessionKey

	return ctx
}
