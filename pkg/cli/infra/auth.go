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

package infra

import (
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/context"
)

var (
	// ErrLoginRequired is returned by commands that need a session when
	// there is none
	ErrLoginRequired = errors.New("not logged in. run `recall login` first")
	// ErrSessionExpired is returned when the stored session has expired
	ErrSessionExpired = errors.New("the session has expired. run `recall login` again")
)

// RequireLogin returns an error unless the context holds a live session
func RequireLogin(ctx context.RecallCtx) error {
	if ctx.SessionKey == "" {
		return ErrLoginRequired
	}
	if !ctx.LoggedIn() {
		return ErrSessionExpired
	}

	return nil
}
