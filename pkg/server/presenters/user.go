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

package presenters

import (
	"github.com/recallcards/recall/pkg/server/database"
)

// User is a result of PresentUser
type User struct {
	UUID       string `json:"uuid"`
	Email      string `json:"email"`
	TokensUsed int    `json:"tokens_used"`
	TokenLimit int    `json:"token_limit"`
}

// PresentUser presents the signed in user along with the monthly token
// limit of the server
func PresentUser(user database.User, tokenLimit int) User {
	return User{
		UUID:       user.UUID,
		Email:      user.Email.String,
		TokensUsed: user.TokensUsed,
		TokenLimit: tokenLimit,
	}
}
