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

package cmd

import (
	"strings"
	"testing"

	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/testutils"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreateCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	userCreateCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com", "--password", "password123"})

	db := testutils.InitDB(t, tmpDB)

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(1), "should have 1 user")

	var user database.User
	testutils.MustExec(t, db.Where("email = ?", "test@example.com").First(&user), "finding user")
	assert.Equal(t, user.Email.String, "test@example.com", "email mismatch")
	assert.Equal(t, user.TokensUsed, 0, "tokens used mismatch")
}

func TestUserRemoveCmd(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
	}{
		{
			name:     "confirmed",
			input:    "y\n",
			expected: 0,
		},
		{
			name:     "declined",
			input:    "\n",
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tmpDB := t.TempDir() + "/test.db"

			db := testutils.InitDB(t, tmpDB)
			user := testutils.SetupUserData(db, "test@example.com", "password123")
			testutils.SetupCard(db, user, "biology", "What is ATP?", "Energy")
			testutils.CloseDB(db)

			userRemoveCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com"}, strings.NewReader(tc.input))

			db2 := testutils.InitDB(t, tmpDB)

			var userCount, cardCount int64
			testutils.MustExec(t, db2.Model(&database.User{}).Count(&userCount), "counting users")
			testutils.MustExec(t, db2.Model(&database.Card{}).Count(&cardCount), "counting cards")
			assert.Equal(t, userCount, tc.expected, "user count mismatch")
			assert.Equal(t, cardCount, tc.expected, "card count mismatch")
		})
	}
}

func TestUserResetPasswordCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	db := testutils.InitDB(t, tmpDB)
	user := testutils.SetupUserData(db, "test@example.com", "oldpassword123")
	testutils.SetupSession(db, user)
	oldPasswordHash := user.Password.String
	testutils.CloseDB(db)

	userResetPasswordCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com", "--password", "newpassword123"})

	db2 := testutils.InitDB(t, tmpDB)

	var updatedUser database.User
	testutils.MustExec(t, db2.Where("email = ?", "test@example.com").First(&updatedUser), "finding user")

	assert.Equal(t, updatedUser.Password.String != oldPasswordHash, true, "password hash should be different")

	err := bcrypt.CompareHashAndPassword([]byte(updatedUser.Password.String), []byte("newpassword123"))
	assert.Equal(t, err, nil, "new password should match")

	err = bcrypt.CompareHashAndPassword([]byte(updatedUser.Password.String), []byte("oldpassword123"))
	assert.Equal(t, err != nil, true, "old password should not match")

	var sessionCount int64
	testutils.MustExec(t, db2.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
	assert.Equal(t, sessionCount, int64(0), "sessions should be deleted")
}
