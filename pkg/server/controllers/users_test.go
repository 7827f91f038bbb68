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

package controllers

import (
	"net/http"
	"testing"

	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/mailer"
	mw "github.com/recallcards/recall/pkg/server/middleware"
	"github.com/recallcards/recall/pkg/server/presenters"
	"github.com/recallcards/recall/pkg/server/testutils"
	"golang.org/x/crypto/bcrypt"
)

func TestJoin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		emails := &testutils.MockEmailBackend{}
		a := app.NewTest()
		a.DB = db
		a.EmailBackend = emails
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/v1/join", map[string]string{
			"email":                 "alice@example.com",
			"password":              "pass1234",
			"password_confirmation": "pass1234",
		})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "")
		assert.NotEqual(t, testutils.GetCookieByName(res.Cookies(), mw.SessionCookieName), (*http.Cookie)(nil), "session cookie missing")

		var payload SessionResponse
		testutils.MustDecodeJSON(t, res, &payload)

		var user database.User
		testutils.MustExec(t, db.Where("email = ?", "alice@example.com").First(&user), "finding user")
		var session database.Session
		testutils.MustExec(t, db.Where("key = ?", payload.Key).First(&session), "finding session")
		assert.Equal(t, session.UserID, user.ID, "session user mismatch")

		sent := emails.Emails()
		assert.Equal(t, len(sent), 1, "email count mismatch")
		assert.Equal(t, sent[0].TemplateType, mailer.EmailTypeWelcome, "email template mismatch")
		assert.DeepEqual(t, sent[0].To, []string{"alice@example.com"}, "recipient mismatch")
	})

	testCases := []struct {
		name       string
		payload    map[string]string
		statusCode int
	}{
		{
			name:       "missing email",
			payload:    map[string]string{"password": "pass1234", "password_confirmation": "pass1234"},
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "malformed email",
			payload:    map[string]string{"email": "alice", "password": "pass1234", "password_confirmation": "pass1234"},
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "short password",
			payload:    map[string]string{"email": "alice@example.com", "password": "pass", "password_confirmation": "pass"},
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "confirmation mismatch",
			payload:    map[string]string{"email": "alice@example.com", "password": "pass1234", "password_confirmation": "pass4321"},
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			payload:    map[string]string{"email": "bob@example.com", "password": "pass1234", "password_confirmation": "pass1234"},
			statusCode: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			testutils.SetupUserData(db, "bob@example.com", "pass1234")
			a := app.NewTest()
			a.DB = db
			server := MustNewServer(t, &a)
			defer server.Close()

			req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/v1/join", tc.payload)
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, tc.statusCode, "")

			var count int64
			testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
			assert.Equal(t, count, int64(1), "user count mismatch")
		})
	}
}

func TestSignIn(t *testing.T) {
	testCases := []struct {
		name       string
		email      string
		password   string
		statusCode int
	}{
		{
			name:       "success",
			email:      "alice@example.com",
			password:   "pass1234",
			statusCode: http.StatusOK,
		},
		{
			name:       "wrong password",
			email:      "alice@example.com",
			password:   "wrongpass",
			statusCode: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			email:      "nobody@example.com",
			password:   "pass1234",
			statusCode: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			email:      "alice@example.com",
			password:   "",
			statusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			testutils.SetupUserData(db, "alice@example.com", "pass1234")
			a := app.NewTest()
			a.DB = db
			server := MustNewServer(t, &a)
			defer server.Close()

			req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/v1/signin", map[string]string{
				"email":    tc.email,
				"password": tc.password,
			})
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, tc.statusCode, "")

			var sessionCount int64
			testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
			if tc.statusCode == http.StatusOK {
				assert.Equal(t, sessionCount, int64(1), "session count mismatch")
			} else {
				assert.Equal(t, sessionCount, int64(0), "session count mismatch")
			}
		})
	}
}

func TestSignIn_form(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	testutils.SetupUserData(db, "alice@example.com", "pass1234")
	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/signin", "email=alice%40example.com&password=pass1234")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")
}

func TestSignOut(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	session := testutils.SetupSession(db, user)
	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "POST", "/api/v1/signout", "")
	req.Header.Set("Authorization", "Bearer "+session.Key)
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

	var count int64
	testutils.MustExec(t, db.Model(&database.Session{}).Count(&count), "counting sessions")
	assert.Equal(t, count, int64(0), "session count mismatch")
}

func TestMe(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	testutils.MustExec(t, db.Model(&user).Update("tokens_used", 1200), "preparing tokens")
	a := app.NewTest()
	a.DB = db
	a.TokenLimit = 5000
	server := MustNewServer(t, &a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/api/v1/me", "")
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload presenters.User
	testutils.MustDecodeJSON(t, res, &payload)
	assert.Equal(t, payload, presenters.User{
		UUID:       user.UUID,
		Email:      "alice@example.com",
		TokensUsed: 1200,
		TokenLimit: 5000,
	}, "payload mismatch")
}

func TestPasswordUpdate(t *testing.T) {
	testCases := []struct {
		name         string
		oldPassword  string
		newPassword  string
		confirmation string
		statusCode   int
		changed      bool
	}{
		{
			name:         "success",
			oldPassword:  "pass1234",
			newPassword:  "newpass1234",
			confirmation: "newpass1234",
			statusCode:   http.StatusNoContent,
			changed:      true,
		},
		{
			name:         "wrong old password",
			oldPassword:  "wrongpass",
			newPassword:  "newpass1234",
			confirmation: "newpass1234",
			statusCode:   http.StatusUnauthorized,
			changed:      false,
		},
		{
			name:         "confirmation mismatch",
			oldPassword:  "pass1234",
			newPassword:  "newpass1234",
			confirmation: "newpass4321",
			statusCode:   http.StatusBadRequest,
			changed:      false,
		},
		{
			name:         "too short",
			oldPassword:  "pass1234",
			newPassword:  "short",
			confirmation: "short",
			statusCode:   http.StatusBadRequest,
			changed:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutils.InitMemoryDB(t)
			user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
			emails := &testutils.MockEmailBackend{}
			a := app.NewTest()
			a.DB = db
			a.EmailBackend = emails
			server := MustNewServer(t, &a)
			defer server.Close()

			req := testutils.MakeJSONReq(t, server.URL, "PATCH", "/api/v1/account/password", map[string]string{
				"old_password":              tc.oldPassword,
				"new_password":              tc.newPassword,
				"new_password_confirmation": tc.confirmation,
			})
			res := testutils.HTTPAuthDo(t, db, req, user)

			assert.StatusCodeEquals(t, res, tc.statusCode, "")

			var userRecord database.User
			testutils.MustExec(t, db.First(&userRecord, user.ID), "finding user")
			err := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte(tc.newPassword))
			assert.Equal(t, err == nil, tc.changed, "password change mismatch")
			assert.Equal(t, len(emails.Emails()) == 1, tc.changed, "password changed email mismatch")

			var sessionCount int64
			testutils.MustExec(t, db.Model(&database.Session{}).Where("user_id = ?", user.ID).Count(&sessionCount), "counting sessions")
			if tc.changed {
				assert.Equal(t, sessionCount, int64(0), "sessions should be deleted")
			} else {
				assert.Equal(t, sessionCount, int64(1), "sessions should be kept")
			}
		})
	}
}
