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
	"github.com/recallcards/recall/pkg/server/testutils"
)

func TestNotSupportedVersions(t *testing.T) {
	testCases := []struct {
		path string
	}{
		{
			path: "/api/v0",
		},
		{
			path: "/api/v2",
		},
		{
			path: "/api/v2/decks",
		},
		{
			path: "/api/v3/bar/baz",
		},
	}

	// setup
	db := testutils.InitMemoryDB(t)
	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			// execute
			req := testutils.MakeReq(server.URL, "GET", tc.path, "")
			res := testutils.HTTPDo(t, req)

			// test
			assert.StatusCodeEquals(t, res, http.StatusGone, "")
		})
	}
}

func TestNotFound(t *testing.T) {
	testCases := []struct {
		path string
	}{
		{
			path: "/",
		},
		{
			path: "/api/v1/nope",
		},
		{
			path: "/login",
		},
	}

	db := testutils.InitMemoryDB(t)
	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "GET", tc.path, "")
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
		})
	}
}

func TestAuthRequired(t *testing.T) {
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/me"},
		{"GET", "/api/v1/decks"},
		{"POST", "/api/v1/decks"},
		{"GET", "/api/v1/decks/biology/cards"},
		{"GET", "/api/v1/community/decks"},
		{"POST", "/api/v1/cards"},
		{"PUT", "/api/v1/progress/some-uuid"},
		{"POST", "/api/v1/transfers"},
		{"POST", "/api/v1/generate"},
		{"POST", "/api/v1/chat"},
	}

	db := testutils.InitMemoryDB(t)
	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, tc.method, tc.path, "{}")
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
		})
	}
}

func TestHealth(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/health", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload HealthResp
	testutils.MustDecodeJSON(t, res, &payload)
	assert.Equal(t, payload.Status, "ok", "status mismatch")
	assert.Equal(t, payload.AIEnabled, false, "AIEnabled mismatch")
}

func TestRegistrationDisabled(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	a := app.NewTest()
	a.DB = db
	a.DisableRegistration = true
	server := MustNewServer(t, &a)
	defer server.Close()

	req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/v1/join", map[string]string{
		"email":                 "alice@example.com",
		"password":              "pass1234",
		"password_confirmation": "pass1234",
	})
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusNotFound, "")

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(0), "user count mismatch")
}
