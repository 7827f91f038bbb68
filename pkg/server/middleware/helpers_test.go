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

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/server/log"
)

func TestGetSessionKeyFromCookie(t *testing.T) {
	testCases := []struct {
		cookie   *http.Cookie
		expected string
	}{
		{
			cookie: &http.Cookie{
				Name:     "id",
				Value:    "foo",
				HttpOnly: true,
			},
			expected: "foo",
		},
		{
			cookie:   nil,
			expected: "",
		},
		{
			cookie: &http.Cookie{
				Name:     "foo",
				Value:    "bar",
				HttpOnly: true,
			},
			expected: "",
		},
	}

	for _, tc := range testCases {
		r := mustMakeRequest(t)
		if tc.cookie != nil {
			r.AddCookie(tc.cookie)
		}

		got, err := getSessionKeyFromCookie(r)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, got, tc.expected, "result mismatch")
	}
}

func mustMakeRequest(t *testing.T) *http.Request {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(errors.Wrap(err, "constructing request"))
	}

	return r
}

func TestGetCredential(t *testing.T) {
	testCases := []struct {
		name        string
		header      string
		cookie      string
		expected    string
		expectedErr bool
	}{
		{
			name:     "nothing",
			expected: "",
		},
		{
			name:     "header",
			header:   "Bearer foo",
			expected: "foo",
		},
		{
			name:     "cookie",
			cookie:   "bar",
			expected: "bar",
		},
		{
			name:     "cookie over header",
			header:   "Bearer foo",
			cookie:   "bar",
			expected: "bar",
		},
		{
			name:        "malformed header",
			header:      "Basic Zm9vOmJhcg==",
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := mustMakeRequest(t)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tc.cookie})
			}

			got, err := GetCredential(r)

			assert.Equal(t, err != nil, tc.expectedErr, "error mismatch")
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusBadRequest, "deck name is required")

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(errors.Wrap(err, "decoding"))
	}

	assert.Equal(t, w.Code, http.StatusBadRequest, "status code mismatch")
	assert.Equal(t, w.Header().Get("Content-Type"), "application/json", "content type mismatch")
	assert.Equal(t, body.Error, "deck name is required", "message mismatch")
}

func TestGlobal(t *testing.T) {
	var buf bytes.Buffer
	prev := log.SetOutput(&buf)
	defer log.SetOutput(prev)

	h := Global(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/panic" {
			panic("boom")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("logs status", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/tea", nil))

		assert.Equal(t, w.Code, http.StatusTeapot, "status code mismatch")
		assert.Equal(t, bytes.Contains(buf.Bytes(), []byte(`"status":418`)), true, "status should be logged")
	})

	t.Run("recovers", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

		assert.Equal(t, w.Code, http.StatusInternalServerError, "status code mismatch")
		assert.Equal(t, bytes.Contains(buf.Bytes(), []byte("recovered from panic")), true, "panic should be logged")
	})
}
