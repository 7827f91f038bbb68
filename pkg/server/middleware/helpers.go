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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/log"
)

// SessionCookieName is the name of the cookie holding the session key
const SessionCookieName = "id"

// ErrorResponse is the body of an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondError responds with the given status and message as JSON
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		log.ErrorWrap(err, "encoding error response")
	}
}

// DoError logs the error and responds with a generic message for the status
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Error(message)

	RespondError(w, statusCode, http.StatusText(statusCode))
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="Recall", charset="UTF-8"`)
	RespondError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
}

// NotSupported is the handler for the API versions that are no longer served
func NotSupported(w http.ResponseWriter, r *http.Request) {
	RespondError(w, http.StatusGone, "API version is not supported. Please upgrade your client.")
}

// NotFound is the handler for unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func getSessionKeyFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookieName)

	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "reading cookie")
	}

	return c.Value, nil
}

func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	payload, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return "", errors.New("invalid authorization header")
	}

	return payload, nil
}

// GetCredential extracts a session key from the request. The cookie takes
// precedence over the authorization header.
func GetCredential(r *http.Request) (string, error) {
	sessionKey, err := getSessionKeyFromCookie(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from cookie")
	}
	if sessionKey == "" {
		sessionKey, err = getSessionKeyFromAuth(r)
		if err != nil {
			return "", errors.Wrap(err, "getting session key from Authorization header")
		}
	}

	return sessionKey, nil
}
