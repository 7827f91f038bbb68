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
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	pkgErrors "github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/llm"
	"github.com/recallcards/recall/pkg/server/log"
	mw "github.com/recallcards/recall/pkg/server/middleware"
)

var validate = newValidator()

var formDecoder = newFormDecoder()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// badRequestError is an error for a payload that could not be accepted
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return e.msg
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return badRequestError{msg: err.Error()}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return badRequestError{msg: fe.Field() + " is required"}
	case "oneof":
		return badRequestError{msg: fe.Field() + " must be one of: " + fe.Param()}
	case "min", "gte":
		return badRequestError{msg: fe.Field() + " must be at least " + fe.Param()}
	case "max", "lte":
		return badRequestError{msg: fe.Field() + " must be at most " + fe.Param()}
	default:
		return badRequestError{msg: fe.Field() + " is invalid"}
	}
}

// parseRequestData decodes the body of the request into v and validates it.
// Form bodies are decoded by field tags of the schema package; any other
// body is decoded as JSON.
func parseRequestData(r *http.Request, v interface{}) error {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return badRequestError{msg: "malformed form"}
		}
		if err := formDecoder.Decode(v, r.PostForm); err != nil {
			return badRequestError{msg: "malformed form"}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return badRequestError{msg: "malformed JSON payload"}
		}
	}

	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}

	return nil
}

// parseQuery decodes the query string of the request into v
func parseQuery(r *http.Request, v interface{}) error {
	if err := formDecoder.Decode(v, r.URL.Query()); err != nil {
		return badRequestError{msg: "malformed query"}
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}

	return nil
}

// pathVar returns the unescaped route variable of the given name
func pathVar(r *http.Request, name string) (string, error) {
	v, err := url.PathUnescape(mux.Vars(r)[name])
	if err != nil {
		return "", badRequestError{msg: "malformed " + name}
	}

	return v, nil
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

func getStatusCode(err error) int {
	var bre badRequestError
	if errors.As(err, &bre) {
		return http.StatusBadRequest
	}
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}

	switch pkgErrors.Cause(err) {
	case app.ErrEmailRequired,
		app.ErrPasswordRequired,
		app.ErrPasswordTooShort,
		app.ErrPasswordConfirmationMismatch,
		app.ErrDeckNameRequired,
		app.ErrQuestionRequired,
		app.ErrAnswerRequired,
		app.ErrReservedQuestion,
		app.ErrSameDeck,
		app.ErrConfirmationMismatch,
		app.ErrNothingToSave,
		app.ErrTopicRequired,
		app.ErrInvalidCardCount,
		app.ErrMessagesRequired,
		app.ErrInvalidRole,
		deck.ErrInvalidStatus:
		return http.StatusBadRequest
	case app.ErrLoginInvalid, app.ErrInvalidPassword:
		return http.StatusUnauthorized
	case app.ErrForbidden:
		return http.StatusForbidden
	case app.ErrNotFound, app.ErrDeckNotFound, app.ErrCardNotFound:
		return http.StatusNotFound
	case app.ErrDuplicateEmail, app.ErrDeckExists:
		return http.StatusConflict
	case app.ErrQuotaExceeded:
		return http.StatusTooManyRequests
	case app.ErrGenerationCount, app.ErrMalformedOutput, llm.ErrEmptyResponse:
		return http.StatusBadGateway
	case app.ErrAIDisabled:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with the status it maps to.
// Internal errors are not exposed to the client.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)

	if statusCode >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)
	}

	var message string
	switch {
	case statusCode == http.StatusInternalServerError:
		message = http.StatusText(statusCode)
	case statusCode == http.StatusBadGateway:
		message = "The language model failed to respond properly. Please try again."
	default:
		message = pkgErrors.Cause(err).Error()
	}

	mw.RespondError(w, statusCode, message)
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
}

func unsetSessionCookie(w http.ResponseWriter) {
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
	}
	http.SetCookie(w, &cookie)
}

// SessionResponse is a response containing a session information
type SessionResponse struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

func respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session) {
	setSessionCookie(w, session.Key, session.ExpiresAt)

	respondJSON(w, statusCode, SessionResponse{
		Key:       session.Key,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}
