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

	pkgErrors "github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/context"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/log"
	mw "github.com/recallcards/recall/pkg/server/middleware"
	"github.com/recallcards/recall/pkg/server/presenters"
	"golang.org/x/crypto/bcrypt"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller.
type Users struct {
	app *app.App
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Email                string `schema:"email" json:"email" validate:"required,email"`
	Password             string `schema:"password" json:"password" validate:"required"`
	PasswordConfirmation string `schema:"password_confirmation" json:"password_confirmation" validate:"required"`
}

// Create handles register
func (u *Users) Create(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	if err := u.app.SendWelcomeEmail(user.Email.String); err != nil {
		log.ErrorWrap(err, "sending welcome email")
	}

	respondWithSession(w, http.StatusCreated, session)
}

// LoginForm is the form data for log in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

func (u *Users) login(form LoginForm) (*database.Session, error) {
	if form.Email == "" {
		return nil, app.ErrEmailRequired
	}
	if form.Password == "" {
		return nil, app.ErrPasswordRequired
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		// An unknown email is reported the same way as a wrong password
		if err == app.ErrNotFound {
			return nil, app.ErrLoginInvalid
		}

		return nil, err
	}

	return u.app.SignIn(user)
}

// SignIn handles login
func (u *Users) SignIn(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	session, err := u.login(form)
	if err != nil {
		handleJSONError(w, err, "logging in user")
		return
	}

	respondWithSession(w, http.StatusOK, session)
}

func (u *Users) logout(r *http.Request) (bool, error) {
	key, err := mw.GetCredential(r)
	if err != nil {
		return false, pkgErrors.Wrap(err, "getting credentials")
	}

	if key == "" {
		return false, nil
	}

	if err = u.app.DeleteSession(key); err != nil {
		return false, pkgErrors.Wrap(err, "deleting session")
	}

	return true, nil
}

// SignOut handles logout
func (u *Users) SignOut(w http.ResponseWriter, r *http.Request) {
	ok, err := u.logout(r)
	if err != nil {
		handleJSONError(w, err, "logging out")
		return
	}

	if ok {
		unsetSessionCookie(w)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me responds with the signed in user
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(*user, u.app.TokenLimit))
}

type updatePasswordForm struct {
	OldPassword             string `schema:"old_password" json:"old_password" validate:"required"`
	NewPassword             string `schema:"new_password" json:"new_password" validate:"required"`
	NewPasswordConfirmation string `schema:"new_password_confirmation" json:"new_password_confirmation" validate:"required"`
}

// PasswordUpdate changes the password of the signed in user and ends all of
// the sessions of the user
func (u *Users) PasswordUpdate(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	var form updatePasswordForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.NewPassword != form.NewPasswordConfirmation {
		handleJSONError(w, app.ErrPasswordConfirmationMismatch, "passwords do not match")
		return
	}

	password := []byte(form.OldPassword)
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.String), password); err != nil {
		log.WithFields(log.Fields{
			"user_id": user.ID,
		}).Warn("invalid password update attempt")
		handleJSONError(w, app.ErrInvalidPassword, "invalid password")
		return
	}

	if err := u.app.UpdateUserPassword(user, form.NewPassword); err != nil {
		handleJSONError(w, err, "updating password")
		return
	}

	if err := u.app.SendPasswordChangedEmail(user.Email.String); err != nil {
		log.ErrorWrap(err, "sending password changed email")
	}

	unsetSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
