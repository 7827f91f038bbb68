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

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/app"
	mw "github.com/recallcards/recall/pkg/server/middleware"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns the routes of the current API version
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Auth(a.DB, a.Clock, h)
	}

	ret := []Route{
		{"POST", "/signin", c.Users.SignIn, true},
		{"POST", "/signout", c.Users.SignOut, true},
		{"GET", "/me", auth(c.Users.Me), true},
		{"PATCH", "/account/password", auth(c.Users.PasswordUpdate), true},

		{"GET", "/decks", auth(c.Decks.Index), true},
		{"POST", "/decks", auth(c.Decks.Create), true},
		{"GET", "/decks/{name}/cards", auth(c.Decks.Cards), true},
		{"DELETE", "/decks/{name}", auth(c.Decks.Delete), true},
		{"GET", "/community/decks", auth(c.Decks.Community), true},

		{"POST", "/cards", auth(c.Cards.Create), true},
		{"PATCH", "/cards/{cardUUID}", auth(c.Cards.Update), true},
		{"DELETE", "/cards/{cardUUID}", auth(c.Cards.Delete), true},

		{"POST", "/progress/query", auth(c.Progress.Query), false},
		{"POST", "/progress/mastered", auth(c.Progress.Mastered), false},
		{"PUT", "/progress/{cardUUID}", auth(c.Progress.Upsert), false},

		{"POST", "/transfers", auth(c.Transfers.Create), true},

		{"POST", "/generate", auth(c.AI.Generate), true},
		{"POST", "/generate/save", auth(c.AI.Save), true},
		{"POST", "/chat", auth(c.AI.Chat), true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/join", c.Users.Create, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	// Deck names may contain slashes, so route variables are matched
	// against the escaped path and unescaped by the handlers
	router := mux.NewRouter().StrictSlash(true).UseEncodedPath()

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.NotFoundHandler = http.HandlerFunc(mw.NotFound)
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.PathPrefix("/api/").Handler(mw.ApplyLimit(mw.NotSupported, true, app.AppEnv))

	router.Handle("/health", mw.ApplyLimit(rc.Controllers.Health.Index, true, app.AppEnv)).Methods("GET")

	// catch-all
	router.PathPrefix("/").HandlerFunc(mw.NotFound)

	return mw.Global(router), nil
}
