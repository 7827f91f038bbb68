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
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/buildinfo"
	"github.com/recallcards/recall/pkg/server/config"
	"github.com/recallcards/recall/pkg/server/controllers"
	"github.com/recallcards/recall/pkg/server/log"
)

func startCmd(args []string) {
	fs := setupFlagSet("start", "recall-server start")

	envFile := fs.String("envFile", ".env", "Path to a .env file to load before reading the environment")
	port := fs.String("port", "", "Server port (env: PORT, default: 3001)")
	webURL := fs.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	dbPath, databaseURL := dbFlags(fs)
	disableRegistration := fs.Bool("disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	tokenLimit := fs.Int("tokenLimit", 0, "Monthly AI tokens per user (env: TOKEN_LIMIT, default: 100000)")
	openAIModel := fs.String("openaiModel", "", "Model for generation and chat (env: OPENAI_MODEL, default: gpt-4o-mini)")
	openAIBaseURL := fs.String("openaiBaseUrl", "", "Base URL of an OpenAI compatible API (env: OPENAI_BASE_URL)")

	fs.Parse(args)

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Printf("Error: %s\n\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(config.Params{
		Port:                *port,
		WebURL:              *webURL,
		DBPath:              *dbPath,
		DatabaseURL:         *databaseURL,
		DisableRegistration: *disableRegistration,
		LogLevel:            *logLevel,
		TokenLimit:          *tokenLimit,
		OpenAIModel:         *openAIModel,
		OpenAIBaseURL:       *openAIBaseURL,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app, err := initApp(cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing app")
		os.Exit(1)
	}
	defer closeDB(app.DB)

	scheduler, err := app.StartScheduler()
	if err != nil {
		log.ErrorWrap(err, "starting scheduler")
		os.Exit(1)
	}
	defer scheduler.Stop()

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithFields(log.Fields{
		"version":    buildinfo.Version,
		"port":       cfg.Port,
		"ai_enabled": cfg.AIEnabled(),
	}).Info("Recall server starting")

	if err := srv.ListenAndServe(); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}
