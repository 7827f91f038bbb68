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
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/clock"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/config"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/llm"
	"github.com/recallcards/recall/pkg/server/log"
	"github.com/recallcards/recall/pkg/server/mailer"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) (*gorm.DB, error) {
	db := database.Open(database.Params{
		Path:     cfg.DBPath,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.LogLevel,
	})
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func getLLMClient(cfg config.Config) llm.Client {
	if !cfg.AIEnabled() {
		log.Info("OPENAI_API_KEY is not set. Generation and chat are disabled.")
		return nil
	}

	log.WithFields(log.Fields{
		"model": cfg.OpenAIModel,
	}).Debug("language model configured")

	return llm.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel)
}

func getEmailBackend(cfg config.Config) (mailer.Backend, error) {
	if !cfg.SMTPEnabled() {
		log.Info("SMTP is not configured. Emails are logged instead of sent.")
		return mailer.NewStdoutBackend(), nil
	}

	b, err := mailer.NewDefaultBackend(mailer.SMTPParams{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initializing email backend")
	}

	return b, nil
}

func initApp(cfg config.Config) (app.App, error) {
	emailBackend, err := getEmailBackend(cfg)
	if err != nil {
		return app.App{}, err
	}

	db, err := initDB(cfg)
	if err != nil {
		return app.App{}, err
	}

	return app.App{
		DB:                  db,
		Clock:               clock.New(),
		LLM:                 getLLMClient(cfg),
		EmailBackend:        emailBackend,
		TokenLimit:          cfg.TokenLimit,
		AppEnv:              cfg.AppEnv,
		WebURL:              cfg.WebURL,
		DisableRegistration: cfg.DisableRegistration,
		Port:                cfg.Port,
		DBPath:              cfg.DBPath,
	}, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// printFlags prints flags with -- prefix for consistency with the client
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// requireString validates that a required string flag is not empty
func requireString(fs *flag.FlagSet, value, fieldName string) {
	if value == "" {
		fmt.Printf("Error: %s is required\n", fieldName)
		fs.Usage()
		os.Exit(1)
	}
}

func dbFlags(fs *flag.FlagSet) (dbPath, databaseURL *string) {
	dbPath = fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/recall/server.db)")
	databaseURL = fs.String("databaseUrl", "", "Postgres connection string, used instead of dbPath (env: DATABASE_URL)")

	return dbPath, databaseURL
}

// setupAppWithDB creates config, initializes app, and returns cleanup function
func setupAppWithDB(fs *flag.FlagSet, dbPath, databaseURL string) (*app.App, func()) {
	cfg, err := config.New(config.Params{
		DBPath:      dbPath,
		DatabaseURL: databaseURL,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	a, err := initApp(cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing app")
		os.Exit(1)
	}

	return &a, func() { closeDB(a.DB) }
}
