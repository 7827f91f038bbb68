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

package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/dirs"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvTest represents an app environment for tests
	AppEnvTest string = "TEST"
	// DefaultDBDir is the default directory name for the server data
	DefaultDBDir = "recall"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultTokenLimit is the number of AI tokens a user may spend in a month
	DefaultTokenLimit = 100000
	// DefaultOpenAIBaseURL is the base URL of the OpenAI API
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultOpenAIModel is the model used for generation and chat
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultSMTPPort is the port of the SMTP server used when none is set
	DefaultSMTPPort = 587
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrTokenLimitInvalid is an error for a token limit that is not positive
	ErrTokenLimitInvalid = errors.New("Invalid token limit")
	// ErrOpenAIBaseURLInvalid is an error for a malformed OpenAI base URL
	ErrOpenAIBaseURLInvalid = errors.New("Invalid OpenAI base URL")
	// ErrSMTPPortInvalid is an error for an SMTP port that is not a number
	ErrSMTPPortInvalid = errors.New("Invalid SMTP port")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

func getIntOrEnv(value int, envKey string, defaultVal int) (int, error) {
	if value != 0 {
		return value, nil
	}

	env := os.Getenv(envKey)
	if env == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", envKey)
	}

	return n, nil
}

// LoadDotEnv loads environment variables from the given .env files. Missing
// files are skipped and variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "loading %s", p)
		}
	}

	return nil
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBPath              string
	DatabaseURL         string
	LogLevel            string
	OpenAIKey           string
	OpenAIModel         string
	OpenAIBaseURL       string
	TokenLimit          int
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string
	Port                string
	WebURL              string
	DBPath              string
	DatabaseURL         string
	DisableRegistration bool
	LogLevel            string
	OpenAIKey           string
	OpenAIModel         string
	OpenAIBaseURL       string
	TokenLimit          int
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
}

// New constructs and returns a new validated config.
// Empty params fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	tokenLimit, err := getIntOrEnv(p.TokenLimit, "TOKEN_LIMIT", DefaultTokenLimit)
	if err != nil {
		return Config{}, errors.Wrap(ErrTokenLimitInvalid, err.Error())
	}
	smtpPort, err := getIntOrEnv(p.SMTPPort, "SMTP_PORT", DefaultSMTPPort)
	if err != nil {
		return Config{}, errors.Wrap(ErrSMTPPortInvalid, err.Error())
	}

	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "3001"),
		WebURL:              getOrEnv(p.WebURL, "WebURL", "http://localhost:3001"),
		DBPath:              getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL:         getOrEnv(p.DatabaseURL, "DATABASE_URL", ""),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
		OpenAIKey:           getOrEnv(p.OpenAIKey, "OPENAI_API_KEY", ""),
		OpenAIModel:         getOrEnv(p.OpenAIModel, "OPENAI_MODEL", DefaultOpenAIModel),
		OpenAIBaseURL:       getOrEnv(p.OpenAIBaseURL, "OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		TokenLimit:          tokenLimit,
		SMTPHost:            getOrEnv(p.SMTPHost, "SMTP_HOST", ""),
		SMTPPort:            smtpPort,
		SMTPUsername:        getOrEnv(p.SMTPUsername, "SMTP_USERNAME", ""),
		SMTPPassword:        getOrEnv(p.SMTPPassword, "SMTP_PASSWORD", ""),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// AIEnabled returns true if an API key for the language model is configured
func (c Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}

// SMTPEnabled returns true if an SMTP server is configured for outgoing
// emails
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}
	if c.DBPath == "" && c.DatabaseURL == "" {
		return ErrDBMissingPath
	}
	if c.TokenLimit <= 0 {
		return ErrTokenLimitInvalid
	}
	if c.OpenAIBaseURL != "" {
		if _, err := url.ParseRequestURI(c.OpenAIBaseURL); err != nil {
			return errors.Wrapf(ErrOpenAIBaseURLInvalid, "'%s'", c.OpenAIBaseURL)
		}
	}

	return nil
}
