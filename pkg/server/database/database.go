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

package database

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Card{},
		&Progress{},
		&Session{},
	); err != nil {
		panic(err)
	}
}

// Params are the parameters for opening a database connection
type Params struct {
	// Path is the path to the SQLite database file
	Path string
	// URL is a Postgres connection string. If set, it takes precedence
	// over Path.
	URL      string
	LogLevel string
}

// Dialect returns the dialect the params select
func (p Params) Dialect() string {
	if p.URL != "" {
		return DialectPostgres
	}

	return DialectSQLite
}

func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// Open initializes the database connection
func Open(p Params) *gorm.DB {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(p.LogLevel)),
	}

	var dialector gorm.Dialector
	if p.Dialect() == DialectPostgres {
		dialector = postgres.Open(p.URL)
	} else {
		dir := filepath.Dir(p.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(errors.Wrapf(err, "creating database directory at %s", dir))
		}

		dialector = sqlite.Open(p.Path)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		panic(errors.Wrapf(err, "opening %s database connection", p.Dialect()))
	}

	return db
}
