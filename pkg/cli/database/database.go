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

// Package database opens the local SQLite database of the CLI
package database

import (
	"database/sql"

	// sqlite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/kv"
)

// Open opens a connection to the SQLite database at the given path
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening db connection")
	}

	return db, nil
}

// InitSchema creates the tables of the local database if missing
func InitSchema(db *sql.DB) error {
	log.Debug("initializing the database\n")

	if _, err := db.Exec(kv.Schema); err != nil {
		return errors.Wrap(err, "creating storage table")
	}

	return nil
}
