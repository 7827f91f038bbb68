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

package kv

import (
	"database/sql"

	"github.com/pkg/errors"
)

// Schema creates the table used by SQLStore
const Schema = `CREATE TABLE IF NOT EXISTS storage
	(
		key text PRIMARY KEY,
		value text NOT NULL
	)`

// SQLStore is a Store persisted in the storage table of a SQLite database
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a store backed by the given database. The storage
// table must exist.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get is an implementation of Store.Get
func (s *SQLStore) Get(key string) (string, bool, error) {
	var value string

	err := s.db.QueryRow("SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, errors.Wrapf(err, "reading %s", key)
	}

	return value, true, nil
}

// Set is an implementation of Store.Set
func (s *SQLStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}

	return nil
}

// Delete is an implementation of Store.Delete
func (s *SQLStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM storage WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "deleting %s", key)
	}

	return nil
}
