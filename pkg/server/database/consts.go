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
	"database/sql"
)

const (
	// DialectSQLite is the dialect of the default, file based database
	DialectSQLite = "sqlite"
	// DialectPostgres is the dialect used when a database URL is configured
	DialectPostgres = "postgres"
)

// NullString is a nullable string column
type NullString struct {
	sql.NullString
}

// ToNullString returns a NullString that is null if the given string is empty
func ToNullString(s string) NullString {
	return NullString{
		sql.NullString{
			String: s,
			Valid:  s != "",
		},
	}
}
