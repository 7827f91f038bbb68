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
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/database/migrations"
	"github.com/recallcards/recall/pkg/server/log"
	"gorm.io/gorm"
)

// MigrationTableName is the name of the table that records applied migrations
const MigrationTableName = "schema_migrations"

type migrationFile struct {
	filename string
	version  int
}

// parseMigrationFilename returns the version of a migration file named
// NNN-description.sql
func parseMigrationFilename(name string) (int, error) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	version, description, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "-")
	if !ok {
		return 0, errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}
	if len(version) != 3 {
		return 0, errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("invalid migration filename %s: version must be numeric", name)
		}
	}
	if description == "" {
		return 0, errors.Errorf("invalid migration filename %s: description is required", name)
	}

	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing version of %s", name)
	}

	return v, nil
}

// Migrate applies the embedded migrations that have not run yet
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

// readMigrations returns the migration files in the order they must run
func readMigrations(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var ret []migrationFile
	seen := map[int]string{}
	for _, e := range entries {
		name := e.Name()

		v, err := parseMigrationFilename(name)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[v]; ok {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		ret = append(ret, migrationFile{filename: name, version: v})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].version < ret[j].version
	})

	return ret, nil
}

// SchemaVersion returns the version of the last applied migration
func SchemaVersion(db *gorm.DB) (int, error) {
	var version int
	if err := db.Raw("SELECT COALESCE(MAX(version), 0) FROM " + MigrationTableName).Scan(&version).Error; err != nil {
		return 0, errors.Wrap(err, "reading schema version")
	}

	return version, nil
}

func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + MigrationTableName + ` (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		return errors.Wrap(err, "creating migration table")
	}

	version, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	files, err := readMigrations(fsys)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": version,
		"files":   len(files),
	}).Debug("Checking database migrations.")

	for _, m := range files {
		if m.version <= version {
			continue
		}

		query, err := fs.ReadFile(fsys, m.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration %s", m.filename)
		}
		if strings.TrimSpace(string(query)) == "" {
			return errors.Errorf("migration %s is empty", m.filename)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(query)).Error; err != nil {
				return errors.Wrapf(err, "running migration %s", m.filename)
			}
			if err := tx.Exec("INSERT INTO "+MigrationTableName+" (version) VALUES (?)", m.version).Error; err != nil {
				return errors.Wrapf(err, "recording migration %s", m.filename)
			}

			return nil
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file": m.filename,
		}).Info("Applied migration.")
	}

	return nil
}
