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

// Package config reads and writes the YAML config file of the CLI
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/consts"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/utils"
	"gopkg.in/yaml.v2"
)

// Config holds the recall configuration. The session fields are written by
// login and cleared by logout.
type Config struct {
	APIEndpoint      string `yaml:"apiEndpoint"`
	SessionKey       string `yaml:"sessionKey,omitempty"`
	SessionKeyExpiry int64  `yaml:"sessionKeyExpiry,omitempty"`
}

// GetPath returns the path to the config file
func GetPath(ctx context.RecallCtx) string {
	return filepath.Join(ctx.Paths.Config, consts.RecallDirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(ctx context.RecallCtx) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(ctx))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	if err := yaml.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file. The file may hold a session
// key and is kept private to the user.
func Write(ctx context.RecallCtx, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	if err := utils.WritePrivateFile(GetPath(ctx), b); err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// SaveSession stores the session key in the config file
func SaveSession(ctx context.RecallCtx, key string, expiry int64) error {
	cf, err := Read(ctx)
	if err != nil {
		return err
	}

	cf.SessionKey = key
	cf.SessionKeyExpiry = expiry

	return Write(ctx, cf)
}

// ClearSession removes the session key from the config file
func ClearSession(ctx context.RecallCtx) error {
	return SaveSession(ctx, "", 0)
}
