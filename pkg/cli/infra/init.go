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

// Package infra provides operations and definitions for the
// local infrastructure for Recall
package infra

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/config"
	"github.com/recallcards/recall/pkg/cli/consts"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/database"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/utils"
	"github.com/recallcards/recall/pkg/clock"
	"github.com/recallcards/recall/pkg/dirs"
	"github.com/recallcards/recall/pkg/kv"
	"github.com/spf13/cobra"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001/api"
)

// RunEFunc is a function type of recall commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return filepath.Join(paths.Data, consts.RecallDirName, consts.RecallDBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection
// used to initialize the files before setupCtx reads the config
func newBaseCtx(versionTag, customDBPath string) (context.RecallCtx, error) {
	paths := context.Paths{
		Home:   dirs.Home,
		Config: dirs.ConfigHome,
		Data:   dirs.DataHome,
		Cache:  dirs.CacheHome,
	}

	if err := context.InitRecallDirs(paths); err != nil {
		return context.RecallCtx{}, errors.Wrap(err, "creating the recall dirs")
	}

	db, err := database.Open(getDBPath(paths, customDBPath))
	if err != nil {
		return context.RecallCtx{}, errors.Wrap(err, "connecting to db")
	}

	return context.RecallCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}, nil
}

// Init initializes the Recall environment and returns a new recall context.
// A non-empty apiEndpoint overrides the configured one for this run and is
// written only to a new config file.
func Init(versionTag, apiEndpoint, dbPath string) (*context.RecallCtx, error) {
	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "generating the config file")
	}

	if err := database.InitSchema(ctx.DB); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}

	ctx, err = setupCtx(ctx, apiEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from the config file
func setupCtx(ctx context.RecallCtx, apiEndpoint string) (context.RecallCtx, error) {
	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	endpoint := cf.APIEndpoint
	if apiEndpoint != "" {
		endpoint = apiEndpoint
	}

	ret := context.RecallCtx{
		Paths:            ctx.Paths,
		Version:          ctx.Version,
		DB:               ctx.DB,
		Store:            kv.NewSQLStore(ctx.DB),
		SessionKey:       cf.SessionKey,
		SessionKeyExpiry: cf.SessionKeyExpiry,
		APIEndpoint:      endpoint,
		Clock:            clock.New(),
		HTTPClient:       client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.RecallCtx, apiEndpoint string) error {
	ok, err := utils.FileExists(config.GetPath(ctx))
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	endpoint := apiEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	if err := config.Write(ctx, config.Config{APIEndpoint: endpoint}); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}
