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

package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"

	// commands
	"github.com/recallcards/recall/pkg/cli/cmd/add"
	"github.com/recallcards/recall/pkg/cli/cmd/create"
	"github.com/recallcards/recall/pkg/cli/cmd/edit"
	"github.com/recallcards/recall/pkg/cli/cmd/generate"
	"github.com/recallcards/recall/pkg/cli/cmd/login"
	"github.com/recallcards/recall/pkg/cli/cmd/logout"
	"github.com/recallcards/recall/pkg/cli/cmd/ls"
	"github.com/recallcards/recall/pkg/cli/cmd/recent"
	"github.com/recallcards/recall/pkg/cli/cmd/remove"
	"github.com/recallcards/recall/pkg/cli/cmd/root"
	"github.com/recallcards/recall/pkg/cli/cmd/study"
	"github.com/recallcards/recall/pkg/cli/cmd/transfer"
	"github.com/recallcards/recall/pkg/cli/cmd/version"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseDBPath extracts the --dbPath flag value from the command line
// arguments wherever it appears. Returns an empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	// --dbPath can appear after the subcommand, where root.ParseFlags does
	// not see it, and the database is needed before the commands are built
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, apiEndpoint, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer ctx.DB.Close()

	root.Register(add.NewCmd(*ctx))
	root.Register(create.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(generate.NewCmd(*ctx))
	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(recent.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(study.NewCmd(*ctx))
	root.Register(transfer.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
