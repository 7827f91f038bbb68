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

// Package consts provides definitions of constant values used across the CLI
package consts

var (
	// RecallDirName is the name of the directory containing recall files
	RecallDirName = "recall"
	// RecallDBFileName is a filename for the local SQLite database
	RecallDBFileName = "recall.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "recallrc"
)
