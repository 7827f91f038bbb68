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
	"os"
	"strings"
	"testing"

	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/cli/context"
)

func TestReadWrite(t *testing.T) {
	ctx := context.InitTestCtx(t)

	cf := Config{APIEndpoint: "http://127.0.0.1:3001/api"}
	if err := Write(ctx, cf); err != nil {
		t.Fatal(err)
	}

	got, err := Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got, cf, "config mismatch")

	b, err := os.ReadFile(GetPath(ctx))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, strings.Contains(string(b), "sessionKey"), false, "empty session key should be omitted")
}

func TestSession(t *testing.T) {
	ctx := context.InitTestCtx(t)

	if err := Write(ctx, Config{APIEndpoint: "http://127.0.0.1:3001/api"}); err != nil {
		t.Fatal(err)
	}

	if err := SaveSession(ctx, "someSessionKey", 1700000000); err != nil {
		t.Fatal(err)
	}

	got, err := Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got, Config{
		APIEndpoint:      "http://127.0.0.1:3001/api",
		SessionKey:       "someSessionKey",
		SessionKeyExpiry: 1700000000,
	}, "config after login mismatch")

	if err := ClearSession(ctx); err != nil {
		t.Fatal(err)
	}

	got, err = Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got, Config{APIEndpoint: "http://127.0.0.1:3001/api"}, "config after logout mismatch")
}

func TestRead_missing(t *testing.T) {
	ctx := context.InitTestCtx(t)

	if _, err := Read(ctx); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
