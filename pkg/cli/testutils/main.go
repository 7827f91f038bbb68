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

// Package testutils provides utilities used in tests
package testutils

import (
	"bytes"
	"io"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/assert"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/clock"
	"github.com/recallcards/recall/pkg/server/app"
	"github.com/recallcards/recall/pkg/server/controllers"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/llm"
	apitest "github.com/recallcards/recall/pkg/server/testutils"
	"gorm.io/gorm"
)

// Prompts for user input
const (
	PromptEmail    = "email:"
	PromptPassword = "password:"
	PromptConfirm  = "to confirm:"
)

// Timeout for waiting for prompts in tests
const promptTimeout = 10 * time.Second

// Server is an API server running in the test process
type Server struct {
	*httptest.Server
	App   *app.App
	DB    *gorm.DB
	Clock *clock.Mock
}

// NewServer starts an API server backed by an in-memory database. The
// model serves generation and chat and may be nil.
func NewServer(t *testing.T, model llm.Client) *Server {
	mock := clock.NewMock()

	a := app.NewTest()
	a.DB = apitest.InitMemoryDB(t)
	a.Clock = mock
	a.LLM = model

	s := controllers.MustNewServer(t, &a)
	t.Cleanup(s.Close)

	return &Server{
		Server: s,
		App:    &a,
		DB:     a.DB,
		Clock:  mock,
	}
}

// NewCtx returns a context of a user who is not logged in, talking to the
// given server
func NewCtx(t *testing.T, server *Server) context.RecallCtx {
	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = server.URL + "/api"
	ctx.HTTPClient = server.Client()

	return ctx
}

// Login creates a session for the user on the server and puts it in the
// context
func Login(t *testing.T, ctx *context.RecallCtx, db *gorm.DB, user database.User) {
	session := apitest.SetupSession(db, user)

	ctx.SessionKey = session.Key
	ctx.SessionKeyExpiry = session.ExpiresAt.Unix()
}

// CaptureOutput redirects the colored output to a buffer for the duration
// of the test
func CaptureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer

	output, noColor := color.Output, color.NoColor
	color.Output = &buf
	color.NoColor = true

	t.Cleanup(func() {
		color.Output = output
		color.NoColor = noColor
	})

	return &buf
}

// RunRecallCmdOptions is an option for RunRecallCmd
type RunRecallCmdOptions struct {
	Env []string
}

func newRecallCmd(opts RunRecallCmdOptions, binaryName string, arg ...string) (*exec.Cmd, error) {
	binaryPath, err := filepath.Abs(binaryName)
	if err != nil {
		return nil, errors.Wrap(err, "getting the absolute path to the test binary")
	}

	cmd := exec.Command(binaryPath, arg...)
	cmd.Env = append(opts.Env, "RECALL_DEBUG=1")

	return cmd, nil
}

// RunRecallCmd runs a recall command and returns its stdout
func RunRecallCmd(t *testing.T, opts RunRecallCmdOptions, binaryName string, arg ...string) string {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, err := newRecallCmd(opts, binaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command").Error())
	}

	var stderr, stdout bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		t.Logf("\n%s", stdout.String())
		t.Fatal(errors.Wrapf(err, "running command %s", stderr.String()))
	}

	// Print stdout if and only if test fails later
	t.Logf("\n%s", stdout.String())

	return stdout.String()
}

// WaitRecallCmd runs a recall command and passes stdout and stdin to the
// callback
func WaitRecallCmd(t *testing.T, opts RunRecallCmdOptions, runFunc func(io.Reader, io.WriteCloser) error, binaryName string, arg ...string) (string, error) {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, err := newRecallCmd(opts, binaryName, arg...)
	if err != nil {
		return "", errors.Wrap(err, "getting command")
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", errors.Wrap(err, "getting stdout pipe")
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", errors.Wrap(err, "getting stdin")
	}
	defer stdin.Close()

	if err = cmd.Start(); err != nil {
		return "", errors.Wrap(err, "starting command")
	}

	var output bytes.Buffer
	tee := io.TeeReader(stdout, &output)

	if err := runFunc(tee, stdin); err != nil {
		t.Logf("\n%s", output.String())
		return output.String(), errors.Wrap(err, "running callback")
	}

	io.Copy(&output, stdout)

	if err := cmd.Wait(); err != nil {
		t.Logf("\n%s", output.String())
		return output.String(), errors.Wrapf(err, "command failed: %s", stderr.String())
	}

	t.Logf("\n%s", output.String())
	return output.String(), nil
}

// MustWaitRecallCmd is WaitRecallCmd that fails the test on error
func MustWaitRecallCmd(t *testing.T, opts RunRecallCmdOptions, runFunc func(io.Reader, io.WriteCloser) error, binaryName string, arg ...string) string {
	output, err := WaitRecallCmd(t, opts, runFunc, binaryName, arg...)
	if err != nil {
		t.Fatal(err)
	}

	return output
}

// Respond waits for a prompt and answers it with a line of input
func Respond(stdout io.Reader, stdin io.WriteCloser, expectedPrompt, answer string) error {
	return assert.RespondToPrompt(stdout, stdin, expectedPrompt, answer+"\n", promptTimeout)
}

// UserLogin answers the prompts of the login command
func UserLogin(email, password string) func(io.Reader, io.WriteCloser) error {
	return func(stdout io.Reader, stdin io.WriteCloser) error {
		if err := Respond(stdout, stdin, PromptEmail, email); err != nil {
			return errors.Wrap(err, "entering email")
		}
		if err := Respond(stdout, stdin, PromptPassword, password); err != nil {
			return errors.Wrap(err, "entering password")
		}

		return nil
	}
}

// UserConfirmTyped answers a typed confirmation prompt
func UserConfirmTyped(text string) func(io.Reader, io.WriteCloser) error {
	return func(stdout io.Reader, stdin io.WriteCloser) error {
		return Respond(stdout, stdin, PromptConfirm, text)
	}
}
