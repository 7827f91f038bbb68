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

package assert

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// WaitForPrompt reads stdout until the expected prompt appears or the
// timeout passes. Bytes are read one at a time so that nothing after the
// prompt is consumed.
func WaitForPrompt(stdout io.Reader, expectedPrompt string, timeout time.Duration) error {
	done := make(chan error, 1)

	go func() {
		var seen strings.Builder
		b := make([]byte, 1)

		for {
			n, err := stdout.Read(b)
			if n == 1 {
				seen.WriteByte(b[0])
				if strings.HasSuffix(seen.String(), expectedPrompt) {
					done <- nil
					return
				}
			}

			if err == io.EOF {
				done <- errors.Errorf("expected prompt '%s' not found in stdout", expectedPrompt)
				return
			} else if err != nil {
				done <- errors.Wrap(err, "reading stdout")
				return
			}
		}
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return errors.Errorf("timeout waiting for prompt '%s'", expectedPrompt)
	}
}

// RespondToPrompt waits for a prompt and writes the response to stdin
func RespondToPrompt(stdout io.Reader, stdin io.WriteCloser, expectedPrompt, response string, timeout time.Duration) error {
	if err := WaitForPrompt(stdout, expectedPrompt, timeout); err != nil {
		return err
	}

	if _, err := io.WriteString(stdin, response); err != nil {
		return errors.Wrap(err, "writing response to stdin")
	}

	return nil
}
