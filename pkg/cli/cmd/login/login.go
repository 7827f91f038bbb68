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

package login

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/config"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/ui"
	"github.com/spf13/cobra"
)

var example = `
  recall login

  * Log in to a self-hosted server
  recall login --apiEndpoint https://recall.mydomain.com/api`

var emailFlag, apiEndpointFlag string

// NewCmd returns a new login command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&emailFlag, "email", "", "email address for authentication")
	f.StringVar(&apiEndpointFlag, "apiEndpoint", "", "API endpoint to connect to (defaults to value in config)")

	return cmd
}

// Do signs in with the given credentials and saves the session in the
// config along with the endpoint it is valid for
func Do(ctx context.RecallCtx, email, password string) error {
	resp, err := client.Signin(ctx, email, password)
	if err != nil {
		return err
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	cf.APIEndpoint = ctx.APIEndpoint
	cf.SessionKey = resp.Key
	cf.SessionKeyExpiry = resp.ExpiresAt

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "saving session")
	}

	return nil
}

func getCredentials(p *ui.Prompter, email string) (string, string, error) {
	var err error

	if email == "" {
		email, err = p.Input("email")
		if err != nil {
			return "", "", errors.Wrap(err, "getting email input")
		}
		if email == "" {
			return "", "", errors.New("Email is empty")
		}
	}

	password, err := p.Password("password")
	if err != nil {
		return "", "", errors.Wrap(err, "getting password input")
	}
	if password == "" {
		return "", "", errors.New("Password is empty")
	}

	return email, password, nil
}

// getServerDisplayURL returns the scheme and host of the API endpoint
func getServerDisplayURL(ctx context.RecallCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if apiEndpointFlag != "" {
			ctx.APIEndpoint = apiEndpointFlag
		}

		if displayURL := getServerDisplayURL(ctx); displayURL != "" {
			log.Infof("logging in to %s\n", displayURL)
		}

		email, password, err := getCredentials(ui.NewPrompter(cmd.InOrStdin()), emailFlag)
		if err != nil {
			return err
		}

		err = Do(ctx, email, password)
		if errors.Cause(err) == client.ErrInvalidLogin {
			return errors.New("wrong email and password combination")
		} else if err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Success("logged in\n")

		return nil
	}
}
