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

package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/mailer"
)

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host, nil
	}

	return parts[len(parts)-2] + "." + parts[len(parts)-1], nil
}

// GetSenderEmail returns the noreply address on the domain of the web URL
func GetSenderEmail(webURL string) (string, error) {
	domain, err := getDomainFromURL(webURL)
	if err != nil {
		return "", errors.Wrap(err, "getting sender email address")
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

func (a *App) sendEmail(templateType, email string, data interface{}) error {
	from, err := GetSenderEmail(a.WebURL)
	if err != nil {
		return err
	}

	if err := a.EmailBackend.SendEmail(templateType, from, []string{email}, data); err != nil {
		return errors.Wrapf(err, "sending %s email to %s", templateType, email)
	}

	return nil
}

// SendWelcomeEmail sends a welcome email to a new user
func (a *App) SendWelcomeEmail(email string) error {
	return a.sendEmail(mailer.EmailTypeWelcome, email, mailer.WelcomeTmplData{
		AccountEmail: email,
		WebURL:       a.WebURL,
	})
}

// SendPasswordChangedEmail notifies a user that the password was changed
func (a *App) SendPasswordChangedEmail(email string) error {
	return a.sendEmail(mailer.EmailTypePasswordChanged, email, mailer.PasswordChangedTmplData{
		AccountEmail: email,
		WebURL:       a.WebURL,
	})
}
