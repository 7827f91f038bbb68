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
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/server/database"
	"github.com/recallcards/recall/pkg/server/log"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

const (
	// tokenResetSchedule runs at midnight on the first day of every month
	tokenResetSchedule = "0 0 0 1 * *"
	// sessionCleanupSchedule runs every hour
	sessionCleanupSchedule = "0 0 * * * *"
)

// TokensUsed returns the number of tokens the user spent this month
func (a *App) TokensUsed(userID int) (int, error) {
	var user database.User
	if err := a.DB.Select("tokens_used").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, errors.Wrap(err, "finding token usage")
	}

	return user.TokensUsed, nil
}

func (a *App) checkQuota(userID int) error {
	used, err := a.TokensUsed(userID)
	if err != nil {
		return err
	}
	if used >= a.TokenLimit {
		return ErrQuotaExceeded
	}

	return nil
}

// IncrementTokensUsed adds n to the token usage of the user
func (a *App) IncrementTokensUsed(userID, n int) error {
	if n <= 0 {
		return nil
	}

	err := a.DB.Model(&database.User{}).Where("id = ?", userID).
		UpdateColumn("tokens_used", gorm.Expr("tokens_used + ?", n)).Error
	if err != nil {
		return errors.Wrap(err, "incrementing token usage")
	}

	return nil
}

// ResetTokenUsage sets the token usage of every user back to zero
func (a *App) ResetTokenUsage() (int64, error) {
	res := a.DB.Model(&database.User{}).Where("tokens_used > 0").UpdateColumn("tokens_used", 0)
	if err := res.Error; err != nil {
		return 0, errors.Wrap(err, "resetting token usage")
	}

	return res.RowsAffected, nil
}

func (a *App) resetTokenUsageJob() {
	n, err := a.ResetTokenUsage()
	if err != nil {
		log.ErrorWrap(err, "running token reset")
		return
	}

	log.WithFields(log.Fields{
		"users": n,
	}).Info("token usage reset")
}

func (a *App) cleanupSessionsJob() {
	n, err := a.DeleteExpiredSessions()
	if err != nil {
		log.ErrorWrap(err, "running session cleanup")
		return
	}

	log.WithFields(log.Fields{
		"sessions": n,
	}).Debug("expired sessions deleted")
}

// StartScheduler starts the periodic jobs of the app. The caller must stop
// the returned scheduler.
func (a *App) StartScheduler() (*cron.Cron, error) {
	c := cron.New()

	if err := c.AddFunc(tokenResetSchedule, a.resetTokenUsageJob); err != nil {
		return nil, errors.Wrap(err, "scheduling token reset")
	}
	if err := c.AddFunc(sessionCleanupSchedule, a.cleanupSessionsJob); err != nil {
		return nil, errors.Wrap(err, "scheduling session cleanup")
	}

	c.Start()

	return c, nil
}
