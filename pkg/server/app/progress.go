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
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/server/database"
	"gorm.io/gorm/clause"
)

// GetProgress returns the statuses the user recorded for the given cards.
// Cards without a record are left out.
func (a *App) GetProgress(userID int, cardUUIDs []string) (map[string]deck.Status, error) {
	ret := map[string]deck.Status{}
	if len(cardUUIDs) == 0 {
		return ret, nil
	}

	var records []database.Progress
	if err := a.DB.Where("user_id = ? AND card_uuid IN (?)", userID, cardUUIDs).Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "finding progress")
	}

	for _, r := range records {
		ret[r.CardUUID] = deck.NormalizeStatus(r.Status)
	}

	return ret, nil
}

// UpsertProgress records the status of a card for the user. The card must
// belong to the user.
func (a *App) UpsertProgress(user database.User, cardUUID string, status deck.Status) (database.Progress, error) {
	if _, err := deck.ParseStatus(string(status)); err != nil {
		return database.Progress{}, err
	}
	if _, err := getOwnedCard(a.DB, user, cardUUID); err != nil {
		return database.Progress{}, err
	}

	now := a.Clock.Now()
	p := database.Progress{
		UserID:   user.ID,
		CardUUID: cardUUID,
		Status:   string(status),
		LastSeen: now,
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	err := a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "card_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "last_seen", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return database.Progress{}, errors.Wrap(err, "upserting progress")
	}

	return p, nil
}

// CountMastered returns how many of the given cards the user mastered
func (a *App) CountMastered(userID int, cardUUIDs []string) (int64, error) {
	if len(cardUUIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := a.DB.Model(&database.Progress{}).
		Where("user_id = ? AND card_uuid IN (?) AND status = ?", userID, cardUUIDs, string(deck.StatusMastered)).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting mastered cards")
	}

	return count, nil
}
