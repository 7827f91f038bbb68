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

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;uniqueIndex"`
	Email       NullString `gorm:"uniqueIndex"`
	Password    NullString `json:"-"`
	TokensUsed  int        `json:"-" gorm:"not null;default:0"`
	LastLoginAt *time.Time `json:"-"`
}

// Card is a model for a flashcard. A deck exists only as the set of cards
// sharing a deck name for a user.
type Card struct {
	Model
	UUID     string `json:"uuid" gorm:"type:text;uniqueIndex"`
	UserID   int    `json:"user_id" gorm:"index:idx_cards_user_deck"`
	Deck     string `json:"deck" gorm:"index:idx_cards_user_deck"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Progress is the study status of a card for a user
type Progress struct {
	Model
	UserID   int       `gorm:"uniqueIndex:idx_progress_user_card"`
	CardUUID string    `gorm:"type:text;uniqueIndex:idx_progress_user_card"`
	Status   string    `gorm:"type:text;not null;default:'new'"`
	LastSeen time.Time `gorm:"not null"`
}

// TableName overrides the pluralized table name
func (Progress) TableName() string {
	return "progress"
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}
