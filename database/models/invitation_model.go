// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package models

import (
	"time"

	"github.com/google/uuid"
)

type Invitation struct {
	Token      uuid.UUID  `json:"token" gorm:"primaryKey;type:uuid"`
	ProjectID  int64      `json:"projectId" gorm:"not null;index"`
	Project    Project    `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	CreatedBy  string     `json:"createdBy" gorm:"type:text;not null"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	AcceptedBy *string    `json:"acceptedBy" gorm:"type:text"`
	AcceptedAt *time.Time `json:"acceptedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (m Invitation) TableName() string {
	return "invitations"
}

func (m Invitation) IsUsable(now time.Time) bool {
	return m.AcceptedBy == nil && now.Before(m.ExpiresAt)
}
