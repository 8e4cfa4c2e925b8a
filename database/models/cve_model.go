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

	"gorm.io/datatypes"
)

// CVE rows are shared between projects and outlive them.
type CVE struct {
	CVE         string                      `json:"cve" gorm:"primaryKey;not null;type:text;"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
	Summary     string                      `json:"summary" gorm:"type:text;"`
	Description string                      `json:"description" gorm:"type:text;"`
	CVSS        *float32                    `json:"cvss" gorm:"type:decimal(4,2);"`
	Vector      string                      `json:"vector" gorm:"type:text;"`
	Weaknesses  datatypes.JSONSlice[string] `json:"weaknesses"`
}

func (m CVE) TableName() string {
	return "cves"
}

// IsBare reports whether the row carries no metadata yet.
func (m CVE) IsBare() bool {
	return m.Description == "" && m.Summary == "" && m.CVSS == nil
}
