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

type Diff struct {
	Model
	CommitID  int64  `json:"commitId" gorm:"not null;index"`
	Commit    Commit `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Filepath  string `json:"filepath" gorm:"type:text;not null"`
	Extension string `json:"extension" gorm:"type:text;not null"`
	Suitable  bool   `json:"suitable" gorm:"not null;index"`
	// Content is the xz compressed section of the commit patch.
	Content []byte `json:"-" gorm:"not null"`
}

func (m Diff) TableName() string {
	return "diffs"
}

type VoteChoice int8

const (
	VoteNegative VoteChoice = -1
	VoteNeutral  VoteChoice = 0
	VotePositive VoteChoice = 1
)

func (c VoteChoice) Valid() bool {
	return c >= VoteNegative && c <= VotePositive
}

type Vote struct {
	Model
	UserID string     `json:"userId" gorm:"type:text;not null;uniqueIndex:idx_votes_user_diff"`
	DiffID int64      `json:"diffId" gorm:"not null;uniqueIndex:idx_votes_user_diff"`
	Diff   Diff       `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Choice VoteChoice `json:"choice" gorm:"not null"`
}

func (m Vote) TableName() string {
	return "votes"
}
