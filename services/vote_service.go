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

package services

import (
	"context"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
)

var ErrInvalidVote = errors.Wrap(shared.ErrInvalidInput, "invalid vote choice")

type VoteService struct {
	diffRepository shared.DiffRepository
	voteRepository shared.VoteRepository
}

var _ shared.VoteService = (*VoteService)(nil)

func NewVoteService(diffRepository shared.DiffRepository, voteRepository shared.VoteRepository) *VoteService {
	return &VoteService{
		diffRepository: diffRepository,
		voteRepository: voteRepository,
	}
}

// Vote replaces an earlier choice of the same user. Only suitable diffs of the project can be voted on.
func (s *VoteService) Vote(ctx context.Context, projectID, diffID int64, userID string, choice models.VoteChoice) (models.Vote, error) {
	if !choice.Valid() {
		return models.Vote{}, ErrInvalidVote
	}
	diff, err := s.diffRepository.ReadInProject(ctx, projectID, diffID)
	if err != nil {
		return models.Vote{}, err
	}
	if !diff.Suitable {
		return models.Vote{}, shared.ErrNotFound
	}

	vote := models.Vote{UserID: userID, DiffID: diff.ID, Choice: choice}
	if err := s.voteRepository.Upsert(ctx, &vote); err != nil {
		return models.Vote{}, errors.Wrap(err, "could not store vote")
	}
	return vote, nil
}
