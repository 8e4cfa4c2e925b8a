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
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
)

const invitationLifetime = 7 * 24 * time.Hour

type InvitationService struct {
	txRunner                shared.TxRunner
	invitationRepository    shared.InvitationRepository
	projectMemberRepository shared.ProjectMemberRepository
	now                     func() time.Time
}

var _ shared.InvitationService = (*InvitationService)(nil)

func NewInvitationService(txRunner shared.TxRunner, invitationRepository shared.InvitationRepository, projectMemberRepository shared.ProjectMemberRepository) *InvitationService {
	return &InvitationService{
		txRunner:                txRunner,
		invitationRepository:    invitationRepository,
		projectMemberRepository: projectMemberRepository,
		now:                     time.Now,
	}
}

func (s *InvitationService) Invite(ctx context.Context, projectID int64, createdBy string) (models.Invitation, error) {
	invitation := models.Invitation{
		Token:     uuid.New(),
		ProjectID: projectID,
		CreatedBy: createdBy,
		ExpiresAt: s.now().Add(invitationLifetime),
	}
	if err := s.invitationRepository.Create(ctx, &invitation); err != nil {
		return models.Invitation{}, errors.Wrap(err, "could not create invitation")
	}
	return invitation, nil
}

// Accept turns the user into a contributor of the inviting project. A token can be used once.
func (s *InvitationService) Accept(ctx context.Context, token uuid.UUID, userID string) (models.ProjectMember, error) {
	var member models.ProjectMember
	err := s.txRunner.Transaction(ctx, func(ctx context.Context) error {
		invitation, err := s.invitationRepository.Read(ctx, token)
		if err != nil {
			return err
		}
		now := s.now()
		if !invitation.IsUsable(now) {
			return shared.ErrInviteUsed
		}

		if _, err := s.projectMemberRepository.Find(ctx, invitation.ProjectID, userID); err == nil {
			return shared.ErrAlreadyMember
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		member = models.ProjectMember{
			UserID:    userID,
			ProjectID: invitation.ProjectID,
			Role:      models.RoleContributor,
		}
		if err := s.projectMemberRepository.Create(ctx, &member); err != nil {
			return err
		}

		invitation.AcceptedBy = &userID
		invitation.AcceptedAt = &now
		return s.invitationRepository.Save(ctx, &invitation)
	})
	if err != nil {
		return models.ProjectMember{}, err
	}
	slog.Info("invitation accepted", "projectID", member.ProjectID, "userID", userID)
	return member, nil
}
