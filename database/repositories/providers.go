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

package repositories

import (
	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/shared"
	"go.uber.org/fx"
)

// Module provides the guard and all repository constructors as their interfaces
var Module = fx.Options(
	fx.Provide(database.NewGuardFromConfig),
	fx.Provide(fx.Annotate(func(g *database.Guard) *database.Guard { return g }, fx.As(new(shared.TxRunner)))),
	fx.Provide(fx.Annotate(NewProjectRepository, fx.As(new(shared.ProjectRepository)))),
	fx.Provide(fx.Annotate(NewProjectMemberRepository, fx.As(new(shared.ProjectMemberRepository)))),
	fx.Provide(fx.Annotate(NewCommitRepository, fx.As(new(shared.CommitRepository)))),
	fx.Provide(fx.Annotate(NewUnmatchedCommitRepository, fx.As(new(shared.UnmatchedCommitRepository)))),
	fx.Provide(fx.Annotate(NewDiffRepository, fx.As(new(shared.DiffRepository)))),
	fx.Provide(fx.Annotate(NewCVERepository, fx.As(new(shared.CVERepository)))),
	fx.Provide(fx.Annotate(NewVoteRepository, fx.As(new(shared.VoteRepository)))),
	fx.Provide(fx.Annotate(NewInvitationRepository, fx.As(new(shared.InvitationRepository)))),
	fx.Provide(fx.Annotate(NewIngestionJobRepository, fx.As(new(shared.IngestionJobRepository)))),
)
