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

	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/vcs"
	"github.com/l3montree-dev/fixcurator/vulnfinder"
	"go.uber.org/fx"
)

func newExportService(lc fx.Lifecycle, cfg shared.Config, projectRepository shared.ProjectRepository, voteRepository shared.VoteRepository, diffRepository shared.DiffRepository, vcs shared.VCSClient) *ExportService {
	s := NewExportServiceFromConfig(cfg, projectRepository, voteRepository, diffRepository, vcs)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			s.Close()
			return nil
		},
	})
	return s
}

// ServiceModule provides all service-layer constructors and the collaborators they drive
var ServiceModule = fx.Options(
	fx.Provide(fx.Annotate(vcs.NewGitClientFromConfig, fx.As(new(shared.VCSClient)))),
	fx.Provide(fx.Annotate(vulnfinder.NewFinder, fx.As(new(shared.VulnFinder)))),
	fx.Provide(fx.Annotate(NewIngestionService, fx.As(new(shared.IngestionService)))),
	fx.Provide(fx.Annotate(newExportService, fx.As(new(shared.ExportService)))),
	fx.Provide(fx.Annotate(NewProjectService, fx.As(new(shared.ProjectService)))),
	fx.Provide(fx.Annotate(NewGlobFilterService, fx.As(new(shared.GlobFilterService)))),
	fx.Provide(fx.Annotate(NewVoteService, fx.As(new(shared.VoteService)))),
	fx.Provide(fx.Annotate(NewInvitationService, fx.As(new(shared.InvitationService)))),
)
