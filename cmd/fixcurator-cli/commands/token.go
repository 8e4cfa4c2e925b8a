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

package commands

import (
	"fmt"
	"time"

	"github.com/l3montree-dev/fixcurator/middlewares"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/spf13/cobra"
)

func NewTokenCommand() *cobra.Command {
	token := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Will sign a bearer token for the api",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.NewConfig()
			if err != nil {
				return err
			}
			ttl, _ := cmd.Flags().GetDuration("ttl")

			issuer, err := middlewares.NewTokenIssuerFromConfig(cfg)
			if err != nil {
				return err
			}
			signed, err := issuer.Issue(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
	token.Flags().Duration("ttl", 24*time.Hour, "lifetime of the token")
	return token
}
