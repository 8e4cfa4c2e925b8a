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

// Package vulnfinder detects security relevant commits by their message.
package vulnfinder

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
)

var CVERegex = regexp.MustCompile(`CVE-\d{4}-\d{4,7}`)

var vulnRegex = regexp.MustCompile(`(?i)denial of service|\bXXE\b|remote code execution|\bopen redirect|OSVDB|\bvuln|\bCVE\b|\bXSS\b|\bReDoS\b|\bNVD\b|malicious|x-frame-options|attack|cross site|exploit|directory traversal|\bRCE\b|\bdos\b|\bXSRF\b|clickjack|session.fixation|hijack|advisory|insecure|security|\bcross-origin\b|unauthori[zs]ed|infinite.loop`)

type Finder struct{}

var _ shared.VulnFinder = Finder{}

func NewFinder() Finder {
	return Finder{}
}

// IsVulnMessage reports whether a commit message looks like a security fix.
func IsVulnMessage(message string) bool {
	return vulnRegex.MatchString(message) || CVERegex.MatchString(message)
}

// CVEIDs returns the distinct cve ids of the message in order of appearance.
func CVEIDs(message string) []string {
	found := CVERegex.FindAllString(message, -1)
	res := make([]string, 0, len(found))
	for _, id := range found {
		if !slices.Contains(res, id) {
			res = append(res, id)
		}
	}
	return res
}

// Hint turns a repository name into an enrichment search keyword.
func Hint(repositoryName string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(repositoryName)
}

func (f Finder) Find(ctx context.Context, dir string) ([]shared.VulnCommit, []string, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open repository")
	}

	iter, err := r.Log(&git.LogOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not read log")
	}
	defer iter.Close()

	commits := []shared.VulnCommit{}
	cveSet := map[string]struct{}{}
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// root commits have no parent to diff against
		if c.NumParents() == 0 || !IsVulnMessage(c.Message) {
			return nil
		}
		ids := CVEIDs(c.Message)
		for _, id := range ids {
			cveSet[id] = struct{}{}
		}
		commits = append(commits, shared.VulnCommit{
			Hash:       c.Hash.String(),
			Message:    strings.TrimSpace(c.Message),
			AuthoredAt: c.Author.When,
			CVEs:       ids,
		})
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not walk log")
	}

	cves := make([]string, 0, len(cveSet))
	for id := range cveSet {
		cves = append(cves, id)
	}
	slices.Sort(cves)

	slog.Info("found vulnerability commits", "dir", dir, "commits", len(commits), "cves", len(cves))
	return commits, cves, nil
}
