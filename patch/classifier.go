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

package patch

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

const sectionMarker = "diff"

var diffHeaderRegex = regexp.MustCompile(`^diff --git (?:a/)?(\S+) (?:b/)?(\S+)$`)

type Section struct {
	Filepath  string
	Extension string
	Suitable  bool
	Raw       string
}

// SplitPatch splits a multi file patch into its file sections.
// Everything in front of the first section is dropped.
func SplitPatch(patch string) []string {
	sections := []string{}
	var current *strings.Builder

	for line := range strings.Lines(patch) {
		if strings.HasPrefix(line, sectionMarker) {
			if current != nil {
				sections = append(sections, current.String())
			}
			current = &strings.Builder{}
		}
		if current == nil {
			continue
		}
		current.WriteString(line)
	}
	if current != nil {
		sections = append(sections, current.String())
	}
	return sections
}

// TargetFilepath returns the path of the file after the change.
func TargetFilepath(section string) string {
	var header, minus, plus string
	for line := range strings.Lines(section) {
		line = strings.TrimRight(line, "\r\n")
		switch {
		case header == "" && strings.HasPrefix(line, "diff --git "):
			if m := diffHeaderRegex.FindStringSubmatch(line); m != nil {
				header = m[2]
			}
		case minus == "" && strings.HasPrefix(line, "--- "):
			minus = strings.TrimPrefix(strings.TrimPrefix(line, "--- "), "a/")
		case plus == "" && strings.HasPrefix(line, "+++ "):
			plus = strings.TrimPrefix(strings.TrimPrefix(line, "+++ "), "b/")
		case strings.HasPrefix(line, "@@"):
			// headers are done
			return firstRealPath(plus, minus, header)
		}
	}
	return firstRealPath(plus, minus, header)
}

func firstRealPath(paths ...string) string {
	for _, p := range paths {
		p = strings.TrimSuffix(p, "\t")
		if p != "" && p != devNull {
			return p
		}
	}
	return ""
}

// Extension returns the lowercased extension of the file without the leading dot.
func Extension(filepath string) string {
	return NormalizeExtension(path.Ext(path.Base(filepath)))
}

func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func NormalizeExtensions(exts []string) []string {
	res := make([]string, 0, len(exts))
	for _, e := range exts {
		n := NormalizeExtension(e)
		if n == "" || slices.Contains(res, n) {
			continue
		}
		res = append(res, n)
	}
	slices.Sort(res)
	return res
}

// IsSuitable reports whether a diff with the given extension passes the filter.
// An empty filter accepts everything, and so does an empty extension.
func IsSuitable(ext string, filter []string) bool {
	if len(filter) == 0 || ext == "" {
		return true
	}
	return slices.Contains(filter, ext)
}

type Classifier struct {
	extensions []string
}

func NewClassifier(extensions []string) Classifier {
	return Classifier{extensions: NormalizeExtensions(extensions)}
}

func (c Classifier) Classify(patch string) []Section {
	raw := SplitPatch(patch)
	sections := make([]Section, 0, len(raw))
	for _, r := range raw {
		fp := TargetFilepath(r)
		ext := Extension(fp)
		sections = append(sections, Section{
			Filepath:  fp,
			Extension: ext,
			Suitable:  IsSuitable(ext, c.extensions),
			Raw:       r,
		})
	}
	return sections
}

// GlobMatcher matches changed filepaths of a commit against shell patterns.
// A "*" matches across directory separators.
type GlobMatcher struct {
	patterns []string
	globs    []glob.Glob
}

func NewGlobMatcher(patterns []string) (GlobMatcher, error) {
	m := GlobMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return GlobMatcher{}, errors.Wrapf(err, "invalid glob pattern %q", p)
		}
		m.patterns = append(m.patterns, p)
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func (m GlobMatcher) Patterns() []string {
	return m.patterns
}

func (m GlobMatcher) Empty() bool {
	return len(m.globs) == 0
}

// MatchAny reports whether at least one of the filepaths matches a pattern.
func (m GlobMatcher) MatchAny(filepaths []string) bool {
	for _, fp := range filepaths {
		for _, g := range m.globs {
			if g.Match(fp) {
				return true
			}
		}
	}
	return false
}
