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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrParse = errors.New("could not parse diff")

var (
	// the header pair is inverted on purpose: existing exports use "+++" as the old path
	oldFilenameRegex = regexp.MustCompile(`(?m)^\+\+\+ (?:a/)?(.*)$`)
	newFilenameRegex = regexp.MustCompile(`(?m)^--- (?:b/)?(.*)$`)
	hunkHeaderRegex  = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
)

const devNull = "/dev/null"

// FileAnnotation is the line number annotation of a single file diff.
type FileAnnotation struct {
	OldFilepath   *string  `json:"old_filepath"`
	NewFilepath   *string  `json:"new_filepath"`
	RemovedRanges []string `json:"removed_ranges"`
	AddedRanges   []string `json:"added_ranges"`
}

type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []string
}

// BodyCounts returns the number of old and new lines the hunk body covers.
func (h Hunk) BodyCounts() (int, int) {
	oldCount, newCount := 0, 0
	for _, line := range h.Lines {
		switch marker(line) {
		case '-':
			oldCount++
		case '+':
			newCount++
		default:
			oldCount++
			newCount++
		}
	}
	return oldCount, newCount
}

func FormatRange(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

func marker(line string) byte {
	if line == "" {
		// some tools strip the trailing whitespace of empty context lines
		return ' '
	}
	return line[0]
}

func parseFilepath(re *regexp.Regexp, diff string) (*string, bool) {
	m := re.FindStringSubmatch(diff)
	if m == nil {
		return nil, false
	}
	p := strings.TrimRight(m[1], "\r")
	// git appends a tab if the path contains whitespace
	p = strings.TrimSuffix(p, "\t")
	if p == devNull {
		return nil, true
	}
	return &p, true
}

func firstNonNil(paths ...*string) *string {
	for _, p := range paths {
		if p != nil {
			return p
		}
	}
	return nil
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func parseHunkHeader(line string) (Hunk, error) {
	m := hunkHeaderRegex.FindStringSubmatch(line)
	if m == nil {
		return Hunk{}, errors.Wrapf(ErrParse, "invalid hunk header %q", line)
	}

	var h Hunk
	var err error
	if h.OldStart, err = strconv.Atoi(m[1]); err != nil {
		return Hunk{}, errors.Wrap(ErrParse, err.Error())
	}
	// a missing count means a single line
	if h.OldCount, err = atoiDefault(m[2], 1); err != nil {
		return Hunk{}, errors.Wrap(ErrParse, err.Error())
	}
	if h.NewStart, err = strconv.Atoi(m[3]); err != nil {
		return Hunk{}, errors.Wrap(ErrParse, err.Error())
	}
	if h.NewCount, err = atoiDefault(m[4], 1); err != nil {
		return Hunk{}, errors.Wrap(ErrParse, err.Error())
	}
	return h, nil
}

// SplitHunks returns all hunks of a single file diff in order.
func SplitHunks(diff string) ([]Hunk, error) {
	lines := strings.Split(strings.ReplaceAll(diff, "\r\n", "\n"), "\n")

	hunks := []Hunk{}
	var current *Hunk
	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			hunks = append(hunks, h)
			current = &hunks[len(hunks)-1]
			continue
		}
		if current == nil {
			// file header
			continue
		}
		if strings.HasPrefix(line, `\`) {
			// "\ No newline at end of file"
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	// strings.Split leaves an empty element behind the final newline
	if current != nil && len(current.Lines) > 0 && current.Lines[len(current.Lines)-1] == "" {
		oldCount, newCount := current.BodyCounts()
		if oldCount > current.OldCount || newCount > current.NewCount {
			current.Lines = current.Lines[:len(current.Lines)-1]
		}
	}

	return hunks, nil
}

// ParseHunks reconstructs the removed and added line ranges of a single file diff.
func ParseHunks(diff string) (FileAnnotation, error) {
	oldPath, ok := parseFilepath(oldFilenameRegex, diff)
	if !ok {
		return FileAnnotation{}, errors.Wrap(ErrParse, "missing +++ header")
	}
	newPath, ok := parseFilepath(newFilenameRegex, diff)
	if !ok {
		return FileAnnotation{}, errors.Wrap(ErrParse, "missing --- header")
	}

	res := FileAnnotation{
		OldFilepath:   oldPath,
		NewFilepath:   newPath,
		RemovedRanges: []string{},
		AddedRanges:   []string{},
	}

	hunks, err := SplitHunks(diff)
	if err != nil {
		return FileAnnotation{}, err
	}
	if len(hunks) == 0 {
		return res, nil
	}

	first := hunks[0]
	if first.OldStart == 0 && first.OldCount == 0 {
		// wholly added file, the only real path is the one of the +++ header
		res.NewFilepath = firstNonNil(newPath, oldPath)
		res.OldFilepath = nil
		res.AddedRanges = append(res.AddedRanges, FormatRange(first.NewStart, first.NewStart+first.NewCount-1))
		return res, nil
	}
	if first.NewStart == 0 && first.NewCount == 0 {
		// wholly removed file
		res.OldFilepath = firstNonNil(oldPath, newPath)
		res.NewFilepath = nil
		res.RemovedRanges = append(res.RemovedRanges, FormatRange(first.OldStart, first.OldStart+first.OldCount-1))
		return res, nil
	}

	for _, h := range hunks {
		oldLine := h.OldStart
		newLine := h.NewStart

		prev := byte(' ')
		occurrences := 0

		flush := func() {
			switch prev {
			case '-':
				res.RemovedRanges = append(res.RemovedRanges, FormatRange(oldLine-occurrences, oldLine-1))
			case '+':
				res.AddedRanges = append(res.AddedRanges, FormatRange(newLine-occurrences, newLine-1))
			}
		}

		for _, line := range h.Lines {
			m := marker(line)
			if m != prev {
				flush()
				prev = m
				occurrences = 1
			} else {
				occurrences++
			}

			switch m {
			case '-':
				oldLine++
			case '+':
				newLine++
			default:
				oldLine++
				newLine++
			}
		}
		// a hunk may end inside a run
		flush()
	}

	return res, nil
}
