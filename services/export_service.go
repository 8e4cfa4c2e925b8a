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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/patch"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/utils"
	"github.com/pkg/errors"
)

// the statement shape stays constant, the id list is padded to this length
const exportBatchSize = 50

const maxActiveExports = 256

type exportVotes struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

type exportFile struct {
	patch.FileAnnotation
	Votes exportVotes `json:"votes"`
}

type exportCommit struct {
	CommitHash string       `json:"commit_hash"`
	ParentHash string       `json:"parent_hash"`
	Files      []exportFile `json:"files"`
}

type exportEntry struct {
	handle shared.ExportHandle
	path   string
}

type ExportService struct {
	projectRepository shared.ProjectRepository
	voteRepository    shared.VoteRepository
	diffRepository    shared.DiffRepository
	vcs               shared.VCSClient

	exportsDir string
	lifetime   time.Duration
	registry   *expirable.LRU[uuid.UUID, exportEntry]
}

var _ shared.ExportService = (*ExportService)(nil)

func NewExportService(projectRepository shared.ProjectRepository, voteRepository shared.VoteRepository, diffRepository shared.DiffRepository, vcs shared.VCSClient, exportsDir string, lifetime time.Duration) *ExportService {
	s := &ExportService{
		projectRepository: projectRepository,
		voteRepository:    voteRepository,
		diffRepository:    diffRepository,
		vcs:               vcs,
		exportsDir:        exportsDir,
		lifetime:          lifetime,
	}
	s.registry = expirable.NewLRU(maxActiveExports, s.onExpire, lifetime)
	return s
}

func NewExportServiceFromConfig(cfg shared.Config, projectRepository shared.ProjectRepository, voteRepository shared.VoteRepository, diffRepository shared.DiffRepository, vcs shared.VCSClient) *ExportService {
	return NewExportService(projectRepository, voteRepository, diffRepository, vcs, cfg.ExportsDir, cfg.ExportLifetime)
}

func (s *ExportService) onExpire(id uuid.UUID, entry exportEntry) {
	monitoring.ExportsActive.Dec()
	if err := os.Remove(entry.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not remove expired export", "id", id, "path", entry.path, "err", err)
		return
	}
	slog.Debug("removed expired export", "id", id, "path", entry.path)
}

// Close removes every registered document.
func (s *ExportService) Close() {
	s.registry.Purge()
}

func (s *ExportService) Export(ctx context.Context, projectID int64) (string, error) {
	return s.export(ctx, projectID, uuid.New())
}

func (s *ExportService) CreateExport(ctx context.Context, projectID int64) (shared.ExportHandle, error) {
	id := uuid.New()
	path, err := s.export(ctx, projectID, id)
	if err != nil {
		return shared.ExportHandle{}, err
	}

	handle := shared.ExportHandle{
		ID:        id,
		Filename:  filepath.Base(path),
		ExpiresAt: time.Now().Add(s.lifetime),
	}
	s.registry.Add(id, exportEntry{handle: handle, path: path})
	monitoring.ExportsActive.Inc()
	return handle, nil
}

func (s *ExportService) Open(id uuid.UUID) (io.ReadCloser, shared.ExportHandle, error) {
	entry, ok := s.registry.Get(id)
	if !ok {
		return nil, shared.ExportHandle{}, shared.ErrNotFound
	}
	f, err := os.Open(entry.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ExportHandle{}, shared.ErrNotFound
		}
		return nil, shared.ExportHandle{}, errors.Wrap(err, "could not open export")
	}
	return f, entry.handle, nil
}

func exportFilename(projectName string, now time.Time, id uuid.UUID) string {
	return slug.Make(projectName) + "_" + now.Format("2006-01-02_15-04-05") + "_" + id.String()[:8] + ".json"
}

func (s *ExportService) export(ctx context.Context, projectID int64, id uuid.UUID) (path string, err error) {
	start := time.Now()
	project, err := s.projectRepository.Read(ctx, projectID)
	if err != nil {
		return "", err
	}

	tallies, err := s.voteRepository.TalliesByProject(ctx, projectID)
	if err != nil {
		return "", errors.Wrap(err, "could not aggregate votes")
	}

	talliesByDiff := make(map[int64]shared.DiffTally, len(tallies))
	for _, t := range tallies {
		talliesByDiff[t.DiffID] = t
	}
	diffIDs := utils.Map(tallies, func(t shared.DiffTally) int64 { return t.DiffID })
	hashes := utils.Map(utils.UniqBy(tallies, func(t shared.DiffTally) string { return t.CommitHash }), func(t shared.DiffTally) string {
		return t.CommitHash
	})

	parents, err := s.vcs.ParentHashes(ctx, project.Repository, hashes)
	if err != nil {
		return "", errors.Wrap(err, "could not resolve parent hashes")
	}

	if err := os.MkdirAll(s.exportsDir, 0o755); err != nil {
		return "", errors.Wrap(err, "could not create exports directory")
	}
	path = filepath.Join(s.exportsDir, exportFilename(project.Name, start, id))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "could not create export file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "could not close export file")
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := &exportWriter{w: bufio.NewWriter(f)}
	w.begin()

	var current *exportCommit
	for _, chunk := range utils.Chunk(diffIDs, exportBatchSize) {
		batch := make([]int64, exportBatchSize)
		copy(batch, chunk)

		contents, err := s.diffRepository.ContentsByIDs(ctx, batch)
		if err != nil {
			return "", errors.Wrap(err, "could not fetch diff contents")
		}

		for _, c := range contents {
			if current == nil || current.CommitHash != c.CommitHash {
				w.commit(current)
				current = &exportCommit{
					CommitHash: c.CommitHash,
					ParentHash: parents[c.CommitHash],
					Files:      []exportFile{},
				}
			}

			annotation, err := annotate(c.Content)
			if err != nil {
				monitoring.DiffParseErrorsAmount.Inc()
				slog.Warn("could not annotate diff, skipping it", "diffID", c.ID, "err", err)
				continue
			}
			t := talliesByDiff[c.ID]
			current.Files = append(current.Files, exportFile{
				FileAnnotation: annotation,
				Votes:          exportVotes{Positive: t.Positive, Negative: t.Negative, Neutral: t.Neutral},
			})
		}
	}
	w.commit(current)
	if err := w.end(); err != nil {
		return "", errors.Wrap(err, "could not write export file")
	}

	monitoring.ExportDuration.Observe(time.Since(start).Seconds())
	slog.Info("exported project", "projectID", projectID, "diffs", len(diffIDs), "commits", len(hashes), "path", path)
	return path, nil
}

func annotate(content []byte) (patch.FileAnnotation, error) {
	raw, err := patch.Decompress(content)
	if err != nil {
		return patch.FileAnnotation{}, err
	}
	return patch.ParseHunks(raw)
}

// exportWriter streams a json array of commits and keeps the first error.
type exportWriter struct {
	w       *bufio.Writer
	written int
	err     error
}

func (e *exportWriter) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *exportWriter) begin() {
	e.write([]byte("[\n"))
}

func (e *exportWriter) commit(c *exportCommit) {
	if c == nil || len(c.Files) == 0 || e.err != nil {
		return
	}
	b, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		e.err = err
		return
	}
	if e.written > 0 {
		e.write([]byte(",\n"))
	}
	e.write(b)
	e.written++
}

func (e *exportWriter) end() error {
	e.write([]byte("\n]"))
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
