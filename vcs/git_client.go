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

package vcs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
)

var ErrInvalidRepositoryURL = errors.New("invalid repository url")

// GitClient clones with go-git and shells out to git for diffs,
// since go-git has no support for whitespace insensitive patches.
type GitClient struct {
	reposDir string
}

var _ shared.VCSClient = (*GitClient)(nil)

func NewGitClient(reposDir string) *GitClient {
	return &GitClient{reposDir: reposDir}
}

func NewGitClientFromConfig(cfg shared.Config) *GitClient {
	return NewGitClient(cfg.ReposDir)
}

// RepositoryLocation returns "<host><path>" of the url without a trailing ".git".
func RepositoryLocation(repositoryURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(repositoryURL))
	if err != nil {
		return "", errors.Wrap(ErrInvalidRepositoryURL, err.Error())
	}
	if u.Host == "" {
		return "", errors.Wrapf(ErrInvalidRepositoryURL, "missing host in %q", repositoryURL)
	}

	p := path.Clean("/" + strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git"))
	if p == "/" {
		return "", errors.Wrapf(ErrInvalidRepositoryURL, "missing path in %q", repositoryURL)
	}
	return u.Host + p, nil
}

// RepositoryName is the last path element of the repository location.
func RepositoryName(location string) string {
	return path.Base(location)
}

func (c *GitClient) LocalPath(repositoryURL string) (string, error) {
	location, err := RepositoryLocation(repositoryURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.reposDir, filepath.FromSlash(location)), nil
}

func (c *GitClient) CloneOrPull(ctx context.Context, repositoryURL, dir string) error {
	r, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		slog.Info("cloning repository", "url", repositoryURL, "dir", dir)
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return errors.Wrap(err, "could not create repository directory")
		}
		_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL: repositoryURL,
		})
		if err != nil {
			_ = os.RemoveAll(dir)
			return errors.Wrap(err, "could not clone repository")
		}
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "could not open repository")
	}

	w, err := r.Worktree()
	if err != nil {
		return errors.Wrap(err, "could not get worktree")
	}

	slog.Info("pulling repository", "url", repositoryURL, "dir", dir)
	err = w.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrap(err, "could not pull repository")
	}
	return nil
}

// Diff returns the first-parent patch of hash. Pathspecs use git's default
// wildcard matching, where "*" also matches "/".
func (c *GitClient) Diff(ctx context.Context, dir, hash string, pathspecs []string) (string, error) {
	args := []string{
		"diff", hash + "~", hash,
		"--ignore-all-space", "--ignore-blank-lines",
		"--diff-filter=MA", "--no-prefix", "--no-color",
	}
	if len(pathspecs) > 0 {
		args = append(args, "--")
		args = append(args, pathspecs...)
	}
	out, err := runGit(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(out, "�"), nil
}

func (c *GitClient) ChangedFiles(ctx context.Context, dir, hash string) ([]string, error) {
	out, err := runGit(ctx, dir, "diff", "--name-only", hash+"~", hash)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *GitClient) ParentHashes(ctx context.Context, dir string, hashes []string) (map[string]string, error) {
	res := make(map[string]string, len(hashes))
	if len(hashes) == 0 {
		return res, nil
	}

	args := make([]string, 0, len(hashes)+1)
	args = append(args, "rev-parse")
	for _, h := range hashes {
		args = append(args, h+"~")
	}
	out, err := runGit(ctx, dir, args...)
	if err != nil {
		return nil, err
	}

	parents := splitLines(out)
	if len(parents) != len(hashes) {
		return nil, fmt.Errorf("expected %d parent hashes, got %d", len(hashes), len(parents))
	}
	for i, h := range hashes {
		res[h] = parents[i]
	}
	return res, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	var out bytes.Buffer
	var errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		slog.Debug("git command failed", "args", args, "dir", dir, "stderr", errOut.String())
		return "", errors.Wrapf(err, "git %s: %s", args[0], strings.TrimSpace(errOut.String()))
	}
	return out.String(), nil
}

func splitLines(s string) []string {
	lines := []string{}
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
