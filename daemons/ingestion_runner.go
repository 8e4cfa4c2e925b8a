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

package daemons

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
)

const queueSize = 1024

// IngestionRunner executes persisted ingestion jobs on a fixed number of workers.
// Jobs survive restarts: pending jobs are picked up again and running ones are reset on start.
type IngestionRunner struct {
	jobRepository    shared.IngestionJobRepository
	ingestionService shared.IngestionService

	workers        int
	rescanInterval time.Duration
	now            func() time.Time

	queue  chan uuid.UUID
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

var _ shared.IngestionQueue = (*IngestionRunner)(nil)
var _ shared.DaemonRunner = (*IngestionRunner)(nil)

func NewIngestionRunner(jobRepository shared.IngestionJobRepository, ingestionService shared.IngestionService, workers int, rescanInterval time.Duration) *IngestionRunner {
	if workers <= 0 {
		workers = 1
	}
	return &IngestionRunner{
		jobRepository:    jobRepository,
		ingestionService: ingestionService,
		workers:          workers,
		rescanInterval:   rescanInterval,
		now:              time.Now,
		queue:            make(chan uuid.UUID, queueSize),
	}
}

func NewIngestionRunnerFromConfig(cfg shared.Config, jobRepository shared.IngestionJobRepository, ingestionService shared.IngestionService) *IngestionRunner {
	return NewIngestionRunner(jobRepository, ingestionService, cfg.IngestionWorkers, time.Minute)
}

func (runner *IngestionRunner) Submit(ctx context.Context, req shared.IngestionRequest) (models.IngestionJob, error) {
	mode := req.FilterMode
	if mode == "" {
		mode = models.FilterModeExtension
	}
	job := models.IngestionJob{
		ID:            uuid.New(),
		UserID:        req.UserID,
		RepositoryURL: req.RepositoryURL,
		Name:          req.Name,
		FilterMode:    mode,
		Extensions:    req.Extensions,
		GlobPatterns:  req.GlobPatterns,
		Status:        models.JobStatusPending,
	}
	if err := runner.jobRepository.Create(ctx, &job); err != nil {
		return models.IngestionJob{}, errors.Wrap(err, "could not create ingestion job")
	}
	runner.enqueue(job.ID)
	slog.Info("ingestion job submitted", "jobID", job.ID, "repository", job.RepositoryURL)
	return job, nil
}

func (runner *IngestionRunner) Job(ctx context.Context, id uuid.UUID) (models.IngestionJob, error) {
	return runner.jobRepository.Read(ctx, id)
}

// enqueue never blocks, a full queue is drained by the next rescan.
func (runner *IngestionRunner) enqueue(id uuid.UUID) {
	select {
	case runner.queue <- id:
	default:
		slog.Warn("ingestion queue is full, job will be picked up by the next rescan", "jobID", id)
	}
}

func (runner *IngestionRunner) Start() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	runner.cancel = cancel

	if reset, err := runner.jobRepository.ResetRunning(ctx); err != nil {
		monitoring.Alert("could not reset interrupted ingestion jobs", err)
	} else if reset > 0 {
		slog.Info("reset interrupted ingestion jobs", "amount", reset)
	}
	runner.rescan(ctx)

	for range runner.workers {
		runner.wg.Add(1)
		go runner.work(ctx)
	}

	runner.wg.Add(1)
	go func() {
		defer runner.wg.Done()
		ticker := time.NewTicker(runner.rescanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runner.rescan(ctx)
			}
		}
	}()
	slog.Info("ingestion runner started", "workers", runner.workers)
}

// Stop waits for the running jobs. Jobs interrupted by the shutdown stay running and are reset on the next start.
func (runner *IngestionRunner) Stop() {
	runner.mu.Lock()
	cancel := runner.cancel
	runner.cancel = nil
	runner.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	runner.wg.Wait()
	slog.Info("ingestion runner stopped")
}

func (runner *IngestionRunner) rescan(ctx context.Context) {
	jobs, err := runner.jobRepository.FindByStatus(ctx, models.JobStatusPending)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("could not fetch pending ingestion jobs", "err", err)
		}
		return
	}
	for _, job := range jobs {
		runner.enqueue(job.ID)
	}
}

func (runner *IngestionRunner) work(ctx context.Context) {
	defer runner.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-runner.queue:
			runner.process(ctx, id)
		}
	}
}

func (runner *IngestionRunner) process(ctx context.Context, id uuid.UUID) {
	claimed, err := runner.jobRepository.Claim(ctx, id, runner.now())
	if err != nil {
		slog.Error("could not claim ingestion job", "jobID", id, "err", err)
		return
	}
	if !claimed {
		// another worker was faster or the job is done already
		return
	}

	job, err := runner.jobRepository.Read(ctx, id)
	if err != nil {
		slog.Error("could not read claimed ingestion job", "jobID", id, "err", err)
		return
	}

	projectID, err := runner.ingest(ctx, job)
	if err != nil && ctx.Err() != nil {
		slog.Info("ingestion interrupted by shutdown", "jobID", id)
		return
	}

	finishedAt := runner.now()
	job.FinishedAt = &finishedAt
	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = shared.Ptr(err.Error())
		monitoring.AlertWithTags("ingestion failed", err, map[string]string{
			"jobID":      id.String(),
			"repository": job.RepositoryURL,
		})
	} else {
		job.Status = models.JobStatusSucceeded
		job.ProjectID = &projectID
	}
	monitoring.IngestionJobsTotal.WithLabelValues(string(job.Status)).Inc()

	if err := runner.jobRepository.Save(ctx, &job); err != nil {
		slog.Error("could not store ingestion job result", "jobID", id, "status", job.Status, "err", err)
	}
}

func (runner *IngestionRunner) ingest(ctx context.Context, job models.IngestionJob) (projectID int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.RecoverAndAlert("ingestion panicked", r)
			err = fmt.Errorf("ingestion panicked: %v", r)
		}
	}()
	return runner.ingestionService.Ingest(ctx, shared.IngestionRequest{
		UserID:        job.UserID,
		RepositoryURL: job.RepositoryURL,
		Name:          job.Name,
		FilterMode:    job.FilterMode,
		Extensions:    job.Extensions,
		GlobPatterns:  job.GlobPatterns,
	})
}
