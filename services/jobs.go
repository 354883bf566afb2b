package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	linq "github.com/ahmetb/go-linq"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
	jobState "primerdesign/api/models/constants/job-state"
	responseStatus "primerdesign/api/models/constants/response-status"
	"primerdesign/api/services/design"
)

var ErrNoIdentifiers = errors.New("a batch needs at least one identifier")

// Designer is the part of the orchestrator batch jobs depend on.
type Designer interface {
	Design(ctx context.Context, target string, params models.DesignParameters) (*models.DesignResult, error)
}

type (
	JobItemResult struct {
		Identifier string                   `json:"identifier"`
		Status     constants.ResponseStatus `json:"status"`
		Message    string                   `json:"message,omitempty"`
		Result     *models.DesignResult     `json:"result,omitempty"`
	}

	DesignJob struct {
		Id          uuid.UUID               `json:"id"`
		State       constants.JobState      `json:"state"`
		Message     string                  `json:"message"`
		Identifiers []string                `json:"identifiers"`
		Parameters  models.DesignParameters `json:"parameters"`
		Results     []JobItemResult         `json:"results"`
		CreatedAt   string                  `json:"createdAt"`
		UpdatedAt   string                  `json:"updatedAt"`

		finishedAt time.Time
	}

	// JobService runs batch designs in the background, at most
	// concurrency identifiers at a time per job.
	JobService struct {
		designer    Designer
		concurrency int
		logger      *zap.Logger

		mu   sync.RWMutex
		jobs map[string]*DesignJob
		wg   sync.WaitGroup
	}
)

func NewJobService(designer Designer, concurrency int, logger *zap.Logger) *JobService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &JobService{
		designer:    designer,
		concurrency: concurrency,
		logger:      logger.Named("jobs"),
		jobs:        make(map[string]*DesignJob),
	}
}

// Submit validates the batch, queues it and returns a snapshot of the job.
func (s *JobService) Submit(identifiers []string, params models.DesignParameters) (DesignJob, error) {
	if len(identifiers) == 0 {
		return DesignJob{}, ErrNoIdentifiers
	}
	if err := params.Validate(); err != nil {
		return DesignJob{}, err
	}

	now := time.Now().String()
	job := &DesignJob{
		Id:          uuid.New(),
		State:       jobState.Queued,
		Identifiers: append([]string(nil), identifiers...),
		Parameters:  params,
		Results:     make([]JobItemResult, len(identifiers)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, id := range identifiers {
		job.Results[i] = JobItemResult{Identifier: id}
	}

	s.mu.Lock()
	s.jobs[job.Id.String()] = job
	snapshot := copyJob(job)
	s.mu.Unlock()

	s.logger.Info("batch queued", zap.String("job", job.Id.String()), zap.Int("identifiers", len(identifiers)))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job)
	}()
	return snapshot, nil
}

func (s *JobService) run(job *DesignJob) {
	s.update(job, func(j *DesignJob) { j.State = jobState.Running })

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, identifier := range job.Identifiers {
		i, identifier := i, identifier
		g.Go(func() error {
			result, err := s.designer.Design(context.Background(), identifier, job.Parameters)

			item := JobItemResult{Identifier: identifier, Status: design.ResponseStatusFor(err), Result: result}
			if err != nil {
				item.Message = err.Error()
			}
			s.update(job, func(j *DesignJob) { j.Results[i] = item })
			return nil
		})
	}
	_ = g.Wait()

	var final constants.JobState
	s.update(job, func(j *DesignJob) {
		succeeded := linq.From(j.Results).CountWithT(func(r JobItemResult) bool {
			return r.Status == responseStatus.Success
		})
		fetchErrors := linq.From(j.Results).CountWithT(func(r JobItemResult) bool {
			return r.Status == responseStatus.SequenceError
		})

		j.State = jobState.Done
		if fetchErrors == len(j.Results) {
			j.State = jobState.Error
		}
		j.Message = fmt.Sprintf("%d of %d identifiers designed", succeeded, len(j.Results))
		j.finishedAt = time.Now()
		final = j.State
	})

	s.logger.Info("batch finished", zap.String("job", job.Id.String()), zap.String("state", string(final)))
}

func (s *JobService) update(job *DesignJob, mutate func(*DesignJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(job)
	job.UpdatedAt = time.Now().String()
}

func (s *JobService) Get(id string) (DesignJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return DesignJob{}, false
	}
	return copyJob(job), true
}

// List returns every job, oldest first.
func (s *JobService) List() []DesignJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]DesignJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, copyJob(job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt != jobs[j].CreatedAt {
			return jobs[i].CreatedAt < jobs[j].CreatedAt
		}
		return jobs[i].Id.String() < jobs[j].Id.String()
	})
	return jobs
}

// PruneFinished evicts jobs that finished before cutoff and returns how
// many were removed. Queued and running jobs are kept.
func (s *JobService) PruneFinished(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, job := range s.jobs {
		if jobState.IsFinished(job.State) && job.finishedAt.Before(cutoff) {
			delete(s.jobs, id)
			pruned++
		}
	}
	return pruned
}

// Wait blocks until every submitted job has finished.
func (s *JobService) Wait() {
	s.wg.Wait()
}

func copyJob(job *DesignJob) DesignJob {
	c := *job
	c.Identifiers = append([]string(nil), job.Identifiers...)
	c.Results = append([]JobItemResult(nil), job.Results...)
	return c
}
