package sanitation

import (
	"context"
	"time"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"primerdesign/api/models"
	esRepo "primerdesign/api/repositories/elasticsearch"
)

// jobPruningInterval is how often finished batch jobs are swept.
const jobPruningInterval = 10 * time.Minute

type (
	// JobPruner evicts finished batch jobs.
	JobPruner interface {
		PruneFinished(cutoff time.Time) int
	}

	SanitationService struct {
		Initialized bool
		Es7Client   *es7.Client // nil skips sequence pruning
		Jobs        JobPruner
		Config      *models.Config

		scheduler *gocron.Scheduler
		logger    *zap.Logger
	}
)

func NewSanitationService(es *es7.Client, jobs JobPruner, cfg *models.Config, logger *zap.Logger) *SanitationService {
	ss := &SanitationService{
		Initialized: false,
		Es7Client:   es,
		Jobs:        jobs,
		Config:      cfg,
		logger:      logger.Named("sanitation"),
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	if ss.Initialized {
		return
	}

	ss.scheduler = gocron.NewScheduler(time.UTC)

	// persisted sequences go stale as reference assemblies are updated;
	// prune them daily so the cache refetches
	if ss.Es7Client != nil {
		if _, err := ss.scheduler.Every(1).Day().At("04:00").Do(func() { // 12am EST
			ss.PruneSequences(context.Background())
		}); err != nil {
			ss.logger.Error("cannot schedule sequence pruning", zap.Error(err))
			return
		}
	}

	if ss.Jobs != nil {
		if _, err := ss.scheduler.Every(jobPruningInterval).Do(func() {
			ss.PruneJobs()
		}); err != nil {
			ss.logger.Error("cannot schedule job pruning", zap.Error(err))
			return
		}
	}
	ss.scheduler.StartAsync()

	ss.Initialized = true
	ss.logger.Info("sanitation service initialized",
		zap.Duration("sequenceRetention", ss.Config.Elasticsearch.SequenceRetention),
		zap.Duration("jobRetention", ss.Config.Api.JobRetention))
}

// PruneSequences deletes persisted sequences older than the retention
// period. The in-process cache is left untouched.
func (ss *SanitationService) PruneSequences(ctx context.Context) int {
	cutoff := time.Now().Add(-ss.Config.Elasticsearch.SequenceRetention)
	ss.logger.Info("running sequence documents cleanup", zap.Time("cutoff", cutoff))

	deleted, err := esRepo.DeleteSequencesOlderThan(ctx, ss.Config, ss.Es7Client, cutoff)
	if err != nil {
		ss.logger.Error("sequence cleanup failed", zap.Error(err))
		return 0
	}
	ss.logger.Info("sequence cleanup finished", zap.Int("deleted", deleted))
	return deleted
}

// PruneJobs evicts batch jobs that finished more than the job retention
// period ago. A non-positive retention keeps every job.
func (ss *SanitationService) PruneJobs() int {
	if ss.Jobs == nil || ss.Config.Api.JobRetention <= 0 {
		return 0
	}
	pruned := ss.Jobs.PruneFinished(time.Now().Add(-ss.Config.Api.JobRetention))
	if pruned > 0 {
		ss.logger.Info("finished jobs pruned", zap.Int("pruned", pruned))
	}
	return pruned
}

func (ss *SanitationService) Stop() {
	if ss.scheduler != nil {
		ss.scheduler.Stop()
	}
}
