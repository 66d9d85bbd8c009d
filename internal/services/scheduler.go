package services

import (
	"context"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"

	"github.com/robfig/cron/v3"
)

// CronDeadlineScheduler persists one close job per listing and polls the
// job table on a cron tick. Only the leader instance executes jobs, so a
// fleet of API nodes finalizes each expired auction exactly once.
type CronDeadlineScheduler struct {
	cron       *cron.Cron
	repo       domain.SchedulerRepository
	engine     *AuctionEngine
	leader     domain.LeaderElection
	instanceID string
	interval   time.Duration
	log        logger.Logger
}

func NewCronDeadlineScheduler(repo domain.SchedulerRepository, engine *AuctionEngine,
	leader domain.LeaderElection, instanceID string, interval time.Duration,
	log logger.Logger) *CronDeadlineScheduler {
	return &CronDeadlineScheduler{
		cron:       cron.New(cron.WithSeconds()),
		repo:       repo,
		engine:     engine,
		leader:     leader,
		instanceID: instanceID,
		interval:   interval,
		log:        log,
	}
}

func (s *CronDeadlineScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting deadline scheduler", "interval", s.interval)

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.processPendingJobs(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CronDeadlineScheduler) Stop() error {
	s.log.Info("Stopping deadline scheduler")
	s.cron.Stop()
	return nil
}

func (s *CronDeadlineScheduler) ScheduleAuctionClose(ctx context.Context, itemID string, deadline time.Time) error {
	job := &domain.ScheduledJob{
		ID:        utils.GenerateID("job"),
		ItemID:    itemID,
		JobType:   domain.JobCloseAuction,
		RunAt:     deadline,
		Status:    domain.JobPending,
		CreatedAt: time.Now(),
	}

	return s.repo.CreateJob(ctx, job)
}

func (s *CronDeadlineScheduler) CancelSchedule(ctx context.Context, itemID string) error {
	return s.repo.CancelJobsForItem(ctx, itemID)
}

func (s *CronDeadlineScheduler) processPendingJobs(ctx context.Context) {
	isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
	if err != nil {
		s.log.Error("Failed to check leadership", "error", err)
		return
	}
	if !isLeader {
		return
	}

	jobs, err := s.repo.GetPendingJobs(ctx, time.Now())
	if err != nil {
		s.log.Error("Failed to get pending jobs", "error", err)
		return
	}

	for _, job := range jobs {
		s.log.Info("Processing job", "job_id", job.ID, "type", job.JobType, "item_id", job.ItemID)

		if job.JobType == domain.JobCloseAuction {
			if err := s.engine.FinalizeExpired(ctx, job.ItemID); err != nil {
				s.log.Error("Failed to close auction", "job_id", job.ID, "error", err)
				// Left pending, will retry on the next tick
				continue
			}
		}

		if err := s.repo.UpdateJobStatus(ctx, job.ID, domain.JobExecuted); err != nil {
			s.log.Error("Failed to mark job executed", "job_id", job.ID, "error", err)
		}
	}
}
