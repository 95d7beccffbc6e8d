// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const repairJobName = "repair-usernames"

// UsernameRepairer rewrites provider identifiers stored as usernames.
type UsernameRepairer interface {
	RepairOpaqueUsernames(ctx context.Context) (int, error)
}

// Scheduler owns the gocron scheduler and the jobs registered on it.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       logrus.FieldLogger
	timeout   time.Duration
}

func NewScheduler(log logrus.FieldLogger) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: scheduler,
		log:       log,
		timeout:   time.Minute,
	}, nil
}

// ScheduleUsernameRepair runs repairer every interval, starting immediately.
// A non-positive interval registers nothing.
func (s *Scheduler) ScheduleUsernameRepair(repairer UsernameRepairer, interval time.Duration) error {
	if interval <= 0 {
		s.log.Info("Username repair job disabled")
		return nil
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.runRepair(repairer)
		}),
		gocron.WithName(repairJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", repairJobName, err)
	}

	s.log.WithField("interval", interval.String()).Info("Registered username repair job")
	return nil
}

func (s *Scheduler) runRepair(repairer UsernameRepairer) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := repairer.RepairOpaqueUsernames(ctx)
	if err != nil {
		s.log.WithError(err).Error("Username repair failed")
		return
	}
	if n > 0 {
		s.log.WithField("repaired", n).Info("Repaired opaque usernames")
	}
}

// Jobs returns the names of the registered jobs.
func (s *Scheduler) Jobs() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name())
	}
	return names
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
