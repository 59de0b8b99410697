package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// IJob periodic job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

// OnWork one round of a job
type OnWork func(ctx context.Context) error

// BaseJob runs OnWork on a cron schedule, skipping ticks while a round is
// still running
type BaseJob struct {
	Name    string
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// NewBaseJob job named name running every interval in location
func NewBaseJob(name, location string, interval time.Duration, onWork OnWork) *BaseJob {
	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.Local
	}

	job := &BaseJob{
		Name:   name,
		Cron:   cron.New(cron.WithLocation(l)),
		OnWork: onWork,
	}

	job.Cron.Schedule(cron.Every(interval), job)
	return job
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stops the schedule and waits for the running round
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	ctx := context.Background()
	if err := job.OnWork(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("worker", job.Name).Errorln("work failed")
	}
}

// Run starts every job and stops them all once ctx is done
func Run(ctx context.Context, jobs ...IJob) error {
	for _, job := range jobs {
		if err := job.Start(); err != nil {
			return err
		}
	}

	<-ctx.Done()

	for _, job := range jobs {
		_ = job.Stop()
	}

	return ctx.Err()
}
