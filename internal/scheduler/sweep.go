// Package scheduler runs the daily sweep that outdates cares whose start date
// has passed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrSweepRunning is returned when a run is requested while another is active.
var ErrSweepRunning = errors.New("sweep already running")

// Sweeper outdates expired cares and reports how many it changed.
type Sweeper interface {
	OutdateExpiredCares(ctx context.Context) (int, error)
}

// SweepJob runs the Sweeper on a cron schedule. A failed run is logged and
// left for the next tick.
type SweepJob struct {
	sweeper  Sweeper
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	logger   *zap.Logger

	mu sync.Mutex
}

// NewSweepJob parses schedule (six fields, seconds first) in loc.
func NewSweepJob(sweeper Sweeper, schedule string, loc *time.Location, logger *zap.Logger) (*SweepJob, error) {
	if loc == nil {
		loc = time.UTC
	}
	j := &SweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  10 * time.Minute,
		logger:   logger.Named("sweep"),
	}
	j.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{j.logger})),
	)
	if _, err := j.cron.AddFunc(schedule, j.tick); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the scheduler until ctx is cancelled and waits for a running
// sweep to finish before returning.
func (j *SweepJob) Start(ctx context.Context) error {
	j.cron.Start()
	j.logger.Info("sweep scheduled", zap.String("schedule", j.schedule))

	<-ctx.Done()
	<-j.cron.Stop().Done()
	j.logger.Info("sweep scheduler stopped")
	return nil
}

// RunOnce runs a sweep now. Concurrent runs are rejected with ErrSweepRunning.
func (j *SweepJob) RunOnce(ctx context.Context) (int, error) {
	if !j.mu.TryLock() {
		return 0, ErrSweepRunning
	}
	defer j.mu.Unlock()

	start := time.Now()
	outdated, err := j.sweeper.OutdateExpiredCares(ctx)
	if err != nil {
		j.logger.Error("sweep failed",
			zap.Int("outdated", outdated),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return outdated, err
	}

	j.logger.Info("sweep finished",
		zap.Int("outdated", outdated),
		zap.Duration("took", time.Since(start)),
	)
	return outdated, nil
}

func (j *SweepJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); errors.Is(err, ErrSweepRunning) {
		j.logger.Warn("skipping scheduled sweep, previous run still active")
	}
}

// cronLogger adapts zap to cron's logger interface.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
