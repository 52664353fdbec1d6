package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"stayrent/internal/app/maintenance"
)

// DefaultJobTimeout caps a single run of a scheduled job.
const DefaultJobTimeout = 30 * time.Second

// Scheduler runs maintenance jobs on cron specs. A job still running when
// its next tick fires is skipped rather than stacked.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
	ctx     context.Context
}

func New(logger *slog.Logger, loc *time.Location, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
	)
	return &Scheduler{cron: c, logger: logger, timeout: timeout, ctx: context.Background()}
}

// Add registers job under spec ("@every 1m", "*/5 * * * *"). An empty spec
// disables the job.
func (s *Scheduler) Add(name, spec string, job maintenance.Job) error {
	if spec == "" {
		s.logger.Info("scheduled job disabled", "job", name)
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start runs the scheduler until ctx is done; the returned channel closes
// once running jobs finished.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	s.ctx = ctx
	s.cron.Start()
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		close(done)
	}()
	return done
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(name string, job maintenance.Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.WarnContext(ctx, "scheduled job failed", "job", name, "duration", time.Since(start), "error", err)
		return
	}
	s.logger.DebugContext(ctx, "scheduled job done", "job", name, "duration", time.Since(start))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
