package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Job is one named background task. Run receives the process context
// and stops early when it is cancelled.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Cron runs registered jobs on standard 5-field cron specs. A job that
// is still running when its next tick fires skips that tick.
type Cron struct {
	cron *cron.Cron
	ctx  atomic.Pointer[context.Context]
}

func NewCron() *Cron {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Cron{cron: cron.New(cron.WithParser(parser))}
}

func (c *Cron) Register(spec string, job Job) error {
	if _, err := c.cron.AddFunc(spec, c.guarded(job, spec)); err != nil {
		return err
	}
	logutil.GetLogger(context.Background()).Info("job scheduled",
		zap.String("job", job.Name()),
		zap.String("spec", spec),
	)
	return nil
}

func (c *Cron) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx.Store(&ctx)
	c.cron.Start()
}

func (c *Cron) Stop() {
	<-c.cron.Stop().Done()
}

func (c *Cron) runCtx() context.Context {
	if p := c.ctx.Load(); p != nil {
		return *p
	}
	return context.Background()
}

func (c *Cron) guarded(job Job, spec string) func() {
	var running atomic.Bool
	return func() {
		logger := logutil.GetLogger(c.runCtx()).With(
			zap.String("job", job.Name()),
			zap.String("spec", spec),
		)
		if !running.CompareAndSwap(false, true) {
			logger.Info("job skipped: still running")
			return
		}
		defer running.Store(false)

		start := time.Now()
		logger.Info("job started")
		err := job.Run(c.runCtx())
		if err != nil {
			logger.Error("job finished", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		logger.Info("job finished", zap.Duration("duration", time.Since(start)))
	}
}
