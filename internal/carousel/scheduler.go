package carousel

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CronScheduler implements Scheduler on a running cron instance.
type CronScheduler struct {
	cron *cron.Cron
}

func NewCronScheduler(logger *zerolog.Logger) *CronScheduler {
	opts := []cron.Option{}
	if logger != nil {
		opts = append(opts, cron.WithLogger(cronLogger{logger: logger}))
	}
	c := cron.New(opts...)
	c.Start()
	return &CronScheduler{cron: c}
}

func (s *CronScheduler) Every(d time.Duration, fn func()) func() {
	id := s.cron.Schedule(fixedDelay(d), cron.FuncJob(fn))
	return func() { s.cron.Remove(id) }
}

// fixedDelay fires exactly d after the previous activation. cron.Every truncates to whole
// seconds, which would bring the first run forward by up to a second.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (s *CronScheduler) Stop() context.Context {
	return s.cron.Stop()
}

type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
