package cronjob

import (
	"context"
	"errors"
	"time"

	"mcgate/internal/gateway"
	"mcgate/internal/log"
)

// Scheduler runs the automated shutdown check. Unlike the routed operations
// its outcomes are only logged, never formatted into a response envelope.
type Scheduler struct {
	svc  gateway.Service
	opts Options
	log  interface {
		Infof(string, ...any)
		Warnf(string, ...any)
		Errorf(string, ...any)
	}
}

type Options struct {
	CheckInterval time.Duration
}

func NewScheduler(svc gateway.Service, opts Options) *Scheduler {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = 30 * time.Minute
	}
	return &Scheduler{
		svc:  svc,
		opts: opts,
		log:  log.Component("cronjob"),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.runShutdownLoop(ctx)
}

func (s *Scheduler) runShutdownLoop(ctx context.Context) {
	s.log.Infof("shutdown check every %s", s.opts.CheckInterval)
	tk := time.NewTicker(s.opts.CheckInterval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			s.runShutdownOnce(ctx)
		}
	}
}

func (s *Scheduler) runShutdownOnce(ctx context.Context) {
	res, err := s.svc.Stop(ctx)
	switch {
	case errors.Is(err, gateway.ErrMissingInstanceID):
		s.log.Errorf("shutdown check aborted: %v", err)
	case errors.Is(err, gateway.ErrPlayersOnline):
		s.log.Infof("shutdown check skipped: %v", err)
	case err != nil:
		s.log.Warnf("shutdown check failed: %v", err)
	default:
		s.log.Infof("shutdown check: %s", res.Message)
	}
}
