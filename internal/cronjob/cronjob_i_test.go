package cronjob

import (
	"context"
	"testing"
	"time"

	"mcgate/internal/gateway"
)

type stopOnlyService struct {
	stopFn    func(ctx context.Context) (gateway.Result, error)
	stopCalls int
}

func (m *stopOnlyService) Start(ctx context.Context) (gateway.Result, error) {
	return gateway.Result{}, nil
}

func (m *stopOnlyService) Stop(ctx context.Context) (gateway.Result, error) {
	m.stopCalls++
	return m.stopFn(ctx)
}

func (m *stopOnlyService) Status(ctx context.Context) (gateway.Result, error) {
	return gateway.Result{}, nil
}

func TestRunShutdownOnceNeverPanicsOnErrors(t *testing.T) {
	outcomes := []func(ctx context.Context) (gateway.Result, error){
		func(ctx context.Context) (gateway.Result, error) {
			return gateway.Result{Message: "instance stopping"}, nil
		},
		func(ctx context.Context) (gateway.Result, error) {
			return gateway.Result{}, gateway.ErrPlayersOnline
		},
		func(ctx context.Context) (gateway.Result, error) {
			return gateway.Result{}, gateway.ErrMissingInstanceID
		},
	}
	for _, fn := range outcomes {
		svc := &stopOnlyService{stopFn: fn}
		s := NewScheduler(svc, Options{})
		s.runShutdownOnce(context.Background())
		if svc.stopCalls != 1 {
			t.Fatalf("expected exactly one stop call, got %d", svc.stopCalls)
		}
	}
}

func TestNewSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(&stopOnlyService{}, Options{})
	if s.opts.CheckInterval != 30*time.Minute {
		t.Fatalf("unexpected default interval: %v", s.opts.CheckInterval)
	}
}

func TestShutdownLoopStopsOnContextCancel(t *testing.T) {
	svc := &stopOnlyService{stopFn: func(ctx context.Context) (gateway.Result, error) {
		return gateway.Result{Message: "instance is stopped"}, nil
	}}
	s := NewScheduler(svc, Options{CheckInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.runShutdownLoop(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop did not stop after cancel")
	}
	if svc.stopCalls == 0 {
		t.Fatalf("expected at least one scheduled stop call")
	}
}
