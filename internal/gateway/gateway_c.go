package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mcgate/internal/compute"
	"mcgate/internal/dyndns"
	ilog "mcgate/internal/log"
	"mcgate/internal/mcping"
	"mcgate/internal/notify"
)

const (
	msgInstanceRunning  = "instance is running"
	msgInstanceStarting = "instance starting"
	msgInstanceStopped  = "instance is stopped"
	msgInstanceStopping = "instance stopping"

	noteStarting      = "minecraft server starting"
	noteStopping      = "minecraft server stopping"
	noteStartingNoIP  = "minecraft server starting - ⚠️ failed to update dns; ip address unavailable ⚠️"
	noteStartingNoDNS = "minecraft server starting - ⚠️ failed to update dns; connect with ip %s ⚠️"
)

var (
	ErrMissingInstanceID = errors.New("instance id is not configured")
	ErrPlayersOnline     = errors.New("instance cannot be stopped when players are online")
)

// Result is the outcome of one operation. Message carries the human-readable
// success text; the remaining fields are the auxiliary payload of the status
// operation and may be partially filled even when the operation errors.
type Result struct {
	Message  string
	Instance *compute.InstanceStatus
	Server   *mcping.ServerStatus
	DNSName  string
}

type Service interface {
	Start(ctx context.Context) (Result, error)
	Stop(ctx context.Context) (Result, error)
	Status(ctx context.Context) (Result, error)
}

type Options struct {
	InstanceID string

	// StartIPWait is the fixed delay between issuing the start request and
	// re-reading the instance, giving the provider time to assign a public
	// IP. A single wait, no poll loop.
	StartIPWait time.Duration
	Sleep       func(time.Duration)
}

type ServiceI struct {
	compute  compute.Controller
	pinger   mcping.Pinger
	dns      dyndns.Updater
	notifier notify.Notifier
	opts     Options
}

func NewServiceI(ctrl compute.Controller, pinger mcping.Pinger, dns dyndns.Updater, notifier notify.Notifier, opts Options) *ServiceI {
	if opts.StartIPWait <= 0 {
		opts.StartIPWait = 5 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &ServiceI{
		compute:  ctrl,
		pinger:   pinger,
		dns:      dns,
		notifier: notifier,
		opts:     opts,
	}
}

func (s *ServiceI) Start(ctx context.Context) (Result, error) {
	if s.opts.InstanceID == "" {
		return Result{}, ErrMissingInstanceID
	}

	st, err := s.compute.Describe(ctx)
	if err != nil {
		return Result{}, err
	}

	switch st.State {
	case compute.StateRunning:
		return Result{Message: msgInstanceRunning}, nil
	case compute.StateStopped:
		if err := s.compute.Start(ctx); err != nil {
			return Result{}, err
		}
		s.opts.Sleep(s.opts.StartIPWait)
		s.announceStart(ctx)
		return Result{Message: msgInstanceStarting}, nil
	default:
		return Result{}, fmt.Errorf("instance cannot be started in the %s state", st.State)
	}
}

// announceStart re-reads the instance after the IP wait, points the dns
// record at the fresh IP and notifies. Everything in here is best-effort:
// the start operation already succeeded.
func (s *ServiceI) announceStart(ctx context.Context) {
	logger := ilog.Component("gateway")

	fresh, err := s.compute.Describe(ctx)
	if err != nil || fresh.PublicIP == "" {
		if err != nil {
			logger.Warnf("post-start status re-read failed: %v", err)
		}
		s.notifier.Notify(ctx, noteStartingNoIP)
		return
	}

	updated, err := s.dns.Update(ctx, fresh.PublicIP)
	if err != nil || (!updated && s.dns.Enabled()) {
		if err != nil {
			logger.Warnf("dns update failed: %v", err)
		}
		s.notifier.Notify(ctx, fmt.Sprintf(noteStartingNoDNS, fresh.PublicIP))
		return
	}
	s.notifier.Notify(ctx, noteStarting)
}

func (s *ServiceI) Stop(ctx context.Context) (Result, error) {
	if s.opts.InstanceID == "" {
		return Result{}, ErrMissingInstanceID
	}

	st, err := s.compute.Describe(ctx)
	if err != nil {
		return Result{}, err
	}

	switch st.State {
	case compute.StateStopped:
		return Result{Message: msgInstanceStopped}, nil
	case compute.StateRunning:
		srv, err := s.pinger.Ping(ctx, st.PublicIP)
		if err != nil {
			return Result{}, err
		}
		if srv.Players.Online != 0 {
			return Result{}, ErrPlayersOnline
		}
		if err := s.compute.Stop(ctx); err != nil {
			return Result{}, err
		}
		s.notifier.Notify(ctx, noteStopping)
		return Result{Message: msgInstanceStopping}, nil
	default:
		return Result{}, fmt.Errorf("instance cannot be stopped in the %s state", st.State)
	}
}

// Status gathers instance + game-server state. Partial data stays attached
// to the result even when a later read fails, and the game server is only
// pinged while the instance is running.
func (s *ServiceI) Status(ctx context.Context) (Result, error) {
	if s.opts.InstanceID == "" {
		return Result{}, ErrMissingInstanceID
	}

	res := Result{DNSName: s.dns.FQDN()}

	st, err := s.compute.Describe(ctx)
	if err != nil {
		return res, err
	}
	res.Instance = &st

	if st.State != compute.StateRunning {
		return res, nil
	}

	srv, err := s.pinger.Ping(ctx, st.PublicIP)
	if err != nil {
		return res, err
	}
	res.Server = &srv
	return res, nil
}
