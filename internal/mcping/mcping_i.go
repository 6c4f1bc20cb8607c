package mcping

import (
	"context"
	"errors"
	"time"

	"github.com/mcstatus-io/mcutil/v3"

	ilog "mcgate/internal/log"
)

// DefaultPort is the fixed Minecraft Java edition port; the managed server
// is always expected to listen there.
const DefaultPort = 25565

var ErrQueryStatus = errors.New("failed to query status of minecraft server")

type Players struct {
	Online int64 `json:"online"`
	Max    int64 `json:"max"`
}

type ServerStatus struct {
	Online  bool    `json:"online"`
	Version string  `json:"version,omitempty"`
	MOTD    string  `json:"motd,omitempty"`
	Players Players `json:"players"`
}

type Pinger interface {
	Ping(ctx context.Context, ip string) (ServerStatus, error)
}

type PingerI struct {
	port    uint16
	timeout time.Duration
}

func NewPingerI(timeout time.Duration) *PingerI {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PingerI{port: DefaultPort, timeout: timeout}
}

// Ping performs a single server list ping. A single failed handshake is
// terminal for the calling operation; there is no retry.
func (p *PingerI) Ping(ctx context.Context, ip string) (ServerStatus, error) {
	logger := ilog.Component("mcping")
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	logger.Infof("pinging minecraft server at %s:%d", ip, p.port)
	raw, err := mcutil.Status(ctx, ip, p.port)
	if err != nil {
		logger.Errorf("ping %s:%d failed: %v", ip, p.port, err)
		return ServerStatus{}, ErrQueryStatus
	}

	status := ServerStatus{
		Online:  true,
		Version: raw.Version.NameClean,
		MOTD:    raw.MOTD.Clean,
	}
	if raw.Players.Online != nil {
		status.Players.Online = *raw.Players.Online
	}
	if raw.Players.Max != nil {
		status.Players.Max = *raw.Players.Max
	}
	logger.Infof("minecraft server %s version=%s players=%d/%d", ip, status.Version, status.Players.Online, status.Players.Max)
	return status, nil
}
