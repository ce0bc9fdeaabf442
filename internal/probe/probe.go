// Package probe implements the lightweight liveness check used to confirm
// that a candidate open port actually accepts connections.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds a single connection attempt when none is configured.
const DefaultTimeout = 2 * time.Second

// Prober performs TCP connect checks with a short timeout.
// The zero value uses DefaultTimeout.
type Prober struct {
	Timeout time.Duration
}

// Alive reports whether a TCP connection to ip:port succeeds within the
// timeout. Any error is treated as "not verified"; nothing propagates.
func (p *Prober) Alive(ctx context.Context, ip string, port int) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
