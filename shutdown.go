package main

import (
	"context"
	"net"
	"time"

	"github.com/cihub/seelog"
)

func newShutdownCoordinator(listener net.Listener, timeout time.Duration, log seelog.LoggerInterface) *shutdownCoordinator {
	return &shutdownCoordinator{
		target:   loopbackAddress(listener.Addr()),
		timeout:  timeout,
		fallback: listener,
		log:      log,
	}
}

// Requested reports whether shutdown has been triggered. Once true it stays true.
func (c *shutdownCoordinator) Requested() bool {
	return c.requested.Load()
}

// Trigger sets the shutdown flag and, on the first call only, wakes the accept
// loop. It is safe to call from any goroutine and any number of times.
func (c *shutdownCoordinator) Trigger() {
	c.requested.Store(true)
	c.once.Do(func() {
		c.log.Info("Shutdown requested...")
		c.wake()
	})
}

// wake connects to the listener and hangs up so a blocked Accept returns. If
// the listener cannot be reached it is closed instead.
func (c *shutdownCoordinator) wake() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.target)
	if err != nil {
		c.log.Warnf("Wake connection to %s failed: %v", c.target, err)
		if err := c.fallback.Close(); err != nil {
			c.log.Debugf("Closing listener after failed wake: %v", err)
		}
		return
	}
	if err := conn.Close(); err != nil {
		c.log.Debugf("Closing wake connection: %v", err)
	}
	c.log.Debug("Wake connection closed to unblock accept")
}

// loopbackAddress maps a wildcard bind address to the matching loopback address.
func loopbackAddress(addr net.Addr) string {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}

	ip := tcpAddr.IP
	switch {
	case ip == nil || ip.Equal(net.IPv4zero):
		ip = net.IPv4(127, 0, 0, 1)
	case ip.Equal(net.IPv6unspecified):
		ip = net.IPv6loopback
	}
	return (&net.TCPAddr{IP: ip, Port: tcpAddr.Port, Zone: tcpAddr.Zone}).String()
}
