// Package netx provides the proactive connectivity probe used before
// dispatching auth API calls.
package netx

import (
	"net"
	"time"
)

// Online reports whether a TCP connection to addr ("host:port") can be
// established within timeout. It is a cheap reachability hint, not a
// guarantee that the API itself is healthy.
func Online(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close() //nolint:errcheck // probe connection
	return true
}

// Probe returns a closure suitable for injecting into components that take
// an online-check function.
func Probe(addr string, timeout time.Duration) func() bool {
	return func() bool {
		return Online(addr, timeout)
	}
}
