//go:build windows

package transport

import "net"

// listen on Windows skips the unix socket-option tuning half of the
// bridge, matching the teacher's own hid_windows.go/hid_linux.go split
// (one OS gets raw syscall tuning, the other gets the portable fallback).
func listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
