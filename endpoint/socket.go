// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DialUnix opens a non-blocking AF_UNIX SOCK_STREAM connection to path,
// the upstream endpoint's transport to the real compositor.
func DialUnix(path string) (int, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("endpoint: socket: %w", err)
	}
	addr := &unix.SockaddrUnix{Name: path}
	if err := unix.Connect(fd, addr); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("endpoint: connect %s: %w", path, err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("endpoint: set nonblock: %w", err)
	}
	return fd, nil
}

// ListenUnix creates the proxy's own downstream listening socket: a
// non-blocking AF_UNIX SOCK_STREAM socket bound and listening at path.
func ListenUnix(path string) (int, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("endpoint: socket: %w", err)
	}
	addr := &unix.SockaddrUnix{Name: path}
	if err := unix.Bind(fd, addr); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("endpoint: bind %s: %w", path, err)
	}
	if err := unix.Listen(fd, 16); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("endpoint: listen %s: %w", path, err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("endpoint: set nonblock: %w", err)
	}
	return fd, nil
}

// AcceptUnix accepts one pending downstream client connection from a
// listening socket created by ListenUnix. Returns (-1, false, nil) when
// no connection is currently pending (the non-blocking equivalent of
// EWOULDBLOCK/EAGAIN — not an error, just "nothing to do this tick").
func AcceptUnix(listenFd int) (fd int, ok bool, err error) {
	connFd, _, err := unix.Accept4(listenFd, unix.SOCK_NONBLOCK)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return -1, false, nil
		}
		return -1, false, fmt.Errorf("endpoint: accept: %w", err)
	}
	return connFd, true, nil
}
