// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import "golang.org/x/sys/unix"

// maxFdsPerSendmsg bounds how many fds one sendmsg ancillary payload may
// carry, mirroring the kernel's SCM_MAX_FD (253 on Linux). Enforced on
// the send path so a runaway handler cannot silently truncate ownership
// transfer.
const maxFdsPerSendmsg = 253

// fdQueue is an endpoint's ordered, owned file-descriptor queue: inbound
// fds are consumed in argument order by whichever message needs them;
// outbound fds are appended in the order their arguments occur and sent
// alongside the next flush.
//
// fdQueue implements wire.FdSource and wire.FdSink so wire.Reader/
// wire.Writer can be constructed directly against an endpoint's queues.
type fdQueue struct {
	fds []int
}

// PopFd implements wire.FdSource.
func (q *fdQueue) PopFd() (int, bool) {
	if len(q.fds) == 0 {
		return -1, false
	}
	fd := q.fds[0]
	q.fds = q.fds[1:]
	return fd, true
}

// PushFd implements wire.FdSink.
func (q *fdQueue) PushFd(fd int) {
	q.fds = append(q.fds, fd)
}

// pushAll appends fds received from one recvmsg call.
func (q *fdQueue) pushAll(fds []int) {
	q.fds = append(q.fds, fds...)
}

// drain returns and clears up to maxFdsPerSendmsg queued fds, for one
// sendmsg ancillary payload.
func (q *fdQueue) drain() []int {
	n := len(q.fds)
	if n > maxFdsPerSendmsg {
		n = maxFdsPerSendmsg
	}
	out := q.fds[:n]
	q.fds = q.fds[n:]
	return out
}

func (q *fdQueue) len() int { return len(q.fds) }

// closeAll closes every fd still queued, used when an endpoint dies so
// owned-but-unforwarded fds are not leaked.
func (q *fdQueue) closeAll() {
	for _, fd := range q.fds {
		_ = unix.Close(fd)
	}
	q.fds = nil
}
