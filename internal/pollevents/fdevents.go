//go:build linux

package pollevents

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/axleware/logframe/internal/errors"
)

// FDEvents registers interest in readability or writability on a file
// descriptor with the OS poller. If registration is rejected because
// the fd is not pollable (a plain regular file, say), NewFDEvents
// returns an error so the caller can fall back to FileChanges.
type FDEvents struct {
	fd      int
	writ    bool
	epollFD int

	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
}

// NewFDEvents registers fd with epoll, waiting on write-readiness if
// writable is true, read-readiness otherwise.
func NewFDEvents(fd int, writable bool) (*FDEvents, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, errors.Wrap(errors.KindIO, err, "creating epoll instance")
	}

	events := uint32(unix.EPOLLIN)
	if writable {
		events = uint32(unix.EPOLLOUT)
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)}); err != nil {
		unix.Close(epfd)
		return nil, errors.Wrap(errors.KindIO, err, "registering fd with epoll (not pollable?)")
	}

	return &FDEvents{fd: fd, writ: writable, epollFD: epfd}, nil
}

func (e *FDEvents) Start(callback func(Notification)) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.stopCh = make(chan struct{})
	e.mu.Unlock()

	go func() {
		events := make([]unix.EpollEvent, 1)
		for {
			select {
			case <-e.stopCh:
				return
			default:
			}
			n, err := unix.EpollWait(e.epollFD, events, 250)
			if err != nil {
				continue
			}
			if n > 0 {
				callback(NotificationDataAvailable)
			}
		}
	}()
	return nil
}

func (e *FDEvents) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	e.started = false
	close(e.stopCh)
	unix.Close(e.epollFD)
}
