// Package ptypump drives a pseudoterminal the way the core's pump contract
// requires: non-blocking reads and writes polled from a single owning
// goroutine, with a bounded outbound buffer absorbing replies the parser
// queues (device attributes, status reports, answerback) until the
// pseudoterminal is writable again.
package ptypump

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// writeBufferMax matches the reference implementation's fixed 1024-byte
// write_buffer; a reply that would overflow it is silently dropped rather
// than blocking the pump.
const writeBufferMax = 1024

// Consumer receives raw child-process output. *parser.Terminal satisfies
// this directly.
type Consumer interface {
	Write(data []byte)
}

// Pump owns one pseudoterminal master and the child process attached to its
// slave side.
type Pump struct {
	file *os.File
	fd   int
	cmd  *exec.Cmd

	consumer Consumer

	mu          sync.Mutex
	writeBuffer []byte
}

// ErrChildExited is returned by Pump as soon as poll reports POLLHUP (the
// child has exited); data still pending on the master at that point is not
// read.
var ErrChildExited = errors.New("pseudoterminal closed: child exited")

// Start forks cmd under a new pseudoterminal sized cols x rows, arranges for
// its output to be fed to consumer, and puts the master side into
// non-blocking mode.
func Start(cmd *exec.Cmd, cols, rows uint16, consumer Consumer) (*Pump, error) {
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("start pseudoterminal: %w", err)
	}

	// Fd() forces the descriptor into blocking mode and detaches it from
	// the Go runtime's netpoller, so the explicit non-blocking+poll loop
	// below is the only thing driving it, matching ptinit()/set_nonblock().
	fd := int(ptmx.Fd())

	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("get pseudoterminal flags: %w", err)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags|unix.O_NONBLOCK); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("set pseudoterminal non-blocking: %w", err)
	}

	return &Pump{file: ptmx, fd: fd, cmd: cmd, consumer: consumer}, nil
}

// QueueReply implements parser.ReplySink.
func (p *Pump) QueueReply(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(data) > writeBufferMax-len(p.writeBuffer) {
		return
	}
	p.writeBuffer = append(p.writeBuffer, data...)
}

// Pump drains every pending read and flushes every pending write without
// blocking, looping as long as an event keeps firing -- the same "poll,
// act, repeat until idle" shape as the reference's ptpump(). Call it once
// per render tick.
func (p *Pump) Pump() error {
	buf := make([]byte, 4096)

	for {
		pfd := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN | unix.POLLOUT}}

		n, err := unix.Poll(pfd, 0)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll pseudoterminal: %w", err)
		}
		if n == 0 {
			return nil
		}

		revents := pfd[0].Revents
		switch {
		case revents&unix.POLLERR != 0:
			return fmt.Errorf("pseudoterminal is broken")
		case revents&unix.POLLNVAL != 0:
			return fmt.Errorf("pseudoterminal not open")
		case revents&unix.POLLHUP != 0:
			return ErrChildExited
		}

		progressed := false

		if revents&unix.POLLIN != 0 {
			did, err := p.read(buf)
			if err != nil {
				return err
			}
			progressed = progressed || did
		}

		if revents&unix.POLLOUT != 0 {
			did, err := p.flush()
			if err != nil {
				return err
			}
			progressed = progressed || did
		}

		if !progressed {
			return nil
		}
	}
}

func (p *Pump) read(buf []byte) (bool, error) {
	n, err := unix.Read(p.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("read pseudoterminal: %w", err)
	}
	if n <= 0 {
		return false, nil
	}
	p.consumer.Write(buf[:n])
	return true, nil
}

func (p *Pump) flush() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.writeBuffer) == 0 {
		return false, nil
	}

	n, err := unix.Write(p.fd, p.writeBuffer)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("write pseudoterminal: %w", err)
	}
	if n > 0 {
		p.writeBuffer = p.writeBuffer[n:]
	}
	return n > 0, nil
}

// Resize reports a new window size to the child (SIGWINCH).
func (p *Pump) Resize(cols, rows uint16) error {
	return pty.Setsize(p.file, &pty.Winsize{Cols: cols, Rows: rows})
}

// Close kills the child process and releases the pseudoterminal master.
func (p *Pump) Close() error {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	return p.file.Close()
}
