// Package fifo implements the daemon's two IPC channels over named
// pipes: a non-blocking command reader and a best-effort status
// writer. Absence of a peer on either end is a normal condition, never
// a stall.
package fifo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	readChunk = 512
	// MaxLineLen bounds one buffered command line; bytes beyond it are
	// dropped until the next terminator rather than growing the buffer.
	MaxLineLen = 512
)

// Ensure creates path as a FIFO if it does not already exist.
func Ensure(path string) error {
	fi, err := os.Stat(path)
	if err == nil {
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("%s exists and is not a FIFO", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	if err := unix.Mkfifo(path, 0o666); err != nil {
		return fmt.Errorf("mkfifo %s: %w", path, err)
	}
	return nil
}

// Reader polls complete lines off a FIFO without ever blocking. When a
// writer closes its end the FIFO is reopened, so clients can come and
// go without restarting the daemon.
type Reader struct {
	path string
	fd   int
	line []byte
}

// OpenReader prepares a reader on path. The FIFO not being openable
// yet is not an error; Poll keeps retrying.
func OpenReader(path string) *Reader {
	r := &Reader{path: path, fd: -1}
	r.reopen()
	return r
}

func (r *Reader) reopen() {
	if r.fd >= 0 {
		unix.Close(r.fd)
		r.fd = -1
	}
	fd, err := unix.Open(r.path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	r.fd = fd
}

// Poll reads whatever input is pending and returns the complete,
// trimmed, non-empty lines. No pending data yields nil.
func (r *Reader) Poll() []string {
	if r.fd < 0 {
		r.reopen()
		if r.fd < 0 {
			return nil
		}
	}

	var buf [readChunk]byte
	n, err := unix.Read(r.fd, buf[:])
	if err != nil {
		if !errors.Is(err, unix.EAGAIN) {
			r.reopen()
		}
		return nil
	}
	if n == 0 {
		// All writers closed; reopen for the next client.
		r.reopen()
		return nil
	}

	var lines []string
	for _, b := range buf[:n] {
		if b == '\n' {
			line := strings.TrimSpace(string(r.line))
			r.line = r.line[:0]
			if line != "" {
				lines = append(lines, line)
			}
			continue
		}
		if len(r.line) >= MaxLineLen {
			continue // overlong line: excess silently dropped
		}
		r.line = append(r.line, b)
	}
	return lines
}

// Close releases the underlying descriptor.
func (r *Reader) Close() {
	if r.fd >= 0 {
		unix.Close(r.fd)
		r.fd = -1
	}
}

// Writer emits single-line records to a FIFO, best-effort. With no
// reader attached the record is skipped, not queued or retried.
type Writer struct {
	path string
}

// NewWriter returns a writer for path.
func NewWriter(path string) *Writer { return &Writer{path: path} }

// WriteLine writes b plus a newline if a reader is currently attached.
func (w *Writer) WriteLine(b []byte) {
	// Opened per write so reader absence (ENXIO) is detected cheaply.
	fd, err := unix.Open(w.path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	defer unix.Close(fd)
	unix.Write(fd, append(b, '\n')) //nolint:errcheck
}

// Send writes one line to a FIFO, failing loudly when nobody is
// reading. Used by the control client, where silence would hide a
// stopped daemon.
func Send(path, line string) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) || errors.Is(err, unix.ENOENT) {
			return fmt.Errorf("no daemon listening on %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)
	if _, err := unix.Write(fd, []byte(line+"\n")); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
