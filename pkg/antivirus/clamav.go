package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// clamd streams file content in chunks of at most this size.
const clamChunkSize = 2048

// ClamAV scans files through a clamd daemon using the zINSTREAM protocol.
type ClamAV struct {
	address string        // "host:port" or a unix socket path
	timeout time.Duration // Covers the whole scan including the response
}

var _ Scanner = (*ClamAV)(nil)

// NewClamAV creates a clamd-backed scanner.
// Give large uploads 30-60 seconds.
func NewClamAV(address string, timeout time.Duration) *ClamAV {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAV{address: address, timeout: timeout}
}

func (c *ClamAV) Name() string { return "clamav" }

func (c *ClamAV) dial(timeout time.Duration) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	return net.DialTimeout(network, c.address, timeout)
}

// Available pings the daemon.
func (c *ClamAV) Available(ctx context.Context) bool {
	conn, err := c.dial(5 * time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}

	reply, err := bufio.NewReader(conn).ReadString('\x00')
	if err != nil && err != io.EOF {
		return false
	}
	return strings.HasPrefix(reply, "PONG")
}

// Scan streams the file to clamd and parses the verdict.
// Any transport or daemon error counts as infected.
func (c *ClamAV) Scan(ctx context.Context, filename string, data []byte) Result {
	result := Result{ScannerName: c.Name()}

	fail := func(err error) Result {
		result.Infected = true
		result.Error = err
		return result
	}

	conn, err := c.dial(c.timeout)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to clamd: %w", err))
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString("zINSTREAM\x00"); err != nil {
		return fail(fmt.Errorf("failed to send command: %w", err))
	}

	// Each chunk is a big-endian uint32 length followed by the bytes;
	// a zero length terminates the stream.
	var sizeBuf [4]byte
	for off := 0; off < len(data); off += clamChunkSize {
		end := min(off+clamChunkSize, len(data))
		binary.BigEndian.PutUint32(sizeBuf[:], uint32(end-off))
		if _, err := w.Write(sizeBuf[:]); err != nil {
			return fail(fmt.Errorf("failed to send chunk size: %w", err))
		}
		if _, err := w.Write(data[off:end]); err != nil {
			return fail(fmt.Errorf("failed to send chunk: %w", err))
		}
	}
	binary.BigEndian.PutUint32(sizeBuf[:], 0)
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return fail(fmt.Errorf("failed to send stream terminator: %w", err))
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("failed to flush stream: %w", err))
	}

	reply, err := bufio.NewReader(conn).ReadString('\x00')
	if err != nil && err != io.EOF {
		return fail(fmt.Errorf("failed to read scan result: %w", err))
	}
	verdict := strings.TrimSpace(strings.TrimSuffix(reply, "\x00"))

	// "stream: OK" | "stream: <Signature> FOUND" | "stream: <msg> ERROR"
	switch {
	case strings.HasSuffix(verdict, "FOUND"):
		result.Infected = true
		if _, rest, ok := strings.Cut(verdict, ":"); ok {
			result.ThreatName = strings.TrimSuffix(strings.TrimSpace(rest), " FOUND")
		}
	case strings.HasSuffix(verdict, "ERROR"):
		return fail(fmt.Errorf("clamd scan error: %s", verdict))
	}

	return result
}
