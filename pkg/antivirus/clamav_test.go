package antivirus_test

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"go-talent-marketplace/pkg/antivirus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd speaks just enough of the clamd protocol for the tests: it
// answers zPING and consumes one zINSTREAM session, replying with the
// configured verdict.
func fakeClamd(t *testing.T, verdict string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				cmd, err := r.ReadString('\x00')
				if err != nil {
					return
				}
				switch cmd {
				case "zPING\x00":
					conn.Write([]byte("PONG\x00"))
				case "zINSTREAM\x00":
					// Drain length-prefixed chunks until the zero terminator
					var sizeBuf [4]byte
					for {
						if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
							return
						}
						size := binary.BigEndian.Uint32(sizeBuf[:])
						if size == 0 {
							break
						}
						if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
							return
						}
					}
					conn.Write([]byte(verdict + "\x00"))
				}
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func TestClamAVScan(t *testing.T) {
	payload := make([]byte, 5000) // Spans multiple chunks

	t.Run("Should report clean on OK", func(t *testing.T) {
		addr := fakeClamd(t, "stream: OK")
		scanner := antivirus.NewClamAV(addr, 5*time.Second)

		assert.True(t, scanner.Available(context.Background()))

		res := scanner.Scan(context.Background(), "cv.pdf", payload)
		assert.False(t, res.Infected)
		assert.NoError(t, res.Error)
		assert.Equal(t, "clamav", res.ScannerName)
	})

	t.Run("Should report the threat name on FOUND", func(t *testing.T) {
		addr := fakeClamd(t, "stream: Eicar-Signature FOUND")
		scanner := antivirus.NewClamAV(addr, 5*time.Second)

		res := scanner.Scan(context.Background(), "cv.pdf", payload)
		assert.True(t, res.Infected)
		assert.Equal(t, "Eicar-Signature", res.ThreatName)
	})

	t.Run("Should fail closed on a daemon error", func(t *testing.T) {
		addr := fakeClamd(t, "stream: INSTREAM size limit exceeded. ERROR")
		scanner := antivirus.NewClamAV(addr, 5*time.Second)

		res := scanner.Scan(context.Background(), "cv.pdf", payload)
		assert.True(t, res.Infected)
		assert.Error(t, res.Error)
	})

	t.Run("Should fail closed when the daemon is unreachable", func(t *testing.T) {
		scanner := antivirus.NewClamAV("127.0.0.1:1", 1*time.Second)

		assert.False(t, scanner.Available(context.Background()))

		res := scanner.Scan(context.Background(), "cv.pdf", payload)
		assert.True(t, res.Infected)
		assert.Error(t, res.Error)
	})
}

func TestChain(t *testing.T) {
	t.Run("Should use the first reachable scanner", func(t *testing.T) {
		dead := antivirus.NewClamAV("127.0.0.1:1", 1*time.Second)
		chain := antivirus.NewChain(dead, antivirus.NewNoOpScanner())

		res := chain.Scan(context.Background(), "cv.pdf", []byte("data"))
		assert.False(t, res.Infected)
		assert.Equal(t, "noop", res.ScannerName)
	})

	t.Run("Should fail closed when no scanner is reachable", func(t *testing.T) {
		chain := antivirus.NewChain(antivirus.NewClamAV("127.0.0.1:1", 1*time.Second))

		res := chain.Scan(context.Background(), "cv.pdf", []byte("data"))
		assert.True(t, res.Infected)
		assert.ErrorIs(t, res.Error, antivirus.ErrNoScanner)
	})
}
