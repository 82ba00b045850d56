package antivirus

import (
	"context"
	"errors"
)

// Result is the outcome of a malware scan.
type Result struct {
	Infected    bool   // True when malware was detected
	ThreatName  string // Signature name, empty when clean
	ScannerName string // Which implementation produced the result
	Error       error  // Scan failure; callers must treat this as infected
}

// Scanner scans uploaded file content before it reaches storage.
// Implementations fail closed: any error means the file is rejected.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) Result

	// Name identifies the implementation in logs.
	Name() string

	// Available reports whether the scanner can currently scan.
	Available(ctx context.Context) bool
}

// NoOpScanner always reports clean. Local development only.
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func NewNoOpScanner() *NoOpScanner { return &NoOpScanner{} }

func (n *NoOpScanner) Scan(ctx context.Context, filename string, data []byte) Result {
	return Result{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string { return "noop" }

func (n *NoOpScanner) Available(ctx context.Context) bool { return true }

// ErrNoScanner is reported when no scanner in a chain is reachable.
var ErrNoScanner = errors.New("no antivirus scanner available")

// Chain delegates to the first available scanner. When none is
// reachable the scan fails closed.
type Chain struct {
	scanners []Scanner
}

var _ Scanner = (*Chain)(nil)

func NewChain(scanners ...Scanner) *Chain {
	return &Chain{scanners: scanners}
}

func (c *Chain) Scan(ctx context.Context, filename string, data []byte) Result {
	for _, s := range c.scanners {
		if s.Available(ctx) {
			return s.Scan(ctx, filename, data)
		}
	}
	return Result{
		Infected:    true,
		ScannerName: c.Name(),
		Error:       ErrNoScanner,
	}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Available(ctx context.Context) bool {
	for _, s := range c.scanners {
		if s.Available(ctx) {
			return true
		}
	}
	return false
}
