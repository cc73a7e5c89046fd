package main

// Notes:
// - Test helpers and mocks shared across CLI tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	brief2pdf "github.com/alnah/go-brief2pdf"
	"github.com/alnah/go-brief2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// Environment helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}, &stdout, &stderr
}

// writeFile creates a file under dir, including parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// staticMockConverter returns a fixed result and records its inputs.
type staticMockConverter struct {
	mu     sync.Mutex
	pdf    []byte
	html   []byte
	err    error
	inputs []brief2pdf.Input
}

func (m *staticMockConverter) Convert(_ context.Context, input brief2pdf.Input) (*brief2pdf.ConvertResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	res := &brief2pdf.ConvertResult{HTML: m.html}
	if !input.HTMLOnly {
		res.PDF = m.pdf
	}
	return res, nil
}

// mockPool hands out a single shared converter and tracks concurrency.
type mockPool struct {
	conv       CLIConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	inUse    int
	maxInUse int
	released int
}

func (p *mockPool) Acquire(ctx context.Context) (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse++
	p.maxInUse = max(p.maxInUse, p.inUse)
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse--
	p.released++
}

func (p *mockPool) Size() int {
	return p.size
}
