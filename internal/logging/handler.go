package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a single stderr line before truncation.
	MaxLineLength = 4096

	// MaxBufferedLines is the maximum number of recent stderr lines kept.
	MaxBufferedLines = 100
)

// StderrHandler receives the subordinate's stderr stream when capture
// is enabled. It implements io.Writer so it can be wired directly as
// the child's stderr: writes are split into lines, logged, and kept in
// a ring buffer so the most recent lines can be attached to a failure
// diagnostic.
type StderrHandler struct {
	logger  *slog.Logger
	verbose bool

	mu      sync.Mutex
	buffer  []string // ring buffer of recent lines
	bufIdx  int
	partial bytes.Buffer // trailing bytes of an unterminated line
}

// NewStderrHandler creates a new stderr handler.
func NewStderrHandler(logger *slog.Logger, verbose bool) *StderrHandler {
	return &StderrHandler{
		logger:  logger,
		verbose: verbose,
		buffer:  make([]string, MaxBufferedLines),
	}
}

// Write implements io.Writer. Chunks may arrive split anywhere, so a
// trailing unterminated line is held back until its newline arrives or
// Flush is called.
func (h *StderrHandler) Write(p []byte) (int, error) {
	h.mu.Lock()
	h.partial.Write(p)
	var lines []string
	for {
		data := h.partial.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, string(data[:idx]))
		h.partial.Next(idx + 1)
	}
	h.mu.Unlock()

	for _, line := range lines {
		h.handleLine(line)
	}
	return len(p), nil
}

// Flush emits any trailing unterminated line. Call once after the
// subordinate has exited.
func (h *StderrHandler) Flush() {
	h.mu.Lock()
	rest := h.partial.String()
	h.partial.Reset()
	h.mu.Unlock()

	if rest != "" {
		h.handleLine(rest)
	}
}

// handleLine records and logs a single line of stderr output.
func (h *StderrHandler) handleLine(line string) {
	if len(line) > MaxLineLength {
		line = line[:MaxLineLength] + "...(truncated)"
	}

	h.mu.Lock()
	h.buffer[h.bufIdx] = line
	h.bufIdx = (h.bufIdx + 1) % MaxBufferedLines
	h.mu.Unlock()

	level := classifyLine(line)
	if !h.verbose && level == slog.LevelDebug {
		return
	}
	h.logger.Log(context.Background(), level, "subordinate_stderr", "line", line)
}

// classifyLine determines the log level for a line based on content.
func classifyLine(line string) slog.Level {
	lower := strings.ToLower(line)

	if strings.Contains(lower, "panic") ||
		strings.Contains(lower, "fatal") ||
		strings.Contains(lower, "error") {
		return slog.LevelWarn
	}

	if strings.Contains(lower, "warn") {
		return slog.LevelWarn
	}

	return slog.LevelDebug
}

// RecentLines returns up to n of the most recent stderr lines, oldest
// first.
func (h *StderrHandler) RecentLines(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > MaxBufferedLines {
		n = MaxBufferedLines
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.bufIdx - n + i + MaxBufferedLines) % MaxBufferedLines
		if h.buffer[idx] != "" {
			lines = append(lines, h.buffer[idx])
		}
	}
	return lines
}
