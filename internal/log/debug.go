// Package log provides debug logging for gcommit. Messages are buffered in
// memory until a log file is configured, then flushed to it; without a
// configured file everything is discarded at startup.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter buffers debug output until a destination file is known.
// It implements io.Writer so it can back a standard log.Logger.
type debugWriter struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	discard bool
}

var (
	writer = &debugWriter{}
	logger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer. Output goes to the file when one is set,
// otherwise it is buffered for a later SetFile call.
func (w *debugWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.discard {
		return len(p), nil
	}

	if w.file != nil {
		n, err := w.file.Write(p)
		// Flush immediately so the log survives a hard exit.
		_ = w.file.Sync()
		return n, err
	}

	// p may be reused by the caller, copy before buffering.
	b := make([]byte, len(p))
	copy(b, p)
	w.pending = append(w.pending, b...)
	return len(p), nil
}

// SetFile directs debug output to the given path, creating the file if
// needed and flushing any buffered messages into it. An empty path discards
// buffered and future messages.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}

	if path == "" {
		writer.discard = true
		writer.pending = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		writer.discard = true
		writer.pending = nil
		return err
	}

	writer.file = f
	writer.discard = false

	if len(writer.pending) > 0 {
		_, _ = f.Write(writer.pending)
		_ = f.Sync()
		writer.pending = nil
	}

	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	logger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	logger.Println(v...)
}

// Close closes the debug log file if one is open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}

	err := writer.file.Close()
	writer.file = nil
	return err
}
