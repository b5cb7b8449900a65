package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger  = zap.NewNop()
	file    *os.File
	mu      sync.RWMutex
	enabled bool
)

// DefaultPath is ~/.config/go-piano/debug.log
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-piano", "debug.log")
}

// Enable starts debug logging to path (truncated). The terminal belongs to
// the TUI, so logs only ever go to a file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), zapcore.DebugLevel)

	file = f
	logger = zap.New(core)
	enabled = true

	logger.Named("debug").Info("=== Debug logging started ===")
	return nil
}

// Disable flushes and closes the log file
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		_ = logger.Sync()
		file.Close()
		file = nil
	}
	logger = zap.NewNop()
	enabled = false
}

// Enabled reports whether logs are being written
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the underlying zap logger (a no-op when disabled)
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if !enabled {
		return
	}
	logger.Named(category).Sugar().Debugf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events).
// n <= 1 logs every call.
var (
	countersMu sync.Mutex
	counters   = make(map[string]int)
)

func LogEvery(n int, category, format string, args ...any) {
	if n <= 1 {
		Log(category, format, args...)
		return
	}

	countersMu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	countersMu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
