package khalon

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// TransactionLog is an append-only text journal of economy activity: one
// line per entry, an ISO-8601 timestamp in brackets followed by a free-text
// description. Entries are write-once, total ordering is append order.
type TransactionLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewTransactionLog creates a log appending to the file at path. The file is
// created on the first append.
func NewTransactionLog(path string) *TransactionLog {
	return &TransactionLog{path: path, now: time.Now}
}

// Printf appends one formatted entry. Failures are reported as ErrStoreWrite;
// the log is never partially rewritten or truncated.
func (t *TransactionLog) Printf(format string, args ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open transaction log %q: %v: %w", t.path, err, ErrStoreWrite)
	}
	defer f.Close()

	stamp := t.now().UTC().Format(time.RFC3339)
	if _, err := fmt.Fprintf(f, "[%s] %s\n", stamp, fmt.Sprintf(format, args...)); err != nil {
		return fmt.Errorf("could not append to transaction log %q: %v: %w", t.path, err, ErrStoreWrite)
	}
	return nil
}

// Tail returns the last n entries, oldest first. A missing log file yields no
// entries and no error.
func (t *TransactionLog) Tail(n int) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open transaction log %q: %w", t.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read transaction log %q: %w", t.path, err)
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
