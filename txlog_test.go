package khalon

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestTransactionLog_Printf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.log")
	journal := NewTransactionLog(path)
	journal.now = func() time.Time {
		return time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)
	}

	if err := journal.Printf("%s sent %s to %s", "alice", K(25), "bob"); err != nil {
		t.Fatalf("Printf() error = %v", err)
	}
	if err := journal.Printf("%s bought %d %s for %s", "alice", 3, "KLN", K(30)); err != nil {
		t.Fatalf("Printf() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("journal has %d lines, want 2", len(lines))
	}
	want := "[2024-03-01T12:30:00Z] alice sent 25 Khal to bob"
	if lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}

	// Every line carries a bracketed timestamp prefix.
	re := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z\] `)
	for i, line := range lines {
		if !re.MatchString(line) {
			t.Errorf("line %d = %q, want a timestamp prefix", i, line)
		}
	}
}

func TestTransactionLog_Tail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.log")
	journal := NewTransactionLog(path)

	lines, err := journal.Tail(5)
	if err != nil {
		t.Fatalf("Tail() on missing file error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Tail() on missing file = %v, want empty", lines)
	}

	for i := 1; i <= 4; i++ {
		if err := journal.Printf("entry %d", i); err != nil {
			t.Fatalf("Printf() error = %v", err)
		}
	}

	lines, err = journal.Tail(2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "entry 3") || !strings.HasSuffix(lines[1], "entry 4") {
		t.Errorf("Tail(2) = %v, want the two newest entries oldest first", lines)
	}

	lines, err = journal.Tail(10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 4 {
		t.Errorf("Tail(10) returned %d lines, want all 4", len(lines))
	}

	suffixes := make([]string, len(lines))
	for i, line := range lines {
		suffixes[i] = line[strings.Index(line, "] ")+2:]
	}
	if want := []string{"entry 1", "entry 2", "entry 3", "entry 4"}; !reflect.DeepEqual(suffixes, want) {
		t.Errorf("Tail(10) entries = %v, want %v", suffixes, want)
	}
}
