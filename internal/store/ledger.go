package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LedgerFile is the completion ledger's filename inside the output
// directory.
const LedgerFile = ".annotated.txt"

// Ledger is the append-only set of completed image identities, persisted
// as a newline-delimited file. The snapshot read at open time decides
// resume skipping; identities appended during the run extend the
// duplicate check but never the snapshot, so images completed in the
// current run stay reachable through backward navigation.
type Ledger struct {
	path    string
	initial map[string]struct{}
	all     map[string]struct{}
}

// OpenLedger reads the ledger at path. A missing file is an empty ledger.
func OpenLedger(path string) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		initial: make(map[string]struct{}),
		all:     make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		l.initial[id] = struct{}{}
		l.all[id] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return l, nil
}

// CompletedAtStart reports membership in the snapshot read by OpenLedger.
func (l *Ledger) CompletedAtStart(id string) bool {
	_, ok := l.initial[id]
	return ok
}

// Contains reports membership in the full set, appends included.
func (l *Ledger) Contains(id string) bool {
	_, ok := l.all[id]
	return ok
}

// Len returns the number of recorded identities.
func (l *Ledger) Len() int {
	return len(l.all)
}

// Append records a new identity, flushing one line to the ledger file.
// Identities already recorded are ignored.
func (l *Ledger) Append(id string) error {
	if _, ok := l.all[id]; ok {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	if _, err := f.WriteString(id + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to append to ledger: %w", err)
	}

	l.all[id] = struct{}{}
	return nil
}
