// Package memory holds the process-local verification ledger.
//
// Entries live only in this process: with more than one API instance a code
// sent by one instance cannot be verified by another. Use the redis or dynamo
// ledger for multi-instance deployments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/YogeshxSaini/bluestock/internal/domain"
)

type ledgerKey struct {
	accountID string
	purpose   string
}

// Ledger is a mutex-guarded map of verification entries. Expired entries are
// removed lazily by the caller at verify time; there is no background sweep.
type Ledger struct {
	mu      sync.Mutex
	entries map[ledgerKey]domain.Verification
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[ledgerKey]domain.Verification)}
}

// Put stores v, replacing any entry for the same account and purpose.
func (l *Ledger) Put(_ context.Context, v *domain.Verification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[ledgerKey{v.AccountID, v.Purpose}] = *v
	return nil
}

func (l *Ledger) Get(_ context.Context, accountID, purpose string) (*domain.Verification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.entries[ledgerKey{accountID, purpose}]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

func (l *Ledger) Delete(_ context.Context, accountID, purpose string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, ledgerKey{accountID, purpose})
	return nil
}

// Len returns the number of stored entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Ledger) Ping(context.Context) error { return nil }
