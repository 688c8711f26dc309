package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
)

// Store is the append-only expense record store. Writes are single
// attempts with no idempotency key; only the scans are safe to retry.
type Store interface {
	Append(ctx context.Context, item models.ExpenseItem, currency string) (models.ExpenseRecord, error)
	ScanAll(ctx context.Context) ([]models.ExpenseRecord, error)
	ScanMonth(ctx context.Context, year int, month time.Month) ([]models.ExpenseRecord, error)
	Close() error
}

// StoreError wraps read/write failures against a backend.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
