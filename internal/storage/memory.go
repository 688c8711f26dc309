package storage

import (
	"context"
	"sync"
	"time"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
)

// MemoryStorage keeps records in process memory. Used for development and
// tests; same sort-key semantics as the real backends.
type MemoryStorage struct {
	mu      sync.RWMutex
	alloc   *keyAllocator
	records []models.ExpenseRecord
}

func NewMemoryStorage() *MemoryStorage {
	return NewMemoryStorageWithClock(time.Now)
}

// NewMemoryStorageWithClock injects the clock, so tests can pin timestamps
// and force same-instant collisions.
func NewMemoryStorageWithClock(now func() time.Time) *MemoryStorage {
	return &MemoryStorage{alloc: newKeyAllocator(now)}
}

func (s *MemoryStorage) Append(ctx context.Context, item models.ExpenseItem, currency string) (models.ExpenseRecord, error) {
	sk, createdAt := s.alloc.next()
	record := newRecord(item, currency, sk, createdAt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return record, nil
}

func (s *MemoryStorage) ScanAll(ctx context.Context) ([]models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ExpenseRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStorage) ScanMonth(ctx context.Context, year int, month time.Month) ([]models.ExpenseRecord, error) {
	low, high := monthRange(year, month)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ExpenseRecord
	for _, r := range s.records {
		if r.SK >= low && r.SK < high {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
