package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
)

// PartitionKey is the single-tenant partition every record lives in.
const PartitionKey = "USER#default"

const sortKeyPrefix = "EXPENSE#"

// timeLayout is fixed-width and zero-padded so that lexical order over
// sort keys equals chronological order. RFC3339Nano would not do: it drops
// trailing zeros, and "…00Z" sorts after "…00.5Z".
const timeLayout = "2006-01-02T15:04:05.000000Z"

// keyAllocator issues unique, monotonically increasing sort keys. Two
// appends inside the same clock tick get a zero-padded sequence suffix,
// which still sorts after the bare stamp and inside the same month range.
type keyAllocator struct {
	mu        sync.Mutex
	now       func() time.Time
	lastStamp string
	seq       int
}

func newKeyAllocator(now func() time.Time) *keyAllocator {
	if now == nil {
		now = time.Now
	}
	return &keyAllocator{now: now}
}

// next returns a sort key and the created_at stamp embedded in it.
func (a *keyAllocator) next() (sortKey, createdAt string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stamp := a.now().UTC().Format(timeLayout)
	if stamp == a.lastStamp {
		a.seq++
		return fmt.Sprintf("%s%s#%03d", sortKeyPrefix, stamp, a.seq), stamp
	}

	a.lastStamp = stamp
	a.seq = 0
	return sortKeyPrefix + stamp, stamp
}

// monthRange builds the sort-key bounds for one month: inclusive first
// instant of the month, exclusive first instant of the next. AddDate rolls
// December over into January of the following year.
func monthRange(year int, month time.Month) (low, high string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return sortKeyPrefix + start.Format(timeLayout), sortKeyPrefix + end.Format(timeLayout)
}

func newRecord(item models.ExpenseItem, currency, sortKey, createdAt string) models.ExpenseRecord {
	return models.ExpenseRecord{
		PK:                    PartitionKey,
		SK:                    sortKey,
		Amount:                item.Amount,
		DescriptionRaw:        item.DescriptionRaw,
		DescriptionNormalized: item.DescriptionNormalized,
		Category:              item.Category,
		Confidence:            item.Confidence,
		Currency:              currency,
		CreatedAt:             createdAt,
	}
}
