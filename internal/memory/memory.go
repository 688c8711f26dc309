// Package memory keeps a bounded rolling window of conversation turns per
// chat. It is process-wide state with no persistence: restarts wipe it,
// which is fine because the store, not the memory, is the audit trail.
package memory

import (
	"sync"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/gateway"
)

const DefaultMaxTurns = 8

// Memory holds the most recent turns of every conversation, oldest evicted
// first. Interleaved appends from the same chat are last-write-wins; good
// enough for a single-user assistant, not for a shared one.
type Memory struct {
	mu       sync.Mutex
	maxTurns int
	turns    map[int64][]gateway.Turn
}

func New(maxTurns int) *Memory {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Memory{
		maxTurns: maxTurns,
		turns:    make(map[int64][]gateway.Turn),
	}
}

// Append records a turn and trims the conversation to the bound.
func (m *Memory) Append(chatID int64, role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hist := append(m.turns[chatID], gateway.Turn{Role: role, Content: content})
	if len(hist) > m.maxTurns {
		hist = hist[len(hist)-m.maxTurns:]
	}
	m.turns[chatID] = hist
}

// Get returns a copy of the conversation, chronological order. Unknown
// chats yield an empty slice, never an error.
func (m *Memory) Get(chatID int64) []gateway.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	hist := m.turns[chatID]
	out := make([]gateway.Turn, len(hist))
	copy(out, hist)
	return out
}
