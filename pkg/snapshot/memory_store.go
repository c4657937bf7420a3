package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-statestore/value"
)

// MemoryStore is an in-memory Store intended for tests and examples. It keeps
// frozen deep copies so saved snapshots cannot be changed behind its back.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	state *value.Map
	meta  Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Load(ctx context.Context, ref Ref) (*value.Map, Meta, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, Meta{}, false, err
	}
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return record.state, record.meta, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, ref Ref, state *value.Map, meta Meta) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if state == nil {
		state = value.NewMap()
	}
	frozen := value.DeepFreeze(value.Clone(state))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		if err := checkETag(meta.ETag, existing.meta.ETag); err != nil {
			return existing.meta, err
		}
	}
	saved := nextMeta(s.now())
	s.records[key] = memoryRecord{state: frozen, meta: saved}
	return saved, nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
