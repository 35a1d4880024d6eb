package tags

import "sync"

// Store is the ordered, channel-keyed collection of tag records. It is the
// single source of truth for summaries and form pre-fill.
type Store struct {
	mu      sync.RWMutex
	records []ChannelRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll swaps the whole collection. When records repeats a channel the
// entry keeps the first position and the last value.
func (s *Store) ReplaceAll(records []ChannelRecord) {
	next := make([]ChannelRecord, 0, len(records))
	index := make(map[int]int, len(records))
	for _, rec := range records {
		rec = rec.normalized()
		if i, ok := index[rec.Channel]; ok {
			next[i] = rec
			continue
		}
		index[rec.Channel] = len(next)
		next = append(next, rec)
	}

	s.mu.Lock()
	s.records = next
	s.mu.Unlock()
}

// Upsert replaces the record with the same channel in place, or appends it.
func (s *Store) Upsert(record ChannelRecord) {
	record = record.normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Channel == record.Channel {
			s.records[i] = record
			return
		}
	}
	s.records = append(s.records, record)
}

// Get returns the record for channel. A missing channel is not an error;
// callers render nothing special for it.
func (s *Store) Get(channel int) (ChannelRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.Channel == channel {
			return rec.normalized(), true
		}
	}
	return ChannelRecord{}, false
}

// All returns a copy of the records in collection order.
func (s *Store) All() []ChannelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChannelRecord, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.normalized()
	}
	return out
}

// Len returns the number of channels held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
