package logdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	lru "github.com/hashicorp/golang-lru"
)

// recordCacheSize bounds the number of decoded records kept in memory for
// repeated history reads.
const recordCacheSize = 4096

// LogStore is the append-only execution log of all tokens, backed by a
// key-value store with a small read cache in front of it. A token's log
// grows without bound; pruning is deliberately not offered since it would
// change what history readers observe.
type LogStore struct {
	db    ethdb.KeyValueStore
	cache *lru.Cache // string(record key) -> *Record
}

func NewLogStore(db ethdb.KeyValueStore) *LogStore {
	cache, _ := lru.New(recordCacheSize)
	return &LogStore{db: db, cache: cache}
}

// Count returns the number of records logged for a token.
func (s *LogStore) Count(token common.Hash) uint64 {
	return ReadExecutionCount(s.db, token)
}

// Append stores a record at the end of the token's log and returns its
// index.
func (s *LogStore) Append(token common.Hash, rec *Record) uint64 {
	index := ReadExecutionCount(s.db, token)
	WriteExecutionLog(s.db, token, index, rec)
	WriteExecutionCount(s.db, token, index+1)
	s.cache.Add(string(executionLogKey(token, index)), rec)
	return index
}

// Record returns the record at the given index, or nil if out of range.
func (s *LogStore) Record(token common.Hash, index uint64) *Record {
	key := string(executionLogKey(token, index))
	if rec, ok := s.cache.Get(key); ok {
		return rec.(*Record)
	}
	rec := ReadExecutionLog(s.db, token, index)
	if rec != nil {
		s.cache.Add(key, rec)
	}
	return rec
}

// Range returns the records in [offset, min(offset+limit, count)) in
// insertion order. An offset at or past the end yields an empty slice.
func (s *LogStore) Range(token common.Hash, offset, limit uint64) []*Record {
	count := s.Count(token)
	if offset >= count {
		return nil
	}
	end := offset + limit
	if end < offset || end > count { // guard the uint64 overflow too
		end = count
	}
	records := make([]*Record, 0, end-offset)
	for index := offset; index < end; index++ {
		rec := s.Record(token, index)
		if rec == nil {
			break
		}
		records = append(records, rec)
	}
	return records
}

// Truncate discards every record at or beyond the given count and resets
// the token's counter to it. Used to unwind records appended by an
// operation that was rolled back.
func (s *LogStore) Truncate(token common.Hash, count uint64) {
	current := s.Count(token)
	for index := count; index < current; index++ {
		DeleteExecutionLog(s.db, token, index)
		s.cache.Remove(string(executionLogKey(token, index)))
	}
	if count < current {
		WriteExecutionCount(s.db, token, count)
	}
}
