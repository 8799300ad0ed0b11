//
// Created on 2023/6/14 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

package hooks

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"

	"github.com/verichains/account-hooks/hook"
	"github.com/verichains/account-hooks/logdb"
)

// ExecutionLoggerHook keeps an append-only audit trail of every execution,
// successful or not, per token. The before phase is a guarded no-op reserved
// for future use; the after phase appends one record and bumps the token's
// counter. Records persist in the supplied key-value store and a token's log
// grows without bound.
type ExecutionLoggerHook struct {
	*hook.FullHook

	mtx   sync.Mutex
	store *logdb.LogStore
	feed  event.Feed

	// journal tracks appends made while a snapshot is outstanding so a
	// rollback can truncate exactly what the aborted operation added.
	journal   []common.Hash
	snapshots []int

	nowFn func() time.Time // overridable in tests
}

func NewExecutionLoggerHook(authority common.Address, db ethdb.KeyValueStore) *ExecutionLoggerHook {
	h := &ExecutionLoggerHook{
		store: logdb.NewLogStore(db),
		nowFn: time.Now,
	}
	h.FullHook = hook.NewFullHook(authority, h.beforeExecution, h.logExecution)
	return h
}

func (h *ExecutionLoggerHook) beforeExecution(params *hook.Params) error {
	return nil
}

func (h *ExecutionLoggerHook) logExecution(params *hook.Params) error {
	value := new(big.Int)
	if params.Value != nil {
		value.Set(params.Value)
	}
	rec := &logdb.Record{
		Time:     uint64(h.nowFn().Unix()),
		Caller:   params.Caller,
		To:       params.To,
		Value:    value,
		Selector: params.Selector,
		Success:  params.Success,
	}
	key := params.TokenKey()
	h.mtx.Lock()
	index := h.store.Append(key, rec)
	if len(h.snapshots) > 0 {
		h.journal = append(h.journal, key)
	}
	h.mtx.Unlock()

	h.feed.Send(ExecutionLoggedEvent{Token: key, Index: index, Record: rec})
	return nil
}

// ExecutionCount returns the number of records logged for the token.
func (h *ExecutionLoggerHook) ExecutionCount(token *big.Int) uint64 {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.store.Count(common.BigToHash(token))
}

// GetHistory returns the token's records in [offset, min(offset+limit,
// total)) in insertion order. An offset at or past the end yields an empty
// slice.
func (h *ExecutionLoggerHook) GetHistory(token *big.Int, offset, limit uint64) []*logdb.Record {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.store.Range(common.BigToHash(token), offset, limit)
}

// SubscribeExecutionLogs sends appended records to the given channel.
func (h *ExecutionLoggerHook) SubscribeExecutionLogs(ch chan<- ExecutionLoggedEvent) event.Subscription {
	return h.feed.Subscribe(ch)
}

// Snapshot marks the current journal position.
func (h *ExecutionLoggerHook) Snapshot() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if len(h.snapshots) == 0 {
		h.journal = h.journal[:0]
	}
	h.snapshots = append(h.snapshots, len(h.journal))
	return len(h.snapshots) - 1
}

// RevertToSnapshot truncates every record appended since the snapshot was
// taken, discarding it and every later snapshot.
func (h *ExecutionLoggerHook) RevertToSnapshot(revid int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if revid < 0 || revid >= len(h.snapshots) {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	for i := len(h.journal) - 1; i >= h.snapshots[revid]; i-- {
		key := h.journal[i]
		h.store.Truncate(key, h.store.Count(key)-1)
	}
	h.journal = h.journal[:h.snapshots[revid]]
	h.snapshots = h.snapshots[:revid]
}

func (h *ExecutionLoggerHook) DiscardSnapshot(revid int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if revid >= 0 && revid <= len(h.snapshots) {
		h.snapshots = h.snapshots[:revid]
	}
}
