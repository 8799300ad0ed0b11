//
// Created on 2023/6/13 by khanghh
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
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/verichains/account-hooks/hook"
)

const secondsPerDay = 86400

// spendState tracks one token's allowance within the current day bucket.
// Invariant: spent <= limit once lastResetDay equals the current bucket.
type spendState struct {
	limit        *big.Int
	spent        *big.Int
	lastResetDay uint64
}

func (s *spendState) copy() *spendState {
	return &spendState{
		limit:        new(big.Int).Set(s.limit),
		spent:        new(big.Int).Set(s.spent),
		lastResetDay: s.lastResetDay,
	}
}

// SpendingLimitHook caps the native value an account may attach to calls per
// UTC day and token. The debit is committed optimistically in the before
// phase; the executor's rollback undoes it if any later stage fails. The
// allowance resets lazily on the first value-bearing call of a new day
// bucket, there is no background timer.
//
// SetDailyLimit carries no caller restriction, matching the whitelist hook's
// admin surface.
type SpendingLimitHook struct {
	*hook.BeforeOnlyHook

	mtx       sync.Mutex
	states    map[common.Hash]*spendState
	snapshots []map[common.Hash]*spendState
	feed      event.Feed

	nowFn func() time.Time // overridable in tests
}

func NewSpendingLimitHook(authority common.Address) *SpendingLimitHook {
	h := &SpendingLimitHook{
		states: make(map[common.Hash]*spendState),
		nowFn:  time.Now,
	}
	h.BeforeOnlyHook = hook.NewBeforeOnlyHook(authority, h.checkSpend)
	return h
}

func (h *SpendingLimitHook) today() uint64 {
	return uint64(h.nowFn().Unix()) / secondsPerDay
}

func (h *SpendingLimitHook) checkSpend(params *hook.Params) error {
	// Zero-value calls bypass the limit logic entirely.
	if params.Value == nil || params.Value.Sign() == 0 {
		return nil
	}
	ev, err := h.commitSpend(params)
	if err != nil {
		return err
	}
	log.Debug("Spending recorded", "token", ev.Token, "value", ev.Value, "remaining", ev.Remaining)
	h.feed.Send(ev)
	return nil
}

func (h *SpendingLimitHook) commitSpend(params *hook.Params) (SpendingRecordedEvent, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	key := params.TokenKey()
	state := h.states[key]
	if state == nil || state.limit.Sign() == 0 {
		return SpendingRecordedEvent{}, ErrLimitNotConfigured
	}
	if today := h.today(); today > state.lastResetDay {
		state.spent = new(big.Int)
		state.lastResetDay = today
	}
	remaining := new(big.Int).Sub(state.limit, state.spent)
	if params.Value.Cmp(remaining) > 0 {
		return SpendingRecordedEvent{}, &ExceedsDailyLimitError{
			Requested: new(big.Int).Set(params.Value),
			Remaining: remaining,
		}
	}
	state.spent.Add(state.spent, params.Value)
	return SpendingRecordedEvent{
		Token:     key,
		Value:     new(big.Int).Set(params.Value),
		Remaining: new(big.Int).Sub(state.limit, state.spent),
	}, nil
}

// SetDailyLimit configures the token's daily allowance. The amount already
// spent today is retained; lowering the limit below it only blocks further
// spending.
func (h *SpendingLimitHook) SetDailyLimit(token *big.Int, limit *big.Int) {
	key := common.BigToHash(token)
	h.mtx.Lock()
	defer h.mtx.Unlock()
	state := h.states[key]
	if state == nil {
		state = &spendState{spent: new(big.Int), lastResetDay: h.today()}
		h.states[key] = state
	}
	state.limit = new(big.Int).Set(limit)
	log.Debug("Daily spending limit updated", "token", key, "limit", limit)
}

// RemainingAllowance returns the value still spendable today for the token,
// without mutating any state. A stale day bucket counts as a full allowance.
func (h *SpendingLimitHook) RemainingAllowance(token *big.Int) *big.Int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	state := h.states[common.BigToHash(token)]
	if state == nil {
		return new(big.Int)
	}
	if h.today() > state.lastResetDay {
		return new(big.Int).Set(state.limit)
	}
	return new(big.Int).Sub(state.limit, state.spent)
}

// SubscribeSpendingRecords sends committed debits to the given channel.
func (h *SpendingLimitHook) SubscribeSpendingRecords(ch chan<- SpendingRecordedEvent) event.Subscription {
	return h.feed.Subscribe(ch)
}

// Snapshot captures the current allowance state of every token.
func (h *SpendingLimitHook) Snapshot() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	states := make(map[common.Hash]*spendState, len(h.states))
	for key, state := range h.states {
		states[key] = state.copy()
	}
	h.snapshots = append(h.snapshots, states)
	return len(h.snapshots) - 1
}

// RevertToSnapshot restores the allowance state captured by Snapshot,
// discarding it and every later snapshot.
func (h *SpendingLimitHook) RevertToSnapshot(revid int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if revid < 0 || revid >= len(h.snapshots) {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	h.states = h.snapshots[revid]
	h.snapshots = h.snapshots[:revid]
}

// DiscardSnapshot drops the given snapshot and every later one without
// restoring any state.
func (h *SpendingLimitHook) DiscardSnapshot(revid int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if revid >= 0 && revid <= len(h.snapshots) {
		h.snapshots = h.snapshots[:revid]
	}
}
