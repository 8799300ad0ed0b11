//
// Created on 2023/6/15 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

// Package executor provides a reference orchestrator honoring the hook
// dispatch contract: it consults each hook's declared permissions, invokes
// the before phase ahead of the target call and the after phase behind it,
// validates the returned magic value, and rolls the whole operation back on
// any hook failure.
package executor

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/verichains/account-hooks/hook"
)

var (
	// ErrInvalidMagic is returned when a hook reported success without
	// returning the magic value, which marks it as non-conforming.
	ErrInvalidMagic = errors.New("hook returned invalid magic value")
)

var (
	executeCounter  = metrics.NewRegisteredCounter("hooks/executions", nil)
	abortMeter      = metrics.NewRegisteredMeter("hooks/aborts", nil)
	beforeHookTimer = metrics.NewRegisteredTimer("hooks/phase/before", nil)
	afterHookTimer  = metrics.NewRegisteredTimer("hooks/phase/after", nil)
)

// CallEnv is the host-side call and rollback domain. Call performs the
// target call; when it returns an error the call's own effects must already
// be undone by the environment. Snapshot and RevertToSnapshot scope the
// whole operation so the executor can void it on a hook failure.
type CallEnv interface {
	Snapshot() int
	RevertToSnapshot(revid int)
	Call(to common.Address, value *big.Int, data []byte) ([]byte, error)
}

// Executor drives account executions through their registered hooks. Hooks
// are statically known and explicitly registered; there is no discovery and
// hooks have no dependency on each other. The executor identifies itself as
// the authority on every hook invocation, so hooks must be bound to the
// executor's authority address.
type Executor struct {
	authority common.Address

	mtx   sync.RWMutex
	hooks map[common.Address][]hook.Hook
}

func NewExecutor(authority common.Address) *Executor {
	return &Executor{
		authority: authority,
		hooks:     make(map[common.Address][]hook.Hook),
	}
}

// Authority returns the identity the executor asserts on hook invocations.
func (e *Executor) Authority() common.Address {
	return e.authority
}

// RegisterHook attaches a hook to an account. Hooks run in registration
// order within each phase.
func (e *Executor) RegisterHook(account common.Address, h hook.Hook) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.hooks[account] = append(e.hooks[account], h)
	if !h.Permissions().Any() {
		log.Warn("Registered hook declares no phases", "account", account)
	}
	log.Debug("Hook registered", "account", account, "permissions", h.Permissions())
}

// Hooks returns the hooks attached to an account in registration order.
func (e *Executor) Hooks(account common.Address) []hook.Hook {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	hooks := make([]hook.Hook, len(e.hooks[account]))
	copy(hooks, e.hooks[account])
	return hooks
}

// Execute runs one account execution within a single rollback domain:
// before hooks, the target call, then after hooks. A non-nil error means a
// hook aborted the operation and every state mutation of the sequence,
// including the target call and any optimistic hook debits, was reverted.
//
// A failed target call is not an error by itself: the after hooks still run
// with Success=false and the outcome is reported through params.Success and
// params.ReturnData.
func (e *Executor) Execute(env CallEnv, params *hook.Params) ([]byte, error) {
	executeCounter.Inc(1)

	hooks := e.Hooks(params.Account)
	revid := env.Snapshot()
	snapshots := make([]int, len(hooks))
	for i, h := range hooks {
		if snap, ok := h.(hook.Snapshotter); ok {
			snapshots[i] = snap.Snapshot()
		}
	}
	revert := func() {
		for i := len(hooks) - 1; i >= 0; i-- {
			if snap, ok := hooks[i].(hook.Snapshotter); ok {
				snap.RevertToSnapshot(snapshots[i])
			}
		}
		env.RevertToSnapshot(revid)
	}
	discard := func() {
		for i := len(hooks) - 1; i >= 0; i-- {
			if snap, ok := hooks[i].(hook.Snapshotter); ok {
				snap.DiscardSnapshot(snapshots[i])
			}
		}
	}

	for _, h := range hooks {
		if !h.Permissions().BeforeExecute {
			continue
		}
		start := time.Now()
		ret, err := h.BeforeExecute(e.authority, params)
		beforeHookTimer.UpdateSince(start)
		if err == nil && ret != hook.MagicValue {
			err = ErrInvalidMagic
		}
		if err != nil {
			abortMeter.Mark(1)
			log.Debug("Execution aborted by before hook", "account", params.Account, "to", params.To, "err", err)
			revert()
			return nil, err
		}
	}

	ret, callErr := env.Call(params.To, params.Value, params.Data)
	params.Success = callErr == nil
	params.ReturnData = ret

	for _, h := range hooks {
		if !h.Permissions().AfterExecute {
			continue
		}
		start := time.Now()
		magic, err := h.AfterExecute(e.authority, params)
		afterHookTimer.UpdateSince(start)
		if err == nil && magic != hook.MagicValue {
			err = ErrInvalidMagic
		}
		if err != nil {
			abortMeter.Mark(1)
			log.Debug("Execution reverted by after hook", "account", params.Account, "to", params.To, "err", err)
			revert()
			return nil, err
		}
	}
	discard()
	return ret, nil
}
