//
// Created on 2023/6/13 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

// Package hooks provides the reference policy hooks of the account hook
// framework: call target whitelisting, daily spending limits, reward
// distribution and execution logging.
package hooks

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/verichains/account-hooks/hook"
)

// WhitelistHook gates account executions on a per-token list of allowed call
// targets. The before phase fails with TargetNotWhitelistedError unless the
// target was explicitly allowed.
//
// The admin mutators carry no caller restriction: any caller can reconfigure
// any token's whitelist. Deployments wanting owner gating are expected to
// wrap them.
type WhitelistHook struct {
	*hook.BeforeOnlyHook

	mtx       sync.RWMutex
	whitelist map[common.Hash]map[common.Address]bool
	feed      event.Feed
}

func NewWhitelistHook(authority common.Address) *WhitelistHook {
	h := &WhitelistHook{
		whitelist: make(map[common.Hash]map[common.Address]bool),
	}
	h.BeforeOnlyHook = hook.NewBeforeOnlyHook(authority, h.checkTarget)
	return h
}

func (h *WhitelistHook) checkTarget(params *hook.Params) error {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	if !h.whitelist[params.TokenKey()][params.To] {
		return &TargetNotWhitelistedError{Token: params.TokenID, Target: params.To}
	}
	return nil
}

// SetWhitelist marks a single call target as allowed or disallowed for the
// token and emits a change event.
func (h *WhitelistHook) SetWhitelist(token *big.Int, target common.Address, allowed bool) {
	key := common.BigToHash(token)
	h.mtx.Lock()
	targets := h.whitelist[key]
	if targets == nil {
		targets = make(map[common.Address]bool)
		h.whitelist[key] = targets
	}
	targets[target] = allowed
	h.mtx.Unlock()

	log.Debug("Whitelist updated", "token", key, "target", target, "allowed", allowed)
	h.feed.Send(WhitelistChangeEvent{Token: key, Target: target, Allowed: allowed})
}

// BatchWhitelist marks every listed target as allowed for the token,
// emitting one change event per target.
func (h *WhitelistHook) BatchWhitelist(token *big.Int, targets []common.Address) {
	for _, target := range targets {
		h.SetWhitelist(token, target, true)
	}
}

// IsWhitelisted reports whether a call target is currently allowed for the
// token.
func (h *WhitelistHook) IsWhitelisted(token *big.Int, target common.Address) bool {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return h.whitelist[common.BigToHash(token)][target]
}

// SubscribeWhitelistChanges sends whitelist updates to the given channel.
func (h *WhitelistHook) SubscribeWhitelistChanges(ch chan<- WhitelistChangeEvent) event.Subscription {
	return h.feed.Subscribe(ch)
}
