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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/verichains/account-hooks/hook"
)

// TokenTransferor performs the actual reward payout. Implementations decide
// what a token transfer means in their deployment.
type TokenTransferor interface {
	TransferToken(token common.Address, to common.Address, amount *big.Int) error
}

// RewardDistributionHook pays a fixed reward to the caller of every
// successful account execution. A failed payout is swallowed: the
// underlying call must not be voided just because the reward transfer
// failed, so this is the one hook that deliberately contains a sub-operation
// failure instead of escalating it.
type RewardDistributionHook struct {
	*hook.AfterOnlyHook

	mtx          sync.Mutex
	transferor   TokenTransferor
	rewardToken  common.Address
	rewardAmount *big.Int
	totals       map[common.Hash]*big.Int
	snapshots    []map[common.Hash]*big.Int
	feed         event.Feed
}

func NewRewardDistributionHook(authority common.Address, transferor TokenTransferor, rewardToken common.Address, rewardAmount *big.Int) *RewardDistributionHook {
	h := &RewardDistributionHook{
		transferor:   transferor,
		rewardToken:  rewardToken,
		rewardAmount: new(big.Int).Set(rewardAmount),
		totals:       make(map[common.Hash]*big.Int),
	}
	h.AfterOnlyHook = hook.NewAfterOnlyHook(authority, h.distribute)
	return h
}

func (h *RewardDistributionHook) distribute(params *hook.Params) error {
	if !params.Success {
		return nil
	}
	if ev, ok := h.payout(params); ok {
		h.feed.Send(ev)
	}
	return nil
}

func (h *RewardDistributionHook) payout(params *hook.Params) (RewardDistributedEvent, bool) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.rewardAmount.Sign() == 0 {
		return RewardDistributedEvent{}, false
	}
	amount := new(big.Int).Set(h.rewardAmount)
	if err := h.transferor.TransferToken(h.rewardToken, params.Caller, amount); err != nil {
		log.Warn("Reward transfer failed", "token", params.TokenKey(), "recipient", params.Caller, "amount", amount, "err", err)
		return RewardDistributedEvent{}, false
	}
	key := params.TokenKey()
	total := h.totals[key]
	if total == nil {
		total = new(big.Int)
		h.totals[key] = total
	}
	total.Add(total, amount)
	return RewardDistributedEvent{Token: key, Recipient: params.Caller, Amount: amount}, true
}

// SetReward reconfigures the reward token and per-execution amount.
func (h *RewardDistributionHook) SetReward(token common.Address, amount *big.Int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.rewardToken = token
	h.rewardAmount = new(big.Int).Set(amount)
	log.Debug("Reward configuration updated", "token", token, "amount", amount)
}

// TotalRewards returns the cumulative rewards paid out for the token.
func (h *RewardDistributionHook) TotalRewards(token *big.Int) *big.Int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	total := h.totals[common.BigToHash(token)]
	if total == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(total)
}

// SubscribeRewardDistributions sends successful payouts to the given
// channel.
func (h *RewardDistributionHook) SubscribeRewardDistributions(ch chan<- RewardDistributedEvent) event.Subscription {
	return h.feed.Subscribe(ch)
}

// Snapshot captures the cumulative reward totals. The payout itself happens
// in the host's call environment, which carries its own rollback.
func (h *RewardDistributionHook) Snapshot() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	totals := make(map[common.Hash]*big.Int, len(h.totals))
	for key, total := range h.totals {
		totals[key] = new(big.Int).Set(total)
	}
	h.snapshots = append(h.snapshots, totals)
	return len(h.snapshots) - 1
}

func (h *RewardDistributionHook) RevertToSnapshot(revid int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if revid < 0 || revid >= len(h.snapshots) {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	h.totals = h.snapshots[revid]
	h.snapshots = h.snapshots[:revid]
}

func (h *RewardDistributionHook) DiscardSnapshot(revid int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if revid >= 0 && revid <= len(h.snapshots) {
		h.snapshots = h.snapshots[:revid]
	}
}
