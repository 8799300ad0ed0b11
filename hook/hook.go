//
// Created on 2023/6/12 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

// Package hook defines the contract between a token bound account executor
// and the policy hooks it invokes around every account call. A hook declares
// which of the two lifecycle phases it participates in, is bound to a single
// authority allowed to invoke it, and confirms every successful invocation
// by returning a fixed 4-byte magic value.
package hook

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MagicValue is the sentinel every successful hook invocation must return,
// derived from the callback signature the same way a function selector is.
// Returning anything else tells the executor the callee is not a conforming
// hook, even if it did not report an error.
var MagicValue = selector("executeHook(bytes32,address,address,address,uint256,bytes4,bytes)")

func selector(sig string) (id [4]byte) {
	copy(id[:], crypto.Keccak256([]byte(sig)))
	return id
}

// Hook is implemented by every policy module attached to an account.
//
// BeforeExecute runs prior to the target call; a non-nil error instructs the
// executor to abort the operation before the call is made. AfterExecute runs
// once the target call completed, with Success and ReturnData populated; a
// non-nil error instructs the executor to roll the whole operation back,
// including the already performed call. Both phases must return MagicValue
// on success and must reject any sender other than the bound authority.
type Hook interface {
	Permissions() PermissionSet
	BeforeExecute(sender common.Address, params *Params) ([4]byte, error)
	AfterExecute(sender common.Address, params *Params) ([4]byte, error)
}

// Snapshotter is an optional capability of hooks that mutate their own state
// during a phase. The executor snapshots every such hook before driving an
// operation and reverts them all if any stage fails, which keeps the
// before -> call -> after sequence atomic even though hook state lives
// outside the call environment.
// Snapshot captures the hook's state and returns a revision id. The host
// must finish every operation by calling either RevertToSnapshot (failure)
// or DiscardSnapshot (success) with that id; both drop the revision and all
// later ones.
type Snapshotter interface {
	Snapshot() int
	RevertToSnapshot(revid int)
	DiscardSnapshot(revid int)
}
