//
// Created on 2023/6/12 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

package hook

import (
	"github.com/ethereum/go-ethereum/common"
)

var zeroMagic [4]byte

// BeforeFunc carries the policy logic of a before phase. Returning nil lets
// the target call proceed; any error aborts the operation before the call.
type BeforeFunc func(params *Params) error

// AfterFunc carries the policy logic of an after phase. Any error rolls the
// whole operation back, including the already performed target call.
type AfterFunc func(params *Params) error

// BasePolicy is the shared scaffolding of every hook: it pins the bound
// authority and fails both phases with ErrNotImplemented unless a variant
// overrides them. The authorization gate always runs first, so a stranger
// probing an unimplemented phase still observes ErrUnauthorized.
type BasePolicy struct {
	authority common.Address
}

func NewBasePolicy(authority common.Address) BasePolicy {
	return BasePolicy{authority: authority}
}

// Authority returns the sole address permitted to invoke the hook phases.
func (b *BasePolicy) Authority() common.Address {
	return b.authority
}

// Guard rejects any sender other than the bound authority. Variants call it
// before running any hook-specific logic.
func (b *BasePolicy) Guard(sender common.Address) error {
	if sender != b.authority {
		return ErrUnauthorized
	}
	return nil
}

func (b *BasePolicy) Permissions() PermissionSet {
	return PermissionSet{}
}

func (b *BasePolicy) BeforeExecute(sender common.Address, params *Params) ([4]byte, error) {
	if err := b.Guard(sender); err != nil {
		return zeroMagic, err
	}
	return zeroMagic, ErrNotImplemented
}

func (b *BasePolicy) AfterExecute(sender common.Address, params *Params) ([4]byte, error) {
	if err := b.Guard(sender); err != nil {
		return zeroMagic, err
	}
	return zeroMagic, ErrNotImplemented
}

// BeforeOnlyHook binds a before callback to a fixed before-only permission
// declaration. The after phase stays stubbed out by BasePolicy, so declaring
// a phase without implementing it is structurally impossible.
type BeforeOnlyHook struct {
	BasePolicy
	beforeFn BeforeFunc
}

func NewBeforeOnlyHook(authority common.Address, fn BeforeFunc) *BeforeOnlyHook {
	return &BeforeOnlyHook{BasePolicy: NewBasePolicy(authority), beforeFn: fn}
}

func (h *BeforeOnlyHook) Permissions() PermissionSet {
	return PermissionSet{BeforeExecute: true}
}

func (h *BeforeOnlyHook) BeforeExecute(sender common.Address, params *Params) ([4]byte, error) {
	if err := h.Guard(sender); err != nil {
		return zeroMagic, err
	}
	if err := h.beforeFn(params); err != nil {
		return zeroMagic, err
	}
	return MagicValue, nil
}

// AfterOnlyHook binds an after callback to a fixed after-only permission
// declaration, with the before phase stubbed out.
type AfterOnlyHook struct {
	BasePolicy
	afterFn AfterFunc
}

func NewAfterOnlyHook(authority common.Address, fn AfterFunc) *AfterOnlyHook {
	return &AfterOnlyHook{BasePolicy: NewBasePolicy(authority), afterFn: fn}
}

func (h *AfterOnlyHook) Permissions() PermissionSet {
	return PermissionSet{AfterExecute: true}
}

func (h *AfterOnlyHook) AfterExecute(sender common.Address, params *Params) ([4]byte, error) {
	if err := h.Guard(sender); err != nil {
		return zeroMagic, err
	}
	if err := h.afterFn(params); err != nil {
		return zeroMagic, err
	}
	return MagicValue, nil
}

// FullHook binds both callbacks and declares both phases.
type FullHook struct {
	BasePolicy
	beforeFn BeforeFunc
	afterFn  AfterFunc
}

func NewFullHook(authority common.Address, beforeFn BeforeFunc, afterFn AfterFunc) *FullHook {
	return &FullHook{BasePolicy: NewBasePolicy(authority), beforeFn: beforeFn, afterFn: afterFn}
}

func (h *FullHook) Permissions() PermissionSet {
	return PermissionSet{BeforeExecute: true, AfterExecute: true}
}

func (h *FullHook) BeforeExecute(sender common.Address, params *Params) ([4]byte, error) {
	if err := h.Guard(sender); err != nil {
		return zeroMagic, err
	}
	if err := h.beforeFn(params); err != nil {
		return zeroMagic, err
	}
	return MagicValue, nil
}

func (h *FullHook) AfterExecute(sender common.Address, params *Params) ([4]byte, error) {
	if err := h.Guard(sender); err != nil {
		return zeroMagic, err
	}
	if err := h.afterFn(params); err != nil {
		return zeroMagic, err
	}
	return MagicValue, nil
}
