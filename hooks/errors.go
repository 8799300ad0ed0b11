//
// Created on 2023/6/13 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

package hooks

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrLimitNotConfigured is returned when a value-bearing call reaches a
	// spending limit hook with no daily limit set for the token.
	ErrLimitNotConfigured = errors.New("daily spending limit not configured")
)

// TargetNotWhitelistedError is returned by the whitelist hook when the call
// target is not allowed for the token.
type TargetNotWhitelistedError struct {
	Token  *big.Int
	Target common.Address
}

func (e *TargetNotWhitelistedError) Error() string {
	return fmt.Sprintf("target %s not whitelisted for token %v", e.Target, e.Token)
}

// ExceedsDailyLimitError is returned by the spending limit hook when a call
// value exceeds the remaining daily allowance, reporting the remaining
// allowance at the time of failure so callers can retry with an adjusted
// value.
type ExceedsDailyLimitError struct {
	Requested *big.Int
	Remaining *big.Int
}

func (e *ExceedsDailyLimitError) Error() string {
	return fmt.Sprintf("exceeds daily limit: requested %v, remaining %v", e.Requested, e.Remaining)
}
