package hooks

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/verichains/account-hooks/logdb"
)

// WhitelistChangeEvent is emitted whenever a token's whitelist entry is
// updated, either individually or as part of a batch.
type WhitelistChangeEvent struct {
	Token   common.Hash
	Target  common.Address
	Allowed bool
}

// SpendingRecordedEvent is emitted when a before phase commits a debit
// against a token's daily allowance.
type SpendingRecordedEvent struct {
	Token     common.Hash
	Value     *big.Int
	Remaining *big.Int
}

// RewardDistributedEvent is emitted after a reward payout succeeded.
type RewardDistributedEvent struct {
	Token     common.Hash
	Recipient common.Address
	Amount    *big.Int
}

// ExecutionLoggedEvent is emitted when an execution record is appended to a
// token's log.
type ExecutionLoggedEvent struct {
	Token  common.Hash
	Index  uint64
	Record *logdb.Record
}
