package logdb

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Record is one immutable execution log entry. Value must be non-nil when a
// record is written; the codec normalizes a missing value to zero on read.
type Record struct {
	Time     uint64         // unix timestamp of the after phase
	Caller   common.Address // who requested the execution
	To       common.Address // target of the call
	Value    *big.Int       // native currency attached
	Selector [4]byte        // 4-byte method id of the call
	Success  bool           // outcome of the target call
}
