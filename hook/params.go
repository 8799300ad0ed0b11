package hook

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Params is the immutable snapshot of one account execution, passed to both
// hook phases. Success and ReturnData are only meaningful in the after
// phase; a before invocation must ignore them.
type Params struct {
	TokenID  *big.Int       // id of the token owning the executing account
	Account  common.Address // the executing account
	Caller   common.Address // who requested the execution
	To       common.Address // target of the call
	Value    *big.Int       // native currency attached to the call
	Selector [4]byte        // first 4 bytes of the call payload
	Data     []byte         // full call payload

	Success    bool   // outcome of the target call (after phase only)
	ReturnData []byte // output of the target call (after phase only)
}

// TokenKey returns the fixed-size key form of the token id, used by hooks to
// address their per-token state.
func (p *Params) TokenKey() common.Hash {
	if p.TokenID == nil {
		return common.Hash{}
	}
	return common.BigToHash(p.TokenID)
}

// CallSelector extracts the 4-byte method selector from a call payload,
// returning the zero selector for payloads shorter than 4 bytes.
func CallSelector(data []byte) (id [4]byte) {
	if len(data) >= 4 {
		copy(id[:], data[:4])
	}
	return id
}
