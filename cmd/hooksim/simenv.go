package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var errExecutionReverted = errors.New("execution reverted")

// simEnv is a journaled stand-in for the host call environment: target calls
// credit an in-memory balance sheet, snapshots deep-copy it, and reward
// transfers are accepted unless told to fail.
type simEnv struct {
	balances  map[common.Address]*big.Int
	snapshots []map[common.Address]*big.Int

	revertNext    bool // fail the next target call
	transfersFail bool // reject reward transfers
	rewardsSent   int
}

func newSimEnv() *simEnv {
	return &simEnv{balances: make(map[common.Address]*big.Int)}
}

func (env *simEnv) Snapshot() int {
	balances := make(map[common.Address]*big.Int, len(env.balances))
	for addr, bal := range env.balances {
		balances[addr] = new(big.Int).Set(bal)
	}
	env.snapshots = append(env.snapshots, balances)
	return len(env.snapshots) - 1
}

func (env *simEnv) RevertToSnapshot(revid int) {
	if revid < 0 || revid >= len(env.snapshots) {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	env.balances = env.snapshots[revid]
	env.snapshots = env.snapshots[:revid]
}

func (env *simEnv) Call(to common.Address, value *big.Int, data []byte) ([]byte, error) {
	if env.revertNext {
		env.revertNext = false
		return nil, errExecutionReverted
	}
	if value != nil && value.Sign() > 0 {
		bal := env.balances[to]
		if bal == nil {
			bal = new(big.Int)
			env.balances[to] = bal
		}
		bal.Add(bal, value)
	}
	return nil, nil
}

// SendCall accepts packed reward transfers on behalf of the token contract.
func (env *simEnv) SendCall(contract common.Address, input []byte) error {
	if env.transfersFail {
		return errExecutionReverted
	}
	env.rewardsSent++
	return nil
}
