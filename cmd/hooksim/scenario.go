package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// callSpec is one simulated account execution.
type callSpec struct {
	Token  uint64         // id of the token owning the account
	Caller common.Address // who requests the execution
	To     common.Address // call target
	Value  uint64         // native currency attached
	Data   hexutil.Bytes  // call payload, selector derived from its head
	Revert bool           // force the simulated target call to fail
}

type scenarioFile struct {
	Calls []callSpec
}

func loadScenario(filename string) (*scenarioFile, error) {
	var scenario scenarioFile
	if err := loadTOMLConfig(filename, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}
