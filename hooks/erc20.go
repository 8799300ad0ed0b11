package hooks

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20TransferABI = `[{"constant":false,"inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

// ContractBackend submits a packed contract call to the host environment.
type ContractBackend interface {
	SendCall(contract common.Address, input []byte) error
}

// ERC20Transferor pays rewards by packing canonical transfer(address,uint256)
// calls and submitting them through a backend.
type ERC20Transferor struct {
	backend ContractBackend
	abi     abi.ABI
}

func NewERC20Transferor(backend ContractBackend) (*ERC20Transferor, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		return nil, err
	}
	return &ERC20Transferor{backend: backend, abi: parsed}, nil
}

func (t *ERC20Transferor) TransferToken(token common.Address, to common.Address, amount *big.Int) error {
	input, err := t.abi.Pack("transfer", to, amount)
	if err != nil {
		return err
	}
	return t.backend.SendCall(token, input)
}
