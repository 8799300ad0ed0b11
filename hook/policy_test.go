package hook

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

var (
	testAuthority = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	errRejected   = errors.New("rejected by policy")
)

func testParams() *Params {
	return &Params{
		TokenID: big.NewInt(1),
		Account: common.HexToAddress("0xacc0"),
		Caller:  common.HexToAddress("0xca11"),
		To:      common.HexToAddress("0xdead"),
		Value:   big.NewInt(0),
	}
}

func passFn(params *Params) error { return nil }

func failFn(params *Params) error { return errRejected }

func TestVariantPermissions(t *testing.T) {
	base := NewBasePolicy(testAuthority)
	assert.Equal(t, PermissionSet{}, base.Permissions())
	assert.Equal(t, PermissionSet{BeforeExecute: true}, NewBeforeOnlyHook(testAuthority, passFn).Permissions())
	assert.Equal(t, PermissionSet{AfterExecute: true}, NewAfterOnlyHook(testAuthority, passFn).Permissions())
	assert.Equal(t, PermissionSet{BeforeExecute: true, AfterExecute: true}, NewFullHook(testAuthority, passFn, passFn).Permissions())
}

func TestUnauthorizedCaller(t *testing.T) {
	base := NewBasePolicy(testAuthority)
	variants := []Hook{
		&base,
		NewBeforeOnlyHook(testAuthority, passFn),
		NewAfterOnlyHook(testAuthority, passFn),
		NewFullHook(testAuthority, passFn, passFn),
	}
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		var sender common.Address
		rnd.Read(sender[:])
		if sender == testAuthority {
			continue
		}
		for _, h := range variants {
			if _, err := h.BeforeExecute(sender, testParams()); err != ErrUnauthorized {
				t.Fatalf("before phase with sender %s: have %v, want %v", sender, err, ErrUnauthorized)
			}
			if _, err := h.AfterExecute(sender, testParams()); err != ErrUnauthorized {
				t.Fatalf("after phase with sender %s: have %v, want %v", sender, err, ErrUnauthorized)
			}
		}
	}
}

func TestUndeclaredPhaseNotImplemented(t *testing.T) {
	base := NewBasePolicy(testAuthority)
	_, err := base.BeforeExecute(testAuthority, testParams())
	assert.Equal(t, ErrNotImplemented, err)
	_, err = base.AfterExecute(testAuthority, testParams())
	assert.Equal(t, ErrNotImplemented, err)

	_, err = NewBeforeOnlyHook(testAuthority, passFn).AfterExecute(testAuthority, testParams())
	assert.Equal(t, ErrNotImplemented, err)
	_, err = NewAfterOnlyHook(testAuthority, passFn).BeforeExecute(testAuthority, testParams())
	assert.Equal(t, ErrNotImplemented, err)
}

func TestMagicOnSuccess(t *testing.T) {
	ret, err := NewBeforeOnlyHook(testAuthority, passFn).BeforeExecute(testAuthority, testParams())
	assert.NoError(t, err)
	assert.Equal(t, MagicValue, ret)

	ret, err = NewAfterOnlyHook(testAuthority, passFn).AfterExecute(testAuthority, testParams())
	assert.NoError(t, err)
	assert.Equal(t, MagicValue, ret)

	full := NewFullHook(testAuthority, passFn, passFn)
	ret, err = full.BeforeExecute(testAuthority, testParams())
	assert.NoError(t, err)
	assert.Equal(t, MagicValue, ret)
	ret, err = full.AfterExecute(testAuthority, testParams())
	assert.NoError(t, err)
	assert.Equal(t, MagicValue, ret)
}

func TestCallbackFailurePropagates(t *testing.T) {
	ret, err := NewBeforeOnlyHook(testAuthority, failFn).BeforeExecute(testAuthority, testParams())
	assert.Equal(t, errRejected, err)
	assert.Equal(t, [4]byte{}, ret)

	ret, err = NewFullHook(testAuthority, passFn, failFn).AfterExecute(testAuthority, testParams())
	assert.Equal(t, errRejected, err)
	assert.Equal(t, [4]byte{}, ret)
}

func TestMagicValueNonZero(t *testing.T) {
	assert.NotEqual(t, [4]byte{}, MagicValue)
}

func TestCallSelector(t *testing.T) {
	assert.Equal(t, [4]byte{}, CallSelector(nil))
	assert.Equal(t, [4]byte{}, CallSelector([]byte{0xa9, 0x05}))
	assert.Equal(t, [4]byte{0xa9, 0x05, 0x9c, 0xbb}, CallSelector([]byte{0xa9, 0x05, 0x9c, 0xbb, 0x00, 0x01}))
}

func TestTokenKey(t *testing.T) {
	params := testParams()
	assert.Equal(t, common.BigToHash(big.NewInt(1)), params.TokenKey())
	params.TokenID = nil
	assert.Equal(t, common.Hash{}, params.TokenKey())
}
