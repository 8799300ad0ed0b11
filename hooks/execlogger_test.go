package hooks

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verichains/account-hooks/hook"
)

func loggedParams(token int64, to common.Address, value int64, success bool) *hook.Params {
	params := execParams(token, to, value)
	params.Selector = [4]byte{0xa9, 0x05, 0x9c, 0xbb}
	params.Success = success
	return params
}

func TestExecutionLoggerCounts(t *testing.T) {
	h := NewExecutionLoggerHook(testAuthority, rawdb.NewMemoryDatabase())
	to := common.HexToAddress("0xdead")

	for i := 0; i < 5; i++ {
		ret, err := h.AfterExecute(testAuthority, loggedParams(1, to, int64(i), true))
		require.NoError(t, err)
		assert.Equal(t, hook.MagicValue, ret)
	}
	assert.Equal(t, uint64(5), h.ExecutionCount(big.NewInt(1)))
	assert.Equal(t, uint64(0), h.ExecutionCount(big.NewInt(2)))
}

func TestExecutionLoggerHistory(t *testing.T) {
	h := NewExecutionLoggerHook(testAuthority, rawdb.NewMemoryDatabase())
	h.nowFn = func() time.Time { return time.Unix(1686700800, 0) }
	to := common.HexToAddress("0xdead")

	for i := int64(0); i < 10; i++ {
		_, err := h.AfterExecute(testAuthority, loggedParams(1, to, i, i%2 == 0))
		require.NoError(t, err)
	}
	// Full history in call order.
	records := h.GetHistory(big.NewInt(1), 0, 10)
	require.Len(t, records, 10)
	for i, rec := range records {
		assert.Equal(t, int64(i), rec.Value.Int64())
		assert.Equal(t, i%2 == 0, rec.Success)
		assert.Equal(t, to, rec.To)
		assert.Equal(t, uint64(1686700800), rec.Time)
	}
	// Partial pages.
	records = h.GetHistory(big.NewInt(1), 4, 3)
	require.Len(t, records, 3)
	assert.Equal(t, int64(4), records[0].Value.Int64())
	// Limit past the end is clamped.
	assert.Len(t, h.GetHistory(big.NewInt(1), 8, 100), 2)
	// Offset at or past the end yields nothing.
	assert.Empty(t, h.GetHistory(big.NewInt(1), 10, 1))
	assert.Empty(t, h.GetHistory(big.NewInt(1), 99, 1))
}

func TestExecutionLoggerLogsFailures(t *testing.T) {
	h := NewExecutionLoggerHook(testAuthority, rawdb.NewMemoryDatabase())
	_, err := h.AfterExecute(testAuthority, loggedParams(1, common.HexToAddress("0xdead"), 3, false))
	require.NoError(t, err)

	records := h.GetHistory(big.NewInt(1), 0, 1)
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestExecutionLoggerBeforeNoop(t *testing.T) {
	h := NewExecutionLoggerHook(testAuthority, rawdb.NewMemoryDatabase())
	assert.Equal(t, hook.PermissionSet{BeforeExecute: true, AfterExecute: true}, h.Permissions())

	ret, err := h.BeforeExecute(testAuthority, loggedParams(1, common.HexToAddress("0xdead"), 0, false))
	require.NoError(t, err)
	assert.Equal(t, hook.MagicValue, ret)
	assert.Equal(t, uint64(0), h.ExecutionCount(big.NewInt(1)))
}

func TestExecutionLoggerPersistence(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	h := NewExecutionLoggerHook(testAuthority, db)
	_, err := h.AfterExecute(testAuthority, loggedParams(1, common.HexToAddress("0xdead"), 7, true))
	require.NoError(t, err)

	// A new hook over the same database sees the prior records.
	reopened := NewExecutionLoggerHook(testAuthority, db)
	assert.Equal(t, uint64(1), reopened.ExecutionCount(big.NewInt(1)))
	records := reopened.GetHistory(big.NewInt(1), 0, 1)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].Value.Int64())
}

func TestExecutionLoggerEvents(t *testing.T) {
	h := NewExecutionLoggerHook(testAuthority, rawdb.NewMemoryDatabase())
	ch := make(chan ExecutionLoggedEvent, 1)
	sub := h.SubscribeExecutionLogs(ch)
	defer sub.Unsubscribe()

	_, err := h.AfterExecute(testAuthority, loggedParams(1, common.HexToAddress("0xdead"), 3, true))
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, uint64(0), ev.Index)
	assert.Equal(t, common.BigToHash(big.NewInt(1)), ev.Token)
	assert.Equal(t, int64(3), ev.Record.Value.Int64())
}

func TestExecutionLoggerSnapshotRevert(t *testing.T) {
	h := NewExecutionLoggerHook(testAuthority, rawdb.NewMemoryDatabase())
	to := common.HexToAddress("0xdead")

	_, err := h.AfterExecute(testAuthority, loggedParams(1, to, 1, true))
	require.NoError(t, err)

	revid := h.Snapshot()
	h.AfterExecute(testAuthority, loggedParams(1, to, 2, true))
	h.AfterExecute(testAuthority, loggedParams(2, to, 3, true))
	h.RevertToSnapshot(revid)

	// Only the records of the reverted window are gone.
	assert.Equal(t, uint64(1), h.ExecutionCount(big.NewInt(1)))
	assert.Equal(t, uint64(0), h.ExecutionCount(big.NewInt(2)))
	records := h.GetHistory(big.NewInt(1), 0, 10)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].Value.Int64())
}
