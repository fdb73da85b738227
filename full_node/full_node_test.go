package full_node

import (
	"errors"
	"sync"
	"testing"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/config"
	"github.com/Luismorlan/pow_ledger/model"
	"github.com/Luismorlan/pow_ledger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestNode(t *testing.T, difficulty int, workers int) *FullNode {
	c := config.DefaultAppConfig()
	c.DIFFICULTY = difficulty
	c.MINING_WORKERS = workers
	f, err := NewFullNode(c, utils.NewStepClock(1700000000, 1))
	require.Nil(t, err)
	return f
}

func testTxs(sender string, amount uint64) []model.Transaction {
	return []model.Transaction{{Sender: sender, Recipient: "bob", Amount: amount}}
}

func TestNewFullNode(t *testing.T) {
	f := createTestNode(t, 2, 1)
	assert.Equal(t, 0, f.GetHeight())
	assert.NotEmpty(t, f.Uuid())
	assert.True(t, f.ValidateChain())
}

func TestNewFullNodeRejectsConfig(t *testing.T) {
	c := config.DefaultAppConfig()
	c.DIFFICULTY = utils.HASH_HEX_LENGTH + 1
	_, err := NewFullNode(c, utils.SystemClock{})
	assert.True(t, errors.Is(err, utils.ErrInvalidDifficulty))
}

func TestAddBlock(t *testing.T) {
	for _, workers := range []int{1, 3} {
		f := createTestNode(t, 2, workers)
		for i := 1; i <= 3; i++ {
			b, c, err := f.AddBlock(testTxs("alice", uint64(i)), nil)
			require.Nil(t, err)
			assert.True(t, c.IsDefault())
			assert.Equal(t, uint32(i), b.Index)
			assert.Equal(t, "00", b.Hash[:2])
		}
		assert.Equal(t, 3, f.GetHeight())
		assert.True(t, f.ValidateChain())
	}
}

func TestAddBlockInterrupted(t *testing.T) {
	for _, workers := range []int{1, 2} {
		f := createTestNode(t, 2, workers)
		// Nothing meets this difficulty, only the stop command ends mining.
		f.blockchain.Difficulty = utils.HASH_HEX_LENGTH
		ctl := make(chan commands.Command, 1)
		ctl <- commands.Command{Op: commands.STOP}

		_, c, err := f.AddBlock(testTxs("alice", 1), ctl)
		assert.True(t, errors.Is(err, utils.ErrMiningInterrupted))
		assert.Equal(t, commands.Operation(commands.STOP), c.Op)
		assert.Equal(t, 0, f.GetHeight())
	}
}

func TestConcurrentAddBlock(t *testing.T) {
	f := createTestNode(t, 1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.AddBlock(testTxs("alice", uint64(i)), nil)
			if err != nil {
				assert.True(t, errors.Is(err, ErrStaleTail))
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, f.GetHeight() >= 1)
	assert.True(t, f.ValidateChain())
	blocks, err := f.Blocks()
	require.Nil(t, err)
	for i, b := range blocks {
		assert.Equal(t, uint32(i), b.Index)
	}
}

func TestHandleNewBlock(t *testing.T) {
	f := createTestNode(t, 1, 1)
	snapshot, err := f.Snapshot()
	require.Nil(t, err)
	tail := snapshot.Tail()

	unmined := utils.CreateBlock(tail.Index+1, 1, testTxs("alice", 1), tail.Hash)
	for unmined.Hash[0] == '0' {
		unmined.Nonce++
		unmined.Hash = utils.CalculateHash(unmined)
	}
	assert.True(t, errors.Is(f.HandleNewBlock(unmined), ErrDifficultyNotMet))

	stale := utils.CreateBlock(tail.Index+1, 1, testTxs("alice", 1), "ffff")
	_, err = utils.Mine(stale, 1, nil)
	require.Nil(t, err)
	assert.True(t, errors.Is(f.HandleNewBlock(stale), ErrStaleTail))

	forged := utils.CreateBlock(tail.Index+1, 1, testTxs("alice", 1), tail.Hash)
	_, err = utils.Mine(forged, 1, nil)
	require.Nil(t, err)
	forged.Transactions[0].Amount = 1000
	assert.True(t, errors.Is(f.HandleNewBlock(forged), utils.ErrHashMismatch))

	good := utils.CreateBlock(tail.Index+1, 1, testTxs("alice", 1), tail.Hash)
	_, err = utils.Mine(good, 1, nil)
	require.Nil(t, err)
	assert.Nil(t, f.HandleNewBlock(good))
	assert.Equal(t, 1, f.GetHeight())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	f := createTestNode(t, 1, 1)
	_, _, err := f.AddBlock(testTxs("alice", 5), nil)
	require.Nil(t, err)

	snapshot, err := f.Snapshot()
	require.Nil(t, err)
	snapshot.Blocks[1].Transactions[0].Amount = 500
	snapshot.Blocks[1].Hash = "tampered"

	assert.True(t, f.ValidateChain())
	blocks, err := f.Blocks()
	require.Nil(t, err)
	assert.Equal(t, uint64(5), blocks[1].Transactions[0].Amount)
}

func TestTamper(t *testing.T) {
	f := createTestNode(t, 2, 1)
	for _, tx := range []model.Transaction{
		{Sender: "Purvesh", Recipient: "Jenish", Amount: 50},
		{Sender: "Jenish", Recipient: "Dharmik", Amount: 30},
		{Sender: "Dharmik", Recipient: "Uttam", Amount: 20},
	} {
		_, _, err := f.AddBlock([]model.Transaction{tx}, nil)
		require.Nil(t, err)
	}
	assert.True(t, f.ValidateChain())

	err := f.Tamper(1, []model.Transaction{{Sender: "Eve", Recipient: "Charlie", Amount: 100}})
	assert.Nil(t, err)
	assert.False(t, f.ValidateChain())
	idx, err := f.FindInvalidBlock()
	assert.Equal(t, 1, idx)
	assert.True(t, errors.Is(err, utils.ErrHashMismatch))

	assert.True(t, errors.Is(f.Tamper(4, nil), ErrBlockOutOfRange))
	assert.True(t, errors.Is(f.Tamper(-1, nil), ErrBlockOutOfRange))
}
