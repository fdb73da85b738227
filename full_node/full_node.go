package full_node

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/config"
	"github.com/Luismorlan/pow_ledger/model"
	"github.com/Luismorlan/pow_ledger/utils"
	"github.com/jinzhu/copier"
	uuid "github.com/satori/go.uuid"
)

var (
	// ErrStaleTail means the block was built on a tail that is no longer the tail.
	ErrStaleTail = errors.New("block does not extend the current tail")
	// ErrDifficultyNotMet means the block hash lacks the required leading zeros.
	ErrDifficultyNotMet = errors.New("block hash does not meet difficulty")
	// ErrBlockOutOfRange is returned for an index past the end of the chain.
	ErrBlockOutOfRange = errors.New("block index out of range")
)

// A full node owns one chain and serializes every write to it.
type FullNode struct {
	// The blockchain it needs to maintain.
	blockchain *model.Chain
	// Ledger config.
	config config.AppConfig
	// Source of block timestamps.
	clock utils.Clock
	// A single mutex for changing internal state. Mining runs without it.
	m sync.RWMutex
	// A unique indentifier of this Fullnode, only used to name its output.
	uuid string
}

// Create a brand new full node, which contains a genesis block in the chain.
func NewFullNode(c config.AppConfig, clock utils.Clock) (*FullNode, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	chain, err := utils.CreateChain(c.DIFFICULTY, c.MINE_GENESIS, clock)
	if err != nil {
		return nil, err
	}
	return &FullNode{
		blockchain: chain,
		config:     c,
		clock:      clock,
		m:          sync.RWMutex{},
		uuid:       uuid.NewV4().String(),
	}, nil
}

func (f *FullNode) Uuid() string {
	return f.uuid
}

func (f *FullNode) Config() config.AppConfig {
	return f.config
}

// Height of the tail, genesis is at height 0.
func (f *FullNode) GetHeight() int {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.blockchain.Len() - 1
}

// Create a new block with the given transactions on top of the tail, mine it
// and append it. Mining is a really long process and holds no lock; if the
// tail moved meanwhile the block is dropped with ErrStaleTail.
// ctl interrupts the mining process at any time.
func (f *FullNode) AddBlock(txs []model.Transaction, ctl chan commands.Command) (*model.Block, commands.Command, error) {
	f.m.RLock()
	difficulty := f.blockchain.Difficulty
	block, err := utils.NextBlock(f.blockchain, txs, f.clock)
	f.m.RUnlock()
	if err != nil {
		return nil, commands.NewDefaultCommand(), err
	}

	c, err := f.mine(block, difficulty, ctl)
	if err != nil {
		return nil, c, err
	}

	if err := f.HandleNewBlock(block); err != nil {
		return nil, c, err
	}
	log.Printf("Block #%d appended on node %s", block.Index, f.uuid)

	snapshot := model.Block{}
	if err := copier.CopyWithOption(&snapshot, block, copier.Option{DeepCopy: true}); err != nil {
		return nil, c, err
	}
	return &snapshot, c, nil
}

// Pick the single or the parallel miner depending on MINING_WORKERS.
func (f *FullNode) mine(block *model.Block, difficulty int, ctl chan commands.Command) (commands.Command, error) {
	if f.config.MINING_WORKERS <= 1 {
		return utils.Mine(block, difficulty, ctl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Relay a control command into a context cancellation.
	interrupted := make(chan commands.Command, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case c := <-ctl:
			interrupted <- c
			cancel()
		case <-done:
		}
	}()

	err := utils.MineParallel(ctx, block, difficulty, f.config.MINING_WORKERS)
	if err != nil {
		select {
		case c := <-interrupted:
			return c, utils.ErrMiningInterrupted
		default:
			return commands.NewDefaultCommand(), err
		}
	}
	return commands.NewDefaultCommand(), nil
}

// Handle a mined block. This function should:
// 1. Validate the block.
//   a. Hash matches the content.
//   b. Difficulty matches.
//   c. Parent is the current tail.
// 2. Append it to the blockchain.
func (f *FullNode) HandleNewBlock(pendingBlock *model.Block) error {
	// Lock mutex because we are changing the state of blockchain.
	f.m.Lock()
	defer f.m.Unlock()

	if utils.CalculateHash(pendingBlock) != pendingBlock.Hash {
		return utils.ErrHashMismatch
	}

	isMatched, err := utils.HasLeadingZeros(pendingBlock.Hash, f.blockchain.Difficulty)
	if err != nil {
		return err
	}
	if !isMatched {
		return ErrDifficultyNotMet
	}

	tail := f.blockchain.Tail()
	if tail.Hash != pendingBlock.PrevHash || tail.Index+1 != pendingBlock.Index {
		return fmt.Errorf("%w: tail is #%d %s", ErrStaleTail, tail.Index, tail.Hash)
	}

	f.blockchain.Blocks = append(f.blockchain.Blocks, pendingBlock)
	return nil
}

// ValidateChain checks hash integrity and linkage of every non-genesis block.
func (f *FullNode) ValidateChain() bool {
	f.m.RLock()
	defer f.m.RUnlock()
	return utils.ValidateChain(f.blockchain)
}

// FindInvalidBlock reports the first broken block, see utils.FindInvalidBlock.
func (f *FullNode) FindInvalidBlock() (int, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	return utils.FindInvalidBlock(f.blockchain)
}

// Return a deep copy of the chain. Changing it never affects the node.
func (f *FullNode) Snapshot() (*model.Chain, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	chain := model.Chain{
		Blocks:     make([]*model.Block, 0, f.blockchain.Len()),
		Difficulty: f.blockchain.Difficulty,
	}
	for _, b := range f.blockchain.Blocks {
		block := model.Block{}
		if err := copier.CopyWithOption(&block, b, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}
		chain.Blocks = append(chain.Blocks, &block)
	}
	return &chain, nil
}

// Return a deep copy of every block in order.
func (f *FullNode) Blocks() ([]model.Block, error) {
	chain, err := f.Snapshot()
	if err != nil {
		return nil, err
	}
	blocks := make([]model.Block, 0, chain.Len())
	for _, b := range chain.Blocks {
		blocks = append(blocks, *b)
	}
	return blocks, nil
}

// Tamper overwrites a block's transactions in place and leaves its hash
// alone, the way an attacker editing storage would. Used to demonstrate
// that ValidateChain catches it.
func (f *FullNode) Tamper(index int, txs []model.Transaction) error {
	f.m.Lock()
	defer f.m.Unlock()
	if index < 0 || index >= f.blockchain.Len() {
		return fmt.Errorf("%w: %d", ErrBlockOutOfRange, index)
	}
	f.blockchain.Blocks[index].Transactions = append([]model.Transaction(nil), txs...)
	log.Printf("Block #%d transactions overwritten on node %s", index, f.uuid)
	return nil
}
