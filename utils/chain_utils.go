package utils

import (
	"errors"
	"fmt"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/model"
)

var (
	// ErrEmptyChain is returned when a chain has no genesis block to build on.
	ErrEmptyChain = errors.New("chain has no blocks")
	// ErrHashMismatch means a block's stored hash differs from its recomputed hash.
	ErrHashMismatch = errors.New("stored hash does not match block content")
	// ErrBrokenLink means a block's prev hash differs from its predecessor's hash.
	ErrBrokenLink = errors.New("prev hash does not match previous block")
	// ErrMissingBlock means the chain holds a nil block.
	ErrMissingBlock = errors.New("missing block")
)

// CreateChain creates a chain holding only the genesis block: index 0, no
// transactions, prev hash "0", stamped by clock.
// The genesis block is not mined unless mineGenesis is set; either way it is
// never checked by ValidateChain.
func CreateChain(difficulty int, mineGenesis bool, clock Clock) (*model.Chain, error) {
	if err := CheckDifficulty(difficulty); err != nil {
		return nil, err
	}

	genesis := CreateBlock(0, clock.Now(), []model.Transaction{}, model.GenesisPrevHash)
	if mineGenesis {
		if _, err := Mine(genesis, difficulty, nil); err != nil {
			return nil, err
		}
	}

	return &model.Chain{
		Blocks:     []*model.Block{genesis},
		Difficulty: difficulty,
	}, nil
}

// NextBlock builds the unmined successor of the chain's tail.
func NextBlock(chain *model.Chain, txs []model.Transaction, clock Clock) (*model.Block, error) {
	tail := chain.Tail()
	if tail == nil {
		return nil, ErrEmptyChain
	}
	return CreateBlock(tail.Index+1, clock.Now(), txs, tail.Hash), nil
}

// AddBlock creates the next block from txs, mines it at the chain's
// difficulty and appends it. On any error the chain is left untouched.
func AddBlock(chain *model.Chain, txs []model.Transaction, clock Clock, ctl chan commands.Command) (*model.Block, error) {
	if err := CheckDifficulty(chain.Difficulty); err != nil {
		return nil, err
	}

	block, err := NextBlock(chain, txs, clock)
	if err != nil {
		return nil, err
	}

	_, err = Mine(block, chain.Difficulty, ctl)
	if err != nil {
		return nil, err
	}

	chain.Blocks = append(chain.Blocks, block)
	return block, nil
}

// FindInvalidBlock returns the index of the first block, from index 1 on,
// whose stored hash or prev hash link is wrong, with the reason. It returns
// -1 and nil for a valid chain. Proof of work is not re-checked.
func FindInvalidBlock(chain *model.Chain) (int, error) {
	for i := 1; i < len(chain.Blocks); i++ {
		current := chain.Blocks[i]
		prev := chain.Blocks[i-1]
		if current == nil || prev == nil {
			return i, ErrMissingBlock
		}

		if current.Hash != CalculateHash(current) {
			return i, fmt.Errorf("block %d: %w", i, ErrHashMismatch)
		}

		if current.PrevHash != prev.Hash {
			return i, fmt.Errorf("block %d: %w", i, ErrBrokenLink)
		}
	}
	return -1, nil
}

// ValidateChain reports whether every non-genesis block hashes to its stored
// hash and links to its predecessor. It never modifies the chain.
func ValidateChain(chain *model.Chain) bool {
	_, err := FindInvalidBlock(chain)
	return err == nil
}
