package model

// GenesisPrevHash is the previous hash carried by the genesis block.
const GenesisPrevHash = "0"

type Block struct {
	// Position in the chain, genesis is 0.
	Index uint32 `yaml:"index" json:"index"`
	// Creation time in seconds since epoch.
	Timestamp uint64 `yaml:"timestamp" json:"timestamp"`
	// Transactions for this block, in order.
	Transactions []Transaction `yaml:"transactions" json:"transactions"`
	// Hash of the previous block in the hex format.
	PrevHash string `yaml:"prev_hash" json:"prev_hash"`
	// Hash of this entire block in the hex string format.
	Hash string `yaml:"hash" json:"hash"`
	// Nonce is the miner's challenge for computing the block.
	Nonce uint32 `yaml:"nonce" json:"nonce"`
}

// Chain is an append-only sequence of blocks. It is not safe for concurrent
// writers, wrap it (see full_node) when more than one goroutine appends.
type Chain struct {
	// Blocks in order, Blocks[0] is the genesis block.
	Blocks []*Block `yaml:"blocks" json:"blocks"`
	// How many leading hex 0s a mined block hash carries.
	Difficulty int `yaml:"difficulty" json:"difficulty"`
}

// Tail returns the last block, or nil on an empty chain.
func (c *Chain) Tail() *Block {
	if len(c.Blocks) == 0 {
		return nil
	}
	return c.Blocks[len(c.Blocks)-1]
}

func (c *Chain) Len() int {
	return len(c.Blocks)
}
