package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/model"
	"github.com/jinzhu/copier"
)

var (
	// ErrInvalidDifficulty is returned for a difficulty outside [0, HASH_HEX_LENGTH].
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrMiningInterrupted is returned when a command arrives on the control channel.
	ErrMiningInterrupted = errors.New("mining interrupted")
	// ErrNonceExhausted is returned when every nonce was tried without a match.
	ErrNonceExhausted = errors.New("failed to find any nonce")
)

// CheckDifficulty rejects a difficulty that cannot be met by a hex SHA-256 digest.
func CheckDifficulty(difficulty int) error {
	if difficulty < 0 || difficulty > HASH_HEX_LENGTH {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDifficulty, difficulty, HASH_HEX_LENGTH)
	}
	return nil
}

// CreateBlock builds an unmined block: nonce 0 and the hash of that state.
// Call Mine to make it meet a difficulty.
func CreateBlock(index uint32, timestamp uint64, txs []model.Transaction, prevHash string) *model.Block {
	block := model.Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: append([]model.Transaction(nil), txs...),
		PrevHash:     prevHash,
		Nonce:        0,
	}
	block.Hash = CalculateHash(&block)
	return &block
}

// GetBlockBytes is the canonical hash input of a block:
// index | timestamp | transactions | prev hash | nonce.
// Integers are big-endian fixed width, strings are length prefixed. Changing
// this layout changes every hash.
func GetBlockBytes(block *model.Block) []byte {
	var rawBlock []byte
	rawBlock = append(rawBlock, Uint32ToBytes(block.Index)...)
	rawBlock = append(rawBlock, Uint64ToBytes(block.Timestamp)...)
	rawBlock = append(rawBlock, GetTransactionsBytes(block.Transactions)...)
	rawBlock = append(rawBlock, StringToBytes(block.PrevHash)...)
	rawBlock = append(rawBlock, Uint32ToBytes(block.Nonce)...)
	return rawBlock
}

// CalculateHash returns the lowercase hex SHA-256 of the block's current
// fields. The block is not modified.
func CalculateHash(block *model.Block) string {
	return BytesToHex(SHA256(GetBlockBytes(block)))
}

// HasLeadingZeros reports whether the first difficulty characters of hash are '0'.
func HasLeadingZeros(hash string, difficulty int) (bool, error) {
	if err := CheckDifficulty(difficulty); err != nil {
		return false, err
	}
	if difficulty > len(hash) {
		return false, fmt.Errorf("%w: %d exceeds hash length %d", ErrInvalidDifficulty, difficulty, len(hash))
	}
	for i := 0; i < difficulty; i++ {
		if hash[i] != '0' {
			return false, nil
		}
	}
	return true, nil
}

// MatchDifficulty recomputes the block hash and checks it against difficulty.
func MatchDifficulty(block *model.Block, difficulty int) (bool, string) {
	digest := CalculateHash(block)
	isMatched, err := HasLeadingZeros(digest, difficulty)
	if err != nil {
		log.Println(err)
		return false, digest
	}
	return isMatched, digest
}

// Mine a block, fill the nonce and hash given the difficulty setting.
// difficulty - how many leading hex zeros.
// The current nonce is tried first, so difficulty 0 never touches the nonce.
// ctl interrupts the search at any time, a nil channel never does.
func Mine(block *model.Block, difficulty int, ctl chan commands.Command) (commands.Command, error) {
	if err := CheckDifficulty(difficulty); err != nil {
		return commands.NewDefaultCommand(), err
	}

	start := block.Nonce
	for {
		select {
		case c := <-ctl:
			block.Hash = CalculateHash(block)
			return c, ErrMiningInterrupted
		default:
		}

		isMatched, digest := MatchDifficulty(block, difficulty)
		block.Hash = digest
		if isMatched {
			log.Printf("Block mined: %s with nonce %d", block.Hash, block.Nonce)
			return commands.NewDefaultCommand(), nil
		}

		block.Nonce++
		if block.Nonce == start {
			return commands.NewDefaultCommand(), ErrNonceExhausted
		}
	}
}

// MineParallel splits the nonce space above the block's current nonce across
// workers. Worker w tries start+w, start+w+workers, ... The first match wins
// and the remaining workers are cancelled. The current nonce is tried first.
func MineParallel(ctx context.Context, block *model.Block, difficulty int, workers int) error {
	if err := CheckDifficulty(difficulty); err != nil {
		return err
	}
	if workers < 1 {
		workers = 1
	}

	if isMatched, digest := MatchDifficulty(block, difficulty); isMatched {
		block.Hash = digest
		log.Printf("Block mined: %s with nonce %d", block.Hash, block.Nonce)
		return nil
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so a late winner never blocks after the search is over.
	found := make(chan model.Block, workers)
	var wg sync.WaitGroup
	start := uint64(block.Nonce) + 1
	for w := 0; w < workers; w++ {
		first := start + uint64(w)
		if first > uint64(^uint32(0)) {
			break
		}
		candidate := model.Block{}
		err := copier.CopyWithOption(&candidate, block, copier.Option{DeepCopy: true})
		if err != nil {
			return err
		}
		candidate.Nonce = uint32(first)

		wg.Add(1)
		go func(b model.Block) {
			defer wg.Done()
			searchNonces(searchCtx, &b, difficulty, uint32(workers), found)
		}(candidate)
	}
	go func() {
		wg.Wait()
		close(found)
	}()

	winner, ok := <-found
	cancel()
	if !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrNonceExhausted
	}

	block.Nonce = winner.Nonce
	block.Hash = winner.Hash
	log.Printf("Block mined: %s with nonce %d", block.Hash, block.Nonce)
	return nil
}

// searchNonces walks one residue class of the nonce space until a match,
// cancellation or overflow.
func searchNonces(ctx context.Context, b *model.Block, difficulty int, stride uint32, found chan<- model.Block) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if isMatched, digest := MatchDifficulty(b, difficulty); isMatched {
			b.Hash = digest
			found <- *b
			return
		}

		next := b.Nonce + stride
		if next < b.Nonce {
			return
		}
		b.Nonce = next
	}
}
