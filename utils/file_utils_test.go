package utils

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalChain(t *testing.T) {
	chain := createTestChain(t, 1, 2)

	data, err := MarshalChain(chain)
	require.Nil(t, err)
	assert.Contains(t, string(data), "prev_hash:")

	decoded, err := UnmarshalChain(data)
	require.Nil(t, err)
	assert.Equal(t, chain.Len(), decoded.Len())
	assert.Equal(t, chain.Difficulty, decoded.Difficulty)
	for i := range chain.Blocks {
		assert.Equal(t, chain.Blocks[i].Hash, decoded.Blocks[i].Hash)
		assert.Equal(t, CalculateHash(chain.Blocks[i]), CalculateHash(decoded.Blocks[i]))
	}
	assert.True(t, ValidateChain(decoded))
}

func TestUnmarshalChainRejectsInvalid(t *testing.T) {
	_, err := UnmarshalChain([]byte("difficulty: 1\nblocks: []\n"))
	assert.True(t, errors.Is(err, ErrEmptyChain))

	_, err = UnmarshalChain([]byte("difficulty: 99\nblocks:\n- index: 0\n"))
	assert.True(t, errors.Is(err, ErrInvalidDifficulty))

	_, err = UnmarshalChain([]byte("blocks: [unterminated"))
	assert.NotNil(t, err)
}

func TestSaveAndReadChain(t *testing.T) {
	chain := createTestChain(t, 1, 1)
	path := filepath.Join(t.TempDir(), "chain.yaml")

	assert.Nil(t, SaveChainToFile(chain, path))
	read, err := ReadChainFromFile(path)
	require.Nil(t, err)
	assert.Equal(t, chain.Tail().Hash, read.Tail().Hash)

	assert.NotNil(t, SaveChainToFile(chain, ""))
}
