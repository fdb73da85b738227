package config

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/Luismorlan/pow_ledger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParseAppConfig(t *testing.T) {
	path := writeConfig(t, "difficulty: 2\nmining_workers: 4\nmine_genesis: true\n")

	c, err := ParseAppConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, 2, c.DIFFICULTY)
	assert.Equal(t, 4, c.MINING_WORKERS)
	assert.True(t, c.MINE_GENESIS)
	// Not in the file, keeps the default.
	assert.Equal(t, "/tmp", c.OUTPUT_DIR)
}

func TestParseAppConfigRejectsDifficulty(t *testing.T) {
	path := writeConfig(t, "difficulty: 65\n")

	_, err := ParseAppConfig(path)
	assert.True(t, errors.Is(err, utils.ErrInvalidDifficulty))
}

func TestParseAppConfigMissingFile(t *testing.T) {
	_, err := ParseAppConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	c := DefaultAppConfig()
	assert.Nil(t, c.Validate())

	c.DIFFICULTY = -1
	assert.NotNil(t, c.Validate())

	c.DIFFICULTY = utils.HASH_HEX_LENGTH
	assert.Nil(t, c.Validate())

	c.MINING_WORKERS = -2
	assert.NotNil(t, c.Validate())
}
