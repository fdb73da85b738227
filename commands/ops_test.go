package commands

import (
	"testing"

	"github.com/Luismorlan/pow_ledger/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateCommand(t *testing.T) {
	c, err := CreateCommand("add alice bob 10 bob carol 0")
	assert.Nil(t, err)
	assert.Equal(t, Operation(ADD), c.Op)
	assert.Equal(t, []string{"alice", "bob", "10", "bob", "carol", "0"}, c.Args)

	c, err = CreateCommand("  validate ")
	assert.Nil(t, err)
	assert.Equal(t, Operation(VALIDATE), c.Op)

	c, err = CreateCommand("add")
	assert.Nil(t, err)
	assert.Empty(t, c.Args)

	c, err = CreateCommand("tamper 1 Eve Charlie 100")
	assert.Nil(t, err)
	assert.Equal(t, Operation(TAMPER), c.Op)

	c, err = CreateCommand("export /tmp/chain.yaml")
	assert.Nil(t, err)
	assert.Equal(t, Operation(EXPORT), c.Op)
}

func TestCreateCommandInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"mine",
		"add alice bob",
		"add alice bob -1",
		"add alice bob ten",
		"tamper",
		"tamper one Eve Charlie 100",
		"validate now",
		"export",
		"stop please",
	} {
		_, err := CreateCommand(s)
		assert.NotNil(t, err, s)
	}
}

func TestParseTransactions(t *testing.T) {
	txs, err := ParseTransactions([]string{"a", "b", "18446744073709551615"})
	assert.Nil(t, err)
	assert.Equal(t, []model.Transaction{{Sender: "a", Recipient: "b", Amount: 18446744073709551615}}, txs)

	txs, err = ParseTransactions(nil)
	assert.Nil(t, err)
	assert.Empty(t, txs)
}

func TestDefaultCommand(t *testing.T) {
	assert.True(t, NewDefaultCommand().IsDefault())
	assert.False(t, Command{Op: STOP}.IsDefault())
}
