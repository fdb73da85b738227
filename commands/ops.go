package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Luismorlan/pow_ledger/model"
)

type Operation int

const (
	DEFAULT = iota
	// Mine and append a block holding the given transactions.
	ADD
	// Validate hashes and linkage of the whole chain.
	VALIDATE
	// Print the chain.
	SHOW
	// Overwrite a block's transactions without re-hashing it.
	TAMPER
	// Render the chain as a graph.
	RENDER
	// Write the chain as YAML to a file.
	EXPORT
	// Interrupt a running mining task.
	STOP
)

// Each transaction on the command line takes sender, recipient and amount.
const TX_ARGS = 3

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

func (c Command) IsValid() bool {
	switch c.Op {
	case VALIDATE, SHOW, RENDER, STOP:
		return len(c.Args) == 0
	case ADD:
		_, err := ParseTransactions(c.Args)
		return err == nil
	case TAMPER:
		if len(c.Args) < 1 {
			return false
		}
		// index must be a number.
		if _, err := strconv.ParseUint(c.Args[0], 10, 32); err != nil {
			return false
		}
		_, err := ParseTransactions(c.Args[1:])
		return err == nil
	case EXPORT:
		return len(c.Args) == 1 && c.Args[0] != ""
	default:
		return false
	}
}

// ParseTransactions reads sender, recipient, amount triples.
func ParseTransactions(args []string) ([]model.Transaction, error) {
	if len(args)%TX_ARGS != 0 {
		return nil, errors.New("transactions take sender, recipient and amount")
	}
	txs := []model.Transaction{}
	for i := 0; i < len(args); i += TX_ARGS {
		amount, err := strconv.ParseUint(args[i+2], 10, 64)
		if err != nil {
			return nil, errors.New("invalid amount: " + args[i+2])
		}
		txs = append(txs, model.Transaction{
			Sender:    args[i],
			Recipient: args[i+1],
			Amount:    amount,
		})
	}
	return txs, nil
}

// From string, create
func CreateCommand(s string) (Command, error) {
	// split command by space.
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	switch ss[0] {
	case "add":
		cmd.Op = ADD
	case "validate":
		cmd.Op = VALIDATE
	case "show":
		cmd.Op = SHOW
	case "tamper":
		cmd.Op = TAMPER
	case "render":
		cmd.Op = RENDER
	case "export":
		cmd.Op = EXPORT
	case "stop":
		cmd.Op = STOP
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}

// Create a brand new command with default operation.
func NewDefaultCommand() Command {
	return Command{
		Op: DEFAULT,
	}
}

func (c Command) IsDefault() bool {
	return c.Op == DEFAULT
}
