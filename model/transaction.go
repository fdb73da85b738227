package model

import "fmt"

// Transaction is a flat transfer record. It has no identity beyond its fields.
type Transaction struct {
	// Who sends the amount.
	Sender string `yaml:"sender" json:"sender"`
	// Who receives the amount.
	Recipient string `yaml:"recipient" json:"recipient"`
	// How much is transferred, in the smallest unit.
	Amount uint64 `yaml:"amount" json:"amount"`
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s -> %s: %d", t.Sender, t.Recipient, t.Amount)
}
