package visualize

import (
	"fmt"
	"io"
	"strings"

	"github.com/Luismorlan/pow_ledger/model"
	"github.com/fatih/color"
)

var (
	header = color.New(color.FgCyan, color.Bold)
	valid  = color.New(color.FgGreen)
	broken = color.New(color.FgRed)
)

// PrintChain writes one section per block.
func PrintChain(w io.Writer, chain *model.Chain) {
	for _, b := range chain.Blocks {
		txs := make([]string, 0, len(b.Transactions))
		for _, tx := range b.Transactions {
			txs = append(txs, tx.String())
		}
		header.Fprintf(w, "Block #%d:\n", b.Index)
		fmt.Fprintf(w, "  Timestamp: %d\n  Transactions: [%s]\n  Previous Hash: %s\n  Current Hash: %s\n  Nonce: %d\n\n",
			b.Timestamp, strings.Join(txs, ", "), b.PrevHash, b.Hash, b.Nonce)
	}
}

// PrintValidation reports the outcome of a chain validation.
func PrintValidation(w io.Writer, isValid bool, when string) {
	if isValid {
		valid.Fprintf(w, "The blockchain is valid%s.\n", when)
		return
	}
	broken.Fprintf(w, "The blockchain is invalid%s.\n", when)
}
