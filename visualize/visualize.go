package visualize

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os/exec"
	"path/filepath"

	"github.com/Luismorlan/pow_ledger/model"
	"github.com/bradleyjkemp/memviz"
)

// We re-define the visualize model here to keep the graph small: long hashes
// are shortened and every block points at its successor.
type transaction struct {
	sender    string
	recipient string
	amount    uint64
}

type block struct {
	index     uint32
	timestamp uint64
	hash      string
	prevHash  string
	nonce     uint32
	txs       []transaction
	next      *block
}

// The hash strings are just too long to render, instead we take only first 3 and last 3
// characters and replace the middle part with '...'. E.g. "abcdefghi" will be rendered as "abc...ghi"
func shortenString(s string) string {
	if len(s) < 9 {
		return s
	}
	return fmt.Sprintf("%s...%s", s[0:3], s[len(s)-3:])
}

func blockToblock(b *model.Block) *block {
	n := &block{
		index:     b.Index,
		timestamp: b.Timestamp,
		hash:      shortenString(b.Hash),
		prevHash:  shortenString(b.PrevHash),
		nonce:     b.Nonce,
	}
	for _, tx := range b.Transactions {
		n.txs = append(n.txs, transaction{sender: tx.Sender, recipient: tx.Recipient, amount: tx.Amount})
	}
	return n
}

// Given a chain, return the last d blocks as a linked list. d <= 0 means the
// whole chain.
func constructData(chain *model.Chain, d int) *block {
	from := 0
	if d > 0 && d < chain.Len() {
		from = chain.Len() - d
	}

	var head, prev *block
	for i := from; i < chain.Len(); i++ {
		n := blockToblock(chain.Blocks[i])
		if prev == nil {
			head = n
		} else {
			prev.next = n
		}
		prev = n
	}
	return head
}

// Render writes the last d blocks of the chain as a DOT graph.
func Render(w io.Writer, chain *model.Chain, d int) {
	root := constructData(chain, d)
	memviz.Map(w, root)
}

// RenderToFile writes the DOT graph to dir and, when graphviz is installed,
// a PNG next to it. It returns the DOT file path.
func RenderToFile(chain *model.Chain, d int, dir string, id string) (string, error) {
	buf := &bytes.Buffer{}
	Render(buf, chain, d)

	fileName := filepath.Join(dir, "chaindata-"+id+".dot")
	outputName := filepath.Join(dir, "rendered-chain-"+id+".png")
	if err := ioutil.WriteFile(fileName, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tpng", fileName, "-o", outputName)
	if err := cmd.Run(); err != nil {
		log.Println("graphviz not available, kept DOT output only:", err)
	}
	return fileName, nil
}
