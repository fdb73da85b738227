package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Luismorlan/pow_ledger/commands"
	"github.com/Luismorlan/pow_ledger/config"
	"github.com/Luismorlan/pow_ledger/full_node"
	"github.com/Luismorlan/pow_ledger/layout"
	"github.com/Luismorlan/pow_ledger/model"
	"github.com/Luismorlan/pow_ledger/utils"
	"github.com/Luismorlan/pow_ledger/visualize"
	"github.com/fatih/color"
	"github.com/jroimartin/gocui"
)

var (
	configPath *string
	manualPath *string
	debugMode  *bool
	demo       *bool
)

func init() {
	configPath = flag.String("config_path", "full_node/cmd/config.yaml", "path to ledger config")
	manualPath = flag.String("manual_path", "full_node/cmd/usage.txt", "path to the command manual")
	debugMode = flag.Bool("debug_mode", false, "Using debug mode will disable fancy GUI.")
	demo = flag.Bool("demo", false, "mine three blocks, tamper with one, validate and exit")
}

// Handler runs commands against one node. Only one mining task runs at a time.
type Handler struct {
	node *full_node.FullNode
	out  io.Writer
	// Interrupts the running mining task.
	ctl    chan commands.Command
	mining bool
	m      sync.Mutex
	wg     sync.WaitGroup
}

func NewHandler(node *full_node.FullNode, out io.Writer) *Handler {
	return &Handler{
		node: node,
		out:  out,
		ctl:  make(chan commands.Command, 1),
	}
}

func (h *Handler) Handle(c commands.Command) {
	switch c.Op {
	case commands.ADD:
		txs, err := commands.ParseTransactions(c.Args)
		if err != nil {
			fmt.Fprintln(h.out, err)
			return
		}
		h.m.Lock()
		if h.mining {
			h.m.Unlock()
			fmt.Fprintln(h.out, "mining has already been started")
			return
		}
		h.mining = true
		// Drop a stop that arrived after the last task finished.
		select {
		case <-h.ctl:
		default:
		}
		h.m.Unlock()

		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			b, res, err := h.node.AddBlock(txs, h.ctl)
			h.m.Lock()
			h.mining = false
			h.m.Unlock()
			if err != nil {
				fmt.Fprintf(h.out, "failed to add block: %v (%v)\n", err, res.Op)
				return
			}
			color.New(color.FgGreen).Fprintf(h.out, "Block #%d mined: %s with nonce %d\n", b.Index, b.Hash, b.Nonce)
		}()
	case commands.STOP:
		h.m.Lock()
		defer h.m.Unlock()
		if !h.mining {
			fmt.Fprintln(h.out, "no running mining task to stop")
			return
		}
		select {
		case h.ctl <- c:
		default:
		}
	case commands.VALIDATE:
		idx, err := h.node.FindInvalidBlock()
		visualize.PrintValidation(h.out, err == nil, "")
		if err != nil {
			fmt.Fprintf(h.out, "first invalid block: #%d: %v\n", idx, err)
		}
	case commands.SHOW:
		chain, err := h.node.Snapshot()
		if err != nil {
			fmt.Fprintln(h.out, err)
			return
		}
		visualize.PrintChain(h.out, chain)
	case commands.TAMPER:
		index, _ := strconv.Atoi(c.Args[0])
		txs, err := commands.ParseTransactions(c.Args[1:])
		if err == nil {
			err = h.node.Tamper(index, txs)
		}
		if err != nil {
			fmt.Fprintln(h.out, "failed to tamper:", err)
			return
		}
		fmt.Fprintf(h.out, "block #%d overwritten\n", index)
	case commands.RENDER:
		chain, err := h.node.Snapshot()
		if err != nil {
			fmt.Fprintln(h.out, err)
			return
		}
		path, err := visualize.RenderToFile(chain, 0, h.node.Config().OUTPUT_DIR, h.node.Uuid())
		if err != nil {
			fmt.Fprintln(h.out, "failed to render:", err)
			return
		}
		fmt.Fprintln(h.out, "rendered chain to", path)
	case commands.EXPORT:
		chain, err := h.node.Snapshot()
		if err == nil {
			err = utils.SaveChainToFile(chain, c.Args[0])
		}
		if err != nil {
			fmt.Fprintln(h.out, "failed to export:", err)
			return
		}
		fmt.Fprintln(h.out, "exported chain to", c.Args[0])
	default:
		fmt.Fprintln(h.out, "Unrecognized command:", c)
	}
}

// Wait blocks until the running mining task, if any, is over.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// RunDemo mines three single transaction blocks, validates the chain,
// overwrites block 1's transactions and validates again.
func RunDemo(node *full_node.FullNode, out io.Writer) (bool, bool, error) {
	for _, tx := range []model.Transaction{
		{Sender: "Purvesh", Recipient: "Jenish", Amount: 50},
		{Sender: "Jenish", Recipient: "Dharmik", Amount: 30},
		{Sender: "Dharmik", Recipient: "Uttam", Amount: 20},
	} {
		if _, _, err := node.AddBlock([]model.Transaction{tx}, nil); err != nil {
			return false, false, err
		}
	}

	chain, err := node.Snapshot()
	if err != nil {
		return false, false, err
	}
	visualize.PrintChain(out, chain)

	before := node.ValidateChain()
	visualize.PrintValidation(out, before, "")

	err = node.Tamper(1, []model.Transaction{{Sender: "Eve", Recipient: "Charlie", Amount: 100}})
	if err != nil {
		return before, false, err
	}

	after := node.ValidateChain()
	visualize.PrintValidation(out, after, " after tampering")
	return before, after, nil
}

// Parse command from stdio.
func ParseCommand(cmd chan commands.Command) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err == io.EOF {
			close(cmd)
			return
		}
		// convert CRLF to LF
		text = strings.Replace(text, "\n", "", -1)
		c, err := commands.CreateCommand(text)
		if err != nil {
			log.Println(err)
			continue
		}
		cmd <- c
	}
}

// Return a gui handle if not in debug mode.
func ListenOnInput(cmd chan commands.Command, debugMode bool) *gocui.Gui {
	if debugMode {
		go ParseCommand(cmd)
		return nil
	}
	g, err := layout.CreateGui(cmd, *manualPath)
	if err != nil {
		log.Fatalln(err)
	}
	go func() {
		if err := g.MainLoop(); err != nil {
			g.Close()
			if err == gocui.ErrQuit {
				os.Exit(0)
			}
			os.Exit(1)
		}
	}()
	return g
}

func main() {
	flag.Parse()

	cfg := config.DefaultAppConfig()
	if *configPath != "" {
		c, err := config.ParseAppConfig(*configPath)
		if err != nil {
			log.Printf("using default config: %v", err)
		} else {
			cfg = c
		}
	}

	node, err := full_node.NewFullNode(cfg, utils.SystemClock{})
	if err != nil {
		log.Fatal("failed to create node: ", err)
	}
	log.Printf("node %s started with difficulty %d", node.Uuid(), cfg.DIFFICULTY)

	if *demo {
		if _, _, err := RunDemo(node, os.Stdout); err != nil {
			log.Fatal(err)
		}
		chain, err := node.Snapshot()
		if err != nil {
			log.Fatal(err)
		}
		if err := utils.SaveChainToFile(chain, filepath.Join(cfg.OUTPUT_DIR, "chain-"+node.Uuid()+".yaml")); err != nil {
			log.Fatal(err)
		}
		return
	}

	cmd := make(chan commands.Command)
	g := ListenOnInput(cmd, *debugMode)
	var out io.Writer = os.Stdout
	if g != nil {
		out = layout.Writer{G: g}
		log.SetOutput(out)
	}

	h := NewHandler(node, out)
	for c := range cmd {
		h.Handle(c)
	}
	h.Wait()
}
