package internal

import (
	"fmt"
	"io"
	"strings"
)

// Symbol is a label defined in pass one. Offset is the location counter of the owning block at
// definition time and already includes the program start address, so it only becomes an
// absolute address once the block layout is final.
type Symbol struct {
	Name   string
	Offset int
	Block  int
}

type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

// Define records name at offset within block. A second definition of the same name replaces
// the first one; the returned flag tells the caller it happened.
func (table *SymbolTable) Define(name string, offset int, block int) (redefined bool) {
	symbol, exist := table.symbols[name]
	if exist {
		symbol.Offset = offset
		symbol.Block = block
		return true
	}
	table.symbols[name] = &Symbol{Name: name, Offset: offset, Block: block}
	table.order = append(table.order, name)
	return false
}

func (table *SymbolTable) Resolve(name string) (Symbol, bool) {
	symbol, exist := table.symbols[name]
	if !exist {
		return Symbol{}, false
	}
	return *symbol, true
}

func (table *SymbolTable) Len() int {
	return len(table.symbols)
}

// Symbols returns the symbols in definition order.
func (table *SymbolTable) Symbols() []Symbol {
	ret := make([]Symbol, 0, len(table.order))
	for _, name := range table.order {
		ret = append(ret, *table.symbols[name])
	}
	return ret
}

// Dump writes the table as "label value block" rows.
func (table *SymbolTable) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "label value block"); err != nil {
		return err
	}
	for _, symbol := range table.Symbols() {
		if _, err := fmt.Fprintf(w, "%s %s %d\n", symbol.Name, formatWord(symbol.Offset), symbol.Block); err != nil {
			return err
		}
	}
	return nil
}

const DefaultBlockName = "DEFAULT"

// Block is one program block. Counter is its location counter; Start and Length are only
// meaningful after FinalizeLayout.
type Block struct {
	ID      int
	Name    string
	Start   int
	Length  int
	Counter int
}

// BlockTable is an arena of blocks indexed by their id. Block 0 always exists.
type BlockTable struct {
	blocks []*Block
}

func NewBlockTable() *BlockTable {
	return &BlockTable{blocks: []*Block{{ID: 0, Name: DefaultBlockName}}}
}

// RegisterBlock allocates the next id for name, with its location counter set to start.
func (table *BlockTable) RegisterBlock(name string, start int) *Block {
	block := &Block{ID: len(table.blocks), Name: name, Counter: start}
	table.blocks = append(table.blocks, block)
	return block
}

// Lookup finds a block by name. An empty name or DEFAULT is block 0.
func (table *BlockTable) Lookup(name string) (*Block, bool) {
	if name == "" || strings.EqualFold(name, DefaultBlockName) {
		return table.blocks[0], true
	}
	for _, block := range table.blocks[1:] {
		if block.Name == name {
			return block, true
		}
	}
	return nil, false
}

func (table *BlockTable) Get(id int) (*Block, bool) {
	if id < 0 || id >= len(table.blocks) {
		return nil, false
	}
	return table.blocks[id], true
}

func (table *BlockTable) Len() int {
	return len(table.blocks)
}

func (table *BlockTable) Blocks() []Block {
	ret := make([]Block, 0, len(table.blocks))
	for _, block := range table.blocks {
		ret = append(ret, *block)
	}
	return ret
}

// FinalizeLayout computes every block's length from its location counter and lays the blocks
// out one after another in id order, starting at start. It returns the total program length.
func (table *BlockTable) FinalizeLayout(start int) int {
	next := start
	total := 0
	for _, block := range table.blocks {
		block.Length = block.Counter - start
		if block.Length < 0 {
			// A block only touched before START never advanced past the old start address.
			block.Length = 0
		}
		block.Start = next
		next += block.Length
		total += block.Length
	}
	return total
}

// Dump writes the table as "label name start_address length" rows.
func (table *BlockTable) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "label name start_address length"); err != nil {
		return err
	}
	for _, block := range table.blocks {
		_, err := fmt.Fprintf(w, "%d %s %s %s\n", block.ID, block.Name, formatWord(block.Start), formatWord(block.Length))
		if err != nil {
			return err
		}
	}
	return nil
}

// formatWord renders v as (at least) 4 upper case hex digits.
func formatWord(v int) string {
	return fmt.Sprintf("%04X", v)
}
