package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
)

// A two-pass assembler for the SIC machine. Pass one sizes every line, assigns labels to
// block relative offsets and lays the program blocks out; pass two resolves operands to
// relocated addresses and packs the object code into H/T/E records.

type Config struct {
	// OpcodeTablePath is the opcode definitions file; empty selects the built-in SIC table.
	OpcodeTablePath string
	// ContinueAfterPassOneError runs pass two over whatever pass one managed to write even if
	// pass one failed.
	ContinueAfterPassOneError bool
	// Dump writes the symbol and block tables next to the source between the passes.
	Dump bool
	// Verbose pretty prints the tables to stderr between the passes.
	Verbose bool
}

func DefaultConfig() Config {
	return Config{ContinueAfterPassOneError: true, Dump: true}
}

type Assembler struct {
	config  Config
	optab   *OpcodeTable
	isa     InstructionSet
	symbols *SymbolTable
	blocks  *BlockTable
	current *Block
	line    int

	programName   string
	startAddress  int
	programLength int
	finalized     bool
}

// CreateAssembler builds an assembler for the plain SIC instruction set.
func CreateAssembler(config Config) (*Assembler, error) {
	optab := DefaultOpcodeTable()
	if config.OpcodeTablePath != "" {
		var err error
		optab, err = LoadOpcodeTableFile(config.OpcodeTablePath)
		if err != nil {
			return nil, err
		}
	}
	return CreateAssemblerWith(config, optab, NewSIC(optab)), nil
}

// CreateAssemblerWith builds an assembler around a given opcode table and instruction set.
func CreateAssemblerWith(config Config, optab *OpcodeTable, isa InstructionSet) *Assembler {
	asm := &Assembler{config: config, optab: optab, isa: isa}
	asm.reset()
	return asm
}

func (asm *Assembler) reset() {
	asm.symbols = NewSymbolTable()
	asm.blocks = NewBlockTable()
	asm.current, _ = asm.blocks.Get(0)
	asm.line = 0
	asm.programName = ""
	asm.startAddress = 0
	asm.programLength = 0
	asm.finalized = false
}

func (asm *Assembler) ProgramName() string   { return asm.programName }
func (asm *Assembler) StartAddress() int     { return asm.startAddress }
func (asm *Assembler) ProgramLength() int    { return asm.programLength }
func (asm *Assembler) Symbols() *SymbolTable { return asm.symbols }
func (asm *Assembler) Blocks() *BlockTable   { return asm.blocks }

// Assemble assembles the source file at path. It writes <base>.intermediate and <base>.obj,
// plus <base>.symbol.dump and <base>.block.dump when dumps are enabled, where <base> is path
// without its extension.
func (asm *Assembler) Assemble(path string) error {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	intermediatePath := base + ".intermediate"
	objectPath := base + ".obj"

	passOneErr := asm.passOneFile(path, intermediatePath)
	if passOneErr != nil {
		glog.Errorf("pass 1 failed for %s: %v", path, passOneErr)
		if !asm.config.ContinueAfterPassOneError {
			return passOneErr
		}
	}
	if asm.config.Dump {
		if err := asm.dumpTables(base); err != nil {
			glog.Errorf("failed to dump tables for %s: %v", path, err)
		}
	}
	if asm.config.Verbose {
		pp.Fprintf(os.Stderr, "Symbols: %v\n", asm.symbols.Symbols())
		pp.Fprintf(os.Stderr, "Blocks: %v\n", asm.blocks.Blocks())
	}
	passTwoErr := asm.passTwoFile(intermediatePath, objectPath)
	if passTwoErr != nil {
		glog.Errorf("pass 2 failed for %s: %v", path, passTwoErr)
	}
	return errors.Join(passOneErr, passTwoErr)
}

func (asm *Assembler) passOneFile(sourcePath, intermediatePath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return makeErr(ErrFileOpen, "could not open file %s: %v", sourcePath, err)
	}
	defer src.Close()
	out, err := os.Create(intermediatePath)
	if err != nil {
		return makeErr(ErrFileOpen, "could not create intermediate file %s: %v", intermediatePath, err)
	}
	defer out.Close()
	glog.V(1).Infof("pass 1: %s -> %s", sourcePath, intermediatePath)
	return asm.PassOne(src, out)
}

func (asm *Assembler) passTwoFile(intermediatePath, objectPath string) error {
	in, err := os.Open(intermediatePath)
	if err != nil {
		return makeErr(ErrFileOpen, "could not open intermediate file %s: %v", intermediatePath, err)
	}
	defer in.Close()
	out, err := os.Create(objectPath)
	if err != nil {
		return makeErr(ErrFileOpen, "could not create object file %s: %v", objectPath, err)
	}
	defer out.Close()
	glog.V(1).Infof("pass 2: %s -> %s", intermediatePath, objectPath)
	return asm.PassTwo(in, out)
}

func (asm *Assembler) dumpTables(base string) error {
	symbolDump, err := os.Create(base + ".symbol.dump")
	if err != nil {
		return makeErr(ErrFileOpen, "could not create symbol dump: %v", err)
	}
	defer symbolDump.Close()
	if err := asm.symbols.Dump(symbolDump); err != nil {
		return err
	}
	blockDump, err := os.Create(base + ".block.dump")
	if err != nil {
		return makeErr(ErrFileOpen, "could not create block dump: %v", err)
	}
	defer blockDump.Close()
	return asm.blocks.Dump(blockDump)
}
