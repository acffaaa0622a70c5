package internal

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"

	"sic_assembler/util"
)

//go:embed opcode
var defaultOpcodes []byte

type OpcodeEntry struct {
	Mnemonic string
	// Opcode is the two hex digit machine opcode, kept textual because it is concatenated
	// into the object code as is.
	Opcode string
}

// OpcodeTable maps a mnemonic to its fixed opcode. It is loaded once and only read afterwards.
type OpcodeTable struct {
	entries map[string]OpcodeEntry
}

// DefaultOpcodeTable returns the standard SIC instruction set.
func DefaultOpcodeTable() *OpcodeTable {
	table, err := LoadOpcodeTable(bytes.NewReader(defaultOpcodes))
	if err != nil {
		panic(err)
	}
	return table
}

func LoadOpcodeTableFile(path string) (*OpcodeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, makeErr(ErrFileOpen, "could not open opcode table %s: %v", path, err)
	}
	defer f.Close()
	return LoadOpcodeTable(f)
}

// LoadOpcodeTable reads a header row of field names followed by one row per mnemonic. The
// first column is the mnemonic; the opcode is taken from the column named "value", or the
// second column when the header has no such field.
func LoadOpcodeTable(rd io.Reader) (*OpcodeTable, error) {
	table := &OpcodeTable{entries: map[string]OpcodeEntry{}}
	scanner := bufio.NewScanner(rd)
	valueColumn := -1
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if valueColumn == -1 {
			valueColumn = 1
			for i, field := range fields {
				if i > 0 && strings.EqualFold(field, "value") {
					valueColumn = i
				}
			}
			continue
		}
		if len(fields) <= valueColumn {
			return nil, &AsmError{Kind: ErrInvalidOpcode, Line: line, Msg: "opcode row has no value field"}
		}
		opcode := strings.ToUpper(fields[valueColumn])
		if !util.IsHexString(opcode) {
			return nil, &AsmError{Kind: ErrInvalidOpcode, Line: line, Msg: "opcode value " + opcode + " is not hex"}
		}
		mnemonic := strings.ToUpper(fields[0])
		table.entries[mnemonic] = OpcodeEntry{Mnemonic: mnemonic, Opcode: opcode}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// Lookup is case insensitive.
func (table *OpcodeTable) Lookup(mnemonic string) (OpcodeEntry, bool) {
	entry, ok := table.entries[strings.ToUpper(mnemonic)]
	return entry, ok
}

func (table *OpcodeTable) Len() int {
	return len(table.entries)
}
