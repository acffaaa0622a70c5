package internal

import (
	"bufio"
	"io"
	"strings"

	"github.com/golang/glog"
)

const indexedSuffix = ",X"

// PassTwo reads the intermediate stream written by PassOne and writes the object file to wr.
// It relies on the tables built by the last PassOne on this assembler.
func (asm *Assembler) PassTwo(rd io.Reader, wr io.Writer) (err error) {
	glog.V(1).Infof("Beginning pass 2")
	w := bufio.NewWriter(wr)
	defer func() {
		if flushErr := w.Flush(); err == nil {
			err = flushErr
		}
	}()
	ow := NewObjectWriter(w, asm.startAddress)
	if err := ow.WriteHeader(asm.programName, asm.startAddress, asm.programLength); err != nil {
		return err
	}
	scanner := bufio.NewScanner(rd)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		il, err := ParseIntermediateLine(text)
		if err != nil {
			return atLine(err, 2, line)
		}
		chunk, ok, err := asm.emitLine(il)
		if err != nil {
			return atLine(err, 2, line)
		}
		if !ok {
			continue
		}
		glog.V(2).Infof("line %d: %s %s -> %q (%d bytes)", line, il.Mnemonic, il.Operand, chunk.Code, chunk.Length)
		if err := ow.Add(chunk); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	glog.V(1).Infof("pass 2: %d text records", ow.Records())
	return ow.WriteEnd(asm.startAddress)
}

// emitLine produces the object code chunk of one intermediate line. ok is false for lines
// that never generate code.
func (asm *Assembler) emitLine(il IntermediateLine) (Chunk, bool, error) {
	mnemonic := strings.ToUpper(il.Mnemonic)
	if il.Sentinel || mnemonic == "START" || mnemonic == "END" || mnemonic == "USE" {
		return Chunk{}, false, nil
	}
	opcode := ""
	var arg Operand
	if entry, exist := asm.optab.Lookup(mnemonic); exist {
		opcode = entry.Opcode
		arg = asm.resolveOperand(firstField(il.Operand))
	}
	chunk, err := asm.isa.Encode(mnemonic, il.Operand, opcode, arg)
	if err != nil {
		return Chunk{}, false, err
	}
	return chunk, true, nil
}

// resolveOperand strips the indexed suffix and relocates the symbol from its block relative
// offset to its final address.
func (asm *Assembler) resolveOperand(operand string) Operand {
	arg := Operand{Text: operand}
	if strings.HasSuffix(strings.ToUpper(operand), indexedSuffix) {
		arg.Text = strings.TrimSpace(operand[:len(operand)-len(indexedSuffix)])
		arg.Indexed = true
	}
	if arg.Text == "" {
		return arg
	}
	symbol, exist := asm.symbols.Resolve(arg.Text)
	if !exist {
		return arg
	}
	block, exist := asm.blocks.Get(symbol.Block)
	if !exist {
		return arg
	}
	arg.Address = symbol.Offset - asm.startAddress + block.Start
	arg.Resolved = true
	return arg
}
