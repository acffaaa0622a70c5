package internal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// PassOne reads source lines from rd, fills the symbol and block tables and writes the
// intermediate stream to wr. It stops at END or at the first faulty line. Whatever was written
// before a failure stays in wr and the block layout is still computed, so a later pass two
// can produce a partial object file.
func (asm *Assembler) PassOne(rd io.Reader, wr io.Writer) (err error) {
	asm.reset()
	glog.V(1).Infof("Beginning pass 1")
	w := bufio.NewWriter(wr)
	defer func() {
		if !asm.finalized {
			asm.finalizeLayout()
		}
		if flushErr := w.Flush(); err == nil {
			err = flushErr
		}
	}()
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		asm.line++
		ended, err := asm.assignLine(scanner.Text(), w)
		if err != nil {
			return atLine(err, 1, asm.line)
		}
		if ended {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	glog.Warningf("no END directive, layout computed at end of input (line %d)", asm.line)
	asm.finalizeLayout()
	return asm.checkLayout()
}

// assignLine handles a single source line and reports whether it was END.
func (asm *Assembler) assignLine(text string, w io.Writer) (bool, error) {
	line := strings.TrimSpace(text)
	if line == "" {
		return false, nil
	}
	label, line := splitLabel(line)
	mnemonic, operand := splitMnemonic(line)
	mnemonic = strings.ToUpper(mnemonic)
	if mnemonic == "START" {
		// The program name labels the start address, so it is defined once START set it.
		if err := asm.assignStart(label, operand, w); err != nil {
			return false, err
		}
		if label != "" {
			asm.defineLabel(label)
		}
		return false, nil
	}
	if label != "" {
		asm.defineLabel(label)
		if line == "" {
			return false, nil
		}
	}
	switch mnemonic {
	case "USE":
		return false, asm.assignUse(operand, w)
	case "END":
		asm.finalizeLayout()
		if err := asm.writeIntermediate(w, IntermediateLine{Offset: asm.current.Counter, Mnemonic: mnemonic, Operand: operand}); err != nil {
			return true, err
		}
		return true, asm.checkLayout()
	}
	size, err := asm.isa.Size(mnemonic, operand)
	if err != nil {
		return false, err
	}
	offset := asm.current.Counter
	asm.current.Counter += size
	glog.V(2).Infof("line %d: %s %s at %04X in block %d, %d bytes", asm.line, mnemonic, operand, offset, asm.current.ID, size)
	return false, asm.writeIntermediate(w, IntermediateLine{Offset: offset, Mnemonic: mnemonic, Operand: operand})
}

func (asm *Assembler) defineLabel(label string) {
	if asm.symbols.Define(label, asm.current.Counter, asm.current.ID) {
		glog.Warningf("line %d: symbol %s redefined, the last definition wins", asm.line, label)
	}
	glog.V(2).Infof("line %d: define %s = %04X in block %d", asm.line, label, asm.current.Counter, asm.current.ID)
}

func (asm *Assembler) assignStart(label, operand string, w io.Writer) error {
	operand = firstField(operand)
	if operand != "" {
		start, err := strconv.ParseUint(operand, 16, 16)
		if err != nil || start > MaxAddress {
			return makeErr(ErrInvalidAddress, "START address must be a hex value up to %04X: %s", MaxAddress, operand)
		}
		asm.startAddress = int(start)
		asm.current.Counter = asm.startAddress
	}
	if label != "" {
		asm.programName = label
	}
	return asm.writeIntermediate(w, IntermediateLine{Offset: asm.startAddress, Mnemonic: "START", Operand: operand})
}

func (asm *Assembler) assignUse(operand string, w io.Writer) error {
	name := firstField(operand)
	block, exist := asm.blocks.Lookup(name)
	if !exist {
		block = asm.blocks.RegisterBlock(name, asm.startAddress)
		glog.V(1).Infof("line %d: new block %d %s", asm.line, block.ID, name)
	}
	asm.current = block
	return asm.writeIntermediate(w, IntermediateLine{Sentinel: true, Mnemonic: "USE", Operand: name})
}

func (asm *Assembler) finalizeLayout() {
	asm.programLength = asm.blocks.FinalizeLayout(asm.startAddress)
	asm.finalized = true
	glog.V(1).Infof("layout: %d blocks, program length %04X", asm.blocks.Len(), asm.programLength)
}

// checkLayout rejects a program whose last byte lies beyond the addressable range.
func (asm *Assembler) checkLayout() error {
	if end := asm.startAddress + asm.programLength; end > MaxAddress+1 {
		return makeErr(ErrInvalidAddress, "program from %04X with length %04X ends beyond %04X", asm.startAddress, asm.programLength, MaxAddress)
	}
	return nil
}

func (asm *Assembler) writeIntermediate(w io.Writer, line IntermediateLine) error {
	_, err := fmt.Fprintln(w, line.String())
	return err
}

// splitLabel splits "label: rest" on the first colon that comes before any quote, so a colon
// inside a character constant is not mistaken for a label.
func splitLabel(line string) (string, string) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return "", line
	}
	if quote := strings.IndexByte(line, '\''); quote != -1 && quote < colon {
		return "", line
	}
	return strings.TrimSpace(line[:colon]), strings.TrimSpace(line[colon+1:])
}

func splitMnemonic(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i == -1 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}
