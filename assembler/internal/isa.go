package internal

import (
	"fmt"
	"strconv"
	"strings"

	"sic_assembler/util"
)

// Operand is an instruction operand after symbol resolution in pass two.
type Operand struct {
	Text     string
	Address  int
	Resolved bool
	Indexed  bool
}

// Chunk is the object code produced by one line. A reserve chunk carries no code, only the
// number of bytes it skips.
type Chunk struct {
	Code    string
	Length  int
	Reserve bool
}

// InstructionSet decides how big every instruction or directive is and how it is encoded.
// Pass one only calls Size, pass two only calls Encode.
type InstructionSet interface {
	Size(mnemonic, operand string) (int, error)
	// Encode builds the object code of a line. opcode is empty for directives.
	Encode(mnemonic, operand, opcode string, arg Operand) (Chunk, error)
}

const (
	instructionSize = 3
	wordSize        = 3
	indexedBit      = 0x8000
	maxWord         = 1<<24 - 1
	// MaxAddress is the highest address an instruction can reach; the bit above it is the
	// index flag.
	MaxAddress = indexedBit - 1
)

// SIC is the plain SIC machine: every instruction is 3 bytes, an opcode byte followed by a
// 16 bit address whose high bit selects indexed addressing.
type SIC struct {
	optab *OpcodeTable
}

func NewSIC(optab *OpcodeTable) *SIC {
	return &SIC{optab: optab}
}

func (sic *SIC) Size(mnemonic, operand string) (int, error) {
	operand = firstField(operand)
	switch strings.ToUpper(mnemonic) {
	case "WORD":
		if _, err := parseWord(operand); err != nil {
			return 0, err
		}
		return wordSize, nil
	case "BYTE":
		kind, body, err := splitConstant(operand)
		if err != nil {
			return 0, err
		}
		if kind == 'C' {
			return len(body), nil
		}
		return (len(body) + 1) / 2, nil
	case "RESW":
		n, err := parseCount(mnemonic, operand)
		if err != nil {
			return 0, err
		}
		return wordSize * n, nil
	case "RESB":
		return parseCount(mnemonic, operand)
	default:
		if _, ok := sic.optab.Lookup(mnemonic); !ok {
			return 0, makeErr(ErrInvalidOpcode, "invalid opcode: %s", mnemonic)
		}
		return instructionSize, nil
	}
}

func (sic *SIC) Encode(mnemonic, operand, opcode string, arg Operand) (Chunk, error) {
	if opcode != "" {
		return sic.encodeInstruction(opcode, arg)
	}
	operand = firstField(operand)
	switch strings.ToUpper(mnemonic) {
	case "WORD":
		value, err := parseWord(operand)
		if err != nil {
			return Chunk{}, err
		}
		return Chunk{Code: fmt.Sprintf("%06X", value), Length: wordSize}, nil
	case "BYTE":
		kind, body, err := splitConstant(operand)
		if err != nil {
			return Chunk{}, err
		}
		var code string
		if kind == 'C' {
			bf := strings.Builder{}
			for i := 0; i < len(body); i++ {
				bf.WriteString(fmt.Sprintf("%02X", body[i]))
			}
			code = bf.String()
		} else {
			code = body
			if len(code)%2 == 1 {
				code = "0" + code
			}
		}
		return Chunk{Code: code, Length: len(code) / 2}, nil
	case "RESW":
		n, err := parseCount(mnemonic, operand)
		if err != nil {
			return Chunk{}, err
		}
		return Chunk{Length: wordSize * n, Reserve: true}, nil
	case "RESB":
		n, err := parseCount(mnemonic, operand)
		if err != nil {
			return Chunk{}, err
		}
		return Chunk{Length: n, Reserve: true}, nil
	default:
		return Chunk{}, makeErr(ErrInvalidOpcode, "invalid opcode: %s", mnemonic)
	}
}

func (sic *SIC) encodeInstruction(opcode string, arg Operand) (Chunk, error) {
	code := opcode + "0000"
	if arg.Text != "" {
		if !arg.Resolved {
			return Chunk{}, makeErr(ErrUndefinedSymbol, "undefined symbol: %s", arg.Text)
		}
		addr := arg.Address
		if addr < 0 || addr > MaxAddress {
			return Chunk{}, makeErr(ErrInvalidAddress, "address %X of %s is beyond %04X", addr, arg.Text, MaxAddress)
		}
		if arg.Indexed {
			addr |= indexedBit
		}
		code = opcode + formatWord(addr)
	}
	return Chunk{Code: code, Length: len(code) / 2}, nil
}

// splitConstant splits a BYTE operand like C'EOF' or X'1C' into its upper case type tag and
// the text between the quotes.
func splitConstant(operand string) (byte, string, error) {
	if operand == "" {
		return 0, "", makeErr(ErrMalformedConstant, "BYTE directive requires an operand")
	}
	kind := operand[0] &^ 0x20
	if kind != 'C' && kind != 'X' {
		return 0, "", makeErr(ErrMalformedConstant, "BYTE directive requires 'C' or 'X' type specifier: %s", operand)
	}
	if len(operand) < 3 || operand[1] != '\'' || operand[len(operand)-1] != '\'' {
		return 0, "", makeErr(ErrMalformedConstant, "invalid format for constant in BYTE directive: %s", operand)
	}
	body := operand[2 : len(operand)-1]
	if kind == 'X' && !util.IsHexString(body) {
		return 0, "", makeErr(ErrMalformedConstant, "invalid hex constant in BYTE directive: %s", operand)
	}
	return kind, body, nil
}

func parseCount(mnemonic, operand string) (int, error) {
	if operand == "" {
		return 0, makeErr(ErrInvalidCount, "%s directive requires an operand", strings.ToUpper(mnemonic))
	}
	if !util.IsDecimalString(operand) {
		return 0, makeErr(ErrInvalidCount, "%s operand must be a valid integer: %s", strings.ToUpper(mnemonic), operand)
	}
	n, err := strconv.Atoi(operand)
	if err != nil {
		return 0, makeErr(ErrInvalidCount, "%s operand out of range: %s", strings.ToUpper(mnemonic), operand)
	}
	if n < 0 {
		return 0, makeErr(ErrInvalidCount, "%s operand must be non-negative: %s", strings.ToUpper(mnemonic), operand)
	}
	return n, nil
}

func parseWord(operand string) (int, error) {
	if !util.IsDecimalString(operand) {
		return 0, makeErr(ErrInvalidCount, "WORD operand must be a valid integer: %s", operand)
	}
	value, err := strconv.Atoi(operand)
	if err != nil || value > maxWord {
		return 0, makeErr(ErrInvalidCount, "WORD operand does not fit in 24 bits: %s", operand)
	}
	if value < 0 {
		return 0, makeErr(ErrInvalidCount, "WORD operand must be non-negative: %s", operand)
	}
	return value, nil
}

// firstField drops anything after the first blank, the way a word-wise read of the operand
// column does. Character constants keep their embedded blanks.
func firstField(operand string) string {
	operand = strings.TrimSpace(operand)
	if len(operand) > 1 && operand[1] == '\'' {
		if end := strings.LastIndexByte(operand, '\''); end > 1 {
			return operand[:end+1]
		}
	}
	if i := strings.IndexAny(operand, " \t"); i != -1 {
		return operand[:i]
	}
	return operand
}
