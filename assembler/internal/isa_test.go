package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSIC_Size(t *testing.T) {
	sic := NewSIC(DefaultOpcodeTable())
	testData := []struct {
		mnemonic string
		operand  string
		size     int
	}{
		{"LDA", "FIVE", 3},
		{"rsub", "", 3},
		{"WORD", "5", 3},
		{"BYTE", "C'EOF'", 3},
		{"BYTE", "c'A B'", 3},
		{"BYTE", "X'1C'", 1},
		{"BYTE", "X'ABC'", 2},
		{"RESW", "4", 12},
		{"RESB", "10", 10},
		{"RESB", "0", 0},
	}
	for _, data := range testData {
		size, err := sic.Size(data.mnemonic, data.operand)
		assert.Nil(t, err, data)
		assert.Equal(t, data.size, size, data)
	}
}

func TestSIC_Size_Errors(t *testing.T) {
	sic := NewSIC(DefaultOpcodeTable())
	testData := []struct {
		mnemonic string
		operand  string
		kind     error
	}{
		{"FOO", "1", ErrInvalidOpcode},
		{"BYTE", "", ErrMalformedConstant},
		{"BYTE", "EOF", ErrMalformedConstant},
		{"BYTE", "C'EOF", ErrMalformedConstant},
		{"BYTE", "Z'12'", ErrMalformedConstant},
		{"BYTE", "X'1G'", ErrMalformedConstant},
		{"RESW", "", ErrInvalidCount},
		{"RESW", "-1", ErrInvalidCount},
		{"RESB", "ten", ErrInvalidCount},
		{"WORD", "", ErrInvalidCount},
		{"WORD", "16777216", ErrInvalidCount},
		{"WORD", "-1", ErrInvalidCount},
		{"WORD", "-5", ErrInvalidCount},
	}
	for _, data := range testData {
		_, err := sic.Size(data.mnemonic, data.operand)
		assert.True(t, errors.Is(err, data.kind), "%v: %v", data, err)
	}
}

func TestSIC_Encode(t *testing.T) {
	sic := NewSIC(DefaultOpcodeTable())
	testData := []struct {
		mnemonic string
		operand  string
		opcode   string
		arg      Operand
		chunk    Chunk
	}{
		{"LDA", "FIVE", "00", Operand{Text: "FIVE", Address: 0x1003, Resolved: true}, Chunk{Code: "001003", Length: 3}},
		{"STA", "BUF,X", "0C", Operand{Text: "BUF", Address: 0x1009, Resolved: true, Indexed: true}, Chunk{Code: "0C9009", Length: 3}},
		{"RSUB", "", "4C", Operand{}, Chunk{Code: "4C0000", Length: 3}},
		{"WORD", "5", "", Operand{}, Chunk{Code: "000005", Length: 3}},
		{"WORD", "16777215", "", Operand{}, Chunk{Code: "FFFFFF", Length: 3}},
		{"BYTE", "C'EOF'", "", Operand{}, Chunk{Code: "454F46", Length: 3}},
		{"BYTE", "X'1C'", "", Operand{}, Chunk{Code: "1C", Length: 1}},
		{"BYTE", "X'ABC'", "", Operand{}, Chunk{Code: "0ABC", Length: 2}},
		{"RESW", "2", "", Operand{}, Chunk{Length: 6, Reserve: true}},
		{"RESB", "7", "", Operand{}, Chunk{Length: 7, Reserve: true}},
	}
	for _, data := range testData {
		chunk, err := sic.Encode(data.mnemonic, data.operand, data.opcode, data.arg)
		assert.Nil(t, err, data)
		assert.Equal(t, data.chunk, chunk, data)
	}
}

func TestSIC_Encode_IndexedBit(t *testing.T) {
	sic := NewSIC(DefaultOpcodeTable())
	for _, addr := range []int{0, 0x1, 0x1003, 0x7FFF} {
		indexed, err := sic.Encode("LDA", "A,X", "00", Operand{Text: "A", Address: addr, Resolved: true, Indexed: true})
		assert.Nil(t, err)
		plain, err := sic.Encode("LDA", "A", "00", Operand{Text: "A", Address: addr, Resolved: true})
		assert.Nil(t, err)
		assert.Equal(t, formatWord(addr|0x8000), indexed.Code[2:])
		assert.Equal(t, formatWord(addr), plain.Code[2:])
	}
}

func TestSIC_Encode_AddressRange(t *testing.T) {
	sic := NewSIC(DefaultOpcodeTable())
	for _, addr := range []int{0x8000, 0x8003, 0x10004, -1} {
		_, err := sic.Encode("LDA", "X", "00", Operand{Text: "X", Address: addr, Resolved: true})
		assert.True(t, errors.Is(err, ErrInvalidAddress), "%X", addr)
		_, err = sic.Encode("LDA", "X,X", "00", Operand{Text: "X", Address: addr, Resolved: true, Indexed: true})
		assert.True(t, errors.Is(err, ErrInvalidAddress), "%X", addr)
	}
	_, err := sic.Encode("WORD", "-5", "", Operand{})
	assert.True(t, errors.Is(err, ErrInvalidCount))
}

func TestSIC_Encode_UndefinedSymbol(t *testing.T) {
	sic := NewSIC(DefaultOpcodeTable())
	_, err := sic.Encode("LDA", "NOPE", "00", Operand{Text: "NOPE"})
	assert.True(t, errors.Is(err, ErrUndefinedSymbol))
	_, err = sic.Encode("FOO", "1", "", Operand{})
	assert.True(t, errors.Is(err, ErrInvalidOpcode))
}

func TestFirstField(t *testing.T) {
	assert.Equal(t, "FIVE", firstField(" FIVE  trailing"))
	assert.Equal(t, "C'A B'", firstField("C'A B' rest"))
	assert.Equal(t, "BUF,X", firstField("BUF,X"))
	assert.Equal(t, "", firstField(""))
}
