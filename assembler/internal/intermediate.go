package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// sentinelOffset stands in for the offset of lines that occupy no address, i.e. USE.
const sentinelOffset = "XXXX"

// IntermediateLine is one sized line handed from pass one to pass two.
type IntermediateLine struct {
	Offset   int
	Sentinel bool
	Mnemonic string
	Operand  string
}

func (line IntermediateLine) String() string {
	offset := sentinelOffset
	if !line.Sentinel {
		offset = formatWord(line.Offset)
	}
	if line.Operand == "" {
		return fmt.Sprintf("%s %s", offset, line.Mnemonic)
	}
	return fmt.Sprintf("%s %s %s", offset, line.Mnemonic, line.Operand)
}

// ParseIntermediateLine reads back a line written by IntermediateLine.String.
func ParseIntermediateLine(text string) (IntermediateLine, error) {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 3)
	if len(fields) < 2 || fields[1] == "" {
		return IntermediateLine{}, makeErr(ErrMalformedIntermediate, "expected an offset and a mnemonic: %q", text)
	}
	line := IntermediateLine{Mnemonic: fields[1]}
	if len(fields) == 3 {
		line.Operand = strings.TrimSpace(fields[2])
	}
	if fields[0] == sentinelOffset {
		line.Sentinel = true
		return line, nil
	}
	offset, err := strconv.ParseInt(fields[0], 16, 32)
	if err != nil {
		return IntermediateLine{}, makeErr(ErrMalformedIntermediate, "bad offset %q", fields[0])
	}
	line.Offset = int(offset)
	return line, nil
}
