package internal

import (
	"fmt"
	"io"
	"strings"
)

// MaxTextRecordLength is the largest number of code bytes one T record carries.
const MaxTextRecordLength = 30

// ObjectWriter writes the H, T and E records of an object file. Code chunks are buffered into
// the pending text record until it would overflow or a reserve chunk interrupts it.
type ObjectWriter struct {
	w            io.Writer
	record       []string
	recordStart  int
	recordLength int
	// track is the address of the next byte, advanced by every chunk including reserves.
	track   int
	records int
}

func NewObjectWriter(w io.Writer, start int) *ObjectWriter {
	return &ObjectWriter{w: w, track: start}
}

func (ow *ObjectWriter) WriteHeader(name string, start, length int) error {
	_, err := fmt.Fprintf(ow.w, "H %-6.6s %06X %06X\n", name, start, length)
	return err
}

// Add appends a chunk to the pending text record.
func (ow *ObjectWriter) Add(chunk Chunk) error {
	if chunk.Reserve {
		if err := ow.Flush(); err != nil {
			return err
		}
		ow.track += chunk.Length
		return nil
	}
	if chunk.Code == "" {
		ow.track += chunk.Length
		return nil
	}
	// A chunk bigger than a whole record is cut into record sized pieces.
	for chunk.Length > MaxTextRecordLength {
		piece := Chunk{Code: chunk.Code[:2*MaxTextRecordLength], Length: MaxTextRecordLength}
		if err := ow.Add(piece); err != nil {
			return err
		}
		chunk = Chunk{Code: chunk.Code[2*MaxTextRecordLength:], Length: chunk.Length - MaxTextRecordLength}
	}
	if ow.recordLength+chunk.Length > MaxTextRecordLength {
		if err := ow.Flush(); err != nil {
			return err
		}
	}
	if len(ow.record) == 0 {
		ow.recordStart = ow.track
	}
	ow.record = append(ow.record, chunk.Code)
	ow.recordLength += chunk.Length
	ow.track += chunk.Length
	return nil
}

// Flush writes the pending text record, if any.
func (ow *ObjectWriter) Flush() error {
	if len(ow.record) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(ow.w, "T %06X %02X %s\n", ow.recordStart, ow.recordLength, strings.Join(ow.record, " "))
	ow.record = ow.record[:0]
	ow.recordLength = 0
	ow.records++
	return err
}

// WriteEnd flushes the pending text record and terminates the object file.
func (ow *ObjectWriter) WriteEnd(start int) error {
	if err := ow.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(ow.w, "E %06X\n", start)
	return err
}

// Records is the number of T records written so far.
func (ow *ObjectWriter) Records() int {
	return ow.records
}
