// Package writer renders an assembled locater.Image (and the pass-1 symbol
// table) into the assembler's five output formats: COM flat binary, H16
// sparse hex records, a source listing, a symbol table dump, and a .tbl
// constant table. Grounded on com_file/h16_file/list_file/symbol_table/
// tbl_file in original_source/vm16asm/assembler.py.
package writer

import (
	"encoding/binary"
	"fmt"
	"io"

	"vm16asm/locater"
)

// WriteCOM writes img as a little-endian stream of 16-bit words, one per
// memory cell, with unwritten (-1) cells flattened to zero. The image must
// start at $0100, the fixed COM load address.
func WriteCOM(w io.Writer, img *locater.Image) error {
	if img.Start != 0x0100 {
		return fmt.Errorf("start address must be $0100, got $%04X", img.Start)
	}
	buf := make([]byte, 2)
	for _, v := range img.Words {
		word := v
		if word == -1 {
			word = 0
		}
		binary.LittleEndian.PutUint16(buf, uint16(word))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
