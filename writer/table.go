package writer

import (
	"fmt"
	"io"

	"vm16asm/locater"
)

// WriteTable writes img as a ".tbl" constant table: comma-separated
// "0xWWWW" values, wrapped every 8 entries. Supplemented from
// original_source/vm16asm/assembler.py's tbl_file, dropped by the
// distilled specification but useful for feeding assembled constants into
// test fixtures.
func WriteTable(w io.Writer, img *locater.Image) error {
	for idx, v := range img.Words {
		word := v
		if word == -1 {
			word = 0
		}
		if idx > 0 {
			if idx%8 == 0 {
				if _, err := fmt.Fprint(w, ",\n"); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprint(w, ", "); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintf(w, "0x%04X", uint16(word)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
