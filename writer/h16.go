package writer

import (
	"bufio"
	"fmt"
	"io"

	"vm16asm/locater"
)

const h16RowSize = 8

// WriteH16 writes img as a sparse H16 hex-record file: a header carrying
// the start/last address, one data record per contiguous run of written
// cells within each 8-word row, and a terminator record.
func WriteH16(w io.Writer, img *locater.Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, ":2000001%04X%04X\n", img.Start, img.Last); err != nil {
		return err
	}

	mem := img.Words
	for idx := 0; idx < len(mem); idx += h16RowSize {
		end := idx + h16RowSize
		if end > len(mem) {
			end = len(mem)
		}
		row := mem[idx:end]

		i1 := 0
		for i1 < len(row) {
			i1 = firstValid(row, i1)
			if i1 >= len(row) {
				break
			}
			i2 := firstInvalid(row, i1)
			if err := writeRun(bw, row[i1:i2], uint32(img.Start)+uint32(idx+i1)); err != nil {
				return err
			}
			i1 = i2
		}
	}

	if _, err := fmt.Fprint(bw, ":00000FF\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func writeRun(bw *bufio.Writer, run []int32, addr uint32) error {
	_, err := fmt.Fprintf(bw, ":%X%04X00", len(run), addr)
	if err != nil {
		return err
	}
	for _, v := range run {
		if _, err := fmt.Fprintf(bw, "%04X", uint16(v)); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(bw, "\n")
	return err
}

func firstValid(row []int32, start int) int {
	for i := start; i < len(row); i++ {
		if row[i] != -1 {
			return i
		}
	}
	return len(row)
}

func firstInvalid(row []int32, start int) int {
	for i := start; i < len(row); i++ {
		if row[i] == -1 {
			return i
		}
	}
	return len(row)
}
