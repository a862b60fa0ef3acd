// Package locater builds the final sparse memory image from the encoded
// record stream: it finds the occupied address range, copies each
// record's words into place, and flags overlapping writes. Grounded on the
// module-level locater() function in
// original_source/vm16asm/assembler.py.
package locater

import (
	"fmt"
	"sort"

	"vm16asm/diag"
	"vm16asm/ir"
)

// Image is the assembled, sparse memory image: Start is the first occupied
// address, Last is the last occupied address, and Words holds one entry
// per cell, -1 meaning "never written".
type Image struct {
	Start uint16
	Last  uint16
	Words []int32
}

// Build locates every emitting record into a single memory image, in
// address order, flagging overlaps as warnings rather than failing.
func Build(records []*ir.Record, errs *diag.List) (*Image, error) {
	emitting := make([]*ir.Record, 0, len(records))
	for _, r := range records {
		if r.Emits() {
			emitting = append(emitting, r)
		}
	}
	if len(emitting) == 0 {
		return nil, fmt.Errorf("no emitted code or data")
	}

	sorted := make([]*ir.Record, len(emitting))
	copy(sorted, emitting)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	start := sorted[0].Address
	end := 0
	for _, r := range sorted {
		if e := int(r.Address) + r.Size; e > end {
			end = e
		}
	}

	size := end - int(start)
	words := make([]int32, size)
	for i := range words {
		words[i] = -1
	}

	for _, r := range emitting {
		base := int(r.Address) - int(start)
		for i, w := range r.Opcodes {
			pos := base + i
			if words[pos] != -1 {
				errs.AddWarning(&diag.Warning{
					Pos:     r.Pos(),
					Message: fmt.Sprintf("memory location conflict at $%04X", int(start)+pos),
				})
			}
			words[pos] = int32(w)
		}
	}

	return &Image{Start: uint16(start), Last: uint16(end - 1), Words: words}, nil
}
