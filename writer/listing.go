package writer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"vm16asm/ir"
	"vm16asm/symtab"
)

// WriteListing writes a VM16ASM-style source listing: comment lines
// verbatim, code lines as "AAAA: WWWW, WWWW  ; source", and text/data
// lines as a comment followed by an "AAAA: WWWW, WWWW" address line.
func WriteListing(w io.Writer, header string, records []*ir.Record) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, r := range records {
		if err := writeListingRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}

func writeListingRecord(w io.Writer, r *ir.Record) error {
	switch r.Type {
	case ir.Comment:
		_, err := fmt.Fprintln(w, strings.TrimRight(r.Text, " \t\r"))
		return err
	case ir.Code:
		addr := fmt.Sprintf("%04X", r.Address)
		code := joinHex(r.Opcodes)
		cmnt := strings.TrimSpace(r.Text)
		_, err := fmt.Fprintf(w, "%s: %-12s  ; %s\n", addr, code, cmnt)
		return err
	default: // WText, BText, Data
		if _, err := fmt.Fprintln(w, strings.TrimRight(r.Text, " \t\r")); err != nil {
			return err
		}
		addr := fmt.Sprintf("%04X", r.Address)
		code := joinHex(r.Opcodes)
		_, err := fmt.Fprintf(w, "%s: %s\n", addr, code)
		return err
	}
}

func joinHex(words []ir.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%04X", uint16(w))
	}
	return strings.Join(parts, ", ")
}

// WriteSymbols writes the symbol table sorted by address, the order the
// original assembler dumps it in.
func WriteSymbols(w io.Writer, symbols *symtab.Symbols) error {
	if _, err := fmt.Fprintln(w, "Symbol table:"); err != nil {
		return err
	}
	all := symbols.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return all[names[i]] < all[names[j]] })
	for _, name := range names {
		if _, err := fmt.Fprintf(w, " - %-24s = %04X\n", name, all[name]); err != nil {
			return err
		}
	}
	return nil
}
