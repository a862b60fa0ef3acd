package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vm16asm/ir"
	"vm16asm/symtab"
)

func TestWriteListingCommentVerbatim(t *testing.T) {
	records := []*ir.Record{
		{Type: ir.Comment, Text: "; a comment"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, "vm16asm listing", records))
	assert.Contains(t, buf.String(), "vm16asm listing")
	assert.Contains(t, buf.String(), "; a comment")
}

func TestWriteListingCodeRecord(t *testing.T) {
	records := []*ir.Record{
		{Type: ir.Code, Address: 0, Opcodes: []ir.Word{0x2001}, Text: "move A, B"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, "hdr", records))
	assert.Contains(t, buf.String(), "0000: 2001")
	assert.Contains(t, buf.String(), "move A, B")
}

func TestWriteListingDataRecordShowsAddressAndText(t *testing.T) {
	records := []*ir.Record{
		{Type: ir.Data, Address: 2, Opcodes: []ir.Word{1, 2, 3}, Text: "1 2 3"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, "hdr", records))
	out := buf.String()
	assert.Contains(t, out, "1 2 3")
	assert.Contains(t, out, "0002: 0001, 0002, 0003")
}

func TestWriteSymbolsSortedByAddress(t *testing.T) {
	syms := symtab.NewSymbols()
	require.NoError(t, syms.Define("main.b", 0x0010))
	require.NoError(t, syms.Define("main.a", 0x0005))

	var buf bytes.Buffer
	require.NoError(t, WriteSymbols(&buf, syms))

	out := buf.String()
	idxA := indexOf(out, "main.a")
	idxB := indexOf(out, "main.b")
	require.GreaterOrEqual(t, idxA, 0)
	require.GreaterOrEqual(t, idxB, 0)
	assert.Less(t, idxA, idxB)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
