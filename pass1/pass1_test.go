package pass1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vm16asm/ir"
	"vm16asm/symtab"
)

func run(t *testing.T, lines []string) ([]*ir.Record, *Pass1) {
	t.Helper()
	ns := symtab.NewNamespaces()
	ns.Add("main")
	p := New(ns)

	var irLines []ir.Line
	for i, l := range lines {
		irLines = append(irLines, ir.Line{File: "main.asm", Line: i + 1, Text: l})
	}
	recs := p.Run(irLines)
	return recs, p
}

func TestCommentAndBlankLines(t *testing.T) {
	recs, p := run(t, []string{"; a comment", "", "   "})
	require.False(t, p.Errors().HasErrors())
	for _, r := range recs {
		assert.Equal(t, ir.Comment, r.Type)
		assert.False(t, r.Emits())
	}
}

func TestCodeSegmentSizing(t *testing.T) {
	recs, p := run(t, []string{".code", "move A, B", "move A, #$1234"})
	require.False(t, p.Errors().HasErrors())

	// recs[0] is the .code directive -> comment
	assert.Equal(t, ir.Comment, recs[0].Type)

	assert.Equal(t, ir.Code, recs[1].Type)
	assert.Equal(t, 1, recs[1].Size)
	assert.Equal(t, ir.Word(0), recs[1].Address)

	assert.Equal(t, ir.Code, recs[2].Type)
	assert.Equal(t, 2, recs[2].Size)
	assert.Equal(t, ir.Word(1), recs[2].Address)
}

func TestDefaultStartLabel(t *testing.T) {
	_, p := run(t, []string{".code", "move A, B"})
	require.False(t, p.Errors().HasErrors())

	addr, ok := p.Symbols.Lookup("main.start")
	require.True(t, ok)
	assert.Equal(t, uint16(0), addr)
}

func TestLabelDefinition(t *testing.T) {
	recs, p := run(t, []string{".code", "loop:", "  move A, B"})
	require.False(t, p.Errors().HasErrors())

	addr, ok := p.Symbols.Lookup("main.loop")
	require.True(t, ok)
	assert.Equal(t, uint16(0), addr)

	var codeRec *ir.Record
	for _, r := range recs {
		if r.Type == ir.Code {
			codeRec = r
		}
	}
	require.NotNil(t, codeRec)
	assert.Equal(t, []string{"move", "A", "B"}, codeRec.Words)
}

func TestDuplicateLabelFails(t *testing.T) {
	_, p := run(t, []string{".code", "loop:", "  nop", "loop:", "  nop"})
	assert.True(t, p.Errors().HasErrors())
}

func TestAliasDefinitionAndSubstitution(t *testing.T) {
	recs, p := run(t, []string{".code", "limit = $FF", "move A, #limit"})
	require.False(t, p.Errors().HasErrors())

	repl, ok := p.Aliases.Lookup("main.limit")
	require.True(t, ok)
	assert.Equal(t, "$FF", repl)

	var codeRec *ir.Record
	for _, r := range recs {
		if r.Type == ir.Code {
			codeRec = r
		}
	}
	require.NotNil(t, codeRec)
	assert.Equal(t, 2, codeRec.Size)
}

func TestJumpOperandCorrection(t *testing.T) {
	recs, p := run(t, []string{".code", "jump target"})
	require.False(t, p.Errors().HasErrors())

	var codeRec *ir.Record
	for _, r := range recs {
		if r.Type == ir.Code {
			codeRec = r
		}
	}
	require.NotNil(t, codeRec)
	assert.Equal(t, "#target", codeRec.Words[1])
}

func TestShortFormSizing(t *testing.T) {
	recs, p := run(t, []string{".code", "sys #42"})
	require.False(t, p.Errors().HasErrors())

	var codeRec *ir.Record
	for _, r := range recs {
		if r.Type == ir.Code {
			codeRec = r
		}
	}
	require.NotNil(t, codeRec)
	assert.Equal(t, 1, codeRec.Size)
}

func TestDataSegment(t *testing.T) {
	recs, p := run(t, []string{".data", "1 2 $3"})
	require.False(t, p.Errors().HasErrors())

	var dataRec *ir.Record
	for _, r := range recs {
		if r.Type == ir.Data {
			dataRec = r
		}
	}
	require.NotNil(t, dataRec)
	assert.Equal(t, []ir.Word{1, 2, 3}, dataRec.NumWords)
}

func TestTextSegment(t *testing.T) {
	recs, p := run(t, []string{".text", `"AB"`})
	require.False(t, p.Errors().HasErrors())

	var rec *ir.Record
	for _, r := range recs {
		if r.Type == ir.WText {
			rec = r
		}
	}
	require.NotNil(t, rec)
	assert.Equal(t, []ir.Word{'A', 'B'}, rec.NumWords)
}

func TestCompressedTextSegment(t *testing.T) {
	recs, p := run(t, []string{".ctext", `"AB"`})
	require.False(t, p.Errors().HasErrors())

	var rec *ir.Record
	for _, r := range recs {
		if r.Type == ir.BText {
			rec = r
		}
	}
	require.NotNil(t, rec)
	want := uint16('A')<<8 | uint16('B')
	assert.Equal(t, []ir.Word{ir.Word(want)}, rec.NumWords)
}

func TestOrgDirective(t *testing.T) {
	recs, p := run(t, []string{".org $100", ".code", "nop"})
	require.False(t, p.Errors().HasErrors())

	var codeRec *ir.Record
	for _, r := range recs {
		if r.Type == ir.Code {
			codeRec = r
		}
	}
	require.NotNil(t, codeRec)
	assert.Equal(t, ir.Word(0x100), codeRec.Address)
}

func TestInvalidMnemonicFails(t *testing.T) {
	_, p := run(t, []string{".code", "bogus A, B"})
	assert.True(t, p.Errors().HasErrors())
}
