package locater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vm16asm/diag"
	"vm16asm/ir"
)

func rec(addr uint16, size int, opcodes ...ir.Word) *ir.Record {
	return &ir.Record{
		File: "main.asm", Line: 1, Type: ir.Code,
		Address: ir.Word(addr), Size: size, Opcodes: opcodes,
	}
}

func TestBuildSingleRecord(t *testing.T) {
	errs := &diag.List{}
	img, err := Build([]*ir.Record{rec(0, 1, 0x2001)}, errs)
	require.NoError(t, err)
	require.False(t, errs.HasErrors())
	assert.Empty(t, errs.Warnings)

	assert.Equal(t, uint16(0), img.Start)
	assert.Equal(t, uint16(0), img.Last)
	assert.Equal(t, []int32{0x2001}, img.Words)
}

func TestBuildContiguousRecords(t *testing.T) {
	errs := &diag.List{}
	records := []*ir.Record{
		rec(0, 1, 0x2001),
		rec(1, 2, 0x2010, 0x1234),
	}
	img, err := Build(records, errs)
	require.NoError(t, err)
	require.Empty(t, errs.Warnings)

	assert.Equal(t, uint16(0), img.Start)
	assert.Equal(t, uint16(2), img.Last)
	assert.Equal(t, []int32{0x2001, 0x2010, 0x1234}, img.Words)
}

func TestBuildSparseGapFillsNegOne(t *testing.T) {
	errs := &diag.List{}
	records := []*ir.Record{
		rec(0, 1, 0x2001),
		rec(5, 1, 0x2010),
	}
	img, err := Build(records, errs)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), img.Start)
	assert.Equal(t, uint16(5), img.Last)
	require.Len(t, img.Words, 6)
	assert.Equal(t, []int32{0x2001, -1, -1, -1, -1, 0x2010}, img.Words)
}

func TestBuildOverlapWarns(t *testing.T) {
	errs := &diag.List{}
	records := []*ir.Record{
		rec(0, 2, 0x2010, 0x1234),
		rec(1, 1, 0x9999),
	}
	img, err := Build(records, errs)
	require.NoError(t, err)
	require.Len(t, errs.Warnings, 1)
	assert.Contains(t, errs.Warnings[0].Message, "memory location conflict")
	// later record wins the slot it overlaps
	assert.Equal(t, int32(0x9999), img.Words[1])
}

func TestBuildIgnoresCommentRecords(t *testing.T) {
	errs := &diag.List{}
	comment := &ir.Record{File: "main.asm", Line: 1, Type: ir.Comment}
	records := []*ir.Record{comment, rec(0, 1, 0x2001)}
	img, err := Build(records, errs)
	require.NoError(t, err)
	assert.Equal(t, []int32{0x2001}, img.Words)
}

func TestBuildNoEmittingRecordsFails(t *testing.T) {
	errs := &diag.List{}
	comment := &ir.Record{File: "main.asm", Line: 1, Type: ir.Comment}
	_, err := Build([]*ir.Record{comment}, errs)
	assert.Error(t, err)
}
