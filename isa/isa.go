// Package isa holds the static instruction-set tables for the VM16 CPU:
// the opcode table (mnemonic plus its two operand-class markers), the
// operand-code table (the 20 encodable operand shapes in their fixed,
// load-bearing order), and the set of mnemonics whose branch target is
// implicitly immediate.
package isa

// Class names an operand-class set as used in the opcode table.
type Class int

const (
	// None marks an unused operand slot ("-" in the source table).
	None Class = iota
	REG
	MEM
	ADR
	CNST
	DST
	SRC
)

// Opcode describes one entry in the VM16 instruction table: a mnemonic and
// the operand classes its two operand slots accept.
type Opcode struct {
	Mnemonic string
	Op1      Class
	Op2      Class
}

// Opcodes is the VM16 instruction table, index == opcode value. Order is
// load-bearing: pass-2 encodes `opc1*1024 + opc2*32 + opc3` where opc1 is
// the index into this table.
var Opcodes = []Opcode{
	{"nop", None, None},
	{"brk", CNST, None},
	{"sys", CNST, None},
	{"res2", CNST, None},
	{"jump", ADR, None},
	{"call", ADR, None},
	{"ret", None, None},
	{"halt", None, None},
	{"move", DST, SRC},
	{"xchg", DST, DST},
	{"inc", DST, None},
	{"dec", DST, None},
	{"add", DST, SRC},
	{"sub", DST, SRC},
	{"mul", DST, SRC},
	{"div", DST, SRC},
	{"and", DST, SRC},
	{"or", DST, SRC},
	{"xor", DST, SRC},
	{"not", DST, None},
	{"bnze", DST, ADR},
	{"bze", DST, ADR},
	{"bpos", DST, ADR},
	{"bneg", DST, ADR},
	{"in", DST, CNST},
	{"out", CNST, SRC},
	{"push", SRC, None},
	{"pop", DST, None},
	{"swap", DST, None},
	{"dbnz", DST, ADR},
	{"mod", DST, SRC},
	{"shl", DST, SRC},
	{"shr", DST, SRC},
	{"addc", DST, SRC},
	{"mulc", DST, SRC},
	{"skne", SRC, SRC},
	{"skeq", SRC, SRC},
	{"sklt", SRC, SRC},
	{"skgt", SRC, SRC},
}

// JumpInstructions is the set of mnemonics whose branch-target operand is
// implicitly immediate when written as a bare identifier or number.
var JumpInstructions = map[string]bool{
	"call": true, "jump": true, "bnze": true, "bze": true,
	"bpos": true, "bneg": true, "dbnz": true,
}

// opcodeIndex maps mnemonic to its index in Opcodes, built once at init.
var opcodeIndex = func() map[string]int {
	m := make(map[string]int, len(Opcodes))
	for i, op := range Opcodes {
		m[op.Mnemonic] = i
	}
	return m
}()

// Lookup returns the opcode index for a mnemonic, and whether it exists.
func Lookup(mnemonic string) (int, bool) {
	idx, ok := opcodeIndex[mnemonic]
	return idx, ok
}

// NumOperands reports how many of the two operand slots this opcode uses.
func (o Opcode) NumOperands() int {
	n := 0
	if o.Op1 != None {
		n++
	}
	if o.Op2 != None {
		n++
	}
	return n
}
