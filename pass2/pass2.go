// Package pass2 implements the assembler's second pass: it resolves every
// operand to its numeric operand code and value, validates operand-class
// membership against the instruction's declared operand types, and packs
// the final instruction word(s). Grounded on AsmBase and AsmPass2 in
// original_source/vm16asm/assembler.py.
package pass2

import (
	"regexp"
	"strings"

	"vm16asm/diag"
	"vm16asm/ir"
	"vm16asm/isa"
	"vm16asm/litparse"
	"vm16asm/symtab"
)

var (
	reConst = regexp.MustCompile(`^#(\$?[0-9A-Fa-fx]+)$`)
	reAddr  = regexp.MustCompile(`^(\$?[0-9A-Fa-fx]+)$`)
	reRel   = regexp.MustCompile(`^([+-])(\$?[0-9A-Fa-fx]+)$`)
	reStack = regexp.MustCompile(`^\[SP\+(\$?[0-9A-Fa-fx]+)\]$`)
)

// Pass2 resolves operands and encodes instructions using the symbol and
// alias tables pass-1 built.
type Pass2 struct {
	Namespaces *symtab.Namespaces
	Symbols    *symtab.Symbols
	Aliases    *symtab.Aliases

	errs      *diag.List
	namespace string
	line      string
}

func New(namespaces *symtab.Namespaces, symbols *symtab.Symbols, aliases *symtab.Aliases) *Pass2 {
	return &Pass2{Namespaces: namespaces, Symbols: symbols, Aliases: aliases, errs: &diag.List{}}
}

func (p *Pass2) Errors() *diag.List { return p.errs }

// Run encodes every record. Non-Code records pass their pass-1 numeric
// payload through unchanged; Code records are fully resolved here.
func (p *Pass2) Run(records []*ir.Record) []*ir.Record {
	for _, rec := range records {
		if rec.Type == ir.Code {
			p.decode(rec)
		} else {
			rec.Opcodes = rec.NumWords
		}
	}
	return records
}

func (p *Pass2) fail(rec *ir.Record, format string, args ...any) {
	p.errs.AddError(diag.NewError(rec.Pos(), diag.Semantic, format, args...))
}

func (p *Pass2) namespaceOf(file string) string {
	if idx := strings.LastIndex(file, "."); idx >= 0 {
		return file[:idx]
	}
	return file
}

func listGet(words []string, idx int) string {
	if idx < len(words) {
		return words[idx]
	}
	return ""
}

func (p *Pass2) decode(rec *ir.Record) {
	p.namespace = p.namespaceOf(rec.File)
	p.line = strings.TrimSpace(strings.SplitN(rec.Text, ";", 2)[0])

	instr := listGet(rec.Words, 0)
	opnd1 := listGet(rec.Words, 1)
	opnd2 := listGet(rec.Words, 2)

	idx, ok := isa.Lookup(instr)
	if !ok {
		p.fail(rec, "invalid opcode in %q", p.line)
		return
	}
	op := isa.Opcodes[idx]

	numWant := op.NumOperands()
	numHave := len(rec.Words) - 1
	if numWant != numHave {
		p.fail(rec, "invalid operand in %q", p.line)
		return
	}

	var opc2, opc3 int
	var val1, val2 *uint16

	if opnd1 != "" && idx < 4 {
		num, err := litparse.ParseConst10(opnd1)
		if err != nil {
			p.fail(rec, "invalid operand in %q", p.line)
			return
		}
		opc2 = int(num) / 32
		opc3 = int(num) % 32
	} else {
		var ok1, ok2 bool
		opc2, val1, ok1 = p.operand(rec, opnd1)
		opc3, val2, ok2 = p.operand(rec, opnd2)
		if !ok1 || !ok2 {
			return
		}
		if opnd1 != "" {
			p.checkOperandType(rec, op.Op1, opc2, opnd1)
		}
		if opnd2 != "" {
			p.checkOperandType(rec, op.Op2, opc3, opnd2)
		}
	}

	code := []ir.Word{ir.Word(idx*1024 + opc2*32 + opc3)}
	if val1 != nil {
		code = append(code, ir.Word(*val1))
	}
	if val2 != nil {
		code = append(code, ir.Word(*val2))
	}
	if len(code) != rec.Size {
		p.fail(rec, "internal error: word count mismatch in %q", p.line)
		return
	}
	rec.Opcodes = code
}

func (p *Pass2) checkOperandType(rec *ir.Record, class isa.Class, opcode int, raw string) {
	if class == isa.None {
		return
	}
	if !isa.ClassContains(class, isa.OperandCode(opcode)) {
		p.fail(rec, "invalid operand type in %q", p.line)
	}
}

// resolveAlias mirrors pass-1's substitution exactly, since aliases are
// resolved the same way in both passes (AsmBase.aliases).
func (p *Pass2) resolveAlias(s string) string {
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, "#") {
		fq, ok := symtab.Qualify(p.Namespaces, p.namespace, s[1:])
		if ok {
			if repl, found := p.Aliases.Lookup(fq); found {
				return "#" + repl
			}
		}
		return s
	}
	fq, ok := symtab.Qualify(p.Namespaces, p.namespace, s)
	if ok {
		if repl, found := p.Aliases.Lookup(fq); found {
			return repl
		}
	}
	return s
}

func (p *Pass2) symbolAddr(rec *ir.Record, label string) (uint16, bool) {
	fq, ok := symtab.Qualify(p.Namespaces, p.namespace, label)
	if ok {
		if addr, found := p.Symbols.Lookup(fq); found {
			return addr, true
		}
	}
	p.fail(rec, "invalid operand in %q", p.line)
	return 0, false
}

// operand resolves a single operand string to its operand code and,
// optionally, an extra value word. The returned bool is false if a fatal
// error has been recorded for rec.
func (p *Pass2) operand(rec *ir.Record, s string) (int, *uint16, bool) {
	if s == "" {
		return 0, nil, true
	}
	s = p.resolveAlias(s)

	if code, found := isa.LookupOperandSyntax(s); found {
		return int(code), nil, true
	}
	if s == "#$0" {
		c, _ := isa.LookupOperandSyntax("#0")
		return int(c), nil, true
	}
	if s == "#$1" {
		c, _ := isa.LookupOperandSyntax("#1")
		return int(c), nil, true
	}
	if m := reConst.FindStringSubmatch(s); m != nil {
		v, err := litparse.ParseValue(m[1])
		if err != nil {
			p.fail(rec, "invalid operand in %q", p.line)
			return 0, nil, false
		}
		return int(isa.Imm), u16ptr(v), true
	}
	if m := reAddr.FindStringSubmatch(s); m != nil {
		v, err := litparse.ParseValue(m[1])
		if err != nil {
			p.fail(rec, "invalid operand in %q", p.line)
			return 0, nil, false
		}
		return int(isa.Ind), u16ptr(v), true
	}
	if m := reRel.FindStringSubmatch(s); m != nil {
		v, err := litparse.ParseValue(m[2])
		if err != nil {
			p.fail(rec, "invalid operand in %q", p.line)
			return 0, nil, false
		}
		var offset uint16
		if m[1] == "-" {
			offset = uint16((0x10000 - int(v)) & 0xFFFF)
		} else {
			offset = v
		}
		return int(isa.Rel), u16ptr(offset), true
	}
	if m := reStack.FindStringSubmatch(s); m != nil {
		v, err := litparse.ParseValue(m[1])
		if err != nil {
			p.fail(rec, "invalid operand in %q", p.line)
			return 0, nil, false
		}
		return int(isa.StackSP), u16ptr(v), true
	}
	if strings.HasPrefix(s, "#") {
		addr, ok := p.symbolAddr(rec, s[1:])
		if !ok {
			return 0, nil, false
		}
		return int(isa.Imm), u16ptr(addr), true
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		dst, ok := p.symbolAddr(rec, s[1:])
		if !ok {
			return 0, nil, false
		}
		src := int(rec.Address)
		offset := uint16((0x10000 + int(dst) - src - 2) & 0xFFFF)
		return int(isa.Rel), u16ptr(offset), true
	}
	addr, ok := p.symbolAddr(rec, s)
	if !ok {
		return 0, nil, false
	}
	return int(isa.Ind), u16ptr(addr), true
}

func u16ptr(v uint16) *uint16 {
	return &v
}
