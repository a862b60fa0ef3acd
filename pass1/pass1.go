// Package pass1 implements the assembler's first pass: it walks the
// tokenizer's raw line stream, builds the symbol and alias tables, tracks
// the current segment and address, and computes each instruction's word
// count (without yet resolving operand values, which is pass-2's job).
// Grounded on AsmBase and AsmPass1 in
// original_source/vm16asm/assembler.py.
package pass1

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
	reLabel  = regexp.MustCompile(`^([A-Za-z_][A-Za-z_0-9.]+):`)
	reEquals = regexp.MustCompile(`^([A-Za-z_][A-Za-z_0-9.]+) *= *(\S+)`)
)

// Pass1 runs the first pass over a tokenized source stream.
type Pass1 struct {
	Namespaces *symtab.Namespaces
	Symbols    *symtab.Symbols
	Aliases    *symtab.Aliases

	segment ir.LineType
	addr    uint16
	errs    *diag.List

	namespace string // current line's namespace, derived from its file
	line      string // cleaned line, for error messages
}

// New creates a Pass1 over a previously populated namespace set.
func New(namespaces *symtab.Namespaces) *Pass1 {
	return &Pass1{
		Namespaces: namespaces,
		Symbols:    symtab.NewSymbols(),
		Aliases:    symtab.NewAliases(),
		segment:    ir.Code,
		errs:       &diag.List{},
	}
}

// Errors returns the accumulated error list.
func (p *Pass1) Errors() *diag.List { return p.errs }

// Run processes every line, returning one Record per input line (including
// comments), in order.
func (p *Pass1) Run(lines []ir.Line) []*ir.Record {
	out := make([]*ir.Record, 0, len(lines))
	for _, ln := range lines {
		out = append(out, p.decode(ln))
	}
	return out
}

func (p *Pass1) fail(ln ir.Line, format string, args ...any) {
	p.errs.AddError(diag.NewError(ln.Pos(), diag.Semantic, format, args...))
}

func (p *Pass1) comment(ln ir.Line) *ir.Record {
	return &ir.Record{File: ln.File, Line: ln.Line, Text: ln.Text, Type: ir.Comment}
}

func (p *Pass1) namespaceOf(file string) string {
	if idx := strings.LastIndex(file, "."); idx >= 0 {
		return file[:idx]
	}
	return file
}

func (p *Pass1) decode(ln ir.Line) *ir.Record {
	p.namespace = p.namespaceOf(ln.File)

	line := ln.Text
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimRight(line, " \t")
	p.line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, ",", " ")
	line = strings.ReplaceAll(line, "\t", "    ")
	line = strings.TrimSpace(line)

	if line == "" {
		return p.comment(ln)
	}

	words := strings.Fields(line)

	if p.directive(ln, line, words) {
		p.addDefaultLabel(words)
		return p.comment(ln)
	}

	if m := reEquals.FindStringSubmatch(line); m != nil {
		p.addAlias(ln, m[1], m[2])
		return p.comment(ln)
	}

	if m := reLabel.FindStringSubmatch(line); m != nil {
		p.addSymbol(ln, m[1], p.addr)
		if len(words) == 1 {
			return p.comment(ln)
		}
		words = words[1:]
		rest := strings.SplitN(line, " ", 2)
		if len(rest) == 2 {
			line = rest[1]
		}
	}

	switch p.segment {
	case ir.WText:
		vals := litparse.ParseString(strings.TrimSpace(line))
		return p.emit(ln, ir.WText, len(vals), words, vals)
	case ir.BText:
		vals := litparse.ParseByteString(strings.TrimSpace(line))
		return p.emit(ln, ir.BText, len(vals), words, vals)
	case ir.Data:
		vals := make([]uint16, 0, len(words))
		for _, w := range words {
			v, err := litparse.ParseValue(w)
			if err != nil {
				p.fail(ln, "invalid operand in %q", p.line)
				continue
			}
			vals = append(vals, v)
		}
		return p.emit(ln, ir.Data, len(vals), words, vals)
	}

	// Code segment.
	idx, ok := isa.Lookup(words[0])
	if !ok {
		p.fail(ln, "invalid syntax %q", p.line)
		return p.comment(ln)
	}

	var size int
	if len(words) == 2 && idx < 4 {
		size = 1
	} else {
		words = operandCorrection(words)
		size = 1 + p.operandSize(listGet(words, 1)) + p.operandSize(listGet(words, 2))
		if size > 2 {
			p.fail(ln, "invalid syntax in %q (number of words > 2)", p.line)
		}
	}
	rec := &ir.Record{File: ln.File, Line: ln.Line, Text: ln.Text, Type: ir.Code, Address: ir.Word(p.addr), Size: size, Words: words}
	p.addr += uint16(size)
	return rec
}

// emit builds a non-Code record and advances the address by its size.
func (p *Pass1) emit(ln ir.Line, t ir.LineType, size int, words []string, vals []uint16) *ir.Record {
	nw := make([]ir.Word, len(vals))
	for i, v := range vals {
		nw[i] = ir.Word(v)
	}
	rec := &ir.Record{File: ln.File, Line: ln.Line, Text: ln.Text, Type: t, Address: ir.Word(p.addr), Size: size, Words: words, NumWords: nw}
	p.addr += uint16(size)
	return rec
}

func listGet(words []string, idx int) string {
	if idx < len(words) {
		return words[idx]
	}
	return ""
}

// directive recognizes and applies .data/.code/.text/.ctext/.org; it
// reports whether line was a directive.
func (p *Pass1) directive(ln ir.Line, line string, words []string) bool {
	if len(words) == 0 {
		return false
	}
	switch words[0] {
	case ".data":
		p.segment = ir.Data
		return true
	case ".code":
		p.segment = ir.Code
		return true
	case ".text":
		p.segment = ir.WText
		return true
	case ".ctext":
		p.segment = ir.BText
		return true
	case ".org":
		if len(words) > 1 {
			v, err := litparse.ParseValue(words[1])
			if err != nil {
				p.fail(ln, "invalid operand in %q", p.line)
			}
			p.addr = v
		}
		return true
	}
	return false
}

// addDefaultLabel defines "<ns>.start" the first time a .code directive is
// seen, if no such label exists yet.
func (p *Pass1) addDefaultLabel(words []string) {
	if len(words) == 0 || words[0] != ".code" {
		return
	}
	label := p.namespace + ".start"
	if _, exists := p.Symbols.Lookup(label); !exists {
		p.Symbols.Define(label, p.addr)
	}
}

func (p *Pass1) addAlias(ln ir.Line, left, right string) {
	fq, ok := symtab.Qualify(p.Namespaces, p.namespace, left)
	if !ok {
		p.fail(ln, "invalid left value in %q", p.line)
		return
	}
	p.Aliases.Define(fq, right)
}

func (p *Pass1) addSymbol(ln ir.Line, label string, addr uint16) {
	fq, ok := symtab.Qualify(p.Namespaces, p.namespace, label)
	if !ok {
		p.fail(ln, "invalid label value in %q", p.line)
		return
	}
	if err := p.Symbols.Define(fq, addr); err != nil {
		p.fail(ln, "label %q used twice in\n%q", label, p.line)
	}
}

// resolveAlias mirrors AsmBase.aliases: a one-level textual substitution
// keyed by the fully-qualified identifier.
func (p *Pass1) resolveAlias(s string) string {
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

// operandSize returns how many extra words an operand occupies: 0 for a
// register/memory-mode operand or one of the two short constants, 1 for
// everything else (an immediate, relative, or indirect value).
func (p *Pass1) operandSize(s string) int {
	if s == "" {
		return 0
	}
	s = p.resolveAlias(s)
	switch s {
	case "#0", "#1", "#$0", "#$1":
		return 0
	}
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 1
	}
	if _, ok := isa.LookupOperandSyntax(s); ok {
		return 0
	}
	return 1
}

// operandCorrection inserts the implicit "#" onto a jump instruction's bare
// numeric/identifier target, per spec.md section 4.2's jump-target rule.
func operandCorrection(words []string) []string {
	if len(words) == 0 || !isa.JumpInstructions[words[0]] {
		return words
	}
	switch len(words) {
	case 3:
		if c := words[2][0]; c != '+' && c != '-' && c != '#' {
			words[2] = "#" + words[2]
		}
	case 2:
		if c := words[1][0]; c != '+' && c != '-' && c != '#' {
			words[1] = "#" + words[1]
		}
	}
	return words
}
