// Package symtab holds the symbol, alias, macro, and namespace tables that
// pass-1 builds and pass-2 reads read-only.
package symtab

import "fmt"

// Symbols maps fully-qualified identifiers ("namespace.name") to a 16-bit
// address. Pass-1 owns it; pass-2 only reads it.
type Symbols struct {
	addr map[string]uint16
}

func NewSymbols() *Symbols {
	return &Symbols{addr: make(map[string]uint16)}
}

// Define records a label's address. The synthetic "<ns>.start" label is
// exempt from the duplicate-definition check (spec.md section 4.3).
func (s *Symbols) Define(fqName string, addr uint16) error {
	if _, exists := s.addr[fqName]; exists && !isStartLabel(fqName) {
		return fmt.Errorf("label %q used twice", fqName)
	}
	s.addr[fqName] = addr
	return nil
}

func isStartLabel(fqName string) bool {
	n := len(fqName)
	return n > 6 && fqName[n-6:] == ".start"
}

// Lookup returns a symbol's address.
func (s *Symbols) Lookup(fqName string) (uint16, bool) {
	v, ok := s.addr[fqName]
	return v, ok
}

// All returns every defined symbol, for dumping the symbol table.
func (s *Symbols) All() map[string]uint16 {
	return s.addr
}

// Aliases maps a fully-qualified identifier to its one-level textual
// replacement: a numeric literal or another identifier.
type Aliases struct {
	repl map[string]string
}

func NewAliases() *Aliases {
	return &Aliases{repl: make(map[string]string)}
}

func (a *Aliases) Define(fqName, replacement string) {
	a.repl[fqName] = replacement
}

func (a *Aliases) Lookup(fqName string) (string, bool) {
	v, ok := a.repl[fqName]
	return v, ok
}

// Namespaces is the set of file basenames (without extension) that have
// been successfully included, used to disambiguate bare identifiers.
type Namespaces struct {
	set map[string]bool
}

func NewNamespaces() *Namespaces {
	return &Namespaces{set: make(map[string]bool)}
}

func (n *Namespaces) Add(ns string) {
	n.set[ns] = true
}

func (n *Namespaces) Has(ns string) bool {
	return n.set[ns]
}

// Macro is a captured macro definition: a parameter count and its body
// lines, verbatim, with %1..%9 placeholders.
type Macro struct {
	ParamCount int
	Body       []string
}

// Macros maps macro name to its definition.
type Macros struct {
	defs map[string]*Macro
}

func NewMacros() *Macros {
	return &Macros{defs: make(map[string]*Macro)}
}

func (m *Macros) Define(name string, paramCount int) {
	m.defs[name] = &Macro{ParamCount: paramCount}
}

// Append adds one body line to the macro currently being captured.
func (m *Macros) Append(name, line string) {
	if def, ok := m.defs[name]; ok {
		def.Body = append(def.Body, line)
	}
}

func (m *Macros) Lookup(name string) (*Macro, bool) {
	def, ok := m.defs[name]
	return def, ok
}
