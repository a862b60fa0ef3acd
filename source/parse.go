package source

import (
	"fmt"
	"regexp"
	"strings"

	"vm16asm/symtab"
)

var (
	reInclude  = regexp.MustCompile(`^\$include +"(.+?)"`)
	reMacroDef = regexp.MustCompile(`^\$macro +([A-Za-z_][A-Za-z_0-9.]+) *([0-9]?)$`)
	reMacroRef = regexp.MustCompile(`^([A-Za-z_][A-Za-z_0-9.]+) *(.*)$`)
)

// parseInclude recognizes `$include "path"`.
func parseInclude(line string) (path string, ok bool) {
	m := reInclude.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseMacroDef recognizes `$macro name [paramCount]`.
func parseMacroDef(line string) (name string, paramCount int, ok bool) {
	if firstToken(line) != "$macro" {
		return "", 0, false
	}
	m := reMacroDef.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	count := 0
	if m[2] != "" {
		fmt.Sscanf(m[2], "%d", &count)
	}
	return m[1], count, true
}

// parseMacroInvocation recognizes a bare "name arg1 arg2 ..." line; the
// caller still has to check name against the macro table, since the same
// pattern also matches an ordinary label or mnemonic line.
func parseMacroInvocation(line string) (name string, args []string, ok bool) {
	m := reMacroRef.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	return m[1], strings.Fields(m[2]), true
}

// expandMacro substitutes %1..%9 placeholders in a macro's body with the
// given call arguments.
func expandMacro(name string, def *symtab.Macro, args []string) ([]string, error) {
	if len(args) != def.ParamCount {
		return nil, fmt.Errorf("macro %q: expected %d argument(s), got %d", name, def.ParamCount, len(args))
	}
	out := make([]string, len(def.Body))
	for i, line := range def.Body {
		for n := 0; n < len(args) && n < 9; n++ {
			line = strings.ReplaceAll(line, fmt.Sprintf("%%%d", n+1), args[n])
		}
		out[i] = line
	}
	return out, nil
}
