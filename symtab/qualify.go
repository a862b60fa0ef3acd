package symtab

import "strings"

// Qualify resolves a bare or dotted identifier used within source file
// namespace ns into a fully-qualified "<namespace>.<name>" form, per
// spec.md section 4.3:
//
//   - a bare identifier that names a known namespace resolves to
//     "<identifier>.start";
//   - any other bare identifier resolves to "<ns>.<identifier>";
//   - a dotted identifier "a.b" is kept as-is if "a" is a known namespace,
//     and is otherwise unresolvable (ok == false).
func Qualify(namespaces *Namespaces, ns, ident string) (string, bool) {
	parts := strings.Split(ident, ".")
	switch len(parts) {
	case 1:
		if namespaces.Has(ident) {
			return ident + ".start", true
		}
		return ns + "." + ident, true
	case 2:
		if namespaces.Has(parts[0]) {
			return ident, true
		}
		return "", false
	default:
		return "", false
	}
}
