// Package seal marks bytecode as produced by the calc compiler. Only programs
// carrying the compiler's seal may run on the unchecked virtual machines.
//
// The package is internal, so code outside this module cannot obtain the seal
// and therefore cannot build a program that skips bounds checks.
package seal

// Seal is an opaque provenance token. It is never zero-sized, so distinct
// seals always have distinct addresses.
type Seal struct {
	name string
}

// Compiler is the seal attached by the compiler package.
var Compiler = &Seal{name: "compiler"}

func (s *Seal) String() string {
	if s == nil {
		return "unsealed"
	}
	return s.name
}
