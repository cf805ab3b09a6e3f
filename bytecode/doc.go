// Package bytecode provides immutable representations of compiled calc
// expressions.
//
// This package defines the output of compilation: pure data structures that
// represent compiled bytecode in each of the three encodings. These types are
// created once during compilation and can be shared safely across multiple
// goroutines and virtual machines.
//
// # Key Types
//
//   - [RPN]: a program of [RPNInstr] with full-width literals and no pool
//   - [Stack]: a program of [StackInstr] plus a constant pool and the exact
//     operand stack size it needs
//   - [Register]: a program of [RegInstr] plus a constant pool and the number
//     of registers it needs
//   - [Pool]: the append-only constant pool builder used by the compiler
//
// # Literal Encoding
//
// The stack and register encodings carry literals in the range
// [op.MinInlineInt, op.MaxInlineInt] inline. Any other literal is appended to
// the constant pool and loaded by 16-bit index. The pool is never
// deduplicated.
//
// # Immutability Guarantees
//
// Constructors copy input slices and all fields are unexported. Index-based
// access is used for all collections:
//
//	prog.InstructionAt(0)
//	prog.ConstantAt(i)
//
// # Trust
//
// A program built with the compiler's seal reports Trusted() == true and may
// be run on the unchecked virtual machines. Programs assembled by hand are
// always untrusted and only run on the checked virtual machines, which
// validate every slot and pool index.
package bytecode
