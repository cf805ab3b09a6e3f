package bytecode

// Stats contains statistics about a compiled program.
type Stats struct {
	// InstructionCount is the total number of instructions.
	InstructionCount int `json:"instructions" yaml:"instructions"`

	// ConstantCount is the number of entries in the constant pool.
	ConstantCount int `json:"constants" yaml:"constants"`

	// InlineLiterals counts literals encoded in the instruction itself.
	InlineLiterals int `json:"inline_literals" yaml:"inline_literals"`

	// PoolLiterals counts literals loaded from the constant pool.
	PoolLiterals int `json:"pool_literals" yaml:"pool_literals"`

	// StorageSize is the number of stack slots or registers needed. For RPN
	// programs it is the peak depth the growable stack reaches.
	StorageSize int `json:"storage_size" yaml:"storage_size"`
}
