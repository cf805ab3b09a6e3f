package bytecode

import (
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/op"
)

// Pool accumulates the out-of-range literals of one compilation. Entries are
// never deduplicated: each literal occurrence gets its own index.
type Pool struct {
	values []int64
}

// Add appends v and returns its index. It fails once the pool holds
// op.MaxConstants entries, since indices are 16 bits wide.
func (p *Pool) Add(v int64) (uint16, error) {
	if len(p.values) >= op.MaxConstants {
		return 0, errz.NewCompileError(errz.ErrTooManyConstants)
	}
	p.values = append(p.values, v)
	return uint16(len(p.values) - 1), nil
}

// Len returns the number of entries.
func (p *Pool) Len() int {
	return len(p.values)
}

// At returns the entry at idx.
func (p *Pool) At(idx int) int64 {
	return p.values[idx]
}

// Values returns the entries. The slice is owned by the pool; program
// constructors copy it.
func (p *Pool) Values() []int64 {
	return p.values
}
