package bytecode

import "paxy/internal/value"

// ConstPool deduplicates constants by exact identity, keeping first-use order.
type ConstPool struct {
	values []value.Value
	index  map[string]int
}

func NewConstPool() *ConstPool {
	return &ConstPool{index: make(map[string]int)}
}

// Add returns the index of v, appending it on first use.
func (p *ConstPool) Add(v value.Value) int {
	k := v.Key()
	if i, ok := p.index[k]; ok {
		return i
	}
	i := len(p.values)
	p.values = append(p.values, v)
	p.index[k] = i
	return i
}

func (p *ConstPool) Len() int { return len(p.values) }

// Values returns the pool in index order.
func (p *ConstPool) Values() []value.Value {
	return append([]value.Value(nil), p.values...)
}
