package key

import (
	"math/bits"
	"strings"
)

// Combination is an order independent, duplicate free set of keys.
// Zero value is the empty set. Comparable, usable as map key.
type Combination struct{ lo, hi uint64 }

func NewCombination(keys ...Key) Combination {
	var c Combination
	for _, k := range keys {
		c.Add(k)
	}
	return c
}

func (c *Combination) word(k Key) (*uint64, uint64) {
	if k < 64 {
		return &c.lo, 1 << k
	}
	return &c.hi, 1 << (k - 64)
}

func (c Combination) Has(k Key) bool {
	w, m := c.word(k)
	return *w&m != 0
}

// Add returns false if k was already present.
func (c *Combination) Add(k Key) bool {
	w, m := c.word(k)
	if *w&m != 0 {
		return false
	}
	*w |= m
	return true
}

// Remove returns false if k was not present.
func (c *Combination) Remove(k Key) bool {
	w, m := c.word(k)
	if *w&m == 0 {
		return false
	}
	*w &^= m
	return true
}

func (c Combination) Len() int      { return bits.OnesCount64(c.lo) + bits.OnesCount64(c.hi) }
func (c Combination) IsEmpty() bool { return c.lo == 0 && c.hi == 0 }

var modifierOrder = [...]Key{Super, Ctrl, Alt, Shift}

// Keys lists modifiers first (Super, Ctrl, Alt, Shift), then other keys in Key order.
func (c Combination) Keys() []Key {
	ks := make([]Key, 0, c.Len())
	for _, m := range modifierOrder {
		if c.Has(m) {
			ks = append(ks, m)
		}
	}
	for k := Key(0); k < count; k++ {
		if !k.IsModifier() && c.Has(k) {
			ks = append(ks, k)
		}
	}
	return ks
}

// String renders bindings file syntax, e.g. "Ctrl+Alt+t".
func (c Combination) String() string {
	ks := c.Keys()
	ss := make([]string, len(ks))
	for i, k := range ks {
		ss[i] = k.String()
	}
	return strings.Join(ss, "+")
}
