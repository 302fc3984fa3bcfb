package primitives

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Belief is the set of configurations the hidden ring could currently be,
// up to rotation. Every member is a canonical Config and appears once;
// members are kept sorted by bit pattern so that equality and fingerprints
// do not depend on construction order.
//
// Belief is a value: transitions build new Beliefs, never mutate one.
type Belief struct {
	configs []Config
}

// NewBelief builds a Belief from any collection of configurations. Each
// element is canonicalized, duplicates (including rotation duplicates)
// collapse to one member.
func NewBelief(configs ...Config) Belief {
	members := make([]Config, 0, len(configs))
	for _, c := range configs {
		if len(members) > 0 && c.size != members[0].size {
			panic(fmt.Sprintf("cannot build belief: mixed ring sizes %d and %d", members[0].size, c.size))
		}
		members = append(members, c.Canonical())
	}
	slices.SortFunc(members, func(a, b Config) int {
		switch {
		case a.bits < b.bits:
			return -1
		case a.bits > b.bits:
			return 1
		}
		return 0
	})
	return Belief{configs: slices.Compact(members)}
}

// Len returns the number of distinct rotation classes in the belief.
func (b Belief) Len() int {
	return len(b.configs)
}

// RingSize returns the ring size of the belief's members, or 0 for the
// empty belief.
func (b Belief) RingSize() int {
	if len(b.configs) == 0 {
		return 0
	}
	return b.configs[0].size
}

// Contains reports whether the rotation class of c is in the belief.
func (b Belief) Contains(c Config) bool {
	canon := c.Canonical()
	_, ok := slices.BinarySearchFunc(b.configs, canon, func(a, t Config) int {
		switch {
		case a.bits < t.bits:
			return -1
		case a.bits > t.bits:
			return 1
		}
		return 0
	})
	return ok
}

// All returns the members in ascending bit-pattern order.
func (b Belief) All() iter.Seq[Config] {
	return func(yield func(Config) bool) {
		for _, c := range b.configs {
			if !yield(c) {
				return
			}
		}
	}
}

// Configs returns a copy of the member slice, ascending by bit pattern.
func (b Belief) Configs() []Config {
	return slices.Clone(b.configs)
}

// Equal reports whether two beliefs contain exactly the same rotation
// classes, independent of how either was constructed.
func (b Belief) Equal(other Belief) bool {
	return slices.Equal(b.configs, other.configs)
}

// Key returns a stable fingerprint of the belief, usable as a map key.
// Two beliefs have equal keys iff they are Equal.
func (b Belief) Key() string {
	var sb strings.Builder
	for i, c := range b.configs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(c.bits, 16))
	}
	return sb.String()
}

// String renders the belief as its member configurations, e.g.
// "{TTTT TTTH TTHH}".
func (b Belief) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range b.configs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
