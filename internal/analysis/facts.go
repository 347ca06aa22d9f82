package analysis

import (
	"github.com/cbergh/pyfloor/internal/pyast"
	"github.com/cbergh/pyfloor/internal/rules"
)

// orderedSet is a de-duplicated string set that keeps insertion order for
// diagnostics, with an optional source position per entry.
type orderedSet struct {
	items []string
	index map[string]bool
	pos   map[string]pyast.Position
}

func newOrderedSet() *orderedSet {
	return &orderedSet{
		index: make(map[string]bool),
		pos:   make(map[string]pyast.Position),
	}
}

// add inserts name unless already present. A zero position is not recorded.
func (s *orderedSet) add(name string, p pyast.Position) {
	if s.index[name] {
		return
	}
	s.index[name] = true
	s.items = append(s.items, name)
	if p.Line > 0 {
		s.pos[name] = p
	}
}

func (s *orderedSet) has(name string) bool { return s.index[name] }

// remove drops name if present, preserving the order of the rest.
func (s *orderedSet) remove(name string) bool {
	if !s.index[name] {
		return false
	}
	delete(s.index, name)
	delete(s.pos, name)
	for i, item := range s.items {
		if item == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// values returns the entries in insertion order. The returned slice is a
// copy; callers may keep it past further mutation.
func (s *orderedSet) values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *orderedSet) position(name string) (pyast.Position, bool) {
	p, ok := s.pos[name]
	return p, ok
}

// kwargSet is the ordered (function, keyword) pair set.
type kwargSet struct {
	items []rules.Kwarg
	index map[rules.Kwarg]bool
	pos   map[rules.Kwarg]pyast.Position
}

func newKwargSet() *kwargSet {
	return &kwargSet{
		index: make(map[rules.Kwarg]bool),
		pos:   make(map[rules.Kwarg]pyast.Position),
	}
}

func (s *kwargSet) add(k rules.Kwarg, p pyast.Position) {
	if s.index[k] {
		return
	}
	s.index[k] = true
	s.items = append(s.items, k)
	if p.Line > 0 {
		s.pos[k] = p
	}
}

func (s *kwargSet) values() []rules.Kwarg {
	out := make([]rules.Kwarg, len(s.items))
	copy(out, s.items)
	return out
}

func (s *kwargSet) position(k rules.Kwarg) (pyast.Position, bool) {
	p, ok := s.pos[k]
	return p, ok
}

// Flags are the independent boolean feature observations of one unit.
type Flags struct {
	PrintStmt      bool // legacy `print x` statement
	PrintCall      bool // call literally named print
	Format27       bool // "{}".format(..) empty field name
	LongV2         bool // legacy long integer type
	BytesV3        bool // b'..' literal
	FStrings       bool // f'..' literal
	NamedExpr      bool // walrus operator
	BoolConst      bool // True/False singleton
	Annotations    bool // any function annotation
	VarAnnotations bool // annotated assignment
	Coroutines     bool // async def or await
}
