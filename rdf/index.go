package rdf

type hashSet map[uint64]struct{}

// graphIndex maps term hashes to the hashes of the triples that mention them.
// Resource objects and literal objects are kept apart.
type graphIndex struct {
	subjects   map[uint64]hashSet
	predicates map[uint64]hashSet
	objects    map[uint64]hashSet
	literals   map[uint64]hashSet
}

func newGraphIndex() *graphIndex {
	return &graphIndex{
		subjects:   make(map[uint64]hashSet),
		predicates: make(map[uint64]hashSet),
		objects:    make(map[uint64]hashSet),
		literals:   make(map[uint64]hashSet),
	}
}

func (ix *graphIndex) add(t Triple, h uint64) {
	addTo(ix.subjects, termHash(t.S), h)
	addTo(ix.predicates, termHash(t.P), h)
	if _, ok := t.O.(Literal); ok {
		addTo(ix.literals, termHash(t.O), h)
	} else {
		addTo(ix.objects, termHash(t.O), h)
	}
}

func (ix *graphIndex) remove(t Triple, h uint64) {
	removeFrom(ix.subjects, termHash(t.S), h)
	removeFrom(ix.predicates, termHash(t.P), h)
	if _, ok := t.O.(Literal); ok {
		removeFrom(ix.literals, termHash(t.O), h)
	} else {
		removeFrom(ix.objects, termHash(t.O), h)
	}
}

// candidates returns the smallest posting set that matches the bound
// positions of a pattern, or ok=false when no position is bound.
func (ix *graphIndex) candidates(s, p, o Term) (set hashSet, ok bool) {
	consider := func(m map[uint64]hashSet, term Term) {
		posting := m[termHash(term)]
		if !ok || len(posting) < len(set) {
			set, ok = posting, true
		}
	}
	if s != nil {
		consider(ix.subjects, s)
	}
	if p != nil {
		consider(ix.predicates, p)
	}
	if o != nil {
		if _, isLiteral := o.(Literal); isLiteral {
			consider(ix.literals, o)
		} else {
			consider(ix.objects, o)
		}
	}
	return set, ok
}

func addTo(m map[uint64]hashSet, key, h uint64) {
	set, ok := m[key]
	if !ok {
		set = make(hashSet)
		m[key] = set
	}
	set[h] = struct{}{}
}

func removeFrom(m map[uint64]hashSet, key, h uint64) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, h)
	if len(set) == 0 {
		delete(m, key)
	}
}
