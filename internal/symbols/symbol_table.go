package symbols

import "fmt"

type NameError struct {
	Name string
}

func (e *NameError) Error() string { return fmt.Sprintf("%s: no such name", e.Name) }
func (e *NameError) Code() string  { return "NameError" }

type DoubleNameError struct {
	Name string
}

func (e *DoubleNameError) Error() string { return fmt.Sprintf("%s: already defined", e.Name) }
func (e *DoubleNameError) Code() string  { return "DoubleNameError" }

const noParent = -1

type frame struct {
	parent   int
	contents map[string]Symbol
	order    []string
}

// arena holds every frame version created from one root table. Frames are
// never modified after they are appended.
type arena struct {
	frames []frame
}

// Table is a persistent symbol table. Define and Push return new tables
// and never change the receiver, so a Table captured earlier keeps seeing
// exactly the names it saw then.
//
// A Table and everything derived from it share one arena and must not be
// used from more than one goroutine.
type Table struct {
	arena *arena
	frame int
}

func NewTable() Table {
	a := &arena{}
	a.frames = append(a.frames, frame{parent: noParent, contents: map[string]Symbol{}})
	return Table{arena: a, frame: 0}
}

func (t Table) current() *frame {
	return &t.arena.frames[t.frame]
}

// Push returns a table with a new empty innermost frame.
func (t Table) Push() Table {
	t.arena.frames = append(t.arena.frames, frame{parent: t.frame, contents: map[string]Symbol{}})
	return Table{arena: t.arena, frame: len(t.arena.frames) - 1}
}

// Define returns a table with sym added to the innermost frame.
func (t Table) Define(sym Symbol) (Table, error) {
	cur := t.current()
	if _, exists := cur.contents[sym.Name()]; exists {
		return t, &DoubleNameError{Name: sym.Name()}
	}
	contents := make(map[string]Symbol, len(cur.contents)+1)
	for k, v := range cur.contents {
		contents[k] = v
	}
	contents[sym.Name()] = sym
	order := make([]string, len(cur.order), len(cur.order)+1)
	copy(order, cur.order)
	order = append(order, sym.Name())

	t.arena.frames = append(t.arena.frames, frame{parent: cur.parent, contents: contents, order: order})
	return Table{arena: t.arena, frame: len(t.arena.frames) - 1}, nil
}

// Resolve returns the innermost symbol called name.
func (t Table) Resolve(name string) (Symbol, error) {
	for i := t.frame; i != noParent; i = t.arena.frames[i].parent {
		if sym, ok := t.arena.frames[i].contents[name]; ok {
			return sym, nil
		}
	}
	return nil, &NameError{Name: name}
}

// ResolveOr is Resolve with a fallback returned instead of an error.
func (t Table) ResolveOr(name string, fallback Symbol) Symbol {
	if sym, err := t.Resolve(name); err == nil {
		return sym
	}
	return fallback
}

// Lookup searches the innermost frame only.
func (t Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.current().contents[name]
	return sym, ok
}

// Members returns the symbols of the innermost frame in definition order.
func (t Table) Members() []Symbol {
	cur := t.current()
	out := make([]Symbol, 0, len(cur.order))
	for _, name := range cur.order {
		out = append(out, cur.contents[name])
	}
	return out
}

// Depth is the number of frames above the innermost one.
func (t Table) Depth() int {
	d := 0
	for i := t.arena.frames[t.frame].parent; i != noParent; i = t.arena.frames[i].parent {
		d++
	}
	return d
}
