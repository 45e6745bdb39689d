package symbols

type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	LocalScope
	ClassScope
)

func (k ScopeKind) String() string {
	switch k {
	case GlobalScope:
		return "global"
	case LocalScope:
		return "local"
	case ClassScope:
		return "class"
	default:
		return "unknown"
	}
}

// Scope is a Table tagged with the kind of lexical region it belongs to.
// Like Table it is immutable: Define returns a new Scope.
type Scope struct {
	table Table
	kind  ScopeKind
	class *Class
}

func NewGlobalScope() *Scope {
	return &Scope{table: NewTable(), kind: GlobalScope}
}

func (s *Scope) Kind() ScopeKind { return s.kind }

// Class returns the class owning a class scope, or nil.
func (s *Scope) Class() *Class { return s.class }

func (s *Scope) Depth() int { return s.table.Depth() }

func (s *Scope) Define(sym Symbol) (*Scope, error) {
	t, err := s.table.Define(sym)
	if err != nil {
		return s, err
	}
	return &Scope{table: t, kind: s.kind, class: s.class}, nil
}

func (s *Scope) Resolve(name string) (Symbol, error) {
	return s.table.Resolve(name)
}

func (s *Scope) ResolveOr(name string, fallback Symbol) Symbol {
	return s.table.ResolveOr(name, fallback)
}

func (s *Scope) PushLocal() *Scope {
	return &Scope{table: s.table.Push(), kind: LocalScope}
}

func (s *Scope) PushClass(c *Class) *Scope {
	return &Scope{table: s.table.Push(), kind: ClassScope, class: c}
}

// ResolveMember looks name up among the members of a class scope, without
// consulting enclosing scopes.
func (s *Scope) ResolveMember(name string) (Symbol, error) {
	if s.kind != ClassScope {
		return nil, &NameError{Name: name}
	}
	sym, ok := s.table.Lookup(name)
	if !ok || sym == s.class.This {
		return nil, &NameError{Name: name}
	}
	return sym, nil
}

// Members returns the symbols defined in the innermost frame.
func (s *Scope) Members() []Symbol {
	return s.table.Members()
}
