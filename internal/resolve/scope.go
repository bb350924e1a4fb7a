package resolve

import (
	"fmt"
	"oxyl/internal/span"
)

// BindingKind says what introduced a name.
type BindingKind int

const (
	LetBinding BindingKind = iota
	ParamBinding
	GlobalBinding
)

func (k BindingKind) String() string {
	switch k {
	case LetBinding:
		return "let"
	case ParamBinding:
		return "parameter"
	case GlobalBinding:
		return "global"
	default:
		return "unknown"
	}
}

// Binding is one name introduced into a scope.
type Binding struct {
	Name    string
	Kind    BindingKind
	Mutable bool
	Span    span.Span // the identifier that introduced the name; zero for globals
}

// RedefinitionError is returned by Define when the scope already binds the name.
type RedefinitionError struct {
	Previous Binding
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("'%s' is already bound in this scope", e.Previous.Name)
}

// Scope represents a lexical scope with a parent chain.
type Scope struct {
	bindings map[string]Binding
	parent   *Scope
}

// NewScope creates a new scope with an optional parent scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		bindings: make(map[string]Binding),
		parent:   parent,
	}
}

// Parent returns the enclosing scope, or nil for the outermost one.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define binds a name in the current scope. Rebinding a name the scope
// already holds replaces it and returns a *RedefinitionError describing the
// previous binding.
func (s *Scope) Define(b Binding) error {
	prev, exists := s.bindings[b.Name]
	s.bindings[b.Name] = b
	if exists {
		return &RedefinitionError{Previous: prev}
	}
	return nil
}

// Lookup finds a binding by walking the scope chain.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, exists := sc.bindings[name]; exists {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupLocal finds a binding in the current scope only.
func (s *Scope) LookupLocal(name string) (Binding, bool) {
	b, exists := s.bindings[name]
	return b, exists
}
