package model

import (
	"fortio.org/safecast"
	"github.com/cockroachdb/errors"
)

// Project is the root of a reflection tree. It allocates reflection IDs and
// keeps the symbol to reflection registry for one conversion pass.
type Project struct {
	reflectionBase

	Children []*Declaration

	reflections []Reflection
	symbols     map[uint64]Reflection
}

// NewProject creates an empty project. The project itself has ID 0.
func NewProject(name string) *Project {
	p := &Project{
		reflectionBase: reflectionBase{name: name, kind: KindProject},
		symbols:        make(map[uint64]Reflection),
	}
	p.reflections = append(p.reflections, p)
	return p
}

// AddChild appends a top-level declaration.
func (p *Project) AddChild(child *Declaration) {
	p.Children = append(p.Children, child)
}

// Child returns the first top-level declaration with the given name, or nil.
func (p *Project) Child(name string) *Declaration {
	return findChild(p.Children, name)
}

// Add assigns r the next reflection ID. Adding a reflection twice is a no-op.
func (p *Project) Add(r Reflection) ReflectionID {
	b := r.base()
	if b.id != 0 || Reflection(p) == r {
		return b.id
	}
	b.id = reflectionID(len(p.reflections))
	p.reflections = append(p.reflections, r)
	return b.id
}

// reflectionID converts a registry index to an ID. Overflow panics with an
// assertion failure.
func reflectionID(n int) ReflectionID {
	id, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(errors.AssertionFailedf("reflection id overflow at %d: %v", n, err))
	}
	return ReflectionID(id)
}

// RegisterSymbol maps a symbol to r unless the symbol is already mapped. It
// reports whether the mapping was recorded.
func (p *Project) RegisterSymbol(symbolID uint64, r Reflection) bool {
	if _, ok := p.symbols[symbolID]; ok {
		return false
	}
	p.symbols[symbolID] = r
	return true
}

// ReflectionForSymbol returns the reflection registered for a symbol, or nil.
func (p *Project) ReflectionForSymbol(symbolID uint64) Reflection {
	return p.symbols[symbolID]
}

// Reflection returns the reflection with the given ID, or nil.
func (p *Project) Reflection(id ReflectionID) Reflection {
	if int(id) >= len(p.reflections) {
		return nil
	}
	return p.reflections[id]
}

// Count returns the number of reflections, the project included.
func (p *Project) Count() int {
	return len(p.reflections)
}

// Walk visits the project and every reflection it owns in pre-order. Owned
// reflections are visited in the order: type parameters, children, signatures,
// index, get and set signatures, then anonymous declarations reachable through
// types. Returning false from fn skips the reflection's subtree.
func (p *Project) Walk(fn func(Reflection) bool) {
	if !fn(p) {
		return
	}
	for _, c := range p.Children {
		walkDeclaration(c, fn)
	}
}

func walkDeclaration(d *Declaration, fn func(Reflection) bool) {
	if !fn(d) {
		return
	}
	for _, tp := range d.TypeParameters {
		walkTypeParameter(tp, fn)
	}
	for _, c := range d.Children {
		walkDeclaration(c, fn)
	}
	for _, s := range d.Signatures {
		walkSignature(s, fn)
	}
	for _, s := range []*Signature{d.IndexSignature, d.GetSignature, d.SetSignature} {
		if s != nil {
			walkSignature(s, fn)
		}
	}
	walkTypeReflections(d.Type, fn)
}

func walkSignature(s *Signature, fn func(Reflection) bool) {
	if !fn(s) {
		return
	}
	for _, tp := range s.TypeParameters {
		walkTypeParameter(tp, fn)
	}
	for _, param := range s.Parameters {
		if fn(param) {
			walkTypeReflections(param.Type, fn)
		}
	}
	walkTypeReflections(s.Type, fn)
}

func walkTypeParameter(tp *TypeParameter, fn func(Reflection) bool) {
	if !fn(tp) {
		return
	}
	walkTypeReflections(tp.Constraint, fn)
	walkTypeReflections(tp.Default, fn)
}

func walkTypeReflections(t Type, fn func(Reflection) bool) {
	VisitTypes(t, func(t Type) {
		if rt, ok := t.(*ReflectionType); ok && rt.Declaration != nil {
			walkDeclaration(rt.Declaration, fn)
		}
	})
}

// VisitTypes calls fn for t and each type nested inside it, outermost first.
// Types inside anonymous declarations are not visited.
func VisitTypes(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch v := t.(type) {
	case *ArrayType:
		VisitTypes(v.ElementType, fn)
	case *TupleType:
		for _, el := range v.Elements {
			VisitTypes(el.Type, fn)
		}
	case *UnionType:
		for _, m := range v.Types {
			VisitTypes(m, fn)
		}
	case *IntersectionType:
		for _, m := range v.Types {
			VisitTypes(m, fn)
		}
	case *ConditionalType:
		VisitTypes(v.CheckType, fn)
		VisitTypes(v.ExtendsType, fn)
		VisitTypes(v.TrueType, fn)
		VisitTypes(v.FalseType, fn)
	case *IndexedAccessType:
		VisitTypes(v.ObjectType, fn)
		VisitTypes(v.IndexType, fn)
	case *MappedType:
		VisitTypes(v.Constraint, fn)
		VisitTypes(v.Template, fn)
		VisitTypes(v.NameType, fn)
	case *QueryType:
		if v.Target != nil {
			VisitTypes(v.Target, fn)
		}
	case *ReferenceType:
		for _, a := range v.TypeArguments {
			VisitTypes(a, fn)
		}
	case *PredicateType:
		VisitTypes(v.TargetType, fn)
	case *TemplateLiteralType:
		for _, span := range v.Spans {
			VisitTypes(span.Type, fn)
		}
	case *TypeOperatorType:
		VisitTypes(v.Target, fn)
	}
}
