package model

import "strings"

// ReflectionID identifies a reflection within one Project.
type ReflectionID uint32

// ReflectionKind tags the documentable entity a reflection represents.
type ReflectionKind string

const (
	KindProject              ReflectionKind = "project"
	KindNamespace            ReflectionKind = "namespace"
	KindEnum                 ReflectionKind = "enum"
	KindEnumMember           ReflectionKind = "enumMember"
	KindVariable             ReflectionKind = "variable"
	KindFunction             ReflectionKind = "function"
	KindClass                ReflectionKind = "class"
	KindInterface            ReflectionKind = "interface"
	KindConstructor          ReflectionKind = "constructor"
	KindProperty             ReflectionKind = "property"
	KindMethod               ReflectionKind = "method"
	KindCallSignature        ReflectionKind = "callSignature"
	KindIndexSignature       ReflectionKind = "indexSignature"
	KindConstructorSignature ReflectionKind = "constructorSignature"
	KindParameter            ReflectionKind = "parameter"
	KindTypeLiteral          ReflectionKind = "typeLiteral"
	KindTypeParameter        ReflectionKind = "typeParameter"
	KindAccessor             ReflectionKind = "accessor"
	KindGetSignature         ReflectionKind = "getSignature"
	KindSetSignature         ReflectionKind = "setSignature"
	KindTypeAlias            ReflectionKind = "typeAlias"
)

// IsSignature reports whether reflections of this kind are Signatures.
func (k ReflectionKind) IsSignature() bool {
	switch k {
	case KindCallSignature, KindIndexSignature, KindConstructorSignature,
		KindGetSignature, KindSetSignature:
		return true
	}
	return false
}

// ReflectionFlags is a bit set of modifiers on a reflection.
type ReflectionFlags uint16

const (
	FlagOptional ReflectionFlags = 1 << iota
	FlagRest
	FlagReadonly
	FlagStatic
	FlagPrivate
	FlagProtected
	FlagAbstract
	FlagConst
)

var flagNames = []struct {
	flag ReflectionFlags
	name string
}{
	{FlagOptional, "optional"},
	{FlagRest, "rest"},
	{FlagReadonly, "readonly"},
	{FlagStatic, "static"},
	{FlagPrivate, "private"},
	{FlagProtected, "protected"},
	{FlagAbstract, "abstract"},
	{FlagConst, "const"},
}

// Names returns the names of the set flags in declaration order.
func (f ReflectionFlags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f ReflectionFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// ParseFlag returns the flag with the given name.
func ParseFlag(name string) (ReflectionFlags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

// Reflection is a node of the output tree.
type Reflection interface {
	ID() ReflectionID
	Name() string
	Kind() ReflectionKind
	Flags() ReflectionFlags
	HasFlag(f ReflectionFlags) bool
	// Parent returns the owning reflection, nil for the project.
	Parent() Reflection

	base() *reflectionBase
}

type reflectionBase struct {
	id     ReflectionID
	name   string
	kind   ReflectionKind
	flags  ReflectionFlags
	parent Reflection
}

func (r *reflectionBase) ID() ReflectionID               { return r.id }
func (r *reflectionBase) Name() string                   { return r.name }
func (r *reflectionBase) Kind() ReflectionKind           { return r.kind }
func (r *reflectionBase) Flags() ReflectionFlags         { return r.flags }
func (r *reflectionBase) HasFlag(f ReflectionFlags) bool { return r.flags&f == f }
func (r *reflectionBase) Parent() Reflection             { return r.parent }
func (r *reflectionBase) base() *reflectionBase          { return r }

// SetFlag sets or clears f.
func (r *reflectionBase) SetFlag(f ReflectionFlags, on bool) {
	if on {
		r.flags |= f
	} else {
		r.flags &^= f
	}
}

// SourceReference locates a declaration. Line and Character are 1-based.
type SourceReference struct {
	File      string
	Line      int
	Character int
}

// Declaration is a named entity: a class, interface, alias, variable,
// property, anonymous type literal and so on.
type Declaration struct {
	reflectionBase

	Children       []*Declaration
	Signatures     []*Signature
	IndexSignature *Signature
	GetSignature   *Signature
	SetSignature   *Signature
	TypeParameters []*TypeParameter
	Type           Type
	DefaultValue   string
	Sources        []SourceReference
}

// NewDeclaration creates a declaration owned by parent. The caller attaches
// it to the parent's children, or wraps it in a ReflectionType.
func NewDeclaration(name string, kind ReflectionKind, parent Reflection) *Declaration {
	return &Declaration{reflectionBase: reflectionBase{name: name, kind: kind, parent: parent}}
}

// AddChild appends child to the declaration's children.
func (d *Declaration) AddChild(child *Declaration) {
	d.Children = append(d.Children, child)
}

// Child returns the first child with the given name, or nil.
func (d *Declaration) Child(name string) *Declaration {
	return findChild(d.Children, name)
}

// AttachSignature stores sig in the slot matching its kind.
func (d *Declaration) AttachSignature(sig *Signature) {
	switch sig.Kind() {
	case KindGetSignature:
		d.GetSignature = sig
	case KindSetSignature:
		d.SetSignature = sig
	case KindIndexSignature:
		d.IndexSignature = sig
	default:
		d.Signatures = append(d.Signatures, sig)
	}
}

// Signature is a call, construct, get, set or index signature.
type Signature struct {
	reflectionBase

	TypeParameters []*TypeParameter
	Parameters     []*Parameter
	Type           Type
}

func NewSignature(name string, kind ReflectionKind, parent Reflection) *Signature {
	return &Signature{reflectionBase: reflectionBase{name: name, kind: kind, parent: parent}}
}

// Parameter returns the parameter with the given name, or nil.
func (s *Signature) Parameter(name string) *Parameter {
	for _, p := range s.Parameters {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (s *Signature) String() string {
	var sb strings.Builder
	if s.kind == KindConstructorSignature {
		sb.WriteString("new ")
	}
	if len(s.TypeParameters) > 0 {
		names := make([]string, len(s.TypeParameters))
		for i, tp := range s.TypeParameters {
			names[i] = tp.name
		}
		sb.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	sb.WriteString("(")
	for i, p := range s.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.HasFlag(FlagRest) {
			sb.WriteString("...")
		}
		sb.WriteString(p.name)
		if p.HasFlag(FlagOptional) {
			sb.WriteString("?")
		}
		if p.Type != nil {
			sb.WriteString(": " + p.Type.String())
		}
	}
	sb.WriteString(") => ")
	if s.Type != nil {
		sb.WriteString(s.Type.String())
	} else {
		sb.WriteString("void")
	}
	return sb.String()
}

// Parameter is a value parameter of a signature.
type Parameter struct {
	reflectionBase

	Type         Type
	DefaultValue string
}

func NewParameter(name string, parent Reflection) *Parameter {
	return &Parameter{reflectionBase: reflectionBase{name: name, kind: KindParameter, parent: parent}}
}

// TypeParameter is a generic parameter. Constraint and Default may be nil.
type TypeParameter struct {
	reflectionBase

	Constraint Type
	Default    Type
}

func NewTypeParameter(name string, parent Reflection) *TypeParameter {
	return &TypeParameter{reflectionBase: reflectionBase{name: name, kind: KindTypeParameter, parent: parent}}
}

func findChild(children []*Declaration, name string) *Declaration {
	for _, c := range children {
		if c.name == name {
			return c
		}
	}
	return nil
}
