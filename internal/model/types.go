// Package model defines the canonical type model and the reflection tree that
// the converter produces. Types are immutable once constructed and compared
// structurally with Equal.
package model

import (
	"math/big"
	"strconv"
	"strings"
)

// TypeKind identifies a Type variant.
type TypeKind string

const (
	TypeKindIntrinsic       TypeKind = "intrinsic"
	TypeKindLiteral         TypeKind = "literal"
	TypeKindArray           TypeKind = "array"
	TypeKindTuple           TypeKind = "tuple"
	TypeKindUnion           TypeKind = "union"
	TypeKindIntersection    TypeKind = "intersection"
	TypeKindConditional     TypeKind = "conditional"
	TypeKindIndexedAccess   TypeKind = "indexedAccess"
	TypeKindInferred        TypeKind = "inferred"
	TypeKindMapped          TypeKind = "mapped"
	TypeKindQuery           TypeKind = "query"
	TypeKindReference       TypeKind = "reference"
	TypeKindPredicate       TypeKind = "predicate"
	TypeKindTemplateLiteral TypeKind = "templateLiteral"
	TypeKindTypeOperator    TypeKind = "typeOperator"
	TypeKindReflection      TypeKind = "reflection"
	TypeKindUnknown         TypeKind = "unknown"
)

// Type is a canonical description of a type expression.
type Type interface {
	TypeKind() TypeKind
	String() string
}

// IntrinsicType is a primitive such as string, void or this.
type IntrinsicType struct {
	Name string
}

// LiteralType is a literal type. Value is nil (null), bool, string, float64
// or *big.Int.
type LiteralType struct {
	Value any
}

type ArrayType struct {
	ElementType Type
}

// TupleElement is one tuple member. Name is set on every element of a named
// tuple and on none of a positional one.
type TupleElement struct {
	Name     string
	Optional bool
	Rest     bool
	Type     Type
}

type TupleType struct {
	Named    bool
	Elements []TupleElement
}

type UnionType struct {
	Types []Type
}

type IntersectionType struct {
	Types []Type
}

type ConditionalType struct {
	CheckType   Type
	ExtendsType Type
	TrueType    Type
	FalseType   Type
}

type IndexedAccessType struct {
	ObjectType Type
	IndexType  Type
}

// InferredType is an `infer X` placeholder.
type InferredType struct {
	Name string
}

// Modifier is a mapped-type modifier delta.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierAdd
	ModifierRemove
)

func (m Modifier) String() string {
	switch m {
	case ModifierAdd:
		return "+"
	case ModifierRemove:
		return "-"
	default:
		return ""
	}
}

type MappedType struct {
	ParameterName    string
	Constraint       Type
	Template         Type
	ReadonlyModifier Modifier
	OptionalModifier Modifier
	// NameType is the key remapping, or nil.
	NameType Type
}

// QueryType is a `typeof X` type.
type QueryType struct {
	Target *ReferenceType
}

// ReferenceType names another entity by symbol identity. Unresolved references
// carry only a name; their SymbolID is zero.
type ReferenceType struct {
	Name          string
	SymbolID      uint64
	TypeArguments []Type
	Unresolved    bool
}

// Resolve returns the reflection registered for the reference's symbol, or nil.
func (t *ReferenceType) Resolve(p *Project) Reflection {
	if t.Unresolved || p == nil {
		return nil
	}
	return p.ReflectionForSymbol(t.SymbolID)
}

// PredicateType is a `x is T` or `asserts x` return type.
type PredicateType struct {
	Name    string
	Asserts bool
	// TargetType is nil for bare `asserts x`.
	TargetType Type
}

type TemplateSpan struct {
	Type Type
	Text string
}

type TemplateLiteralType struct {
	Head  string
	Spans []TemplateSpan
}

// TypeOperator is the operator of a TypeOperatorType.
type TypeOperator string

const (
	OperatorKeyOf    TypeOperator = "keyof"
	OperatorUnique   TypeOperator = "unique"
	OperatorReadonly TypeOperator = "readonly"
)

type TypeOperatorType struct {
	Operator TypeOperator
	Target   Type
}

// ReflectionType wraps an anonymous declaration created for an inline object
// or function type.
type ReflectionType struct {
	Declaration *Declaration
}

// UnknownType carries a best-effort rendering of a type the converter could
// not model.
type UnknownType struct {
	Text string
}

func (*IntrinsicType) TypeKind() TypeKind       { return TypeKindIntrinsic }
func (*LiteralType) TypeKind() TypeKind         { return TypeKindLiteral }
func (*ArrayType) TypeKind() TypeKind           { return TypeKindArray }
func (*TupleType) TypeKind() TypeKind           { return TypeKindTuple }
func (*UnionType) TypeKind() TypeKind           { return TypeKindUnion }
func (*IntersectionType) TypeKind() TypeKind    { return TypeKindIntersection }
func (*ConditionalType) TypeKind() TypeKind     { return TypeKindConditional }
func (*IndexedAccessType) TypeKind() TypeKind   { return TypeKindIndexedAccess }
func (*InferredType) TypeKind() TypeKind        { return TypeKindInferred }
func (*MappedType) TypeKind() TypeKind          { return TypeKindMapped }
func (*QueryType) TypeKind() TypeKind           { return TypeKindQuery }
func (*ReferenceType) TypeKind() TypeKind       { return TypeKindReference }
func (*PredicateType) TypeKind() TypeKind       { return TypeKindPredicate }
func (*TemplateLiteralType) TypeKind() TypeKind { return TypeKindTemplateLiteral }
func (*TypeOperatorType) TypeKind() TypeKind    { return TypeKindTypeOperator }
func (*ReflectionType) TypeKind() TypeKind      { return TypeKindReflection }
func (*UnknownType) TypeKind() TypeKind         { return TypeKindUnknown }

// Intrinsic returns an IntrinsicType with the given name.
func Intrinsic(name string) *IntrinsicType {
	return &IntrinsicType{Name: name}
}

// IsIntrinsic reports whether t is the named intrinsic.
func IsIntrinsic(t Type, name string) bool {
	it, ok := t.(*IntrinsicType)
	return ok && it.Name == name
}

// RemoveUndefined strips `undefined` arms from a union. A single remaining arm
// replaces the union. Non-unions, and unions consisting only of undefined, are
// returned unchanged.
func RemoveUndefined(t Type) Type {
	u, ok := t.(*UnionType)
	if !ok {
		return t
	}
	kept := make([]Type, 0, len(u.Types))
	for _, member := range u.Types {
		if !IsIntrinsic(member, "undefined") {
			kept = append(kept, member)
		}
	}
	switch len(kept) {
	case 0:
		return t
	case 1:
		return kept[0]
	case len(u.Types):
		return t
	}
	return &UnionType{Types: kept}
}

func (t *IntrinsicType) String() string { return t.Name }

func (t *LiteralType) String() string {
	switch v := t.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case *big.Int:
		return v.String() + "n"
	}
	return "unknown"
}

func (t *ArrayType) String() string {
	elem := t.ElementType.String()
	switch t.ElementType.(type) {
	case *UnionType, *IntersectionType, *ConditionalType, *TypeOperatorType:
		elem = "(" + elem + ")"
	}
	return elem + "[]"
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		var sb strings.Builder
		if el.Rest {
			sb.WriteString("...")
		}
		if t.Named {
			sb.WriteString(el.Name)
			if el.Optional {
				sb.WriteString("?")
			}
			sb.WriteString(": ")
			sb.WriteString(el.Type.String())
		} else {
			sb.WriteString(el.Type.String())
			if el.Optional {
				sb.WriteString("?")
			}
		}
		parts[i] = sb.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (t *UnionType) String() string        { return joinTypes(t.Types, " | ") }
func (t *IntersectionType) String() string { return joinTypes(t.Types, " & ") }

func (t *ConditionalType) String() string {
	return t.CheckType.String() + " extends " + t.ExtendsType.String() +
		" ? " + t.TrueType.String() + " : " + t.FalseType.String()
}

func (t *IndexedAccessType) String() string {
	return t.ObjectType.String() + "[" + t.IndexType.String() + "]"
}

func (t *InferredType) String() string { return "infer " + t.Name }

func (t *MappedType) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	switch t.ReadonlyModifier {
	case ModifierAdd:
		sb.WriteString("readonly ")
	case ModifierRemove:
		sb.WriteString("-readonly ")
	}
	sb.WriteString("[")
	sb.WriteString(t.ParameterName)
	sb.WriteString(" in ")
	sb.WriteString(t.Constraint.String())
	if t.NameType != nil {
		sb.WriteString(" as ")
		sb.WriteString(t.NameType.String())
	}
	sb.WriteString("]")
	switch t.OptionalModifier {
	case ModifierAdd:
		sb.WriteString("?")
	case ModifierRemove:
		sb.WriteString("-?")
	}
	sb.WriteString(": ")
	sb.WriteString(t.Template.String())
	sb.WriteString(" }")
	return sb.String()
}

func (t *QueryType) String() string { return "typeof " + t.Target.String() }

func (t *ReferenceType) String() string {
	if len(t.TypeArguments) == 0 {
		return t.Name
	}
	return t.Name + "<" + joinTypes(t.TypeArguments, ", ") + ">"
}

func (t *PredicateType) String() string {
	var sb strings.Builder
	if t.Asserts {
		sb.WriteString("asserts ")
	}
	sb.WriteString(t.Name)
	if t.TargetType != nil {
		sb.WriteString(" is ")
		sb.WriteString(t.TargetType.String())
	}
	return sb.String()
}

func (t *TemplateLiteralType) String() string {
	var sb strings.Builder
	sb.WriteString("`")
	sb.WriteString(t.Head)
	for _, span := range t.Spans {
		sb.WriteString("${")
		sb.WriteString(span.Type.String())
		sb.WriteString("}")
		sb.WriteString(span.Text)
	}
	sb.WriteString("`")
	return sb.String()
}

func (t *TypeOperatorType) String() string {
	return string(t.Operator) + " " + t.Target.String()
}

func (t *ReflectionType) String() string {
	if t.Declaration == nil {
		return "Object"
	}
	d := t.Declaration
	if len(d.Children) == 0 && len(d.Signatures) == 1 {
		return d.Signatures[0].String()
	}
	parts := make([]string, 0, len(d.Children))
	for _, child := range d.Children {
		name := child.Name()
		if child.HasFlag(FlagOptional) {
			name += "?"
		}
		if child.Type != nil {
			parts = append(parts, name+": "+child.Type.String())
		} else {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (t *UnknownType) String() string { return t.Text }

func joinTypes(types []Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}
