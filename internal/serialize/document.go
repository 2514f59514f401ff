// Package serialize writes a converted project as a self-contained document.
// Reflections are identified by their project-local IDs; references to
// converted symbols point at those IDs.
package serialize

import (
	"math"
	"math/big"
	"strconv"

	"github.com/tsreflect/tsreflect/internal/model"
)

// SchemaVersion is bumped whenever the document shape changes.
const SchemaVersion = 1

// Document is the serialized form of a model.Project.
type Document struct {
	SchemaVersion int               `json:"schemaVersion" msgpack:"schemaVersion"`
	Name          string            `json:"name" msgpack:"name"`
	Children      []*ReflectionNode `json:"children,omitzero" msgpack:"children,omitempty"`
}

// ReflectionNode is one declaration, signature, parameter or type parameter.
type ReflectionNode struct {
	ID             uint32            `json:"id" msgpack:"id"`
	Name           string            `json:"name" msgpack:"name"`
	Kind           string            `json:"kind" msgpack:"kind"`
	Flags          []string          `json:"flags,omitzero" msgpack:"flags,omitempty"`
	Children       []*ReflectionNode `json:"children,omitzero" msgpack:"children,omitempty"`
	Signatures     []*ReflectionNode `json:"signatures,omitzero" msgpack:"signatures,omitempty"`
	IndexSignature *ReflectionNode   `json:"indexSignature,omitzero" msgpack:"indexSignature,omitempty"`
	GetSignature   *ReflectionNode   `json:"getSignature,omitzero" msgpack:"getSignature,omitempty"`
	SetSignature   *ReflectionNode   `json:"setSignature,omitzero" msgpack:"setSignature,omitempty"`
	TypeParameters []*ReflectionNode `json:"typeParameters,omitzero" msgpack:"typeParameters,omitempty"`
	Parameters     []*ReflectionNode `json:"parameters,omitzero" msgpack:"parameters,omitempty"`
	Type           *TypeNode         `json:"type,omitzero" msgpack:"type,omitempty"`
	Constraint     *TypeNode         `json:"constraint,omitzero" msgpack:"constraint,omitempty"`
	Default        *TypeNode         `json:"default,omitzero" msgpack:"default,omitempty"`
	DefaultValue   string            `json:"defaultValue,omitzero" msgpack:"defaultValue,omitempty"`
	Sources        []Source          `json:"sources,omitzero" msgpack:"sources,omitempty"`
}

type Source struct {
	File      string `json:"file" msgpack:"file"`
	Line      int    `json:"line" msgpack:"line"`
	Character int    `json:"character" msgpack:"character"`
}

// TypeNode is a serialized model.Type. Kind selects which fields are set.
// A null literal carries no value.
type TypeNode struct {
	Kind string `json:"type" msgpack:"type"`

	Name  string `json:"name,omitzero" msgpack:"name,omitempty"`
	Value any    `json:"value,omitzero" msgpack:"value,omitempty"`
	// BigInt marks Value as the decimal text of a bigint literal.
	BigInt bool `json:"bigint,omitzero" msgpack:"bigint,omitempty"`
	// NonFinite marks Value as "Infinity", "-Infinity" or "NaN".
	NonFinite bool `json:"nonFinite,omitzero" msgpack:"nonFinite,omitempty"`

	ElementType *TypeNode    `json:"elementType,omitzero" msgpack:"elementType,omitempty"`
	Elements    []TupleEntry `json:"elements,omitzero" msgpack:"elements,omitempty"`
	Types       []*TypeNode  `json:"types,omitzero" msgpack:"types,omitempty"`

	CheckType   *TypeNode `json:"checkType,omitzero" msgpack:"checkType,omitempty"`
	ExtendsType *TypeNode `json:"extendsType,omitzero" msgpack:"extendsType,omitempty"`
	TrueType    *TypeNode `json:"trueType,omitzero" msgpack:"trueType,omitempty"`
	FalseType   *TypeNode `json:"falseType,omitzero" msgpack:"falseType,omitempty"`

	ObjectType *TypeNode `json:"objectType,omitzero" msgpack:"objectType,omitempty"`
	IndexType  *TypeNode `json:"indexType,omitzero" msgpack:"indexType,omitempty"`

	ParameterName    string    `json:"parameter,omitzero" msgpack:"parameter,omitempty"`
	Constraint       *TypeNode `json:"constraint,omitzero" msgpack:"constraint,omitempty"`
	Template         *TypeNode `json:"templateType,omitzero" msgpack:"templateType,omitempty"`
	ReadonlyModifier string    `json:"readonlyModifier,omitzero" msgpack:"readonlyModifier,omitempty"`
	OptionalModifier string    `json:"optionalModifier,omitzero" msgpack:"optionalModifier,omitempty"`
	NameType         *TypeNode `json:"nameType,omitzero" msgpack:"nameType,omitempty"`

	// ID is the referenced reflection, zero when the reference points
	// outside the project.
	ID            uint32      `json:"id,omitzero" msgpack:"id,omitempty"`
	TypeArguments []*TypeNode `json:"typeArguments,omitzero" msgpack:"typeArguments,omitempty"`
	Unresolved    bool        `json:"unresolved,omitzero" msgpack:"unresolved,omitempty"`
	QueryType     *TypeNode   `json:"queryType,omitzero" msgpack:"queryType,omitempty"`

	Asserts    bool      `json:"asserts,omitzero" msgpack:"asserts,omitempty"`
	TargetType *TypeNode `json:"targetType,omitzero" msgpack:"targetType,omitempty"`

	Head     string         `json:"head,omitzero" msgpack:"head,omitempty"`
	Tail     []TemplateTail `json:"tail,omitzero" msgpack:"tail,omitempty"`
	Operator string         `json:"operator,omitzero" msgpack:"operator,omitempty"`
	Target   *TypeNode      `json:"target,omitzero" msgpack:"target,omitempty"`

	Declaration *ReflectionNode `json:"declaration,omitzero" msgpack:"declaration,omitempty"`
}

type TupleEntry struct {
	Name     string    `json:"name,omitzero" msgpack:"name,omitempty"`
	Optional bool      `json:"optional,omitzero" msgpack:"optional,omitempty"`
	Rest     bool      `json:"rest,omitzero" msgpack:"rest,omitempty"`
	Element  *TypeNode `json:"element" msgpack:"element"`
}

type TemplateTail struct {
	Type *TypeNode `json:"type" msgpack:"type"`
	Text string    `json:"text" msgpack:"text"`
}

// Build converts a project into its document form.
func Build(p *model.Project) *Document {
	b := builder{project: p}
	doc := &Document{SchemaVersion: SchemaVersion, Name: p.Name()}
	for _, c := range p.Children {
		doc.Children = append(doc.Children, b.declaration(c))
	}
	return doc
}

type builder struct {
	project *model.Project
}

func (b builder) header(r model.Reflection) *ReflectionNode {
	return &ReflectionNode{
		ID:    uint32(r.ID()),
		Name:  r.Name(),
		Kind:  string(r.Kind()),
		Flags: r.Flags().Names(),
	}
}

func (b builder) declaration(d *model.Declaration) *ReflectionNode {
	if d == nil {
		return nil
	}
	n := b.header(d)
	for _, c := range d.Children {
		n.Children = append(n.Children, b.declaration(c))
	}
	for _, s := range d.Signatures {
		n.Signatures = append(n.Signatures, b.signature(s))
	}
	n.IndexSignature = b.signature(d.IndexSignature)
	n.GetSignature = b.signature(d.GetSignature)
	n.SetSignature = b.signature(d.SetSignature)
	n.TypeParameters = b.typeParameters(d.TypeParameters)
	n.Type = b.typ(d.Type)
	n.DefaultValue = d.DefaultValue
	for _, s := range d.Sources {
		n.Sources = append(n.Sources, Source(s))
	}
	return n
}

func (b builder) signature(s *model.Signature) *ReflectionNode {
	if s == nil {
		return nil
	}
	n := b.header(s)
	n.TypeParameters = b.typeParameters(s.TypeParameters)
	for _, p := range s.Parameters {
		pn := b.header(p)
		pn.Type = b.typ(p.Type)
		pn.DefaultValue = p.DefaultValue
		n.Parameters = append(n.Parameters, pn)
	}
	n.Type = b.typ(s.Type)
	return n
}

func (b builder) typeParameters(tps []*model.TypeParameter) []*ReflectionNode {
	var out []*ReflectionNode
	for _, tp := range tps {
		n := b.header(tp)
		n.Constraint = b.typ(tp.Constraint)
		n.Default = b.typ(tp.Default)
		out = append(out, n)
	}
	return out
}

func (b builder) types(ts []model.Type) []*TypeNode {
	out := make([]*TypeNode, 0, len(ts))
	for _, t := range ts {
		out = append(out, b.typ(t))
	}
	return out
}

func (b builder) typ(t model.Type) *TypeNode {
	if t == nil {
		return nil
	}
	n := &TypeNode{Kind: string(t.TypeKind())}
	switch t := t.(type) {
	case *model.IntrinsicType:
		n.Name = t.Name
	case *model.LiteralType:
		switch v := t.Value.(type) {
		case *big.Int:
			n.Value = v.String()
			n.BigInt = true
		case float64:
			if math.IsInf(v, 0) || math.IsNaN(v) {
				n.Value = nonFiniteText(v)
				n.NonFinite = true
			} else {
				n.Value = v
			}
		default:
			n.Value = t.Value
		}
	case *model.ArrayType:
		n.ElementType = b.typ(t.ElementType)
	case *model.TupleType:
		for _, e := range t.Elements {
			n.Elements = append(n.Elements, TupleEntry{
				Name:     e.Name,
				Optional: e.Optional,
				Rest:     e.Rest,
				Element:  b.typ(e.Type),
			})
		}
	case *model.UnionType:
		n.Types = b.types(t.Types)
	case *model.IntersectionType:
		n.Types = b.types(t.Types)
	case *model.ConditionalType:
		n.CheckType = b.typ(t.CheckType)
		n.ExtendsType = b.typ(t.ExtendsType)
		n.TrueType = b.typ(t.TrueType)
		n.FalseType = b.typ(t.FalseType)
	case *model.IndexedAccessType:
		n.ObjectType = b.typ(t.ObjectType)
		n.IndexType = b.typ(t.IndexType)
	case *model.InferredType:
		n.Name = t.Name
	case *model.MappedType:
		n.ParameterName = t.ParameterName
		n.Constraint = b.typ(t.Constraint)
		n.Template = b.typ(t.Template)
		n.ReadonlyModifier = t.ReadonlyModifier.String()
		n.OptionalModifier = t.OptionalModifier.String()
		n.NameType = b.typ(t.NameType)
	case *model.QueryType:
		n.QueryType = b.typ(t.Target)
	case *model.ReferenceType:
		n.Name = t.Name
		n.Unresolved = t.Unresolved
		if len(t.TypeArguments) > 0 {
			n.TypeArguments = b.types(t.TypeArguments)
		}
		if r := t.Resolve(b.project); r != nil {
			n.ID = uint32(r.ID())
		}
	case *model.PredicateType:
		n.Name = t.Name
		n.Asserts = t.Asserts
		n.TargetType = b.typ(t.TargetType)
	case *model.TemplateLiteralType:
		n.Head = t.Head
		for _, s := range t.Spans {
			n.Tail = append(n.Tail, TemplateTail{Type: b.typ(s.Type), Text: s.Text})
		}
	case *model.TypeOperatorType:
		n.Operator = string(t.Operator)
		n.Target = b.typ(t.Target)
	case *model.ReflectionType:
		n.Declaration = b.declaration(t.Declaration)
	case *model.UnknownType:
		n.Name = t.Text
	}
	return n
}

func nonFiniteText(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
