package model

import "math/big"

// Equal reports whether a and b describe the same type. Anonymous declarations
// are compared by shape; reflection IDs are ignored.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.TypeKind() != b.TypeKind() {
		return false
	}
	switch x := a.(type) {
	case *IntrinsicType:
		return x.Name == b.(*IntrinsicType).Name
	case *LiteralType:
		return literalEqual(x.Value, b.(*LiteralType).Value)
	case *ArrayType:
		return Equal(x.ElementType, b.(*ArrayType).ElementType)
	case *TupleType:
		y := b.(*TupleType)
		if x.Named != y.Named || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			ex, ey := x.Elements[i], y.Elements[i]
			if ex.Name != ey.Name || ex.Optional != ey.Optional || ex.Rest != ey.Rest || !Equal(ex.Type, ey.Type) {
				return false
			}
		}
		return true
	case *UnionType:
		return typesEqual(x.Types, b.(*UnionType).Types)
	case *IntersectionType:
		return typesEqual(x.Types, b.(*IntersectionType).Types)
	case *ConditionalType:
		y := b.(*ConditionalType)
		return Equal(x.CheckType, y.CheckType) && Equal(x.ExtendsType, y.ExtendsType) &&
			Equal(x.TrueType, y.TrueType) && Equal(x.FalseType, y.FalseType)
	case *IndexedAccessType:
		y := b.(*IndexedAccessType)
		return Equal(x.ObjectType, y.ObjectType) && Equal(x.IndexType, y.IndexType)
	case *InferredType:
		return x.Name == b.(*InferredType).Name
	case *MappedType:
		y := b.(*MappedType)
		return x.ParameterName == y.ParameterName &&
			x.ReadonlyModifier == y.ReadonlyModifier &&
			x.OptionalModifier == y.OptionalModifier &&
			Equal(x.Constraint, y.Constraint) &&
			Equal(x.Template, y.Template) &&
			Equal(x.NameType, y.NameType)
	case *QueryType:
		y := b.(*QueryType)
		if x.Target == nil || y.Target == nil {
			return x.Target == nil && y.Target == nil
		}
		return Equal(x.Target, y.Target)
	case *ReferenceType:
		y := b.(*ReferenceType)
		return x.Name == y.Name && x.SymbolID == y.SymbolID && x.Unresolved == y.Unresolved &&
			typesEqual(x.TypeArguments, y.TypeArguments)
	case *PredicateType:
		y := b.(*PredicateType)
		return x.Name == y.Name && x.Asserts == y.Asserts && Equal(x.TargetType, y.TargetType)
	case *TemplateLiteralType:
		y := b.(*TemplateLiteralType)
		if x.Head != y.Head || len(x.Spans) != len(y.Spans) {
			return false
		}
		for i := range x.Spans {
			if x.Spans[i].Text != y.Spans[i].Text || !Equal(x.Spans[i].Type, y.Spans[i].Type) {
				return false
			}
		}
		return true
	case *TypeOperatorType:
		y := b.(*TypeOperatorType)
		return x.Operator == y.Operator && Equal(x.Target, y.Target)
	case *ReflectionType:
		return declarationsEqual(x.Declaration, b.(*ReflectionType).Declaration)
	case *UnknownType:
		return x.Text == b.(*UnknownType).Text
	}
	return false
}

func typesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func literalEqual(a, b any) bool {
	switch x := a.(type) {
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case nil:
		return b == nil
	}
	return a == b
}

func declarationsEqual(a, b *Declaration) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.name != b.name || a.kind != b.kind || a.flags != b.flags || a.DefaultValue != b.DefaultValue {
		return false
	}
	if !Equal(a.Type, b.Type) {
		return false
	}
	if len(a.Children) != len(b.Children) || len(a.Signatures) != len(b.Signatures) {
		return false
	}
	for i := range a.Children {
		if !declarationsEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	for i := range a.Signatures {
		if !signaturesEqual(a.Signatures[i], b.Signatures[i]) {
			return false
		}
	}
	return signaturesEqual(a.IndexSignature, b.IndexSignature) &&
		signaturesEqual(a.GetSignature, b.GetSignature) &&
		signaturesEqual(a.SetSignature, b.SetSignature) &&
		typeParametersEqual(a.TypeParameters, b.TypeParameters)
}

func signaturesEqual(a, b *Signature) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.name != b.name || a.kind != b.kind || len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		pa, pb := a.Parameters[i], b.Parameters[i]
		if pa.name != pb.name || pa.flags != pb.flags || pa.DefaultValue != pb.DefaultValue || !Equal(pa.Type, pb.Type) {
			return false
		}
	}
	return Equal(a.Type, b.Type) && typeParametersEqual(a.TypeParameters, b.TypeParameters)
}

func typeParametersEqual(a, b []*TypeParameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].name != b[i].name || !Equal(a[i].Constraint, b[i].Constraint) || !Equal(a[i].Default, b[i].Default) {
			return false
		}
	}
	return true
}
