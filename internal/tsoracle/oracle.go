// Package tsoracle answers the converter's semantic queries with the
// typescript-go checker. It owns no analysis of its own: every method is a
// thin translation between the checker's types and the oracle interfaces.
package tsoracle

import (
	"reflect"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"

	"github.com/tsreflect/tsreflect/internal/oracle"
)

// Oracle wraps a checker together with the source files it should expose.
type Oracle struct {
	checker *shimchecker.Checker
	files   []*ast.SourceFile
}

var _ oracle.Oracle = (*Oracle)(nil)

// New creates an oracle over files. The checker must stay alive, and must
// not be used concurrently, for as long as the oracle is in use.
func New(checker *shimchecker.Checker, files []*ast.SourceFile) *Oracle {
	return &Oracle{checker: checker, files: files}
}

func (o *Oracle) SourceFiles() []oracle.Node {
	out := make([]oracle.Node, 0, len(o.files))
	for _, f := range o.files {
		out = append(out, node{n: f.AsNode()})
	}
	return out
}

func (o *Oracle) SymbolAtLocation(n oracle.Node) oracle.Symbol {
	target := unwrapNode(n)
	if target == nil {
		return nil
	}
	return wrapSymbol(o.checker.GetSymbolAtLocation(target))
}

func (o *Oracle) ResolveAlias(s oracle.Symbol) oracle.Symbol {
	sym := unwrapSymbol(s)
	if sym == nil || sym.Flags&ast.SymbolFlagsAlias == 0 {
		return s
	}
	if resolved := o.checker.GetAliasedSymbol(sym); resolved != nil {
		return wrapSymbol(resolved)
	}
	return s
}

func (o *Oracle) TypeFromTypeNode(n oracle.Node) oracle.Type {
	return wrapType(shimchecker.Checker_getTypeFromTypeNode(o.checker, unwrapNode(n)))
}

func (o *Oracle) TypeAtLocation(n oracle.Node) oracle.Type {
	return wrapType(o.checker.GetTypeAtLocation(unwrapNode(n)))
}

func (o *Oracle) TypeOfSymbol(s oracle.Symbol) oracle.Type {
	return wrapType(shimchecker.Checker_getTypeOfSymbol(o.checker, unwrapSymbol(s)))
}

func (o *Oracle) TypeOfSymbolAtLocation(s oracle.Symbol, n oracle.Node) oracle.Type {
	return wrapType(o.checker.GetTypeOfSymbolAtLocation(unwrapSymbol(s), unwrapNode(n)))
}

func (o *Oracle) DeclaredTypeOfSymbol(s oracle.Symbol) oracle.Type {
	return wrapType(shimchecker.Checker_getDeclaredTypeOfSymbol(o.checker, unwrapSymbol(s)))
}

func (o *Oracle) TypeToTypeNode(t oracle.Type, ignoreErrors bool) oracle.Node {
	flags := shimchecker.NodeBuilderFlagsNone
	if ignoreErrors {
		flags |= shimchecker.NodeBuilderFlagsIgnoreErrors
	}
	return wrapNode(shimchecker.Checker_typeToTypeNode(o.checker, unwrapType(t), nil, flags))
}

func (o *Oracle) TypeToString(t oracle.Type) string {
	return o.checker.TypeToString(unwrapType(t))
}

func (o *Oracle) TypeArguments(t oracle.Type) []oracle.Type {
	return wrapTypes(shimchecker.Checker_getTypeArguments(o.checker, unwrapType(t)))
}

func (o *Oracle) IsArrayType(t oracle.Type) bool {
	return shimchecker.Checker_isArrayType(o.checker, unwrapType(t))
}

func (o *Oracle) IsTupleType(t oracle.Type) bool {
	return shimchecker.IsTupleType(unwrapType(t))
}

func (o *Oracle) TupleElements(t oracle.Type) []oracle.TupleElement {
	target := unwrapType(t).TargetTupleType()
	if target == nil {
		return nil
	}
	infos := shimchecker.TupleType_elementInfos(target)
	out := make([]oracle.TupleElement, len(infos))
	for i, info := range infos {
		flags := info.TupleElementFlags()
		variadic := flags&shimchecker.ElementFlagsVariadic != 0
		out[i] = oracle.TupleElement{
			Optional: flags&shimchecker.ElementFlagsOptional != 0,
			Rest:     variadic || flags&shimchecker.ElementFlagsRest != 0,
			Variadic: variadic,
		}
		if decl := info.LabeledDeclaration(); decl != nil && decl.Name() != nil {
			out[i].Name = decl.Name().Text()
		}
	}
	return out
}

func (o *Oracle) Conditional(t oracle.Type) oracle.ConditionalParts {
	ct := unwrapType(t)
	return oracle.ConditionalParts{
		Check:   wrapType(shimchecker.ConditionalType_checkType(ct)),
		Extends: wrapType(shimchecker.ConditionalType_extendsType(ct)),
		True:    wrapType(shimchecker.Checker_getTrueTypeFromConditionalType(o.checker, ct)),
		False:   wrapType(shimchecker.Checker_getFalseTypeFromConditionalType(o.checker, ct)),
	}
}

func (o *Oracle) IndexedAccess(t oracle.Type) (object, index oracle.Type) {
	it := unwrapType(t)
	return wrapType(shimchecker.IndexedAccessType_objectType(it)),
		wrapType(shimchecker.IndexedAccessType_indexType(it))
}

func (o *Oracle) Mapped(t oracle.Type) oracle.MappedParts {
	mt := unwrapType(t)
	return oracle.MappedParts{
		TypeParameter: wrapType(shimchecker.Checker_getTypeParameterFromMappedType(o.checker, mt)),
		Constraint:    wrapType(shimchecker.Checker_getConstraintTypeFromMappedType(o.checker, mt)),
		Template:      wrapType(shimchecker.Checker_getTemplateTypeFromMappedType(o.checker, mt)),
		NameType:      wrapType(shimchecker.Checker_getNameTypeFromMappedType(o.checker, mt)),
	}
}

func (o *Oracle) TemplateLiteral(t oracle.Type) ([]string, []oracle.Type) {
	tt := unwrapType(t)
	return shimchecker.TemplateLiteralType_texts(tt), wrapTypes(shimchecker.TemplateLiteralType_types(tt))
}

func (o *Oracle) IndexTarget(t oracle.Type) oracle.Type {
	return wrapType(shimchecker.IndexType_target(unwrapType(t)))
}

// LiteralValue unpacks the checker's literal value. Boolean literals are
// intrinsic types without a value, so their text decides.
func (o *Oracle) LiteralValue(t oracle.Type) any {
	lt := unwrapType(t)
	if lt.Flags()&shimchecker.TypeFlagsBooleanLiteral != 0 {
		return o.checker.TypeToString(lt) == "true"
	}
	v := lt.AsLiteralType().Value()
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float64, reflect.Float32:
		return rv.Float()
	case reflect.Struct:
		neg := rv.FieldByName("Negative")
		digits := rv.FieldByName("Base10Value")
		if neg.IsValid() && digits.IsValid() {
			return oracle.PseudoBigInt{Negative: neg.Bool(), Base10Value: digits.String()}
		}
	}
	return v
}

func (o *Oracle) TypeParameter(t oracle.Type) oracle.TypeParameterParts {
	tp := unwrapType(t)
	return oracle.TypeParameterParts{
		Constraint: wrapType(shimchecker.Checker_getConstraintOfTypeParameter(o.checker, tp)),
		Default:    wrapType(shimchecker.Checker_getDefaultFromTypeParameter(o.checker, tp)),
	}
}

func (o *Oracle) Signatures(t oracle.Type, kind oracle.SignatureKind) []oracle.Signature {
	k := shimchecker.SignatureKindCall
	if kind == oracle.SignatureKindConstruct {
		k = shimchecker.SignatureKindConstruct
	}
	sigs := shimchecker.Checker_getSignaturesOfType(o.checker, unwrapType(t), k)
	out := make([]oracle.Signature, 0, len(sigs))
	for _, s := range sigs {
		out = append(out, signature{s: s})
	}
	return out
}

func (o *Oracle) Properties(t oracle.Type) []oracle.Symbol {
	return wrapSymbols(shimchecker.Checker_getPropertiesOfType(o.checker, unwrapType(t)))
}

func (o *Oracle) IndexSignatures(t oracle.Type) []oracle.IndexInfo {
	infos := shimchecker.Checker_getIndexInfosOfType(o.checker, unwrapType(t))
	out := make([]oracle.IndexInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, oracle.IndexInfo{
			KeyType:     wrapType(shimchecker.IndexInfo_keyType(info)),
			ValueType:   wrapType(shimchecker.IndexInfo_valueType(info)),
			Readonly:    shimchecker.IndexInfo_isReadonly(info),
			Declaration: wrapNode(shimchecker.IndexInfo_declaration(info)),
		})
	}
	return out
}

func (o *Oracle) SignatureFromDeclaration(n oracle.Node) oracle.Signature {
	return wrapSignature(shimchecker.Checker_getSignatureFromDeclaration(o.checker, unwrapNode(n)))
}

func (o *Oracle) ReturnType(s oracle.Signature) oracle.Type {
	return wrapType(shimchecker.Checker_getReturnTypeOfSignature(o.checker, unwrapSignature(s)))
}

// HasTypePredicate reports a predicate only when the declaration spells one
// out. Predicates the checker infers from the body are not reported.
func (o *Oracle) HasTypePredicate(s oracle.Signature) bool {
	sig := unwrapSignature(s)
	if sig == nil {
		return false
	}
	decl := sig.Declaration()
	if decl == nil || decl.Type() == nil {
		return false
	}
	return decl.Type().Kind == ast.KindTypePredicate
}
