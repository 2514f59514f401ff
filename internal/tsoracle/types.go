package tsoracle

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"

	"github.com/tsreflect/tsreflect/internal/oracle"
)

var typeFlagTable = []struct {
	from shimchecker.TypeFlags
	to   oracle.TypeFlags
}{
	{shimchecker.TypeFlagsAny, oracle.TypeFlagsAny},
	{shimchecker.TypeFlagsUnknown, oracle.TypeFlagsUnknown},
	{shimchecker.TypeFlagsString, oracle.TypeFlagsString},
	{shimchecker.TypeFlagsNumber, oracle.TypeFlagsNumber},
	{shimchecker.TypeFlagsBoolean, oracle.TypeFlagsBoolean},
	{shimchecker.TypeFlagsEnum, oracle.TypeFlagsEnum},
	{shimchecker.TypeFlagsBigInt, oracle.TypeFlagsBigInt},
	{shimchecker.TypeFlagsStringLiteral, oracle.TypeFlagsStringLiteral},
	{shimchecker.TypeFlagsNumberLiteral, oracle.TypeFlagsNumberLiteral},
	{shimchecker.TypeFlagsBooleanLiteral, oracle.TypeFlagsBooleanLiteral},
	{shimchecker.TypeFlagsEnumLiteral, oracle.TypeFlagsEnumLiteral},
	{shimchecker.TypeFlagsBigIntLiteral, oracle.TypeFlagsBigIntLiteral},
	{shimchecker.TypeFlagsESSymbol, oracle.TypeFlagsESSymbol},
	{shimchecker.TypeFlagsUniqueESSymbol, oracle.TypeFlagsUniqueESSymbol},
	{shimchecker.TypeFlagsVoid, oracle.TypeFlagsVoid},
	{shimchecker.TypeFlagsUndefined, oracle.TypeFlagsUndefined},
	{shimchecker.TypeFlagsNull, oracle.TypeFlagsNull},
	{shimchecker.TypeFlagsNever, oracle.TypeFlagsNever},
	{shimchecker.TypeFlagsTypeParameter, oracle.TypeFlagsTypeParameter},
	{shimchecker.TypeFlagsObject, oracle.TypeFlagsObject},
	{shimchecker.TypeFlagsUnion, oracle.TypeFlagsUnion},
	{shimchecker.TypeFlagsIntersection, oracle.TypeFlagsIntersection},
	{shimchecker.TypeFlagsIndex, oracle.TypeFlagsIndex},
	{shimchecker.TypeFlagsIndexedAccess, oracle.TypeFlagsIndexedAccess},
	{shimchecker.TypeFlagsConditional, oracle.TypeFlagsConditional},
	{shimchecker.TypeFlagsSubstitution, oracle.TypeFlagsSubstitution},
	{shimchecker.TypeFlagsNonPrimitive, oracle.TypeFlagsNonPrimitive},
	{shimchecker.TypeFlagsTemplateLiteral, oracle.TypeFlagsTemplateLiteral},
	{shimchecker.TypeFlagsStringMapping, oracle.TypeFlagsStringMapping},
}

var objectFlagTable = []struct {
	from shimchecker.ObjectFlags
	to   oracle.ObjectFlags
}{
	{shimchecker.ObjectFlagsClass, oracle.ObjectFlagsClass},
	{shimchecker.ObjectFlagsInterface, oracle.ObjectFlagsInterface},
	{shimchecker.ObjectFlagsReference, oracle.ObjectFlagsReference},
	{shimchecker.ObjectFlagsTuple, oracle.ObjectFlagsTuple},
	{shimchecker.ObjectFlagsAnonymous, oracle.ObjectFlagsAnonymous},
	{shimchecker.ObjectFlagsMapped, oracle.ObjectFlagsMapped},
}

var symbolFlagTable = []struct {
	from ast.SymbolFlags
	to   oracle.SymbolFlags
}{
	{ast.SymbolFlagsVariable, oracle.SymbolFlagsVariable},
	{ast.SymbolFlagsProperty, oracle.SymbolFlagsProperty},
	{ast.SymbolFlagsEnumMember, oracle.SymbolFlagsEnumMember},
	{ast.SymbolFlagsFunction, oracle.SymbolFlagsFunction},
	{ast.SymbolFlagsClass, oracle.SymbolFlagsClass},
	{ast.SymbolFlagsInterface, oracle.SymbolFlagsInterface},
	{ast.SymbolFlagsEnum, oracle.SymbolFlagsEnum},
	{ast.SymbolFlagsTypeLiteral, oracle.SymbolFlagsTypeLiteral},
	{ast.SymbolFlagsMethod, oracle.SymbolFlagsMethod},
	{ast.SymbolFlagsConstructor, oracle.SymbolFlagsConstructor},
	{ast.SymbolFlagsGetAccessor, oracle.SymbolFlagsGetAccessor},
	{ast.SymbolFlagsSetAccessor, oracle.SymbolFlagsSetAccessor},
	{ast.SymbolFlagsSignature, oracle.SymbolFlagsSignature},
	{ast.SymbolFlagsTypeParameter, oracle.SymbolFlagsTypeParameter},
	{ast.SymbolFlagsTypeAlias, oracle.SymbolFlagsTypeAlias},
	{ast.SymbolFlagsAlias, oracle.SymbolFlagsAlias},
	{ast.SymbolFlagsOptional, oracle.SymbolFlagsOptional},
}

// typ adapts a checker type.
type typ struct {
	t *shimchecker.Type
}

var _ oracle.Type = typ{}

func wrapType(t *shimchecker.Type) oracle.Type {
	if t == nil {
		return nil
	}
	return typ{t: t}
}

func wrapTypes(ts []*shimchecker.Type) []oracle.Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]oracle.Type, len(ts))
	for i, t := range ts {
		out[i] = typ{t: t}
	}
	return out
}

func unwrapType(t oracle.Type) *shimchecker.Type {
	if w, ok := t.(typ); ok {
		return w.t
	}
	return nil
}

func (w typ) Flags() oracle.TypeFlags {
	f := w.t.Flags()
	var out oracle.TypeFlags
	for _, e := range typeFlagTable {
		if f&e.from != 0 {
			out |= e.to
		}
	}
	return out
}

func (w typ) ObjectFlags() oracle.ObjectFlags {
	f := shimchecker.Type_objectFlags(w.t)
	var out oracle.ObjectFlags
	for _, e := range objectFlagTable {
		if f&e.from != 0 {
			out |= e.to
		}
	}
	return out
}

func (w typ) Symbol() oracle.Symbol {
	return wrapSymbol(w.t.Symbol())
}

func (w typ) AliasSymbol() oracle.Symbol {
	if alias := shimchecker.Type_alias(w.t); alias != nil {
		return wrapSymbol(alias.Symbol())
	}
	return nil
}

func (w typ) AliasTypeArguments() []oracle.Type {
	if alias := shimchecker.Type_alias(w.t); alias != nil {
		return wrapTypes(alias.TypeArguments())
	}
	return nil
}

func (w typ) Types() []oracle.Type {
	if w.t.Flags()&(shimchecker.TypeFlagsUnion|shimchecker.TypeFlagsIntersection) == 0 {
		return nil
	}
	return wrapTypes(w.t.Types())
}

// symbol adapts a binder symbol. IDs come from the binder so they are stable
// for the lifetime of the program.
type symbol struct {
	s *ast.Symbol
}

var _ oracle.Symbol = symbol{}

func wrapSymbol(s *ast.Symbol) oracle.Symbol {
	if s == nil {
		return nil
	}
	return symbol{s: s}
}

func wrapSymbols(syms []*ast.Symbol) []oracle.Symbol {
	if len(syms) == 0 {
		return nil
	}
	out := make([]oracle.Symbol, len(syms))
	for i, s := range syms {
		out[i] = symbol{s: s}
	}
	return out
}

func unwrapSymbol(s oracle.Symbol) *ast.Symbol {
	if w, ok := s.(symbol); ok {
		return w.s
	}
	return nil
}

func (w symbol) ID() uint64   { return uint64(ast.GetSymbolId(w.s)) }
func (w symbol) Name() string { return w.s.Name }
func (w symbol) Declarations() []oracle.Node {
	return wrapNodes(w.s.Declarations)
}

func (w symbol) ValueDeclaration() oracle.Node {
	return wrapNode(w.s.ValueDeclaration)
}

func (w symbol) Flags() oracle.SymbolFlags {
	var out oracle.SymbolFlags
	for _, e := range symbolFlagTable {
		if w.s.Flags&e.from != 0 {
			out |= e.to
		}
	}
	return out
}

// signature adapts a checker signature.
type signature struct {
	s *shimchecker.Signature
}

var _ oracle.Signature = signature{}

func wrapSignature(s *shimchecker.Signature) oracle.Signature {
	if s == nil {
		return nil
	}
	return signature{s: s}
}

func unwrapSignature(s oracle.Signature) *shimchecker.Signature {
	if w, ok := s.(signature); ok {
		return w.s
	}
	return nil
}

func (w signature) Declaration() oracle.Node      { return wrapNode(w.s.Declaration()) }
func (w signature) TypeParameters() []oracle.Type { return wrapTypes(w.s.TypeParameters()) }
func (w signature) Parameters() []oracle.Symbol   { return wrapSymbols(w.s.Parameters()) }
func (w signature) ThisParameter() oracle.Symbol  { return wrapSymbol(w.s.ThisParameter()) }
