// Package testutil builds the inputs converter and oracle tests run against:
// a hand-assembled fake oracle and an overlay filesystem for real programs.
package testutil

import (
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// FakeNode is a hand-built syntax node.
type FakeNode struct {
	kind     oracle.SyntaxKind
	text     string
	source   string
	op       oracle.SyntaxKind
	pos      oracle.Position
	parent   *FakeNode
	children map[oracle.Role][]*FakeNode
}

var _ oracle.Node = (*FakeNode)(nil)

// N creates a node of the given kind with the given text.
func N(kind oracle.SyntaxKind, text string) *FakeNode {
	return &FakeNode{kind: kind, text: text, children: make(map[oracle.Role][]*FakeNode)}
}

// With appends children to a slot and adopts them.
func (n *FakeNode) With(role oracle.Role, children ...*FakeNode) *FakeNode {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = n
		n.children[role] = append(n.children[role], c)
	}
	return n
}

// Op sets the operator token kind.
func (n *FakeNode) Op(op oracle.SyntaxKind) *FakeNode {
	n.op = op
	return n
}

// Src sets the source text, when it differs from the value text.
func (n *FakeNode) Src(source string) *FakeNode {
	n.source = source
	return n
}

// At sets the node position (0-based line and character).
func (n *FakeNode) At(file string, line, char int) *FakeNode {
	n.pos = oracle.Position{File: file, Line: line, Character: char}
	return n
}

func (n *FakeNode) Kind() oracle.SyntaxKind { return n.kind }
func (n *FakeNode) Text() string            { return n.text }
func (n *FakeNode) SourceText() string {
	if n.source != "" {
		return n.source
	}
	return n.text
}
func (n *FakeNode) Operator() oracle.SyntaxKind { return n.op }

func (n *FakeNode) Pos() oracle.Position {
	if n.pos.File == "" && n.parent != nil {
		return n.parent.Pos()
	}
	return n.pos
}

func (n *FakeNode) Parent() oracle.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *FakeNode) Child(role oracle.Role) oracle.Node {
	c := n.children[role]
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

func (n *FakeNode) Children(role oracle.Role) []oracle.Node {
	c := n.children[role]
	if len(c) == 0 {
		return nil
	}
	out := make([]oracle.Node, len(c))
	for i, child := range c {
		out[i] = child
	}
	return out
}

// FakeSymbol is a hand-built symbol.
type FakeSymbol struct {
	id        uint64
	name      string
	flags     oracle.SymbolFlags
	decls     []oracle.Node
	valueDecl oracle.Node
}

var _ oracle.Symbol = (*FakeSymbol)(nil)

func (s *FakeSymbol) ID() uint64                  { return s.id }
func (s *FakeSymbol) Name() string                { return s.name }
func (s *FakeSymbol) Flags() oracle.SymbolFlags   { return s.flags }
func (s *FakeSymbol) Declarations() []oracle.Node { return s.decls }

func (s *FakeSymbol) ValueDeclaration() oracle.Node {
	return s.valueDecl
}

// Declare adds a declaration. The first declaration of a value symbol becomes
// its value declaration.
func (s *FakeSymbol) Declare(n *FakeNode) *FakeSymbol {
	s.decls = append(s.decls, n)
	if s.valueDecl == nil && s.flags&(oracle.SymbolFlagsVariable|oracle.SymbolFlagsProperty|
		oracle.SymbolFlagsFunction|oracle.SymbolFlagsMethod|oracle.SymbolFlagsEnumMember|oracle.SymbolFlagsClass) != 0 {
		s.valueDecl = n
	}
	return s
}

// FakeType is a hand-built resolved type. Zero-valued fields answer the
// corresponding oracle query with a zero value.
type FakeType struct {
	TypeFlags  oracle.TypeFlags
	ObjFlags   oracle.ObjectFlags
	Sym        oracle.Symbol
	Alias      oracle.Symbol
	AliasArgs  []oracle.Type
	Members    []oracle.Type
	Args       []oracle.Type
	Display    string
	Projection oracle.Node
	Array      bool
	Tuple      bool
	Elements   []oracle.TupleElement
	Cond       oracle.ConditionalParts
	Object     oracle.Type
	Index      oracle.Type
	MappedInfo oracle.MappedParts
	Texts      []string
	Spans      []oracle.Type
	KeyOf      oracle.Type
	Value      any
	Param      oracle.TypeParameterParts
	Calls      []oracle.Signature
	Constructs []oracle.Signature
	Props      []oracle.Symbol
	IndexInfos []oracle.IndexInfo
}

var _ oracle.Type = (*FakeType)(nil)

func (t *FakeType) Flags() oracle.TypeFlags         { return t.TypeFlags }
func (t *FakeType) ObjectFlags() oracle.ObjectFlags { return t.ObjFlags }
func (t *FakeType) Symbol() oracle.Symbol           { return t.Sym }
func (t *FakeType) AliasSymbol() oracle.Symbol      { return t.Alias }
func (t *FakeType) AliasTypeArguments() []oracle.Type {
	return t.AliasArgs
}
func (t *FakeType) Types() []oracle.Type { return t.Members }

// FakeSignature is a hand-built call signature.
type FakeSignature struct {
	Decl       oracle.Node
	TypeParams []oracle.Type
	Params     []oracle.Symbol
	This       oracle.Symbol
	Return     oracle.Type
	Predicate  bool
}

var _ oracle.Signature = (*FakeSignature)(nil)

func (s *FakeSignature) Declaration() oracle.Node      { return s.Decl }
func (s *FakeSignature) TypeParameters() []oracle.Type { return s.TypeParams }
func (s *FakeSignature) Parameters() []oracle.Symbol   { return s.Params }
func (s *FakeSignature) ThisParameter() oracle.Symbol  { return s.This }

// FakeOracle is an in-memory oracle. Answers are wired explicitly by tests.
type FakeOracle struct {
	Files []oracle.Node

	symbolAt    map[oracle.Node]oracle.Symbol
	typeAt      map[oracle.Node]oracle.Type
	symbolTypes map[oracle.Symbol]oracle.Type
	declared    map[oracle.Symbol]oracle.Type
	aliases     map[oracle.Symbol]oracle.Symbol
	sigFromDecl map[oracle.Node]oracle.Signature
	nextID      uint64

	// Projections counts TypeToTypeNode calls.
	Projections int
}

var _ oracle.Oracle = (*FakeOracle)(nil)

func NewFakeOracle() *FakeOracle {
	return &FakeOracle{
		symbolAt:    make(map[oracle.Node]oracle.Symbol),
		typeAt:      make(map[oracle.Node]oracle.Type),
		symbolTypes: make(map[oracle.Symbol]oracle.Type),
		declared:    make(map[oracle.Symbol]oracle.Type),
		aliases:     make(map[oracle.Symbol]oracle.Symbol),
		sigFromDecl: make(map[oracle.Node]oracle.Signature),
	}
}

// Symbol creates a symbol with a fresh ID.
func (o *FakeOracle) Symbol(name string, flags oracle.SymbolFlags) *FakeSymbol {
	o.nextID++
	return &FakeSymbol{id: o.nextID, name: name, flags: flags}
}

// BindSymbol makes SymbolAtLocation(node) return sym.
func (o *FakeOracle) BindSymbol(node oracle.Node, sym oracle.Symbol) {
	o.symbolAt[node] = sym
}

// BindType makes TypeFromTypeNode(node) and TypeAtLocation(node) return t.
func (o *FakeOracle) BindType(node oracle.Node, t oracle.Type) {
	o.typeAt[node] = t
}

// SetSymbolType sets the type of a symbol.
func (o *FakeOracle) SetSymbolType(sym oracle.Symbol, t oracle.Type) {
	o.symbolTypes[sym] = t
}

// SetDeclaredType sets the declared type of a class or interface symbol.
func (o *FakeOracle) SetDeclaredType(sym oracle.Symbol, t oracle.Type) {
	o.declared[sym] = t
}

// Alias makes ResolveAlias(alias) return target.
func (o *FakeOracle) Alias(alias, target oracle.Symbol) {
	o.aliases[alias] = target
}

// BindSignature makes SignatureFromDeclaration(decl) return sig.
func (o *FakeOracle) BindSignature(decl oracle.Node, sig oracle.Signature) {
	o.sigFromDecl[decl] = sig
}

func (o *FakeOracle) SourceFiles() []oracle.Node { return o.Files }

func (o *FakeOracle) SymbolAtLocation(node oracle.Node) oracle.Symbol {
	if node == nil {
		return nil
	}
	return o.symbolAt[node]
}

func (o *FakeOracle) ResolveAlias(sym oracle.Symbol) oracle.Symbol {
	if target, ok := o.aliases[sym]; ok {
		return target
	}
	return sym
}

func (o *FakeOracle) TypeFromTypeNode(node oracle.Node) oracle.Type {
	if node == nil {
		return nil
	}
	return o.typeAt[node]
}

func (o *FakeOracle) TypeAtLocation(node oracle.Node) oracle.Type {
	return o.TypeFromTypeNode(node)
}

func (o *FakeOracle) TypeOfSymbol(sym oracle.Symbol) oracle.Type {
	return o.symbolTypes[sym]
}

func (o *FakeOracle) TypeOfSymbolAtLocation(sym oracle.Symbol, _ oracle.Node) oracle.Type {
	return o.symbolTypes[sym]
}

func (o *FakeOracle) DeclaredTypeOfSymbol(sym oracle.Symbol) oracle.Type {
	if t, ok := o.declared[sym]; ok {
		return t
	}
	return o.symbolTypes[sym]
}

func (o *FakeOracle) TypeToTypeNode(t oracle.Type, _ bool) oracle.Node {
	o.Projections++
	return fake(t).Projection
}

func (o *FakeOracle) TypeToString(t oracle.Type) string {
	return fake(t).Display
}

func (o *FakeOracle) TypeArguments(t oracle.Type) []oracle.Type { return fake(t).Args }
func (o *FakeOracle) IsArrayType(t oracle.Type) bool            { return fake(t).Array }
func (o *FakeOracle) IsTupleType(t oracle.Type) bool            { return fake(t).Tuple }

func (o *FakeOracle) TupleElements(t oracle.Type) []oracle.TupleElement {
	return fake(t).Elements
}

func (o *FakeOracle) Conditional(t oracle.Type) oracle.ConditionalParts { return fake(t).Cond }

func (o *FakeOracle) IndexedAccess(t oracle.Type) (object, index oracle.Type) {
	ft := fake(t)
	return ft.Object, ft.Index
}

func (o *FakeOracle) Mapped(t oracle.Type) oracle.MappedParts { return fake(t).MappedInfo }

func (o *FakeOracle) TemplateLiteral(t oracle.Type) (texts []string, types []oracle.Type) {
	ft := fake(t)
	return ft.Texts, ft.Spans
}

func (o *FakeOracle) IndexTarget(t oracle.Type) oracle.Type { return fake(t).KeyOf }
func (o *FakeOracle) LiteralValue(t oracle.Type) any        { return fake(t).Value }

func (o *FakeOracle) TypeParameter(t oracle.Type) oracle.TypeParameterParts {
	return fake(t).Param
}

func (o *FakeOracle) Signatures(t oracle.Type, kind oracle.SignatureKind) []oracle.Signature {
	ft := fake(t)
	if kind == oracle.SignatureKindConstruct {
		return ft.Constructs
	}
	return ft.Calls
}

func (o *FakeOracle) Properties(t oracle.Type) []oracle.Symbol {
	return fake(t).Props
}

func (o *FakeOracle) IndexSignatures(t oracle.Type) []oracle.IndexInfo {
	return fake(t).IndexInfos
}

func (o *FakeOracle) SignatureFromDeclaration(node oracle.Node) oracle.Signature {
	return o.sigFromDecl[node]
}

func (o *FakeOracle) ReturnType(sig oracle.Signature) oracle.Type {
	return sig.(*FakeSignature).Return
}

func (o *FakeOracle) HasTypePredicate(sig oracle.Signature) bool {
	return sig.(*FakeSignature).Predicate
}

func fake(t oracle.Type) *FakeType {
	if t == nil {
		return &FakeType{}
	}
	return t.(*FakeType)
}
