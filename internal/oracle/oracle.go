// Package oracle defines the boundary between the converter and the semantic
// analyzer that backs it. The analyzer validates the program, resolves symbols
// and types, and can project a resolved type back onto a representative syntax
// node. Nothing in this package performs analysis itself.
package oracle

// TypeFlags classifies a resolved type.
type TypeFlags uint64

const (
	TypeFlagsAny TypeFlags = 1 << iota
	TypeFlagsUnknown
	TypeFlagsString
	TypeFlagsNumber
	TypeFlagsBoolean
	TypeFlagsEnum
	TypeFlagsBigInt
	TypeFlagsStringLiteral
	TypeFlagsNumberLiteral
	TypeFlagsBooleanLiteral
	TypeFlagsEnumLiteral
	TypeFlagsBigIntLiteral
	TypeFlagsESSymbol
	TypeFlagsUniqueESSymbol
	TypeFlagsVoid
	TypeFlagsUndefined
	TypeFlagsNull
	TypeFlagsNever
	TypeFlagsTypeParameter
	TypeFlagsObject
	TypeFlagsUnion
	TypeFlagsIntersection
	TypeFlagsIndex
	TypeFlagsIndexedAccess
	TypeFlagsConditional
	TypeFlagsSubstitution
	TypeFlagsNonPrimitive
	TypeFlagsTemplateLiteral
	TypeFlagsStringMapping

	TypeFlagsLiteral = TypeFlagsStringLiteral | TypeFlagsNumberLiteral | TypeFlagsBigIntLiteral | TypeFlagsBooleanLiteral
)

// ObjectFlags refines TypeFlagsObject.
type ObjectFlags uint32

const (
	ObjectFlagsClass ObjectFlags = 1 << iota
	ObjectFlagsInterface
	ObjectFlagsReference
	ObjectFlagsTuple
	ObjectFlagsAnonymous
	ObjectFlagsMapped
)

// SymbolFlags classifies a symbol.
type SymbolFlags uint32

const (
	SymbolFlagsVariable SymbolFlags = 1 << iota
	SymbolFlagsProperty
	SymbolFlagsEnumMember
	SymbolFlagsFunction
	SymbolFlagsClass
	SymbolFlagsInterface
	SymbolFlagsEnum
	SymbolFlagsTypeLiteral
	SymbolFlagsMethod
	SymbolFlagsConstructor
	SymbolFlagsGetAccessor
	SymbolFlagsSetAccessor
	SymbolFlagsSignature
	SymbolFlagsTypeParameter
	SymbolFlagsTypeAlias
	SymbolFlagsAlias
	SymbolFlagsOptional

	SymbolFlagsAccessor = SymbolFlagsGetAccessor | SymbolFlagsSetAccessor
)

// SignatureKind selects call or construct signatures of a type.
type SignatureKind int

const (
	SignatureKindCall SignatureKind = iota
	SignatureKindConstruct
)

// Position locates a node in its source file. Line and Character are 0-based.
type Position struct {
	File      string
	Line      int
	Character int
}

// Node is a syntax node reported by the analyzer.
type Node interface {
	Kind() SyntaxKind
	// Text returns the node's source text. Identifiers and literals return
	// their value text (string literals without quotes).
	Text() string
	// SourceText returns the node exactly as written, quotes and escapes
	// included.
	SourceText() string
	Parent() Node
	// Child returns the node in a single-valued slot, or nil.
	Child(role Role) Node
	// Children returns the nodes in a list-valued slot, in source order.
	Children(role Role) []Node
	// Operator returns the operator token of a type operator or prefix-unary
	// expression, KindUnknown otherwise.
	Operator() SyntaxKind
	Pos() Position
}

// Symbol is a named program entity.
type Symbol interface {
	// ID is unique per symbol for the lifetime of the oracle.
	ID() uint64
	Name() string
	Flags() SymbolFlags
	Declarations() []Node
	ValueDeclaration() Node
}

// Type is a resolved type.
type Type interface {
	Flags() TypeFlags
	ObjectFlags() ObjectFlags
	Symbol() Symbol
	AliasSymbol() Symbol
	AliasTypeArguments() []Type
	// Types returns union or intersection constituents in analyzer order.
	Types() []Type
}

// Signature is a resolved call signature.
type Signature interface {
	// Declaration returns the signature's syntactic declaration, or nil.
	Declaration() Node
	// TypeParameters returns the signature's type parameter types.
	TypeParameters() []Type
	Parameters() []Symbol
	// ThisParameter returns the explicit this parameter, or nil.
	ThisParameter() Symbol
}

// PseudoBigInt is the analyzer's representation of a bigint literal value.
type PseudoBigInt struct {
	Negative    bool
	Base10Value string
}

// TupleElement describes one element of a resolved tuple type.
type TupleElement struct {
	// Name is the element label, empty for unlabeled elements.
	Name     string
	Optional bool
	Rest     bool
	// Variadic marks a spread of a generic tuple (`...T`). Variadic elements
	// are also Rest, and their type is the spread tuple, not its element.
	Variadic bool
}

// ConditionalParts are the branches of a resolved conditional type. True and
// False are the analyzer's already-resolved branch types.
type ConditionalParts struct {
	Check   Type
	Extends Type
	True    Type
	False   Type
}

// MappedParts are the components of a resolved mapped type.
type MappedParts struct {
	TypeParameter Type
	Constraint    Type
	Template      Type
	// NameType is the key remapping (`as` clause), or nil.
	NameType Type
}

// TypeParameterParts are the constraint and default of a type parameter. Either
// may be nil.
type TypeParameterParts struct {
	Constraint Type
	Default    Type
}

// IndexInfo describes an index signature of a resolved type.
type IndexInfo struct {
	KeyType     Type
	ValueType   Type
	Readonly    bool
	Declaration Node
}

// Oracle answers semantic queries about an analyzed program. Implementations
// must not be mutated by the converter.
type Oracle interface {
	SourceFiles() []Node

	SymbolAtLocation(node Node) Symbol
	// ResolveAlias follows alias symbols to the canonical symbol. Non-alias
	// symbols are returned unchanged.
	ResolveAlias(sym Symbol) Symbol

	TypeFromTypeNode(node Node) Type
	TypeAtLocation(node Node) Type
	TypeOfSymbol(sym Symbol) Type
	TypeOfSymbolAtLocation(sym Symbol, node Node) Type
	DeclaredTypeOfSymbol(sym Symbol) Type

	// TypeToTypeNode projects a resolved type onto a representative syntax
	// node. With ignoreErrors set, inaccessible names do not fail the
	// projection. Returns nil when no node can be produced.
	TypeToTypeNode(t Type, ignoreErrors bool) Node
	TypeToString(t Type) string

	TypeArguments(t Type) []Type
	IsArrayType(t Type) bool
	IsTupleType(t Type) bool
	TupleElements(t Type) []TupleElement
	Conditional(t Type) ConditionalParts
	IndexedAccess(t Type) (object, index Type)
	Mapped(t Type) MappedParts
	TemplateLiteral(t Type) (texts []string, types []Type)
	// IndexTarget returns the operand of a keyof type.
	IndexTarget(t Type) Type
	// LiteralValue returns a string, float64, bool or PseudoBigInt.
	LiteralValue(t Type) any
	TypeParameter(t Type) TypeParameterParts

	Signatures(t Type, kind SignatureKind) []Signature
	Properties(t Type) []Symbol
	IndexSignatures(t Type) []IndexInfo
	SignatureFromDeclaration(node Node) Signature
	ReturnType(sig Signature) Type
	HasTypePredicate(sig Signature) bool
}
