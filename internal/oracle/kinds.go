package oracle

// SyntaxKind identifies the shape of a syntax node. The set is closed: analyzer
// kinds that the converter never inspects map to KindUnknown.
type SyntaxKind int

const (
	KindUnknown SyntaxKind = iota

	// Keyword types
	KindAnyKeyword
	KindUnknownKeyword
	KindNumberKeyword
	KindBigIntKeyword
	KindBooleanKeyword
	KindStringKeyword
	KindSymbolKeyword
	KindVoidKeyword
	KindUndefinedKeyword
	KindNeverKeyword
	KindObjectKeyword
	KindIntrinsicKeyword
	KindThisType

	// Type nodes
	KindArrayType
	KindTupleType
	KindNamedTupleMember
	KindOptionalType
	KindRestType
	KindUnionType
	KindIntersectionType
	KindConditionalType
	KindIndexedAccessType
	KindInferType
	KindParenthesizedType
	KindTypePredicate
	KindTypeLiteral
	KindFunctionType
	KindConstructorType
	KindTypeQuery
	KindTypeReference
	KindExpressionWithTypeArguments
	KindMappedType
	KindLiteralType
	KindTemplateLiteralType
	KindTemplateLiteralTypeSpan
	KindTypeOperator

	// Literal expressions
	KindTrueKeyword
	KindFalseKeyword
	KindNullKeyword
	KindStringLiteral
	KindNumericLiteral
	KindBigIntLiteral
	KindPrefixUnaryExpression
	KindNoSubstitutionTemplateLiteral
	KindTemplateHead
	KindTemplateMiddle
	KindTemplateTail

	// Tokens
	KindPlusToken
	KindMinusToken
	KindQuestionToken
	KindDotDotDotToken
	KindReadonlyKeyword
	KindKeyOfKeyword
	KindUniqueKeyword
	KindAssertsKeyword
	KindStaticKeyword
	KindPrivateKeyword
	KindProtectedKeyword
	KindPublicKeyword
	KindAbstractKeyword
	KindConstKeyword

	// Declarations and expressions
	KindParameter
	KindTypeParameter
	KindPropertySignature
	KindPropertyDeclaration
	KindMethodSignature
	KindMethodDeclaration
	KindCallSignature
	KindConstructSignature
	KindIndexSignature
	KindConstructor
	KindGetAccessor
	KindSetAccessor
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindVariableStatement
	KindVariableDeclaration
	KindInterfaceDeclaration
	KindClassDeclaration
	KindTypeAliasDeclaration
	KindEnumDeclaration
	KindEnumMember
	KindPropertyAssignment
	KindBinaryExpression
	KindIdentifier
	KindQualifiedName
	KindPropertyAccessExpression
	KindArrayLiteralExpression
	KindObjectLiteralExpression
	KindObjectBindingPattern
	KindArrayBindingPattern
	KindSourceFile

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:                       "Unknown",
	KindAnyKeyword:                    "AnyKeyword",
	KindUnknownKeyword:                "UnknownKeyword",
	KindNumberKeyword:                 "NumberKeyword",
	KindBigIntKeyword:                 "BigIntKeyword",
	KindBooleanKeyword:                "BooleanKeyword",
	KindStringKeyword:                 "StringKeyword",
	KindSymbolKeyword:                 "SymbolKeyword",
	KindVoidKeyword:                   "VoidKeyword",
	KindUndefinedKeyword:              "UndefinedKeyword",
	KindNeverKeyword:                  "NeverKeyword",
	KindObjectKeyword:                 "ObjectKeyword",
	KindIntrinsicKeyword:              "IntrinsicKeyword",
	KindThisType:                      "ThisType",
	KindArrayType:                     "ArrayType",
	KindTupleType:                     "TupleType",
	KindNamedTupleMember:              "NamedTupleMember",
	KindOptionalType:                  "OptionalType",
	KindRestType:                      "RestType",
	KindUnionType:                     "UnionType",
	KindIntersectionType:              "IntersectionType",
	KindConditionalType:               "ConditionalType",
	KindIndexedAccessType:             "IndexedAccessType",
	KindInferType:                     "InferType",
	KindParenthesizedType:             "ParenthesizedType",
	KindTypePredicate:                 "TypePredicate",
	KindTypeLiteral:                   "TypeLiteral",
	KindFunctionType:                  "FunctionType",
	KindConstructorType:               "ConstructorType",
	KindTypeQuery:                     "TypeQuery",
	KindTypeReference:                 "TypeReference",
	KindExpressionWithTypeArguments:   "ExpressionWithTypeArguments",
	KindMappedType:                    "MappedType",
	KindLiteralType:                   "LiteralType",
	KindTemplateLiteralType:           "TemplateLiteralType",
	KindTemplateLiteralTypeSpan:       "TemplateLiteralTypeSpan",
	KindTypeOperator:                  "TypeOperator",
	KindTrueKeyword:                   "TrueKeyword",
	KindFalseKeyword:                  "FalseKeyword",
	KindNullKeyword:                   "NullKeyword",
	KindStringLiteral:                 "StringLiteral",
	KindNumericLiteral:                "NumericLiteral",
	KindBigIntLiteral:                 "BigIntLiteral",
	KindPrefixUnaryExpression:         "PrefixUnaryExpression",
	KindNoSubstitutionTemplateLiteral: "NoSubstitutionTemplateLiteral",
	KindTemplateHead:                  "TemplateHead",
	KindTemplateMiddle:                "TemplateMiddle",
	KindTemplateTail:                  "TemplateTail",
	KindPlusToken:                     "PlusToken",
	KindMinusToken:                    "MinusToken",
	KindQuestionToken:                 "QuestionToken",
	KindDotDotDotToken:                "DotDotDotToken",
	KindReadonlyKeyword:               "ReadonlyKeyword",
	KindKeyOfKeyword:                  "KeyOfKeyword",
	KindUniqueKeyword:                 "UniqueKeyword",
	KindAssertsKeyword:                "AssertsKeyword",
	KindStaticKeyword:                 "StaticKeyword",
	KindPrivateKeyword:                "PrivateKeyword",
	KindProtectedKeyword:              "ProtectedKeyword",
	KindPublicKeyword:                 "PublicKeyword",
	KindAbstractKeyword:               "AbstractKeyword",
	KindConstKeyword:                  "ConstKeyword",
	KindParameter:                     "Parameter",
	KindTypeParameter:                 "TypeParameter",
	KindPropertySignature:             "PropertySignature",
	KindPropertyDeclaration:           "PropertyDeclaration",
	KindMethodSignature:               "MethodSignature",
	KindMethodDeclaration:             "MethodDeclaration",
	KindCallSignature:                 "CallSignature",
	KindConstructSignature:            "ConstructSignature",
	KindIndexSignature:                "IndexSignature",
	KindConstructor:                   "Constructor",
	KindGetAccessor:                   "GetAccessor",
	KindSetAccessor:                   "SetAccessor",
	KindFunctionDeclaration:           "FunctionDeclaration",
	KindFunctionExpression:            "FunctionExpression",
	KindArrowFunction:                 "ArrowFunction",
	KindVariableStatement:             "VariableStatement",
	KindVariableDeclaration:           "VariableDeclaration",
	KindInterfaceDeclaration:          "InterfaceDeclaration",
	KindClassDeclaration:              "ClassDeclaration",
	KindTypeAliasDeclaration:          "TypeAliasDeclaration",
	KindEnumDeclaration:               "EnumDeclaration",
	KindEnumMember:                    "EnumMember",
	KindPropertyAssignment:            "PropertyAssignment",
	KindBinaryExpression:              "BinaryExpression",
	KindIdentifier:                    "Identifier",
	KindQualifiedName:                 "QualifiedName",
	KindPropertyAccessExpression:      "PropertyAccessExpression",
	KindArrayLiteralExpression:        "ArrayLiteralExpression",
	KindObjectLiteralExpression:       "ObjectLiteralExpression",
	KindObjectBindingPattern:          "ObjectBindingPattern",
	KindArrayBindingPattern:           "ArrayBindingPattern",
	KindSourceFile:                    "SourceFile",
}

func (k SyntaxKind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// IsFunctionLike reports whether nodes of this kind declare a call signature.
func (k SyntaxKind) IsFunctionLike() bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction,
		KindMethodDeclaration, KindMethodSignature, KindConstructor,
		KindGetAccessor, KindSetAccessor, KindCallSignature,
		KindConstructSignature, KindIndexSignature, KindFunctionType,
		KindConstructorType:
		return true
	}
	return false
}

// Role names a child slot of a syntax node.
type Role int

const (
	RoleType Role = iota
	RoleElementType
	RoleTypes
	RoleCheckType
	RoleExtendsType
	RoleTrueType
	RoleFalseType
	RoleObjectType
	RoleIndexType
	RoleTypeParameter
	RoleTypeParameters
	RoleName
	RoleConstraint
	RoleDefault
	RoleNameType
	RoleReadonlyToken
	RoleQuestionToken
	RoleDotDotDotToken
	RoleAssertsModifier
	RoleParameterName
	RoleInitializer
	RoleParameters
	RoleMembers
	RoleTypeArguments
	RoleTypeName
	RoleExprName
	RoleHead
	RoleTemplateSpans
	RoleLiteral
	RoleOperand
	RoleExpression
	RoleElements
	RoleProperties
	RoleStatements
	RoleDeclarations
	RoleModifiers
)
