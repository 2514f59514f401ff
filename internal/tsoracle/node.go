package tsoracle

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"

	"github.com/tsreflect/tsreflect/internal/oracle"
)

var syntaxKinds = map[ast.Kind]oracle.SyntaxKind{
	ast.KindAnyKeyword:                    oracle.KindAnyKeyword,
	ast.KindUnknownKeyword:                oracle.KindUnknownKeyword,
	ast.KindNumberKeyword:                 oracle.KindNumberKeyword,
	ast.KindBigIntKeyword:                 oracle.KindBigIntKeyword,
	ast.KindBooleanKeyword:                oracle.KindBooleanKeyword,
	ast.KindStringKeyword:                 oracle.KindStringKeyword,
	ast.KindSymbolKeyword:                 oracle.KindSymbolKeyword,
	ast.KindVoidKeyword:                   oracle.KindVoidKeyword,
	ast.KindUndefinedKeyword:              oracle.KindUndefinedKeyword,
	ast.KindNeverKeyword:                  oracle.KindNeverKeyword,
	ast.KindObjectKeyword:                 oracle.KindObjectKeyword,
	ast.KindIntrinsicKeyword:              oracle.KindIntrinsicKeyword,
	ast.KindThisType:                      oracle.KindThisType,
	ast.KindArrayType:                     oracle.KindArrayType,
	ast.KindTupleType:                     oracle.KindTupleType,
	ast.KindNamedTupleMember:              oracle.KindNamedTupleMember,
	ast.KindOptionalType:                  oracle.KindOptionalType,
	ast.KindRestType:                      oracle.KindRestType,
	ast.KindUnionType:                     oracle.KindUnionType,
	ast.KindIntersectionType:              oracle.KindIntersectionType,
	ast.KindConditionalType:               oracle.KindConditionalType,
	ast.KindIndexedAccessType:             oracle.KindIndexedAccessType,
	ast.KindInferType:                     oracle.KindInferType,
	ast.KindParenthesizedType:             oracle.KindParenthesizedType,
	ast.KindTypePredicate:                 oracle.KindTypePredicate,
	ast.KindTypeLiteral:                   oracle.KindTypeLiteral,
	ast.KindFunctionType:                  oracle.KindFunctionType,
	ast.KindConstructorType:               oracle.KindConstructorType,
	ast.KindTypeQuery:                     oracle.KindTypeQuery,
	ast.KindTypeReference:                 oracle.KindTypeReference,
	ast.KindExpressionWithTypeArguments:   oracle.KindExpressionWithTypeArguments,
	ast.KindMappedType:                    oracle.KindMappedType,
	ast.KindLiteralType:                   oracle.KindLiteralType,
	ast.KindTemplateLiteralType:           oracle.KindTemplateLiteralType,
	ast.KindTemplateLiteralTypeSpan:       oracle.KindTemplateLiteralTypeSpan,
	ast.KindTypeOperator:                  oracle.KindTypeOperator,
	ast.KindTrueKeyword:                   oracle.KindTrueKeyword,
	ast.KindFalseKeyword:                  oracle.KindFalseKeyword,
	ast.KindNullKeyword:                   oracle.KindNullKeyword,
	ast.KindStringLiteral:                 oracle.KindStringLiteral,
	ast.KindNumericLiteral:                oracle.KindNumericLiteral,
	ast.KindBigIntLiteral:                 oracle.KindBigIntLiteral,
	ast.KindPrefixUnaryExpression:         oracle.KindPrefixUnaryExpression,
	ast.KindNoSubstitutionTemplateLiteral: oracle.KindNoSubstitutionTemplateLiteral,
	ast.KindTemplateHead:                  oracle.KindTemplateHead,
	ast.KindTemplateMiddle:                oracle.KindTemplateMiddle,
	ast.KindTemplateTail:                  oracle.KindTemplateTail,
	ast.KindPlusToken:                     oracle.KindPlusToken,
	ast.KindMinusToken:                    oracle.KindMinusToken,
	ast.KindQuestionToken:                 oracle.KindQuestionToken,
	ast.KindDotDotDotToken:                oracle.KindDotDotDotToken,
	ast.KindReadonlyKeyword:               oracle.KindReadonlyKeyword,
	ast.KindKeyOfKeyword:                  oracle.KindKeyOfKeyword,
	ast.KindUniqueKeyword:                 oracle.KindUniqueKeyword,
	ast.KindAssertsKeyword:                oracle.KindAssertsKeyword,
	ast.KindStaticKeyword:                 oracle.KindStaticKeyword,
	ast.KindPrivateKeyword:                oracle.KindPrivateKeyword,
	ast.KindProtectedKeyword:              oracle.KindProtectedKeyword,
	ast.KindPublicKeyword:                 oracle.KindPublicKeyword,
	ast.KindAbstractKeyword:               oracle.KindAbstractKeyword,
	ast.KindConstKeyword:                  oracle.KindConstKeyword,
	ast.KindParameter:                     oracle.KindParameter,
	ast.KindTypeParameter:                 oracle.KindTypeParameter,
	ast.KindPropertySignature:             oracle.KindPropertySignature,
	ast.KindPropertyDeclaration:           oracle.KindPropertyDeclaration,
	ast.KindMethodSignature:               oracle.KindMethodSignature,
	ast.KindMethodDeclaration:             oracle.KindMethodDeclaration,
	ast.KindCallSignature:                 oracle.KindCallSignature,
	ast.KindConstructSignature:            oracle.KindConstructSignature,
	ast.KindIndexSignature:                oracle.KindIndexSignature,
	ast.KindConstructor:                   oracle.KindConstructor,
	ast.KindGetAccessor:                   oracle.KindGetAccessor,
	ast.KindSetAccessor:                   oracle.KindSetAccessor,
	ast.KindFunctionDeclaration:           oracle.KindFunctionDeclaration,
	ast.KindFunctionExpression:            oracle.KindFunctionExpression,
	ast.KindArrowFunction:                 oracle.KindArrowFunction,
	ast.KindVariableStatement:             oracle.KindVariableStatement,
	ast.KindVariableDeclaration:           oracle.KindVariableDeclaration,
	ast.KindInterfaceDeclaration:          oracle.KindInterfaceDeclaration,
	ast.KindClassDeclaration:              oracle.KindClassDeclaration,
	ast.KindTypeAliasDeclaration:          oracle.KindTypeAliasDeclaration,
	ast.KindEnumDeclaration:               oracle.KindEnumDeclaration,
	ast.KindEnumMember:                    oracle.KindEnumMember,
	ast.KindPropertyAssignment:            oracle.KindPropertyAssignment,
	ast.KindBinaryExpression:              oracle.KindBinaryExpression,
	ast.KindIdentifier:                    oracle.KindIdentifier,
	ast.KindQualifiedName:                 oracle.KindQualifiedName,
	ast.KindPropertyAccessExpression:      oracle.KindPropertyAccessExpression,
	ast.KindArrayLiteralExpression:        oracle.KindArrayLiteralExpression,
	ast.KindObjectLiteralExpression:       oracle.KindObjectLiteralExpression,
	ast.KindObjectBindingPattern:          oracle.KindObjectBindingPattern,
	ast.KindArrayBindingPattern:           oracle.KindArrayBindingPattern,
	ast.KindSourceFile:                    oracle.KindSourceFile,
}

// node adapts a tsgo AST node. Nodes synthesized by the checker's node
// builder have no source file and report a zero position.
type node struct {
	n *ast.Node
}

var _ oracle.Node = node{}

// wrapNode returns nil for a nil node so callers can compare against nil.
func wrapNode(n *ast.Node) oracle.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

func wrapNodes(nodes []*ast.Node) []oracle.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]oracle.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, node{n: n})
		}
	}
	return out
}

func nodeList(list *ast.NodeList) []oracle.Node {
	if list == nil {
		return nil
	}
	return wrapNodes(list.Nodes)
}

func unwrapNode(n oracle.Node) *ast.Node {
	if w, ok := n.(node); ok {
		return w.n
	}
	return nil
}

func (w node) Kind() oracle.SyntaxKind {
	return syntaxKinds[w.n.Kind]
}

func (w node) Text() string {
	switch w.n.Kind {
	case ast.KindIdentifier, ast.KindStringLiteral, ast.KindNumericLiteral,
		ast.KindBigIntLiteral, ast.KindNoSubstitutionTemplateLiteral,
		ast.KindTemplateHead, ast.KindTemplateMiddle, ast.KindTemplateTail,
		ast.KindPrivateIdentifier:
		return w.n.Text()
	}
	return w.SourceText()
}

func (w node) SourceText() string {
	file := ast.GetSourceFileOfNode(w.n)
	if file == nil || w.n.Pos() < 0 {
		return shimscanner.TokenToString(w.n.Kind)
	}
	start := shimscanner.GetTokenPosOfNode(w.n, file, false)
	return file.Text()[start:w.n.End()]
}

func (w node) Parent() oracle.Node {
	return wrapNode(w.n.Parent)
}

func (w node) Operator() oracle.SyntaxKind {
	switch w.n.Kind {
	case ast.KindTypeOperator:
		return syntaxKinds[w.n.AsTypeOperatorNode().Operator]
	case ast.KindPrefixUnaryExpression:
		return syntaxKinds[w.n.AsPrefixUnaryExpression().Operator]
	}
	return oracle.KindUnknown
}

func (w node) Pos() oracle.Position {
	file := ast.GetSourceFileOfNode(w.n)
	if file == nil || w.n.Pos() < 0 {
		return oracle.Position{}
	}
	start := shimscanner.GetTokenPosOfNode(w.n, file, false)
	line, char := shimscanner.GetECMALineAndCharacterOfPosition(file, start)
	return oracle.Position{File: file.FileName(), Line: line, Character: char}
}

func (w node) Child(role oracle.Role) oracle.Node {
	n := w.n
	switch role {
	case oracle.RoleType:
		switch n.Kind {
		case ast.KindTypeOperator:
			return wrapNode(n.AsTypeOperatorNode().Type)
		case ast.KindParenthesizedType:
			return wrapNode(n.AsParenthesizedTypeNode().Type)
		case ast.KindOptionalType:
			return wrapNode(n.AsOptionalTypeNode().Type)
		case ast.KindRestType:
			return wrapNode(n.AsRestTypeNode().Type)
		case ast.KindTemplateLiteralTypeSpan:
			return wrapNode(n.AsTemplateLiteralTypeSpan().Type)
		}
		return wrapNode(n.Type())
	case oracle.RoleElementType:
		return wrapNode(n.AsArrayTypeNode().ElementType)
	case oracle.RoleCheckType:
		return wrapNode(n.AsConditionalTypeNode().CheckType)
	case oracle.RoleExtendsType:
		return wrapNode(n.AsConditionalTypeNode().ExtendsType)
	case oracle.RoleTrueType:
		return wrapNode(n.AsConditionalTypeNode().TrueType)
	case oracle.RoleFalseType:
		return wrapNode(n.AsConditionalTypeNode().FalseType)
	case oracle.RoleObjectType:
		return wrapNode(n.AsIndexedAccessTypeNode().ObjectType)
	case oracle.RoleIndexType:
		return wrapNode(n.AsIndexedAccessTypeNode().IndexType)
	case oracle.RoleTypeParameter:
		switch n.Kind {
		case ast.KindInferType:
			return wrapNode(n.AsInferTypeNode().TypeParameter)
		case ast.KindMappedType:
			return wrapNode(n.AsMappedTypeNode().TypeParameter)
		}
	case oracle.RoleName:
		return wrapNode(n.Name())
	case oracle.RoleConstraint:
		return wrapNode(n.AsTypeParameter().Constraint)
	case oracle.RoleDefault:
		return wrapNode(n.AsTypeParameter().DefaultType)
	case oracle.RoleNameType:
		return wrapNode(n.AsMappedTypeNode().NameType)
	case oracle.RoleReadonlyToken:
		return wrapNode(n.AsMappedTypeNode().ReadonlyToken)
	case oracle.RoleQuestionToken:
		return wrapNode(questionToken(n))
	case oracle.RoleDotDotDotToken:
		switch n.Kind {
		case ast.KindParameter:
			return wrapNode(n.AsParameterDeclaration().DotDotDotToken)
		case ast.KindNamedTupleMember:
			return wrapNode(n.AsNamedTupleMember().DotDotDotToken)
		}
	case oracle.RoleAssertsModifier:
		return wrapNode(n.AsTypePredicateNode().AssertsModifier)
	case oracle.RoleParameterName:
		return wrapNode(n.AsTypePredicateNode().ParameterName)
	case oracle.RoleInitializer:
		return wrapNode(n.Initializer())
	case oracle.RoleTypeName:
		return wrapNode(n.AsTypeReferenceNode().TypeName)
	case oracle.RoleExprName:
		return wrapNode(n.AsTypeQueryNode().ExprName)
	case oracle.RoleHead:
		return wrapNode(n.AsTemplateLiteralTypeNode().Head)
	case oracle.RoleLiteral:
		switch n.Kind {
		case ast.KindLiteralType:
			return wrapNode(n.AsLiteralTypeNode().Literal)
		case ast.KindTemplateLiteralTypeSpan:
			return wrapNode(n.AsTemplateLiteralTypeSpan().Literal)
		}
	case oracle.RoleOperand:
		return wrapNode(n.AsPrefixUnaryExpression().Operand)
	case oracle.RoleExpression:
		return wrapNode(n.Expression())
	}
	return nil
}

func (w node) Children(role oracle.Role) []oracle.Node {
	n := w.n
	switch role {
	case oracle.RoleTypes:
		switch n.Kind {
		case ast.KindUnionType:
			return nodeList(n.AsUnionTypeNode().Types)
		case ast.KindIntersectionType:
			return nodeList(n.AsIntersectionTypeNode().Types)
		}
	case oracle.RoleElements:
		switch n.Kind {
		case ast.KindTupleType:
			return nodeList(n.AsTupleTypeNode().Elements)
		case ast.KindArrayLiteralExpression:
			return nodeList(n.AsArrayLiteralExpression().Elements)
		case ast.KindObjectBindingPattern, ast.KindArrayBindingPattern:
			return nodeList(n.AsBindingPattern().Elements)
		}
	case oracle.RoleTypeParameters:
		return wrapNodes(n.TypeParameters())
	case oracle.RoleParameters:
		return wrapNodes(n.Parameters())
	case oracle.RoleMembers:
		return wrapNodes(n.Members())
	case oracle.RoleTypeArguments:
		return wrapNodes(n.TypeArguments())
	case oracle.RoleTemplateSpans:
		return nodeList(n.AsTemplateLiteralTypeNode().TemplateSpans)
	case oracle.RoleProperties:
		return nodeList(n.AsObjectLiteralExpression().Properties)
	case oracle.RoleStatements:
		return wrapNodes(n.Statements())
	case oracle.RoleDeclarations:
		list := n.AsVariableStatement().DeclarationList
		if list == nil {
			return nil
		}
		return nodeList(list.AsVariableDeclarationList().Declarations)
	case oracle.RoleModifiers:
		mods := n.Modifiers()
		if mods == nil {
			return nil
		}
		return wrapNodes(mods.Nodes)
	}
	return nil
}

func questionToken(n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.KindParameter:
		return n.AsParameterDeclaration().QuestionToken
	case ast.KindNamedTupleMember:
		return n.AsNamedTupleMember().QuestionToken
	case ast.KindMappedType:
		return n.AsMappedTypeNode().QuestionToken
	case ast.KindPropertySignature, ast.KindPropertyDeclaration,
		ast.KindMethodSignature, ast.KindMethodDeclaration:
		return n.PostfixToken()
	}
	return nil
}
