package converter

import (
	"github.com/cockroachdb/errors"

	"github.com/tsreflect/tsreflect/internal/diagnostic"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// Category is the closed set of type shapes the engine converts.
type Category int

const (
	CategoryArray Category = iota
	CategoryConditional
	CategoryConstructorType
	CategoryFunctionType
	CategoryIndexedAccess
	CategoryInferred
	CategoryIntersection
	CategoryIntrinsic
	CategoryLiteral
	CategoryMapped
	CategoryParenthesized
	CategoryPredicate
	CategoryQuery
	CategoryReference
	CategoryTemplateLiteral
	CategoryThis
	CategoryTuple
	CategoryTypeLiteral
	CategoryTypeOperator
	CategoryUnion

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryArray:           "array",
	CategoryConditional:     "conditional",
	CategoryConstructorType: "constructorType",
	CategoryFunctionType:    "functionType",
	CategoryIndexedAccess:   "indexedAccess",
	CategoryInferred:        "inferred",
	CategoryIntersection:    "intersection",
	CategoryIntrinsic:       "intrinsic",
	CategoryLiteral:         "literal",
	CategoryMapped:          "mapped",
	CategoryParenthesized:   "parenthesized",
	CategoryPredicate:       "predicate",
	CategoryQuery:           "query",
	CategoryReference:       "reference",
	CategoryTemplateLiteral: "templateLiteral",
	CategoryThis:            "this",
	CategoryTuple:           "tuple",
	CategoryTypeLiteral:     "typeLiteral",
	CategoryTypeOperator:    "typeOperator",
	CategoryUnion:           "union",
}

// expands reports whether converting the category materializes the body of
// the type's symbol. Only expanding conversions enter the recursion guard.
func (c Category) expands() bool {
	switch c {
	case CategoryTypeLiteral, CategoryFunctionType, CategoryConstructorType:
		return true
	}
	return false
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// categoryOf maps the syntax kinds the engine accepts to their category.
var categoryOf = map[oracle.SyntaxKind]Category{
	oracle.KindArrayType:                   CategoryArray,
	oracle.KindConditionalType:             CategoryConditional,
	oracle.KindConstructorType:             CategoryConstructorType,
	oracle.KindFunctionType:                CategoryFunctionType,
	oracle.KindIndexedAccessType:           CategoryIndexedAccess,
	oracle.KindInferType:                   CategoryInferred,
	oracle.KindIntersectionType:            CategoryIntersection,
	oracle.KindAnyKeyword:                  CategoryIntrinsic,
	oracle.KindUnknownKeyword:              CategoryIntrinsic,
	oracle.KindNumberKeyword:               CategoryIntrinsic,
	oracle.KindBigIntKeyword:               CategoryIntrinsic,
	oracle.KindBooleanKeyword:              CategoryIntrinsic,
	oracle.KindStringKeyword:               CategoryIntrinsic,
	oracle.KindSymbolKeyword:               CategoryIntrinsic,
	oracle.KindVoidKeyword:                 CategoryIntrinsic,
	oracle.KindUndefinedKeyword:            CategoryIntrinsic,
	oracle.KindNeverKeyword:                CategoryIntrinsic,
	oracle.KindObjectKeyword:               CategoryIntrinsic,
	oracle.KindIntrinsicKeyword:            CategoryIntrinsic,
	oracle.KindLiteralType:                 CategoryLiteral,
	oracle.KindMappedType:                  CategoryMapped,
	oracle.KindParenthesizedType:           CategoryParenthesized,
	oracle.KindTypePredicate:               CategoryPredicate,
	oracle.KindTypeQuery:                   CategoryQuery,
	oracle.KindTypeReference:               CategoryReference,
	oracle.KindExpressionWithTypeArguments: CategoryReference,
	oracle.KindTemplateLiteralType:         CategoryTemplateLiteral,
	oracle.KindThisType:                    CategoryThis,
	oracle.KindTupleType:                   CategoryTuple,
	oracle.KindTypeLiteral:                 CategoryTypeLiteral,
	oracle.KindTypeOperator:                CategoryTypeOperator,
	oracle.KindUnionType:                   CategoryUnion,
}

// typeConverter converts one category from either entry point. Both methods
// must produce equal types for equivalent inputs.
type typeConverter interface {
	fromSyntax(ctx *Context, node oracle.Node) result
	// fromType receives the resolved type and the node it projects onto.
	fromType(ctx *Context, t oracle.Type, node oracle.Node) result
}

var converters = [categoryCount]typeConverter{
	CategoryArray:           arrayConverter{},
	CategoryConditional:     conditionalConverter{},
	CategoryConstructorType: constructorTypeConverter{},
	CategoryFunctionType:    functionTypeConverter{},
	CategoryIndexedAccess:   indexedAccessConverter{},
	CategoryInferred:        inferredConverter{},
	CategoryIntersection:    intersectionConverter{},
	CategoryIntrinsic:       intrinsicConverter{},
	CategoryLiteral:         literalConverter{},
	CategoryMapped:          mappedConverter{},
	CategoryParenthesized:   parenthesizedConverter{},
	CategoryPredicate:       predicateConverter{},
	CategoryQuery:           queryConverter{},
	CategoryReference:       referenceConverter{},
	CategoryTemplateLiteral: templateLiteralConverter{},
	CategoryThis:            thisConverter{},
	CategoryTuple:           tupleConverter{},
	CategoryTypeLiteral:     typeLiteralConverter{},
	CategoryTypeOperator:    typeOperatorConverter{},
	CategoryUnion:           unionConverter{},
}

// result is the outcome of one category conversion: a converted type, or a
// path the category can never take.
type result struct {
	typ         model.Type
	unreachable string
}

func converted(t model.Type) result { return result{typ: t} }

func unreachable(reason string) result { return result{unreachable: reason} }

// CategoryOf returns the category handling nodes of kind k.
func CategoryOf(k oracle.SyntaxKind) (Category, bool) {
	c, ok := categoryOf[k]
	return c, ok
}

// ConvertNode converts a syntactic type expression. A nil node is `any`.
func ConvertNode(ctx *Context, node oracle.Node) model.Type {
	if node == nil {
		return model.Intrinsic("any")
	}
	category, ok := categoryOf[node.Kind()]
	if !ok {
		return ctx.degrade(diagnostic.CategoryTypeUnsupported, node, node.Text(),
			"unsupported type node %s: %s", node.Kind(), node.Text())
	}
	return settle(category, converters[category].fromSyntax(ctx, node), node)
}

// ConvertType converts a resolved type. The type is projected onto a
// representative node to pick its category. While a symbol's body is being
// expanded, a nested conversion of a type with the same symbol yields Unknown.
func ConvertType(ctx *Context, t oracle.Type) model.Type {
	if t == nil {
		return model.Intrinsic("any")
	}
	o := ctx.oracle
	sym := t.Symbol()
	if sym != nil && ctx.guarded(sym) {
		return &model.UnknownType{Text: o.TypeToString(t)}
	}

	node := o.TypeToTypeNode(t, true)
	if node == nil {
		return ctx.degrade(diagnostic.CategoryProjectionFailed, nil, o.TypeToString(t),
			"no type node for %s", o.TypeToString(t))
	}
	category, ok := categoryOf[node.Kind()]
	if !ok {
		return ctx.degrade(diagnostic.CategoryTypeUnsupported, node, o.TypeToString(t),
			"unsupported type %s projected as %s", o.TypeToString(t), node.Kind())
	}

	if sym != nil && category.expands() {
		ctx.push(sym)
		defer ctx.pop(sym)
	}
	return settle(category, converters[category].fromType(ctx, t, node), node)
}

// Convert prefers the syntactic form when a node is available.
func Convert(ctx *Context, t oracle.Type, node oracle.Node) model.Type {
	if node != nil {
		return ConvertNode(ctx, node)
	}
	return ConvertType(ctx, t)
}

func settle(category Category, r result, node oracle.Node) model.Type {
	if r.unreachable != "" {
		violation(node, "%s converter: %s", category, r.unreachable)
	}
	return r.typ
}

func convertNodes(ctx *Context, nodes []oracle.Node) []model.Type {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]model.Type, len(nodes))
	for i, n := range nodes {
		out[i] = ConvertNode(ctx, n)
	}
	return out
}

func convertTypes(ctx *Context, types []oracle.Type) []model.Type {
	if len(types) == 0 {
		return nil
	}
	out := make([]model.Type, len(types))
	for i, t := range types {
		out[i] = ConvertType(ctx, t)
	}
	return out
}

// violation aborts the pass. It signals that the oracle behaved in a way the
// engine's grammar does not allow.
func violation(node oracle.Node, format string, args ...any) {
	err := errors.AssertionFailedf(format, args...)
	if node != nil {
		pos := node.Pos()
		err = errors.Wrapf(err, "%s at %s:%d:%d (%s)", node.Kind(), pos.File, pos.Line+1, pos.Character+1, node.Text())
	}
	panic(err)
}

// IsContractViolation reports whether err aborted a pass because the oracle
// broke the engine's assumptions.
func IsContractViolation(err error) bool {
	return errors.HasAssertionFailure(err)
}
