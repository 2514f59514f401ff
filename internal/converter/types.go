package converter

import (
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

type arrayConverter struct{}

func (arrayConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(&model.ArrayType{ElementType: ConvertNode(ctx, node.Child(oracle.RoleElementType))})
}

func (arrayConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	args := ctx.oracle.TypeArguments(t)
	if len(args) != 1 {
		violation(node, "array type with %d type arguments", len(args))
	}
	return converted(&model.ArrayType{ElementType: ConvertType(ctx, args[0])})
}

type conditionalConverter struct{}

func (conditionalConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(&model.ConditionalType{
		CheckType:   ConvertNode(ctx, node.Child(oracle.RoleCheckType)),
		ExtendsType: ConvertNode(ctx, node.Child(oracle.RoleExtendsType)),
		TrueType:    ConvertNode(ctx, node.Child(oracle.RoleTrueType)),
		FalseType:   ConvertNode(ctx, node.Child(oracle.RoleFalseType)),
	})
}

func (conditionalConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	parts := ctx.oracle.Conditional(t)
	return converted(&model.ConditionalType{
		CheckType:   ConvertType(ctx, parts.Check),
		ExtendsType: ConvertType(ctx, parts.Extends),
		TrueType:    ConvertType(ctx, parts.True),
		FalseType:   ConvertType(ctx, parts.False),
	})
}

type indexedAccessConverter struct{}

func (indexedAccessConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(&model.IndexedAccessType{
		ObjectType: ConvertNode(ctx, node.Child(oracle.RoleObjectType)),
		IndexType:  ConvertNode(ctx, node.Child(oracle.RoleIndexType)),
	})
}

func (indexedAccessConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	object, index := ctx.oracle.IndexedAccess(t)
	return converted(&model.IndexedAccessType{
		ObjectType: ConvertType(ctx, object),
		IndexType:  ConvertType(ctx, index),
	})
}

type inferredConverter struct{}

func (inferredConverter) fromSyntax(_ *Context, node oracle.Node) result {
	param := node.Child(oracle.RoleTypeParameter)
	if param == nil {
		violation(node, "infer type without a type parameter")
	}
	return converted(&model.InferredType{Name: nodeName(param)})
}

func (inferredConverter) fromType(_ *Context, t oracle.Type, node oracle.Node) result {
	sym := t.Symbol()
	if sym == nil {
		violation(node, "inferred type without a symbol")
	}
	return converted(&model.InferredType{Name: sym.Name()})
}

type intersectionConverter struct{}

func (intersectionConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(&model.IntersectionType{Types: convertNodes(ctx, node.Children(oracle.RoleTypes))})
}

func (intersectionConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	return converted(&model.IntersectionType{Types: convertTypes(ctx, t.Types())})
}

type unionConverter struct{}

func (unionConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(&model.UnionType{Types: convertNodes(ctx, node.Children(oracle.RoleTypes))})
}

func (unionConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	types := mergeBoolean(convertTypes(ctx, t.Types()))
	if len(types) == 1 {
		return converted(types[0])
	}
	return converted(&model.UnionType{Types: types})
}

// mergeBoolean folds the checker's `false | true` members back into the
// boolean intrinsic, at the position of the first of the pair.
func mergeBoolean(types []model.Type) []model.Type {
	at := map[bool]int{}
	for i, typ := range types {
		lit, ok := typ.(*model.LiteralType)
		if !ok {
			continue
		}
		if b, ok := lit.Value.(bool); ok {
			if _, dup := at[b]; !dup {
				at[b] = i
			}
		}
	}
	if len(at) < 2 {
		return types
	}
	first, second := min(at[false], at[true]), max(at[false], at[true])
	out := make([]model.Type, 0, len(types)-1)
	for i, typ := range types {
		switch i {
		case first:
			out = append(out, model.Intrinsic("boolean"))
		case second:
		default:
			out = append(out, typ)
		}
	}
	return out
}

var intrinsicNames = map[oracle.SyntaxKind]string{
	oracle.KindAnyKeyword:       "any",
	oracle.KindUnknownKeyword:   "unknown",
	oracle.KindNumberKeyword:    "number",
	oracle.KindBigIntKeyword:    "bigint",
	oracle.KindBooleanKeyword:   "boolean",
	oracle.KindStringKeyword:    "string",
	oracle.KindSymbolKeyword:    "symbol",
	oracle.KindVoidKeyword:      "void",
	oracle.KindUndefinedKeyword: "undefined",
	oracle.KindNeverKeyword:     "never",
	oracle.KindObjectKeyword:    "object",
	oracle.KindIntrinsicKeyword: "intrinsic",
}

type intrinsicConverter struct{}

func (intrinsicConverter) fromSyntax(_ *Context, node oracle.Node) result {
	return converted(intrinsicFor(node))
}

func (intrinsicConverter) fromType(_ *Context, _ oracle.Type, node oracle.Node) result {
	return converted(intrinsicFor(node))
}

func intrinsicFor(node oracle.Node) model.Type {
	name, ok := intrinsicNames[node.Kind()]
	if !ok {
		violation(node, "no intrinsic name for %s", node.Kind())
	}
	return model.Intrinsic(name)
}

type parenthesizedConverter struct{}

func (parenthesizedConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(ConvertNode(ctx, node.Child(oracle.RoleType)))
}

func (parenthesizedConverter) fromType(*Context, oracle.Type, oracle.Node) result {
	return unreachable("resolved types never project onto parentheses")
}

type thisConverter struct{}

func (thisConverter) fromSyntax(*Context, oracle.Node) result {
	return converted(model.Intrinsic("this"))
}

func (thisConverter) fromType(*Context, oracle.Type, oracle.Node) result {
	return converted(model.Intrinsic("this"))
}

type predicateConverter struct{}

func (predicateConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	name := "this"
	if param := node.Child(oracle.RoleParameterName); param != nil && param.Kind() != oracle.KindThisType {
		name = param.Text()
	}
	var target model.Type
	if typeNode := node.Child(oracle.RoleType); typeNode != nil {
		target = ConvertNode(ctx, typeNode)
	}
	return converted(&model.PredicateType{
		Name:       name,
		Asserts:    node.Child(oracle.RoleAssertsModifier) != nil,
		TargetType: target,
	})
}

func (predicateConverter) fromType(*Context, oracle.Type, oracle.Node) result {
	return unreachable("type predicates are only available from syntax")
}

type templateLiteralConverter struct{}

func (templateLiteralConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	head := node.Child(oracle.RoleHead)
	spans := node.Children(oracle.RoleTemplateSpans)
	out := &model.TemplateLiteralType{}
	if head != nil {
		out.Head = head.Text()
	}
	for _, span := range spans {
		var text string
		if lit := span.Child(oracle.RoleLiteral); lit != nil {
			text = lit.Text()
		}
		out.Spans = append(out.Spans, model.TemplateSpan{
			Type: ConvertNode(ctx, span.Child(oracle.RoleType)),
			Text: text,
		})
	}
	return converted(out)
}

func (templateLiteralConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	texts, types := ctx.oracle.TemplateLiteral(t)
	if len(texts) != len(types)+1 {
		violation(node, "template literal with %d texts and %d types", len(texts), len(types))
	}
	out := &model.TemplateLiteralType{Head: texts[0]}
	for i, sub := range types {
		out.Spans = append(out.Spans, model.TemplateSpan{Type: ConvertType(ctx, sub), Text: texts[i+1]})
	}
	return converted(out)
}

type typeOperatorConverter struct{}

func (typeOperatorConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(&model.TypeOperatorType{
		Operator: operatorOf(node),
		Target:   ConvertNode(ctx, node.Child(oracle.RoleType)),
	})
}

func (typeOperatorConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	o := ctx.oracle
	switch op := operatorOf(node); op {
	case model.OperatorReadonly:
		var inner model.Type
		switch {
		case o.IsTupleType(t):
			inner = tupleFromType(ctx, t)
		case o.IsArrayType(t):
			args := o.TypeArguments(t)
			if len(args) != 1 {
				violation(node, "readonly array with %d type arguments", len(args))
			}
			inner = &model.ArrayType{ElementType: ConvertType(ctx, args[0])}
		default:
			violation(node, "readonly applied to %s", o.TypeToString(t))
		}
		return converted(&model.TypeOperatorType{Operator: op, Target: inner})
	case model.OperatorKeyOf:
		return converted(&model.TypeOperatorType{Operator: op, Target: ConvertType(ctx, o.IndexTarget(t))})
	default:
		// The analyzer erases `unique`; only the projected node keeps it.
		return converted(&model.TypeOperatorType{Operator: op, Target: ConvertNode(ctx, node.Child(oracle.RoleType))})
	}
}

func operatorOf(node oracle.Node) model.TypeOperator {
	switch node.Operator() {
	case oracle.KindKeyOfKeyword:
		return model.OperatorKeyOf
	case oracle.KindUniqueKeyword:
		return model.OperatorUnique
	case oracle.KindReadonlyKeyword:
		return model.OperatorReadonly
	}
	violation(node, "unknown type operator %s", node.Operator())
	return ""
}

type tupleConverter struct{}

func (tupleConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	elements := node.Children(oracle.RoleElements)
	named := len(elements) > 0
	for _, el := range elements {
		if el.Kind() != oracle.KindNamedTupleMember {
			named = false
			break
		}
	}
	out := &model.TupleType{Named: named}
	for _, el := range elements {
		out.Elements = append(out.Elements, tupleElementFromSyntax(ctx, el, named))
	}
	return converted(out)
}

func tupleElementFromSyntax(ctx *Context, el oracle.Node, named bool) model.TupleElement {
	switch el.Kind() {
	case oracle.KindNamedTupleMember:
		out := model.TupleElement{
			Optional: el.Child(oracle.RoleQuestionToken) != nil,
			Rest:     el.Child(oracle.RoleDotDotDotToken) != nil,
			Type:     ConvertNode(ctx, el.Child(oracle.RoleType)),
		}
		if named {
			out.Name = nodeName(el)
		}
		return out
	case oracle.KindOptionalType:
		return model.TupleElement{Optional: true, Type: ConvertNode(ctx, el.Child(oracle.RoleType))}
	case oracle.KindRestType:
		return model.TupleElement{Rest: true, Type: ConvertNode(ctx, el.Child(oracle.RoleType))}
	}
	return model.TupleElement{Type: ConvertNode(ctx, el)}
}

func (tupleConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	return converted(tupleFromType(ctx, t))
}

func tupleFromType(ctx *Context, t oracle.Type) *model.TupleType {
	args := ctx.oracle.TypeArguments(t)
	infos := ctx.oracle.TupleElements(t)
	// The analyzer may append a `this` type argument after the elements.
	if len(args) > len(infos) {
		args = args[:len(infos)]
	}
	named := len(args) > 0
	for _, info := range infos[:len(args)] {
		if info.Name == "" {
			named = false
			break
		}
	}
	out := &model.TupleType{Named: named}
	for i, arg := range args {
		info := infos[i]
		el := model.TupleElement{Optional: info.Optional, Rest: info.Rest, Type: ConvertType(ctx, arg)}
		if named {
			el.Name = info.Name
		}
		if el.Optional {
			el.Type = model.RemoveUndefined(el.Type)
		}
		// Rest arguments carry the element type; the written form is an array.
		// A variadic argument is already the spread tuple.
		if el.Rest && !info.Variadic {
			el.Type = &model.ArrayType{ElementType: el.Type}
		}
		out.Elements = append(out.Elements, el)
	}
	return out
}

// nodeName returns the text of a declaration's name, or of the node itself
// when it has no name slot.
func nodeName(node oracle.Node) string {
	if name := node.Child(oracle.RoleName); name != nil {
		return name.Text()
	}
	return node.Text()
}
