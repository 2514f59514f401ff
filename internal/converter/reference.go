package converter

import (
	"github.com/tsreflect/tsreflect/internal/diagnostic"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

type referenceConverter struct{}

func (referenceConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	o := ctx.oracle
	name := node.Child(oracle.RoleTypeName)
	if name == nil {
		name = node.Child(oracle.RoleExpression)
	}
	if name == nil {
		violation(node, "type reference without a name")
	}
	args := node.Children(oracle.RoleTypeArguments)

	// Array<T> is written as a reference but documented as T[].
	if projected := o.TypeToTypeNode(o.TypeAtLocation(name), true); projected != nil && projected.Kind() == oracle.KindArrayType {
		var elem oracle.Node
		if len(args) > 0 {
			elem = args[0]
		}
		return converted(&model.ArrayType{ElementType: ConvertNode(ctx, elem)})
	}

	sym := o.SymbolAtLocation(name)
	if sym == nil {
		return converted(ctx.degrade(diagnostic.CategoryReferenceUnresolved, node, node.Text(),
			"no symbol for type reference %s", name.Text()))
	}
	return converted(&model.ReferenceType{
		Name:          name.Text(),
		SymbolID:      o.ResolveAlias(sym).ID(),
		TypeArguments: convertNodes(ctx, args),
	})
}

func (referenceConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	o := ctx.oracle
	if alias := t.AliasSymbol(); alias != nil {
		return converted(&model.ReferenceType{
			Name:          alias.Name(),
			SymbolID:      o.ResolveAlias(alias).ID(),
			TypeArguments: convertTypes(ctx, t.AliasTypeArguments()),
		})
	}
	sym := t.Symbol()
	if sym == nil {
		// Key parameters of mapped types have no symbol.
		return converted(model.Intrinsic(o.TypeToString(t)))
	}
	ref := &model.ReferenceType{Name: sym.Name(), SymbolID: o.ResolveAlias(sym).ID()}
	if t.Flags()&oracle.TypeFlagsObject != 0 && t.ObjectFlags()&oracle.ObjectFlagsReference != 0 {
		ref.TypeArguments = convertTypes(ctx, o.TypeArguments(t))
	}
	return converted(ref)
}

type queryConverter struct{}

func (queryConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	expr := node.Child(oracle.RoleExprName)
	if expr == nil {
		violation(node, "type query without an expression")
	}
	sym := ctx.oracle.SymbolAtLocation(expr)
	if sym == nil {
		violation(node, "no symbol for type query %s", expr.Text())
	}
	return converted(&model.QueryType{Target: &model.ReferenceType{
		Name:     expr.Text(),
		SymbolID: ctx.oracle.ResolveAlias(sym).ID(),
	}})
}

func (queryConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	sym := t.Symbol()
	if sym == nil {
		sym = ctx.oracle.SymbolAtLocation(node.Child(oracle.RoleExprName))
	}
	if sym == nil {
		violation(node, "no symbol for query type %s", ctx.oracle.TypeToString(t))
	}
	return converted(&model.QueryType{Target: &model.ReferenceType{
		Name:     sym.Name(),
		SymbolID: ctx.oracle.ResolveAlias(sym).ID(),
	}})
}

type mappedConverter struct{}

func (mappedConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	param := node.Child(oracle.RoleTypeParameter)
	if param == nil {
		violation(node, "mapped type without a type parameter")
	}
	optional := modifierOf(node.Child(oracle.RoleQuestionToken))
	template := ConvertNode(ctx, node.Child(oracle.RoleType))
	if optional == model.ModifierAdd {
		template = model.RemoveUndefined(template)
	}
	var nameType model.Type
	if n := node.Child(oracle.RoleNameType); n != nil {
		nameType = ConvertNode(ctx, n)
	}
	return converted(&model.MappedType{
		ParameterName:    nodeName(param),
		Constraint:       ConvertNode(ctx, param.Child(oracle.RoleConstraint)),
		Template:         template,
		ReadonlyModifier: modifierOf(node.Child(oracle.RoleReadonlyToken)),
		OptionalModifier: optional,
		NameType:         nameType,
	})
}

func (mappedConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	parts := ctx.oracle.Mapped(t)
	optional := modifierOf(node.Child(oracle.RoleQuestionToken))
	template := ConvertType(ctx, parts.Template)
	if optional == model.ModifierAdd {
		template = model.RemoveUndefined(template)
	}
	var name string
	if parts.TypeParameter != nil && parts.TypeParameter.Symbol() != nil {
		name = parts.TypeParameter.Symbol().Name()
	}
	var nameType model.Type
	if parts.NameType != nil {
		nameType = ConvertType(ctx, parts.NameType)
	}
	return converted(&model.MappedType{
		ParameterName:    name,
		Constraint:       ConvertType(ctx, parts.Constraint),
		Template:         template,
		ReadonlyModifier: modifierOf(node.Child(oracle.RoleReadonlyToken)),
		OptionalModifier: optional,
		NameType:         nameType,
	})
}

// modifierOf maps a mapped-type modifier token to its delta. A bare keyword
// or `+` adds, `-` removes, and no token leaves the modifier unchanged.
func modifierOf(token oracle.Node) model.Modifier {
	if token == nil {
		return model.ModifierNone
	}
	switch token.Kind() {
	case oracle.KindReadonlyKeyword, oracle.KindQuestionToken, oracle.KindPlusToken:
		return model.ModifierAdd
	case oracle.KindMinusToken:
		return model.ModifierRemove
	}
	return model.ModifierNone
}
