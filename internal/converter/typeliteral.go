package converter

import (
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// anonymousName names the declarations created for inline object and function
// types.
const anonymousName = "__type"

type typeLiteralConverter struct{}

func (typeLiteralConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	sym := ctx.oracle.SymbolAtLocation(node)
	t := ctx.oracle.TypeAtLocation(node)
	if sym == nil || t == nil {
		return converted(model.Intrinsic("Object"))
	}
	return converted(expandObject(ctx, t, sym, node))
}

func (typeLiteralConverter) fromType(ctx *Context, t oracle.Type, _ oracle.Node) result {
	sym := t.Symbol()
	if sym == nil {
		return converted(model.Intrinsic("Object"))
	}
	return converted(expandObject(ctx, t, sym, nil))
}

// expandObject materializes an anonymous object type as a TypeLiteral
// declaration owned by the current scope.
func expandObject(ctx *Context, t oracle.Type, sym oracle.Symbol, anchor oracle.Node) *model.ReflectionType {
	o := ctx.oracle
	decl := model.NewDeclaration(anonymousName, model.KindTypeLiteral, ctx.scope)
	ctx.Register(decl, sym)
	ctx.Notify(EventCreateDeclaration, decl, anchor)

	inner := ctx.WithScope(decl)
	for _, prop := range o.Properties(t) {
		ConvertMember(inner, prop)
	}
	for _, sig := range o.Signatures(t, oracle.SignatureKindCall) {
		CreateSignature(inner, model.KindCallSignature, sig, nil)
	}
	for _, sig := range o.Signatures(t, oracle.SignatureKindConstruct) {
		CreateSignature(inner, model.KindConstructorSignature, sig, nil)
	}
	convertIndexSignature(inner, t)
	return &model.ReflectionType{Declaration: decl}
}

type functionTypeConverter struct{}

func (functionTypeConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(callableFromSyntax(ctx, node, model.KindCallSignature))
}

func (functionTypeConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	return converted(callableFromType(ctx, t, node, oracle.SignatureKindCall, model.KindCallSignature))
}

type constructorTypeConverter struct{}

func (constructorTypeConverter) fromSyntax(ctx *Context, node oracle.Node) result {
	return converted(callableFromSyntax(ctx, node, model.KindConstructorSignature))
}

func (constructorTypeConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	return converted(callableFromType(ctx, t, node, oracle.SignatureKindConstruct, model.KindConstructorSignature))
}

// callableFromSyntax builds the anonymous declaration of a function or
// constructor type from its written parameters, type parameters and return
// type.
func callableFromSyntax(ctx *Context, node oracle.Node, kind model.ReflectionKind) model.Type {
	sym := ctx.oracle.SymbolAtLocation(node)
	if sym == nil || ctx.oracle.TypeAtLocation(node) == nil {
		return model.Intrinsic("Function")
	}
	decl := model.NewDeclaration(anonymousName, model.KindTypeLiteral, ctx.scope)
	ctx.Register(decl, sym)
	ctx.Notify(EventCreateDeclaration, decl, node)
	if hasModifier(node, oracle.KindAbstractKeyword) {
		decl.SetFlag(model.FlagAbstract, true)
	}

	sig := model.NewSignature(anonymousName, kind, decl)
	ctx.Register(sig, nil)
	sigCtx := ctx.WithScope(sig)
	sig.TypeParameters = ConvertTypeParameterNodes(sigCtx, node.Children(oracle.RoleTypeParameters))
	sig.Parameters = ConvertParameterNodes(sigCtx, sig, node.Children(oracle.RoleParameters))
	sig.Type = ConvertNode(sigCtx, node.Child(oracle.RoleType))
	decl.AttachSignature(sig)
	ctx.Notify(EventCreateSignature, sig, node)
	return &model.ReflectionType{Declaration: decl}
}

func callableFromType(ctx *Context, t oracle.Type, node oracle.Node, sigKind oracle.SignatureKind, kind model.ReflectionKind) model.Type {
	sym := t.Symbol()
	if sym == nil {
		return model.Intrinsic("Function")
	}
	sigs := ctx.oracle.Signatures(t, sigKind)
	if len(sigs) == 0 {
		violation(node, "%s without signatures", node.Kind())
	}
	decl := model.NewDeclaration(anonymousName, model.KindTypeLiteral, ctx.scope)
	ctx.Register(decl, sym)
	ctx.Notify(EventCreateDeclaration, decl, nil)
	CreateSignature(ctx.WithScope(decl), kind, sigs[0], nil)
	return &model.ReflectionType{Declaration: decl}
}

// convertIndexSignature attaches the first index signature of t to the scope
// declaration. Signatures the checker synthesizes (spreads, mapped types) have
// no declaration and are built from the resolved key and value types.
func convertIndexSignature(ctx *Context, t oracle.Type) {
	infos := ctx.oracle.IndexSignatures(t)
	if len(infos) == 0 {
		return
	}
	owner, ok := ctx.scope.(*model.Declaration)
	if !ok {
		violation(nil, "index signature scope is %s, not a declaration", ctx.scope.Kind())
	}
	info := infos[0]
	decl := info.Declaration
	if decl != nil && decl.Kind() != oracle.KindIndexSignature {
		violation(decl, "index signature declared by %s", decl.Kind())
	}
	var params []oracle.Node
	if decl != nil {
		params = decl.Children(oracle.RoleParameters)
		if len(params) == 0 {
			violation(decl, "index signature without a key parameter")
		}
	}

	sig := model.NewSignature("__index", model.KindIndexSignature, owner)
	sig.SetFlag(model.FlagReadonly, info.Readonly)
	ctx.Register(sig, nil)
	if decl == nil {
		key := model.NewParameter("key", sig)
		ctx.Register(key, nil)
		key.Type = ConvertType(ctx.WithScope(key), info.KeyType)
		sig.Parameters = []*model.Parameter{key}
		sig.Type = ConvertType(ctx.WithScope(sig), info.ValueType)
	} else {
		key := model.NewParameter(nodeName(params[0]), sig)
		ctx.Register(key, nil)
		key.Type = ConvertNode(ctx.WithScope(key), params[0].Child(oracle.RoleType))
		sig.Parameters = []*model.Parameter{key}
		sig.Type = ConvertNode(ctx.WithScope(sig), decl.Child(oracle.RoleType))
	}
	owner.AttachSignature(sig)
	ctx.Notify(EventCreateSignature, sig, decl)
}

func hasModifier(node oracle.Node, kind oracle.SyntaxKind) bool {
	for _, m := range node.Children(oracle.RoleModifiers) {
		if m.Kind() == kind {
			return true
		}
	}
	return false
}
