package converter

import (
	"github.com/tsreflect/tsreflect/internal/logger"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// container is a reflection that owns named child declarations.
type container interface {
	AddChild(child *model.Declaration)
}

var modifierFlags = map[oracle.SyntaxKind]model.ReflectionFlags{
	oracle.KindStaticKeyword:    model.FlagStatic,
	oracle.KindPrivateKeyword:   model.FlagPrivate,
	oracle.KindProtectedKeyword: model.FlagProtected,
	oracle.KindAbstractKeyword:  model.FlagAbstract,
	oracle.KindReadonlyKeyword:  model.FlagReadonly,
	oracle.KindConstKeyword:     model.FlagConst,
}

// createDeclaration creates a named declaration under the scope, registers it
// under sym and records where it was declared.
func createDeclaration(ctx *Context, kind model.ReflectionKind, name string, sym oracle.Symbol, node oracle.Node) *model.Declaration {
	decl := model.NewDeclaration(name, kind, ctx.scope)
	ctx.Register(decl, sym)
	if c, ok := ctx.scope.(container); ok {
		c.AddChild(decl)
	}
	if node != nil {
		pos := node.Pos()
		decl.Sources = append(decl.Sources, model.SourceReference{
			File:      pos.File,
			Line:      pos.Line + 1,
			Character: pos.Character + 1,
		})
		for _, m := range node.Children(oracle.RoleModifiers) {
			if f, ok := modifierFlags[m.Kind()]; ok {
				decl.SetFlag(f, true)
			}
		}
	}
	ctx.Notify(EventCreateDeclaration, decl, node)
	return decl
}

// ConvertMember converts a property, method or accessor symbol of the scope
// declaration. Other symbols are skipped and nil is returned.
func ConvertMember(ctx *Context, sym oracle.Symbol) *model.Declaration {
	flags := sym.Flags()
	switch {
	case flags&oracle.SymbolFlagsProperty != 0:
		return convertProperty(ctx, sym)
	case flags&oracle.SymbolFlagsMethod != 0:
		return convertMethod(ctx, sym)
	case flags&oracle.SymbolFlagsAccessor != 0:
		return convertAccessor(ctx, sym)
	}
	ctx.pass.logger.Debugw("skipping member",
		logger.FieldSymbol, sym.Name())
	return nil
}

func convertProperty(ctx *Context, sym oracle.Symbol) *model.Declaration {
	node := sym.ValueDeclaration()
	if node == nil {
		node = firstDeclaration(sym)
	}
	decl := createDeclaration(ctx, model.KindProperty, sym.Name(), sym, node)
	inner := ctx.WithScope(decl)

	var typeNode oracle.Node
	if node != nil {
		typeNode = node.Child(oracle.RoleType)
	}
	decl.Type = Convert(inner, ctx.oracle.TypeOfSymbolAtLocation(sym, node), typeNode)

	optional := sym.Flags()&oracle.SymbolFlagsOptional != 0 ||
		(node != nil && node.Child(oracle.RoleQuestionToken) != nil)
	if optional {
		decl.SetFlag(model.FlagOptional, true)
		decl.Type = model.RemoveUndefined(decl.Type)
	}
	if node != nil && node.Kind() == oracle.KindPropertyDeclaration {
		decl.DefaultValue = DefaultValue(node)
	}
	return decl
}

func convertMethod(ctx *Context, sym oracle.Symbol) *model.Declaration {
	o := ctx.oracle
	decl := createDeclaration(ctx, model.KindMethod, sym.Name(), sym, firstDeclaration(sym))
	if sym.Flags()&oracle.SymbolFlagsOptional != 0 {
		decl.SetFlag(model.FlagOptional, true)
	}
	inner := ctx.WithScope(decl)
	for _, sig := range o.Signatures(o.TypeOfSymbol(sym), oracle.SignatureKindCall) {
		CreateSignature(inner, model.KindCallSignature, sig, nil)
	}
	return decl
}

func convertAccessor(ctx *Context, sym oracle.Symbol) *model.Declaration {
	decl := createDeclaration(ctx, model.KindAccessor, sym.Name(), sym, firstDeclaration(sym))
	inner := ctx.WithScope(decl)
	for _, node := range sym.Declarations() {
		var kind model.ReflectionKind
		switch node.Kind() {
		case oracle.KindGetAccessor:
			kind = model.KindGetSignature
		case oracle.KindSetAccessor:
			kind = model.KindSetSignature
		default:
			continue
		}
		sig := ctx.oracle.SignatureFromDeclaration(node)
		if sig == nil {
			violation(node, "accessor %s without a signature", sym.Name())
		}
		CreateSignature(inner, kind, sig, node)
	}
	return decl
}
