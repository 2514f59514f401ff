package converter

import (
	"github.com/tsreflect/tsreflect/internal/logger"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// ConvertSourceFile converts the top-level statements of file into children
// of the scope, in source order.
func ConvertSourceFile(ctx *Context, file oracle.Node) {
	for _, stmt := range file.Children(oracle.RoleStatements) {
		convertStatement(ctx, stmt)
	}
}

func convertStatement(ctx *Context, stmt oracle.Node) {
	switch stmt.Kind() {
	case oracle.KindInterfaceDeclaration:
		convertInterface(ctx, stmt)
	case oracle.KindClassDeclaration:
		convertClass(ctx, stmt)
	case oracle.KindTypeAliasDeclaration:
		convertTypeAlias(ctx, stmt)
	case oracle.KindFunctionDeclaration:
		convertFunction(ctx, stmt)
	case oracle.KindVariableStatement:
		convertVariables(ctx, stmt)
	case oracle.KindEnumDeclaration:
		convertEnum(ctx, stmt)
	default:
		ctx.pass.logger.Debugw("skipping statement",
			logger.FieldNodeKind, stmt.Kind().String(),
			logger.FieldFile, stmt.Pos().File)
	}
}

// declarationSymbol returns the symbol a declaration statement introduces and
// whether an earlier declaration of the same symbol was already converted.
func declarationSymbol(ctx *Context, node oracle.Node) (oracle.Symbol, bool) {
	sym := symbolOfDeclaration(ctx, node)
	if sym == nil {
		violation(node, "%s without a symbol", node.Kind())
	}
	return sym, ctx.project.ReflectionForSymbol(sym.ID()) != nil
}

// convertObjectMembers converts the properties, signatures and index
// signature of an interface or class instance type.
func convertObjectMembers(ctx *Context, t oracle.Type) {
	o := ctx.oracle
	for _, prop := range o.Properties(t) {
		ConvertMember(ctx, prop)
	}
	for _, sig := range o.Signatures(t, oracle.SignatureKindCall) {
		CreateSignature(ctx, model.KindCallSignature, sig, nil)
	}
	for _, sig := range o.Signatures(t, oracle.SignatureKindConstruct) {
		CreateSignature(ctx, model.KindConstructorSignature, sig, nil)
	}
	convertIndexSignature(ctx, t)
}

func convertInterface(ctx *Context, node oracle.Node) {
	sym, seen := declarationSymbol(ctx, node)
	if seen {
		// Merged declarations were converted with the first one.
		return
	}
	decl := createDeclaration(ctx, model.KindInterface, sym.Name(), sym, node)
	inner := ctx.WithScope(decl)
	decl.TypeParameters = ConvertTypeParameterNodes(inner, node.Children(oracle.RoleTypeParameters))
	convertObjectMembers(inner, ctx.oracle.DeclaredTypeOfSymbol(sym))
}

func convertClass(ctx *Context, node oracle.Node) {
	o := ctx.oracle
	sym, seen := declarationSymbol(ctx, node)
	if seen {
		return
	}
	decl := createDeclaration(ctx, model.KindClass, sym.Name(), sym, node)
	inner := ctx.WithScope(decl)
	decl.TypeParameters = ConvertTypeParameterNodes(inner, node.Children(oracle.RoleTypeParameters))

	static := o.TypeOfSymbol(sym)
	if ctors := o.Signatures(static, oracle.SignatureKindConstruct); len(ctors) > 0 {
		ctor := createDeclaration(inner, model.KindConstructor, "constructor", nil, constructorNode(node))
		ctorCtx := inner.WithScope(ctor)
		for _, sig := range ctors {
			CreateSignature(ctorCtx, model.KindConstructorSignature, sig, nil)
		}
	}

	for _, prop := range o.Properties(static) {
		if prop.Name() == "prototype" {
			continue
		}
		if member := ConvertMember(inner, prop); member != nil {
			member.SetFlag(model.FlagStatic, true)
		}
	}

	instance := o.DeclaredTypeOfSymbol(sym)
	for _, prop := range o.Properties(instance) {
		ConvertMember(inner, prop)
	}
	convertIndexSignature(inner, instance)
}

func constructorNode(class oracle.Node) oracle.Node {
	for _, m := range class.Children(oracle.RoleMembers) {
		if m.Kind() == oracle.KindConstructor {
			return m
		}
	}
	return nil
}

func convertTypeAlias(ctx *Context, node oracle.Node) {
	sym, seen := declarationSymbol(ctx, node)
	if seen {
		return
	}
	decl := createDeclaration(ctx, model.KindTypeAlias, sym.Name(), sym, node)
	inner := ctx.WithScope(decl)
	decl.TypeParameters = ConvertTypeParameterNodes(inner, node.Children(oracle.RoleTypeParameters))
	decl.Type = ConvertNode(inner, node.Child(oracle.RoleType))
}

// convertFunction converts every signature of a function symbol on its first
// declaration. Later overload declarations are skipped.
func convertFunction(ctx *Context, node oracle.Node) {
	o := ctx.oracle
	sym, seen := declarationSymbol(ctx, node)
	if seen {
		return
	}
	decl := createDeclaration(ctx, model.KindFunction, sym.Name(), sym, node)
	inner := ctx.WithScope(decl)
	for _, sig := range o.Signatures(o.TypeOfSymbol(sym), oracle.SignatureKindCall) {
		CreateSignature(inner, model.KindCallSignature, sig, nil)
	}
}

func convertVariables(ctx *Context, stmt oracle.Node) {
	isConst := hasModifier(stmt, oracle.KindConstKeyword)
	for _, node := range stmt.Children(oracle.RoleDeclarations) {
		decl := convertVariable(ctx, node)
		if decl != nil && isConst {
			decl.SetFlag(model.FlagConst, true)
		}
	}
}

// convertVariable converts one variable declaration. An unannotated variable
// initialized with a function becomes a function declaration.
func convertVariable(ctx *Context, node oracle.Node) *model.Declaration {
	o := ctx.oracle
	sym, seen := declarationSymbol(ctx, node)
	if seen {
		return nil
	}
	typeNode := node.Child(oracle.RoleType)
	if init := node.Child(oracle.RoleInitializer); typeNode == nil && init != nil &&
		(init.Kind() == oracle.KindArrowFunction || init.Kind() == oracle.KindFunctionExpression) {
		decl := createDeclaration(ctx, model.KindFunction, sym.Name(), sym, node)
		inner := ctx.WithScope(decl)
		for _, sig := range o.Signatures(o.TypeOfSymbol(sym), oracle.SignatureKindCall) {
			CreateSignature(inner, model.KindCallSignature, sig, nil)
		}
		return decl
	}

	decl := createDeclaration(ctx, model.KindVariable, sym.Name(), sym, node)
	decl.Type = Convert(ctx.WithScope(decl), o.TypeOfSymbol(sym), typeNode)
	decl.DefaultValue = DefaultValue(node)
	return decl
}

func convertEnum(ctx *Context, node oracle.Node) {
	sym, seen := declarationSymbol(ctx, node)
	if seen {
		return
	}
	decl := createDeclaration(ctx, model.KindEnum, sym.Name(), sym, node)
	inner := ctx.WithScope(decl)
	for _, member := range node.Children(oracle.RoleMembers) {
		msym := symbolOfDeclaration(ctx, member)
		m := createDeclaration(inner, model.KindEnumMember, nodeName(member), msym, member)
		if msym != nil {
			m.Type = enumMemberValue(ctx, ctx.oracle.TypeOfSymbol(msym), member)
		}
		m.DefaultValue = DefaultValue(member)
	}
}

// enumMemberValue returns the literal value of an enum member, or nil when
// the member is not a literal.
func enumMemberValue(ctx *Context, t oracle.Type, member oracle.Node) model.Type {
	if t == nil || t.Flags()&(oracle.TypeFlagsLiteral|oracle.TypeFlagsEnumLiteral) == 0 {
		return nil
	}
	switch v := ctx.oracle.LiteralValue(t).(type) {
	case string, float64:
		return &model.LiteralType{Value: v}
	case int:
		return &model.LiteralType{Value: float64(v)}
	default:
		ctx.pass.logger.Debugw("enum member without a literal value",
			logger.FieldSymbol, nodeName(member))
		return nil
	}
}
