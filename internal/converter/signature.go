package converter

import (
	"regexp"
	"strings"

	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// namedParametersName replaces the synthetic names the analyzer gives to
// destructured parameters.
const namedParametersName = "__namedParameters"

var syntheticParamName = regexp.MustCompile(`^__\d+$`)

// CreateSignature builds a signature of the given kind from a resolved
// signature and attaches it to the scope declaration. decl may be nil, in
// which case the signature's own declaration is used.
func CreateSignature(ctx *Context, kind model.ReflectionKind, sig oracle.Signature, decl oracle.Node) *model.Signature {
	owner, ok := ctx.scope.(*model.Declaration)
	if !ok {
		violation(decl, "signature scope is %s, not a declaration", ctx.scope.Kind())
	}
	o := ctx.oracle
	if decl == nil {
		decl = sig.Declaration()
	}
	anchor := decl
	if decl != nil && (decl.Kind() == oracle.KindArrowFunction || decl.Kind() == oracle.KindFunctionExpression) {
		anchor = decl.Parent()
	}

	out := model.NewSignature(signatureName(owner), kind, owner)
	sigCtx := ctx.WithScope(out)
	out.TypeParameters = ConvertTypeParameters(sigCtx, out, sig.TypeParameters())

	params := sig.Parameters()
	if this := sig.ThisParameter(); this != nil {
		params = append([]oracle.Symbol{this}, params...)
	}
	var paramNodes []oracle.Node
	if decl != nil {
		paramNodes = decl.Children(oracle.RoleParameters)
	}
	out.Parameters = ConvertParameters(sigCtx, out, params, paramNodes)

	switch {
	case o.HasTypePredicate(sig):
		var predicate oracle.Node
		if decl != nil {
			predicate = decl.Child(oracle.RoleType)
		}
		if predicate == nil || predicate.Kind() != oracle.KindTypePredicate {
			violation(decl, "type predicate signature without a predicate annotation")
		}
		out.Type = ConvertNode(sigCtx, predicate)
	case kind == model.KindSetSignature:
		out.Type = model.Intrinsic("void")
	case decl != nil && decl.Kind() == oracle.KindFunctionDeclaration && decl.Child(oracle.RoleType) != nil:
		out.Type = ConvertNode(sigCtx, decl.Child(oracle.RoleType))
	default:
		out.Type = ConvertType(sigCtx, o.ReturnType(sig))
	}

	ctx.Register(out, nil)
	owner.AttachSignature(out)
	ctx.Notify(EventCreateSignature, out, anchor)
	return out
}

// signatureName is the owner's name. Anonymous type literals directly under
// a type alias take the alias name.
func signatureName(owner *model.Declaration) string {
	if owner.Kind() == model.KindTypeLiteral {
		if parent, ok := owner.Parent().(*model.Declaration); ok && parent.Kind() == model.KindTypeAlias {
			return parent.Name()
		}
	}
	return owner.Name()
}

// ConvertTypeParameters converts resolved type parameters owned by parent.
func ConvertTypeParameters(ctx *Context, parent model.Reflection, params []oracle.Type) []*model.TypeParameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]*model.TypeParameter, 0, len(params))
	for _, param := range params {
		sym := param.Symbol()
		if sym == nil {
			violation(nil, "type parameter without a symbol: %s", ctx.oracle.TypeToString(param))
		}
		parts := ctx.oracle.TypeParameter(param)
		tp := model.NewTypeParameter(sym.Name(), parent)
		if parts.Constraint != nil {
			tp.Constraint = ConvertType(ctx, parts.Constraint)
		}
		if parts.Default != nil {
			tp.Default = ConvertType(ctx, parts.Default)
		}
		ctx.Register(tp, sym)
		ctx.Notify(EventCreateTypeParameter, tp, firstDeclaration(sym))
		out = append(out, tp)
	}
	return out
}

// ConvertTypeParameterNodes converts written type parameters owned by the
// scope.
func ConvertTypeParameterNodes(ctx *Context, nodes []oracle.Node) []*model.TypeParameter {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*model.TypeParameter, 0, len(nodes))
	for _, node := range nodes {
		tp := model.NewTypeParameter(nodeName(node), ctx.scope)
		if c := node.Child(oracle.RoleConstraint); c != nil {
			tp.Constraint = ConvertNode(ctx, c)
		}
		if d := node.Child(oracle.RoleDefault); d != nil {
			tp.Default = ConvertNode(ctx, d)
		}
		ctx.Register(tp, symbolOfDeclaration(ctx, node))
		ctx.Notify(EventCreateTypeParameter, tp, node)
		out = append(out, tp)
	}
	return out
}

// ConvertParameters converts the parameters of a resolved signature. nodes
// are the written parameters in the same order, used when a symbol has no
// value declaration.
func ConvertParameters(ctx *Context, sig *model.Signature, params []oracle.Symbol, nodes []oracle.Node) []*model.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]*model.Parameter, 0, len(params))
	for i, sym := range params {
		decl := sym.ValueDeclaration()
		if decl == nil && i < len(nodes) {
			decl = nodes[i]
		}
		if decl != nil && decl.Kind() != oracle.KindParameter {
			violation(decl, "parameter %s declared by %s", sym.Name(), decl.Kind())
		}

		p := model.NewParameter(parameterName(sym.Name()), sig)
		ctx.Register(p, sym)
		ctx.Notify(EventCreateParameter, p, decl)

		pctx := ctx.WithScope(p)
		var typeNode oracle.Node
		if decl != nil {
			typeNode = decl.Child(oracle.RoleType)
		}
		if typeNode != nil {
			p.Type = ConvertNode(pctx, typeNode)
		} else {
			p.Type = ConvertType(pctx, ctx.oracle.TypeOfSymbolAtLocation(sym, decl))
		}
		applyParameterTokens(p, decl)
		out = append(out, p)
	}
	return out
}

// ConvertParameterNodes converts a written parameter list for which no
// resolved signature is available.
func ConvertParameterNodes(ctx *Context, sig *model.Signature, nodes []oracle.Node) []*model.Parameter {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*model.Parameter, 0, len(nodes))
	for _, node := range nodes {
		name := node.Child(oracle.RoleName)
		var display string
		switch {
		case name == nil:
			display = node.Text()
		case name.Kind() == oracle.KindObjectBindingPattern || name.Kind() == oracle.KindArrayBindingPattern:
			display = namedParametersName
		default:
			display = parameterName(name.Text())
		}

		p := model.NewParameter(display, sig)
		ctx.Register(p, symbolOfDeclaration(ctx, node))
		ctx.Notify(EventCreateParameter, p, node)
		p.Type = ConvertNode(ctx.WithScope(p), node.Child(oracle.RoleType))
		applyParameterTokens(p, node)
		out = append(out, p)
	}
	return out
}

// applyParameterTokens sets the optional and rest flags and the default value
// from the parameter's declaration. Optional parameters lose their undefined
// union arm.
func applyParameterTokens(p *model.Parameter, decl oracle.Node) {
	if decl == nil {
		return
	}
	optional := decl.Child(oracle.RoleQuestionToken) != nil
	if optional {
		p.Type = model.RemoveUndefined(p.Type)
	}
	p.SetFlag(model.FlagOptional, optional)
	p.SetFlag(model.FlagRest, decl.Child(oracle.RoleDotDotDotToken) != nil)
	p.DefaultValue = DefaultValue(decl)
}

func parameterName(name string) string {
	if syntheticParamName.MatchString(name) {
		return namedParametersName
	}
	return name
}

// DefaultValue renders the initializer of a parameter, property or variable
// declaration for display. Simple literals, identifiers, empty array and
// object literals and dotted names render as written; anything else renders
// as "...". Declarations without an initializer render as "".
func DefaultValue(decl oracle.Node) string {
	init := decl.Child(oracle.RoleInitializer)
	if init == nil {
		return ""
	}
	return renderExpression(init)
}

func renderExpression(expr oracle.Node) string {
	switch expr.Kind() {
	case oracle.KindStringLiteral:
		return expr.SourceText()
	case oracle.KindTrueKeyword, oracle.KindFalseKeyword, oracle.KindNullKeyword,
		oracle.KindNumericLiteral, oracle.KindBigIntLiteral, oracle.KindPrefixUnaryExpression,
		oracle.KindIdentifier:
		return expr.Text()
	case oracle.KindArrayLiteralExpression:
		if len(expr.Children(oracle.RoleElements)) == 0 {
			return "[]"
		}
	case oracle.KindObjectLiteralExpression:
		if len(expr.Children(oracle.RoleProperties)) == 0 {
			return "{}"
		}
	case oracle.KindPropertyAccessExpression:
		if path, ok := dottedPath(expr); ok {
			return path
		}
	}
	return "..."
}

// dottedPath renders a.b.c when every link is a property access rooted at an
// identifier.
func dottedPath(expr oracle.Node) (string, bool) {
	var parts []string
	for expr != nil && expr.Kind() == oracle.KindPropertyAccessExpression {
		name := expr.Child(oracle.RoleName)
		if name == nil {
			return "", false
		}
		parts = append(parts, name.Text())
		expr = expr.Child(oracle.RoleExpression)
	}
	if expr == nil || expr.Kind() != oracle.KindIdentifier {
		return "", false
	}
	parts = append(parts, expr.Text())
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "."), true
}

func symbolOfDeclaration(ctx *Context, node oracle.Node) oracle.Symbol {
	if name := node.Child(oracle.RoleName); name != nil {
		if sym := ctx.oracle.SymbolAtLocation(name); sym != nil {
			return sym
		}
	}
	return ctx.oracle.SymbolAtLocation(node)
}

func firstDeclaration(sym oracle.Symbol) oracle.Node {
	decls := sym.Declarations()
	if len(decls) == 0 {
		return nil
	}
	return decls[0]
}
