package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
	"github.com/tsreflect/tsreflect/internal/testutil"
)

// paramNode builds `name?: typ = init` with the optional parts omitted when
// nil or false.
func paramNode(name string, optional bool, typ, init *testutil.FakeNode) *testutil.FakeNode {
	n := N(oracle.KindParameter, name).With(oracle.RoleName, N(oracle.KindIdentifier, name))
	if optional {
		n.With(oracle.RoleQuestionToken, N(oracle.KindQuestionToken, "?"))
	}
	n.With(oracle.RoleType, typ).With(oracle.RoleInitializer, init)
	return n
}

// ownerContext returns a context scoped to a fresh function declaration.
func ownerContext(t *testing.T, o *testutil.FakeOracle, opts ...Option) (*Context, *model.Declaration) {
	t.Helper()
	ctx, _ := newTestContext(t, o, opts...)
	owner := createDeclaration(ctx, model.KindFunction, "f", nil, nil)
	return ctx.WithScope(owner), owner
}

func TestCreateSignature_OptionalParameterCollapsesUndefined(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, owner := ownerContext(t, o)

	x := paramNode("x", true, N(oracle.KindUnionType, "string | undefined").With(oracle.RoleTypes,
		N(oracle.KindStringKeyword, "string"),
		N(oracle.KindUndefinedKeyword, "undefined")), nil)
	fn := N(oracle.KindFunctionDeclaration, "function f(x?: string | undefined)").With(oracle.RoleParameters, x)
	xSym := o.Symbol("x", oracle.SymbolFlagsVariable).Declare(x)
	sig := &testutil.FakeSignature{Decl: fn, Params: []oracle.Symbol{xSym}, Return: keyword(oracle.KindVoidKeyword, "void")}

	got := CreateSignature(ctx, model.KindCallSignature, sig, nil)

	require.Len(t, got.Parameters, 1)
	p := got.Parameters[0]
	assertTypeEqual(t, model.Intrinsic("string"), p.Type)
	assert.True(t, p.HasFlag(model.FlagOptional))
	assert.False(t, p.HasFlag(model.FlagRest))
	assertTypeEqual(t, model.Intrinsic("void"), got.Type)
	assert.Equal(t, []*model.Signature{got}, owner.Signatures)
	assert.Equal(t, "f", got.Name())
}

func TestCreateSignature_OptionalUndefinedOnlyIsRetained(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)

	x := paramNode("x", true, N(oracle.KindUndefinedKeyword, "undefined"), nil)
	xSym := o.Symbol("x", oracle.SymbolFlagsVariable).Declare(x)
	sig := &testutil.FakeSignature{Decl: N(oracle.KindFunctionType, "(x?: undefined) => void").With(oracle.RoleParameters, x), Params: []oracle.Symbol{xSym}}

	got := CreateSignature(ctx, model.KindCallSignature, sig, nil)
	assertTypeEqual(t, model.Intrinsic("undefined"), got.Parameters[0].Type)
}

func TestCreateSignature_ParameterDetails(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)

	this := paramNode("this", false, N(oracle.KindObjectKeyword, "object"), nil)
	destructured := N(oracle.KindParameter, "{ a }").
		With(oracle.RoleName, N(oracle.KindObjectBindingPattern, "{ a }")).
		With(oracle.RoleType, N(oracle.KindObjectKeyword, "object"))
	greeting := paramNode("greeting", false, nil, N(oracle.KindStringLiteral, "hello").Src(`"hello"`))
	rest := N(oracle.KindParameter, "...items: string[]").
		With(oracle.RoleDotDotDotToken, N(oracle.KindDotDotDotToken, "...")).
		With(oracle.RoleName, N(oracle.KindIdentifier, "items")).
		With(oracle.RoleType, N(oracle.KindArrayType, "string[]").
			With(oracle.RoleElementType, N(oracle.KindStringKeyword, "string")))
	fn := N(oracle.KindFunctionDeclaration, "function f(...)").With(oracle.RoleParameters, this, destructured, greeting, rest)

	thisSym := o.Symbol("this", oracle.SymbolFlagsVariable).Declare(this)
	destructuredSym := o.Symbol("__0", oracle.SymbolFlagsVariable).Declare(destructured)
	greetingSym := o.Symbol("greeting", oracle.SymbolFlagsVariable).Declare(greeting)
	restSym := o.Symbol("items", oracle.SymbolFlagsVariable).Declare(rest)
	o.SetSymbolType(greetingSym, str())

	sig := &testutil.FakeSignature{
		Decl:   fn,
		This:   thisSym,
		Params: []oracle.Symbol{destructuredSym, greetingSym, restSym},
		Return: num(),
	}
	got := CreateSignature(ctx, model.KindCallSignature, sig, nil)

	require.Len(t, got.Parameters, 4)
	names := make([]string, len(got.Parameters))
	for i, p := range got.Parameters {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"this", "__namedParameters", "greeting", "items"}, names)

	g := got.Parameter("greeting")
	require.NotNil(t, g)
	assertTypeEqual(t, model.Intrinsic("string"), g.Type)
	assert.Equal(t, `"hello"`, g.DefaultValue)

	items := got.Parameter("items")
	require.NotNil(t, items)
	assert.True(t, items.HasFlag(model.FlagRest))
	assertTypeEqual(t, &model.ArrayType{ElementType: model.Intrinsic("string")}, items.Type)

	assertTypeEqual(t, model.Intrinsic("number"), got.Type)
	for _, p := range got.Parameters {
		assert.Same(t, got, p.Parent())
	}
	assert.Same(t, got.Parameters[2], ctx.Project().ReflectionForSymbol(greetingSym.ID()))
}

func TestCreateSignature_TypeParameters(t *testing.T) {
	o := testutil.NewFakeOracle()
	var created []string
	events := NewEvents()
	events.On(EventCreateTypeParameter, func(r model.Reflection, _ oracle.Node) {
		created = append(created, r.Name())
	})
	ctx, _ := ownerContext(t, o, WithEvents(events))

	tSym := o.Symbol("T", oracle.SymbolFlagsTypeParameter)
	uSym := o.Symbol("U", oracle.SymbolFlagsTypeParameter)
	tType := &testutil.FakeType{TypeFlags: oracle.TypeFlagsTypeParameter, Sym: tSym, Param: oracle.TypeParameterParts{Constraint: str()}}
	uType := &testutil.FakeType{TypeFlags: oracle.TypeFlagsTypeParameter, Sym: uSym, Param: oracle.TypeParameterParts{Default: num()}}
	sig := &testutil.FakeSignature{TypeParams: []oracle.Type{tType, uType}}

	got := CreateSignature(ctx, model.KindCallSignature, sig, nil)

	require.Len(t, got.TypeParameters, 2)
	assert.Equal(t, "T", got.TypeParameters[0].Name())
	assertTypeEqual(t, model.Intrinsic("string"), got.TypeParameters[0].Constraint)
	assert.Nil(t, got.TypeParameters[0].Default)
	assert.Nil(t, got.TypeParameters[1].Constraint)
	assertTypeEqual(t, model.Intrinsic("number"), got.TypeParameters[1].Default)
	assert.Same(t, got.TypeParameters[0], ctx.Project().ReflectionForSymbol(tSym.ID()))
	assert.Equal(t, []string{"T", "U"}, created)
	// No declaration and no return type.
	assertTypeEqual(t, model.Intrinsic("any"), got.Type)
}

func TestCreateSignature_TypePredicate(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)

	x := paramNode("x", false, N(oracle.KindUnknownKeyword, "unknown"), nil)
	xSym := o.Symbol("x", oracle.SymbolFlagsVariable).Declare(x)
	guard := N(oracle.KindFunctionDeclaration, "function isString(x: unknown): x is string").
		With(oracle.RoleParameters, x).
		With(oracle.RoleType, N(oracle.KindTypePredicate, "x is string").
			With(oracle.RoleParameterName, N(oracle.KindIdentifier, "x")).
			With(oracle.RoleType, N(oracle.KindStringKeyword, "string")))
	sig := &testutil.FakeSignature{Decl: guard, Params: []oracle.Symbol{xSym}, Predicate: true}

	got := CreateSignature(ctx, model.KindCallSignature, sig, nil)
	assertTypeEqual(t, &model.PredicateType{Name: "x", TargetType: model.Intrinsic("string")}, got.Type)
}

func TestCreateSignature_PredicateWithoutAnnotationIsViolation(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)
	decl := N(oracle.KindArrowFunction, "(x) => typeof x === 'string'")
	sig := &testutil.FakeSignature{Decl: decl, Predicate: true}
	requireViolation(t, func() { CreateSignature(ctx, model.KindCallSignature, sig, nil) })
}

func TestCreateSignature_InferredReturnUsesResolvedType(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)
	// Only function declarations contribute their written return type.
	method := N(oracle.KindMethodDeclaration, "m(): string").With(oracle.RoleType, N(oracle.KindStringKeyword, "string"))
	sig := &testutil.FakeSignature{Decl: method, Return: num()}

	got := CreateSignature(ctx, model.KindCallSignature, sig, nil)
	assertTypeEqual(t, model.Intrinsic("number"), got.Type)
}

func TestCreateSignature_SetSignatureReturnsVoid(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, owner := ownerContext(t, o)
	v := paramNode("v", false, N(oracle.KindStringKeyword, "string"), nil)
	setter := N(oracle.KindSetAccessor, "set name(v: string)").With(oracle.RoleParameters, v)
	vSym := o.Symbol("v", oracle.SymbolFlagsVariable).Declare(v)
	sig := &testutil.FakeSignature{Decl: setter, Params: []oracle.Symbol{vSym}, Return: str()}

	got := CreateSignature(ctx, model.KindSetSignature, sig, nil)
	assertTypeEqual(t, model.Intrinsic("void"), got.Type)
	assert.Same(t, got, owner.SetSignature)
	assert.Empty(t, owner.Signatures)
}

func TestCreateSignature_AnchorsAnonymousFunctionsAtParent(t *testing.T) {
	o := testutil.NewFakeOracle()
	var anchor oracle.Node
	events := NewEvents()
	events.On(EventCreateSignature, func(_ model.Reflection, a oracle.Node) { anchor = a })
	ctx, _ := ownerContext(t, o, WithEvents(events))

	arrow := N(oracle.KindArrowFunction, "() => 1")
	variable := N(oracle.KindVariableDeclaration, "handler = () => 1").
		With(oracle.RoleName, N(oracle.KindIdentifier, "handler")).
		With(oracle.RoleInitializer, arrow)
	CreateSignature(ctx, model.KindCallSignature, &testutil.FakeSignature{Decl: arrow, Return: num()}, nil)
	assert.Same(t, variable, anchor)

	fn := N(oracle.KindFunctionDeclaration, "function g() {}")
	CreateSignature(ctx, model.KindCallSignature, &testutil.FakeSignature{Decl: fn}, nil)
	assert.Same(t, fn, anchor)
}

func TestCreateSignature_TypeAliasLiteralTakesAliasName(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	alias := createDeclaration(ctx, model.KindTypeAlias, "Handler", nil, nil)
	literal := model.NewDeclaration(anonymousName, model.KindTypeLiteral, alias)

	got := CreateSignature(ctx.WithScope(literal), model.KindCallSignature, &testutil.FakeSignature{}, nil)
	assert.Equal(t, "Handler", got.Name())
}

func TestCreateSignature_RequiresDeclarationScope(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	requireViolation(t, func() {
		CreateSignature(ctx, model.KindCallSignature, &testutil.FakeSignature{}, nil)
	})
}

func TestConvertParameters_RejectsNonParameterDeclarations(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)
	sym := o.Symbol("x", oracle.SymbolFlagsVariable).Declare(N(oracle.KindVariableDeclaration, "x = 1"))
	sig := model.NewSignature("f", model.KindCallSignature, ctx.Scope())
	requireViolation(t, func() { ConvertParameters(ctx, sig, []oracle.Symbol{sym}, nil) })
}

func TestConvertParameterNodes(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := ownerContext(t, o)
	sig := model.NewSignature("f", model.KindCallSignature, ctx.Scope())

	nodes := []oracle.Node{
		paramNode("a", true, N(oracle.KindNumberKeyword, "number"), nil),
		N(oracle.KindParameter, "[x, y]").With(oracle.RoleName, N(oracle.KindArrayBindingPattern, "[x, y]")),
		paramNode("b", false, nil, N(oracle.KindNumericLiteral, "3")),
	}
	got := ConvertParameterNodes(ctx.WithScope(sig), sig, nodes)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name())
	assert.True(t, got[0].HasFlag(model.FlagOptional))
	assertTypeEqual(t, model.Intrinsic("number"), got[0].Type)
	assert.Equal(t, "__namedParameters", got[1].Name())
	assertTypeEqual(t, model.Intrinsic("any"), got[1].Type)
	assert.Equal(t, "3", got[2].DefaultValue)
	assert.NotZero(t, got[2].ID())
}

func TestConvertTypeParameterNodes(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, owner := ownerContext(t, o)
	nodes := []oracle.Node{
		N(oracle.KindTypeParameter, "T extends string = 'a'").
			With(oracle.RoleName, N(oracle.KindIdentifier, "T")).
			With(oracle.RoleConstraint, N(oracle.KindStringKeyword, "string")).
			With(oracle.RoleDefault, N(oracle.KindLiteralType, "'a'").With(oracle.RoleLiteral, N(oracle.KindStringLiteral, "a"))),
	}
	got := ConvertTypeParameterNodes(ctx, nodes)

	require.Len(t, got, 1)
	assert.Equal(t, "T", got[0].Name())
	assert.Same(t, owner, got[0].Parent())
	assertTypeEqual(t, model.Intrinsic("string"), got[0].Constraint)
	assertTypeEqual(t, &model.LiteralType{Value: "a"}, got[0].Default)
}

func TestDefaultValue(t *testing.T) {
	access := func(object *testutil.FakeNode, name string) *testutil.FakeNode {
		return N(oracle.KindPropertyAccessExpression, object.Text()+"."+name).
			With(oracle.RoleExpression, object).
			With(oracle.RoleName, N(oracle.KindIdentifier, name))
	}
	tests := []struct {
		name string
		init *testutil.FakeNode
		want string
	}{
		{"none", nil, ""},
		{"string", N(oracle.KindStringLiteral, `say "hi"`).Src(`'say "hi"'`), `'say "hi"'`},
		{"escaped string", N(oracle.KindStringLiteral, "a\tb").Src(`"a\u0009b"`), `"a\u0009b"`},
		{"number", N(oracle.KindNumericLiteral, "42"), "42"},
		{"negative", N(oracle.KindPrefixUnaryExpression, "-1"), "-1"},
		{"boolean", N(oracle.KindTrueKeyword, "true"), "true"},
		{"null", N(oracle.KindNullKeyword, "null"), "null"},
		{"identifier", N(oracle.KindIdentifier, "DEFAULT"), "DEFAULT"},
		{"empty array", N(oracle.KindArrayLiteralExpression, "[]"), "[]"},
		{"array", N(oracle.KindArrayLiteralExpression, "[1]").With(oracle.RoleElements, N(oracle.KindNumericLiteral, "1")), "..."},
		{"empty object", N(oracle.KindObjectLiteralExpression, "{}"), "{}"},
		{"object", N(oracle.KindObjectLiteralExpression, "{ a: 1 }").With(oracle.RoleProperties, N(oracle.KindPropertyAssignment, "a: 1")), "..."},
		{"dotted", access(access(N(oracle.KindIdentifier, "a"), "b"), "c"), "a.b.c"},
		{"call", N(oracle.KindBinaryExpression, "1 + 2"), "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := N(oracle.KindParameter, "p").With(oracle.RoleInitializer, tt.init)
			assert.Equal(t, tt.want, DefaultValue(decl))
		})
	}
}

func TestFunctionType_BothEntries(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)

	a := paramNode("a", false, N(oracle.KindStringKeyword, "string"), nil)
	node := N(oracle.KindFunctionType, "(a: string) => number").
		With(oracle.RoleParameters, a).
		With(oracle.RoleType, N(oracle.KindNumberKeyword, "number"))
	fnSym := o.Symbol(anonymousName, oracle.SymbolFlagsTypeLiteral)
	aSym := o.Symbol("a", oracle.SymbolFlagsVariable).Declare(a)
	sig := &testutil.FakeSignature{Decl: node, Params: []oracle.Symbol{aSym}, Return: num()}
	fnType := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsObject,
		ObjFlags:   oracle.ObjectFlagsAnonymous,
		Sym:        fnSym,
		Calls:      []oracle.Signature{sig},
		Projection: node,
	}
	o.BindSymbol(node, fnSym)
	o.BindType(node, fnType)

	fromSyntax := ConvertNode(ctx, node)
	decl := declaration(t, fromSyntax)
	assert.Equal(t, model.KindTypeLiteral, decl.Kind())
	require.Len(t, decl.Signatures, 1)
	callSig := decl.Signatures[0]
	assert.Equal(t, model.KindCallSignature, callSig.Kind())
	require.Len(t, callSig.Parameters, 1)
	assert.Equal(t, "a", callSig.Parameters[0].Name())
	assertTypeEqual(t, model.Intrinsic("number"), callSig.Type)

	assertTypeEqual(t, fromSyntax, ConvertType(ctx, fnType))
}

func TestFunctionType_WithoutSymbolIsFunction(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	node := N(oracle.KindFunctionType, "() => void").With(oracle.RoleType, N(oracle.KindVoidKeyword, "void"))
	assertTypeEqual(t, model.Intrinsic("Function"), ConvertNode(ctx, node))
}

func TestConstructorType_Abstract(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	node := N(oracle.KindConstructorType, "abstract new () => object").
		With(oracle.RoleModifiers, N(oracle.KindAbstractKeyword, "abstract")).
		With(oracle.RoleType, N(oracle.KindObjectKeyword, "object"))
	o.BindSymbol(node, o.Symbol(anonymousName, oracle.SymbolFlagsTypeLiteral))
	o.BindType(node, &testutil.FakeType{TypeFlags: oracle.TypeFlagsObject})

	decl := declaration(t, ConvertNode(ctx, node))
	assert.True(t, decl.HasFlag(model.FlagAbstract))
	require.Len(t, decl.Signatures, 1)
	assert.Equal(t, model.KindConstructorSignature, decl.Signatures[0].Kind())
	assertTypeEqual(t, model.Intrinsic("object"), decl.Signatures[0].Type)
}
