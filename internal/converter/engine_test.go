package converter

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsreflect/tsreflect/internal/diagnostic"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
	"github.com/tsreflect/tsreflect/internal/testutil"
)

func TestCategoryTable_Complete(t *testing.T) {
	for c := Category(0); c < categoryCount; c++ {
		assert.NotNil(t, converters[c], "category %s has no converter", c)
		assert.NotEqual(t, "unknown", c.String())
	}
	for kind, c := range categoryOf {
		assert.True(t, c >= 0 && c < categoryCount, "kind %s maps outside the table", kind)
	}
}

func TestCategory_Expands(t *testing.T) {
	assert.True(t, CategoryTypeLiteral.expands())
	assert.True(t, CategoryFunctionType.expands())
	assert.True(t, CategoryConstructorType.expands())
	assert.False(t, CategoryReference.expands())
	assert.False(t, CategoryArray.expands())
}

func TestConvert_NilInputsAreAny(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	assertTypeEqual(t, model.Intrinsic("any"), ConvertNode(ctx, nil))
	assertTypeEqual(t, model.Intrinsic("any"), ConvertType(ctx, nil))
	assertTypeEqual(t, model.Intrinsic("any"), Convert(ctx, nil, nil))
}

func TestConvert_PrefersSyntax(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	got := Convert(ctx, num(), N(oracle.KindStringKeyword, "string"))
	assertTypeEqual(t, model.Intrinsic("string"), got)
	assert.Zero(t, o.Projections)
}

func TestIntrinsic_BothEntries(t *testing.T) {
	for kind, name := range intrinsicNames {
		t.Run(name, func(t *testing.T) {
			ctx, _ := newTestContext(t, testutil.NewFakeOracle())
			fromSyntax := ConvertNode(ctx, N(kind, name))
			fromType := ConvertType(ctx, keyword(kind, name))
			assertTypeEqual(t, model.Intrinsic(name), fromSyntax)
			assertTypeEqual(t, fromSyntax, fromType)
		})
	}
}

func TestThis_BothEntries(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	assertTypeEqual(t, model.Intrinsic("this"), ConvertNode(ctx, N(oracle.KindThisType, "this")))
	assertTypeEqual(t, model.Intrinsic("this"), ConvertType(ctx, keyword(oracle.KindThisType, "this")))
}

func TestUnionAndIntersection_KeepOrder(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())

	union := N(oracle.KindUnionType, "number | string | number").With(oracle.RoleTypes,
		N(oracle.KindNumberKeyword, "number"),
		N(oracle.KindStringKeyword, "string"),
		N(oracle.KindNumberKeyword, "number"))
	want := &model.UnionType{Types: []model.Type{model.Intrinsic("number"), model.Intrinsic("string"), model.Intrinsic("number")}}
	assertTypeEqual(t, want, ConvertNode(ctx, union))

	resolved := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsUnion,
		Members:    []oracle.Type{num(), str(), num()},
		Projection: N(oracle.KindUnionType, "number | string | number"),
	}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))

	inter := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsIntersection,
		Members:    []oracle.Type{str(), num()},
		Projection: N(oracle.KindIntersectionType, "string & number"),
	}
	assertTypeEqual(t,
		&model.IntersectionType{Types: []model.Type{model.Intrinsic("string"), model.Intrinsic("number")}},
		ConvertType(ctx, inter))
}

func TestArray_BothEntries(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	want := &model.ArrayType{ElementType: model.Intrinsic("string")}

	node := N(oracle.KindArrayType, "string[]").With(oracle.RoleElementType, N(oracle.KindStringKeyword, "string"))
	assertTypeEqual(t, want, ConvertNode(ctx, node))

	resolved := &testutil.FakeType{Array: true, Args: []oracle.Type{str()}, Projection: N(oracle.KindArrayType, "string[]")}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestArray_FromTypeRequiresOneArgument(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	resolved := &testutil.FakeType{Array: true, Projection: N(oracle.KindArrayType, "T[]")}
	requireViolation(t, func() { ConvertType(ctx, resolved) })
}

func TestTuple_NamedVersusPositional(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())

	named := N(oracle.KindTupleType, "[a: string, b?: number]").With(oracle.RoleElements,
		N(oracle.KindNamedTupleMember, "a: string").
			With(oracle.RoleName, N(oracle.KindIdentifier, "a")).
			With(oracle.RoleType, N(oracle.KindStringKeyword, "string")),
		N(oracle.KindNamedTupleMember, "b?: number").
			With(oracle.RoleName, N(oracle.KindIdentifier, "b")).
			With(oracle.RoleQuestionToken, N(oracle.KindQuestionToken, "?")).
			With(oracle.RoleType, N(oracle.KindNumberKeyword, "number")))
	wantNamed := &model.TupleType{Named: true, Elements: []model.TupleElement{
		{Name: "a", Type: model.Intrinsic("string")},
		{Name: "b", Optional: true, Type: model.Intrinsic("number")},
	}}
	assertTypeEqual(t, wantNamed, ConvertNode(ctx, named))

	positional := N(oracle.KindTupleType, "[string, number?]").With(oracle.RoleElements,
		N(oracle.KindStringKeyword, "string"),
		N(oracle.KindOptionalType, "number?").With(oracle.RoleType, N(oracle.KindNumberKeyword, "number")))
	wantPositional := &model.TupleType{Elements: []model.TupleElement{
		{Type: model.Intrinsic("string")},
		{Optional: true, Type: model.Intrinsic("number")},
	}}
	assertTypeEqual(t, wantPositional, ConvertNode(ctx, positional))
	assert.False(t, model.Equal(wantNamed, wantPositional))
}

func TestTuple_MixedNamingIsPositional(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	mixed := N(oracle.KindTupleType, "[a: string, number]").With(oracle.RoleElements,
		N(oracle.KindNamedTupleMember, "a: string").
			With(oracle.RoleName, N(oracle.KindIdentifier, "a")).
			With(oracle.RoleType, N(oracle.KindStringKeyword, "string")),
		N(oracle.KindNumberKeyword, "number"))

	got, ok := ConvertNode(ctx, mixed).(*model.TupleType)
	require.True(t, ok)
	assert.False(t, got.Named)
	for _, el := range got.Elements {
		assert.Empty(t, el.Name)
	}
}

func TestTuple_FromTypeMatchesSyntax(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	optionalArm := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsUnion,
		Members:    []oracle.Type{num(), undef()},
		Projection: N(oracle.KindUnionType, "number | undefined"),
	}
	resolved := &testutil.FakeType{
		Tuple:      true,
		Args:       []oracle.Type{str(), optionalArm, str()},
		Elements:   []oracle.TupleElement{{Name: "a"}, {Name: "b", Optional: true}, {Name: "rest", Rest: true}},
		Projection: N(oracle.KindTupleType, "[a: string, b?: number, ...rest: string[]]"),
	}
	syntax := N(oracle.KindTupleType, "[a: string, b?: number, ...rest: string[]]").With(oracle.RoleElements,
		N(oracle.KindNamedTupleMember, "a: string").
			With(oracle.RoleName, N(oracle.KindIdentifier, "a")).
			With(oracle.RoleType, N(oracle.KindStringKeyword, "string")),
		N(oracle.KindNamedTupleMember, "b?: number").
			With(oracle.RoleName, N(oracle.KindIdentifier, "b")).
			With(oracle.RoleQuestionToken, N(oracle.KindQuestionToken, "?")).
			With(oracle.RoleType, N(oracle.KindNumberKeyword, "number")),
		N(oracle.KindNamedTupleMember, "...rest: string[]").
			With(oracle.RoleDotDotDotToken, N(oracle.KindDotDotDotToken, "...")).
			With(oracle.RoleName, N(oracle.KindIdentifier, "rest")).
			With(oracle.RoleType, N(oracle.KindArrayType, "string[]").
				With(oracle.RoleElementType, N(oracle.KindStringKeyword, "string"))))

	assertTypeEqual(t, ConvertNode(ctx, syntax), ConvertType(ctx, resolved))
}

func TestTuple_IgnoresTrailingThisArgument(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	resolved := &testutil.FakeType{
		Tuple:      true,
		Args:       []oracle.Type{str(), keyword(oracle.KindThisType, "this")},
		Elements:   []oracle.TupleElement{{}},
		Projection: N(oracle.KindTupleType, "[string]"),
	}
	want := &model.TupleType{Elements: []model.TupleElement{{Type: model.Intrinsic("string")}}}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestConditional_UsesResolvedBranches(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	resolved := &testutil.FakeType{
		TypeFlags: oracle.TypeFlagsConditional,
		Cond: oracle.ConditionalParts{
			Check:   str(),
			Extends: num(),
			True:    keyword(oracle.KindNeverKeyword, "never"),
			False:   str(),
		},
		Projection: N(oracle.KindConditionalType, "string extends number ? never : string"),
	}
	want := &model.ConditionalType{
		CheckType:   model.Intrinsic("string"),
		ExtendsType: model.Intrinsic("number"),
		TrueType:    model.Intrinsic("never"),
		FalseType:   model.Intrinsic("string"),
	}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))

	syntax := N(oracle.KindConditionalType, "string extends number ? never : string").
		With(oracle.RoleCheckType, N(oracle.KindStringKeyword, "string")).
		With(oracle.RoleExtendsType, N(oracle.KindNumberKeyword, "number")).
		With(oracle.RoleTrueType, N(oracle.KindNeverKeyword, "never")).
		With(oracle.RoleFalseType, N(oracle.KindStringKeyword, "string"))
	assertTypeEqual(t, want, ConvertNode(ctx, syntax))
}

func TestIndexedAccess_BothEntries(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	want := &model.IndexedAccessType{ObjectType: model.Intrinsic("object"), IndexType: model.Intrinsic("string")}

	syntax := N(oracle.KindIndexedAccessType, "object[string]").
		With(oracle.RoleObjectType, N(oracle.KindObjectKeyword, "object")).
		With(oracle.RoleIndexType, N(oracle.KindStringKeyword, "string"))
	assertTypeEqual(t, want, ConvertNode(ctx, syntax))

	resolved := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsIndexedAccess,
		Object:     keyword(oracle.KindObjectKeyword, "object"),
		Index:      str(),
		Projection: N(oracle.KindIndexedAccessType, "object[string]"),
	}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestInferred_BothEntries(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)

	syntax := N(oracle.KindInferType, "infer U").
		With(oracle.RoleTypeParameter, N(oracle.KindTypeParameter, "U").With(oracle.RoleName, N(oracle.KindIdentifier, "U")))
	assertTypeEqual(t, &model.InferredType{Name: "U"}, ConvertNode(ctx, syntax))

	resolved := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsTypeParameter,
		Sym:        o.Symbol("U", oracle.SymbolFlagsTypeParameter),
		Projection: N(oracle.KindInferType, "infer U"),
	}
	assertTypeEqual(t, &model.InferredType{Name: "U"}, ConvertType(ctx, resolved))
}

func TestParenthesized_Unwrapped(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	node := N(oracle.KindParenthesizedType, "(string)").With(oracle.RoleType, N(oracle.KindStringKeyword, "string"))
	assertTypeEqual(t, model.Intrinsic("string"), ConvertNode(ctx, node))

	resolved := &testutil.FakeType{Projection: N(oracle.KindParenthesizedType, "(string)")}
	requireViolation(t, func() { ConvertType(ctx, resolved) })
}

func TestPredicate_SyntaxOnly(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())

	isString := N(oracle.KindTypePredicate, "x is string").
		With(oracle.RoleParameterName, N(oracle.KindIdentifier, "x")).
		With(oracle.RoleType, N(oracle.KindStringKeyword, "string"))
	assertTypeEqual(t, &model.PredicateType{Name: "x", TargetType: model.Intrinsic("string")}, ConvertNode(ctx, isString))

	assertsThis := N(oracle.KindTypePredicate, "asserts this").
		With(oracle.RoleAssertsModifier, N(oracle.KindAssertsKeyword, "asserts")).
		With(oracle.RoleParameterName, N(oracle.KindThisType, "this"))
	assertTypeEqual(t, &model.PredicateType{Name: "this", Asserts: true}, ConvertNode(ctx, assertsThis))

	resolved := &testutil.FakeType{Projection: N(oracle.KindTypePredicate, "x is string")}
	requireViolation(t, func() { ConvertType(ctx, resolved) })
}

func TestLiteral_Syntax(t *testing.T) {
	lit := func(n *testutil.FakeNode) *testutil.FakeNode {
		return N(oracle.KindLiteralType, n.Text()).With(oracle.RoleLiteral, n)
	}
	negative := func(operand *testutil.FakeNode) *testutil.FakeNode {
		return N(oracle.KindPrefixUnaryExpression, "-"+operand.Text()).
			Op(oracle.KindMinusToken).
			With(oracle.RoleOperand, operand)
	}

	tests := []struct {
		name string
		node *testutil.FakeNode
		want any
	}{
		{"true", lit(N(oracle.KindTrueKeyword, "true")), true},
		{"false", lit(N(oracle.KindFalseKeyword, "false")), false},
		{"null", lit(N(oracle.KindNullKeyword, "null")), nil},
		{"string", lit(N(oracle.KindStringLiteral, "hi")), "hi"},
		{"template", lit(N(oracle.KindNoSubstitutionTemplateLiteral, "tpl")), "tpl"},
		{"number", lit(N(oracle.KindNumericLiteral, "1.5")), 1.5},
		{"separators", lit(N(oracle.KindNumericLiteral, "1_000")), float64(1000)},
		{"hex", lit(N(oracle.KindNumericLiteral, "0x1F")), float64(31)},
		{"binary", lit(N(oracle.KindNumericLiteral, "0b101")), float64(5)},
		{"negative", lit(negative(N(oracle.KindNumericLiteral, "1"))), float64(-1)},
		{"bigint", lit(N(oracle.KindBigIntLiteral, "123n")), big.NewInt(123)},
		{"hex bigint", lit(N(oracle.KindBigIntLiteral, "0x10n")), big.NewInt(16)},
		{"negative bigint", lit(negative(N(oracle.KindBigIntLiteral, "9007199254740993n"))), new(big.Int).Neg(big.NewInt(9007199254740993))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(t, testutil.NewFakeOracle())
			assertTypeEqual(t, &model.LiteralType{Value: tt.want}, ConvertNode(ctx, tt.node))
		})
	}
}

func TestLiteral_FromType(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	projection := func(text string) *testutil.FakeNode {
		return N(oracle.KindLiteralType, text).With(oracle.RoleLiteral, N(oracle.KindNumericLiteral, text))
	}

	bigNeg := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsBigIntLiteral,
		Value:      oracle.PseudoBigInt{Negative: true, Base10Value: "123456789012345678901234567890"},
		Projection: projection("-123456789012345678901234567890n"),
	}
	want, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	assertTypeEqual(t, &model.LiteralType{Value: want}, ConvertType(ctx, bigNeg))

	number := &testutil.FakeType{TypeFlags: oracle.TypeFlagsNumberLiteral, Value: float64(-2), Projection: projection("-2")}
	assertTypeEqual(t, &model.LiteralType{Value: float64(-2)}, ConvertType(ctx, number))

	boolean := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsBooleanLiteral,
		Projection: N(oracle.KindLiteralType, "false").With(oracle.RoleLiteral, N(oracle.KindFalseKeyword, "false")),
	}
	assertTypeEqual(t, &model.LiteralType{Value: false}, ConvertType(ctx, boolean))

	text := &testutil.FakeType{TypeFlags: oracle.TypeFlagsStringLiteral, Value: "a", Projection: projection(`"a"`)}
	assertTypeEqual(t, &model.LiteralType{Value: "a"}, ConvertType(ctx, text))
}

func TestLiteral_UnhandledKindIsViolation(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	node := N(oracle.KindLiteralType, "x").With(oracle.RoleLiteral, N(oracle.KindIdentifier, "x"))
	requireViolation(t, func() { ConvertNode(ctx, node) })

	resolved := &testutil.FakeType{Value: []byte("x"), Projection: N(oracle.KindLiteralType, "x")}
	requireViolation(t, func() { ConvertType(ctx, resolved) })
}

func TestTemplateLiteral_BothEntries(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	want := &model.TemplateLiteralType{Head: "id-", Spans: []model.TemplateSpan{{Type: model.Intrinsic("number"), Text: "!"}}}

	syntax := N(oracle.KindTemplateLiteralType, "`id-${number}!`").
		With(oracle.RoleHead, N(oracle.KindTemplateHead, "id-")).
		With(oracle.RoleTemplateSpans, N(oracle.KindTemplateLiteralTypeSpan, "${number}!").
			With(oracle.RoleType, N(oracle.KindNumberKeyword, "number")).
			With(oracle.RoleLiteral, N(oracle.KindTemplateTail, "!")))
	assertTypeEqual(t, want, ConvertNode(ctx, syntax))

	resolved := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsTemplateLiteral,
		Texts:      []string{"id-", "!"},
		Spans:      []oracle.Type{num()},
		Projection: N(oracle.KindTemplateLiteralType, "`id-${number}!`"),
	}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestTemplateLiteral_CountMismatchIsViolation(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	resolved := &testutil.FakeType{
		Texts:      []string{"id-"},
		Spans:      []oracle.Type{num()},
		Projection: N(oracle.KindTemplateLiteralType, "`id-${number}`"),
	}
	requireViolation(t, func() { ConvertType(ctx, resolved) })
}

func TestTypeOperator_Readonly(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	want := &model.TypeOperatorType{
		Operator: model.OperatorReadonly,
		Target:   &model.ArrayType{ElementType: model.Intrinsic("string")},
	}

	syntax := N(oracle.KindTypeOperator, "readonly string[]").
		Op(oracle.KindReadonlyKeyword).
		With(oracle.RoleType, N(oracle.KindArrayType, "string[]").
			With(oracle.RoleElementType, N(oracle.KindStringKeyword, "string")))
	assertTypeEqual(t, want, ConvertNode(ctx, syntax))

	array := &testutil.FakeType{
		Array:      true,
		Args:       []oracle.Type{str()},
		Projection: N(oracle.KindTypeOperator, "readonly string[]").Op(oracle.KindReadonlyKeyword),
	}
	assertTypeEqual(t, want, ConvertType(ctx, array))

	tuple := &testutil.FakeType{
		Tuple:      true,
		Args:       []oracle.Type{str()},
		Elements:   []oracle.TupleElement{{}},
		Projection: N(oracle.KindTypeOperator, "readonly [string]").Op(oracle.KindReadonlyKeyword),
	}
	assertTypeEqual(t, &model.TypeOperatorType{
		Operator: model.OperatorReadonly,
		Target:   &model.TupleType{Elements: []model.TupleElement{{Type: model.Intrinsic("string")}}},
	}, ConvertType(ctx, tuple))
}

func TestTypeOperator_ReadonlyOnOtherShapesIsViolation(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	resolved := &testutil.FakeType{
		Display:    "readonly string",
		Projection: N(oracle.KindTypeOperator, "readonly string").Op(oracle.KindReadonlyKeyword),
	}
	requireViolation(t, func() { ConvertType(ctx, resolved) })
}

func TestTypeOperator_Unique(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	projection := N(oracle.KindTypeOperator, "unique symbol").
		Op(oracle.KindUniqueKeyword).
		With(oracle.RoleType, N(oracle.KindSymbolKeyword, "symbol"))
	resolved := &testutil.FakeType{TypeFlags: oracle.TypeFlagsUniqueESSymbol, Projection: projection}

	want := &model.TypeOperatorType{Operator: model.OperatorUnique, Target: model.Intrinsic("symbol")}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
	assertTypeEqual(t, want, ConvertNode(ctx, projection))
}

func TestMapped_BothEntries(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)

	node := N(oracle.KindMappedType, "{ -readonly [K in string]?: number | undefined }").
		With(oracle.RoleReadonlyToken, N(oracle.KindMinusToken, "-")).
		With(oracle.RoleTypeParameter, N(oracle.KindTypeParameter, "K in string").
			With(oracle.RoleName, N(oracle.KindIdentifier, "K")).
			With(oracle.RoleConstraint, N(oracle.KindStringKeyword, "string"))).
		With(oracle.RoleQuestionToken, N(oracle.KindQuestionToken, "?")).
		With(oracle.RoleType, N(oracle.KindUnionType, "number | undefined").With(oracle.RoleTypes,
			N(oracle.KindNumberKeyword, "number"),
			N(oracle.KindUndefinedKeyword, "undefined")))
	want := &model.MappedType{
		ParameterName:    "K",
		Constraint:       model.Intrinsic("string"),
		Template:         model.Intrinsic("number"),
		ReadonlyModifier: model.ModifierRemove,
		OptionalModifier: model.ModifierAdd,
	}
	assertTypeEqual(t, want, ConvertNode(ctx, node))

	resolved := &testutil.FakeType{
		TypeFlags: oracle.TypeFlagsObject,
		ObjFlags:  oracle.ObjectFlagsMapped,
		MappedInfo: oracle.MappedParts{
			TypeParameter: &testutil.FakeType{Sym: o.Symbol("K", oracle.SymbolFlagsTypeParameter)},
			Constraint:    str(),
			Template: &testutil.FakeType{
				Members:    []oracle.Type{num(), undef()},
				Projection: N(oracle.KindUnionType, "number | undefined"),
			},
		},
		Projection: node,
	}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestMapped_NameRemap(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	node := N(oracle.KindMappedType, "{ [K in string as `get${K}`]: number }").
		With(oracle.RoleTypeParameter, N(oracle.KindTypeParameter, "K").
			With(oracle.RoleName, N(oracle.KindIdentifier, "K")).
			With(oracle.RoleConstraint, N(oracle.KindStringKeyword, "string"))).
		With(oracle.RoleNameType, N(oracle.KindStringKeyword, "string")).
		With(oracle.RoleType, N(oracle.KindNumberKeyword, "number"))

	got, ok := ConvertNode(ctx, node).(*model.MappedType)
	require.True(t, ok)
	assertTypeEqual(t, model.Intrinsic("string"), got.NameType)
	assert.Equal(t, model.ModifierNone, got.ReadonlyModifier)
	assert.Equal(t, model.ModifierNone, got.OptionalModifier)
}

func TestModifierOf(t *testing.T) {
	tests := []struct {
		name  string
		token oracle.Node
		want  model.Modifier
	}{
		{"no token", nil, model.ModifierNone},
		{"bare readonly", N(oracle.KindReadonlyKeyword, "readonly"), model.ModifierAdd},
		{"bare question", N(oracle.KindQuestionToken, "?"), model.ModifierAdd},
		{"plus", N(oracle.KindPlusToken, "+"), model.ModifierAdd},
		{"minus", N(oracle.KindMinusToken, "-"), model.ModifierRemove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modifierOf(tt.token))
		})
	}
}

func TestReference_BothEntries(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	box := o.Symbol("Box", oracle.SymbolFlagsInterface)

	name := N(oracle.KindIdentifier, "Box")
	node := N(oracle.KindTypeReference, "Box<string>").
		With(oracle.RoleTypeName, name).
		With(oracle.RoleTypeArguments, N(oracle.KindStringKeyword, "string"))
	o.BindSymbol(name, box)

	want := &model.ReferenceType{Name: "Box", SymbolID: box.ID(), TypeArguments: []model.Type{model.Intrinsic("string")}}
	assertTypeEqual(t, want, ConvertNode(ctx, node))

	resolved := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsObject,
		ObjFlags:   oracle.ObjectFlagsReference,
		Sym:        box,
		Args:       []oracle.Type{str()},
		Projection: N(oracle.KindTypeReference, "Box<string>"),
	}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestReference_FollowsAliases(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	target := o.Symbol("Target", oracle.SymbolFlagsClass)
	imported := o.Symbol("Imported", oracle.SymbolFlagsAlias)
	o.Alias(imported, target)

	name := N(oracle.KindIdentifier, "Imported")
	o.BindSymbol(name, imported)
	got := ConvertNode(ctx, N(oracle.KindTypeReference, "Imported").With(oracle.RoleTypeName, name))

	ref, ok := got.(*model.ReferenceType)
	require.True(t, ok)
	assert.Equal(t, "Imported", ref.Name)
	assert.Equal(t, target.ID(), ref.SymbolID)
}

func TestReference_TypeParameterAndAlias(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)

	param := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsTypeParameter,
		Sym:        o.Symbol("T", oracle.SymbolFlagsTypeParameter),
		Projection: N(oracle.KindTypeReference, "T"),
	}
	assertTypeEqual(t, &model.ReferenceType{Name: "T", SymbolID: param.Sym.ID()}, ConvertType(ctx, param))

	alias := o.Symbol("Pair", oracle.SymbolFlagsTypeAlias)
	aliased := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsObject,
		Alias:      alias,
		AliasArgs:  []oracle.Type{num()},
		Projection: N(oracle.KindTypeReference, "Pair<number>"),
	}
	assertTypeEqual(t,
		&model.ReferenceType{Name: "Pair", SymbolID: alias.ID(), TypeArguments: []model.Type{model.Intrinsic("number")}},
		ConvertType(ctx, aliased))

	keyParam := &testutil.FakeType{Display: "K", Projection: N(oracle.KindTypeReference, "K")}
	assertTypeEqual(t, model.Intrinsic("K"), ConvertType(ctx, keyParam))
}

func TestReference_ArrayGenericIsArray(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)

	name := N(oracle.KindIdentifier, "Array")
	o.BindType(name, &testutil.FakeType{Array: true, Projection: N(oracle.KindArrayType, "T[]")})
	node := N(oracle.KindTypeReference, "Array<Array<string>>").
		With(oracle.RoleTypeName, name).
		With(oracle.RoleTypeArguments, N(oracle.KindArrayType, "string[]").
			With(oracle.RoleElementType, N(oracle.KindStringKeyword, "string")))

	want := &model.ArrayType{ElementType: &model.ArrayType{ElementType: model.Intrinsic("string")}}
	assertTypeEqual(t, want, ConvertNode(ctx, node))
}

func TestReference_UnresolvedDegrades(t *testing.T) {
	ctx, diags := newTestContext(t, testutil.NewFakeOracle())
	node := N(oracle.KindTypeReference, "Missing<string>").
		At("src/a.ts", 4, 10).
		With(oracle.RoleTypeName, N(oracle.KindIdentifier, "Missing"))

	got := ConvertNode(ctx, node)
	assertTypeEqual(t, &model.UnknownType{Text: "Missing<string>"}, got)

	found := diags.ByCategory(diagnostic.CategoryReferenceUnresolved)
	require.Len(t, found, 1)
	assert.Equal(t, "src/a.ts", found[0].File)
	assert.Equal(t, 5, found[0].Line)
	assert.Equal(t, 11, found[0].Column)
}

func TestQuery_BothEntries(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	config := o.Symbol("config", oracle.SymbolFlagsVariable)
	expr := N(oracle.KindIdentifier, "config")
	o.BindSymbol(expr, config)

	node := N(oracle.KindTypeQuery, "typeof config").With(oracle.RoleExprName, expr)
	want := &model.QueryType{Target: &model.ReferenceType{Name: "config", SymbolID: config.ID()}}
	assertTypeEqual(t, want, ConvertNode(ctx, node))

	resolved := &testutil.FakeType{TypeFlags: oracle.TypeFlagsObject, Sym: config, Projection: node}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestQuery_MissingSymbolIsViolation(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())
	node := N(oracle.KindTypeQuery, "typeof nothing").With(oracle.RoleExprName, N(oracle.KindIdentifier, "nothing"))
	requireViolation(t, func() { ConvertNode(ctx, node) })
}

func TestUnsupported_Degrades(t *testing.T) {
	ctx, diags := newTestContext(t, testutil.NewFakeOracle())

	got := ConvertNode(ctx, N(oracle.KindBinaryExpression, "a + b"))
	assertTypeEqual(t, &model.UnknownType{Text: "a + b"}, got)

	unprojectable := &testutil.FakeType{Display: "Weird"}
	assertTypeEqual(t, &model.UnknownType{Text: "Weird"}, ConvertType(ctx, unprojectable))

	unhandled := &testutil.FakeType{Display: "Odd", Projection: N(oracle.KindIdentifier, "Odd")}
	assertTypeEqual(t, &model.UnknownType{Text: "Odd"}, ConvertType(ctx, unhandled))

	assert.Len(t, diags.ByCategory(diagnostic.CategoryTypeUnsupported), 2)
	assert.Len(t, diags.ByCategory(diagnostic.CategoryProjectionFailed), 1)
	assert.False(t, diags.HasErrors())
}

func TestIsContractViolation(t *testing.T) {
	var caught error
	func() {
		defer func() { caught, _ = recover().(error) }()
		violation(N(oracle.KindTypeQuery, "typeof x").At("a.ts", 0, 0), "no symbol")
	}()
	require.Error(t, caught)
	assert.True(t, IsContractViolation(caught))
	assert.Contains(t, caught.Error(), "TypeQuery at a.ts:1:1")
	assert.False(t, IsContractViolation(assert.AnError))
}

func boolLiteral(value bool) *testutil.FakeType {
	kind, text := oracle.KindFalseKeyword, "false"
	if value {
		kind, text = oracle.KindTrueKeyword, "true"
	}
	return &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsBooleanLiteral,
		Value:      value,
		Projection: N(oracle.KindLiteralType, text).With(oracle.RoleLiteral, N(kind, text)),
	}
}

func TestUnion_FromTypeFoldsBoolean(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())

	syntax := N(oracle.KindUnionType, "boolean | undefined").With(oracle.RoleTypes,
		N(oracle.KindBooleanKeyword, "boolean"),
		N(oracle.KindUndefinedKeyword, "undefined"))
	resolved := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsUnion,
		Members:    []oracle.Type{undef(), boolLiteral(false), boolLiteral(true)},
		Projection: N(oracle.KindUnionType, "boolean | undefined"),
	}
	fromSyntax := model.RemoveUndefined(ConvertNode(ctx, syntax))
	fromType := model.RemoveUndefined(ConvertType(ctx, resolved))
	assertTypeEqual(t, model.Intrinsic("boolean"), fromSyntax)
	assertTypeEqual(t, fromSyntax, fromType)

	tests := []struct {
		name    string
		members []oracle.Type
		want    model.Type
	}{
		{
			name:    "pair takes the first position",
			members: []oracle.Type{str(), boolLiteral(true), num(), boolLiteral(false)},
			want: &model.UnionType{Types: []model.Type{
				model.Intrinsic("string"), model.Intrinsic("boolean"), model.Intrinsic("number"),
			}},
		},
		{
			name:    "lone literal is kept",
			members: []oracle.Type{str(), boolLiteral(true)},
			want: &model.UnionType{Types: []model.Type{
				model.Intrinsic("string"), &model.LiteralType{Value: true},
			}},
		},
		{
			name:    "only the pair",
			members: []oracle.Type{boolLiteral(false), boolLiteral(true)},
			want:    model.Intrinsic("boolean"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			union := &testutil.FakeType{
				TypeFlags:  oracle.TypeFlagsUnion,
				Members:    tt.members,
				Projection: N(oracle.KindUnionType, "union"),
			}
			assertTypeEqual(t, tt.want, ConvertType(ctx, union))
		})
	}
}

func TestTuple_VariadicFromTypeIsNotWrapped(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	param := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsTypeParameter,
		Sym:        o.Symbol("T", oracle.SymbolFlagsTypeParameter),
		Projection: N(oracle.KindTypeReference, "T"),
	}
	resolved := &testutil.FakeType{
		Tuple:      true,
		Args:       []oracle.Type{num(), param, str()},
		Elements:   []oracle.TupleElement{{}, {Rest: true, Variadic: true}, {Rest: true}},
		Projection: N(oracle.KindTupleType, "[number, ...T, ...string[]]"),
	}
	want := &model.TupleType{Elements: []model.TupleElement{
		{Type: model.Intrinsic("number")},
		{Rest: true, Type: &model.ReferenceType{Name: "T", SymbolID: param.Sym.ID()}},
		{Rest: true, Type: &model.ArrayType{ElementType: model.Intrinsic("string")}},
	}}
	assertTypeEqual(t, want, ConvertType(ctx, resolved))
}

func TestLiteral_OutOfRangeNumberIsInfinite(t *testing.T) {
	ctx, _ := newTestContext(t, testutil.NewFakeOracle())

	huge := N(oracle.KindLiteralType, "1e400").With(oracle.RoleLiteral, N(oracle.KindNumericLiteral, "1e400"))
	assertTypeEqual(t, &model.LiteralType{Value: math.Inf(1)}, ConvertNode(ctx, huge))

	negative := N(oracle.KindLiteralType, "-1e400").With(oracle.RoleLiteral,
		N(oracle.KindPrefixUnaryExpression, "-1e400").
			Op(oracle.KindMinusToken).
			With(oracle.RoleOperand, N(oracle.KindNumericLiteral, "1e400")))
	assertTypeEqual(t, &model.LiteralType{Value: math.Inf(-1)}, ConvertNode(ctx, negative))

	malformed := N(oracle.KindLiteralType, "1e").With(oracle.RoleLiteral, N(oracle.KindNumericLiteral, "1e"))
	requireViolation(t, func() { ConvertNode(ctx, malformed) })
}

func TestIndexSignature_SynthesizedByChecker(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	spread := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsObject,
		ObjFlags:   oracle.ObjectFlagsAnonymous,
		Sym:        o.Symbol("__object", oracle.SymbolFlagsTypeLiteral),
		Display:    "{ [x: string]: number }",
		IndexInfos: []oracle.IndexInfo{{KeyType: str(), ValueType: num()}},
		Projection: N(oracle.KindTypeLiteral, "{ [x: string]: number }"),
	}

	decl := declaration(t, ConvertType(ctx, spread))
	sig := decl.IndexSignature
	require.NotNil(t, sig)
	assert.Same(t, decl, sig.Parent())
	assert.False(t, sig.HasFlag(model.FlagReadonly))
	require.Len(t, sig.Parameters, 1)
	assert.Equal(t, "key", sig.Parameters[0].Name())
	assertTypeEqual(t, model.Intrinsic("string"), sig.Parameters[0].Type)
	assertTypeEqual(t, model.Intrinsic("number"), sig.Type)
}

func TestIndexSignature_ForeignDeclarationIsViolation(t *testing.T) {
	o := testutil.NewFakeOracle()
	ctx, _ := newTestContext(t, o)
	object := &testutil.FakeType{
		TypeFlags:  oracle.TypeFlagsObject,
		Sym:        o.Symbol("__type", oracle.SymbolFlagsTypeLiteral),
		IndexInfos: []oracle.IndexInfo{{KeyType: str(), ValueType: num(), Declaration: N(oracle.KindPropertySignature, "a: number")}},
		Projection: N(oracle.KindTypeLiteral, "{}"),
	}
	requireViolation(t, func() { ConvertType(ctx, object) })
}

func TestDegrade_LogsOnce(t *testing.T) {
	for _, shared := range []bool{true, false} {
		core, logs := observer.New(zapcore.WarnLevel)
		l := zap.New(core).Sugar()
		diags := diagnostic.NewCollector(false, false)
		if shared {
			diags.SetLogger(l)
		}
		ctx := NewContext(testutil.NewFakeOracle(), model.NewProject("test"), WithLogger(l), WithDiagnostics(diags))

		ConvertNode(ctx, N(oracle.KindBinaryExpression, "a + b"))
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len(), "collector logger set by caller: %v", shared)
		assert.Len(t, diags.Diagnostics(), 1)
	}
}
