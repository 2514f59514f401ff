package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tsreflect/tsreflect/internal/diagnostic"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
	"github.com/tsreflect/tsreflect/internal/testutil"
)

// N is shorthand for building fake syntax nodes.
var N = testutil.N

func newTestContext(t *testing.T, o *testutil.FakeOracle, opts ...Option) (*Context, *diagnostic.Collector) {
	t.Helper()
	diags := diagnostic.NewCollector(false, false)
	base := []Option{WithLogger(zaptest.NewLogger(t).Sugar()), WithDiagnostics(diags)}
	return NewContext(o, model.NewProject("test"), append(base, opts...)...), diags
}

// keyword returns a resolved primitive type projecting onto its keyword node.
func keyword(kind oracle.SyntaxKind, name string) *testutil.FakeType {
	return &testutil.FakeType{Display: name, Projection: N(kind, name)}
}

func str() *testutil.FakeType   { return keyword(oracle.KindStringKeyword, "string") }
func num() *testutil.FakeType   { return keyword(oracle.KindNumberKeyword, "number") }
func undef() *testutil.FakeType { return keyword(oracle.KindUndefinedKeyword, "undefined") }

func requireViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, IsContractViolation(err), "not a contract violation: %v", err)
	}()
	fn()
}

func assertTypeEqual(t *testing.T, want, got model.Type) {
	t.Helper()
	assert.True(t, model.Equal(want, got), "want %s, got %s", want, got)
}

func declaration(t *testing.T, typ model.Type) *model.Declaration {
	t.Helper()
	rt, ok := typ.(*model.ReflectionType)
	require.True(t, ok, "expected a reflection type, got %T", typ)
	require.NotNil(t, rt.Declaration)
	return rt.Declaration
}
