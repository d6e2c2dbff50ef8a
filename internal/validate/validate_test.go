package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed117/eventloop/internal/registry"
)

func addSignature(t *testing.T) registry.Signature {
	t.Helper()

	c, err := registry.NewCallable("add", func(a, b int) int {
		return a + b
	}, registry.Required("arg1"), registry.Required("arg2"))
	require.NoError(t, err)
	return c.Signature()
}

func greetSignature(t *testing.T) registry.Signature {
	t.Helper()

	c, err := registry.NewCallable("greet", func(name, greeting string) string {
		return greeting + ", " + name
	}, registry.Required("name"), registry.Optional("greeting", "hello"))
	require.NoError(t, err)
	return c.Signature()
}

func TestBind_Positional(t *testing.T) {
	bound, err := Bind(addSignature(t), []any{1, 2}, nil)

	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, bound)
}

func TestBind_Keyword(t *testing.T) {
	bound, err := Bind(addSignature(t), nil, map[string]any{"arg1": 3, "arg2": 4})

	require.NoError(t, err)
	assert.Equal(t, []any{3, 4}, bound)
}

func TestBind_MixedPositionalAndKeyword(t *testing.T) {
	bound, err := Bind(addSignature(t), []any{1}, map[string]any{"arg2": 2})

	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, bound)
}

func TestBind_DefaultFillsUnset(t *testing.T) {
	bound, err := Bind(greetSignature(t), []any{"world"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []any{"world", "hello"}, bound)
}

func TestBind_KeywordOverridesDefault(t *testing.T) {
	bound, err := Bind(greetSignature(t), []any{"world"}, map[string]any{"greeting": "hi"})

	require.NoError(t, err)
	assert.Equal(t, []any{"world", "hi"}, bound)
}

func TestBind_TooManyPositional(t *testing.T) {
	_, err := Bind(addSignature(t), []any{1, 2, 3}, nil)

	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Param, "arity errors name no single parameter")
	assert.Equal(t, "too many positional arguments: got 3, want at most 2", verr.Message)
}

func TestBind_UnknownKeyword(t *testing.T) {
	_, err := Bind(addSignature(t), nil, map[string]any{"bogus": 1})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bogus", verr.Param)
	assert.Equal(t, `unknown keyword argument "bogus"`, verr.Message)
}

func TestBind_DuplicateBinding(t *testing.T) {
	_, err := Bind(addSignature(t), []any{1}, map[string]any{"arg1": 2})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "arg1", verr.Param)
	assert.Equal(t, `multiple values for parameter "arg1"`, verr.Message)
}

func TestBind_MissingRequired(t *testing.T) {
	_, err := Bind(addSignature(t), []any{1}, nil)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "arg2", verr.Param)
	assert.Equal(t, `missing required argument "arg2"`, verr.Message)
}

func TestBind_TypeMismatch(t *testing.T) {
	_, err := Bind(addSignature(t), []any{"one", 2}, nil)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "arg1", verr.Param)
	assert.Equal(t, `parameter "arg1" expects type int, got string`, verr.Message)
}

func TestBind_TypeMismatch_Keyword(t *testing.T) {
	_, err := Bind(greetSignature(t), []any{"world"}, map[string]any{"greeting": 42})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "greeting", verr.Param)
}

func TestBind_NilForNonNilableType(t *testing.T) {
	_, err := Bind(addSignature(t), []any{nil, 2}, nil)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "arg1", verr.Param)
	assert.Contains(t, verr.Message, "got nil")
}

func TestBind_NilForNilableType(t *testing.T) {
	c, err := registry.NewCallable("lookup", func(keys []string) int {
		return len(keys)
	}, registry.Required("keys"))
	require.NoError(t, err)

	bound, err := Bind(c.Signature(), []any{nil}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, bound)
}

func TestBind_EmptySignature(t *testing.T) {
	c, err := registry.NewCallable("ping", func() string { return "pong" })
	require.NoError(t, err)

	bound, err := Bind(c.Signature(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, bound)
}

func TestBindUnchecked_SkipsTypeCheck(t *testing.T) {
	bound, err := BindUnchecked(addSignature(t), []any{"a", "b"}, nil)

	require.NoError(t, err, "type mismatches pass through unchecked binding")
	assert.Equal(t, []any{"a", "b"}, bound)
}

func TestBindUnchecked_StillEnforcesArity(t *testing.T) {
	_, err := BindUnchecked(addSignature(t), []any{1, 2, 3}, nil)
	assert.Error(t, err)

	_, err = BindUnchecked(addSignature(t), []any{1}, nil)
	assert.Error(t, err)
}

func TestBindUnchecked_StillEnforcesNames(t *testing.T) {
	_, err := BindUnchecked(addSignature(t), nil, map[string]any{"bogus": 1})
	assert.Error(t, err)
}
