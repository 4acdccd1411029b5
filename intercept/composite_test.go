package intercept

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/autopsy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ core.Interceptor = (*CompositeInterceptor)(nil)
	_ core.Composite   = (*CompositeInterceptor)(nil)
)

func newTestComposite(m map[string]any, optFns ...func(o *Options)) *CompositeInterceptor {
	fns := append([]func(o *Options){func(o *Options) { o.CPUClock = fixedCPU }}, optFns...)
	return NewCompositeInterceptor(core.Record(m), fns...)
}

func TestCompositeInterceptor_AbsentMembers(t *testing.T) {
	ci := newTestComposite(map[string]any{"nothing": nil})
	assert.Nil(t, ci.Get("nothing"))
	assert.Nil(t, ci.Get("missing"))

	_, ok := ci.Member("missing")
	assert.False(t, ok)
	v, ok := ci.Member("nothing")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Empty(t, ci.Tracked())
}

func TestCompositeInterceptor_IdempotentCallableWrapping(t *testing.T) {
	m := map[string]any{"double": core.Func(double)}
	ci := newTestComposite(m)

	first := ci.Get("double")
	second := ci.Get("double")
	require.IsType(t, &CallInterceptor{}, first)
	assert.Same(t, first, second)
	assert.Same(t, first, m["double"], "slot must hold the wrapper")
	assert.Equal(t, "double", first.(*CallInterceptor).Name())

	res, err := ci.Call(context.Background(), "double", 2.0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res)
	assert.Len(t, first.(*CallInterceptor).Summary().Fingerprints, 1)
}

func TestCompositeInterceptor_IdentityKeyedByName(t *testing.T) {
	m := map[string]any{"op": core.Func(double)}
	ci := newTestComposite(m)
	original := ci.Get("op").(*CallInterceptor)
	_, _ = original.Call(context.Background(), 1.0)

	// Mutate the underlying composite directly, bypassing the interceptor.
	m["op"] = func(args ...any) any { return "replaced" }

	third := ci.Get("op")
	assert.Same(t, original, third)
	res, err := original.Call(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replaced", res)
	assert.Len(t, original.Summary().Fingerprints, 2)
}

func TestCompositeInterceptor_ExplicitReplacement(t *testing.T) {
	ci := newTestComposite(map[string]any{"op": core.Func(double)})
	original := ci.Get("op")

	ci.Set("op", func(args ...any) any { return 0 })
	replaced := ci.Get("op")
	assert.NotSame(t, original, replaced)
	assert.Same(t, replaced, ci.Summary().Callables["op"])
}

func TestCompositeInterceptor_PrimitiveTracking(t *testing.T) {
	m := map[string]any{"value": 5}
	ci := newTestComposite(m)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 5, ci.Get("value"))
	}
	m["value"] = "x"
	assert.Equal(t, "x", ci.Get("value"))

	rec := ci.Summary().Primitives["value"]
	assert.ElementsMatch(t, []any{5, "x"}, rec.Values)
	assert.Equal(t, 4, rec.Count)
	assert.Equal(t, []any{5, "x"}, rec.Values, "first-seen order")
}

func TestCompositeInterceptor_PrimitivesAreNeverWrapped(t *testing.T) {
	m := map[string]any{"flag": true, "n": 1.5, "s": "text"}
	ci := newTestComposite(m)
	assert.Equal(t, true, ci.Get("flag"))
	assert.Equal(t, 1.5, ci.Get("n"))
	assert.Equal(t, "text", ci.Get("s"))
	assert.Equal(t, true, m["flag"])
	assert.Empty(t, ci.Summary().Callables)
	assert.Len(t, ci.Summary().Primitives, 3)
}

type celsius float64

func TestCompositeInterceptor_NamedPrimitiveTypes(t *testing.T) {
	ci := newTestComposite(map[string]any{"temp": celsius(21.5), "timeout": time.Second})

	assert.Equal(t, celsius(21.5), ci.Get("temp"))
	assert.Equal(t, time.Second, ci.Get("timeout"))
	assert.Equal(t, time.Second, ci.Get("timeout"))

	prims := ci.Summary().Primitives
	require.Contains(t, prims, "timeout")
	assert.Equal(t, []any{time.Second}, prims["timeout"].Values)
	assert.Equal(t, 2, prims["timeout"].Count)
	require.Contains(t, prims, "temp")
	assert.Equal(t, 1, prims["temp"].Count)
	assert.Len(t, ci.Tracked(), 2)
}

func TestCompositeInterceptor_TypedFuncMembers(t *testing.T) {
	m := map[string]any{"typed": func(x int) int { return x * 3 }}
	ci := newTestComposite(m)

	wrapped, ok := ci.Get("typed").(*CallInterceptor)
	require.True(t, ok)
	assert.Same(t, wrapped, m["typed"])

	res, err := ci.Call(context.Background(), "typed", 4)
	require.NoError(t, err)
	assert.Equal(t, 12, res)

	fps := wrapped.Summary().Fingerprints
	require.Len(t, fps, 1)
	assert.Equal(t, []any{4}, fps[0].Args)
	assert.Equal(t, 12, fps[0].Result)
	assert.Contains(t, ci.Tracked(), "typed")

	_, err = ci.Call(context.Background(), "typed", "four")
	assert.ErrorIs(t, err, core.ErrArgumentMismatch)
	assert.Len(t, wrapped.Summary().Fingerprints, 1)
}

func TestCompositeInterceptor_OtherKindsPassThrough(t *testing.T) {
	list := []int{1, 2}
	ci := newTestComposite(map[string]any{"list": list})
	assert.Equal(t, list, ci.Get("list"))
	assert.Empty(t, ci.Tracked())
}

func TestCompositeInterceptor_RecursiveWrapping(t *testing.T) {
	inner := map[string]any{"double": core.Func(double), "depth": 2}
	outer := map[string]any{"inner": inner}
	ci := newTestComposite(outer)

	child, ok := ci.Composite("inner")
	require.True(t, ok)
	again, _ := ci.Composite("inner")
	assert.Same(t, child, again)
	assert.Same(t, child, outer["inner"])
	assert.Equal(t, "inner", child.Name())

	res, err := child.Call(context.Background(), "double", 4.0)
	require.NoError(t, err)
	assert.Equal(t, 8.0, res)
}

func TestCompositeInterceptor_NonRecursive(t *testing.T) {
	inner := map[string]any{"x": 1}
	ci := newTestComposite(map[string]any{"inner": inner}, func(o *Options) { o.Recursive = false })
	got := ci.Get("inner")
	assert.Equal(t, inner, got)
	assert.Empty(t, ci.Summary().Composites[1:])
}

func TestCompositeInterceptor_CallNonCallable(t *testing.T) {
	ci := newTestComposite(map[string]any{"n": 1})
	_, err := ci.Call(context.Background(), "n")
	assert.ErrorIs(t, err, ErrNotCallable)
}

func TestCompositeInterceptor_DeepEnumerate(t *testing.T) {
	leaf := map[string]any{"fn": core.Func(double)}
	mid := map[string]any{"leaf": leaf, "n": 3}
	root := newTestComposite(map[string]any{"mid": mid, "raw": 7})

	midCI, _ := root.Composite("mid")
	leafCI, _ := midCI.Composite("leaf")
	_ = leafCI.Get("fn")
	_ = root.Get("raw")

	deep := root.DeepEnumerate()
	require.Len(t, deep, 3)
	assert.Same(t, root, deep[0])
	assert.Contains(t, deep, midCI)
	assert.Contains(t, deep, leafCI)

	view := root.Summary()
	assert.Empty(t, view.Callables, "callables are reported shallow")
	assert.Len(t, view.Composites, 3)
	assert.Equal(t, 1, view.Primitives["raw"].Count)
}

func TestCompositeInterceptor_DeepEnumerateTerminatesOnCycles(t *testing.T) {
	a := newTestComposite(map[string]any{})
	b := newTestComposite(map[string]any{})
	a.composites["b"] = b
	b.composites["a"] = a
	b.composites["self"] = b

	deep := a.DeepEnumerate()
	assert.Len(t, deep, 2)
}

func TestCompositeInterceptor_SelfReferencingRecord(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	ci := newTestComposite(m)

	child, ok := ci.Composite("self")
	require.True(t, ok)
	again, ok := child.Composite("self")
	require.True(t, ok)
	assert.Same(t, child, again)
	assert.Len(t, ci.DeepEnumerate(), 2)
}

func TestCompositeInterceptor_Dump(t *testing.T) {
	ci := newTestComposite(map[string]any{
		"fn":    core.Func(double),
		"inner": map[string]any{},
		"n":     1,
	})
	_ = ci.Get("fn")
	_ = ci.Get("inner")
	_ = ci.Get("n")

	var composites map[string]*CompositeInterceptor
	var callables map[string]*CallInterceptor
	var primitives map[string]core.PrimitiveSummary
	ci.Dump(func(c map[string]*CompositeInterceptor, f map[string]*CallInterceptor, p map[string]core.PrimitiveSummary) {
		composites, callables, primitives = c, f, p
	})
	assert.Len(t, composites, 1)
	assert.Len(t, callables, 1)
	assert.Len(t, primitives, 1)

	view := ci.Summary()
	assert.Empty(t, view.Callables)
	assert.Empty(t, view.Primitives)
	assert.Len(t, view.Composites, 1)
	assert.Empty(t, ci.Tracked())

	ci.Dump(nil)
}

func TestCompositeInterceptor_Tracked(t *testing.T) {
	ci := newTestComposite(map[string]any{"fn": core.Func(double), "n": 1, "inner": map[string]any{}})
	_ = ci.Get("fn")
	_ = ci.Get("n")
	_ = ci.Get("inner")

	tracked := ci.Tracked()
	assert.IsType(t, &CallInterceptor{}, tracked["fn"])
	assert.IsType(t, &CompositeInterceptor{}, tracked["inner"])
	assert.Equal(t, core.PrimitiveSummary{Values: []any{1}, Count: 1}, tracked["n"])
}

func TestCompositeInterceptor_Snapshot(t *testing.T) {
	ci := newTestComposite(map[string]any{
		"fn":    core.Func(double),
		"inner": map[string]any{"g": core.Func(double), "flag": true},
	})
	_, err := ci.Call(context.Background(), "fn", 1.0)
	require.NoError(t, err)
	inner, _ := ci.Composite("inner")
	_, err = inner.Call(context.Background(), "g", 2.0)
	require.NoError(t, err)
	_ = inner.Get("flag")

	snap := ci.Snapshot()
	assert.Equal(t, ci.ID(), snap.ID)
	require.Contains(t, snap.Callables, "fn")
	assert.Len(t, snap.Callables["fn"].Fingerprints, 1)
	require.Len(t, snap.Nested, 1)
	assert.Equal(t, inner.ID(), snap.Nested[0].ID)
	assert.Len(t, snap.Nested[0].Callables["g"].Fingerprints, 1)
	assert.Equal(t, 1, snap.Nested[0].Primitives["flag"].Count)
	assert.Nil(t, snap.Nested[0].Nested)
}
