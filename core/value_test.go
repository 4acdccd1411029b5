package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsFunc_Shapes(t *testing.T) {
	ctx := context.Background()

	plain, ok := AsFunc(func(args ...any) any { return len(args) })
	require.True(t, ok)
	res, err := plain(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res)

	boom := errors.New("boom")
	failing, ok := AsFunc(func(...any) (any, error) { return nil, boom })
	require.True(t, ok)
	_, err = failing(ctx)
	assert.ErrorIs(t, err, boom)

	type key struct{}
	withCtx, ok := AsFunc(func(ctx context.Context, _ ...any) (any, error) { return ctx.Value(key{}), nil })
	require.True(t, ok)
	res, err = withCtx(context.WithValue(ctx, key{}, "v"))
	require.NoError(t, err)
	assert.Equal(t, "v", res)

	_, ok = AsFunc("not a func")
	assert.False(t, ok)
	var nilPlain func(...any) any
	_, ok = AsFunc(nilPlain)
	assert.False(t, ok)
}

func TestAsComposite_SharesStorage(t *testing.T) {
	m := map[string]any{"a": 1}
	c, ok := AsComposite(m)
	require.True(t, ok)
	c.SetMember("b", 2)
	assert.Equal(t, 2, m["b"])

	v, ok := c.Member("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = AsComposite(42)
	assert.False(t, ok)
}

func TestRecord_Names(t *testing.T) {
	r := Record{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}

func TestCPUTime_Arithmetic(t *testing.T) {
	later := CPUTime{User: 5 * time.Millisecond, System: 3 * time.Millisecond}
	earlier := CPUTime{User: 2 * time.Millisecond, System: time.Millisecond}
	d := later.Sub(earlier)
	assert.Equal(t, 3*time.Millisecond, d.User)
	assert.Equal(t, 2*time.Millisecond, d.System)
	assert.Equal(t, 5*time.Millisecond, d.Total())
}

func TestReporterFunc(t *testing.T) {
	var got *Payload
	r := ReporterFunc(func(_ context.Context, p *Payload) error { got = p; return nil })
	p := &Payload{ExitCode: 3}
	require.NoError(t, r.Report(context.Background(), p))
	assert.Same(t, p, got)
}

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestAsFunc_TypedSignatures(t *testing.T) {
	ctx := context.Background()

	t.Run("single result", func(t *testing.T) {
		fn, ok := AsFunc(func(x int) int { return x * 2 })
		require.True(t, ok)
		res, err := fn(ctx, 21)
		require.NoError(t, err)
		assert.Equal(t, 42, res)
	})

	t.Run("lossless numeric conversion", func(t *testing.T) {
		fn, ok := AsFunc(func(x float64) float64 { return x / 2 })
		require.True(t, ok)
		res, err := fn(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 1.5, res)

		toInt, _ := AsFunc(func(x int) int { return x })
		_, err = toInt(ctx, 2.5)
		assert.ErrorIs(t, err, ErrArgumentMismatch)
	})

	t.Run("trailing error", func(t *testing.T) {
		boom := errors.New("boom")
		fn, ok := AsFunc(func(s string) (int, error) {
			if s == "" {
				return 0, boom
			}
			return len(s), nil
		})
		require.True(t, ok)
		res, err := fn(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, 3, res)
		_, err = fn(ctx, "")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("context and variadic", func(t *testing.T) {
		type key struct{}
		fn, ok := AsFunc(func(ctx context.Context, prefix string, parts ...int) string {
			return fmt.Sprint(ctx.Value(key{}), prefix, parts)
		})
		require.True(t, ok)
		res, err := fn(context.WithValue(ctx, key{}, "v"), "p", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, "vp[1 2]", res)
	})

	t.Run("no and many results", func(t *testing.T) {
		called := false
		none, _ := AsFunc(func() { called = true })
		res, err := none(ctx)
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.True(t, called)

		many, _ := AsFunc(func(a, b int) (int, int) { return b, a })
		res, err = many(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []any{2, 1}, res)
	})

	t.Run("arity and type mismatch", func(t *testing.T) {
		fn, _ := AsFunc(func(x int) int { return x })
		_, err := fn(ctx)
		assert.ErrorIs(t, err, ErrArgumentMismatch)
		_, err = fn(ctx, "x")
		assert.ErrorIs(t, err, ErrArgumentMismatch)
	})

	t.Run("nil argument is the zero value", func(t *testing.T) {
		fn, _ := AsFunc(func(p *int) bool { return p == nil })
		res, err := fn(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, true, res)
	})
}
