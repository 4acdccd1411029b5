package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/internal/testutil"
)

func TestFileReporter_PayloadShape(t *testing.T) {
	fp := testutil.NewFingerprintBuilder().
		Args(2, 3).
		Result(5).
		Duration(1500 * time.Microsecond).
		CPU(time.Millisecond, 0).
		Build()
	p := testutil.NewPayloadBuilder("sess-1").
		ExitCode(3).
		Callable("add", fp).
		Composite(core.CompositeSummary{
			ID:         "c-1",
			Callables:  map[string]core.CallSummary{},
			Primitives: map[string]core.PrimitiveSummary{"rate": {Values: []any{0.5}, Count: 2}},
		}).
		Error("boom", "goroutine 1 [running]:", "main.main()").
		AsyncFailure(errors.New("rejected"), map[string]any{"id": "task-1"}).
		Build()

	path := filepath.Join(t.TempDir(), "autopsy.txt")
	require.NoError(t, NewFileReporter(path).Report(context.Background(), p))

	docs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	doc := docs[0]

	assert.Equal(t, "sess-1", doc["sessionId"])
	assert.EqualValues(t, 3, doc["exitCode"])

	callables := doc["trackedCallables"].([]any)
	require.Len(t, callables, 1)
	add := callables[0].(map[string]any)
	assert.Equal(t, "add", add["name"])
	assert.Empty(t, add["misfires"])
	fps := add["fingerprints"].([]any)
	require.Len(t, fps, 1)
	first := fps[0].(map[string]any)
	assert.Equal(t, []any{2.0, 3.0}, first["args"])
	assert.EqualValues(t, 5, first["result"])
	assert.EqualValues(t, 1500*time.Microsecond, first["duration"])

	composites := doc["trackedComposites"].([]any)
	rate := composites[0].(map[string]any)["primitives"].(map[string]any)["rate"].(map[string]any)
	assert.EqualValues(t, 2, rate["count"])
	assert.NotContains(t, composites[0], "nested")

	errs := doc["errors"].([]any)
	assert.Equal(t, "boom", errs[0].(map[string]any)["message"])

	failures := doc["asyncFailures"].([]any)
	assert.Equal(t, "rejected", failures[0].(map[string]any)["reason"])
}
