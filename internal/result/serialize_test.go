package result

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultTree builds a tree exercising every node kind and status.
func resultTree() *SuiteResult {
	return NewSuiteResult([]string{"calc"}, "calc.yaml", MarkNone,
		[]*CaseResult{NewCaseResult(MarkNone, nil, Pass([]string{"calc", "beforeAll()"}, "calc.yaml"), nil)},
		[]*CaseResult{NewCaseResult(MarkNone, nil, Pass([]string{"calc", "afterAll()"}, "calc.yaml"), nil)},
		[]Result{
			NewCaseResult(MarkNone,
				[]*RunResult{Pass([]string{"calc", "beforeEach()"}, "calc.yaml")},
				Pass([]string{"calc", "adds"}, "calc.yaml"),
				[]*RunResult{Pass([]string{"calc", "afterEach()"}, "calc.yaml")}),
			NewCaseResult(MarkOnly, nil,
				Fail([]string{"calc", "divides"}, "calc.yaml", errors.New("division by zero"), MarkOnly,
					func([]string, any, Mark, string) string { return "rendered failure" }),
				nil),
			NewCaseResult(MarkNone, nil,
				Timeout([]string{"calc", "slow"}, "calc.yaml", 2*time.Second), nil),
			NewSuiteResult([]string{"calc", "edge cases"}, "calc.yaml", MarkSkip, nil, nil,
				[]Result{NewCaseResult(MarkNone, nil, Skip([]string{"calc", "edge cases", "later"}, "calc.yaml"), nil)}),
		})
}

func TestSerialize_RoundTrip(t *testing.T) {
	original := resultTree()

	data, err := Serialize(original)
	require.NoError(t, err)

	restored, err := Deserialize(data)
	require.NoError(t, err)

	assert.True(t, original.Equals(restored), "deserialized tree must be Equals-identical")
	assert.True(t, restored.Equals(original))

	// Counts are derived from the tree, so they survive the boundary too.
	restoredSuite, ok := restored.(*SuiteResult)
	require.True(t, ok)
	assert.Equal(t, original.Count(), restoredSuite.Count())
}

func TestSerialize_RoundTrip_DropsRawError(t *testing.T) {
	thrown := errors.New("division by zero")
	fail := Fail([]string{"x"}, "", thrown, MarkNone, nil)
	original := NewSuiteResult([]string{"root"}, "", MarkNone, nil, nil,
		[]Result{NewCaseResult(MarkNone, nil, fail, nil)})

	data, err := Serialize(original)
	require.NoError(t, err)
	restored, err := Deserialize(data)
	require.NoError(t, err)

	restoredCase, ok := restored.(*SuiteResult).Children()[0].(*CaseResult)
	require.True(t, ok)
	assert.Nil(t, restoredCase.It().Err(), "raw thrown value does not cross the boundary")
	assert.Equal(t, "division by zero", restoredCase.It().ErrorMessage())
	assert.True(t, original.Equals(restored), "equality ignores the raw value")
}

func TestSerialize_TimeoutInMilliseconds(t *testing.T) {
	original := NewSuiteResult([]string{"root"}, "", MarkNone, nil, nil,
		[]Result{NewCaseResult(MarkNone, nil, Timeout([]string{"root", "slow"}, "", 1500*time.Millisecond), nil)})

	data, err := Serialize(original)
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))
	it := tree["children"].([]any)[0].(map[string]any)["it"].(map[string]any)
	assert.Equal(t, float64(1500), it["timeout"])

	restored, err := Deserialize(data)
	require.NoError(t, err)
	run := restored.AllTests()[0]
	assert.Equal(t, 1500*time.Millisecond, run.Timeout())
}

func TestSerialize_TimeoutMillisecondGranularity(t *testing.T) {
	// Limits are recorded in whole milliseconds; sub-millisecond
	// remainders truncate at the boundary.
	original := NewSuiteResult([]string{"root"}, "", MarkNone, nil, nil,
		[]Result{NewCaseResult(MarkNone, nil, Timeout([]string{"root", "fast"}, "", 1500*time.Microsecond), nil)})

	data, err := Serialize(original)
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))
	it := tree["children"].([]any)[0].(map[string]any)["it"].(map[string]any)
	assert.Equal(t, float64(1), it["timeout"])

	restored, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, 1*time.Millisecond, restored.AllTests()[0].Timeout())
}

func TestSerialize_UnnamedRoot(t *testing.T) {
	// Synthetic failure wrappers for unresolvable manifests hang off an
	// unnamed root. The empty path must serialize as an array, not null.
	original := NewSuiteResult(nil, "", MarkNone, nil, nil,
		[]Result{NewCaseResult(MarkNone, nil,
			Fail([]string{"error when importing calc.yaml"}, "calc.yaml",
				errors.New("no such file"), MarkNone, nil),
			nil)})

	data, err := Serialize(original)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")

	restored, err := Deserialize(data)
	require.NoError(t, err)
	assert.True(t, original.Equals(restored))
	assert.Equal(t, Counts{Fail: 1, Total: 1}, restored.(*SuiteResult).Count())
}

func TestSerialize_TaggedNodes(t *testing.T) {
	data, err := Serialize(resultTree())
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))
	assert.Equal(t, "SuiteResult", tree["type"])

	child := tree["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "CaseResult", child["type"])
	assert.Equal(t, "RunResult", child["it"].(map[string]any)["type"])
}

func TestDeserialize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"unknown node type", `{"type":"Mystery"}`},
		{"missing type", `{"name":["x"]}`},
		{"bad status", `{"type":"CaseResult","mark":"none","it":{"type":"RunResult","name":["x"],"status":"exploded"}}`},
		{"bad mark", `{"type":"CaseResult","mark":"maybe","it":{"type":"RunResult","name":["x"],"status":"pass"}}`},
		{"non-numeric timeout", `{"type":"CaseResult","mark":"none","it":{"type":"RunResult","name":["x"],"status":"timeout","timeout":"2s"}}`},
		{"case without body", `{"type":"CaseResult","mark":"none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
