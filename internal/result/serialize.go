package result

import (
	"encoding/json"
	"fmt"
	"time"
)

// Node type tags in the serialized tree.
const (
	typeSuiteResult = "SuiteResult"
	typeCaseResult  = "CaseResult"
	typeRunResult   = "RunResult"
)

// Serialize converts a result tree to its tagged JSON form. The form is
// JSON-safe and self-describing so it can cross a process boundary; raw
// thrown values are not included, only their message and rendering.
// Timeout limits are recorded at millisecond granularity; sub-millisecond
// remainders do not survive the boundary.
func Serialize(r Result) ([]byte, error) {
	return json.Marshal(toTree(r))
}

// Deserialize reconstructs a result tree from its tagged JSON form. The
// reconstructed tree is Equals-identical to the serialized one; raw
// thrown values are intentionally absent.
func Deserialize(data []byte) (Result, error) {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("deserialize result: %w", err)
	}
	return fromTree(tree)
}

// toTree converts any node to its map form, dispatching on the variant.
func toTree(r Result) map[string]any {
	switch node := r.(type) {
	case *SuiteResult:
		return node.serialize()
	case *CaseResult:
		return node.serialize()
	default:
		panic(fmt.Sprintf("result: unknown node kind %T", r))
	}
}

func (r *RunResult) serialize() map[string]any {
	m := map[string]any{
		"type":   typeRunResult,
		"name":   nonNilName(r.name),
		"status": string(r.status),
	}
	if r.filename != "" {
		m["filename"] = r.filename
	}
	switch r.status {
	case StatusFail:
		m["errorMessage"] = r.errorMessage
		if r.errorRender != "" {
			m["errorRender"] = r.errorRender
		}
	case StatusTimeout:
		m["timeout"] = r.limit.Milliseconds()
	}
	return m
}

func (c *CaseResult) serialize() map[string]any {
	return map[string]any{
		"type":       typeCaseResult,
		"mark":       string(c.mark),
		"beforeEach": serializeRuns(c.beforeEach),
		"afterEach":  serializeRuns(c.afterEach),
		"it":         c.it.serialize(),
	}
}

func (s *SuiteResult) serialize() map[string]any {
	children := make([]any, len(s.children))
	for i, child := range s.children {
		children[i] = toTree(child)
	}
	m := map[string]any{
		"type":      typeSuiteResult,
		"name":      nonNilName(s.name),
		"mark":      string(s.mark),
		"beforeAll": serializeCases(s.beforeAll),
		"afterAll":  serializeCases(s.afterAll),
		"children":  children,
	}
	if s.filename != "" {
		m["filename"] = s.filename
	}
	return m
}

func serializeRuns(runs []*RunResult) []any {
	out := make([]any, len(runs))
	for i, r := range runs {
		out[i] = r.serialize()
	}
	return out
}

func serializeCases(cases []*CaseResult) []any {
	out := make([]any, len(cases))
	for i, c := range cases {
		out[i] = c.serialize()
	}
	return out
}

// fromTree reconstructs a suite or case node from its map form.
func fromTree(m map[string]any) (Result, error) {
	tag, _ := m["type"].(string)
	switch tag {
	case typeSuiteResult:
		return suiteFromTree(m)
	case typeCaseResult:
		return caseFromTree(m)
	default:
		return nil, fmt.Errorf("deserialize result: unknown node type %q", tag)
	}
}

func suiteFromTree(m map[string]any) (*SuiteResult, error) {
	name, err := stringList(m["name"])
	if err != nil {
		return nil, fmt.Errorf("suite name: %w", err)
	}
	mark, err := ParseMark(stringField(m, "mark"))
	if err != nil {
		return nil, err
	}
	beforeAll, err := casesFromTree(m["beforeAll"])
	if err != nil {
		return nil, fmt.Errorf("beforeAll: %w", err)
	}
	afterAll, err := casesFromTree(m["afterAll"])
	if err != nil {
		return nil, fmt.Errorf("afterAll: %w", err)
	}
	rawChildren, _ := m["children"].([]any)
	children := make([]Result, 0, len(rawChildren))
	for i, raw := range rawChildren {
		childMap, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("child %d: not an object", i)
		}
		child, err := fromTree(childMap)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, child)
	}
	return NewSuiteResult(name, stringField(m, "filename"), mark, beforeAll, afterAll, children), nil
}

func caseFromTree(m map[string]any) (*CaseResult, error) {
	mark, err := ParseMark(stringField(m, "mark"))
	if err != nil {
		return nil, err
	}
	itMap, ok := m["it"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("case result missing it")
	}
	it, err := runFromTree(itMap)
	if err != nil {
		return nil, fmt.Errorf("it: %w", err)
	}
	beforeEach, err := runsFromTree(m["beforeEach"])
	if err != nil {
		return nil, fmt.Errorf("beforeEach: %w", err)
	}
	afterEach, err := runsFromTree(m["afterEach"])
	if err != nil {
		return nil, fmt.Errorf("afterEach: %w", err)
	}
	return NewCaseResult(mark, beforeEach, it, afterEach), nil
}

func runFromTree(m map[string]any) (*RunResult, error) {
	if tag, _ := m["type"].(string); tag != typeRunResult {
		return nil, fmt.Errorf("expected RunResult, got %q", m["type"])
	}
	name, err := stringList(m["name"])
	if err != nil {
		return nil, fmt.Errorf("run name: %w", err)
	}
	status, err := ParseStatus(stringField(m, "status"))
	if err != nil {
		return nil, err
	}
	r := &RunResult{
		name:         name,
		filename:     stringField(m, "filename"),
		status:       status,
		errorMessage: stringField(m, "errorMessage"),
		errorRender:  stringField(m, "errorRender"),
	}
	if raw, ok := m["timeout"]; ok {
		ms, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("run timeout: not a number")
		}
		r.limit = time.Duration(ms) * time.Millisecond
	}
	return r, nil
}

func runsFromTree(raw any) ([]*RunResult, error) {
	list, _ := raw.([]any)
	out := make([]*RunResult, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d: not an object", i)
		}
		r, err := runFromTree(m)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func casesFromTree(raw any) ([]*CaseResult, error) {
	list, _ := raw.([]any)
	out := make([]*CaseResult, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d: not an object", i)
		}
		c, err := caseFromTree(m)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// nonNilName keeps nil name paths out of the wire form: an unnamed root
// suite (or a synthetic failure wrapper) has an empty path, and that must
// serialize as [] rather than null.
func nonNilName(name []string) []string {
	if name == nil {
		return []string{}
	}
	return name
}

func stringList(raw any) ([]string, error) {
	// Trees written before names were forced non-nil carry null here.
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		// Direct []string happens when the tree never passed through JSON.
		if direct, ok := raw.([]string); ok {
			return direct, nil
		}
		return nil, fmt.Errorf("not a list")
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: not a string", i)
		}
		out[i] = s
	}
	return out, nil
}
