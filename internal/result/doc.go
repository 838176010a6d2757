// Package result defines the immutable result tree produced by a test run.
//
// Three node kinds form the tree:
//
//   - RunResult: the outcome of executing exactly one runnable function
//     (a test body or a single hook invocation).
//   - CaseResult: one test case, wrapping its body outcome plus the
//     outcomes of every beforeEach/afterEach hook that ran around it.
//   - SuiteResult: an ordered list of child results plus the suite's own
//     beforeAll/afterAll outcomes.
//
// Nodes are constructed atomically and never mutated afterward. Derived
// values (CaseResult.Status, SuiteResult.Count) are computed from the
// leaves so the tree cannot disagree with itself.
//
// Trees serialize to a tagged, JSON-safe form designed to cross a process
// boundary: raw error values are reduced to a message and a pre-rendered
// string at creation time, and Deserialize reconstructs a tree that is
// Equals-identical to the original.
package result
