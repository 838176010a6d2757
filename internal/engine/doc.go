// Package engine executes a declared suite tree and assembles its result
// tree.
//
// ARCHITECTURE:
//
// Single-threaded sequential execution:
// Every runnable — beforeAll, beforeEach, test body, afterEach, afterAll —
// runs strictly one at a time, in declaration order, depth-first. This
// ensures:
// - Predictable hook nesting (enter outside-in, exit inside-out)
// - Reproducible result trees for golden comparison
// - Simple reasoning about fixture state
//
// The only concurrency in the package is the timeout race: a runnable's
// completion is raced against a clock deadline, and whichever settles
// first becomes the outcome. A timeout does not abort the function — no
// preemption is assumed — so a late completion is observed and discarded.
// A truly unbounded synchronous loop cannot be interrupted here; that
// case belongs to an out-of-process supervisor, which is why the result
// tree serializes.
//
// Mark inheritance is computed fresh on every run, top-down, starting
// from parent mark only at the root. The inherited mark decides
// execution; result nodes record the declared mark.
//
// Once inside Run, nothing escapes as an error under normal operation:
// every body or hook failure becomes part of the result tree. The
// pre-flight checks (renderer resolution, nil suite) are the exception,
// because they mean the run itself is misconfigured.
package engine
