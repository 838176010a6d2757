// Package suite defines the declaration model: suites, cases, and hooks
// built once by running the caller's declaration functions, then executed
// zero or more times by the engine.
//
// Declarations use an explicit builder handle rather than ambient state:
//
//	s := suite.New("checkout", nil, func(b *suite.Builder) {
//		b.BeforeEach(nil, openSession)
//		b.It("rejects an empty cart", nil, func(t *suite.T) error {
//			...
//		})
//		b.Describe("with coupons", nil, func(b *suite.Builder) {
//			b.ItOnly("applies the discount", nil, applyDiscount)
//		})
//	})
//
// A declaration function runs synchronously exactly once, during
// construction. The builder it receives is invalid once it returns;
// construction of another top-level suite while one is being built is
// rejected. Declaration misuse panics with a *MisuseError, because it
// means the test tree itself is malformed, not that a test failed.
//
// The node set is a closed variant (Suite, Case, FailureCase) dispatched
// by type switch in the engine.
package suite
