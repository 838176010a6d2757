package result

// Result is the variant over SuiteResult and CaseResult. The two node
// kinds are dispatched by type switch, not by overriding; resultNode
// seals the set.
type Result interface {
	// Name returns the declaration path of the node.
	Name() []string
	// Mark returns the node's own declared mark.
	Mark() Mark
	// AllTests flattens the subtree to leaf runnable outcomes.
	AllTests() []*RunResult
	// AllMatchingMarks flattens nodes whose own mark is in the set.
	AllMatchingMarks(marks ...Mark) []Result
	// Equals reports structural equality, comparing failure messages
	// rather than raw error values.
	Equals(Result) bool

	resultNode()
}

// Counts tallies leaf runnable outcomes by status.
type Counts struct {
	Pass    int `json:"pass"`
	Fail    int `json:"fail"`
	Skip    int `json:"skip"`
	Timeout int `json:"timeout"`
	Total   int `json:"total"`
}

// Success reports whether the tally contains no failures or timeouts.
func (c Counts) Success() bool {
	return c.Fail == 0 && c.Timeout == 0
}
