// Command lattice runs hierarchical test suites from manifest files and
// manages the recorded run history.
package main

import (
	"fmt"
	"os"

	"github.com/lattice-dev/lattice/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
