// Command soak runs the contention scenarios of internal/soak from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/tezrry/baremetal/pkg/logging"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	code := exitSuccess
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "soak:", err)
		logging.Error(err)
		code = exitFailure
	}

	logging.Cleanup()
	os.Exit(code)
}
